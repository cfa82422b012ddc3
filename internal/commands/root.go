package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/csv2ledger/csv2ledger/internal/buildinfo"
	"github.com/csv2ledger/csv2ledger/internal/logger"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
// The root command itself performs the conversion.
func NewRootCommand() *cobra.Command {
	var verbose bool
	var opts convertOptions

	rootCmd := &cobra.Command{
		Use:     "csv2ledger <input> <output>",
		Short:   "Convert Swedbank CSV exports to ledger entries",
		Long:    "Convert a Swedbank account-statement CSV export into plain-text ledger entries.\nUse - for stdin or stdout.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		Args:    cobra.ExactArgs(2),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			log := logger.New(cmd.ErrOrStderr(), verbose)
			cmd.SetContext(logger.WithContext(ctx, log))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, args[0], args[1], opts)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	flags := rootCmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "config file (default: platform config dir)")
	flags.StringVar(&opts.encoding, "encoding", "auto", "input encoding: auto, utf-8 or windows-1252")
	flags.IntVar(&opts.workers, "workers", 1, "number of rows mapped concurrently")
	flags.BoolVar(&opts.balanceAssertions, "balance-assertions", false, "add the booked balance as a balance assertion on the bank leg")

	rootCmd.AddCommand(newConfigCommand())

	return rootCmd
}
