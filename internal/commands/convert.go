package commands

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/csv2ledger/csv2ledger/internal/accounts"
	"github.com/csv2ledger/csv2ledger/internal/config"
	"github.com/csv2ledger/csv2ledger/internal/convert"
	"github.com/csv2ledger/csv2ledger/internal/importer"
	"github.com/csv2ledger/csv2ledger/internal/ledger"
	"github.com/csv2ledger/csv2ledger/internal/logger"
	"github.com/csv2ledger/csv2ledger/internal/textenc"
)

const stdio = "-"

type convertOptions struct {
	configPath        string
	encoding          string
	workers           int
	balanceAssertions bool
}

func runConvert(cmd *cobra.Command, input, output string, opts convertOptions) (err error) {
	ctx := cmd.Context()
	log := logger.FromContext(ctx)

	if opts.workers < 1 {
		return fmt.Errorf("--workers must be at least 1, got %d", opts.workers)
	}

	cfg, err := config.Resolve(ctx, opts.configPath)
	if err != nil {
		return err
	}

	raw, err := readInput(cmd, input)
	if err != nil {
		return err
	}
	data, rep, err := textenc.Decode(raw, opts.encoding)
	if err != nil {
		return err
	}
	if rep.Replacements > 0 {
		log.Warn().Int("count", rep.Replacements).Str("encoding", rep.Encoding).Msg("input contained malformed characters")
	}
	log.Debug().Str("encoding", rep.Encoding).Msg("decoded input")

	rows, err := importer.NewSwedbankReader(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("reading %s: %w", input, err)
	}

	w, closeOutput, err := openOutput(cmd, output)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeOutput(); cerr != nil && err == nil {
			err = fmt.Errorf("closing output: %w", cerr)
		}
	}()

	conv := convert.New(accounts.NewResolver(cfg), convert.Options{
		Render:  ledger.RenderOptions{BalanceAssertions: opts.balanceAssertions},
		Workers: opts.workers,
	})
	stats, err := conv.Convert(ctx, rows, w)
	if err != nil {
		return fmt.Errorf("converting %s: %w", input, err)
	}

	log.Info().Int("entries", stats.Rows).Str("output", output).Msg("wrote ledger entries")
	return nil
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == stdio {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return data, nil
}

func openOutput(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == stdio {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("creating output: %w", err)
	}
	return f, f.Close, nil
}
