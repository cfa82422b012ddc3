package main

import (
	"context"
	"fmt"
	"os"

	"github.com/csv2ledger/csv2ledger/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
