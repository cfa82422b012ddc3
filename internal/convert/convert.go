package convert

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/csv2ledger/csv2ledger/internal/ledger"
	"github.com/csv2ledger/csv2ledger/internal/logger"
	"github.com/csv2ledger/csv2ledger/internal/model"
)

// rowsPerWorker sizes a batch in parallel mode.
const rowsPerWorker = 64

// RowSource yields decoded rows and returns io.EOF when exhausted.
type RowSource interface {
	Next() (model.Row, error)
}

// Options configures a Converter.
type Options struct {
	Render ledger.RenderOptions
	// Workers > 1 builds entries concurrently. Output order is unchanged.
	Workers int
}

// Stats summarizes a conversion run.
type Stats struct {
	Rows     int
	Expenses int
	Incomes  int
}

func (s *Stats) add(row model.Row) {
	s.Rows++
	if row.IsDebit() {
		s.Expenses++
	} else {
		s.Incomes++
	}
}

// Converter turns bank rows into ledger text.
type Converter struct {
	accounts ledger.AccountResolver
	opts     Options
}

// New creates a Converter.
func New(accounts ledger.AccountResolver, opts Options) *Converter {
	return &Converter{accounts: accounts, opts: opts}
}

// Convert reads every row from src and writes one entry per row to w, in
// input order. It stops at the first error.
func (c *Converter) Convert(ctx context.Context, src RowSource, w io.Writer) (Stats, error) {
	bw := bufio.NewWriter(w)

	var stats Stats
	var err error
	if c.opts.Workers > 1 {
		stats, err = c.convertParallel(ctx, src, bw)
	} else {
		stats, err = c.convertSequential(ctx, src, bw)
	}
	if err != nil {
		return stats, err
	}

	if err := bw.Flush(); err != nil {
		return stats, fmt.Errorf("writing output: %w", err)
	}
	log := logger.FromContext(ctx)
	log.Debug().
		Int("rows", stats.Rows).
		Int("expenses", stats.Expenses).
		Int("incomes", stats.Incomes).
		Msg("conversion finished")
	return stats, nil
}

func (c *Converter) convertSequential(ctx context.Context, src RowSource, w io.Writer) (Stats, error) {
	log := logger.FromContext(ctx)

	var stats Stats
	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		row, err := src.Next()
		if errors.Is(err, io.EOF) {
			return stats, nil
		}
		if err != nil {
			return stats, err
		}

		entry, err := c.build(row)
		if err != nil {
			return stats, err
		}
		if err := ledger.WriteEntry(w, entry, c.opts.Render); err != nil {
			return stats, err
		}
		stats.add(row)
		log.Debug().Str("reference", row.Reference).Str("description", row.Description).Msg("converted row")
	}
}

// convertParallel reads a batch of rows, renders it with a bounded number
// of goroutines and writes the batch in order before reading the next one.
func (c *Converter) convertParallel(ctx context.Context, src RowSource, w io.Writer) (Stats, error) {
	log := logger.FromContext(ctx)
	batchSize := c.opts.Workers * rowsPerWorker

	var stats Stats
	rows := make([]model.Row, 0, batchSize)
	out := make([]string, batchSize)
	for {
		rows = rows[:0]
		eof := false
		for len(rows) < batchSize {
			if err := ctx.Err(); err != nil {
				return stats, err
			}
			row, err := src.Next()
			if errors.Is(err, io.EOF) {
				eof = true
				break
			}
			if err != nil {
				return stats, err
			}
			rows = append(rows, row)
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(c.opts.Workers)
		for i, row := range rows {
			i, row := i, row
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				entry, err := c.build(row)
				if err != nil {
					return err
				}
				out[i] = ledger.Format(entry, c.opts.Render) + "\n"
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return stats, err
		}

		for i, row := range rows {
			if _, err := io.WriteString(w, out[i]); err != nil {
				return stats, fmt.Errorf("writing entry %s: %w", row.TransactionDate, err)
			}
			stats.add(row)
		}
		log.Debug().Int("rows", len(rows)).Msg("converted batch")

		if eof {
			return stats, nil
		}
	}
}

// build maps a row and checks the result. A failure here is a bug in the
// mapping, not bad input.
func (c *Converter) build(row model.Row) (model.Entry, error) {
	entry := ledger.BuildEntry(row, c.accounts)
	if err := ledger.Validate(entry); err != nil {
		return model.Entry{}, fmt.Errorf("building entry for reference %q: %w", row.Reference, err)
	}
	return entry, nil
}
