package convert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csv2ledger/csv2ledger/internal/accounts"
	"github.com/csv2ledger/csv2ledger/internal/config"
	"github.com/csv2ledger/csv2ledger/internal/importer"
	"github.com/csv2ledger/csv2ledger/internal/ledger"
	"github.com/csv2ledger/csv2ledger/internal/model"
)

// sliceSource replays rows, then returns err (io.EOF when nil).
type sliceSource struct {
	rows []model.Row
	err  error
}

func (s *sliceSource) Next() (model.Row, error) {
	if len(s.rows) == 0 {
		if s.err != nil {
			return model.Row{}, s.err
		}
		return model.Row{}, io.EOF
	}
	row := s.rows[0]
	s.rows = s.rows[1:]
	return row, nil
}

func numberedRows(n int) []model.Row {
	rows := make([]model.Row, n)
	for i := range rows {
		amount := decimal.New(int64(i*7-n), -2)
		rows[i] = model.Row{
			ClearingNumber:  8327,
			AccountNumber:   933108747,
			Currency:        "SEK",
			PostingDate:     civil.Date{Year: 2021, Month: 3, Day: 1 + i%28},
			TransactionDate: civil.Date{Year: 2021, Month: 3, Day: 1 + i%28},
			Reference:       fmt.Sprintf("REF%d", i),
			Description:     fmt.Sprintf("ROW %d", i),
			Amount:          amount,
			BookedBalance:   decimal.NewFromInt(1000),
		}
	}
	return rows
}

func testdataReader(t *testing.T) *importer.SwedbankReader {
	t.Helper()
	f, err := os.Open("../../testdata/swedbank.csv")
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })

	r, err := importer.NewSwedbankReader(f)
	require.NoError(t, err)
	return r
}

func TestConvert_Testdata(t *testing.T) {
	var buf bytes.Buffer
	c := New(accounts.NewResolver(nil), Options{})

	stats, err := c.Convert(context.Background(), testdataReader(t), &buf)
	require.NoError(t, err)
	assert.Equal(t, Stats{Rows: 4, Expenses: 2, Incomes: 2}, stats)

	want, err := os.ReadFile("../../testdata/swedbank.ledger")
	require.NoError(t, err)
	assert.Equal(t, string(want), buf.String())
}

func TestConvert_WithConfig(t *testing.T) {
	cfg, err := config.Load("../../testdata/config.yaml")
	require.NoError(t, err)

	var buf bytes.Buffer
	c := New(accounts.NewResolver(cfg), Options{Render: ledger.RenderOptions{BalanceAssertions: true}})
	_, err = c.Convert(context.Background(), testdataReader(t), &buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "\tTillgångar:Bank:Lönekonto\t-125.50 SEK = 3201.12 SEK\n\tKostnad:Mat\t125.50 SEK\n")
	assert.Contains(t, out, "\tInkomst:Lön\t-25000.00 SEK\n")
	assert.Contains(t, out, "\tKostnad:Import:SL ACCESS\t970.00 SEK\n")
	assert.Contains(t, out, "2021-03-01=2021-03-02 SL ACCESS\n")
}

func TestConvert_Empty(t *testing.T) {
	var buf bytes.Buffer
	stats, err := New(accounts.NewResolver(nil), Options{}).Convert(context.Background(), &sliceSource{}, &buf)
	require.NoError(t, err)
	assert.Zero(t, stats.Rows)
	assert.Empty(t, buf.String())
}

func TestConvert_ParallelMatchesSequential(t *testing.T) {
	rows := numberedRows(1000)
	r := accounts.NewResolver(nil)

	var seq bytes.Buffer
	seqStats, err := New(r, Options{}).Convert(context.Background(), &sliceSource{rows: append([]model.Row(nil), rows...)}, &seq)
	require.NoError(t, err)

	for _, workers := range []int{2, 3, 8} {
		var par bytes.Buffer
		parStats, err := New(r, Options{Workers: workers}).Convert(context.Background(), &sliceSource{rows: append([]model.Row(nil), rows...)}, &par)
		require.NoError(t, err)
		assert.Equal(t, seqStats, parStats, "workers=%d", workers)
		assert.Equal(t, seq.String(), par.String(), "workers=%d", workers)
	}
}

func TestConvert_PreservesOrder(t *testing.T) {
	rows := numberedRows(300)

	var buf bytes.Buffer
	_, err := New(accounts.NewResolver(nil), Options{Workers: 4}).Convert(context.Background(), &sliceSource{rows: rows}, &buf)
	require.NoError(t, err)

	last := -1
	for _, line := range strings.Split(buf.String(), "\n") {
		if !strings.HasPrefix(line, "\t; referens: REF") {
			continue
		}
		var n int
		_, err := fmt.Sscanf(line, "\t; referens: REF%d", &n)
		require.NoError(t, err)
		assert.Equal(t, last+1, n)
		last = n
	}
	assert.Equal(t, 299, last)
}

func TestConvert_SourceErrorStops(t *testing.T) {
	boom := errors.New("row 3: parsing Belopp")
	for _, workers := range []int{0, 4} {
		var buf bytes.Buffer
		src := &sliceSource{rows: numberedRows(2), err: boom}

		stats, err := New(accounts.NewResolver(nil), Options{Workers: workers}).Convert(context.Background(), src, &buf)
		require.Error(t, err)
		assert.ErrorIs(t, err, boom)
		assert.Less(t, stats.Rows, 3)
	}
}

func TestConvert_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	_, err := New(accounts.NewResolver(nil), Options{}).Convert(ctx, &sliceSource{rows: numberedRows(5)}, &buf)
	assert.ErrorIs(t, err, context.Canceled)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestConvert_WriteError(t *testing.T) {
	_, err := New(accounts.NewResolver(nil), Options{}).Convert(context.Background(), &sliceSource{rows: numberedRows(3)}, failingWriter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

// brokenResolver produces an entry without an asset account.
type brokenResolver struct{}

func (brokenResolver) AssetAccount(uint32, uint64) string { return "" }

func (brokenResolver) CounterAccount(decimal.Decimal, string) string { return "Expenses:X" }

func TestConvert_InvalidEntryIsReported(t *testing.T) {
	var buf bytes.Buffer
	_, err := New(brokenResolver{}, Options{}).Convert(context.Background(), &sliceSource{rows: numberedRows(1)}, &buf)
	require.Error(t, err)
	assert.ErrorIs(t, err, ledger.ErrInvalidEntry)
	assert.Contains(t, err.Error(), `reference "REF0"`)
}
