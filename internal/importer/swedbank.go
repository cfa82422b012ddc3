package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/csv2ledger/csv2ledger/internal/model"
)

// Swedbank export column names.
const (
	ColClearing        = "Clearingnummer"
	ColAccount         = "Kontonummer"
	ColCurrency        = "Valuta"
	ColPostingDate     = "Bokföringsdag"
	ColTransactionDate = "Transaktionsdag"
	ColReference       = "Referens"
	ColDescription     = "Beskrivning"
	ColAmount          = "Belopp"
	ColBookedBalance   = "BokförtSaldo"
)

// columnAliases lists alternative header spellings.
var columnAliases = map[string]string{
	"Bokfört saldo": ColBookedBalance,
}

var requiredColumns = []string{
	ColClearing,
	ColAccount,
	ColCurrency,
	ColPostingDate,
	ColTransactionDate,
	ColReference,
	ColDescription,
	ColAmount,
	ColBookedBalance,
}

// ErrMissingColumn is returned when the header lacks a required column.
var ErrMissingColumn = errors.New("missing column")

// SchemaError reports a row that does not match the Swedbank schema.
type SchemaError struct {
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *SchemaError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("row %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("row %d: parsing %s %q: %v", e.Line, e.Column, e.Value, e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// SwedbankReader streams rows from a Swedbank CSV export. Columns are
// matched by header name; unknown columns are ignored.
type SwedbankReader struct {
	cr      *csv.Reader
	columns map[string]int
}

// NewSwedbankReader reads the header line and checks that every required
// column is present.
func NewSwedbankReader(r io.Reader) (*SwedbankReader, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("reading swedbank CSV header: %w", io.ErrUnexpectedEOF)
		}
		return nil, fmt.Errorf("reading swedbank CSV header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if canonical, ok := columnAliases[name]; ok {
			name = canonical
		}
		if _, dup := columns[name]; !dup {
			columns[name] = i
		}
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := columns[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}

	return &SwedbankReader{cr: cr, columns: columns}, nil
}

// Format returns the parser name.
func (s *SwedbankReader) Format() string { return "swedbank" }

// Next returns the next row, or io.EOF after the last one.
func (s *SwedbankReader) Next() (model.Row, error) {
	rec, err := s.cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return model.Row{}, io.EOF
		}
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			return model.Row{}, &SchemaError{Line: perr.Line, Err: perr.Err}
		}
		return model.Row{}, fmt.Errorf("reading swedbank CSV: %w", err)
	}

	line, _ := s.cr.FieldPos(0)
	return s.parseRow(rec, line)
}

// ReadAll returns all remaining rows.
func (s *SwedbankReader) ReadAll() ([]model.Row, error) {
	var rows []model.Row
	for {
		row, err := s.Next()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
}

func (s *SwedbankReader) parseRow(rec []string, line int) (model.Row, error) {
	p := rowParser{rec: rec, columns: s.columns, line: line}

	row := model.Row{
		ClearingNumber:  uint32(p.parseUint(ColClearing, 32)),
		AccountNumber:   p.parseUint(ColAccount, 64),
		Currency:        p.str(ColCurrency),
		PostingDate:     p.parseDate(ColPostingDate),
		TransactionDate: p.parseDate(ColTransactionDate),
		Reference:       p.str(ColReference),
		Description:     p.str(ColDescription),
		Amount:          p.parseDecimal(ColAmount),
		BookedBalance:   p.parseDecimal(ColBookedBalance),
	}
	if p.err != nil {
		return model.Row{}, p.err
	}
	return row, nil
}

// rowParser keeps the first field error of a record.
type rowParser struct {
	rec     []string
	columns map[string]int
	line    int
	err     error
}

func (p *rowParser) str(col string) string {
	return p.rec[p.columns[col]]
}

func (p *rowParser) fail(col, value string, err error) {
	if p.err == nil {
		p.err = &SchemaError{Line: p.line, Column: col, Value: value, Err: err}
	}
}

func (p *rowParser) parseUint(col string, bits int) uint64 {
	v := p.str(col)
	n, err := strconv.ParseUint(v, 10, bits)
	if err != nil {
		p.fail(col, v, err)
		return 0
	}
	return n
}

func (p *rowParser) parseDate(col string) civil.Date {
	v := p.str(col)
	d, err := civil.ParseDate(v)
	if err != nil {
		p.fail(col, v, err)
		return civil.Date{}
	}
	return d
}

func (p *rowParser) parseDecimal(col string) decimal.Decimal {
	v := p.str(col)
	d, err := decimal.NewFromString(v)
	if err != nil {
		p.fail(col, v, err)
		return decimal.Zero
	}
	return d
}
