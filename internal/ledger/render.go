package ledger

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/csv2ledger/csv2ledger/internal/model"
)

// RenderOptions controls optional parts of the text output.
type RenderOptions struct {
	// BalanceAssertions appends " = <balance> <currency>" to legs that carry one.
	BalanceAssertions bool
}

// FormatAmount renders d at its own scale, so "-125.50" stays "-125.50".
func FormatAmount(d decimal.Decimal) string {
	if exp := d.Exponent(); exp < 0 {
		return d.StringFixed(-exp)
	}
	return d.String()
}

// Format renders an entry in ledger text form. The result ends with a
// newline.
//
//	2021-03-01=2021-03-02 ICA SUPERMARKET
//		; referens: REF1
//		Assets:Bank:8327:933108747	-125.50 SEK
//		Expenses:Import:ICA SUPERMARKET	125.50 SEK
func Format(e model.Entry, opts RenderOptions) string {
	var b strings.Builder

	b.WriteString(e.Date.String())
	if e.SecondaryDate != nil {
		b.WriteByte('=')
		b.WriteString(e.SecondaryDate.String())
	}
	b.WriteByte(' ')
	b.WriteString(e.Description)
	b.WriteByte('\n')

	for _, c := range e.Comments {
		b.WriteString("\t; ")
		b.WriteString(c)
		b.WriteByte('\n')
	}

	for _, t := range e.Transactions {
		b.WriteByte('\t')
		b.WriteString(formatTransaction(t, opts))
		b.WriteByte('\n')
	}
	return b.String()
}

func formatTransaction(t model.Transaction, opts RenderOptions) string {
	s := fmt.Sprintf("%s\t%s %s", t.Account, FormatAmount(t.Amount), t.Currency)
	if opts.BalanceAssertions && t.BalanceAssertion != nil {
		s += fmt.Sprintf(" = %s %s", FormatAmount(t.BalanceAssertion.Amount), t.BalanceAssertion.Currency)
	}
	if t.Comment != "" {
		s += " ; " + t.Comment
	}
	return s
}

// WriteEntry writes the rendered entry followed by a blank line.
func WriteEntry(w io.Writer, e model.Entry, opts RenderOptions) error {
	if _, err := io.WriteString(w, Format(e, opts)+"\n"); err != nil {
		return fmt.Errorf("writing entry %s: %w", e.Date, err)
	}
	return nil
}
