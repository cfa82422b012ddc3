package model

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// Row represents one parsed Swedbank account-statement line.
type Row struct {
	ClearingNumber  uint32
	AccountNumber   uint64
	Currency        string
	PostingDate     civil.Date // Bokföringsdag
	TransactionDate civil.Date // Transaktionsdag
	Reference       string
	Description     string
	Amount          decimal.Decimal // negative = debit from the bank account
	BookedBalance   decimal.Decimal // balance after this row
}

// IsDebit reports whether the row takes money out of the bank account.
// A zero amount is not a debit.
func (r Row) IsDebit() bool {
	return r.Amount.IsNegative()
}
