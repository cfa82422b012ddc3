package model

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// Balance is an amount of a single commodity.
type Balance struct {
	Amount   decimal.Decimal
	Currency string
}

// Transaction is one leg (posting) of an Entry.
type Transaction struct {
	Account          string // colon-separated path, e.g. "Assets:Bank:8327:933108747"
	Amount           decimal.Decimal
	Currency         string
	BalanceAssertion *Balance // expected account balance after this posting
	Comment          string
}

// TransactionOptions holds the optional parts of a Transaction.
type TransactionOptions struct {
	BalanceAssertion *Balance
	Comment          string
}

// NewTransaction creates a Transaction from its required fields and options.
func NewTransaction(account string, amount decimal.Decimal, currency string, opts TransactionOptions) Transaction {
	return Transaction{
		Account:          account,
		Amount:           amount,
		Currency:         currency,
		BalanceAssertion: opts.BalanceAssertion,
		Comment:          opts.Comment,
	}
}

// Entry is one dated group of postings.
type Entry struct {
	Date          civil.Date
	SecondaryDate *civil.Date
	Description   string
	Comments      []string
	Transactions  []Transaction
}

// EntryOptions holds the optional parts of an Entry.
type EntryOptions struct {
	SecondaryDate *civil.Date
	Comments      []string
}

// NewEntry creates an Entry. The comment slice is copied.
func NewEntry(date civil.Date, description string, txns []Transaction, opts EntryOptions) Entry {
	var comments []string
	if len(opts.Comments) > 0 {
		comments = append([]string(nil), opts.Comments...)
	}
	return Entry{
		Date:          date,
		SecondaryDate: opts.SecondaryDate,
		Description:   description,
		Comments:      comments,
		Transactions:  txns,
	}
}

// Total returns the sum of all transaction amounts.
func (e Entry) Total() decimal.Decimal {
	total := decimal.Zero
	for _, t := range e.Transactions {
		total = total.Add(t.Amount)
	}
	return total
}
