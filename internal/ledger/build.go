package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/csv2ledger/csv2ledger/internal/model"
)

// ReferencePrefix starts the comment carrying the bank reference.
const ReferencePrefix = "referens: "

// AccountResolver names the two accounts of an imported bank row.
type AccountResolver interface {
	AssetAccount(clearing uint32, account uint64) string
	CounterAccount(amount decimal.Decimal, description string) string
}

// BuildEntry maps one bank row to a balanced two-leg entry: the bank
// account first, carrying the booked balance, then the expense or income
// account with the negated amount.
func BuildEntry(row model.Row, accounts AccountResolver) model.Entry {
	asset := model.NewTransaction(
		accounts.AssetAccount(row.ClearingNumber, row.AccountNumber),
		row.Amount,
		row.Currency,
		model.TransactionOptions{
			BalanceAssertion: &model.Balance{Amount: row.BookedBalance, Currency: row.Currency},
		},
	)
	counter := model.NewTransaction(
		accounts.CounterAccount(row.Amount, row.Description),
		row.Amount.Neg(),
		row.Currency,
		model.TransactionOptions{},
	)

	opts := model.EntryOptions{
		Comments: []string{ReferencePrefix + row.Reference},
	}
	if row.TransactionDate != row.PostingDate {
		posted := row.PostingDate
		opts.SecondaryDate = &posted
	}

	return model.NewEntry(row.TransactionDate, row.Description, []model.Transaction{asset, counter}, opts)
}
