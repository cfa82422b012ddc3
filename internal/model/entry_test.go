package model

import (
	"testing"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEntryCopiesComments(t *testing.T) {
	comments := []string{"referens: A"}
	e := NewEntry(civil.Date{Year: 2021, Month: 3, Day: 1}, "desc", nil, EntryOptions{Comments: comments})

	comments[0] = "changed"
	require.Len(t, e.Comments, 1)
	assert.Equal(t, "referens: A", e.Comments[0])
	assert.Nil(t, e.SecondaryDate)
}

func TestNewEntryNoComments(t *testing.T) {
	e := NewEntry(civil.Date{Year: 2021, Month: 3, Day: 1}, "desc", nil, EntryOptions{})
	assert.Nil(t, e.Comments)
}

func TestEntryTotal(t *testing.T) {
	amt := decimal.RequireFromString("-125.50")
	e := NewEntry(civil.Date{Year: 2021, Month: 3, Day: 1}, "desc", []Transaction{
		NewTransaction("Assets:Bank", amt, "SEK", TransactionOptions{}),
		NewTransaction("Expenses:Food", amt.Neg(), "SEK", TransactionOptions{}),
	}, EntryOptions{})

	assert.True(t, e.Total().IsZero())
}

func TestNewTransactionOptions(t *testing.T) {
	bal := &Balance{Amount: decimal.RequireFromString("3201.12"), Currency: "SEK"}
	txn := NewTransaction("Assets:Bank", decimal.RequireFromString("1"), "SEK", TransactionOptions{
		BalanceAssertion: bal,
		Comment:          "manual",
	})

	assert.Equal(t, "Assets:Bank", txn.Account)
	assert.Equal(t, "SEK", txn.Currency)
	assert.Same(t, bal, txn.BalanceAssertion)
	assert.Equal(t, "manual", txn.Comment)
}

func TestRowIsDebit(t *testing.T) {
	tests := []struct {
		amount string
		want   bool
	}{
		{"-125.50", true},
		{"-0.01", true},
		{"0", false},
		{"0.00", false},
		{"100", false},
	}
	for _, tt := range tests {
		r := Row{Amount: decimal.RequireFromString(tt.amount)}
		assert.Equal(t, tt.want, r.IsDebit(), "IsDebit(%s)", tt.amount)
	}
}
