package accounts

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/csv2ledger/csv2ledger/internal/config"
)

// Default category names, used when the config does not override them.
const (
	DefaultAssets   = "Assets"
	DefaultExpenses = "Expenses"
	DefaultIncome   = "Income"
)

const (
	bankSegment   = "Bank"
	importSegment = "Import"
)

// Resolver turns row fields into ledger account names. It only reads the
// config it was created with and is safe for concurrent use.
type Resolver struct {
	cfg *config.Config
}

// NewResolver creates a Resolver. A nil config behaves like an empty one.
func NewResolver(cfg *config.Config) *Resolver {
	if cfg == nil {
		cfg = config.Empty()
	}
	return &Resolver{cfg: cfg}
}

// AssetsName returns the root name for asset accounts.
func (r *Resolver) AssetsName() string {
	return r.general(config.KeyAssets, DefaultAssets)
}

// ExpensesName returns the root name for expense accounts.
func (r *Resolver) ExpensesName() string {
	return r.general(config.KeyExpenses, DefaultExpenses)
}

// IncomeName returns the root name for income accounts.
func (r *Resolver) IncomeName() string {
	return r.general(config.KeyIncome, DefaultIncome)
}

// CategoryRoot returns the expense root for negative amounts and the income
// root otherwise.
func (r *Resolver) CategoryRoot(isNegative bool) string {
	if isNegative {
		return r.ExpensesName()
	}
	return r.IncomeName()
}

// AccountAlias returns the configured alias for a bank account, or
// "<clearing>:<account>".
func (r *Resolver) AccountAlias(clearing uint32, account uint64) string {
	if byAccount, ok := r.cfg.Accounts[clearing]; ok {
		if alias, ok := byAccount[account]; ok {
			return alias
		}
	}
	return fmt.Sprintf("%d:%d", clearing, account)
}

// DescriptionAccount returns the configured account suffix for a bank
// description, or "Import:<description>". Matching is exact.
func (r *Resolver) DescriptionAccount(description string) string {
	if account, ok := r.cfg.Descriptions[description]; ok {
		return account
	}
	return importSegment + ":" + description
}

// AssetAccount returns the full path of the bank account,
// "<assets>:Bank:<alias>".
func (r *Resolver) AssetAccount(clearing uint32, account uint64) string {
	return r.AssetsName() + ":" + bankSegment + ":" + r.AccountAlias(clearing, account)
}

// CounterAccount returns the full path of the other side of a bank row,
// "<expenses|income>:<description account>".
func (r *Resolver) CounterAccount(amount decimal.Decimal, description string) string {
	return r.CategoryRoot(amount.IsNegative()) + ":" + r.DescriptionAccount(description)
}

func (r *Resolver) general(key, fallback string) string {
	if name, ok := r.cfg.General[key]; ok {
		return name
	}
	return fallback
}
