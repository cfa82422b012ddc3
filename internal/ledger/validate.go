package ledger

import (
	"errors"
	"fmt"

	"github.com/csv2ledger/csv2ledger/internal/model"
)

// ErrInvalidEntry is matched by every ValidationError.
var ErrInvalidEntry = errors.New("invalid entry")

// ValidationError describes a single broken entry invariant.
type ValidationError struct {
	Entry       string // "<date> <description>"
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("entry [%s]: %s", e.Entry, e.Description)
}

// Unwrap lets errors.Is match ErrInvalidEntry.
func (e ValidationError) Unwrap() error {
	return ErrInvalidEntry
}

// ValidateEntry checks the double-entry invariants of an imported entry:
// two legs, one currency, named accounts, amounts summing to zero.
func ValidateEntry(e model.Entry) []ValidationError {
	var errs []ValidationError
	name := fmt.Sprintf("%s %s", e.Date, e.Description)

	if len(e.Transactions) != 2 {
		errs = append(errs, ValidationError{
			Entry:       name,
			Description: fmt.Sprintf("expected 2 transactions, got %d", len(e.Transactions)),
		})
	}

	for i, t := range e.Transactions {
		if t.Account == "" {
			errs = append(errs, ValidationError{
				Entry:       name,
				Description: fmt.Sprintf("transaction %d has no account", i+1),
			})
		}
		if i > 0 && t.Currency != e.Transactions[0].Currency {
			errs = append(errs, ValidationError{
				Entry:       name,
				Description: fmt.Sprintf("currency %q differs from %q", t.Currency, e.Transactions[0].Currency),
			})
		}
	}

	if total := e.Total(); !total.IsZero() {
		errs = append(errs, ValidationError{
			Entry:       name,
			Description: fmt.Sprintf("transactions sum to %s, not zero", FormatAmount(total)),
		})
	}

	return errs
}

// Validate returns the joined validation errors of an entry, or nil.
func Validate(e model.Entry) error {
	verrs := ValidateEntry(e)
	if len(verrs) == 0 {
		return nil
	}
	errs := make([]error, len(verrs))
	for i, ve := range verrs {
		errs[i] = ve
	}
	return errors.Join(errs...)
}
