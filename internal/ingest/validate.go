package ingest

import (
	"fmt"

	"github.com/finsight-dev/finsight/internal/model"
)

// ValidationError describes a single invariant violation on a
// produced transaction.
type ValidationError struct {
	Index       int
	Source      string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("transaction %d [%s]: %s", e.Index, e.Source, e.Description)
}

// Validate enforces the output invariants on a transaction list:
// every transaction has a date, a positive amount magnitude, exactly
// one known type, and a non-empty category. A clean pipeline run
// always passes; this exists to catch regressions and to let callers
// check lists that round-tripped through external storage.
func Validate(txns []model.Transaction) []ValidationError {
	var errs []ValidationError

	add := func(i int, src, format string, args ...any) {
		errs = append(errs, ValidationError{
			Index:       i,
			Source:      src,
			Description: fmt.Sprintf(format, args...),
		})
	}

	for i, tx := range txns {
		if tx.Date.IsZero() {
			add(i, tx.Source, "missing date")
		}
		if !tx.Amount.IsPositive() {
			add(i, tx.Source, "amount %s is not a positive magnitude", tx.Amount)
		}
		if tx.Type != model.TypeIncome && tx.Type != model.TypeExpense {
			add(i, tx.Source, "unknown type %q", tx.Type)
		}
		if tx.Category == "" {
			add(i, tx.Source, "empty category")
		}
		if tx.Description == "" {
			add(i, tx.Source, "empty description")
		}
	}
	return errs
}
