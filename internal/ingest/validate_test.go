package ingest

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight-dev/finsight/internal/model"
)

func validTx() model.Transaction {
	return model.Transaction{
		Date:        time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		Description: "Starbucks",
		Amount:      decimal.RequireFromString("5.75"),
		Type:        model.TypeExpense,
		Category:    "Dining",
		Source:      "jan.csv",
	}
}

func TestValidate_Clean(t *testing.T) {
	assert.Empty(t, Validate([]model.Transaction{validTx(), validTx()}))
	assert.Empty(t, Validate(nil))
}

func TestValidate_Violations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.Transaction)
		want   string
	}{
		{"zero date", func(tx *model.Transaction) { tx.Date = time.Time{} }, "missing date"},
		{"zero amount", func(tx *model.Transaction) { tx.Amount = decimal.Zero }, "not a positive magnitude"},
		{"negative amount", func(tx *model.Transaction) { tx.Amount = decimal.RequireFromString("-1") }, "not a positive magnitude"},
		{"bad type", func(tx *model.Transaction) { tx.Type = "credit" }, `unknown type "credit"`},
		{"empty category", func(tx *model.Transaction) { tx.Category = "" }, "empty category"},
		{"empty description", func(tx *model.Transaction) { tx.Description = "" }, "empty description"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := validTx()
			tt.mutate(&tx)

			errs := Validate([]model.Transaction{validTx(), tx})
			require.Len(t, errs, 1)
			assert.Equal(t, 1, errs[0].Index)
			assert.Equal(t, "jan.csv", errs[0].Source)
			assert.Contains(t, errs[0].Error(), tt.want)
		})
	}
}
