package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateRange is the min/max transaction date of a summary. Valid is
// false when the summary covered no transactions; Start/End are zero
// times in that case and must not be presented as real dates.
type DateRange struct {
	Start time.Time
	End   time.Time
	Valid bool
}

// CategoryAmount is a per-category expense total.
type CategoryAmount struct {
	Category string
	Amount   decimal.Decimal
}

// Summary is the aggregate view over a list of transactions.
type Summary struct {
	TotalIncome       decimal.Decimal
	TotalExpense      decimal.Decimal
	Net               decimal.Decimal
	SavingsRate       decimal.Decimal // percent of income kept, 0 when income is 0
	Count             int
	Categories        []string // distinct, sorted
	ExpenseByCategory []CategoryAmount
	DateRange         DateRange
}

// Warning records a silent fallback or skipped row so callers can
// surface data-quality problems without the pipeline halting.
type Warning struct {
	Line    int
	Message string
}

// Diagnostics reports what happened to the raw rows of one file.
type Diagnostics struct {
	RowsRead    int
	RowsSkipped int
	Warnings    []Warning
}
