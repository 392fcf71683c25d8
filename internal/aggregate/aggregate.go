// Package aggregate reduces normalized transactions into the summary
// consumed by dashboards: income/expense totals, category breakdown,
// and the covered date range.
package aggregate

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/finsight-dev/finsight/internal/model"
)

var hundred = decimal.NewFromInt(100)

// Summarize is a pure reduction over a finite transaction list. Given
// the same list it always produces the same Summary, regardless of
// order. An empty list yields zero totals and an invalid DateRange
// sentinel, never an arbitrary date pair.
func Summarize(txns []model.Transaction) model.Summary {
	s := model.Summary{
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
		Net:          decimal.Zero,
		SavingsRate:  decimal.Zero,
		Count:        len(txns),
	}

	categories := make(map[string]bool)
	byCategory := make(map[string]decimal.Decimal)

	for _, tx := range txns {
		categories[tx.Category] = true

		switch tx.Type {
		case model.TypeIncome:
			s.TotalIncome = s.TotalIncome.Add(tx.Amount)
		case model.TypeExpense:
			s.TotalExpense = s.TotalExpense.Add(tx.Amount)
			byCategory[tx.Category] = byCategory[tx.Category].Add(tx.Amount)
		}

		if !s.DateRange.Valid {
			s.DateRange = model.DateRange{Start: tx.Date, End: tx.Date, Valid: true}
			continue
		}
		if tx.Date.Before(s.DateRange.Start) {
			s.DateRange.Start = tx.Date
		}
		if tx.Date.After(s.DateRange.End) {
			s.DateRange.End = tx.Date
		}
	}

	s.Net = s.TotalIncome.Sub(s.TotalExpense)
	if s.TotalIncome.IsPositive() {
		s.SavingsRate = s.Net.Div(s.TotalIncome).Mul(hundred).Round(1)
	}

	for cat := range categories {
		s.Categories = append(s.Categories, cat)
	}
	sort.Strings(s.Categories)

	for cat, amt := range byCategory {
		s.ExpenseByCategory = append(s.ExpenseByCategory, model.CategoryAmount{Category: cat, Amount: amt})
	}
	sort.Slice(s.ExpenseByCategory, func(i, j int) bool {
		a, b := s.ExpenseByCategory[i], s.ExpenseByCategory[j]
		if !a.Amount.Equal(b.Amount) {
			return a.Amount.GreaterThan(b.Amount)
		}
		return a.Category < b.Category
	})

	return s
}

// TopCategories returns the n largest expense categories of a summary.
func TopCategories(s model.Summary, n int) []model.CategoryAmount {
	if n < 0 {
		n = 0
	}
	if n > len(s.ExpenseByCategory) {
		n = len(s.ExpenseByCategory)
	}
	return s.ExpenseByCategory[:n]
}
