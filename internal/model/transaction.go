package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TxType classifies the direction of a transaction's money flow.
type TxType string

const (
	TypeIncome  TxType = "income"
	TypeExpense TxType = "expense"
)

// RawRow is one statement line after column resolution, before
// classification. Values are raw strings exactly as they appeared in
// the file; Line is the 1-based line number for diagnostics.
type RawRow struct {
	Date        string
	Description string
	Amount      string
	Category    string
	Line        int
}

// Transaction is one normalized financial movement. Amount is always
// the absolute value of the original size; direction lives in Type.
type Transaction struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Type        TxType
	Category    string
	Source      string
}
