package statement

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/finsight-dev/finsight/internal/model"
)

// DefaultDelimiter is used when a statement export has no configured
// delimiter.
const DefaultDelimiter = ','

// Positional fallbacks for headers that resolve no semantic column.
const (
	fallbackColDate = 0
	fallbackColDesc = 1
)

// descriptionHints are header substrings that mark the description
// column, tried in order.
var descriptionHints = []string{"description", "desc", "merchant", "name"}

// balanceMarkers flag statement metadata rows that are not transactions.
var balanceMarkers = []string{"opening balance", "closing balance"}

// columns holds resolved header indexes; -1 means unresolved.
type columns struct {
	date     int
	desc     int
	amount   int
	category int
}

// Parser converts one delimited statement export into RawRows. Bank
// exports are not standardized, so columns are resolved by substring
// match against the header with positional fallbacks, independent of
// column order or exact naming.
type Parser struct {
	delimiter rune
}

// NewParser creates a Parser for the given field delimiter.
func NewParser(delimiter rune) *Parser {
	if delimiter == 0 {
		delimiter = DefaultDelimiter
	}
	return &Parser{delimiter: delimiter}
}

// Parse reads a full statement and returns one RawRow per surviving
// data line plus diagnostics for everything discarded. Data-quality
// problems never error; rows are skipped and counted instead.
func (p *Parser) Parse(r io.Reader) ([]model.RawRow, model.Diagnostics, error) {
	cr := csv.NewReader(r)
	cr.Comma = p.delimiter
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	var diag model.Diagnostics

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, diag, nil
	}
	if err != nil {
		return nil, diag, fmt.Errorf("reading statement header: %w", err)
	}
	cols := resolveColumns(header)

	var rows []model.RawRow
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line := 0
		if len(rec) > 0 {
			line, _ = cr.FieldPos(0)
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				diag.RowsRead++
				skip(&diag, perr.Line, "unparsable row: "+perr.Err.Error())
				continue
			}
			return rows, diag, fmt.Errorf("reading statement: %w", err)
		}
		diag.RowsRead++

		if len(rec) < 3 {
			skip(&diag, line, fmt.Sprintf("row has %d fields, need at least 3", len(rec)))
			continue
		}

		row := resolveRow(rec, cols, line)
		if isBalanceRow(row.Description) {
			skip(&diag, line, "balance row discarded: "+strings.TrimSpace(row.Description))
			continue
		}
		rows = append(rows, row)
	}
	return rows, diag, nil
}

// resolveColumns maps the case-folded header to semantic columns.
func resolveColumns(header []string) columns {
	cols := columns{date: -1, desc: -1, amount: -1, category: -1}
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))
		switch {
		case cols.date == -1 && strings.Contains(name, "date"):
			cols.date = i
		case cols.amount == -1 && strings.Contains(name, "amount"):
			cols.amount = i
		case cols.desc == -1 && matchesAny(name, descriptionHints):
			cols.desc = i
		case cols.category == -1 && (strings.Contains(name, "category") || strings.Contains(name, "type")):
			cols.category = i
		}
	}
	return cols
}

// resolveRow extracts the four raw values from one record, applying
// positional fallbacks for unresolved columns. The amount fallback is
// field 3 when the row has one, else field 2.
func resolveRow(rec []string, cols columns, line int) model.RawRow {
	amountCol := cols.amount
	if amountCol == -1 {
		amountCol = 2
		if len(rec) > 3 {
			amountCol = 3
		}
	}
	return model.RawRow{
		Date:        field(rec, fallback(cols.date, fallbackColDate)),
		Description: field(rec, fallback(cols.desc, fallbackColDesc)),
		Amount:      field(rec, amountCol),
		Category:    field(rec, cols.category),
		Line:        line,
	}
}

func fallback(col, def int) int {
	if col == -1 {
		return def
	}
	return col
}

// field returns rec[i] or "" when i is out of range.
func field(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return rec[i]
}

func matchesAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// isBalanceRow reports whether a description marks an opening/closing
// balance metadata row.
func isBalanceRow(desc string) bool {
	return matchesAny(strings.ToLower(desc), balanceMarkers)
}

func skip(diag *model.Diagnostics, line int, msg string) {
	diag.RowsSkipped++
	diag.Warnings = append(diag.Warnings, model.Warning{Line: line, Message: msg})
}
