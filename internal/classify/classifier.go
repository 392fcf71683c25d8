package classify

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finsight-dev/finsight/internal/model"
)

// ErrSkippableRow marks a row that carries no usable financial signal
// (unparsable or zero amount). Callers skip and count it, never fail.
var ErrSkippableRow = errors.New("skippable row")

// dateLayouts are tried before the numeric-part heuristic.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"01/02/2006",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// amountCleaner strips currency symbols and thousands separators.
var amountCleaner = strings.NewReplacer("$", "", ",", "")

// Classifier turns RawRows into normalized Transactions: canonical
// date, absolute amount, income/expense type, and a category.
type Classifier struct {
	rules       []Rule
	incomeWords []string
	now         func() time.Time
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithRules replaces the built-in keyword table. Order is priority.
func WithRules(rules []Rule) Option {
	return func(c *Classifier) {
		if len(rules) > 0 {
			c.rules = rules
		}
	}
}

// WithIncomeKeywords replaces the description substrings that force
// income type on negative amounts.
func WithIncomeKeywords(words []string) Option {
	return func(c *Classifier) {
		if len(words) > 0 {
			c.incomeWords = words
		}
	}
}

// WithClock replaces the processing-time source used when a date
// cannot be parsed. Unparsable dates inherit this instant, which can
// mis-order transactions relative to real statement history; every
// such fallback is reported as a warning.
func WithClock(now func() time.Time) Option {
	return func(c *Classifier) { c.now = now }
}

// New creates a Classifier with the default rule table and real clock.
func New(opts ...Option) *Classifier {
	c := &Classifier{
		rules:       DefaultRules(),
		incomeWords: incomeKeywords,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify converts one RawRow into a Transaction. It returns
// ErrSkippableRow (wrapped) when the amount is unparsable or zero;
// any other fallback degrades gracefully and is reported in the
// returned warnings.
func (c *Classifier) Classify(row model.RawRow, source string) (model.Transaction, []model.Warning, error) {
	amount, err := parseAmount(row.Amount)
	if err != nil {
		return model.Transaction{}, nil, fmt.Errorf("line %d: %w", row.Line, err)
	}

	var warnings []model.Warning
	date, ok := parseDate(row.Date)
	if !ok {
		date = c.now()
		warnings = append(warnings, model.Warning{
			Line:    row.Line,
			Message: fmt.Sprintf("unparsable date %q, defaulted to processing time", row.Date),
		})
	}

	desc := strings.TrimSpace(row.Description)
	if desc == "" {
		desc = "Unknown"
	}

	txType := c.inferType(amount, desc)

	return model.Transaction{
		Date:        date,
		Description: desc,
		Amount:      amount.Abs(),
		Type:        txType,
		Category:    c.categorize(row.Category, desc, txType),
		Source:      source,
	}, warnings, nil
}

// parseAmount normalizes a raw amount string to a non-zero decimal.
func parseAmount(raw string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(amountCleaner.Replace(raw))
	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("unparsable amount %q: %w", raw, ErrSkippableRow)
	}
	if amount.IsZero() {
		return decimal.Decimal{}, fmt.Errorf("zero amount %q: %w", raw, ErrSkippableRow)
	}
	return amount, nil
}

// parseDate tries the known layouts, then a numeric three-part
// heuristic: [a,b,c] split on "/" or "-" is read as YYYY-MM-DD when
// a > 12, else MM/DD/YYYY.
func parseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}

	parts := strings.FieldsFunc(raw, func(r rune) bool { return r == '/' || r == '-' })
	if len(parts) != 3 {
		return time.Time{}, false
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return time.Time{}, false
		}
		nums[i] = n
	}

	year, month, day := nums[2], nums[0], nums[1]
	if nums[0] > 12 {
		year, month, day = nums[0], nums[1], nums[2]
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
}

// inferType picks income or expense. Positive amounts are income;
// negative amounts are still income when the description carries an
// income keyword (refunds, payroll reversals exported as debits).
func (c *Classifier) inferType(amount decimal.Decimal, desc string) model.TxType {
	if amount.IsPositive() {
		return model.TypeIncome
	}
	lower := strings.ToLower(desc)
	for _, w := range c.incomeWords {
		if strings.Contains(lower, w) {
			return model.TypeIncome
		}
	}
	return model.TypeExpense
}

// categorize picks the category: an explicit statement category wins
// verbatim, then the first matching keyword rule, then the fallback.
func (c *Classifier) categorize(explicit, desc string, txType model.TxType) string {
	if cat := strings.TrimSpace(explicit); cat != "" {
		return cat
	}
	lower := strings.ToLower(desc)
	for _, rule := range c.rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				return rule.Category
			}
		}
	}
	if txType == model.TypeIncome {
		return CategoryIncome
	}
	return CategoryOther
}
