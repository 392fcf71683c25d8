// Package ingest wires the statement parser and transaction
// classifier into the one-shot ingestion pipeline: raw delimited text
// in, normalized transactions plus diagnostics out.
package ingest

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/finsight-dev/finsight/internal/classify"
	"github.com/finsight-dev/finsight/internal/model"
	"github.com/finsight-dev/finsight/internal/statement"
)

// ErrBinaryInput is returned when the input is not UTF-8 text. This is
// the only hard failure; all data-quality problems degrade into
// skipped rows and warnings.
var ErrBinaryInput = errors.New("input is not valid UTF-8 text")

// Result is the output of ingesting one statement file.
type Result struct {
	ID           string // provenance identifier for this ingestion run
	Source       string
	Transactions []model.Transaction
	Diagnostics  model.Diagnostics
}

// Pipeline processes statement files. It is stateless between calls;
// independent files may be processed concurrently by the caller.
type Pipeline struct {
	parser     *statement.Parser
	classifier *classify.Classifier
	log        zerolog.Logger
}

// Option configures a Pipeline.
type Option func(*options)

type options struct {
	delimiter   rune
	rules       []classify.Rule
	incomeWords []string
	now         func() time.Time
	log         zerolog.Logger
}

// WithDelimiter sets the field delimiter (default comma).
func WithDelimiter(d rune) Option {
	return func(o *options) { o.delimiter = d }
}

// WithRules overrides the category keyword table.
func WithRules(rules []classify.Rule) Option {
	return func(o *options) { o.rules = rules }
}

// WithIncomeKeywords overrides the income-forcing keywords.
func WithIncomeKeywords(words []string) Option {
	return func(o *options) { o.incomeWords = words }
}

// WithClock pins the processing-time fallback for unparsable dates.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithLogger sets the pipeline logger. Skipped rows log at debug.
func WithLogger(log zerolog.Logger) Option {
	return func(o *options) { o.log = log }
}

// New creates a Pipeline.
func New(opts ...Option) *Pipeline {
	o := options{
		delimiter: statement.DefaultDelimiter,
		now:       time.Now,
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	copts := []classify.Option{classify.WithClock(o.now)}
	if o.rules != nil {
		copts = append(copts, classify.WithRules(o.rules))
	}
	if o.incomeWords != nil {
		copts = append(copts, classify.WithIncomeKeywords(o.incomeWords))
	}

	return &Pipeline{
		parser:     statement.NewParser(o.delimiter),
		classifier: classify.New(copts...),
		log:        o.log,
	}
}

// Process ingests the full text of one statement file. Transactions
// come back in original row order. A file yielding zero transactions
// is a valid outcome, not an error; the only error is non-text input.
func (p *Pipeline) Process(text, source string) (Result, error) {
	if !utf8.ValidString(text) {
		return Result{}, ErrBinaryInput
	}

	res := Result{ID: uuid.NewString(), Source: source}

	rows, diag, err := p.parser.Parse(strings.NewReader(text))
	if err != nil {
		return Result{}, err
	}
	res.Diagnostics = diag

	for _, row := range rows {
		tx, warnings, err := p.classifier.Classify(row, source)
		if err != nil {
			if errors.Is(err, classify.ErrSkippableRow) {
				res.Diagnostics.RowsSkipped++
				res.Diagnostics.Warnings = append(res.Diagnostics.Warnings,
					model.Warning{Line: row.Line, Message: err.Error()})
				p.log.Debug().Str("source", source).Int("line", row.Line).
					Msg("skipping row: " + err.Error())
				continue
			}
			return Result{}, err
		}
		res.Diagnostics.Warnings = append(res.Diagnostics.Warnings, warnings...)
		res.Transactions = append(res.Transactions, tx)
	}

	p.log.Info().
		Str("source", source).
		Str("ingest_id", res.ID).
		Int("rows_read", res.Diagnostics.RowsRead).
		Int("rows_skipped", res.Diagnostics.RowsSkipped).
		Int("transactions", len(res.Transactions)).
		Msg("statement ingested")

	return res, nil
}
