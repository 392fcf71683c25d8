package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/finsight-dev/finsight/internal/aggregate"
	"github.com/finsight-dev/finsight/internal/config"
	"github.com/finsight-dev/finsight/internal/export"
	"github.com/finsight-dev/finsight/internal/ingest"
	"github.com/finsight-dev/finsight/internal/logging"
	"github.com/finsight-dev/finsight/internal/model"
	"github.com/finsight-dev/finsight/internal/statement"
)

type ingestOptions struct {
	configPath string
	delimiter  string
	outPath    string
	asJSON     bool
	check      bool
	keep       bool
}

func newIngestCommand() *cobra.Command {
	var opts ingestOptions

	cmd := &cobra.Command{
		Use:   "ingest [file...]",
		Short: "Ingest bank statement exports into normalized transactions",
		Long: "Parses delimited statement exports, classifies each row, and prints a " +
			"summary. With no arguments, scans ./import/ and moves ingested files to " +
			"import/processed/.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(cmd, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", config.FileName, "path to finsight.yaml")
	cmd.Flags().StringVarP(&opts.delimiter, "delimiter", "d", "", "field delimiter (overrides config)")
	cmd.Flags().StringVarP(&opts.outPath, "out", "o", "", "write normalized transactions CSV to this path")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the summary as JSON")
	cmd.Flags().BoolVar(&opts.check, "check", false, "validate output invariants and fail on violations")
	cmd.Flags().BoolVar(&opts.keep, "keep", false, "do not move scanned files to import/processed/")

	return cmd
}

func runIngest(cmd *cobra.Command, opts ingestOptions, args []string) error {
	cfg := loadConfig(opts.configPath)
	log := logging.New(cfg.Logging)

	delim := cfg.Delimiter()
	if opts.delimiter != "" {
		delim = []rune(opts.delimiter)[0]
	}

	pipeline := ingest.New(
		ingest.WithDelimiter(delim),
		ingest.WithRules(cfg.Rules()),
		ingest.WithIncomeKeywords(cfg.IncomeKeywords),
		ingest.WithLogger(log),
	)

	var scanned []statement.FileInfo
	if len(args) == 0 {
		files, err := statement.Scan(".")
		if err != nil {
			return err
		}
		if len(files) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No statements found in import/")
			return nil
		}
		scanned = files
		for _, f := range files {
			args = append(args, f.Path)
		}
	}

	var txns []model.Transaction
	var diag model.Diagnostics
	for _, path := range args {
		res, err := ingestFile(pipeline, path)
		if err != nil {
			return err
		}
		txns = append(txns, res.Transactions...)
		diag.RowsRead += res.Diagnostics.RowsRead
		diag.RowsSkipped += res.Diagnostics.RowsSkipped
		diag.Warnings = append(diag.Warnings, res.Diagnostics.Warnings...)
	}

	if opts.check {
		if verrs := ingest.Validate(txns); len(verrs) > 0 {
			for _, ve := range verrs {
				fmt.Fprintln(cmd.ErrOrStderr(), ve.Error())
			}
			return fmt.Errorf("%d invariant violations", len(verrs))
		}
	}

	if opts.outPath != "" {
		if err := writeTransactions(opts.outPath, txns); err != nil {
			return err
		}
	}

	for _, f := range scanned {
		if opts.keep {
			break
		}
		if err := statement.MarkProcessed(".", f.Name); err != nil {
			return err
		}
	}

	return printSummary(cmd.OutOrStdout(), aggregate.Summarize(txns), diag, opts.asJSON)
}

// loadConfig falls back to defaults when no config file exists, so
// ingest works in a bare directory.
func loadConfig(path string) *config.Config {
	cfg, err := config.Load(path)
	if err != nil {
		return config.Default()
	}
	return cfg
}

func ingestFile(pipeline *ingest.Pipeline, path string) (ingest.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ingest.Result{}, fmt.Errorf("reading %s: %w", path, err)
	}
	res, err := pipeline.Process(string(data), filepath.Base(path))
	if errors.Is(err, ingest.ErrBinaryInput) {
		return ingest.Result{}, fmt.Errorf("could not read file %s: not a text statement export", path)
	}
	if err != nil {
		return ingest.Result{}, fmt.Errorf("ingesting %s: %w", path, err)
	}
	return res, nil
}

func writeTransactions(path string, txns []model.Transaction) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := export.WriteTransactions(f, txns); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// summaryPayload is the JSON shape of the ingest summary.
type summaryPayload struct {
	TotalIncome       string            `json:"total_income"`
	TotalExpense      string            `json:"total_expense"`
	Net               string            `json:"net"`
	SavingsRate       string            `json:"savings_rate"`
	Transactions      int               `json:"transactions"`
	RowsRead          int               `json:"rows_read"`
	RowsSkipped       int               `json:"rows_skipped"`
	Categories        []string          `json:"categories"`
	ExpenseByCategory map[string]string `json:"expense_by_category"`
	DateRange         *summaryRange     `json:"date_range"`
	Warnings          []model.Warning   `json:"warnings,omitempty"`
}

type summaryRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func printSummary(w io.Writer, s model.Summary, diag model.Diagnostics, asJSON bool) error {
	if asJSON {
		payload := summaryPayload{
			TotalIncome:       s.TotalIncome.StringFixed(2),
			TotalExpense:      s.TotalExpense.StringFixed(2),
			Net:               s.Net.StringFixed(2),
			SavingsRate:       s.SavingsRate.String(),
			Transactions:      s.Count,
			RowsRead:          diag.RowsRead,
			RowsSkipped:       diag.RowsSkipped,
			Categories:        s.Categories,
			ExpenseByCategory: make(map[string]string, len(s.ExpenseByCategory)),
			Warnings:          diag.Warnings,
		}
		for _, ca := range s.ExpenseByCategory {
			payload.ExpenseByCategory[ca.Category] = ca.Amount.StringFixed(2)
		}
		if s.DateRange.Valid {
			payload.DateRange = &summaryRange{
				Start: s.DateRange.Start.Format("2006-01-02"),
				End:   s.DateRange.End.Format("2006-01-02"),
			}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	}

	if s.Count == 0 {
		fmt.Fprintf(w, "No transactions (%d rows read, %d skipped)\n", diag.RowsRead, diag.RowsSkipped)
		return nil
	}

	fmt.Fprintf(w, "Transactions: %d (%d rows read, %d skipped)\n", s.Count, diag.RowsRead, diag.RowsSkipped)
	fmt.Fprintf(w, "Period:       %s to %s\n",
		s.DateRange.Start.Format("2006-01-02"), s.DateRange.End.Format("2006-01-02"))
	fmt.Fprintf(w, "Income:       %s\n", s.TotalIncome.StringFixed(2))
	fmt.Fprintf(w, "Expenses:     %s\n", s.TotalExpense.StringFixed(2))
	fmt.Fprintf(w, "Net:          %s (savings rate %s%%)\n", s.Net.StringFixed(2), s.SavingsRate.String())

	if top := aggregate.TopCategories(s, 5); len(top) > 0 {
		fmt.Fprintln(w, "Top spending:")
		for _, ca := range top {
			fmt.Fprintf(w, "  %-16s %s\n", ca.Category, ca.Amount.StringFixed(2))
		}
	}

	for _, warn := range diag.Warnings {
		fmt.Fprintf(w, "warning: line %d: %s\n", warn.Line, warn.Message)
	}

	return nil
}
