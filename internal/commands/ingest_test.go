package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleStatement = "date,description,amount\n" +
	"2024-01-05,Starbucks,-5.75\n" +
	"2024-01-06,Payroll Inc,3000.00\n" +
	"01/07/2024,Opening Balance,0.00\n"

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		require.NoError(t, os.Chdir(old))
	})
}

func writeStatement(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(sampleStatement), 0o644))
	return path
}

func TestIngest_File(t *testing.T) {
	path := writeStatement(t, t.TempDir(), "jan.csv")

	out, err := runCommand(t, "ingest", path)
	require.NoError(t, err)

	assert.Contains(t, out, "Transactions: 2")
	assert.Contains(t, out, "Income:       3000.00")
	assert.Contains(t, out, "Expenses:     5.75")
	assert.Contains(t, out, "2024-01-05 to 2024-01-06")
	assert.Contains(t, out, "Dining")
}

func TestIngest_JSON(t *testing.T) {
	path := writeStatement(t, t.TempDir(), "jan.csv")

	out, err := runCommand(t, "ingest", "--json", path)
	require.NoError(t, err)

	var payload struct {
		TotalIncome  string            `json:"total_income"`
		TotalExpense string            `json:"total_expense"`
		Transactions int               `json:"transactions"`
		RowsRead     int               `json:"rows_read"`
		RowsSkipped  int               `json:"rows_skipped"`
		Categories   []string          `json:"categories"`
		ByCategory   map[string]string `json:"expense_by_category"`
		DateRange    *struct {
			Start string `json:"start"`
			End   string `json:"end"`
		} `json:"date_range"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &payload))

	assert.Equal(t, "3000.00", payload.TotalIncome)
	assert.Equal(t, "5.75", payload.TotalExpense)
	assert.Equal(t, 2, payload.Transactions)
	assert.Equal(t, 3, payload.RowsRead)
	assert.Equal(t, 1, payload.RowsSkipped)
	assert.Equal(t, []string{"Dining", "Income"}, payload.Categories)
	assert.Equal(t, "5.75", payload.ByCategory["Dining"])
	require.NotNil(t, payload.DateRange)
	assert.Equal(t, "2024-01-05", payload.DateRange.Start)
	assert.Equal(t, "2024-01-06", payload.DateRange.End)
}

func TestIngest_EmptyStatementJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.csv")
	require.NoError(t, os.WriteFile(path, []byte("date,description,amount\n"), 0o644))

	out, err := runCommand(t, "ingest", "--json", path)
	require.NoError(t, err)

	var payload struct {
		Transactions int `json:"transactions"`
		DateRange    any `json:"date_range"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Zero(t, payload.Transactions)
	assert.Nil(t, payload.DateRange, "empty ingest reports a null date range, not fake dates")
}

func TestIngest_WritesTransactionsCSV(t *testing.T) {
	dir := t.TempDir()
	path := writeStatement(t, dir, "jan.csv")
	outPath := filepath.Join(dir, "transactions.csv")

	_, err := runCommand(t, "ingest", "--out", outPath, path)
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "date,description,amount,type,category,source")
	assert.Contains(t, string(data), "2024-01-05,Starbucks,5.75,expense,Dining,jan.csv")
}

func TestIngest_Check(t *testing.T) {
	path := writeStatement(t, t.TempDir(), "jan.csv")
	_, err := runCommand(t, "ingest", "--check", path)
	require.NoError(t, err)
}

func TestIngest_BinaryFileRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "blob.csv")
	require.NoError(t, os.WriteFile(path, []byte{0xff, 0xfe, 0x00, 0x01}, 0o644))

	_, err := runCommand(t, "ingest", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not read file")
}

func TestIngest_ScanModeMovesProcessed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "import"), 0o755))
	writeStatement(t, filepath.Join(dir, "import"), "jan.csv")
	chdir(t, dir)

	out, err := runCommand(t, "ingest")
	require.NoError(t, err)
	assert.Contains(t, out, "Transactions: 2")

	_, err = os.Stat(filepath.Join(dir, "import", "jan.csv"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, "import", "processed", "jan.csv"))
	assert.NoError(t, err)
}

func TestIngest_ScanModeEmpty(t *testing.T) {
	chdir(t, t.TempDir())

	out, err := runCommand(t, "ingest")
	require.NoError(t, err)
	assert.Contains(t, out, "No statements found")
}

func TestIngest_DelimiterFlag(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "semi.csv")
	require.NoError(t, os.WriteFile(path, []byte("date;description;amount\n2024-01-05;Starbucks;-5.75\n"), 0o644))

	out, err := runCommand(t, "ingest", "-d", ";", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Transactions: 1")
}

func TestIngest_MultipleFilesConcatenate(t *testing.T) {
	dir := t.TempDir()
	a := writeStatement(t, dir, "a.csv")
	b := writeStatement(t, dir, "b.csv")

	out, err := runCommand(t, "ingest", a, b)
	require.NoError(t, err)
	assert.Contains(t, out, "Transactions: 4 (6 rows read, 2 skipped)")
}
