package ofxparser

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/ofx-import/internal/logging"
	"fjacquet/ofx-import/internal/parsererror"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0600))
	return path
}

func TestAdapter_ParseFile(t *testing.T) {
	logger := logging.NewMockLogger()
	a := NewAdapter(logger)

	stmt, err := a.ParseFile(filepath.Join("testdata", "extrato.ofx"))
	require.NoError(t, err)

	assert.Equal(t, "Banco Exemplo", stmt.Header.InstitutionName)
	assert.Equal(t, "12345-6", stmt.Header.AccountID)
	assert.Equal(t, "BRL", stmt.Header.Currency)
	assert.Equal(t, "01/02/2024", stmt.Header.PeriodStart)
	assert.Equal(t, "29/02/2024", stmt.Header.PeriodEnd)

	require.Len(t, stmt.Transactions, 3)
	assert.True(t, decimal.RequireFromString("-50").Equal(stmt.Transactions[0].Amount))
	assert.True(t, decimal.RequireFromString("200").Equal(stmt.Transactions[1].Amount))
	assert.True(t, stmt.Transactions[2].Amount.IsZero())
	assert.True(t, logger.HasEntry("INFO", "Parsed OFX statement"))
}

func TestAdapter_ValidateFormat(t *testing.T) {
	a := NewAdapter(logging.NewMockLogger())

	t.Run("wrong extension", func(t *testing.T) {
		path := writeFile(t, "extrato.csv", []byte("OFXHEADER:100\n<OFX>"))
		err := a.ValidateFormat(path)
		var formatErr *parsererror.InvalidFormatError
		require.True(t, errors.As(err, &formatErr))
		assert.Equal(t, FormatName, formatErr.ExpectedFormat)
	})

	t.Run("upper case extension", func(t *testing.T) {
		path := writeFile(t, "EXTRATO.OFX", []byte("<OFX></OFX>"))
		assert.NoError(t, a.ValidateFormat(path))
	})

	t.Run("shape mismatch", func(t *testing.T) {
		path := writeFile(t, "extrato.ofx", []byte("date;amount;memo\n01/01/2024;10;x\n"))
		var formatErr *parsererror.InvalidFormatError
		require.True(t, errors.As(a.ValidateFormat(path), &formatErr))
		assert.Contains(t, formatErr.ActualContentSnippet, "date;amount")
	})

	t.Run("empty file", func(t *testing.T) {
		path := writeFile(t, "extrato.ofx", []byte("  \n"))
		assert.ErrorIs(t, a.ValidateFormat(path), parsererror.ErrEmptyInput)
	})

	t.Run("missing file", func(t *testing.T) {
		var validationErr *parsererror.ValidationError
		assert.True(t, errors.As(a.ValidateFormat(filepath.Join(t.TempDir(), "x.ofx")), &validationErr))
	})
}

func TestAdapter_ParseFileRejectsBeforeParsing(t *testing.T) {
	logger := logging.NewMockLogger()
	a := NewAdapter(logger)
	path := writeFile(t, "notes.txt", []byte(block("DEBIT", "10", "A", "x")))

	_, err := a.ParseFile(path)
	var formatErr *parsererror.InvalidFormatError
	assert.True(t, errors.As(err, &formatErr))
	assert.False(t, logger.HasEntry("INFO", "Parsed OFX statement"))
}

func TestAdapter_DefaultCurrency(t *testing.T) {
	a := NewAdapter(logging.NewMockLogger(), WithDefaultCurrency(" brl "))

	stmt, err := a.Parse(strings.NewReader("<OFX>" + block("DEBIT", "1", "A", "x")))
	require.NoError(t, err)
	assert.Equal(t, "BRL", stmt.Header.Currency)

	stmt, err = a.Parse(strings.NewReader("<OFX><CURDEF>USD" + block("DEBIT", "1", "A", "x")))
	require.NoError(t, err)
	assert.Equal(t, "USD", stmt.Header.Currency)
}

func TestAdapter_ParseEmpty(t *testing.T) {
	_, err := NewAdapter(nil).Parse(bytes.NewReader(nil))
	assert.ErrorIs(t, err, parsererror.ErrEmptyInput)
}

func TestAdapter_LogsDroppedBlocks(t *testing.T) {
	logger := logging.NewMockLogger()
	_, err := NewAdapter(logger).Parse(strings.NewReader("<OFX>" + block("DEBIT", "x", "A", "m")))
	require.NoError(t, err)

	entries := logger.EntriesByLevel("DEBUG")
	require.Len(t, entries, 1)
	assert.Equal(t, "Skipping transaction block", entries[0].Message)
}

func TestAdapter_Latin1Content(t *testing.T) {
	// "AÇOUGUE SÃO" as single byte text under a windows-1252 declaration.
	memo := []byte{'A', 0xC7, 'O', 'U', 'G', 'U', 'E', ' ', 'S', 0xC3, 'O'}
	var content bytes.Buffer
	content.WriteString("OFXHEADER:100\nCHARSET:1252\n\n<OFX>\n")
	content.WriteString("<STMTTRN>\n<TRNTYPE>DEBIT\n<TRNAMT>12.00\n<FITID>L1\n<MEMO>")
	content.Write(memo)
	content.WriteString("\n</STMTTRN>\n</OFX>\n")

	stmt, err := NewAdapter(logging.NewMockLogger()).Parse(&content)
	require.NoError(t, err)
	require.Len(t, stmt.Transactions, 1)
	assert.Equal(t, "AÇOUGUE SÃO", stmt.Transactions[0].Memo)
}
