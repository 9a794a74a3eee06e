package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/ofx-import/internal/logging"
	"fjacquet/ofx-import/internal/models"
	"fjacquet/ofx-import/internal/taxonomy"
)

func newTestStore(t *testing.T) (*FileStore, string) {
	t.Helper()
	dir := t.TempDir()
	return NewFileStore(dir, Files{}, logging.NewMockLogger()), dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
}

func TestNewFileStore_ResolvesNames(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "elsewhere.yaml")
	s := NewFileStore("/data", Files{Rules: "my-rules.yaml", Taxonomy: abs}, nil)

	files := s.Files()
	assert.Equal(t, filepath.Join("/data", "my-rules.yaml"), files.Rules)
	assert.Equal(t, abs, files.Taxonomy)
	assert.Equal(t, filepath.Join("/data", "records.csv"), files.Records)
	assert.Equal(t, filepath.Join("/data", "imports.csv"), files.History)
}

func TestRules_RoundTripAndDelete(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	rules, err := s.ListRules(ctx)
	require.NoError(t, err)
	assert.Empty(t, rules)

	require.NoError(t, s.InsertRules(ctx, []models.ClassificationRule{
		{ID: "r1", Keyword: "CANTINA", Path: models.CategoryPath{Category: "Alimentação", Subcategory: "Restaurante"}},
		{ID: "r2", Keyword: "MARIA", Path: models.CategoryPath{Category: "Receitas"}, Counterparty: "MARIA SILVA"},
	}))
	require.NoError(t, s.InsertRules(ctx, []models.ClassificationRule{{ID: "r3", Keyword: "PIX"}}))

	rules, err = s.ListRules(ctx)
	require.NoError(t, err)
	require.Len(t, rules, 3)
	assert.Equal(t, "CANTINA", rules[0].Keyword)
	assert.Equal(t, "Restaurante", rules[0].Path.Subcategory)
	assert.Equal(t, "MARIA SILVA", rules[1].Counterparty)
	assert.Equal(t, "r3", rules[2].ID)

	require.NoError(t, s.DeleteRule(ctx, "r2"))
	rules, err = s.ListRules(ctx)
	require.NoError(t, err)
	assert.Len(t, rules, 2)

	err = s.DeleteRule(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListRules_InvalidYAML(t *testing.T) {
	s, _ := newTestStore(t)
	writeFile(t, s.Files().Rules, "rules: [unclosed")

	_, err := s.ListRules(context.Background())
	assert.Error(t, err)
}

func TestOperations_CancelledContext(t *testing.T) {
	s, _ := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.ListRules(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, s.InsertRecords(ctx, nil), context.Canceled)
	assert.ErrorIs(t, s.AppendHistory(ctx, models.ImportHistoryEntry{}), context.Canceled)
}

func TestLoadTaxonomy(t *testing.T) {
	ctx := context.Background()

	t.Run("missing file uses built-in taxonomy", func(t *testing.T) {
		s, _ := newTestStore(t)
		tax, err := s.LoadTaxonomy(ctx)
		require.NoError(t, err)
		assert.Equal(t, taxonomy.Default().Categories(), tax.Categories())
	})

	t.Run("custom file", func(t *testing.T) {
		s, _ := newTestStore(t)
		writeFile(t, s.Files().Taxonomy, `categories:
  - name: Casa
    kind: expense
    children:
      - name: Aluguel
`)
		tax, err := s.LoadTaxonomy(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Casa"}, tax.Categories())
		assert.True(t, tax.HasSubcategory("Casa", "Aluguel"))
	})

	t.Run("invalid definitions", func(t *testing.T) {
		s, _ := newTestStore(t)
		writeFile(t, s.Files().Taxonomy, "categories:\n  - name: \"\"\n    kind: expense\n")
		_, err := s.LoadTaxonomy(ctx)
		assert.Error(t, err)
	})

	t.Run("save then load", func(t *testing.T) {
		s, _ := newTestStore(t)
		require.NoError(t, s.SaveTaxonomy(ctx, taxonomy.Default()))
		tax, err := s.LoadTaxonomy(ctx)
		require.NoError(t, err)
		assert.Equal(t, taxonomy.Default().Categories(), tax.Categories())
	})
}

func TestCounterparties(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	_, found, err := s.LookupCounterparty(ctx, "c1")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.SaveCounterparties(ctx, []models.Counterparty{
		{ID: "c1", Name: "Mercado Central", Role: models.RoleSupplier},
		{ID: "c2", Name: "Maria Silva", Role: models.RoleClient},
	}))

	c, found, err := s.LookupCounterparty(ctx, "c2")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Maria Silva", c.Name)
	assert.Equal(t, models.RoleClient, c.Role)

	all, err := s.ListCounterparties(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestRecords_AppendAndIndex(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	first := []models.LedgerRecord{
		{ID: "a", Kind: models.RecordPayable, FitID: "T1", Date: "01/02/2024", DueDate: "01/02/2024",
			Description: "COMPRA CANTINA", Amount: decimal.RequireFromString("-50"),
			Path: models.CategoryPath{Category: "Alimentação"}, AccountID: "12345-6", Institution: "BANCO"},
	}
	second := []models.LedgerRecord{
		{ID: "b", Kind: models.RecordReceivable, FitID: "T2", Amount: decimal.RequireFromString("60"), AccountID: "12345-6", SplitOf: "T2"},
		{ID: "c", Kind: models.RecordReceivable, FitID: "T9", Amount: decimal.RequireFromString("1.5"), AccountID: "other"},
	}
	require.NoError(t, s.InsertRecords(ctx, first))
	require.NoError(t, s.InsertRecords(ctx, second))

	records, err := s.ListRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.True(t, decimal.RequireFromString("-50").Equal(records[0].Amount))
	assert.Equal(t, "Alimentação", records[0].Path.Category)
	assert.Equal(t, "T2", records[1].SplitOf)

	ids, err := s.ImportedFitIDs(ctx, "12345-6")
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"T1": true, "T2": true}, ids)
}

func TestHistory_NewestFirst(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	older := time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)
	newer := older.Add(time.Hour)
	require.NoError(t, s.AppendHistory(ctx, models.ImportHistoryEntry{ID: "h1", FileName: "jan.ofx", ImportedAt: older, RecordCount: 3, Status: models.ImportCompleted}))
	require.NoError(t, s.AppendHistory(ctx, models.ImportHistoryEntry{ID: "h2", FileName: "feb.ofx", ImportedAt: newer, RecordCount: 1, Status: models.ImportCompleted}))

	history, err := s.ListHistory(ctx)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "h2", history[0].ID)
	assert.Equal(t, 3, history[1].RecordCount)
	assert.True(t, older.Equal(history[1].ImportedAt))
}

func TestMemoryStore_InjectedErrors(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()
	m.InsertRecordsErr = assert.AnError

	err := m.InsertRecords(ctx, []models.LedgerRecord{{ID: "x"}})
	assert.ErrorIs(t, err, assert.AnError)
	assert.Empty(t, m.Records)
	assert.Equal(t, 1, m.InsertRecordsCalls)

	require.NoError(t, m.InsertRules(ctx, []models.ClassificationRule{{ID: "r1", Keyword: "PIX"}}))
	require.NoError(t, m.DeleteRule(ctx, "r1"))
	assert.ErrorIs(t, m.DeleteRule(ctx, "r1"), ErrNotFound)
}
