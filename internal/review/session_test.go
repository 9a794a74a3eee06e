package review

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/ofx-import/internal/logging"
	"fjacquet/ofx-import/internal/models"
	"fjacquet/ofx-import/internal/taxonomy"
)

func row(fitID, amount, memo string) models.ReviewRow {
	return models.ReviewRow{
		Transaction: models.StatementTransaction{FitID: fitID, Amount: decimal.RequireFromString(amount), Memo: memo},
		Selected:    true,
	}
}

func newSession(rows ...models.ReviewRow) *Session {
	return NewSession("extrato.ofx", models.StatementHeader{AccountID: "123"}, rows, taxonomy.Default(), logging.NewMockLogger())
}

func TestSession_FirstEditMovesToEditing(t *testing.T) {
	s := newSession(row("1", "-10", "x"))
	assert.Equal(t, StateCollecting, s.State())

	assert.ErrorIs(t, s.SetCategory(0, "Nope"), taxonomy.ErrInvalidPath)
	assert.Equal(t, StateCollecting, s.State())

	require.NoError(t, s.SetCategory(0, "Moradia"))
	assert.Equal(t, StateEditing, s.State())
}

func TestSession_CascadingReset(t *testing.T) {
	s := newSession(row("1", "-1000", "ALUGUEL"))
	require.NoError(t, s.SetCategory(0, "Moradia"))
	require.NoError(t, s.SetSubcategory(0, "Aluguel"))
	require.NoError(t, s.SetLeaf(0, "Residencial"))

	r, _ := s.Row(0)
	assert.Equal(t, "Moradia > Aluguel > Residencial", r.Path.String())

	require.NoError(t, s.SetCategory(0, "Transporte"))
	r, _ = s.Row(0)
	assert.Equal(t, models.CategoryPath{Category: "Transporte"}, r.Path)

	assert.ErrorIs(t, s.SetSubcategory(0, "Aluguel"), taxonomy.ErrInvalidPath)
	r, _ = s.Row(0)
	assert.Equal(t, models.CategoryPath{Category: "Transporte"}, r.Path)
}

func TestSession_SetPath(t *testing.T) {
	s := newSession(row("1", "-30", "x"))
	require.NoError(t, s.SetPath(0, models.ParseCategoryPath("saude>consultas>especialista")))
	r, _ := s.Row(0)
	assert.Equal(t, "Saude > Consultas > Especialista", r.Path.String())

	assert.ErrorIs(t, s.SetPath(0, models.ParseCategoryPath("Saude>Cinema")), taxonomy.ErrInvalidPath)
}

func TestSession_RowAddressing(t *testing.T) {
	s := newSession(row("A", "-1", ""), row("B", "2", ""))

	idx, ok := s.Find("B")
	require.True(t, ok)
	assert.Equal(t, 1, idx)
	_, ok = s.Find("Z")
	assert.False(t, ok)

	assert.ErrorIs(t, s.SetCounterparty(5, "x"), ErrRowNotFound)
	assert.ErrorIs(t, s.SetSelected(-1, false), ErrRowNotFound)
	_, err := s.OpenSplit(2)
	assert.ErrorIs(t, err, ErrRowNotFound)
}

func TestSession_ToggleSelectAllFlipsOwnFlag(t *testing.T) {
	s := newSession(row("1", "-1", ""), row("2", "-2", ""))

	require.NoError(t, s.SetSelected(0, false))
	flag, err := s.ToggleSelectAll()
	require.NoError(t, err)
	assert.False(t, flag)
	assert.Empty(t, s.Selected())

	flag, err = s.ToggleSelectAll()
	require.NoError(t, err)
	assert.True(t, flag)
	assert.Len(t, s.Selected(), 2)
}

func TestSession_Summary(t *testing.T) {
	dup := row("3", "-7", "")
	dup.Duplicate = true
	dup.Selected = false
	s := newSession(row("1", "-50", ""), row("2", "200", ""), dup)

	sum := s.Summary()
	assert.Equal(t, 3, sum.Rows)
	assert.Equal(t, 2, sum.Selected)
	assert.Equal(t, 1, sum.Duplicates)
	assert.True(t, decimal.NewFromInt(200).Equal(sum.Incoming))
	assert.True(t, decimal.NewFromInt(50).Equal(sum.Outgoing))
}

func TestSession_RowsAreCopies(t *testing.T) {
	s := newSession(row("1", "-1", ""))
	rows := s.Rows()
	rows[0].Counterparty = "changed"

	r, _ := s.Row(0)
	assert.Empty(t, r.Counterparty)
}

type stubReclassifier struct{ path models.CategoryPath }

func (s stubReclassifier) Reapply(_ context.Context, r models.ReviewRow) models.ReviewRow {
	r.Path = r.Path.Merge(s.path)
	return r
}

func TestSession_ReapplyRules(t *testing.T) {
	s := newSession(row("1", "-1", ""), row("2", "-1", ""))
	require.NoError(t, s.ReapplyRules(context.Background(), stubReclassifier{path: models.CategoryPath{Category: "Outros"}}))

	for _, r := range s.Rows() {
		assert.Equal(t, "Outros", r.Path.Category)
	}
	assert.Equal(t, StateEditing, s.State())
}

func TestSession_CommitLifecycle(t *testing.T) {
	s := newSession(row("1", "-1", ""))

	require.NoError(t, s.BeginCommit())
	assert.ErrorIs(t, s.SetCounterparty(0, "x"), ErrCommitInFlight)
	assert.ErrorIs(t, s.BeginCommit(), ErrCommitInFlight)
	_, err := s.ToggleSelectAll()
	assert.ErrorIs(t, err, ErrCommitInFlight)

	s.EndCommit(errors.New("store down"))
	assert.Equal(t, StateEditing, s.State())
	require.NoError(t, s.SetCounterparty(0, "x"))

	require.NoError(t, s.BeginCommit())
	s.EndCommit(nil)
	assert.Equal(t, StateCommitted, s.State())

	assert.ErrorIs(t, s.SetCategory(0, "Moradia"), ErrSessionCommitted)
	assert.ErrorIs(t, s.ClearSplit(0), ErrSessionCommitted)
	assert.ErrorIs(t, s.BeginCommit(), ErrSessionCommitted)
	assert.ErrorIs(t, s.ReapplyRules(context.Background(), stubReclassifier{}), ErrSessionCommitted)
	_, err = s.OpenSplit(0)
	assert.ErrorIs(t, err, ErrSessionCommitted)
}
