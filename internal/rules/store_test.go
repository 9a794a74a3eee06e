package rules

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/ofx-import/internal/logging"
)

type fakeRepo struct {
	rules       []Rule
	insertCalls int
	insertErr   error
	deleteErr   error
	listErr     error
}

func (f *fakeRepo) ListRules(context.Context) ([]Rule, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]Rule(nil), f.rules...), nil
}

func (f *fakeRepo) InsertRules(_ context.Context, rules []Rule) error {
	f.insertCalls++
	if f.insertErr != nil {
		return f.insertErr
	}
	f.rules = append(f.rules, rules...)
	return nil
}

func (f *fakeRepo) DeleteRule(_ context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i, r := range f.rules {
		if r.ID == id {
			f.rules = append(f.rules[:i], f.rules[i+1:]...)
			return nil
		}
	}
	return nil
}

func TestStore_LoadAndLookup(t *testing.T) {
	repo := &fakeRepo{rules: []Rule{
		{ID: "1", Keyword: "PIX", Path: pathA},
		{ID: "2", Keyword: "pix", Path: pathB},
	}}
	logger := logging.NewMockLogger()
	s := NewStore(repo, logger)

	require.NoError(t, s.Load(context.Background()))
	assert.Len(t, s.List(), 1)
	assert.True(t, logger.HasEntry("WARN", "Ignoring duplicate rule keywords"))

	r, ok := s.Lookup("pix recebido")
	require.True(t, ok)
	assert.Equal(t, "1", r.ID)
}

func TestStore_LoadError(t *testing.T) {
	s := NewStore(&fakeRepo{listErr: errors.New("disk")}, logging.NewMockLogger())
	assert.Error(t, s.Load(context.Background()))
}

func TestStore_AddAll(t *testing.T) {
	ctx := context.Background()
	repo := &fakeRepo{}
	s := NewStore(repo, logging.NewMockLogger())

	added, err := s.AddAll(ctx, []Rule{
		{Keyword: "CANTINA", Path: pathA},
		{Keyword: "cantina", Path: pathB},
		{Keyword: "MARIA", Path: pathA, Counterparty: "MARIA SILVA"},
	})
	require.NoError(t, err)
	require.Len(t, added, 2)
	assert.NotEmpty(t, added[0].ID)
	assert.NotEqual(t, added[0].ID, added[1].ID)
	assert.Equal(t, 1, repo.insertCalls)
	assert.Len(t, repo.rules, 2)

	added, err = s.AddAll(ctx, []Rule{{Keyword: "Cantina"}, {Keyword: "MARIA"}})
	require.NoError(t, err)
	assert.Empty(t, added)
	assert.Equal(t, 1, repo.insertCalls)
}

func TestStore_AddAllFailureLeavesMemoryUntouched(t *testing.T) {
	ctx := context.Background()
	repo := &fakeRepo{insertErr: errors.New("write failed")}
	s := NewStore(repo, logging.NewMockLogger())

	_, err := s.AddAll(ctx, []Rule{{Keyword: "CANTINA"}})
	require.Error(t, err)
	assert.False(t, s.Contains("CANTINA"))

	repo.insertErr = nil
	added, err := s.AddAll(ctx, []Rule{{Keyword: "CANTINA"}})
	require.NoError(t, err)
	assert.Len(t, added, 1)
	assert.True(t, s.Contains("CANTINA"))
}

func TestStore_AddRejectsBlankKeyword(t *testing.T) {
	repo := &fakeRepo{}
	s := NewStore(repo, logging.NewMockLogger())

	_, _, err := s.Add(context.Background(), Rule{Keyword: " "})
	assert.ErrorIs(t, err, ErrEmptyKeyword)
	assert.Equal(t, 0, repo.insertCalls)
}

func TestStore_AddDuplicateIsNoop(t *testing.T) {
	ctx := context.Background()
	s := NewStore(&fakeRepo{}, logging.NewMockLogger())

	first, ok, err := s.Add(ctx, Rule{ID: "fixed", Keyword: "PADARIA"})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "fixed", first.ID)

	_, ok, err = s.Add(ctx, Rule{Keyword: "padaria"})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_Remove(t *testing.T) {
	ctx := context.Background()
	repo := &fakeRepo{rules: []Rule{{ID: "1", Keyword: "PIX"}}}
	s := NewStore(repo, logging.NewMockLogger())
	require.NoError(t, s.Load(ctx))

	assert.ErrorIs(t, s.Remove(ctx, "missing"), ErrRuleNotFound)

	repo.deleteErr = errors.New("locked")
	assert.Error(t, s.Remove(ctx, "1"))
	assert.True(t, s.Contains("PIX"))

	repo.deleteErr = nil
	require.NoError(t, s.Remove(ctx, "1"))
	assert.False(t, s.Contains("PIX"))
	assert.Empty(t, repo.rules)
}

func TestStore_Seed(t *testing.T) {
	ctx := context.Background()
	s := NewStore(&fakeRepo{}, logging.NewMockLogger())

	added, err := s.Seed(ctx)
	require.NoError(t, err)
	assert.Len(t, added, len(DefaultRules()))

	added, err = s.Seed(ctx)
	require.NoError(t, err)
	assert.Empty(t, added)
}
