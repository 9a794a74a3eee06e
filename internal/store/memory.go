package store

import (
	"context"
	"fmt"
	"sync"

	"fjacquet/ofx-import/internal/models"
	"fjacquet/ofx-import/internal/taxonomy"
)

// MemoryStore is an in-memory store for tests and dry runs. The *Err fields
// make the matching operation fail without changing state.
type MemoryStore struct {
	mu sync.Mutex

	Rules          []models.ClassificationRule
	Counterparties []models.Counterparty
	Records        []models.LedgerRecord
	History        []models.ImportHistoryEntry
	Taxonomy       *taxonomy.Taxonomy

	ListRulesErr      error
	InsertRulesErr    error
	DeleteRuleErr     error
	LookupErr         error
	InsertRecordsErr  error
	ImportedFitIDsErr error
	AppendHistoryErr  error

	InsertRulesCalls   int
	InsertRecordsCalls int
	AppendHistoryCalls int
}

// NewMemoryStore returns an empty MemoryStore using the built-in taxonomy.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{Taxonomy: taxonomy.Default()}
}

func (m *MemoryStore) ListRules(ctx context.Context) ([]models.ClassificationRule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListRulesErr != nil {
		return nil, m.ListRulesErr
	}
	return append([]models.ClassificationRule(nil), m.Rules...), nil
}

func (m *MemoryStore) InsertRules(ctx context.Context, rules []models.ClassificationRule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InsertRulesCalls++
	if m.InsertRulesErr != nil {
		return m.InsertRulesErr
	}
	m.Rules = append(m.Rules, rules...)
	return nil
}

func (m *MemoryStore) DeleteRule(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteRuleErr != nil {
		return m.DeleteRuleErr
	}
	for i, r := range m.Rules {
		if r.ID == id {
			m.Rules = append(m.Rules[:i], m.Rules[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("rule %s: %w", id, ErrNotFound)
}

func (m *MemoryStore) LoadTaxonomy(ctx context.Context) (*taxonomy.Taxonomy, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Taxonomy == nil {
		return taxonomy.Default(), nil
	}
	return m.Taxonomy, nil
}

func (m *MemoryStore) LookupCounterparty(ctx context.Context, id string) (models.Counterparty, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LookupErr != nil {
		return models.Counterparty{}, false, m.LookupErr
	}
	for _, c := range m.Counterparties {
		if c.ID == id {
			return c, true, nil
		}
	}
	return models.Counterparty{}, false, nil
}

func (m *MemoryStore) InsertRecords(ctx context.Context, records []models.LedgerRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InsertRecordsCalls++
	if m.InsertRecordsErr != nil {
		return m.InsertRecordsErr
	}
	m.Records = append(m.Records, records...)
	return nil
}

func (m *MemoryStore) ImportedFitIDs(ctx context.Context, accountID string) (map[string]bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ImportedFitIDsErr != nil {
		return nil, m.ImportedFitIDsErr
	}
	return fitIDsFor(m.Records, accountID), nil
}

func (m *MemoryStore) AppendHistory(ctx context.Context, entry models.ImportHistoryEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AppendHistoryCalls++
	if m.AppendHistoryErr != nil {
		return m.AppendHistoryErr
	}
	m.History = append(m.History, entry)
	return nil
}

// ListHistory returns the history newest first, like FileStore.
func (m *MemoryStore) ListHistory(ctx context.Context) ([]models.ImportHistoryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.ImportHistoryEntry, 0, len(m.History))
	for i := len(m.History) - 1; i >= 0; i-- {
		out = append(out, m.History[i])
	}
	return out, nil
}
