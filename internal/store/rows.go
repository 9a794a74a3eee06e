package store

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"fjacquet/ofx-import/internal/models"
	"fjacquet/ofx-import/internal/taxonomy"
)

// The row types below are the on-disk shapes. They are converted to and from
// the typed models here and nowhere else.

type ruleRow struct {
	ID             string `yaml:"id"`
	Keyword        string `yaml:"keyword"`
	Category       string `yaml:"category,omitempty"`
	Subcategory    string `yaml:"subcategory,omitempty"`
	Leaf           string `yaml:"leaf,omitempty"`
	Counterparty   string `yaml:"counterparty,omitempty"`
	CounterpartyID string `yaml:"counterparty_id,omitempty"`
}

type rulesFile struct {
	Rules []ruleRow `yaml:"rules"`
}

type counterpartyRow struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	Role string `yaml:"role"`
}

type counterpartiesFile struct {
	Counterparties []counterpartyRow `yaml:"counterparties"`
}

type taxonomyFile struct {
	Categories []taxonomy.Definition `yaml:"categories"`
}

type recordRow struct {
	ID           string `csv:"id"`
	Kind         string `csv:"kind"`
	FitID        string `csv:"fit_id"`
	Date         string `csv:"date"`
	DueDate      string `csv:"due_date"`
	Description  string `csv:"description"`
	Amount       string `csv:"amount"`
	Category     string `csv:"category"`
	Subcategory  string `csv:"subcategory"`
	Leaf         string `csv:"leaf"`
	Counterparty string `csv:"counterparty"`
	AccountID    string `csv:"account_id"`
	Institution  string `csv:"institution"`
	SplitOf      string `csv:"split_of"`
}

type historyRow struct {
	ID          string `csv:"id"`
	FileName    string `csv:"file_name"`
	ImportedAt  string `csv:"imported_at"`
	RecordCount int    `csv:"record_count"`
	Status      string `csv:"status"`
	AccountID   string `csv:"account_id"`
	Institution string `csv:"institution"`
}

func ruleFromRow(r ruleRow) models.ClassificationRule {
	return models.ClassificationRule{
		ID:             r.ID,
		Keyword:        r.Keyword,
		Path:           models.CategoryPath{Category: r.Category, Subcategory: r.Subcategory, Leaf: r.Leaf},
		Counterparty:   r.Counterparty,
		CounterpartyID: r.CounterpartyID,
	}
}

func ruleToRow(r models.ClassificationRule) ruleRow {
	return ruleRow{
		ID:             r.ID,
		Keyword:        r.Keyword,
		Category:       r.Path.Category,
		Subcategory:    r.Path.Subcategory,
		Leaf:           r.Path.Leaf,
		Counterparty:   r.Counterparty,
		CounterpartyID: r.CounterpartyID,
	}
}

func counterpartyFromRow(r counterpartyRow) models.Counterparty {
	return models.Counterparty{ID: r.ID, Name: r.Name, Role: models.CounterpartyRole(r.Role)}
}

func counterpartyToRow(c models.Counterparty) counterpartyRow {
	return counterpartyRow{ID: c.ID, Name: c.Name, Role: string(c.Role)}
}

func recordToRow(r models.LedgerRecord) recordRow {
	return recordRow{
		ID:           r.ID,
		Kind:         string(r.Kind),
		FitID:        r.FitID,
		Date:         r.Date,
		DueDate:      r.DueDate,
		Description:  r.Description,
		Amount:       r.Amount.StringFixed(2),
		Category:     r.Path.Category,
		Subcategory:  r.Path.Subcategory,
		Leaf:         r.Path.Leaf,
		Counterparty: r.Counterparty,
		AccountID:    r.AccountID,
		Institution:  r.Institution,
		SplitOf:      r.SplitOf,
	}
}

func recordFromRow(r recordRow) (models.LedgerRecord, error) {
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return models.LedgerRecord{}, fmt.Errorf("record %s: invalid amount %q: %w", r.ID, r.Amount, err)
	}
	return models.LedgerRecord{
		ID:           r.ID,
		Kind:         models.RecordKind(r.Kind),
		FitID:        r.FitID,
		Date:         r.Date,
		DueDate:      r.DueDate,
		Description:  r.Description,
		Amount:       amount,
		Path:         models.CategoryPath{Category: r.Category, Subcategory: r.Subcategory, Leaf: r.Leaf},
		Counterparty: r.Counterparty,
		AccountID:    r.AccountID,
		Institution:  r.Institution,
		SplitOf:      r.SplitOf,
	}, nil
}

func historyToRow(h models.ImportHistoryEntry) historyRow {
	return historyRow{
		ID:          h.ID,
		FileName:    h.FileName,
		ImportedAt:  h.ImportedAt.UTC().Format(time.RFC3339),
		RecordCount: h.RecordCount,
		Status:      string(h.Status),
		AccountID:   h.AccountID,
		Institution: h.Institution,
	}
}

func historyFromRow(r historyRow) (models.ImportHistoryEntry, error) {
	at, err := time.Parse(time.RFC3339, r.ImportedAt)
	if err != nil {
		return models.ImportHistoryEntry{}, fmt.Errorf("history %s: invalid timestamp %q: %w", r.ID, r.ImportedAt, err)
	}
	return models.ImportHistoryEntry{
		ID:          r.ID,
		FileName:    r.FileName,
		ImportedAt:  at,
		RecordCount: r.RecordCount,
		Status:      models.ImportStatus(r.Status),
		AccountID:   r.AccountID,
		Institution: r.Institution,
	}, nil
}
