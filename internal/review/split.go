package review

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fjacquet/ofx-import/internal/currencyutils"
	"fjacquet/ofx-import/internal/models"
)

// SplitEditor edits the split entries of one row. Changes stay local until
// Save succeeds.
type SplitEditor struct {
	session *Session
	index   int
	fitID   string
	amount  decimal.Decimal
	entries []models.SplitEntry
}

// Add appends an unclassified zero value entry and returns its ID.
func (e *SplitEditor) Add() string {
	id := uuid.NewString()
	e.entries = append(e.entries, models.SplitEntry{ID: id, Value: decimal.Zero})
	return id
}

// Remove deletes the entry with the given ID.
func (e *SplitEditor) Remove(id string) bool {
	for i, entry := range e.entries {
		if entry.ID == id {
			e.entries = append(e.entries[:i], e.entries[i+1:]...)
			return true
		}
	}
	return false
}

func (e *SplitEditor) entry(id string) (*models.SplitEntry, error) {
	for i := range e.entries {
		if e.entries[i].ID == id {
			return &e.entries[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrSplitEntryNotFound, id)
}

// SetValue sets the magnitude of an entry.
func (e *SplitEditor) SetValue(id string, value decimal.Decimal) error {
	if value.IsNegative() {
		return ErrNegativeSplitValue
	}
	entry, err := e.entry(id)
	if err != nil {
		return err
	}
	entry.Value = value
	return nil
}

func (e *SplitEditor) setPath(id string, next func(models.CategoryPath) (models.CategoryPath, error)) error {
	entry, err := e.entry(id)
	if err != nil {
		return err
	}
	path, err := next(entry.Path)
	if err != nil {
		return err
	}
	entry.Path = path
	return nil
}

// SetCategory sets an entry category with the same cascade as rows.
func (e *SplitEditor) SetCategory(id, name string) error {
	return e.setPath(id, func(p models.CategoryPath) (models.CategoryPath, error) {
		return e.session.paths.WithCategory(p, name)
	})
}

// SetSubcategory sets an entry subcategory.
func (e *SplitEditor) SetSubcategory(id, name string) error {
	return e.setPath(id, func(p models.CategoryPath) (models.CategoryPath, error) {
		return e.session.paths.WithSubcategory(p, name)
	})
}

// SetLeaf sets an entry leaf.
func (e *SplitEditor) SetLeaf(id, name string) error {
	return e.setPath(id, func(p models.CategoryPath) (models.CategoryPath, error) {
		return e.session.paths.WithLeaf(p, name)
	})
}

// SetPath resolves and sets a full entry path.
func (e *SplitEditor) SetPath(id string, path models.CategoryPath) error {
	return e.setPath(id, func(models.CategoryPath) (models.CategoryPath, error) {
		return e.session.paths.Resolve(path)
	})
}

// SetCounterparty sets an entry counterparty.
func (e *SplitEditor) SetCounterparty(id, name string) error {
	entry, err := e.entry(id)
	if err != nil {
		return err
	}
	entry.Counterparty = name
	return nil
}

// Entries returns a copy of the entries.
func (e *SplitEditor) Entries() []models.SplitEntry {
	out := make([]models.SplitEntry, len(e.entries))
	copy(out, e.entries)
	return out
}

// Expected is the magnitude the entries must add up to.
func (e *SplitEditor) Expected() decimal.Decimal {
	return e.amount
}

// Total sums the entry values.
func (e *SplitEditor) Total() decimal.Decimal {
	total := decimal.Zero
	for _, entry := range e.entries {
		total = total.Add(entry.Value)
	}
	return total
}

// Remaining is the amount still to distribute; negative when over-allocated.
func (e *SplitEditor) Remaining() decimal.Decimal {
	return e.amount.Sub(e.Total())
}

// CanSave reports whether the split has at least one entry.
func (e *SplitEditor) CanSave() bool {
	return len(e.entries) > 0
}

// Save validates the entries and stores them on the row. The row is left
// unchanged when validation fails.
func (e *SplitEditor) Save() error {
	if !e.CanSave() {
		return ErrNoSplitEntries
	}
	total := e.Total()
	if !currencyutils.WithinTolerance(total, e.amount) {
		return &SplitSumError{Expected: e.amount, Actual: total, Diff: total.Sub(e.amount).Abs()}
	}
	return e.session.applySplit(e.index, e.fitID, e.Entries())
}
