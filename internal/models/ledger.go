package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ImportStatus is the state recorded in the import history.
type ImportStatus string

// ImportHistoryEntry records one committed statement file.
type ImportHistoryEntry struct {
	ID          string
	FileName    string
	ImportedAt  time.Time
	RecordCount int
	Status      ImportStatus
	AccountID   string
	Institution string
}

// RecordKind routes a ledger record to payables or receivables.
type RecordKind string

// LedgerRecord is a payable or receivable produced by a commit. Amount is
// always a positive magnitude; Kind carries the direction. SplitOf holds the
// FITID of the source transaction when the record comes from a split entry.
type LedgerRecord struct {
	ID           string
	Kind         RecordKind
	FitID        string
	Date         string
	DueDate      string
	Description  string
	Amount       decimal.Decimal
	Path         CategoryPath
	Counterparty string
	AccountID    string
	Institution  string
	SplitOf      string
}

// KindForAmount returns payable for negative amounts and receivable otherwise.
func KindForAmount(amount decimal.Decimal) RecordKind {
	if amount.IsNegative() {
		return RecordPayable
	}
	return RecordReceivable
}
