package models

import "github.com/shopspring/decimal"

// SplitEntry is one share of a split transaction. Value is a positive magnitude.
type SplitEntry struct {
	ID           string          `json:"id"`
	Value        decimal.Decimal `json:"value"`
	Path         CategoryPath    `json:"path"`
	Counterparty string          `json:"counterparty,omitempty"`
}

// ReviewRow is a transaction under review together with its classification.
//
// When Split is true the entries in Splits replace Path and Counterparty
// at commit time.
type ReviewRow struct {
	Transaction  StatementTransaction
	Path         CategoryPath
	Counterparty string
	Selected     bool
	Split        bool
	Splits       []SplitEntry
	Duplicate    bool
	RuleID       string
}

// CloneSplits returns a copy of the split entries.
func (r ReviewRow) CloneSplits() []SplitEntry {
	if len(r.Splits) == 0 {
		return nil
	}
	out := make([]SplitEntry, len(r.Splits))
	copy(out, r.Splits)
	return out
}
