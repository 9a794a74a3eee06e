// Package importer turns a reviewed statement into persisted ledger records,
// learning classification rules on the way.
package importer

import (
	"fjacquet/ofx-import/internal/models"
	"fjacquet/ofx-import/internal/textutils"
)

// KnownKeywords reports whether a rule keyword already exists.
type KnownKeywords interface {
	Contains(keyword string) bool
}

// Learn derives rules from classified rows. Each categorized row contributes
// the keywords of its memo that are neither known nor already derived in
// this pass. A rule copies the row's path and counterparty.
func Learn(rows []models.ReviewRow, known KnownKeywords) []models.ClassificationRule {
	seen := map[string]bool{}
	var learned []models.ClassificationRule
	for _, row := range rows {
		if row.Path.Category == "" {
			continue
		}
		for _, kw := range textutils.ExtractKeywords(row.Transaction.Memo) {
			key := textutils.NormalizeKeyword(kw)
			if seen[key] || (known != nil && known.Contains(kw)) {
				continue
			}
			seen[key] = true
			learned = append(learned, models.ClassificationRule{
				Keyword:      kw,
				Path:         row.Path,
				Counterparty: row.Counterparty,
			})
		}
	}
	return learned
}
