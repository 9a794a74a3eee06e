package categorizer

import (
	"context"

	"fjacquet/ofx-import/internal/models"
)

// RuleLookup finds the first rule whose keyword occurs in a memo.
type RuleLookup interface {
	Lookup(memo string) (models.ClassificationRule, bool)
}

// Directory resolves counterparties referenced by ID from rules.
type Directory interface {
	LookupCounterparty(ctx context.Context, id string) (models.Counterparty, bool, error)
}

// PathNormalizer drops category levels that are no longer valid.
type PathNormalizer interface {
	Normalize(path models.CategoryPath) models.CategoryPath
}
