package rules

import (
	"context"

	"fjacquet/ofx-import/internal/models"
)

// DefaultRules is the starter rule book offered by "rules seed".
func DefaultRules() []Rule {
	return []Rule{
		{Keyword: "CANTINA", Path: models.CategoryPath{Category: "Alimentacao", Subcategory: "Cantina"}, Counterparty: "Cantina"},
		{Keyword: "SUPERMERCADO", Path: models.CategoryPath{Category: "Alimentacao", Subcategory: "Supermercado"}},
		{Keyword: "CONVENIENCIA", Path: models.CategoryPath{Category: "Alimentacao", Subcategory: "Conveniencia"}},
		{Keyword: "SYNC PAY", Path: models.CategoryPath{Category: "Servicos", Subcategory: "Pagamentos Digitais"}, Counterparty: "Sync Pay"},
		{Keyword: "PIX", Path: models.CategoryPath{Category: "Transferencias", Subcategory: "PIX Recebido"}},
	}
}

// Seed adds the default rules that are not already present.
func (s *Store) Seed(ctx context.Context) ([]Rule, error) {
	return s.AddAll(ctx, DefaultRules())
}
