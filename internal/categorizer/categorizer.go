// Package categorizer assigns a category path and counterparty to statement
// transactions from the keyword rule book, falling back to memo heuristics
// for the counterparty.
package categorizer

import (
	"context"

	"fjacquet/ofx-import/internal/logging"
	"fjacquet/ofx-import/internal/models"
	"fjacquet/ofx-import/internal/textutils"
)

// Counterparty sources, reported in debug logs.
const (
	sourceDirectory = "directory"
	sourceRule      = "rule"
	sourceExtractor = "extractor"
)

// Classifier is the deterministic auto-classifier. Classification never
// fails: collaborator errors are logged and the next fallback is used.
type Classifier struct {
	rules     RuleLookup
	directory Directory
	taxonomy  PathNormalizer
	logger    logging.Logger
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithDirectory resolves rule counterparty IDs through d.
func WithDirectory(d Directory) Option {
	return func(c *Classifier) { c.directory = d }
}

// WithTaxonomy normalizes every produced path against t.
func WithTaxonomy(t PathNormalizer) Option {
	return func(c *Classifier) { c.taxonomy = t }
}

// NewClassifier creates a Classifier over the given rules.
func NewClassifier(rules RuleLookup, logger logging.Logger, opts ...Option) *Classifier {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	c := &Classifier{
		rules:  rules,
		logger: logger.WithField(logging.FieldComponent, "classifier"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify performs exactly one rule lookup for tx. A matched rule supplies
// the path and counterparty together; the memo extractor only fills a
// counterparty the rule does not provide.
func (c *Classifier) Classify(ctx context.Context, tx models.StatementTransaction) models.Assignment {
	rule, ok := c.rules.Lookup(tx.Memo)
	if !ok {
		return models.Assignment{Counterparty: textutils.ExtractCounterparty(tx.Memo)}
	}

	name, source := c.ruleCounterparty(ctx, tx, rule)
	c.logger.Debug("Rule matched",
		logging.F(logging.FieldFitID, tx.FitID),
		logging.F(logging.FieldRuleID, rule.ID),
		logging.F(logging.FieldKeyword, rule.Keyword),
		logging.F("counterparty_source", source))

	return models.Assignment{
		Path:         c.normalize(rule.Path),
		Counterparty: name,
		RuleID:       rule.ID,
	}
}

func (c *Classifier) ruleCounterparty(ctx context.Context, tx models.StatementTransaction, rule models.ClassificationRule) (string, string) {
	if rule.CounterpartyID != "" && c.directory != nil {
		cp, found, err := c.directory.LookupCounterparty(ctx, rule.CounterpartyID)
		switch {
		case err != nil:
			c.logger.WithError(err).Warn("Counterparty lookup failed",
				logging.F(logging.FieldRuleID, rule.ID),
				logging.F("counterparty_id", rule.CounterpartyID))
		case !found:
			c.logger.Debug("Counterparty not found", logging.F("counterparty_id", rule.CounterpartyID))
		case cp.Role != expectedRole(tx):
			c.logger.Debug("Counterparty role does not match transaction direction",
				logging.F("counterparty_id", cp.ID),
				logging.F("role", string(cp.Role)))
		default:
			return cp.Name, sourceDirectory
		}
	}
	if rule.Counterparty != "" {
		return rule.Counterparty, sourceRule
	}
	return textutils.ExtractCounterparty(tx.Memo), sourceExtractor
}

// expectedRole is client for money coming in and supplier for money going out.
func expectedRole(tx models.StatementTransaction) models.CounterpartyRole {
	if tx.Amount.IsNegative() {
		return models.RoleSupplier
	}
	return models.RoleClient
}

func (c *Classifier) normalize(path models.CategoryPath) models.CategoryPath {
	if c.taxonomy == nil {
		return path
	}
	return c.taxonomy.Normalize(path)
}

// ClassifyAll seeds review rows for txs. Zero amount transactions are
// skipped and every row starts selected.
func (c *Classifier) ClassifyAll(ctx context.Context, txs []models.StatementTransaction) []models.ReviewRow {
	rows := make([]models.ReviewRow, 0, len(txs))
	matched := 0
	for _, tx := range txs {
		if tx.Amount.IsZero() {
			c.logger.Debug("Skipping zero amount transaction", logging.F(logging.FieldFitID, tx.FitID))
			continue
		}
		a := c.Classify(ctx, tx)
		if a.Matched() {
			matched++
		}
		rows = append(rows, models.ReviewRow{
			Transaction:  tx,
			Path:         a.Path,
			Counterparty: a.Counterparty,
			RuleID:       a.RuleID,
			Selected:     true,
		})
	}
	c.logger.Info("Classified transactions",
		logging.F(logging.FieldCount, len(rows)),
		logging.F("matched", matched))
	return rows
}

// Reapply classifies row again and overwrites only the fields the new
// assignment provides, so manual values survive a weaker match. The merged
// path is normalized so lower levels stay valid under the category.
func (c *Classifier) Reapply(ctx context.Context, row models.ReviewRow) models.ReviewRow {
	a := c.Classify(ctx, row.Transaction)
	row.Path = c.normalize(row.Path.Merge(a.Path))
	if a.Counterparty != "" {
		row.Counterparty = a.Counterparty
	}
	if a.RuleID != "" {
		row.RuleID = a.RuleID
	}
	return row
}
