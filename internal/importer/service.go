package importer

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"fjacquet/ofx-import/internal/common"
	"fjacquet/ofx-import/internal/logging"
	"fjacquet/ofx-import/internal/models"
	"fjacquet/ofx-import/internal/parser"
	"fjacquet/ofx-import/internal/review"
)

// Classifier seeds and refreshes review rows.
type Classifier interface {
	ClassifyAll(ctx context.Context, txs []models.StatementTransaction) []models.ReviewRow
	review.Reclassifier
}

// RuleBook is the rule store the service learns into.
type RuleBook interface {
	KnownKeywords
	AddAll(ctx context.Context, rules []models.ClassificationRule) ([]models.ClassificationRule, error)
}

// RecordStore receives committed ledger records in bulk.
type RecordStore interface {
	InsertRecords(ctx context.Context, records []models.LedgerRecord) error
}

// HistoryStore records committed imports.
type HistoryStore interface {
	AppendHistory(ctx context.Context, entry models.ImportHistoryEntry) error
}

// ImportIndex tells which FITIDs an account already has on record.
type ImportIndex interface {
	ImportedFitIDs(ctx context.Context, accountID string) (map[string]bool, error)
}

// Dependencies are the collaborators of a Service.
type Dependencies struct {
	Parser     parser.Parser
	Classifier Classifier
	Rules      RuleBook
	Records    RecordStore
	History    HistoryStore
	Index      ImportIndex
	Paths      review.PathEditor
	Logger     logging.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithSkipDuplicates deselects rows whose FITID was already imported.
func WithSkipDuplicates(skip bool) Option {
	return func(s *Service) {
		s.skipDuplicates = skip
	}
}

// WithClock overrides the time source used for history entries.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// Service opens statements for review and commits reviewed sessions.
type Service struct {
	deps           Dependencies
	skipDuplicates bool
	now            func() time.Time
	logger         logging.Logger
}

// NewService returns a Service. Duplicate skipping is on by default.
func NewService(deps Dependencies, opts ...Option) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	s := &Service{
		deps:           deps,
		skipDuplicates: true,
		now:            time.Now,
		logger:         logger.WithField(logging.FieldComponent, "importer"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Plan is what a commit of a session would write.
type Plan struct {
	AccountID string
	Rules     []models.ClassificationRule
	Records   []models.LedgerRecord
	Selected  int
}

// Result describes a finished commit.
type Result struct {
	RecordCount int
	Payables    int
	Receivables int
	NewRules    []models.ClassificationRule
	History     models.ImportHistoryEntry
}

// OpenFile validates and opens a statement file.
func (s *Service) OpenFile(ctx context.Context, filePath string) (*review.Session, error) {
	if v, ok := s.deps.Parser.(parser.Validator); ok {
		if err := v.ValidateFormat(filePath); err != nil {
			return nil, err
		}
	}
	file, err := os.Open(filePath) // #nosec G304 -- user supplied statement path
	if err != nil {
		return nil, fmt.Errorf("error opening file %s: %w", filePath, err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			s.logger.WithError(closeErr).Warn("Failed to close file", logging.F(logging.FieldFile, filePath))
		}
	}()
	return s.Open(ctx, filePath, file)
}

// Open parses a statement and returns a review session for it. Rows whose
// FITID is already on record for the account are flagged and, when
// duplicate skipping is on, deselected.
func (s *Service) Open(ctx context.Context, fileName string, r io.Reader) (*review.Session, error) {
	stmt, err := s.deps.Parser.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", fileName, err)
	}
	account := common.ResolveAccount(stmt.Header, fileName)
	rows := s.deps.Classifier.ClassifyAll(ctx, stmt.Transactions)

	if s.deps.Index != nil {
		imported, err := s.deps.Index.ImportedFitIDs(ctx, account.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to read imported transactions: %w", err)
		}
		duplicates := 0
		for i := range rows {
			if imported[rows[i].Transaction.FitID] {
				rows[i].Duplicate = true
				if s.skipDuplicates {
					rows[i].Selected = false
				}
				duplicates++
			}
		}
		if duplicates > 0 {
			s.logger.Info("Found already imported transactions",
				logging.F(logging.FieldAccount, account.ID),
				logging.F(logging.FieldCount, duplicates))
		}
	}

	s.logger.Info("Opened statement",
		logging.F(logging.FieldFile, fileName),
		logging.F(logging.FieldAccount, account.ID),
		logging.F(logging.FieldCount, len(rows)))
	return review.NewSession(fileName, stmt.Header, rows, s.deps.Paths, s.logger), nil
}

// Preview computes the plan of a commit without writing anything.
func (s *Service) Preview(session *review.Session) Plan {
	account := common.ResolveAccount(session.Header(), session.FileName())
	selected := session.Selected()
	return Plan{
		AccountID: account.ID,
		Rules:     Learn(session.Rows(), s.deps.Rules),
		Records:   Flatten(selected, session.Header(), account.ID),
		Selected:  len(selected),
	}
}

// Commit learns rules from the whole session, writes the selected rows as
// ledger records and appends one history entry. On any failure no history
// entry is written and the session returns to editing.
func (s *Service) Commit(ctx context.Context, session *review.Session) (res Result, err error) {
	if err := session.BeginCommit(); err != nil {
		return Result{}, err
	}
	defer func() { session.EndCommit(err) }()

	plan := s.Preview(session)
	start := s.now()

	added, err := s.deps.Rules.AddAll(ctx, plan.Rules)
	if err != nil {
		return Result{}, fmt.Errorf("failed to save learned rules: %w", err)
	}
	if len(plan.Records) > 0 {
		if err := s.deps.Records.InsertRecords(ctx, plan.Records); err != nil {
			return Result{}, fmt.Errorf("failed to save records: %w", err)
		}
	}

	entry := models.ImportHistoryEntry{
		ID:          uuid.NewString(),
		FileName:    session.FileName(),
		ImportedAt:  start,
		RecordCount: plan.Selected,
		Status:      models.ImportCompleted,
		AccountID:   plan.AccountID,
		Institution: session.Header().InstitutionName,
	}
	if err := s.deps.History.AppendHistory(ctx, entry); err != nil {
		return Result{}, fmt.Errorf("failed to record import history: %w", err)
	}

	payables, receivables := countKinds(plan.Records)
	s.logger.Info("Committed import",
		logging.F(logging.FieldFile, session.FileName()),
		logging.F(logging.FieldCount, len(plan.Records)),
		logging.F("new_rules", len(added)),
		logging.F(logging.FieldDuration, s.now().Sub(start).Milliseconds()))

	return Result{
		RecordCount: len(plan.Records),
		Payables:    payables,
		Receivables: receivables,
		NewRules:    added,
		History:     entry,
	}, nil
}
