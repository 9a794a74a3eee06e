// Package store persists rules, counterparties, the taxonomy, ledger records
// and the import history.
package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"fjacquet/ofx-import/internal/common"
	"fjacquet/ofx-import/internal/logging"
	"fjacquet/ofx-import/internal/models"
	"fjacquet/ofx-import/internal/taxonomy"
)

// ErrNotFound is returned when an entity with the given ID does not exist.
var ErrNotFound = errors.New("not found")

// Files names the files of a FileStore. Relative names are resolved against
// the data directory.
type Files struct {
	Rules          string
	Taxonomy       string
	Counterparties string
	Records        string
	History        string
}

// DefaultFiles are the file names used when none are configured.
var DefaultFiles = Files{
	Rules:          "rules.yaml",
	Taxonomy:       "taxonomy.yaml",
	Counterparties: "counterparties.yaml",
	Records:        "records.csv",
	History:        "imports.csv",
}

// FileStore keeps YAML documents for rules, counterparties and the taxonomy,
// and append-only CSV files for records and history.
type FileStore struct {
	mu     sync.Mutex
	files  Files
	logger logging.Logger
}

// NewFileStore returns a FileStore rooted at dir.
func NewFileStore(dir string, files Files, logger logging.Logger) *FileStore {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &FileStore{
		files: Files{
			Rules:          resolve(dir, files.Rules, DefaultFiles.Rules),
			Taxonomy:       resolve(dir, files.Taxonomy, DefaultFiles.Taxonomy),
			Counterparties: resolve(dir, files.Counterparties, DefaultFiles.Counterparties),
			Records:        resolve(dir, files.Records, DefaultFiles.Records),
			History:        resolve(dir, files.History, DefaultFiles.History),
		},
		logger: logger.WithField(logging.FieldComponent, "store"),
	}
}

func resolve(dir, name, fallback string) string {
	if name == "" {
		name = fallback
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(dir, name)
}

// Files returns the resolved file paths.
func (s *FileStore) Files() Files {
	return s.files
}

// loadYAML decodes path into out. A missing file leaves out untouched and
// reports false.
func loadYAML(path string, out interface{}) (bool, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from configuration
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("error reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("error parsing %s: %w", path, err)
	}
	return true, nil
}

// saveYAML writes v to path through a temporary file and a rename.
func saveYAML(path string, v interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), models.PermissionDirectory); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("error marshaling %s: %w", path, err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, models.PermissionFile); err != nil {
		return fmt.Errorf("error writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("error replacing %s: %w", path, err)
	}
	return nil
}

func (s *FileStore) readRules() (rulesFile, error) {
	var doc rulesFile
	_, err := loadYAML(s.files.Rules, &doc)
	return doc, err
}

// ListRules returns the rules in stored order.
func (s *FileStore) ListRules(ctx context.Context) ([]models.ClassificationRule, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.readRules()
	if err != nil {
		return nil, err
	}
	out := make([]models.ClassificationRule, len(doc.Rules))
	for i, r := range doc.Rules {
		out[i] = ruleFromRow(r)
	}
	return out, nil
}

// InsertRules appends rules in one write.
func (s *FileStore) InsertRules(ctx context.Context, rules []models.ClassificationRule) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(rules) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.readRules()
	if err != nil {
		return err
	}
	for _, r := range rules {
		doc.Rules = append(doc.Rules, ruleToRow(r))
	}
	if err := saveYAML(s.files.Rules, doc); err != nil {
		return err
	}
	s.logger.Debug("Saved rules", logging.F(logging.FieldFile, s.files.Rules), logging.F(logging.FieldCount, len(doc.Rules)))
	return nil
}

// DeleteRule removes the rule with the given ID.
func (s *FileStore) DeleteRule(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.readRules()
	if err != nil {
		return err
	}
	kept := doc.Rules[:0]
	for _, r := range doc.Rules {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(doc.Rules) {
		return fmt.Errorf("rule %s: %w", id, ErrNotFound)
	}
	doc.Rules = kept
	return saveYAML(s.files.Rules, doc)
}

// LoadTaxonomy reads the taxonomy file, falling back to the built-in
// taxonomy when the file does not exist.
func (s *FileStore) LoadTaxonomy(ctx context.Context) (*taxonomy.Taxonomy, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var doc taxonomyFile
	found, err := loadYAML(s.files.Taxonomy, &doc)
	if err != nil {
		return nil, err
	}
	if !found {
		s.logger.Debug("Taxonomy file not found, using built-in taxonomy", logging.F(logging.FieldFile, s.files.Taxonomy))
		return taxonomy.Default(), nil
	}
	t, err := taxonomy.New(doc.Categories)
	if err != nil {
		return nil, fmt.Errorf("invalid taxonomy in %s: %w", s.files.Taxonomy, err)
	}
	return t, nil
}

// SaveTaxonomy writes t to the taxonomy file.
func (s *FileStore) SaveTaxonomy(ctx context.Context, t *taxonomy.Taxonomy) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return saveYAML(s.files.Taxonomy, taxonomyFile{Categories: t.Definitions()})
}

func (s *FileStore) readCounterparties() ([]models.Counterparty, error) {
	var doc counterpartiesFile
	if _, err := loadYAML(s.files.Counterparties, &doc); err != nil {
		return nil, err
	}
	out := make([]models.Counterparty, len(doc.Counterparties))
	for i, r := range doc.Counterparties {
		out[i] = counterpartyFromRow(r)
	}
	return out, nil
}

// ListCounterparties returns every known counterparty.
func (s *FileStore) ListCounterparties(ctx context.Context) ([]models.Counterparty, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readCounterparties()
}

// LookupCounterparty finds a counterparty by ID.
func (s *FileStore) LookupCounterparty(ctx context.Context, id string) (models.Counterparty, bool, error) {
	all, err := s.ListCounterparties(ctx)
	if err != nil {
		return models.Counterparty{}, false, err
	}
	for _, c := range all {
		if c.ID == id {
			return c, true, nil
		}
	}
	return models.Counterparty{}, false, nil
}

// SaveCounterparties replaces the counterparty list.
func (s *FileStore) SaveCounterparties(ctx context.Context, parties []models.Counterparty) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := counterpartiesFile{Counterparties: make([]counterpartyRow, len(parties))}
	for i, c := range parties {
		doc.Counterparties[i] = counterpartyToRow(c)
	}
	return saveYAML(s.files.Counterparties, doc)
}

// InsertRecords appends records to the ledger file in one write.
func (s *FileStore) InsertRecords(ctx context.Context, records []models.LedgerRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := make([]recordRow, len(records))
	for i, r := range records {
		rows[i] = recordToRow(r)
	}
	if err := common.AppendCSVFile(s.files.Records, rows); err != nil {
		return fmt.Errorf("failed to write records: %w", err)
	}
	s.logger.Debug("Appended records", logging.F(logging.FieldFile, s.files.Records), logging.F(logging.FieldCount, len(rows)))
	return nil
}

// ListRecords returns every ledger record in file order.
func (s *FileStore) ListRecords(ctx context.Context) ([]models.LedgerRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := common.ReadCSVFile[recordRow](s.files.Records)
	if err != nil {
		return nil, fmt.Errorf("failed to read records: %w", err)
	}
	out := make([]models.LedgerRecord, 0, len(rows))
	for _, r := range rows {
		rec, err := recordFromRow(r)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// ImportedFitIDs returns the FITIDs already recorded for an account.
func (s *FileStore) ImportedFitIDs(ctx context.Context, accountID string) (map[string]bool, error) {
	records, err := s.ListRecords(ctx)
	if err != nil {
		return nil, err
	}
	return fitIDsFor(records, accountID), nil
}

func fitIDsFor(records []models.LedgerRecord, accountID string) map[string]bool {
	ids := map[string]bool{}
	for _, r := range records {
		if r.AccountID == accountID && r.FitID != "" {
			ids[r.FitID] = true
		}
	}
	return ids
}

// AppendHistory records a committed import.
func (s *FileStore) AppendHistory(ctx context.Context, entry models.ImportHistoryEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := common.AppendCSVFile(s.files.History, []historyRow{historyToRow(entry)}); err != nil {
		return fmt.Errorf("failed to write import history: %w", err)
	}
	return nil
}

// ListHistory returns the import history, newest first.
func (s *FileStore) ListHistory(ctx context.Context) ([]models.ImportHistoryEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := common.ReadCSVFile[historyRow](s.files.History)
	if err != nil {
		return nil, fmt.Errorf("failed to read import history: %w", err)
	}
	out := make([]models.ImportHistoryEntry, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		entry, err := historyFromRow(rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, nil
}
