package rules

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"fjacquet/ofx-import/internal/logging"
)

// Errors returned by Store.
var (
	ErrEmptyKeyword  = errors.New("rule keyword must not be empty")
	ErrRuleNotFound  = errors.New("rule not found")
	ErrDuplicateRule = errors.New("rule keyword already exists")
)

// Repository persists rules in stored order.
type Repository interface {
	ListRules(ctx context.Context) ([]Rule, error)
	InsertRules(ctx context.Context, rules []Rule) error
	DeleteRule(ctx context.Context, id string) error
}

// Store is the rule book backed by a Repository. Memory only changes after
// the repository write succeeded, so a failed write can simply be retried.
type Store struct {
	repo   Repository
	set    *RuleSet
	logger logging.Logger
}

// NewStore returns an empty Store; call Load to read persisted rules.
func NewStore(repo Repository, logger logging.Logger) *Store {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Store{
		repo:   repo,
		set:    NewRuleSet(),
		logger: logger.WithField(logging.FieldComponent, "rules"),
	}
}

// Load replaces the in-memory rules with the persisted ones.
func (s *Store) Load(ctx context.Context) error {
	persisted, err := s.repo.ListRules(ctx)
	if err != nil {
		return fmt.Errorf("failed to load rules: %w", err)
	}
	set := NewRuleSet(persisted...)
	if set.Len() != len(persisted) {
		s.logger.Warn("Ignoring duplicate rule keywords",
			logging.F(logging.FieldCount, len(persisted)-set.Len()))
	}
	s.set = set
	s.logger.Debug("Loaded rules", logging.F(logging.FieldCount, set.Len()))
	return nil
}

// Lookup returns the first rule matching memo.
func (s *Store) Lookup(memo string) (Rule, bool) {
	return s.set.Lookup(memo)
}

// Contains reports whether keyword is already known.
func (s *Store) Contains(keyword string) bool {
	return s.set.Contains(keyword)
}

// List returns the rules in stored order.
func (s *Store) List() []Rule {
	return s.set.List()
}

// Add persists one rule. A duplicate keyword is a no-op returning false.
func (s *Store) Add(ctx context.Context, rule Rule) (Rule, bool, error) {
	added, err := s.AddAll(ctx, []Rule{rule})
	if err != nil {
		return Rule{}, false, err
	}
	if len(added) == 0 {
		return Rule{}, false, nil
	}
	return added[0], true, nil
}

// AddAll persists the rules whose keywords are new, in one repository call,
// and returns them with their IDs. Blank keywords fail the whole batch.
func (s *Store) AddAll(ctx context.Context, candidates []Rule) ([]Rule, error) {
	pending := NewRuleSet()
	var fresh []Rule
	for _, r := range candidates {
		if strings.TrimSpace(r.Keyword) == "" {
			return nil, ErrEmptyKeyword
		}
		if s.set.Contains(r.Keyword) || pending.Contains(r.Keyword) {
			s.logger.Debug("Skipping known keyword", logging.F(logging.FieldKeyword, r.Keyword))
			continue
		}
		r.Keyword = strings.TrimSpace(r.Keyword)
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		pending.Add(r)
		fresh = append(fresh, r)
	}
	if len(fresh) == 0 {
		return nil, nil
	}

	if err := s.repo.InsertRules(ctx, fresh); err != nil {
		return nil, fmt.Errorf("failed to insert %d rules: %w", len(fresh), err)
	}
	for _, r := range fresh {
		s.set.Add(r)
		s.logger.Info("Added rule",
			logging.F(logging.FieldRuleID, r.ID),
			logging.F(logging.FieldKeyword, r.Keyword),
			logging.F(logging.FieldCategory, r.Path.String()))
	}
	return fresh, nil
}

// Remove deletes a rule by ID.
func (s *Store) Remove(ctx context.Context, id string) error {
	if _, ok := s.set.Get(id); !ok {
		return fmt.Errorf("%w: %s", ErrRuleNotFound, id)
	}
	if err := s.repo.DeleteRule(ctx, id); err != nil {
		return fmt.Errorf("failed to delete rule %s: %w", id, err)
	}
	s.set.Remove(id)
	s.logger.Info("Removed rule", logging.F(logging.FieldRuleID, id))
	return nil
}
