// Package review holds the editable state of one statement import between
// parsing and commit.
package review

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"fjacquet/ofx-import/internal/logging"
	"fjacquet/ofx-import/internal/models"
)

// State is the session lifecycle stage.
type State string

// Session states. Committed is terminal.
const (
	StateCollecting State = "collecting"
	StateEditing    State = "editing"
	StateCommitted  State = "committed"
)

// PathEditor applies cascading category edits.
type PathEditor interface {
	WithCategory(path models.CategoryPath, name string) (models.CategoryPath, error)
	WithSubcategory(path models.CategoryPath, name string) (models.CategoryPath, error)
	WithLeaf(path models.CategoryPath, name string) (models.CategoryPath, error)
	Resolve(path models.CategoryPath) (models.CategoryPath, error)
}

// Reclassifier recomputes a row classification from the current rules.
type Reclassifier interface {
	Reapply(ctx context.Context, row models.ReviewRow) models.ReviewRow
}

// Summary totals the selected rows. Incoming and Outgoing are magnitudes.
type Summary struct {
	Rows       int
	Selected   int
	Duplicates int
	Incoming   decimal.Decimal
	Outgoing   decimal.Decimal
}

// Session is the review state of one statement. Rows are addressed by index;
// use Find to locate a row by FITID.
type Session struct {
	mu         sync.Mutex
	fileName   string
	header     models.StatementHeader
	rows       []models.ReviewRow
	state      State
	committing bool
	selectAll  bool
	paths      PathEditor
	logger     logging.Logger
}

// NewSession starts a session in the collecting state.
func NewSession(fileName string, header models.StatementHeader, rows []models.ReviewRow, paths PathEditor, logger logging.Logger) *Session {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Session{
		fileName:  fileName,
		header:    header,
		rows:      cloneRows(rows),
		state:     StateCollecting,
		selectAll: true,
		paths:     paths,
		logger:    logger.WithFields(logging.F(logging.FieldComponent, "review"), logging.F(logging.FieldFile, fileName)),
	}
}

func cloneRows(rows []models.ReviewRow) []models.ReviewRow {
	out := make([]models.ReviewRow, len(rows))
	for i, r := range rows {
		r.Splits = r.CloneSplits()
		out[i] = r
	}
	return out
}

// editable must be called with mu held.
func (s *Session) editable() error {
	if s.state == StateCommitted {
		return ErrSessionCommitted
	}
	if s.committing {
		return ErrCommitInFlight
	}
	return nil
}

// edit runs fn on row idx under the lock. A successful edit moves a
// collecting session to editing.
func (s *Session) edit(idx int, fn func(row *models.ReviewRow) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editable(); err != nil {
		return err
	}
	if idx < 0 || idx >= len(s.rows) {
		return fmt.Errorf("%w: index %d", ErrRowNotFound, idx)
	}
	if err := fn(&s.rows[idx]); err != nil {
		return err
	}
	s.touch()
	return nil
}

func (s *Session) touch() {
	if s.state == StateCollecting {
		s.state = StateEditing
		s.logger.Debug("Session state changed", logging.F(logging.FieldState, string(s.state)))
	}
}

// SetCategory sets the top-level category of a row with cascading resets.
func (s *Session) SetCategory(idx int, name string) error {
	return s.edit(idx, func(row *models.ReviewRow) error {
		path, err := s.paths.WithCategory(row.Path, name)
		if err != nil {
			return err
		}
		row.Path = path
		return nil
	})
}

// SetSubcategory sets the subcategory of a row, clearing an invalid leaf.
func (s *Session) SetSubcategory(idx int, name string) error {
	return s.edit(idx, func(row *models.ReviewRow) error {
		path, err := s.paths.WithSubcategory(row.Path, name)
		if err != nil {
			return err
		}
		row.Path = path
		return nil
	})
}

// SetLeaf sets the third category level of a row.
func (s *Session) SetLeaf(idx int, name string) error {
	return s.edit(idx, func(row *models.ReviewRow) error {
		path, err := s.paths.WithLeaf(row.Path, name)
		if err != nil {
			return err
		}
		row.Path = path
		return nil
	})
}

// SetPath replaces the whole path of a row after resolving it level by level.
func (s *Session) SetPath(idx int, path models.CategoryPath) error {
	return s.edit(idx, func(row *models.ReviewRow) error {
		resolved, err := s.paths.Resolve(path)
		if err != nil {
			return err
		}
		row.Path = resolved
		return nil
	})
}

// SetCounterparty overrides the counterparty of a row.
func (s *Session) SetCounterparty(idx int, name string) error {
	return s.edit(idx, func(row *models.ReviewRow) error {
		row.Counterparty = name
		return nil
	})
}

// SetSelected includes or excludes a row from the commit.
func (s *Session) SetSelected(idx int, selected bool) error {
	return s.edit(idx, func(row *models.ReviewRow) error {
		row.Selected = selected
		return nil
	})
}

// ToggleSelectAll flips the select-all flag and writes it to every row. The
// flag flips from its own previous value, not from the row states.
func (s *Session) ToggleSelectAll() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editable(); err != nil {
		return s.selectAll, err
	}
	s.selectAll = !s.selectAll
	for i := range s.rows {
		s.rows[i].Selected = s.selectAll
	}
	s.touch()
	return s.selectAll, nil
}

// ClearSplit turns a split row back into an atomic one.
func (s *Session) ClearSplit(idx int) error {
	return s.edit(idx, func(row *models.ReviewRow) error {
		row.Split = false
		row.Splits = nil
		return nil
	})
}

// ReapplyRules reclassifies every row, keeping manual values where the new
// assignment is empty.
func (s *Session) ReapplyRules(ctx context.Context, c Reclassifier) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editable(); err != nil {
		return err
	}
	for i := range s.rows {
		s.rows[i] = c.Reapply(ctx, s.rows[i])
	}
	s.touch()
	s.logger.Info("Reapplied rules", logging.F(logging.FieldCount, len(s.rows)))
	return nil
}

// OpenSplit starts a split edit on row idx, pre-filled with a copy of its
// current entries.
func (s *Session) OpenSplit(idx int) (*SplitEditor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editable(); err != nil {
		return nil, err
	}
	if idx < 0 || idx >= len(s.rows) {
		return nil, fmt.Errorf("%w: index %d", ErrRowNotFound, idx)
	}
	row := s.rows[idx]
	return &SplitEditor{
		session: s,
		index:   idx,
		fitID:   row.Transaction.FitID,
		amount:  row.Transaction.Magnitude(),
		entries: row.CloneSplits(),
	}, nil
}

func (s *Session) applySplit(idx int, fitID string, entries []models.SplitEntry) error {
	return s.edit(idx, func(row *models.ReviewRow) error {
		if row.Transaction.FitID != fitID {
			return fmt.Errorf("%w: %s", ErrRowNotFound, fitID)
		}
		row.Split = true
		row.Splits = entries
		return nil
	})
}

// BeginCommit blocks further edits until EndCommit.
func (s *Session) BeginCommit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editable(); err != nil {
		return err
	}
	s.committing = true
	return nil
}

// EndCommit finishes a commit. On success the session becomes committed;
// on failure it returns to editing with its rows untouched.
func (s *Session) EndCommit(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.committing = false
	if err != nil {
		s.state = StateEditing
	} else {
		s.state = StateCommitted
	}
	s.logger.Debug("Session state changed", logging.F(logging.FieldState, string(s.state)))
}

// State returns the lifecycle stage.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Rows returns a copy of every row.
func (s *Session) Rows() []models.ReviewRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneRows(s.rows)
}

// Row returns a copy of row idx.
func (s *Session) Row(idx int) (models.ReviewRow, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx < 0 || idx >= len(s.rows) {
		return models.ReviewRow{}, false
	}
	row := s.rows[idx]
	row.Splits = row.CloneSplits()
	return row, true
}

// Selected returns copies of the rows included in the commit.
func (s *Session) Selected() []models.ReviewRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.ReviewRow
	for _, r := range s.rows {
		if r.Selected {
			r.Splits = r.CloneSplits()
			out = append(out, r)
		}
	}
	return out
}

// Find returns the index of the row with this FITID.
func (s *Session) Find(fitID string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.rows {
		if r.Transaction.FitID == fitID {
			return i, true
		}
	}
	return -1, false
}

// Len returns the number of rows.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

// Summary totals the session.
func (s *Session) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	sum := Summary{Rows: len(s.rows), Incoming: decimal.Zero, Outgoing: decimal.Zero}
	for _, r := range s.rows {
		if r.Duplicate {
			sum.Duplicates++
		}
		if !r.Selected {
			continue
		}
		sum.Selected++
		if r.Transaction.Amount.IsPositive() {
			sum.Incoming = sum.Incoming.Add(r.Transaction.Amount)
		} else {
			sum.Outgoing = sum.Outgoing.Add(r.Transaction.Amount.Abs())
		}
	}
	return sum
}

// Header returns the statement header.
func (s *Session) Header() models.StatementHeader {
	return s.header
}

// FileName returns the statement file name.
func (s *Session) FileName() string {
	return s.fileName
}
