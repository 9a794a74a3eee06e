package importcmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"fjacquet/ofx-import/internal/currencyutils"
	"fjacquet/ofx-import/internal/models"
	"fjacquet/ofx-import/internal/parsererror"
	"fjacquet/ofx-import/internal/review"
)

var errMalformedEdit = errors.New("malformed edit")

// Edits are the review changes given on the command line, applied in this
// order: reapply, set, counterparty, split, exclude.
type Edits struct {
	Reapply      bool
	Set          []string // FITID=Category>Subcategory>Leaf
	Counterparty []string // FITID=Name
	Split        []string // FITID=VALUE:Category>Sub[:Counterparty];VALUE:...
	Exclude      []string // FITID
}

type splitSpec struct {
	Value        decimal.Decimal
	Path         models.CategoryPath
	Counterparty string
}

func parsePair(s string) (string, string, error) {
	key, value, ok := strings.Cut(s, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return "", "", fmt.Errorf("%w: %q, expected FITID=VALUE", errMalformedEdit, s)
	}
	return key, strings.TrimSpace(value), nil
}

func parseSplit(s string) (string, []splitSpec, error) {
	fitID, value, err := parsePair(s)
	if err != nil {
		return "", nil, err
	}
	var specs []splitSpec
	for _, part := range strings.Split(value, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		fields := strings.SplitN(part, ":", 3)
		if len(fields) < 2 {
			return "", nil, fmt.Errorf("%w: split entry %q, expected VALUE:PATH[:COUNTERPARTY]", errMalformedEdit, part)
		}
		amount, err := currencyutils.ParseAmount(fields[0])
		if err != nil {
			return "", nil, &parsererror.ParseError{Parser: "split", Field: fitID, Value: fields[0], Err: err}
		}
		spec := splitSpec{Value: amount, Path: models.ParseCategoryPath(fields[1])}
		if len(fields) == 3 {
			spec.Counterparty = strings.TrimSpace(fields[2])
		}
		specs = append(specs, spec)
	}
	if len(specs) == 0 {
		return "", nil, fmt.Errorf("%w: split for %s has no entries", errMalformedEdit, fitID)
	}
	return fitID, specs, nil
}

func find(s *review.Session, fitID string) (int, error) {
	idx, ok := s.Find(fitID)
	if !ok {
		return 0, fmt.Errorf("%w: %s", review.ErrRowNotFound, fitID)
	}
	return idx, nil
}

// Apply runs the edits against a session. The first failing edit stops the
// run and is returned.
func Apply(ctx context.Context, s *review.Session, ed Edits, rc review.Reclassifier) error {
	if ed.Reapply {
		if err := s.ReapplyRules(ctx, rc); err != nil {
			return err
		}
	}

	for _, raw := range ed.Set {
		fitID, value, err := parsePair(raw)
		if err != nil {
			return err
		}
		idx, err := find(s, fitID)
		if err != nil {
			return err
		}
		if err := s.SetPath(idx, models.ParseCategoryPath(value)); err != nil {
			return fmt.Errorf("set %s: %w", fitID, err)
		}
	}

	for _, raw := range ed.Counterparty {
		fitID, value, err := parsePair(raw)
		if err != nil {
			return err
		}
		idx, err := find(s, fitID)
		if err != nil {
			return err
		}
		if err := s.SetCounterparty(idx, value); err != nil {
			return err
		}
	}

	for _, raw := range ed.Split {
		fitID, specs, err := parseSplit(raw)
		if err != nil {
			return err
		}
		if err := applySplit(s, fitID, specs); err != nil {
			return fmt.Errorf("split %s: %w", fitID, err)
		}
	}

	for _, fitID := range ed.Exclude {
		idx, err := find(s, strings.TrimSpace(fitID))
		if err != nil {
			return err
		}
		if err := s.SetSelected(idx, false); err != nil {
			return err
		}
	}
	return nil
}

func applySplit(s *review.Session, fitID string, specs []splitSpec) error {
	idx, err := find(s, fitID)
	if err != nil {
		return err
	}
	editor, err := s.OpenSplit(idx)
	if err != nil {
		return err
	}
	for _, existing := range editor.Entries() {
		editor.Remove(existing.ID)
	}
	for _, spec := range specs {
		id := editor.Add()
		if err := editor.SetValue(id, spec.Value); err != nil {
			return err
		}
		if err := editor.SetPath(id, spec.Path); err != nil {
			return err
		}
		if err := editor.SetCounterparty(id, spec.Counterparty); err != nil {
			return err
		}
	}
	return editor.Save()
}
