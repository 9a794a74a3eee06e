package review

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Session errors.
var (
	ErrSessionCommitted   = errors.New("session already committed")
	ErrCommitInFlight     = errors.New("commit in progress")
	ErrRowNotFound        = errors.New("review row not found")
	ErrNoSplitEntries     = errors.New("a split needs at least one entry")
	ErrSplitEntryNotFound = errors.New("split entry not found")
	ErrNegativeSplitValue = errors.New("split value must not be negative")
)

// SplitSumError rejects a split whose entries do not add up to the
// transaction magnitude.
type SplitSumError struct {
	Expected decimal.Decimal
	Actual   decimal.Decimal
	Diff     decimal.Decimal
}

func (e *SplitSumError) Error() string {
	return fmt.Sprintf("split entries sum to %s, expected %s (difference %s)",
		e.Actual.StringFixed(2), e.Expected.StringFixed(2), e.Diff.StringFixed(2))
}
