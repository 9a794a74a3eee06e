// Package batch imports every statement of a directory without interactive
// review and reports the outcome per file and per account.
package batch

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"fjacquet/ofx-import/internal/common"
	"fjacquet/ofx-import/internal/dateutils"
	"fjacquet/ofx-import/internal/fileutils"
	"fjacquet/ofx-import/internal/importer"
	"fjacquet/ofx-import/internal/logging"
	"fjacquet/ofx-import/internal/models"
	"fjacquet/ofx-import/internal/review"
)

// StatementExtension selects the files a directory run picks up.
const StatementExtension = ".ofx"

// Importer opens and commits one statement.
type Importer interface {
	OpenFile(ctx context.Context, filePath string) (*review.Session, error)
	Commit(ctx context.Context, session *review.Session) (importer.Result, error)
}

// DateRange is an inclusive statement period.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// String returns "YYYY-MM-DD_YYYY-MM-DD", or "" for an incomplete range.
func (dr DateRange) String() string {
	if dr.Start.IsZero() || dr.End.IsZero() {
		return ""
	}
	return dateutils.ToISODate(dr.Start) + "_" + dateutils.ToISODate(dr.End)
}

// Merge returns the smallest range covering both.
func (dr DateRange) Merge(other DateRange) DateRange {
	start, end := dr.Start, dr.End
	if start.IsZero() || (!other.Start.IsZero() && other.Start.Before(start)) {
		start = other.Start
	}
	if end.IsZero() || (!other.End.IsZero() && other.End.After(end)) {
		end = other.End
	}
	return DateRange{Start: start, End: end}
}

// PeriodOf reads the statement period from a header. Unparseable bounds
// stay zero.
func PeriodOf(header models.StatementHeader) DateRange {
	var dr DateRange
	if t, err := dateutils.ParseDisplayDate(header.PeriodStart); err == nil {
		dr.Start = t
	}
	if t, err := dateutils.ParseDisplayDate(header.PeriodEnd); err == nil {
		dr.End = t
	}
	return dr
}

// FileResult is the outcome of one file. Err is set when the file was not
// committed.
type FileResult struct {
	File      string
	AccountID string
	Period    DateRange
	Result    importer.Result
	Err       error
}

// AccountSummary aggregates the committed files of one account.
type AccountSummary struct {
	AccountID string
	Files     []string
	Period    DateRange
	Records   int
}

// Report is the outcome of a run.
type Report struct {
	Files    []FileResult
	Accounts []AccountSummary
}

// Failed counts the files that were not committed.
func (r Report) Failed() int {
	n := 0
	for _, f := range r.Files {
		if f.Err != nil {
			n++
		}
	}
	return n
}

// Option configures a Runner.
type Option func(*Runner)

// WithClassifiedOnly deselects rows the rules left without a category.
func WithClassifiedOnly(only bool) Option {
	return func(r *Runner) {
		r.classifiedOnly = only
	}
}

// Runner commits statements as the rules classify them.
type Runner struct {
	importer       Importer
	classifiedOnly bool
	logger         logging.Logger
}

// NewRunner returns a Runner over imp.
func NewRunner(imp Importer, logger logging.Logger, opts ...Option) *Runner {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	r := &Runner{importer: imp, logger: logger.WithField(logging.FieldComponent, "batch")}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run imports every statement under dir in path order.
func (r *Runner) Run(ctx context.Context, dir string) (Report, error) {
	files, err := fileutils.ListFilesWithExtension(dir, StatementExtension)
	if err != nil {
		return Report{}, err
	}
	r.logger.Info("Found statements", logging.F("directory", dir), logging.F(logging.FieldCount, len(files)))
	return r.ImportFiles(ctx, files)
}

// ImportFiles imports files one after the other. A failing file is recorded
// and the run continues; only cancellation stops it early.
func (r *Runner) ImportFiles(ctx context.Context, files []string) (Report, error) {
	var report Report
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		res := r.importFile(ctx, file)
		if res.Err != nil {
			r.logger.WithError(res.Err).Error("Failed to import statement", logging.F(logging.FieldFile, file))
		}
		report.Files = append(report.Files, res)
	}
	report.Accounts = groupByAccount(report.Files)

	r.logger.Info("Batch import finished",
		logging.F(logging.FieldCount, len(files)),
		logging.F("failed", report.Failed()),
		logging.F("accounts", len(report.Accounts)))
	return report, nil
}

func (r *Runner) importFile(ctx context.Context, file string) FileResult {
	res := FileResult{File: file}

	session, err := r.importer.OpenFile(ctx, file)
	if err != nil {
		res.Err = err
		return res
	}
	res.AccountID = common.ResolveAccount(session.Header(), file).ID
	res.Period = PeriodOf(session.Header())

	if r.classifiedOnly {
		for i, row := range session.Rows() {
			if row.Selected && row.Path.Category == "" {
				if err := session.SetSelected(i, false); err != nil {
					res.Err = fmt.Errorf("failed to deselect row %d: %w", i, err)
					return res
				}
			}
		}
	}

	res.Result, res.Err = r.importer.Commit(ctx, session)
	return res
}

func groupByAccount(results []FileResult) []AccountSummary {
	byAccount := map[string]*AccountSummary{}
	for _, f := range results {
		if f.Err != nil {
			continue
		}
		sum, ok := byAccount[f.AccountID]
		if !ok {
			sum = &AccountSummary{AccountID: f.AccountID}
			byAccount[f.AccountID] = sum
		}
		sum.Files = append(sum.Files, filepath.Base(f.File))
		sum.Period = sum.Period.Merge(f.Period)
		sum.Records += f.Result.RecordCount
	}

	out := make([]AccountSummary, 0, len(byAccount))
	for _, s := range byAccount {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AccountID < out[j].AccountID })
	return out
}
