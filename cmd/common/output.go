// Package common holds the output helpers shared by the command handlers.
package common

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	shared "fjacquet/ofx-import/internal/common"
	"fjacquet/ofx-import/internal/currencyutils"
	"fjacquet/ofx-import/internal/importer"
	"fjacquet/ofx-import/internal/models"
	"fjacquet/ofx-import/internal/review"
)

// TransactionRow is the CSV form of a parsed transaction.
type TransactionRow struct {
	FitID  string `csv:"fit_id"`
	Kind   string `csv:"kind"`
	Date   string `csv:"date"`
	Amount string `csv:"amount"`
	Memo   string `csv:"memo"`
}

// WriteStatement writes the header as a one-row CSV block, a blank line and
// then the transactions.
func WriteStatement(w io.Writer, stmt models.Statement, delimiter rune) error {
	if err := shared.WriteCSV(w, []models.StatementHeader{stmt.Header}, delimiter); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	rows := make([]TransactionRow, len(stmt.Transactions))
	for i, tx := range stmt.Transactions {
		rows[i] = TransactionRow{
			FitID:  tx.FitID,
			Kind:   string(tx.Kind),
			Date:   tx.Date,
			Amount: tx.Amount.StringFixed(2),
			Memo:   tx.Memo,
		}
	}
	return shared.WriteCSV(w, rows, delimiter)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func mark(b bool, s string) string {
	if b {
		return s
	}
	return ""
}

// PrintReview prints one line per session row, split entries indented below.
func PrintReview(w io.Writer, s *review.Session) error {
	currency := s.Header().Currency
	tw := newTable(w)
	fmt.Fprintln(tw, "#\tSEL\tFITID\tDATE\tAMOUNT\tCATEGORY\tCOUNTERPARTY\tMEMO\tFLAGS")
	for i, row := range s.Rows() {
		tx := row.Transaction
		flags := strings.TrimSpace(mark(row.Duplicate, "duplicate ") + mark(row.Split, "split ") + mark(row.RuleID != "", "rule"))
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			i+1, mark(row.Selected, "x"), tx.FitID, tx.Date,
			currencyutils.FormatAmount(tx.Amount, currency),
			row.Path.String(), row.Counterparty, tx.Memo, flags)
		for _, e := range row.Splits {
			fmt.Fprintf(tw, "\t\t\t\t%s\t%s\t%s\t\t\n",
				currencyutils.FormatAmount(e.Value, currency), e.Path.String(), e.Counterparty)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	sum := s.Summary()
	_, err := fmt.Fprintf(w, "\n%d of %d selected (%d already imported), in %s, out %s\n",
		sum.Selected, sum.Rows, sum.Duplicates,
		currencyutils.FormatAmount(sum.Incoming, currency),
		currencyutils.FormatAmount(sum.Outgoing, currency))
	return err
}

func sumRecords(records []models.LedgerRecord, kind models.RecordKind) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		if r.Kind == kind {
			total = total.Add(r.Amount)
		}
	}
	return total
}

// PrintPlan prints what a commit would write.
func PrintPlan(w io.Writer, plan importer.Plan) error {
	fmt.Fprintf(w, "Dry run for account %s: %d records from %d selected rows (payables %s, receivables %s)\n",
		plan.AccountID, len(plan.Records), plan.Selected,
		sumRecords(plan.Records, models.RecordPayable).StringFixed(2),
		sumRecords(plan.Records, models.RecordReceivable).StringFixed(2))
	if len(plan.Rules) == 0 {
		_, err := fmt.Fprintln(w, "No new rules would be learned.")
		return err
	}
	fmt.Fprintln(w, "Rules that would be learned:")
	return PrintRules(w, plan.Rules)
}

// PrintResult prints a commit outcome.
func PrintResult(w io.Writer, res importer.Result) error {
	fmt.Fprintf(w, "Imported %d records (%d payables, %d receivables), learned %d rules.\n",
		res.RecordCount, res.Payables, res.Receivables, len(res.NewRules))
	if len(res.NewRules) == 0 {
		return nil
	}
	return PrintRules(w, res.NewRules)
}

// PrintRules prints rules in stored order.
func PrintRules(w io.Writer, rules []models.ClassificationRule) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tKEYWORD\tCATEGORY\tCOUNTERPARTY")
	for _, r := range rules {
		cp := r.Counterparty
		if r.CounterpartyID != "" {
			cp = strings.TrimSpace(cp + " [" + r.CounterpartyID + "]")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.ID, r.Keyword, r.Path.String(), cp)
	}
	return tw.Flush()
}

// PrintHistory prints import history entries.
func PrintHistory(w io.Writer, entries []models.ImportHistoryEntry) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "IMPORTED AT\tFILE\tACCOUNT\tINSTITUTION\tRECORDS\tSTATUS")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n",
			e.ImportedAt.Local().Format("2006-01-02 15:04"), e.FileName, e.AccountID,
			e.Institution, e.RecordCount, e.Status)
	}
	return tw.Flush()
}
