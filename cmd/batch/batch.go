// Package batch implements the batch command.
package batch

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"fjacquet/ofx-import/cmd/root"
	"fjacquet/ofx-import/internal/batch"
)

var classifiedOnly bool

// Cmd represents the batch command.
var Cmd = &cobra.Command{
	Use:   "batch DIR",
	Short: "Import every OFX statement of a directory without review",
	Long: `Import all .ofx files found under DIR, in path order, exactly as the
rules classify them. Already imported transactions are skipped when
import.skip_duplicates is on. A failing file does not stop the run.

Example:
  ofx-import batch statements/ --classified-only`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		c := root.GetContainer()
		runner := batch.NewRunner(c.GetImporter(), c.GetLogger(), batch.WithClassifiedOnly(classifiedOnly))
		report, err := runner.Run(ctx, args[0])
		if err != nil {
			root.Log.Fatalf("Batch import failed: %v", err)
		}
		if err := PrintReport(cmd.OutOrStdout(), report); err != nil {
			root.Log.Fatalf("Failed to print report: %v", err)
		}
		if report.Failed() > 0 {
			root.Log.Fatalf("%d of %d files failed", report.Failed(), len(report.Files))
		}
	},
}

func init() {
	Cmd.Flags().BoolVar(&classifiedOnly, "classified-only", false, "Leave out transactions no rule classified")
}

// PrintReport prints one line per file and per account.
func PrintReport(w io.Writer, report batch.Report) error {
	for _, f := range report.Files {
		var err error
		if f.Err != nil {
			_, err = fmt.Fprintf(w, "FAILED  %s: %v\n", f.File, f.Err)
		} else {
			_, err = fmt.Fprintf(w, "OK      %s: %d records, %d new rules\n", f.File, f.Result.RecordCount, len(f.Result.NewRules))
		}
		if err != nil {
			return err
		}
	}
	for _, a := range report.Accounts {
		if _, err := fmt.Fprintf(w, "Account %s: %d files, %d records, period %s\n", a.AccountID, len(a.Files), a.Records, a.Period); err != nil {
			return err
		}
	}
	return nil
}
