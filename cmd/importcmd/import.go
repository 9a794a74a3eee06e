// Package importcmd implements the import command.
package importcmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"fjacquet/ofx-import/cmd/common"
	"fjacquet/ofx-import/cmd/root"
	"fjacquet/ofx-import/internal/importer"
	"fjacquet/ofx-import/internal/review"
)

var (
	edits  Edits
	dryRun bool
)

// Cmd represents the import command.
var Cmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Review and import an OFX statement",
	Long: `Parse an OFX statement, classify it with the current rules, apply the
edits given as flags and record the selected transactions.

Rules are learned from every categorized transaction on commit.

Examples:
  ofx-import import extrato.ofx --dry-run
  ofx-import import extrato.ofx --set T0001=Alimentacao>Cantina \
      --split "T0002=60:Salario;140:Freelancer>Consultoria:Maria" --exclude T0003`,
	Args: cobra.ExactArgs(1),
	Run:  importFunc,
}

func init() {
	Cmd.Flags().StringSliceVar(&edits.Exclude, "exclude", nil, "FITIDs to leave out of the import")
	Cmd.Flags().StringArrayVar(&edits.Set, "set", nil, "Assign a category: FITID=Category>Subcategory>Leaf")
	Cmd.Flags().StringArrayVar(&edits.Counterparty, "counterparty", nil, "Assign a counterparty: FITID=Name")
	Cmd.Flags().StringArrayVar(&edits.Split, "split", nil, "Split a transaction: FITID=VALUE:Category>Sub[:Counterparty];VALUE:...")
	Cmd.Flags().BoolVar(&edits.Reapply, "reapply", false, "Reapply the rules before the other edits")
	Cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be recorded without writing")
}

func importFunc(cmd *cobra.Command, args []string) {
	c := root.GetContainer()
	if err := Run(cmd.Context(), c.GetImporter(), c.GetClassifier(), args[0], edits, dryRun, cmd.OutOrStdout()); err != nil {
		root.Log.Fatalf("Import failed: %v", err)
	}
}

// Service is the part of the import service the command uses.
type Service interface {
	OpenFile(ctx context.Context, filePath string) (*review.Session, error)
	Preview(session *review.Session) importer.Plan
	Commit(ctx context.Context, session *review.Session) (importer.Result, error)
}

// Run opens file, applies the edits, prints the review and commits unless
// dryRun is set.
func Run(ctx context.Context, svc Service, rc review.Reclassifier, file string, ed Edits, dryRun bool, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	session, err := svc.OpenFile(ctx, file)
	if err != nil {
		return err
	}
	if err := Apply(ctx, session, ed, rc); err != nil {
		return err
	}
	if err := common.PrintReview(out, session); err != nil {
		return err
	}
	fmt.Fprintln(out)

	if dryRun {
		return common.PrintPlan(out, svc.Preview(session))
	}
	res, err := svc.Commit(ctx, session)
	if err != nil {
		return err
	}
	return common.PrintResult(out, res)
}
