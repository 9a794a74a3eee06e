// Package rules implements the rules command group.
package rules

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"fjacquet/ofx-import/cmd/common"
	"fjacquet/ofx-import/cmd/root"
	"fjacquet/ofx-import/internal/models"
	"fjacquet/ofx-import/internal/rules"
)

// AddOptions are the flags of "rules add".
type AddOptions struct {
	Keyword        string
	Path           string
	Counterparty   string
	CounterpartyID string
}

var addOpts AddOptions

// Cmd represents the rules command.
var Cmd = &cobra.Command{
	Use:   "rules",
	Short: "Manage classification rules",
	Long: `List, add, remove and seed the keyword rules used to classify transactions.
A rule matches when its keyword appears anywhere in the memo, ignoring
case; the first matching rule in stored order wins.`,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List rules in match order",
	Run: func(cmd *cobra.Command, args []string) {
		if err := common.PrintRules(cmd.OutOrStdout(), root.GetContainer().GetRules().List()); err != nil {
			root.Log.Fatalf("Failed to list rules: %v", err)
		}
	},
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a rule",
	Example: `  ofx-import rules add --keyword CANTINA --path "Alimentacao>Cantina"
  ofx-import rules add --keyword MERCADO --path Alimentacao --counterparty-id c-42`,
	Run: func(cmd *cobra.Command, args []string) {
		c := root.GetContainer()
		if err := RunAdd(cmd.Context(), c.GetRules(), c.GetTaxonomy(), addOpts, cmd.OutOrStdout()); err != nil {
			root.Log.Fatalf("Failed to add rule: %v", err)
		}
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove ID",
	Short: "Remove a rule by ID",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := root.GetContainer().GetRules().Remove(contextOf(cmd), args[0]); err != nil {
			root.Log.Fatalf("Failed to remove rule: %v", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed rule %s\n", args[0])
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Add the starter rules that are not present yet",
	Run: func(cmd *cobra.Command, args []string) {
		added, err := root.GetContainer().GetRules().Seed(contextOf(cmd))
		if err != nil {
			root.Log.Fatalf("Failed to seed rules: %v", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %d rules\n", len(added))
	},
}

func init() {
	addCmd.Flags().StringVarP(&addOpts.Keyword, "keyword", "k", "", "Keyword to look for in memos")
	addCmd.Flags().StringVarP(&addOpts.Path, "path", "p", "", "Category path: Category>Subcategory>Leaf")
	addCmd.Flags().StringVar(&addOpts.Counterparty, "counterparty", "", "Counterparty name")
	addCmd.Flags().StringVar(&addOpts.CounterpartyID, "counterparty-id", "", "Counterparty ID in the directory")
	_ = addCmd.MarkFlagRequired("keyword")

	Cmd.AddCommand(listCmd, addCmd, removeCmd, seedCmd)
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// PathResolver validates a category path.
type PathResolver interface {
	Resolve(path models.CategoryPath) (models.CategoryPath, error)
}

// RunAdd validates and persists one rule. A keyword that already exists is
// reported, not treated as an error.
func RunAdd(ctx context.Context, store *rules.Store, paths PathResolver, opts AddOptions, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	path := models.ParseCategoryPath(opts.Path)
	if !path.IsEmpty() {
		resolved, err := paths.Resolve(path)
		if err != nil {
			return err
		}
		path = resolved
	}

	rule, added, err := store.Add(ctx, rules.Rule{
		Keyword:        opts.Keyword,
		Path:           path,
		Counterparty:   opts.Counterparty,
		CounterpartyID: opts.CounterpartyID,
	})
	if err != nil {
		return err
	}
	if !added {
		_, err = fmt.Fprintf(out, "Keyword %q already has a rule\n", opts.Keyword)
		return err
	}
	_, err = fmt.Fprintf(out, "Added rule %s for %q\n", rule.ID, rule.Keyword)
	return err
}
