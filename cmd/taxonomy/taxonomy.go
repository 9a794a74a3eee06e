// Package taxonomy implements the taxonomy command.
package taxonomy

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"fjacquet/ofx-import/cmd/root"
	"fjacquet/ofx-import/internal/taxonomy"
)

// Cmd represents the taxonomy command.
var Cmd = &cobra.Command{
	Use:   "taxonomy",
	Short: "Show the category tree",
	Run: func(cmd *cobra.Command, args []string) {
		if err := PrintTree(cmd.OutOrStdout(), root.GetContainer().GetTaxonomy()); err != nil {
			root.Log.Fatalf("Failed to print taxonomy: %v", err)
		}
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the built-in taxonomy to the taxonomy file for editing",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		fs := root.GetContainer().GetStore()
		if err := fs.SaveTaxonomy(ctx, taxonomy.Default()); err != nil {
			root.Log.Fatalf("Failed to write taxonomy: %v", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", fs.Files().Taxonomy)
	},
}

func init() {
	Cmd.AddCommand(initCmd)
}

// PrintTree prints one indented line per node with the kind of each
// top-level category.
func PrintTree(w io.Writer, t *taxonomy.Taxonomy) error {
	for _, cat := range t.Categories() {
		kind, _ := t.KindOf(cat)
		if _, err := fmt.Fprintf(w, "%s (%s)\n", cat, kind); err != nil {
			return err
		}
		for _, sub := range t.Subcategories(cat) {
			if _, err := fmt.Fprintf(w, "  %s\n", sub); err != nil {
				return err
			}
			for _, leaf := range t.Leaves(cat, sub) {
				if _, err := fmt.Fprintf(w, "    %s\n", leaf); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
