// Package history implements the history command.
package history

import (
	"context"

	"github.com/spf13/cobra"

	"fjacquet/ofx-import/cmd/common"
	"fjacquet/ofx-import/cmd/root"
)

var limit int

// Cmd represents the history command.
var Cmd = &cobra.Command{
	Use:   "history",
	Short: "Show past imports, newest first",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		entries, err := root.GetContainer().GetStore().ListHistory(ctx)
		if err != nil {
			root.Log.Fatalf("Failed to read history: %v", err)
		}
		if limit > 0 && len(entries) > limit {
			entries = entries[:limit]
		}
		if err := common.PrintHistory(cmd.OutOrStdout(), entries); err != nil {
			root.Log.Fatalf("Failed to print history: %v", err)
		}
	},
}

func init() {
	Cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show at most this many entries")
}
