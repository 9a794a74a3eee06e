// Package parse implements the parse command.
package parse

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"fjacquet/ofx-import/cmd/common"
	"fjacquet/ofx-import/cmd/root"
	shared "fjacquet/ofx-import/internal/common"
	"fjacquet/ofx-import/internal/parser"
)

var (
	output    string
	delimiter string
)

// Cmd represents the parse command.
var Cmd = &cobra.Command{
	Use:   "parse FILE",
	Short: "Print the header and transactions of an OFX statement as CSV",
	Long: `Parse an OFX statement without classifying or recording it.
Transactions without FITID or with an unreadable amount are left out.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		if output != "" {
			file, err := os.Create(output) // #nosec G304 -- user supplied output path
			if err != nil {
				root.Log.Fatalf("Failed to create %s: %v", output, err)
			}
			defer func() { _ = file.Close() }()
			out = file
		}
		if err := Run(root.GetContainer().GetParser(), args[0], delimiterRune(delimiter), out); err != nil {
			root.Log.Fatalf("Parse failed: %v", err)
		}
	},
}

func init() {
	Cmd.Flags().StringVarP(&output, "output", "o", "", "Write CSV to this file instead of stdout")
	Cmd.Flags().StringVar(&delimiter, "delimiter", string(shared.DefaultDelimiter), "CSV column delimiter")
}

func delimiterRune(s string) rune {
	for _, r := range s {
		return r
	}
	return shared.DefaultDelimiter
}

// Run parses file with p and writes it as CSV.
func Run(p parser.FileParser, file string, delim rune, out io.Writer) error {
	stmt, err := p.ParseFile(file)
	if err != nil {
		return err
	}
	if err := common.WriteStatement(out, stmt, delim); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}
