package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/notamd/nota/internal/blocks"
	"github.com/notamd/nota/internal/doctree"
)

var convertFormat string

func init() {
	convertCmd.Flags().StringVarP(&convertFormat, "format", "f", "json", "output format (json or yaml)")
	rootCmd.AddCommand(convertCmd)
}

var convertCmd = &cobra.Command{
	Use:   "convert [file]",
	Short: "Convert a Markdown document to its editor document tree",
	Long: `Convert parses a Markdown document (file argument or stdin) and prints
the document tree consumed by the rich-text editor.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		content, err := readInput(args)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		result := blocks.NewEngine().Parse(content)
		doc := doctree.NewDoc(doctree.Convert(result.Blocks)...)
		if err := printDocument(doc, convertFormat); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		printDiagnostics(result)
	},
}
