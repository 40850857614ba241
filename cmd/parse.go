package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/notamd/nota/internal/blocks"
)

var parseFormat string

func init() {
	parseCmd.Flags().StringVarP(&parseFormat, "format", "f", "yaml", "output format (json or yaml)")
	rootCmd.AddCommand(parseCmd)
}

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a Markdown document into typed blocks",
	Long: `Parse reads a Markdown document (file argument or stdin) and prints
the recognized blocks with their line spans, attributes, and diagnostics.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		content, err := readInput(args)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		result := blocks.NewEngine().Parse(content)
		if err := printDocument(result, parseFormat); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		printDiagnostics(result)
	},
}

// printDocument marshals any value in the requested format on stdout.
func printDocument(value any, format string) error {
	switch format {
	case "json":
		output, err := json.MarshalIndent(value, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(output))
	case "yaml":
		output, err := yaml.Marshal(value)
		if err != nil {
			return err
		}
		fmt.Print(string(output))
	default:
		return fmt.Errorf("unsupported format %q (expected json or yaml)", format)
	}
	return nil
}

// printDiagnostics summarizes the parse on stderr, colored by severity.
func printDiagnostics(result *blocks.Result) {
	meta := result.Metadata
	summary := fmt.Sprintf("%d blocks (%d valid, %d invalid) over %d lines",
		len(result.Blocks), meta.ValidBlocks, meta.InvalidBlocks, meta.TotalLines)
	switch {
	case len(meta.Errors) > 0:
		color.New(color.FgRed).Fprintln(os.Stderr, summary)
	case len(meta.Warnings) > 0:
		color.New(color.FgYellow).Fprintln(os.Stderr, summary)
	default:
		color.New(color.FgGreen).Fprintln(os.Stderr, summary)
	}
	for _, message := range meta.Errors {
		color.New(color.FgRed).Fprintf(os.Stderr, "[ERROR] %s\n", message)
	}
	for _, message := range meta.Warnings {
		color.New(color.FgYellow).Fprintf(os.Stderr, "[WARNING] %s\n", message)
	}
}
