package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/notamd/nota/internal/core"
)

var verboseInfo bool
var verboseDebug bool
var verboseTrace bool

var rootCmd = &cobra.Command{
	Use:   "nota",
	Short: "Nota parses rich Markdown notes and exports them to static archives",
	Long: `Nota understands the extended Markdown dialect of scientific notes
(code, math, diagrams, citations, academic blocks) and turns documents
into structured block trees or self-contained HTML archives.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Enable verbose output. The most verbose level wins when multiple flags are passed.
		if verboseInfo {
			core.CurrentConfig().SetVerboseLevel(core.VerboseInfo)
		}
		if verboseDebug {
			core.CurrentConfig().SetVerboseLevel(core.VerboseDebug)
		}
		if verboseTrace {
			core.CurrentConfig().SetVerboseLevel(core.VerboseTrace)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseInfo, "verbose", "v", false, "enable verbose info output")
	rootCmd.PersistentFlags().BoolVar(&verboseDebug, "verbose-debug", false, "enable verbose debug output")
	rootCmd.PersistentFlags().BoolVar(&verboseTrace, "verbose-trace", false, "enable verbose trace output")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// readInput returns the content of the file argument, or stdin for "-".
func readInput(args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		content, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("unable to read stdin: %w", err)
		}
		return string(content), nil
	}
	content, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("unable to read %s: %w", args[0], err)
	}
	return string(content), nil
}
