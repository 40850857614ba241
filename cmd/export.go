package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"
	"github.com/spf13/cobra"

	"github.com/notamd/nota/internal/blocks"
	"github.com/notamd/nota/internal/core"
	"github.com/notamd/nota/internal/doctree"
	"github.com/notamd/nota/internal/export"
)

var exportOutput string
var exportStore string

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output archive path (default <document>.zip)")
	exportCmd.Flags().StringVar(&exportStore, "store", "", "directory of <id>.json documents resolving sub-document links")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export FILE",
	Short: "Export a document and its linked documents to a static HTML archive",
	Long: `Export renders a document into a self-contained zip archive: one HTML
page per reachable document, extracted assets, statically rendered math and
highlighted code. The root document is either a serialized document tree
(.json) or a Markdown file parsed on the fly. Sub-document links are
resolved against the --store directory; unresolvable links stay dangling.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		root, err := loadRootDocument(args[0])
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		var fetch export.FetchFunc
		if exportStore != "" {
			store, err := export.NewDirStore(exportStore)
			if err != nil {
				fmt.Println(err)
				os.Exit(1)
			}
			fetch = store.Fetch
		}

		exporter := export.NewExporter(export.OptionsFromConfig(core.CurrentConfig()))
		data, err := exporter.Export(context.Background(), root, fetch)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		output := exportOutput
		if output == "" {
			output = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + ".zip"
		}
		if err := os.WriteFile(output, data, 0644); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		fmt.Printf("Exported %s (%d bytes)\n", output, len(data))
	},
}

// loadRootDocument reads the export root: a serialized document for .json
// files, a parsed+converted document for Markdown files.
func loadRootDocument(path string) (*export.Document, error) {
	if filepath.Ext(path) == ".json" {
		return export.ReadDocument(path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", path, err)
	}
	result := blocks.NewEngine().Parse(string(content))
	nodes := doctree.Convert(result.Blocks)

	title := documentTitle(result, path)
	return &export.Document{
		ID:      slug.Make(title),
		Title:   title,
		Content: doctree.NewDoc(nodes...),
	}, nil
}

// documentTitle uses the first heading, falling back to the file name.
func documentTitle(result *blocks.Result, path string) string {
	for _, block := range result.Blocks {
		if block.Type == "heading" {
			return block.AttrString("text")
		}
	}
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
