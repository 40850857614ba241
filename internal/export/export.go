// Package export turns a document and everything it links to into a
// self-contained static archive: one HTML page per reachable document,
// extracted binary assets, statically rendered math, highlighted code, and
// numbered citations. No script dependency survives in the output.
package export

import (
	"context"
	"fmt"
	"regexp"

	"github.com/notamd/nota/internal/core"
	"github.com/notamd/nota/internal/doctree"
	"github.com/notamd/nota/internal/latex"
	"github.com/notamd/nota/pkg/archive"
	"github.com/notamd/nota/pkg/htmltree"
)

// CitationRecord is the bibliographic data for one citation key.
// Records are supplied by the caller; the exporter only consumes them to
// resolve numbering and render bibliography entries.
type CitationRecord struct {
	Key     string   `json:"key"`
	Authors []string `json:"authors"`
	Title   string   `json:"title"`
	Year    int      `json:"year"`
	Journal string   `json:"journal,omitempty"`
	Volume  string   `json:"volume,omitempty"`
	Pages   string   `json:"pages,omitempty"`
}

// Document is one exportable document.
type Document struct {
	ID        string           `json:"id"`
	Title     string           `json:"title"`
	Content   *doctree.Node    `json:"content"`
	Citations []CitationRecord `json:"citations,omitempty"`
}

// FetchFunc resolves a linked document by id. Returning (nil, nil) means
// the document does not exist; both cases leave a dangling link in the
// output instead of failing the export.
type FetchFunc func(ctx context.Context, id string) (*Document, error)

// Internal-document URL pattern recognized inside generic hyperlinks
var regexInternalHref = regexp.MustCompile(`^/notes/([A-Za-z0-9_-]+)$`)

// Options configures an export run.
type Options struct {
	// URL of the KaTeX stylesheet referenced by every page (the only
	// external resource of the archive)
	KatexStylesheet string
	// Chroma style used for static code highlighting
	HighlightStyle string
	// Sub-folder names inside the archive
	AssetsDir string
	PagesDir  string
}

// OptionsFromConfig builds export options from the application config.
func OptionsFromConfig(config *core.Config) Options {
	export := config.ConfigFile.Export
	return Options{
		KatexStylesheet: export.KatexStylesheet,
		HighlightStyle:  export.HighlightStyle,
		AssetsDir:       export.AssetsDir,
		PagesDir:        export.PagesDir,
	}
}

// Exporter renders documents and packages them. Safe to reuse across runs:
// all run state lives in the per-run exportContext.
type Exporter struct {
	options    Options
	extensions Extensions
	latex      *latex.Renderer
	logger     *core.Logger
}

// NewExporter constructs an exporter. Zero-value option fields fall back
// to the compiled-in defaults.
func NewExporter(options Options) *Exporter {
	defaults := OptionsFromConfig(core.DefaultConfigValue())
	if options.KatexStylesheet == "" {
		options.KatexStylesheet = defaults.KatexStylesheet
	}
	if options.HighlightStyle == "" {
		options.HighlightStyle = defaults.HighlightStyle
	}
	if options.AssetsDir == "" {
		options.AssetsDir = defaults.AssetsDir
	}
	if options.PagesDir == "" {
		options.PagesDir = defaults.PagesDir
	}
	return &Exporter{
		options:    options,
		extensions: DefaultExtensions(),
		latex:      latex.NewRenderer(latex.DefaultOptions()),
		logger:     core.CurrentLogger(),
	}
}

// queueItem is one pending document of the traversal.
type queueItem struct {
	document *Document
	isRoot   bool
}

// exportContext is the state of one export run: the archive under
// construction, the FIFO queue, the visited-set guarding against cycles and
// duplicate fetches, and the counter making asset names globally unique.
// Created at export start, discarded at export end.
type exportContext struct {
	builder      archive.Builder
	assets       archive.Folder
	pages        archive.Folder
	rootID       string
	queue        []queueItem
	visited      map[string]bool
	fetch        FetchFunc
	imageCounter int
}

// Export walks the link graph breadth-first from the root document and
// returns the serialized archive. A nil fetch resolves nothing: every
// sub-document link stays dangling.
func (e *Exporter) Export(ctx context.Context, root *Document, fetch FetchFunc) ([]byte, error) {
	if root == nil {
		return nil, fmt.Errorf("no document to export")
	}
	if fetch == nil {
		fetch = func(context.Context, string) (*Document, error) { return nil, nil }
	}

	builder := archive.NewZipBuilder()
	run := &exportContext{
		builder: builder,
		assets:  builder.Folder(e.options.AssetsDir),
		pages:   builder.Folder(e.options.PagesDir),
		rootID:  root.ID,
		visited: map[string]bool{root.ID: true},
		fetch:   fetch,
	}
	run.queue = append(run.queue, queueItem{document: root, isRoot: true})

	// Strictly sequential traversal: the visited-set check stays race-free
	// and the queue order is deterministic.
	for len(run.queue) > 0 {
		item := run.queue[0]
		run.queue = run.queue[1:]
		e.exportOne(ctx, run, item)
	}

	return builder.Bytes()
}

// exportOne renders one document, harvests its outgoing links and assets,
// and adds the final page to the archive.
func (e *Exporter) exportOne(ctx context.Context, run *exportContext, item queueItem) {
	doc := item.document
	tree := RenderDocument(doc.Content, e.extensions)

	e.resolveLinks(ctx, run, tree, item.isRoot)
	e.extractAssets(run, tree, item.isRoot)
	e.renderBlocks(tree, doc.Citations)

	page := e.buildPage(doc.Title, tree)
	if item.isRoot {
		run.builder.AddFile("index.html", page)
	} else {
		run.pages.AddFile(doc.ID+".html", page)
	}
}

// resolveLinks rewrites sub-document and internal hyperlinks to their
// archive-relative paths and enqueues every newly discovered document.
func (e *Exporter) resolveLinks(ctx context.Context, run *exportContext, tree *htmltree.Node, isRoot bool) {
	for _, link := range tree.FindTag("a") {
		id := linkTargetID(link)
		if id == "" {
			continue
		}

		// The href points at the would-be file even when the fetch below
		// fails: a dangling reference is acceptable, not fatal.
		switch {
		case id == run.rootID && isRoot:
			link.SetAttr("href", "index.html")
		case id == run.rootID:
			link.SetAttr("href", "../index.html")
		case isRoot:
			link.SetAttr("href", e.options.PagesDir+"/"+id+".html")
		default:
			link.SetAttr("href", id+".html")
		}

		if run.visited[id] {
			continue
		}
		// Mark before fetching: even a cyclic reference graph is traversed
		// acyclically.
		run.visited[id] = true

		linked, err := run.fetch(ctx, id)
		if err != nil {
			e.logger.Warnf("Unable to fetch linked document %q: %v", id, err)
			continue
		}
		if linked == nil {
			e.logger.Warnf("Linked document %q not found", id)
			continue
		}
		run.queue = append(run.queue, queueItem{document: linked})
	}
}

// linkTargetID extracts the target document id from a link node:
// either an explicit sub-document link or a generic hyperlink whose href
// matches the internal-document URL pattern.
func linkTargetID(link *htmltree.Node) string {
	if target := link.Attr("data-target-id"); target != "" {
		return target
	}
	if m := regexInternalHref.FindStringSubmatch(link.Attr("href")); m != nil {
		return m[1]
	}
	return ""
}
