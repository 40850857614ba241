package export

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"github.com/notamd/nota/pkg/htmltree"
)

// renderBlocks expands every placeholder of the rendered tree into static
// markup: inline and display math, highlighted code, confusion matrices,
// numbered citations. Each pass is independent and tolerant: a block it
// cannot process stays as rendered, the export keeps going.
func (e *Exporter) renderBlocks(tree *htmltree.Node, citations []CitationRecord) {
	e.renderInlineContent(tree, false)
	e.renderMathBlocks(tree)
	e.renderCodeBlocks(tree)
	e.renderConfusionMatrices(tree)
	e.renderCitations(tree, citations)
}

// Inline math spans inside regular text: $$...$$ first (display), then $...$
var regexInlineMath = regexp.MustCompile(`\$\$([^$]+)\$\$|\$([^$\n]+)\$`)

// Markdown inline markup worth running through the markdown renderer
var regexInlineMarkup = regexp.MustCompile("[*_~`]|\\[[^\\]]+\\]\\(")

// renderInlineContent rewrites the text leaves of the tree: math spans are
// rendered statically, markdown emphasis is expanded. Text under pre, code,
// and citation spans is left untouched.
func (e *Exporter) renderInlineContent(node *htmltree.Node, protected bool) {
	if node.IsText() {
		return
	}
	protected = protected || node.Tag == "pre" || node.Tag == "code" || node.HasClass("citation")

	children := node.Children
	node.Children = nil
	for _, child := range children {
		if child.IsText() && !child.IsRaw() && !protected {
			node.AppendChild(e.expandText(child.Text)...)
			continue
		}
		node.AppendChild(child)
		e.renderInlineContent(child, protected)
	}
}

// expandText splits a text run around math spans and renders each part.
func (e *Exporter) expandText(text string) []*htmltree.Node {
	var result []*htmltree.Node
	emitPlain := func(s string) {
		if s == "" {
			return
		}
		if regexInlineMarkup.MatchString(s) {
			result = append(result, htmltree.Raw(renderInlineMarkdown(s)))
		} else {
			result = append(result, htmltree.NewText(s))
		}
	}

	last := 0
	for _, m := range regexInlineMath.FindAllStringSubmatchIndex(text, -1) {
		emitPlain(text[last:m[0]])
		if m[2] >= 0 {
			result = append(result, htmltree.Raw(e.latex.Render(text[m[2]:m[3]], true)))
		} else {
			result = append(result, htmltree.Raw(e.latex.Render(text[m[4]:m[5]], false)))
		}
		last = m[1]
	}
	emitPlain(text[last:])
	return result
}

// renderInlineMarkdown expands markdown emphasis, code spans and links in a
// text run. Raw HTML in the input is skipped, not passed through. Whitespace
// at both ends survives the round-trip (the run may sit between other
// inline nodes).
func renderInlineMarkdown(text string) string {
	trimmed := strings.TrimSpace(text)
	leading := text[:strings.Index(text, trimmed)]
	trailing := text[strings.Index(text, trimmed)+len(trimmed):]

	// Parser instances are stateful and not reusable
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.SkipHTML,
	})
	rendered := strings.TrimSpace(string(markdown.ToHTML([]byte(trimmed), p, renderer)))
	// Unwrap the single paragraph the block renderer produces
	if strings.HasPrefix(rendered, "<p>") && strings.HasSuffix(rendered, "</p>") && strings.Count(rendered, "<p>") == 1 {
		rendered = strings.TrimSuffix(strings.TrimPrefix(rendered, "<p>"), "</p>")
	}
	return leading + rendered + trailing
}

// renderMathBlocks replaces display math placeholders with static markup.
func (e *Exporter) renderMathBlocks(tree *htmltree.Node) {
	for _, block := range tree.FindAll(func(n *htmltree.Node) bool {
		return n.HasClass("math-block")
	}) {
		block.ReplaceWith(htmltree.Raw(e.latex.Render(block.Attr("data-latex"), true)))
	}
}

// renderCodeBlocks replaces code placeholders with highlighted markup.
// Highlighting failures leave the escaped plain rendering in place.
func (e *Exporter) renderCodeBlocks(tree *htmltree.Node) {
	for _, pre := range tree.FindAll(func(n *htmltree.Node) bool {
		return n.Tag == "pre" && n.HasClass("code-block")
	}) {
		highlighted, err := highlightCode(pre.InnerText(), pre.Attr("data-language"), e.options.HighlightStyle)
		if err != nil {
			e.logger.Debugf("Unable to highlight %s code block: %v", pre.Attr("data-language"), err)
			continue
		}
		pre.ReplaceWith(htmltree.Raw(highlighted))
	}
}

// highlightCode renders source code to standalone HTML with inline styles.
func highlightCode(source, language, styleName string) (string, error) {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	style := styles.Get(styleName)
	if style == nil {
		style = styles.Fallback
	}
	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	// Inline styles keep the page self-contained (no chroma stylesheet)
	formatter := chromahtml.New(chromahtml.WithClasses(false))
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// matrixData is the accepted payload of a confusion matrix block: either a
// bare 2D array or an object with optional labels.
type matrixData struct {
	Labels []string    `json:"labels"`
	Matrix [][]float64 `json:"matrix"`
}

// renderConfusionMatrices replaces matrix placeholders with static tables.
// A malformed payload leaves the placeholder node untouched.
func (e *Exporter) renderConfusionMatrices(tree *htmltree.Node) {
	for _, block := range tree.FindAll(func(n *htmltree.Node) bool {
		return n.HasClass("confusion-matrix")
	}) {
		data, err := parseMatrixData(block.Attr("data-matrix"))
		if err != nil {
			e.logger.Warnf("Malformed confusion matrix data: %v", err)
			continue
		}
		block.ReplaceWith(buildMatrixTable(data, block.Attr("data-title"), block.Attr("data-source")))
	}
}

func parseMatrixData(raw string) (*matrixData, error) {
	var data matrixData
	if err := json.Unmarshal([]byte(raw), &data); err == nil && len(data.Matrix) > 0 {
		return &data, nil
	}
	// Fall back to the bare 2D array form
	if err := json.Unmarshal([]byte(raw), &data.Matrix); err != nil {
		return nil, err
	}
	return &data, nil
}

func buildMatrixTable(data *matrixData, title, source string) *htmltree.Node {
	figure := htmltree.NewElement("figure", "class", "confusion-matrix")
	if title != "" {
		caption := htmltree.NewElement("figcaption")
		caption.AppendChild(htmltree.NewText(title))
		figure.AppendChild(caption)
	}

	table := htmltree.NewElement("table")
	if len(data.Labels) > 0 {
		headerRow := htmltree.NewElement("tr")
		headerRow.AppendChild(htmltree.NewElement("th")) // empty corner
		for _, label := range data.Labels {
			headerRow.AppendChild(htmltree.NewElement("th").
				AppendChild(htmltree.NewText(label)))
		}
		table.AppendChild(htmltree.NewElement("thead").AppendChild(headerRow))
	}
	tbody := htmltree.NewElement("tbody")
	for i, row := range data.Matrix {
		tr := htmltree.NewElement("tr")
		if i < len(data.Labels) {
			tr.AppendChild(htmltree.NewElement("th").
				AppendChild(htmltree.NewText(data.Labels[i])))
		} else if len(data.Labels) > 0 {
			tr.AppendChild(htmltree.NewElement("th"))
		}
		for _, value := range row {
			tr.AppendChild(htmltree.NewElement("td").
				AppendChild(htmltree.NewText(formatMatrixValue(value))))
		}
		tbody.AppendChild(tr)
	}
	table.AppendChild(tbody)
	figure.AppendChild(table)

	if source != "" {
		footer := htmltree.NewElement("p", "class", "matrix-source")
		footer.AppendChild(htmltree.NewText("Source: " + source))
		figure.AppendChild(footer)
	}
	return figure
}

func formatMatrixValue(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
