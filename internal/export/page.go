package export

import (
	"fmt"
	"html"

	"github.com/notamd/nota/pkg/htmltree"
)

// The exported pages carry their whole stylesheet inline; the KaTeX
// stylesheet link is the single external reference of the archive.
const pageStylesheet = `
body {
  margin: 0 auto;
  max-width: 46rem;
  padding: 2rem 1rem;
  font-family: Georgia, 'Times New Roman', serif;
  line-height: 1.6;
  color: #1f2328;
}
h1, h2, h3, h4, h5, h6 {
  font-family: -apple-system, 'Segoe UI', Helvetica, Arial, sans-serif;
  line-height: 1.25;
}
a { color: #0969da; }
a.subdoc-link { font-weight: 600; }
blockquote {
  margin-left: 0;
  padding-left: 1rem;
  border-left: 3px solid #d0d7de;
  color: #59636e;
}
pre {
  overflow-x: auto;
  padding: 0.75rem 1rem;
  border-radius: 6px;
  background: #f6f8fa;
}
code { font-family: ui-monospace, 'SF Mono', Menlo, Consolas, monospace; font-size: 0.9em; }
table { border-collapse: collapse; margin: 1rem 0; }
th, td { border: 1px solid #d0d7de; padding: 0.35rem 0.75rem; }
thead th { background: #f6f8fa; }
img { max-width: 100%; }
figure { margin: 1rem 0; }
figure.figure-group-horizontal { display: flex; gap: 1rem; align-items: flex-start; }
figcaption { font-size: 0.85em; color: #59636e; }
hr { border: 0; border-top: 1px solid #d0d7de; margin: 2rem 0; }
.math-display { text-align: center; margin: 1rem 0; font-size: 1.1em; }
.math-error { color: #cf222e; font-family: ui-monospace, Menlo, monospace; }
.citation { color: #0969da; }
.bibliography { margin-top: 3rem; border-top: 1px solid #d0d7de; }
.bibliography-entry { font-size: 0.9em; }
.theorem { margin: 1rem 0; padding: 0.75rem 1rem; border-left: 3px solid #8250df; background: #faf7ff; }
.theorem-title { font-weight: 700; margin-bottom: 0.25rem; }
.executable-code .code-badge {
  display: inline-block;
  font-size: 0.75em;
  font-family: ui-monospace, Menlo, monospace;
  padding: 0.1rem 0.5rem;
  border-radius: 6px 6px 0 0;
  background: #1f2328;
  color: #f6f8fa;
}
.ai-generation { border: 1px dashed #d0d7de; border-radius: 6px; padding: 0.75rem 1rem; }
.ai-meta { font-size: 0.8em; color: #59636e; margin-bottom: 0.5rem; }
.placeholder {
  border: 1px dashed #d0d7de;
  border-radius: 6px;
  padding: 1rem;
  color: #59636e;
  text-align: center;
}
.placeholder-description { font-size: 0.9em; }
.matrix-source { font-size: 0.8em; color: #59636e; }
.diagram-source { font-size: 0.85em; }
.video-link a::before { content: '\25B6  '; }
`

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8"/>
<meta name="viewport" content="width=device-width, initial-scale=1"/>
<title>%s</title>
<link rel="stylesheet" href="%s"/>
<style>%s</style>
</head>
<body>
%s
</body>
</html>
`

// buildPage assembles the final HTML document of one page.
func (e *Exporter) buildPage(title string, tree *htmltree.Node) string {
	if title == "" {
		title = "Untitled"
	}
	return fmt.Sprintf(pageTemplate,
		html.EscapeString(title),
		html.EscapeString(e.options.KatexStylesheet),
		pageStylesheet,
		tree.Render())
}
