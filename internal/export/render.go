package export

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/notamd/nota/internal/doctree"
	"github.com/notamd/nota/pkg/htmltree"
)

// ChildRenderer renders a nested document-tree node.
type ChildRenderer func(node *doctree.Node) *htmltree.Node

// RenderFunc produces the HTML element for one document-tree node type.
type RenderFunc func(node *doctree.Node, render ChildRenderer) *htmltree.Node

// Extensions maps node types to their renderer. Unknown types fall back to
// a plain paragraph holding the node text.
type Extensions map[string]RenderFunc

// RenderDocument converts a document tree to an HTML tree. Dynamic blocks
// (math, code, citations, matrices) come out as placeholders carrying their
// source in data attributes; the post-processing passes expand them.
func RenderDocument(doc *doctree.Node, extensions Extensions) *htmltree.Node {
	article := htmltree.NewElement("article", "class", "document")
	if doc == nil {
		return article
	}

	var render ChildRenderer
	render = func(node *doctree.Node) *htmltree.Node {
		if node.Type == "text" {
			return renderText(node)
		}
		if fn, ok := extensions[node.Type]; ok {
			return fn(node, render)
		}
		return htmltree.NewElement("p").AppendChild(htmltree.NewText(node.InnerText()))
	}

	nodes := doc.Content
	if doc.Type != "doc" {
		nodes = []*doctree.Node{doc}
	}
	for _, node := range nodes {
		article.AppendChild(render(node))
	}
	return article
}

// renderText maps a text leaf and its marks to inline HTML.
func renderText(node *doctree.Node) *htmltree.Node {
	result := htmltree.NewText(node.Text)
	for _, mark := range node.Marks {
		var wrapper *htmltree.Node
		switch mark.Type {
		case "link":
			href, _ := mark.Attrs["href"].(string)
			wrapper = htmltree.NewElement("a", "href", href)
		case "bold":
			wrapper = htmltree.NewElement("strong")
		case "italic":
			wrapper = htmltree.NewElement("em")
		case "code":
			wrapper = htmltree.NewElement("code")
		case "strike":
			wrapper = htmltree.NewElement("s")
		default:
			continue
		}
		wrapper.AppendChild(result)
		result = wrapper
	}
	return result
}

func renderChildren(parent *htmltree.Node, node *doctree.Node, render ChildRenderer) *htmltree.Node {
	for _, child := range node.Content {
		parent.AppendChild(render(child))
	}
	return parent
}

// DefaultExtensions returns the renderer set for every supported node type.
func DefaultExtensions() Extensions {
	return Extensions{
		"paragraph": func(node *doctree.Node, render ChildRenderer) *htmltree.Node {
			return renderChildren(htmltree.NewElement("p"), node, render)
		},
		"heading": func(node *doctree.Node, render ChildRenderer) *htmltree.Node {
			level := node.AttrInt("level")
			if level < 1 {
				level = 1
			}
			if level > 6 {
				level = 6
			}
			return renderChildren(htmltree.NewElement("h"+strconv.Itoa(level)), node, render)
		},
		"codeBlock":           renderCodeBlock,
		"executableCodeBlock": renderExecutableCodeBlock,
		"mathBlock": func(node *doctree.Node, render ChildRenderer) *htmltree.Node {
			return htmltree.NewElement("div",
				"class", "math-block",
				"data-latex", node.AttrString("latex"))
		},
		"mermaid": func(node *doctree.Node, render ChildRenderer) *htmltree.Node {
			figure := htmltree.NewElement("figure", "class", "diagram diagram-mermaid")
			pre := htmltree.NewElement("pre", "class", "diagram-source")
			pre.AppendChild(htmltree.NewText(node.AttrString("content")))
			caption := htmltree.NewElement("figcaption")
			caption.AppendChild(htmltree.NewText("Mermaid diagram (source shown; interactive preview not included)"))
			return figure.AppendChild(pre, caption)
		},
		"table": renderTable,
		"blockquote": func(node *doctree.Node, render ChildRenderer) *htmltree.Node {
			return renderChildren(htmltree.NewElement("blockquote"), node, render)
		},
		"bulletList": func(node *doctree.Node, render ChildRenderer) *htmltree.Node {
			return renderChildren(htmltree.NewElement("ul"), node, render)
		},
		"orderedList": func(node *doctree.Node, render ChildRenderer) *htmltree.Node {
			return renderChildren(htmltree.NewElement("ol"), node, render)
		},
		"listItem": func(node *doctree.Node, render ChildRenderer) *htmltree.Node {
			return renderChildren(htmltree.NewElement("li"), node, render)
		},
		"horizontalRule": func(node *doctree.Node, render ChildRenderer) *htmltree.Node {
			return htmltree.NewElement("hr")
		},
		"image": renderImage,
		"figureGroup": func(node *doctree.Node, render ChildRenderer) *htmltree.Node {
			class := "figure-group"
			if layout := node.AttrString("layout"); layout != "" {
				class += " figure-group-" + layout
			}
			return renderChildren(htmltree.NewElement("figure", "class", class), node, render)
		},
		"youtube": func(node *doctree.Node, render ChildRenderer) *htmltree.Node {
			url := "https://www.youtube.com/watch?v=" + node.AttrString("videoId")
			p := htmltree.NewElement("p", "class", "video-link")
			a := htmltree.NewElement("a", "href", url)
			a.AppendChild(htmltree.NewText("Watch on YouTube"))
			return p.AppendChild(a)
		},
		"citation": func(node *doctree.Node, render ChildRenderer) *htmltree.Node {
			key := node.AttrString("citationKey")
			span := htmltree.NewElement("span", "class", "citation", "data-key", key)
			// Placeholder display; the citation pass substitutes the number
			span.AppendChild(htmltree.NewText("@" + key))
			return span
		},
		"bibliography": func(node *doctree.Node, render ChildRenderer) *htmltree.Node {
			section := htmltree.NewElement("section", "class", "bibliography")
			title := htmltree.NewElement("h2")
			title.AppendChild(htmltree.NewText("References"))
			return section.AppendChild(title)
		},
		"theorem":         renderTheorem,
		"aiGeneration":    renderAIGeneration,
		"confusionMatrix": renderConfusionMatrix,
		"pipeline":        renderPipeline,
		"drawio":          renderDrawio,
		"subdocLink": func(node *doctree.Node, render ChildRenderer) *htmltree.Node {
			target := node.AttrString("targetId")
			label := node.AttrString("title")
			if label == "" {
				label = target
			}
			a := htmltree.NewElement("a",
				"class", "subdoc-link",
				"data-target-id", target,
				"href", "/notes/"+target)
			a.AppendChild(htmltree.NewText(label))
			return a
		},
	}
}

func renderCodeBlock(node *doctree.Node, render ChildRenderer) *htmltree.Node {
	language := node.AttrString("language")
	pre := htmltree.NewElement("pre", "class", "code-block", "data-language", language)
	code := htmltree.NewElement("code")
	if language != "" {
		code.SetAttr("class", "language-"+language)
	}
	code.AppendChild(htmltree.NewText(node.InnerText()))
	return pre.AppendChild(code)
}

func renderExecutableCodeBlock(node *doctree.Node, render ChildRenderer) *htmltree.Node {
	language := node.AttrString("language")
	wrapper := htmltree.NewElement("div", "class", "executable-code")
	badge := htmltree.NewElement("div", "class", "code-badge")
	badge.AppendChild(htmltree.NewText(strings.TrimSpace(language + " (executable)")))
	pre := htmltree.NewElement("pre", "class", "code-block", "data-language", language)
	code := htmltree.NewElement("code")
	code.AppendChild(htmltree.NewText(node.InnerText()))
	pre.AppendChild(code)
	return wrapper.AppendChild(badge, pre)
}

// renderTable serializes the table node directly: the cell structure is
// fully known at render time, no post-processing required.
func renderTable(node *doctree.Node, render ChildRenderer) *htmltree.Node {
	table := htmltree.NewElement("table")
	thead := htmltree.NewElement("thead")
	tbody := htmltree.NewElement("tbody")
	for _, row := range node.Content {
		if row.Type != "tableRow" {
			continue
		}
		tr := htmltree.NewElement("tr")
		header := false
		for _, cell := range row.Content {
			tag := "td"
			if cell.Type == "tableHeader" {
				tag = "th"
				header = true
			}
			tr.AppendChild(htmltree.NewElement(tag).
				AppendChild(htmltree.NewText(cell.InnerText())))
		}
		if header {
			thead.AppendChild(tr)
		} else {
			tbody.AppendChild(tr)
		}
	}
	if len(thead.Children) > 0 {
		table.AppendChild(thead)
	}
	if len(tbody.Children) > 0 {
		table.AppendChild(tbody)
	}
	return table
}

func renderImage(node *doctree.Node, render ChildRenderer) *htmltree.Node {
	img := htmltree.NewElement("img",
		"src", node.AttrString("src"),
		"alt", node.AttrString("alt"))
	if title := node.AttrString("title"); title != "" {
		img.SetAttr("title", title)
	}
	return img
}

func renderTheorem(node *doctree.Node, render ChildRenderer) *htmltree.Node {
	wrapper := htmltree.NewElement("div", "class", "theorem")
	heading := "Theorem"
	if title := node.AttrString("title"); title != "" {
		heading = fmt.Sprintf("Theorem (%s)", title)
	}
	header := htmltree.NewElement("div", "class", "theorem-title")
	header.AppendChild(htmltree.NewText(heading))
	wrapper.AppendChild(header)
	return renderChildren(wrapper, node, render)
}

func renderAIGeneration(node *doctree.Node, render ChildRenderer) *htmltree.Node {
	wrapper := htmltree.NewElement("div", "class", "ai-generation")
	var parts []string
	if model := node.AttrString("model"); model != "" {
		parts = append(parts, model)
	}
	if timestamp := node.AttrString("timestamp"); timestamp != "" {
		parts = append(parts, timestamp)
	}
	if len(parts) > 0 {
		meta := htmltree.NewElement("div", "class", "ai-meta")
		meta.AppendChild(htmltree.NewText("Generated by " + strings.Join(parts, ", ")))
		wrapper.AppendChild(meta)
	}
	return renderChildren(wrapper, node, render)
}

func renderConfusionMatrix(node *doctree.Node, render ChildRenderer) *htmltree.Node {
	return htmltree.NewElement("div",
		"class", "confusion-matrix",
		"data-matrix", node.AttrString("matrixData"),
		"data-title", node.AttrString("title"),
		"data-source", node.AttrString("source"))
}

// Pipelines only exist as interactive editor widgets; the static export
// degrades them to a labelled placeholder.
func renderPipeline(node *doctree.Node, render ChildRenderer) *htmltree.Node {
	wrapper := htmltree.NewElement("div", "class", "pipeline placeholder")
	label := "Pipeline"
	if title := node.AttrString("title"); title != "" {
		label = fmt.Sprintf("Pipeline: %s", title)
	}
	p := htmltree.NewElement("p")
	p.AppendChild(htmltree.NewText(label + " (interactive view not included in export)"))
	wrapper.AppendChild(p)
	if description := node.AttrString("description"); description != "" {
		d := htmltree.NewElement("p", "class", "placeholder-description")
		d.AppendChild(htmltree.NewText(description))
		wrapper.AppendChild(d)
	}
	return wrapper
}

func renderDrawio(node *doctree.Node, render ChildRenderer) *htmltree.Node {
	wrapper := htmltree.NewElement("div", "class", "drawio placeholder")
	if width := node.AttrInt("width"); width > 0 {
		wrapper.SetAttr("style", fmt.Sprintf("max-width: %dpx", width))
	}
	p := htmltree.NewElement("p")
	p.AppendChild(htmltree.NewText("Draw.io diagram (interactive view not included in export)"))
	return wrapper.AppendChild(p)
}
