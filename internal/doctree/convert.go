package doctree

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/notamd/nota/internal/blocks"
)

// Convert maps parsed blocks 1:1 to document-tree nodes, preserving order.
// The conversion is pure: it never mutates the input blocks.
//
// Inline $...$ spans inside text blocks are deliberately left as literal
// text; the host editor re-interprets them at display time while the export
// pipeline renders them statically (two consumers, one representation).
func Convert(parsedBlocks []*blocks.Block) []*Node {
	nodes := make([]*Node, 0, len(parsedBlocks))
	for _, block := range parsedBlocks {
		nodes = append(nodes, convertBlock(block))
	}
	return nodes
}

func convertBlock(block *blocks.Block) *Node {
	switch block.Type {
	case "heading":
		return &Node{
			Type:    "heading",
			Attrs:   map[string]any{"level": block.AttrInt("level")},
			Content: []*Node{NewText(block.AttrString("text"))},
		}
	case "text":
		return NewParagraph(block.Content)
	case "code":
		return &Node{
			Type:    "codeBlock",
			Attrs:   map[string]any{"language": block.AttrString("language")},
			Content: []*Node{NewText(block.AttrString("content"))},
		}
	case "executableCode":
		return &Node{
			Type: "executableCodeBlock",
			Attrs: map[string]any{
				"language": block.AttrString("language"),
				"options":  block.Attributes["options"],
			},
			Content: []*Node{NewText(block.AttrString("content"))},
		}
	case "math":
		return &Node{
			Type: "mathBlock",
			Attrs: map[string]any{
				"latex":       block.AttrString("latex"),
				"displayMode": true,
			},
		}
	case "mermaid":
		return &Node{
			Type:  "mermaid",
			Attrs: map[string]any{"content": block.AttrString("content")},
		}
	case "table":
		return convertTable(block)
	case "quote":
		return &Node{
			Type:    "blockquote",
			Content: []*Node{NewParagraph(block.AttrString("content"))},
		}
	case "list":
		return convertList(block)
	case "horizontalRule":
		return &Node{Type: "horizontalRule"}
	case "link":
		return &Node{
			Type: "paragraph",
			Content: []*Node{{
				Type: "text",
				Text: block.AttrString("text"),
				Marks: []Mark{{
					Type:  "link",
					Attrs: map[string]any{"href": block.AttrString("url")},
				}},
			}},
		}
	case "image":
		return figureGroup([]map[string]any{{
			"alt":   block.AttrString("alt"),
			"src":   block.AttrString("src"),
			"title": block.AttrString("title"),
		}})
	case "multipleImages":
		return figureGroup(block.AttrMaps("images"))
	case "youtube":
		return &Node{
			Type:  "youtube",
			Attrs: map[string]any{"videoId": block.AttrString("videoId")},
		}
	case "citation":
		return &Node{
			Type: "citation",
			Attrs: map[string]any{
				"citationKey": block.AttrString("citationKey"),
				// Resolved lazily by the host (bibliography lookup)
				"citationData": map[string]any{},
			},
		}
	case "bibliography":
		return &Node{
			Type:  "bibliography",
			Attrs: map[string]any{"citations": block.AttrStrings("citations")},
		}
	case "theorem":
		return &Node{
			Type: "theorem",
			Attrs: map[string]any{
				"title":       block.AttrString("title"),
				"theoremType": "theorem",
				"tags":        []string{},
			},
			Content: []*Node{NewParagraph(block.AttrString("content"))},
		}
	case "aiGeneration":
		return &Node{
			Type: "aiGeneration",
			Attrs: map[string]any{
				"prompt":    block.AttrString("prompt"),
				"model":     block.AttrString("model"),
				"timestamp": block.AttrString("timestamp"),
			},
			Content: []*Node{NewParagraph(block.AttrString("prompt"))},
		}
	case "confusionMatrix":
		return &Node{
			Type: "confusionMatrix",
			Attrs: map[string]any{
				"matrixData": block.AttrString("matrixData"),
				"title":      block.AttrString("title"),
				"source":     block.AttrString("source"),
			},
		}
	case "pipeline":
		return &Node{
			Type: "pipeline",
			Attrs: map[string]any{
				"description": block.AttrString("description"),
				"title":       block.AttrString("title"),
				"nodes":       block.Attributes["nodes"],
				"edges":       block.Attributes["edges"],
			},
		}
	case "drawio":
		return &Node{
			Type: "drawio",
			Attrs: map[string]any{
				"diagramData": block.AttrString("diagramData"),
				"width":       block.AttrInt("width"),
				"height":      block.AttrInt("height"),
			},
		}
	default:
		// Unrecognized block types degrade to a plain paragraph
		return NewParagraph(block.Content)
	}
}

func convertTable(block *blocks.Block) *Node {
	headers := block.AttrStrings("headers")
	rows, _ := block.Attributes["rows"].([][]string)

	columnIDs := make([]string, len(headers))
	for i := range headers {
		columnIDs[i] = uuid.NewString()
	}

	headerRow := &Node{
		Type:  "tableRow",
		Attrs: map[string]any{"id": uuid.NewString()},
	}
	for i, header := range headers {
		headerRow.Content = append(headerRow.Content, &Node{
			Type:    "tableHeader",
			Attrs:   map[string]any{"colId": columnIDs[i]},
			Content: []*Node{NewParagraph(header)},
		})
	}

	table := &Node{
		Type:    "table",
		Attrs:   map[string]any{"columns": columnIDs},
		Content: []*Node{headerRow},
	}
	for _, row := range rows {
		rowNode := &Node{
			Type:  "tableRow",
			Attrs: map[string]any{"id": uuid.NewString()},
		}
		for i, cell := range row {
			colID := ""
			if i < len(columnIDs) {
				colID = columnIDs[i]
			}
			rowNode.Content = append(rowNode.Content, &Node{
				Type:    "tableCell",
				Attrs:   map[string]any{"colId": colID},
				Content: []*Node{NewParagraph(cell)},
			})
		}
		table.Content = append(table.Content, rowNode)
	}
	return table
}

func convertList(block *blocks.Block) *Node {
	listType := "bulletList"
	if block.AttrString("listType") == "ordered" {
		listType = "orderedList"
	}
	list := &Node{Type: listType}
	for _, item := range block.AttrStrings("items") {
		list.Content = append(list.Content, &Node{
			Type:    "listItem",
			Content: []*Node{NewParagraph(item)},
		})
	}
	return list
}

func figureGroup(images []map[string]any) *Node {
	group := &Node{
		Type:  "figureGroup",
		Attrs: map[string]any{"layout": "horizontal"},
	}
	for _, image := range images {
		group.Content = append(group.Content, &Node{
			Type: "image",
			Attrs: map[string]any{
				"alt":   image["alt"],
				"src":   image["src"],
				"title": image["title"],
			},
		})
	}
	return group
}

// ToMarkdown re-serializes a sequence of nodes to Markdown. Only the block
// types with a faithful textual form are emitted; the others round-trip
// through their raw content where available.
func ToMarkdown(nodes []*Node) string {
	var parts []string
	for _, node := range nodes {
		if s := nodeToMarkdown(node); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n\n")
}

func nodeToMarkdown(node *Node) string {
	switch node.Type {
	case "heading":
		return strings.Repeat("#", node.AttrInt("level")) + " " + node.InnerText()
	case "paragraph":
		return node.InnerText()
	case "codeBlock":
		return fmt.Sprintf("```%s\n%s\n```", node.AttrString("language"), node.InnerText())
	case "mathBlock":
		return fmt.Sprintf("$$\n%s\n$$", node.AttrString("latex"))
	case "blockquote":
		var lines []string
		for _, line := range strings.Split(node.InnerText(), "\n") {
			lines = append(lines, "> "+line)
		}
		return strings.Join(lines, "\n")
	case "bulletList":
		var lines []string
		for _, item := range node.Content {
			lines = append(lines, "- "+item.InnerText())
		}
		return strings.Join(lines, "\n")
	case "orderedList":
		var lines []string
		for i, item := range node.Content {
			lines = append(lines, fmt.Sprintf("%d. %s", i+1, item.InnerText()))
		}
		return strings.Join(lines, "\n")
	case "horizontalRule":
		return "---"
	case "citation":
		return "@" + node.AttrString("citationKey")
	default:
		return node.InnerText()
	}
}
