package doctree_test

import (
	"testing"

	"github.com/notamd/nota/internal/blocks"
	"github.com/notamd/nota/internal/doctree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func convert(t *testing.T, input string) []*doctree.Node {
	t.Helper()
	result := blocks.NewEngine().Parse(input)
	return doctree.Convert(result.Blocks)
}

func TestConvertHeading(t *testing.T) {
	nodes := convert(t, "## Section")
	require.Len(t, nodes, 1)
	assert.Equal(t, "heading", nodes[0].Type)
	assert.Equal(t, 2, nodes[0].AttrInt("level"))
	assert.Equal(t, "Section", nodes[0].InnerText())
}

func TestConvertCode(t *testing.T) {
	nodes := convert(t, "```go\nfmt.Println(1)\n```")
	require.Len(t, nodes, 1)
	assert.Equal(t, "codeBlock", nodes[0].Type)
	assert.Equal(t, "go", nodes[0].AttrString("language"))
	assert.Equal(t, "fmt.Println(1)", nodes[0].InnerText())
}

func TestConvertTableHasStableIdentifiers(t *testing.T) {
	nodes := convert(t, "| A | B |\n|---|---|\n| 1 | 2 |")
	require.Len(t, nodes, 1)
	table := nodes[0]
	assert.Equal(t, "table", table.Type)

	columns, ok := table.Attrs["columns"].([]string)
	require.True(t, ok)
	require.Len(t, columns, 2)
	assert.NotEqual(t, columns[0], columns[1])

	require.Len(t, table.Content, 2) // header row + one data row
	headerRow := table.Content[0]
	dataRow := table.Content[1]
	assert.NotEmpty(t, headerRow.AttrString("id"))
	assert.NotEqual(t, headerRow.AttrString("id"), dataRow.AttrString("id"))

	// Cells reference the column identifiers
	assert.Equal(t, columns[0], headerRow.Content[0].AttrString("colId"))
	assert.Equal(t, columns[0], dataRow.Content[0].AttrString("colId"))
}

func TestConvertQuoteWrapsParagraph(t *testing.T) {
	nodes := convert(t, "> wisdom")
	require.Len(t, nodes, 1)
	quote := nodes[0]
	assert.Equal(t, "blockquote", quote.Type)
	require.Len(t, quote.Content, 1)
	assert.Equal(t, "paragraph", quote.Content[0].Type)
	assert.Equal(t, "wisdom", quote.InnerText())
}

func TestConvertLists(t *testing.T) {
	nodes := convert(t, "1. a\n2. b")
	require.Len(t, nodes, 1)
	assert.Equal(t, "orderedList", nodes[0].Type)
	require.Len(t, nodes[0].Content, 2)
	assert.Equal(t, "listItem", nodes[0].Content[0].Type)

	nodes = convert(t, "- a\n- b")
	assert.Equal(t, "bulletList", nodes[0].Type)
}

func TestConvertImagesBecomeFigureGroup(t *testing.T) {
	single := convert(t, "![alt](a.png)")
	require.Len(t, single, 1)
	assert.Equal(t, "figureGroup", single[0].Type)
	assert.Equal(t, "horizontal", single[0].AttrString("layout"))
	require.Len(t, single[0].Content, 1)

	multiple := convert(t, "![a](1.png)\n![b](2.png)")
	require.Len(t, multiple, 1)
	assert.Equal(t, "figureGroup", multiple[0].Type)
	assert.Len(t, multiple[0].Content, 2)
}

func TestConvertCitationPlaceholder(t *testing.T) {
	nodes := convert(t, "See @doe2020 here.")
	var citation *doctree.Node
	for _, node := range nodes {
		if node.Type == "citation" {
			citation = node
		}
	}
	require.NotNil(t, citation)
	assert.Equal(t, "doe2020", citation.AttrString("citationKey"))
	data, ok := citation.Attrs["citationData"].(map[string]any)
	require.True(t, ok)
	assert.Empty(t, data)
}

func TestConvertTheoremDefaults(t *testing.T) {
	nodes := convert(t, ":::theorem\nEvery even number above two...\n:::")
	require.Len(t, nodes, 1)
	theorem := nodes[0]
	assert.Equal(t, "theorem", theorem.Type)
	assert.Equal(t, "theorem", theorem.AttrString("theoremType"))
	tags, ok := theorem.Attrs["tags"].([]string)
	require.True(t, ok)
	assert.Empty(t, tags)
}

func TestConvertInlineMathStaysLiteral(t *testing.T) {
	nodes := convert(t, "The slope $m$ is constant.")
	require.Len(t, nodes, 1)
	assert.Equal(t, "paragraph", nodes[0].Type)
	assert.Contains(t, nodes[0].InnerText(), "$m$")
}

func TestConvertIsOrderPreserving(t *testing.T) {
	nodes := convert(t, "# One\n\nmiddle\n\n## Two")
	require.Len(t, nodes, 3)
	assert.Equal(t, "heading", nodes[0].Type)
	assert.Equal(t, "paragraph", nodes[1].Type)
	assert.Equal(t, "heading", nodes[2].Type)
}

// Parsing converted-then-reserialized Markdown reproduces equivalent block
// types for the structural elements.
func TestMarkdownRoundTrip(t *testing.T) {
	input := "# Title\n\nSome prose here.\n\n```python\nprint(1)\n```\n\n- a\n- b\n\n> quoted"

	first := blocks.NewEngine().Parse(input)
	nodes := doctree.Convert(first.Blocks)
	reserialized := doctree.ToMarkdown(nodes)
	second := blocks.NewEngine().Parse(reserialized)

	var firstTypes, secondTypes []string
	for _, b := range first.Blocks {
		firstTypes = append(firstTypes, b.Type)
	}
	for _, b := range second.Blocks {
		secondTypes = append(secondTypes, b.Type)
	}
	assert.Equal(t, firstTypes, secondTypes)
}
