package blocks_test

import (
	"strings"
	"testing"

	"github.com/notamd/nota/internal/blocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHeadingAndText(t *testing.T) {
	result := blocks.NewEngine().Parse("# Title\n\nSome text")

	require.Len(t, result.Blocks, 2)

	heading := result.Blocks[0]
	assert.Equal(t, "heading", heading.Type)
	assert.Equal(t, 1, heading.AttrInt("level"))
	assert.Equal(t, "Title", heading.AttrString("text"))
	assert.True(t, heading.Metadata.IsValid)
	assert.Equal(t, 1, heading.Metadata.StartLine)
	assert.Equal(t, 1, heading.Metadata.EndLine)

	text := result.Blocks[1]
	assert.Equal(t, "text", text.Type)
	assert.Equal(t, "Some text", text.Content)
	assert.True(t, text.Metadata.IsValid)

	assert.Equal(t, 2, result.Metadata.ValidBlocks)
	assert.Equal(t, 0, result.Metadata.InvalidBlocks)
	assert.Equal(t, 3, result.Metadata.TotalLines)
}

func TestParseCodeBlock(t *testing.T) {
	result := blocks.NewEngine().Parse("```python\nprint(1)\n```")

	require.Len(t, result.Blocks, 1)
	code := result.Blocks[0]
	assert.Equal(t, "code", code.Type)
	assert.Equal(t, "python", code.AttrString("language"))
	assert.Equal(t, "print(1)", code.AttrString("content"))
	assert.True(t, code.Metadata.IsValid)
	assert.Equal(t, 1, code.Metadata.StartLine)
	assert.Equal(t, 3, code.Metadata.EndLine)
}

func TestParseBibliographyWinsOverCitations(t *testing.T) {
	result := blocks.NewEngine().Parse("@doe2020 @smith2021")

	require.Len(t, result.Blocks, 1)
	bibliography := result.Blocks[0]
	assert.Equal(t, "bibliography", bibliography.Type)
	assert.Equal(t, []string{"doe2020", "smith2021"}, bibliography.AttrStrings("citations"))
	assert.True(t, bibliography.Metadata.IsValid)
}

func TestParseSingleCitation(t *testing.T) {
	result := blocks.NewEngine().Parse("As shown in @doe2020 recently.")

	var citation *blocks.Block
	for _, block := range result.Blocks {
		if block.Type == "citation" {
			citation = block
		}
	}
	require.NotNil(t, citation)
	assert.Equal(t, "doe2020", citation.AttrString("citationKey"))
}

func TestParseEmptyInput(t *testing.T) {
	result := blocks.NewEngine().Parse("")

	assert.Empty(t, result.Blocks)
	assert.Equal(t, 1, result.Metadata.TotalLines)
	assert.Equal(t, 0, result.Metadata.ValidBlocks)
	assert.Equal(t, 0, result.Metadata.InvalidBlocks)
}

func TestParseMalformedPipelineJSON(t *testing.T) {
	input := ":::pipeline\n{not json at all\n:::\n\nStill readable text"
	result := blocks.NewEngine().Parse(input)

	// The failure must not abort the parse of other patterns
	var foundText bool
	for _, block := range result.Blocks {
		assert.NotEqual(t, "pipeline", block.Type)
		if block.Type == "text" && strings.Contains(block.Content, "Still readable text") {
			foundText = true
		}
	}
	assert.True(t, foundText)

	require.NotEmpty(t, result.Metadata.Errors)
	assert.Contains(t, result.Metadata.Errors[0], "pipeline")
}

func TestParseNonOverlapInvariant(t *testing.T) {
	input := `# Document

Some intro with @key1 inline.

| A | B |
|---|---|
| 1 | 2 |

> A quote
> on two lines

- one
- two

![first](a.png)
![second](b.png)

@doe2020 @smith2021
`
	result := blocks.NewEngine().Parse(input)

	for i, block := range result.Blocks {
		for _, other := range result.Blocks[i+1:] {
			assert.False(t, block.Overlaps(other),
				"blocks %s(%d-%d) and %s(%d-%d) overlap",
				block.Type, block.Metadata.StartLine, block.Metadata.EndLine,
				other.Type, other.Metadata.StartLine, other.Metadata.EndLine)
		}
		assert.LessOrEqual(t, block.Metadata.StartLine, block.Metadata.EndLine)
	}

	// Blocks are ordered by start line
	for i := 1; i < len(result.Blocks); i++ {
		assert.Greater(t, result.Blocks[i].Metadata.StartLine, result.Blocks[i-1].Metadata.EndLine)
	}
}

func TestParseAggregateCountConsistency(t *testing.T) {
	inputs := []string{
		"",
		"# Title\n\nSome text",
		"```\n\n```",
		"plain paragraph\n\n## Section\n\n$$x^2$$",
		":::theorem\n\n:::",
	}
	for _, input := range inputs {
		result := blocks.NewEngine().Parse(input)
		assert.Equal(t, len(result.Blocks), result.Metadata.ValidBlocks+result.Metadata.InvalidBlocks)
	}
}

// Diagnostics of blocks discarded by overlap resolution stay in the
// aggregates. Downstream preview UIs display them against the source text,
// so they are preserved deliberately.
func TestParseKeepsDiagnosticsOfDroppedBlocks(t *testing.T) {
	result := blocks.NewEngine().Parse("![](a.png)\n![](b.png)")

	require.Len(t, result.Blocks, 1)
	group := result.Blocks[0]
	assert.Equal(t, "multipleImages", group.Type)
	assert.Empty(t, group.Metadata.Warnings)

	// The two single-image matches were dropped but their warnings remain
	assert.Len(t, result.Metadata.Warnings, 2)
	assert.Contains(t, result.Metadata.Warnings[0], "alt")
}

func TestParseCoverage(t *testing.T) {
	input := "intro line\n\n# Heading\n\ntrailing line"
	result := blocks.NewEngine().Parse(input)

	covered := make(map[int]bool)
	for _, block := range result.Blocks {
		for line := block.Metadata.StartLine; line <= block.Metadata.EndLine; line++ {
			covered[line] = true
		}
	}
	// Every non-blank line of the input is claimed by exactly one block
	for i, line := range strings.Split(input, "\n") {
		if strings.TrimSpace(line) != "" {
			assert.True(t, covered[i+1], "line %d not covered", i+1)
		}
	}
}

func TestParseInvalidBlockRetained(t *testing.T) {
	// An empty code fence is recognized but invalid; it must stay in the
	// block list flagged isValid:false (callers decide what to do with it).
	result := blocks.NewEngine().Parse("```\n\n```")

	require.Len(t, result.Blocks, 1)
	code := result.Blocks[0]
	assert.Equal(t, "code", code.Type)
	assert.False(t, code.Metadata.IsValid)
	assert.NotEmpty(t, code.Metadata.Errors)
	assert.Equal(t, 1, result.Metadata.InvalidBlocks)
	assert.Contains(t, result.Metadata.Errors, code.Metadata.Errors[0])
}

func TestReparseBlock(t *testing.T) {
	engine := blocks.NewEngine()

	block := engine.ReparseBlock("## Edited heading")
	assert.Equal(t, "heading", block.Type)
	assert.Equal(t, 2, block.AttrInt("level"))

	block = engine.ReparseBlock("just some words")
	assert.Equal(t, "text", block.Type)
}

func TestParseInlineMathLeftAsText(t *testing.T) {
	// Inline $...$ spans are not tokenized at parse time; the host editor
	// interprets them later. Only $$...$$ becomes a math block.
	result := blocks.NewEngine().Parse("The value $x$ grows.")

	require.Len(t, result.Blocks, 1)
	assert.Equal(t, "text", result.Blocks[0].Type)
	assert.Contains(t, result.Blocks[0].Content, "$x$")
}
