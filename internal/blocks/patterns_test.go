package blocks_test

import (
	"testing"

	"github.com/notamd/nota/internal/blocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// parseOne parses the input and returns the single block of the given type.
func parseOne(t *testing.T, input, blockType string) *blocks.Block {
	t.Helper()
	result := blocks.NewEngine().Parse(input)
	for _, block := range result.Blocks {
		if block.Type == blockType {
			return block
		}
	}
	t.Fatalf("no %s block found in %d block(s)", blockType, len(result.Blocks))
	return nil
}

func TestHeadingLevels(t *testing.T) {
	tests := []struct {
		input string
		level int
		text  string
	}{
		{"# One", 1, "One"},
		{"### Three", 3, "Three"},
		{"###### Six", 6, "Six"},
	}
	for _, tt := range tests {
		block := parseOne(t, tt.input, "heading")
		assert.Equal(t, tt.level, block.AttrInt("level"))
		assert.Equal(t, tt.text, block.AttrString("text"))
		assert.True(t, block.Metadata.IsValid)
	}
}

func TestTable(t *testing.T) {
	input := "| Name | Age |\n|------|-----|\n| Ada | 36 |\n| Alan | 41 |"
	block := parseOne(t, input, "table")

	headers := block.AttrStrings("headers")
	assert.Equal(t, []string{"Name", "Age"}, headers)
	rows, ok := block.Attributes["rows"].([][]string)
	require.True(t, ok)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Ada", "36"}, rows[0])
	assert.True(t, block.Metadata.IsValid)
}

func TestTableWithoutRowsWarns(t *testing.T) {
	block := parseOne(t, "| Name |\n|------|", "table")
	assert.True(t, block.Metadata.IsValid)
	require.Len(t, block.Metadata.Warnings, 1)
	assert.Contains(t, block.Metadata.Warnings[0], "no data rows")
}

func TestQuote(t *testing.T) {
	block := parseOne(t, "> line one\n> line two", "quote")
	assert.Equal(t, "line one\nline two", block.AttrString("content"))
	assert.True(t, block.Metadata.IsValid)
}

func TestLists(t *testing.T) {
	unordered := parseOne(t, "- apple\n- pear", "list")
	assert.Equal(t, "unordered", unordered.AttrString("listType"))
	assert.Equal(t, []string{"apple", "pear"}, unordered.AttrStrings("items"))

	ordered := parseOne(t, "1. first\n2. second", "list")
	assert.Equal(t, "ordered", ordered.AttrString("listType"))
	assert.Equal(t, []string{"first", "second"}, ordered.AttrStrings("items"))
}

func TestHorizontalRule(t *testing.T) {
	for _, input := range []string{"---", "*****", "___"} {
		block := parseOne(t, input, "horizontalRule")
		assert.True(t, block.Metadata.IsValid)
	}
}

func TestLink(t *testing.T) {
	block := parseOne(t, "See [the docs](https://example.org/docs) here.", "link")
	assert.Equal(t, "the docs", block.AttrString("text"))
	assert.Equal(t, "https://example.org/docs", block.AttrString("url"))
	assert.True(t, block.Metadata.IsValid)
	assert.Empty(t, block.Metadata.Warnings)
}

func TestLinkMalformedURLWarns(t *testing.T) {
	block := parseOne(t, "[broken](not_a_url)", "link")
	assert.True(t, block.Metadata.IsValid)
	require.Len(t, block.Metadata.Warnings, 1)
	assert.Contains(t, block.Metadata.Warnings[0], "malformed")
}

func TestImage(t *testing.T) {
	block := parseOne(t, `![diagram](figure.png "The figure")`, "image")
	assert.Equal(t, "diagram", block.AttrString("alt"))
	assert.Equal(t, "figure.png", block.AttrString("src"))
	assert.Equal(t, "The figure", block.AttrString("title"))
	assert.True(t, block.Metadata.IsValid)
}

func TestImageIsNotALink(t *testing.T) {
	result := blocks.NewEngine().Parse("![alt](img.png)")
	require.Len(t, result.Blocks, 1)
	assert.Equal(t, "image", result.Blocks[0].Type)
}

func TestMultipleImages(t *testing.T) {
	block := parseOne(t, "![a](1.png)\n![b](2.png)\n![c](3.png)", "multipleImages")
	images := block.AttrMaps("images")
	require.Len(t, images, 3)
	assert.Equal(t, "2.png", images[1]["src"])
	assert.True(t, block.Metadata.IsValid)
}

func TestMath(t *testing.T) {
	block := parseOne(t, "$$\n\\frac{a}{b}\n$$", "math")
	assert.Equal(t, `\frac{a}{b}`, block.AttrString("latex"))
	assert.Equal(t, true, block.Attributes["displayMode"])
	assert.True(t, block.Metadata.IsValid)
}

func TestExecutableCode(t *testing.T) {
	input := "```python exec timeout=30 cache=\"off\"\nprint(42)\n```"
	block := parseOne(t, input, "executableCode")
	assert.Equal(t, "python", block.AttrString("language"))
	assert.Equal(t, "print(42)", block.AttrString("content"))
	options, ok := block.Attributes["options"].(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "30", options["timeout"])
	assert.Equal(t, "off", options["cache"])
	assert.True(t, block.Metadata.IsValid)
}

func TestMermaid(t *testing.T) {
	block := parseOne(t, "```mermaid\ngraph TD\nA-->B\n```", "mermaid")
	assert.True(t, block.Metadata.IsValid)
	assert.Empty(t, block.Metadata.Warnings)

	odd := parseOne(t, "```mermaid\nsomething else\n```", "mermaid")
	assert.True(t, odd.Metadata.IsValid)
	require.Len(t, odd.Metadata.Warnings, 1)
	assert.Contains(t, odd.Metadata.Warnings[0], "keyword")
}

func TestYouTube(t *testing.T) {
	tests := []struct {
		input string
		id    string
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
	}
	for _, tt := range tests {
		block := parseOne(t, tt.input, "youtube")
		assert.Equal(t, tt.id, block.AttrString("videoId"))
		assert.True(t, block.Metadata.IsValid)
	}
}

func TestExtractYouTubeID(t *testing.T) {
	id, ok := blocks.ExtractYouTubeID("https://youtu.be/dQw4w9WgXcQ?t=5")
	assert.True(t, ok)
	assert.Equal(t, "dQw4w9WgXcQ", id)

	id, ok = blocks.ExtractYouTubeID("dQw4w9WgXcQ")
	assert.True(t, ok)
	assert.Equal(t, "dQw4w9WgXcQ", id)

	_, ok = blocks.ExtractYouTubeID("too-short")
	assert.False(t, ok)
}

func TestTheorem(t *testing.T) {
	block := parseOne(t, ":::theorem Pythagoras\na^2 + b^2 = c^2\n:::", "theorem")
	assert.Equal(t, "Pythagoras", block.AttrString("title"))
	assert.Equal(t, "a^2 + b^2 = c^2", block.AttrString("content"))
	assert.True(t, block.Metadata.IsValid)
}

func TestAIGeneration(t *testing.T) {
	input := ":::ai model=\"gpt-4\" timestamp=\"2024-06-01T10:00:00Z\"\nSummarize the experiment\n:::"
	block := parseOne(t, input, "aiGeneration")
	assert.Equal(t, "Summarize the experiment", block.AttrString("prompt"))
	assert.Equal(t, "gpt-4", block.AttrString("model"))
	assert.Equal(t, "2024-06-01T10:00:00Z", block.AttrString("timestamp"))
	assert.True(t, block.Metadata.IsValid)
}

func TestConfusionMatrix(t *testing.T) {
	input := ":::confusion-matrix title=\"Model A\" source=\"eval.py\"\n[[10, 2], [3, 15]]\n:::"
	block := parseOne(t, input, "confusionMatrix")
	assert.Equal(t, "[[10, 2], [3, 15]]", block.AttrString("matrixData"))
	assert.Equal(t, "Model A", block.AttrString("title"))
	assert.Equal(t, "eval.py", block.AttrString("source"))
	assert.True(t, block.Metadata.IsValid)
}

func TestPipeline(t *testing.T) {
	input := ":::pipeline title=\"ETL\"\n{\"description\": \"ingest\", \"nodes\": [{\"id\": \"a\"}], \"edges\": []}\n:::"
	block := parseOne(t, input, "pipeline")
	assert.Equal(t, "ingest", block.AttrString("description"))
	assert.Equal(t, "ETL", block.AttrString("title"))
	assert.True(t, block.Metadata.IsValid)
}

func TestDrawio(t *testing.T) {
	block := parseOne(t, ":::drawio width=\"1024\" height=\"768\"\nPGRpYWdyYW0+\n:::", "drawio")
	assert.Equal(t, "PGRpYWdyYW0+", block.AttrString("diagramData"))
	assert.Equal(t, 1024, block.AttrInt("width"))
	assert.Equal(t, 768, block.AttrInt("height"))
	assert.True(t, block.Metadata.IsValid)

	defaults := parseOne(t, ":::drawio\ndata\n:::", "drawio")
	assert.Equal(t, 800, defaults.AttrInt("width"))
	assert.Equal(t, 600, defaults.AttrInt("height"))
}

func TestExecutableFenceBeatsPlainCode(t *testing.T) {
	result := blocks.NewEngine().Parse("```go exec\nfmt.Println(1)\n```")
	require.Len(t, result.Blocks, 1)
	assert.Equal(t, "executableCode", result.Blocks[0].Type)
}

func TestMermaidFenceBeatsPlainCode(t *testing.T) {
	result := blocks.NewEngine().Parse("```mermaid\ngraph LR\n```")
	require.Len(t, result.Blocks, 1)
	assert.Equal(t, "mermaid", result.Blocks[0].Type)
}
