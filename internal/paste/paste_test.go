package paste_test

import (
	"testing"

	"github.com/notamd/nota/internal/paste"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsMarkdownContent(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{"Heading", "# A title", true},
		{"Code fence", "```\ncode\n```", true},
		{"Unordered list", "- item", true},
		{"Ordered list", "1. item", true},
		{"Blockquote", "> quoted", true},
		{"Table", "| a | b |", true},
		{"Link", "[text](http://x)", true},
		{"Display math", "$$x$$", true},
		{"Directive", ":::theorem\nx\n:::", true},
		{"Citation", "see @doe2020", true},
		{"Plain prose", "Nothing special about this sentence.", false},
		{"Empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, paste.IsMarkdownContent(tt.input))
		})
	}
}

func TestPreviewNonMarkdown(t *testing.T) {
	preview := paste.NewAdapter().Preview("just a plain sentence")
	assert.False(t, preview.IsMarkdown)
	assert.Nil(t, preview.Result)
	assert.Nil(t, preview.Nodes)
}

func TestPreviewMarkdown(t *testing.T) {
	preview := paste.NewAdapter().Preview("# Title\n\nSome text")
	require.True(t, preview.IsMarkdown)
	require.NotNil(t, preview.Result)
	assert.Len(t, preview.Result.Blocks, 2)
	assert.Equal(t, 2, preview.ValidBlocks)
	assert.Equal(t, 0, preview.InvalidBlocks)
	assert.Len(t, preview.Nodes, 2)
	assert.Equal(t, "heading", preview.Nodes[0].Type)
}

func TestPreviewRetainsInvalidBlocks(t *testing.T) {
	preview := paste.NewAdapter().Preview("```\n\n```")
	require.True(t, preview.IsMarkdown)
	require.Len(t, preview.Result.Blocks, 1)
	assert.False(t, preview.Result.Blocks[0].Metadata.IsValid)
	assert.Equal(t, 0, preview.ValidBlocks)
	assert.Equal(t, 1, preview.InvalidBlocks)
	assert.Equal(t, 1, preview.Result.Metadata.InvalidBlocks)
	assert.NotEmpty(t, preview.Result.Metadata.Errors)
}

func TestParseMarkdownAndConvert(t *testing.T) {
	adapter := paste.NewAdapter()
	result := adapter.ParseMarkdown("## Section")
	nodes := adapter.ConvertToTiptap(result.Blocks)
	require.Len(t, nodes, 1)
	assert.Equal(t, "heading", nodes[0].Type)
}
