// Package paste decides whether pasted text looks like Markdown and builds
// the preview report shown before insertion: parsed blocks, converted
// document-tree nodes, and the diagnostics a user must acknowledge.
package paste

import (
	"regexp"

	"github.com/notamd/nota/internal/blocks"
	"github.com/notamd/nota/internal/doctree"
)

// A fixed set of cheap syntax heuristics: any match gates the preview.
var markdownHeuristics = []*regexp.Regexp{
	regexp.MustCompile(`(?m)^#{1,6}[ \t]+\S`),            // headings
	regexp.MustCompile("(?m)^```"),                       // code fences
	regexp.MustCompile(`(?m)^[-*+][ \t]+\S`),             // unordered lists
	regexp.MustCompile(`(?m)^\d+\.[ \t]+\S`),             // ordered lists
	regexp.MustCompile(`(?m)^>[ \t]`),                    // blockquotes
	regexp.MustCompile(`(?m)^\|.+\|`),                    // tables
	regexp.MustCompile(`\[[^\]]+\]\([^)]+\)`),            // links
	regexp.MustCompile(`!\[[^\]]*\]\([^)]+\)`),           // images
	regexp.MustCompile(`\$\$[^$]`),                       // display math
	regexp.MustCompile(`(?m)^:::[a-z]`),                  // academic directives
	regexp.MustCompile(`(?m)(?:^|\s)@[A-Za-z][\w-]*\d`),  // citations
	regexp.MustCompile(`(?m)^(?:-{3,}|\*{3,}|_{3,})\s*$`), // horizontal rules
}

// IsMarkdownContent is the cheap gate used on paste: it returns true when
// any of the fixed syntax heuristics matches.
func IsMarkdownContent(text string) bool {
	for _, heuristic := range markdownHeuristics {
		if heuristic.MatchString(text) {
			return true
		}
	}
	return false
}

// Preview is the acceptance report built from pasted text.
// ValidBlocks/InvalidBlocks repeat the result counts so that callers render
// the summary without digging into the metadata.
type Preview struct {
	IsMarkdown    bool            `json:"isMarkdown"`
	ValidBlocks   int             `json:"validBlocks"`
	InvalidBlocks int             `json:"invalidBlocks"`
	Result        *blocks.Result  `json:"result"`
	Nodes         []*doctree.Node `json:"nodes"`
}

// Adapter wires the parser engine and the converter behind the paste
// surface of the host application.
type Adapter struct {
	engine *blocks.Engine
}

// NewAdapter constructs the adapter over the default pattern table.
func NewAdapter() *Adapter {
	return &Adapter{engine: blocks.NewEngine()}
}

// ParseMarkdown is the raw parser call exposed to the host application.
func (a *Adapter) ParseMarkdown(text string) *blocks.Result {
	return a.engine.Parse(text)
}

// ConvertToTiptap converts parsed blocks to document-tree nodes.
func (a *Adapter) ConvertToTiptap(parsed []*blocks.Block) []*doctree.Node {
	return doctree.Convert(parsed)
}

// Preview runs the full gate+parse+convert pipeline on pasted text.
// Invalid blocks are retained (flagged in the result); the caller decides
// whether to allow their insertion.
func (a *Adapter) Preview(text string) *Preview {
	if !IsMarkdownContent(text) {
		return &Preview{IsMarkdown: false}
	}
	result := a.engine.Parse(text)
	return &Preview{
		IsMarkdown:    true,
		ValidBlocks:   result.Metadata.ValidBlocks,
		InvalidBlocks: result.Metadata.InvalidBlocks,
		Result:        result,
		Nodes:         doctree.Convert(result.Blocks),
	}
}

// ReparseBlock reparses a single edited block, producing a fresh block.
func (a *Adapter) ReparseBlock(content string) *blocks.Block {
	return a.engine.ReparseBlock(content)
}
