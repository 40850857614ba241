package blocks

import (
	"fmt"
	"sort"
	"strings"

	"github.com/notamd/nota/pkg/text"
)

// Engine applies a fixed pattern table over raw Markdown text.
// The table is set at construction and never mutated after.
type Engine struct {
	patterns []*Pattern
}

// NewEngine constructs an engine over the default pattern table.
func NewEngine() *Engine {
	return NewEngineWithPatterns(DefaultPatterns()...)
}

// NewEngineWithPatterns constructs an engine over an explicit pattern table.
// Pattern order is the priority used to break overlap-resolution ties.
func NewEngineWithPatterns(patterns ...*Pattern) *Engine {
	return &Engine{patterns: patterns}
}

// Parse scans the whole text with every registered pattern, fills the gaps
// with text blocks, and resolves overlapping matches (first wins, ordered by
// start line then by pattern priority).
//
// Diagnostics of blocks later discarded by overlap resolution remain in the
// aggregate lists: the preview surface displays them against the source text,
// not against the surviving block list.
func (e *Engine) Parse(raw string) *Result {
	result := &Result{
		Blocks: []*Block{},
		Metadata: ResultMetadata{
			TotalLines: text.CountLines(raw),
		},
	}

	var candidates []*Block
	for _, pattern := range e.patterns {
		candidates = append(candidates, e.applyPattern(pattern, raw, result)...)
	}

	merged := append(candidates, textBlocks(raw, candidates)...)
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Metadata.StartLine < merged[j].Metadata.StartLine
	})

	var accepted []*Block
	for _, block := range merged {
		if !overlapsAny(accepted, block) {
			accepted = append(accepted, block)
		}
	}

	result.Blocks = accepted
	for _, block := range accepted {
		if block.Metadata.IsValid {
			result.Metadata.ValidBlocks++
		} else {
			result.Metadata.InvalidBlocks++
		}
	}
	return result
}

// ReparseBlock reparses the edited content of a single block, producing a
// fresh block (the original is never mutated). Content matching no pattern
// comes back as a text block.
func (e *Engine) ReparseBlock(content string) *Block {
	result := e.Parse(content)
	for _, block := range result.Blocks {
		if block.Type != "text" {
			return block
		}
	}
	if len(result.Blocks) > 0 {
		return result.Blocks[0]
	}
	return newTextBlock(content, 1, text.CountLines(content))
}

// applyPattern searches the whole text with one pattern and builds a block
// per match. A panicking or failing pattern must never abort the parse: the
// failure is confined here and recorded as a synthetic aggregate error.
func (e *Engine) applyPattern(pattern *Pattern, raw string, result *Result) (matched []*Block) {
	defer func() {
		if r := recover(); r != nil {
			result.Metadata.Errors = append(result.Metadata.Errors,
				fmt.Sprintf("pattern %s failed: %v", pattern.Type, r))
		}
	}()

	for _, indexes := range pattern.Regex.FindAllStringSubmatchIndex(raw, -1) {
		start, end := matchSpan(pattern, indexes)
		if start < 0 {
			continue
		}

		groups := make([]string, len(indexes)/2)
		for g := 0; g < len(indexes)/2; g++ {
			if indexes[2*g] >= 0 {
				groups[g] = raw[indexes[2*g]:indexes[2*g+1]]
			}
		}

		attrs, err := pattern.Extract(groups)
		if err != nil {
			result.Metadata.Errors = append(result.Metadata.Errors,
				fmt.Sprintf("pattern %s failed: %v", pattern.Type, err))
			continue
		}

		rawText := raw[start:end]
		validation := pattern.Validate(attrs)
		block := &Block{
			Type:       pattern.Type,
			Content:    strings.TrimRight(rawText, "\n"),
			Attributes: attrs,
			Metadata: Metadata{
				StartLine: text.LineOfOffset(raw, start),
				EndLine:   text.LineOfOffset(raw, len(strings.TrimRight(raw[:end], "\n"))),
				RawText:   rawText,
				IsValid:   validation.IsValid,
				Errors:    validation.Errors,
				Warnings:  validation.Warnings,
			},
		}
		if block.Metadata.EndLine < block.Metadata.StartLine {
			block.Metadata.EndLine = block.Metadata.StartLine
		}

		// Aggregate per-block diagnostics (kept even if overlap resolution
		// discards the block later).
		result.Metadata.Errors = append(result.Metadata.Errors, validation.Errors...)
		result.Metadata.Warnings = append(result.Metadata.Warnings, validation.Warnings...)

		matched = append(matched, block)
	}
	return matched
}

func matchSpan(pattern *Pattern, indexes []int) (int, int) {
	g := pattern.SpanGroup
	if 2*g+1 >= len(indexes) {
		return indexes[0], indexes[1]
	}
	return indexes[2*g], indexes[2*g+1]
}

func overlapsAny(accepted []*Block, block *Block) bool {
	for _, other := range accepted {
		if block.Overlaps(other) {
			return true
		}
	}
	return false
}

// textBlocks computes the spans of the document not covered by any pattern
// match. Whitespace-only spans are skipped; the others become always-valid
// text blocks.
func textBlocks(raw string, candidates []*Block) []*Block {
	totalLines := text.CountLines(raw)
	covered := make([]bool, totalLines+1)
	for _, block := range candidates {
		for line := block.Metadata.StartLine; line <= block.Metadata.EndLine && line <= totalLines; line++ {
			covered[line] = true
		}
	}

	var results []*Block
	start := 0
	for line := 1; line <= totalLines+1; line++ {
		uncovered := line <= totalLines && !covered[line]
		if uncovered && start == 0 {
			start = line
		}
		if !uncovered && start > 0 {
			span := text.ExtractLines(raw, start, line-1)
			if !text.IsBlank(span) {
				results = append(results, newTextBlock(span, start, line-1))
			}
			start = 0
		}
	}
	return results
}

func newTextBlock(span string, startLine, endLine int) *Block {
	return &Block{
		Type:    "text",
		Content: strings.TrimSpace(span),
		Metadata: Metadata{
			StartLine: startLine,
			EndLine:   endLine,
			RawText:   span,
			IsValid:   true,
		},
	}
}
