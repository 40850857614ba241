// Package blocks implements the Markdown block parser: a registry of
// declarative patterns applied globally over raw text, producing an ordered,
// non-overlapping sequence of classified blocks with per-block validation
// diagnostics.
package blocks

// Validation is the outcome of validating one block's attributes.
type Validation struct {
	IsValid  bool     `json:"isValid" yaml:"isValid"`
	Errors   []string `json:"errors,omitempty" yaml:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Valid returns a passing validation.
func Valid() Validation {
	return Validation{IsValid: true}
}

// Metadata locates a block inside its source document and carries its
// validation outcome.
type Metadata struct {
	StartLine int      `json:"startLine" yaml:"startLine"`
	EndLine   int      `json:"endLine" yaml:"endLine"`
	RawText   string   `json:"rawText" yaml:"rawText"`
	IsValid   bool     `json:"isValid" yaml:"isValid"`
	Errors    []string `json:"errors,omitempty" yaml:"errors,omitempty"`
	Warnings  []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Block is one recognized span of source text.
// Blocks are created during a single parse pass and never mutated after.
type Block struct {
	Type       string         `json:"type" yaml:"type"`
	Content    string         `json:"content" yaml:"content"`
	Attributes map[string]any `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	Metadata   Metadata       `json:"metadata" yaml:"metadata"`
}

// Overlaps returns if two blocks claim intersecting line ranges.
func (b *Block) Overlaps(other *Block) bool {
	return b.Metadata.StartLine <= other.Metadata.EndLine &&
		other.Metadata.StartLine <= b.Metadata.EndLine
}

// AttrString returns a string attribute (empty when absent or mistyped).
// Conversion errors are ignored (the attribute is considered missing).
func (b *Block) AttrString(name string) string {
	if v, ok := b.Attributes[name]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// AttrInt returns an integer attribute (0 when absent or mistyped).
func (b *Block) AttrInt(name string) int {
	switch v := b.Attributes[name].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}

// AttrStrings returns a string-slice attribute.
func (b *Block) AttrStrings(name string) []string {
	switch v := b.Attributes[name].(type) {
	case []string:
		return v
	case []any:
		var results []string
		for _, item := range v {
			if s, ok := item.(string); ok {
				results = append(results, s)
			}
		}
		return results
	}
	return nil
}

// AttrMaps returns a slice-of-maps attribute (e.g. the images of a figure group).
func (b *Block) AttrMaps(name string) []map[string]any {
	switch v := b.Attributes[name].(type) {
	case []map[string]any:
		return v
	case []any:
		var results []map[string]any
		for _, item := range v {
			if m, ok := item.(map[string]any); ok {
				results = append(results, m)
			}
		}
		return results
	}
	return nil
}

// ResultMetadata aggregates parse-level diagnostics.
// Counts are derived from the surviving blocks; the error and warning lists
// also retain messages from blocks later discarded by overlap resolution.
type ResultMetadata struct {
	TotalLines    int      `json:"totalLines" yaml:"totalLines"`
	ValidBlocks   int      `json:"validBlocks" yaml:"validBlocks"`
	InvalidBlocks int      `json:"invalidBlocks" yaml:"invalidBlocks"`
	Warnings      []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Errors        []string `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// Result is the outcome of one parse pass.
type Result struct {
	Blocks   []*Block       `json:"blocks" yaml:"blocks"`
	Metadata ResultMetadata `json:"metadata" yaml:"metadata"`
}
