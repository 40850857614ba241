package blocks

import "regexp"

// Pattern is a declarative rule recognizing one block type.
//
// A pattern is a pure function of the raw matched text: it must not depend
// on the order of application nor on other patterns' results. Granularity
// conflicts (e.g. bibliography vs citation on the same @key run) are settled
// by the engine's overlap resolution, where priority is the registration
// order of the pattern table.
type Pattern struct {
	// Type tags the blocks produced by this pattern.
	Type string

	// Regex is searched globally over the whole document, not line by line.
	// Multi-line constructs anchor on content with the (?m)/(?s) flags.
	Regex *regexp.Regexp

	// SpanGroup selects the submatch whose offsets delimit the block span.
	// Zero means the whole match. Used by patterns that consume a leading
	// guard character (Go regexps have no lookbehind).
	SpanGroup int

	// Extract maps the submatches to typed attributes. An error (or panic)
	// is confined by the engine and recorded as a synthetic parse error.
	Extract func(groups []string) (map[string]any, error)

	// Validate checks the extracted attributes.
	Validate func(attrs map[string]any) Validation
}
