package blocks

import (
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// Regex fragments shared by several patterns
const (
	regexImageRaw       = `!\[([^\]]*)\]\(([^)\s]+)(?:[ \t]+"([^"]*)")?\)`
	regexCitationKeyRaw = `@([A-Za-z][A-Za-z0-9_-]*)`
)

var (
	regexImage           = regexp.MustCompile(regexImageRaw)
	regexCitationKey     = regexp.MustCompile(regexCitationKeyRaw)
	regexDirectiveOption = regexp.MustCompile(`([A-Za-z][A-Za-z0-9_-]*)=(?:"([^"]*)"|(\S+))`)
	regexYouTubeURL      = regexp.MustCompile(`(?:youtube\.com/(?:watch\?v=|embed/|shorts/)|youtu\.be/)([A-Za-z0-9_-]{11})`)
	regexYouTubeID       = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
	regexOrderedMarker   = regexp.MustCompile(`^\d+\.[ \t]+`)
	regexUnorderedMarker = regexp.MustCompile(`^[-*+][ \t]+`)
)

// Keywords expected at the start of a Mermaid diagram definition
var mermaidKeywords = []string{
	"graph", "flowchart", "sequenceDiagram", "classDiagram", "stateDiagram",
	"erDiagram", "gantt", "pie", "journey", "mindmap", "timeline",
}

// DefaultPatterns returns the pattern table in priority order.
//
// Registration order is the explicit tie-break for overlap resolution:
// superset-shaped patterns (multipleImages, bibliography) and specialized
// fences (executableCode, mermaid) are registered before their generic
// alternatives so that they win when both match at the same line.
func DefaultPatterns() []*Pattern {
	return []*Pattern{
		executableCodePattern(),
		mermaidPattern(),
		codePattern(),
		mathPattern(),
		theoremPattern(),
		aiGenerationPattern(),
		confusionMatrixPattern(),
		pipelinePattern(),
		drawioPattern(),
		headingPattern(),
		tablePattern(),
		horizontalRulePattern(),
		quotePattern(),
		listPattern(),
		multipleImagesPattern(),
		imagePattern(),
		youtubePattern(),
		bibliographyPattern(),
		citationPattern(),
		linkPattern(),
	}
}

func invalid(errors ...string) Validation {
	return Validation{IsValid: false, Errors: errors}
}

func validWithWarnings(warnings ...string) Validation {
	return Validation{IsValid: true, Warnings: warnings}
}

// parseDirectiveOptions reads `key="value"` pairs from a directive info string.
func parseDirectiveOptions(info string) map[string]string {
	options := make(map[string]string)
	for _, m := range regexDirectiveOption.FindAllStringSubmatch(info, -1) {
		value := m[2]
		if value == "" {
			value = m[3]
		}
		options[m[1]] = value
	}
	return options
}

/*
 * Code fences
 */

func codePattern() *Pattern {
	return &Pattern{
		Type: "code",
		// The info string is permissive on purpose: a fence carrying exec
		// options must still match here so that the specialized patterns
		// win by registration order instead of by fence misalignment.
		Regex: regexp.MustCompile("(?m)^```([^`\n]*)\n((?s:.*?))\n?^```[ \t]*$"),
		Extract: func(groups []string) (map[string]any, error) {
			language := strings.TrimSpace(groups[1])
			if i := strings.IndexAny(language, " \t"); i > -1 {
				language = language[:i]
			}
			return map[string]any{
				"language": language,
				"content":  groups[2],
			}, nil
		},
		Validate: func(attrs map[string]any) Validation {
			if strings.TrimSpace(asString(attrs["content"])) == "" {
				return invalid("code block has no content")
			}
			return Valid()
		},
	}
}

func executableCodePattern() *Pattern {
	return &Pattern{
		Type:  "executableCode",
		Regex: regexp.MustCompile("(?m)^```([A-Za-z0-9_+-]+)[ \t]+exec([^`\n]*)\n((?s:.*?))\n?^```[ \t]*$"),
		Extract: func(groups []string) (map[string]any, error) {
			options := parseDirectiveOptions(groups[2])
			return map[string]any{
				"language": groups[1],
				"options":  options,
				"content":  groups[3],
			}, nil
		},
		Validate: func(attrs map[string]any) Validation {
			var errors []string
			if asString(attrs["language"]) == "" {
				errors = append(errors, "executable code requires a language")
			}
			if strings.TrimSpace(asString(attrs["content"])) == "" {
				errors = append(errors, "executable code requires content")
			}
			if len(errors) > 0 {
				return invalid(errors...)
			}
			return Valid()
		},
	}
}

func mermaidPattern() *Pattern {
	return &Pattern{
		Type:  "mermaid",
		Regex: regexp.MustCompile("(?m)^```mermaid[ \t]*\n((?s:.*?))\n?^```[ \t]*$"),
		Extract: func(groups []string) (map[string]any, error) {
			return map[string]any{"content": groups[1]}, nil
		},
		Validate: func(attrs map[string]any) Validation {
			content := strings.TrimSpace(asString(attrs["content"]))
			if content == "" {
				return invalid("mermaid block has no content")
			}
			for _, keyword := range mermaidKeywords {
				if strings.Contains(content, keyword) {
					return Valid()
				}
			}
			return validWithWarnings("no recognizable mermaid diagram keyword")
		},
	}
}

/*
 * Math
 */

func mathPattern() *Pattern {
	return &Pattern{
		Type:  "math",
		Regex: regexp.MustCompile(`\$\$((?s:.+?))\$\$`),
		Extract: func(groups []string) (map[string]any, error) {
			return map[string]any{
				"latex":       strings.TrimSpace(groups[1]),
				"displayMode": true,
			}, nil
		},
		Validate: func(attrs map[string]any) Validation {
			if asString(attrs["latex"]) == "" {
				return invalid("math block has no LaTeX content")
			}
			return Valid()
		},
	}
}

/*
 * Structural blocks
 */

func headingPattern() *Pattern {
	return &Pattern{
		Type:  "heading",
		Regex: regexp.MustCompile(`(?m)^(#{1,6})[ \t]+(.+?)[ \t]*$`),
		Extract: func(groups []string) (map[string]any, error) {
			return map[string]any{
				"level": len(groups[1]),
				"text":  groups[2],
			}, nil
		},
		Validate: func(attrs map[string]any) Validation {
			var errors []string
			if strings.TrimSpace(asString(attrs["text"])) == "" {
				errors = append(errors, "heading has no text")
			}
			if asInt(attrs["level"]) > 6 {
				errors = append(errors, "heading level must not exceed 6")
			}
			if len(errors) > 0 {
				return invalid(errors...)
			}
			return Valid()
		},
	}
}

func tablePattern() *Pattern {
	return &Pattern{
		Type:  "table",
		Regex: regexp.MustCompile(`(?m)^\|(.+)\|[ \t]*\n\|([ \t:|-]+)\|[ \t]*((?:\n\|.*\|[ \t]*)*)`),
		Extract: func(groups []string) (map[string]any, error) {
			headers := splitTableRow(groups[1])
			var rows [][]string
			for _, line := range strings.Split(groups[3], "\n") {
				line = strings.TrimSpace(line)
				if line == "" {
					continue
				}
				rows = append(rows, splitTableRow(strings.Trim(line, "|")))
			}
			return map[string]any{
				"headers": headers,
				"rows":    rows,
			}, nil
		},
		Validate: func(attrs map[string]any) Validation {
			headers, _ := attrs["headers"].([]string)
			if len(headers) == 0 {
				return invalid("table requires at least one header")
			}
			rows, _ := attrs["rows"].([][]string)
			if len(rows) == 0 {
				return validWithWarnings("table has no data rows")
			}
			return Valid()
		},
	}
}

func splitTableRow(row string) []string {
	var cells []string
	for _, cell := range strings.Split(row, "|") {
		cells = append(cells, strings.TrimSpace(cell))
	}
	return cells
}

func quotePattern() *Pattern {
	return &Pattern{
		Type:  "quote",
		Regex: regexp.MustCompile(`(?m)^((?:>[^\n]*\n?)+)`),
		Extract: func(groups []string) (map[string]any, error) {
			var lines []string
			for _, line := range strings.Split(strings.TrimSuffix(groups[1], "\n"), "\n") {
				line = strings.TrimPrefix(line, ">")
				line = strings.TrimPrefix(line, " ")
				lines = append(lines, line)
			}
			return map[string]any{"content": strings.Join(lines, "\n")}, nil
		},
		Validate: func(attrs map[string]any) Validation {
			if strings.TrimSpace(asString(attrs["content"])) == "" {
				return invalid("quote has no content")
			}
			return Valid()
		},
	}
}

func listPattern() *Pattern {
	return &Pattern{
		Type:  "list",
		Regex: regexp.MustCompile(`(?m)^((?:[ \t]*(?:[-*+]|\d+\.)[ \t]+[^\n]+\n?)+)`),
		Extract: func(groups []string) (map[string]any, error) {
			listType := "unordered"
			var items []string
			for _, line := range strings.Split(strings.TrimSuffix(groups[1], "\n"), "\n") {
				trimmed := strings.TrimLeft(line, " \t")
				if regexOrderedMarker.MatchString(trimmed) {
					if len(items) == 0 {
						listType = "ordered"
					}
					trimmed = regexOrderedMarker.ReplaceAllString(trimmed, "")
				} else {
					trimmed = regexUnorderedMarker.ReplaceAllString(trimmed, "")
				}
				items = append(items, trimmed)
			}
			return map[string]any{
				"listType": listType,
				"items":    items,
			}, nil
		},
		Validate: func(attrs map[string]any) Validation {
			items, _ := attrs["items"].([]string)
			if len(items) == 0 {
				return invalid("list requires at least one item")
			}
			return Valid()
		},
	}
}

func horizontalRulePattern() *Pattern {
	return &Pattern{
		Type:  "horizontalRule",
		Regex: regexp.MustCompile(`(?m)^ {0,3}(?:-{3,}|\*{3,}|_{3,})[ \t]*$`),
		Extract: func(groups []string) (map[string]any, error) {
			return map[string]any{}, nil
		},
		Validate: func(attrs map[string]any) Validation {
			return Valid()
		},
	}
}

/*
 * Inline-shaped blocks (links, images, citations)
 */

func linkPattern() *Pattern {
	return &Pattern{
		Type: "link",
		// The leading guard refuses the ! of an image syntax
		// (Go regexps have no negative lookbehind).
		Regex:     regexp.MustCompile(`(?:^|[^!])(\[([^\]]+)\]\(([^)\s]+)(?:[ \t]+"([^"]*)")?\))`),
		SpanGroup: 1,
		Extract: func(groups []string) (map[string]any, error) {
			return map[string]any{
				"text": groups[2],
				"url":  groups[3],
			}, nil
		},
		Validate: func(attrs map[string]any) Validation {
			linkText := asString(attrs["text"])
			linkURL := asString(attrs["url"])
			var errors []string
			if strings.TrimSpace(linkText) == "" {
				errors = append(errors, "link has no text")
			}
			if linkURL == "" {
				errors = append(errors, "link has no URL")
			}
			if len(errors) > 0 {
				return invalid(errors...)
			}
			if malformedURL(linkURL) {
				return validWithWarnings(fmt.Sprintf("link URL %q looks malformed", linkURL))
			}
			return Valid()
		},
	}
}

func malformedURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return true
	}
	if parsed.Scheme != "" {
		return false
	}
	// Relative references and fragments are fine
	return !strings.HasPrefix(raw, "/") && !strings.HasPrefix(raw, "#") && !strings.HasPrefix(raw, ".")
}

func imagePattern() *Pattern {
	return &Pattern{
		Type:  "image",
		Regex: regexImage,
		Extract: func(groups []string) (map[string]any, error) {
			return map[string]any{
				"alt":   groups[1],
				"src":   groups[2],
				"title": groups[3],
			}, nil
		},
		Validate: func(attrs map[string]any) Validation {
			if asString(attrs["src"]) == "" {
				return invalid("image has no source")
			}
			if asString(attrs["alt"]) == "" {
				return validWithWarnings("image has no alt text")
			}
			return Valid()
		},
	}
}

func multipleImagesPattern() *Pattern {
	return &Pattern{
		Type: "multipleImages",
		// Two or more adjacent images; the single-image pattern is the
		// lower-priority alternative for the degenerate case.
		Regex: regexp.MustCompile(`(?:` + regexImageRaw + `[ \t]*\n?){2,}`),
		Extract: func(groups []string) (map[string]any, error) {
			var images []map[string]any
			for _, m := range regexImage.FindAllStringSubmatch(groups[0], -1) {
				images = append(images, map[string]any{
					"alt":   m[1],
					"src":   m[2],
					"title": m[3],
				})
			}
			return map[string]any{"images": images}, nil
		},
		Validate: func(attrs map[string]any) Validation {
			images, _ := attrs["images"].([]map[string]any)
			if len(images) == 0 {
				return invalid("image group requires at least one image")
			}
			if len(images) == 1 {
				return validWithWarnings("image group contains a single image")
			}
			return Valid()
		},
	}
}

func citationPattern() *Pattern {
	return &Pattern{
		Type:      "citation",
		Regex:     regexp.MustCompile(`(?m)(?:^|[\s(])(` + regexCitationKeyRaw + `)`),
		SpanGroup: 1,
		Extract: func(groups []string) (map[string]any, error) {
			return map[string]any{"citationKey": groups[2]}, nil
		},
		Validate: func(attrs map[string]any) Validation {
			if asString(attrs["citationKey"]) == "" {
				return invalid("citation has no key")
			}
			return Valid()
		},
	}
}

func bibliographyPattern() *Pattern {
	return &Pattern{
		Type: "bibliography",
		// A run of two or more @keys; a lone @key is a citation instead.
		Regex:     regexp.MustCompile(`(?m)(?:^|[\s(])(` + regexCitationKeyRaw + `(?:[ \t]+` + regexCitationKeyRaw + `)+)`),
		SpanGroup: 1,
		Extract: func(groups []string) (map[string]any, error) {
			var citations []string
			for _, m := range regexCitationKey.FindAllStringSubmatch(groups[1], -1) {
				citations = append(citations, m[1])
			}
			return map[string]any{"citations": citations}, nil
		},
		Validate: func(attrs map[string]any) Validation {
			citations, _ := attrs["citations"].([]string)
			if len(citations) == 0 {
				return invalid("bibliography requires at least one citation")
			}
			if len(citations) == 1 {
				return validWithWarnings("bibliography contains a single citation")
			}
			return Valid()
		},
	}
}

/*
 * Embeds
 */

func youtubePattern() *Pattern {
	return &Pattern{
		Type:  "youtube",
		Regex: regexp.MustCompile(`(?m)^(https?://(?:www\.)?(?:youtube\.com|youtu\.be)/\S+)[ \t]*$`),
		Extract: func(groups []string) (map[string]any, error) {
			id, _ := ExtractYouTubeID(groups[1])
			return map[string]any{"videoId": id}, nil
		},
		Validate: func(attrs map[string]any) Validation {
			if asString(attrs["videoId"]) == "" {
				return invalid("no video id could be extracted from the YouTube URL")
			}
			return Valid()
		},
	}
}

// ExtractYouTubeID extracts the 11-character video id from a YouTube URL,
// or accepts a bare id verbatim.
func ExtractYouTubeID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if m := regexYouTubeURL.FindStringSubmatch(s); m != nil {
		return m[1], true
	}
	if regexYouTubeID.MatchString(s) {
		return s, true
	}
	return "", false
}

/*
 * Academic directives (:::name key="value" ... :::)
 */

func directiveRegex(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?m)^:::` + name + `(?:[ \t]+([^\n]*))?\n((?s:.*?))\n:::[ \t]*$`)
}

func theoremPattern() *Pattern {
	return &Pattern{
		Type:  "theorem",
		Regex: directiveRegex("theorem"),
		Extract: func(groups []string) (map[string]any, error) {
			return map[string]any{
				"title":   strings.TrimSpace(groups[1]),
				"content": strings.TrimSpace(groups[2]),
			}, nil
		},
		Validate: func(attrs map[string]any) Validation {
			if asString(attrs["content"]) == "" {
				return invalid("theorem has no content")
			}
			return Valid()
		},
	}
}

func aiGenerationPattern() *Pattern {
	return &Pattern{
		Type:  "aiGeneration",
		Regex: directiveRegex("ai"),
		Extract: func(groups []string) (map[string]any, error) {
			options := parseDirectiveOptions(groups[1])
			return map[string]any{
				"prompt":    strings.TrimSpace(groups[2]),
				"model":     options["model"],
				"timestamp": options["timestamp"],
			}, nil
		},
		Validate: func(attrs map[string]any) Validation {
			if asString(attrs["prompt"]) == "" {
				return invalid("AI generation block has no prompt")
			}
			return Valid()
		},
	}
}

func confusionMatrixPattern() *Pattern {
	return &Pattern{
		Type:  "confusionMatrix",
		Regex: directiveRegex("confusion-matrix"),
		Extract: func(groups []string) (map[string]any, error) {
			options := parseDirectiveOptions(groups[1])
			return map[string]any{
				"matrixData": strings.TrimSpace(groups[2]),
				"title":      options["title"],
				"source":     options["source"],
			}, nil
		},
		Validate: func(attrs map[string]any) Validation {
			if asString(attrs["matrixData"]) == "" {
				return invalid("confusion matrix has no data")
			}
			return Valid()
		},
	}
}

func pipelinePattern() *Pattern {
	return &Pattern{
		Type:  "pipeline",
		Regex: directiveRegex("pipeline"),
		Extract: func(groups []string) (map[string]any, error) {
			options := parseDirectiveOptions(groups[1])
			var body struct {
				Description string `json:"description"`
				Nodes       []any  `json:"nodes"`
				Edges       []any  `json:"edges"`
			}
			if err := json.Unmarshal([]byte(groups[2]), &body); err != nil {
				return nil, fmt.Errorf("malformed pipeline JSON: %w", err)
			}
			return map[string]any{
				"description": body.Description,
				"title":       options["title"],
				"nodes":       body.Nodes,
				"edges":       body.Edges,
			}, nil
		},
		Validate: func(attrs map[string]any) Validation {
			if asString(attrs["description"]) == "" {
				return invalid("pipeline has no description")
			}
			return Valid()
		},
	}
}

func drawioPattern() *Pattern {
	return &Pattern{
		Type:  "drawio",
		Regex: directiveRegex("drawio"),
		Extract: func(groups []string) (map[string]any, error) {
			options := parseDirectiveOptions(groups[1])
			width := directiveInt(options["width"], 800)
			height := directiveInt(options["height"], 600)
			return map[string]any{
				"diagramData": strings.TrimSpace(groups[2]),
				"width":       width,
				"height":      height,
			}, nil
		},
		Validate: func(attrs map[string]any) Validation {
			if asString(attrs["diagramData"]) == "" {
				return invalid("drawio block has no diagram data")
			}
			return Valid()
		},
	}
}

func directiveInt(value string, fallback int) int {
	if n, err := strconv.Atoi(value); err == nil {
		return n
	}
	return fallback
}

/*
 * Loose attribute casts
 */

func asString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func asInt(v any) int {
	if n, ok := v.(int); ok {
		return n
	}
	return 0
}
