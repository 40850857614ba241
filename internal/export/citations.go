package export

import (
	"fmt"
	"strings"

	"github.com/notamd/nota/pkg/htmltree"
)

// renderCitations numbers every citation span by order of first appearance
// in the page and fills the bibliography section accordingly. A repeated key
// keeps its first number. When the page cites nothing, the bibliography
// placeholder is removed entirely.
func (e *Exporter) renderCitations(tree *htmltree.Node, records []CitationRecord) {
	numbers := make(map[string]int)
	var order []string

	for _, span := range tree.FindAll(func(n *htmltree.Node) bool {
		return n.HasClass("citation")
	}) {
		key := span.Attr("data-key")
		number, seen := numbers[key]
		if !seen {
			order = append(order, key)
			number = len(order)
			numbers[key] = number
		}
		span.Children = nil
		span.AppendChild(htmltree.NewText(fmt.Sprintf("[%d]", number)))
	}

	byKey := make(map[string]CitationRecord, len(records))
	for _, record := range records {
		byKey[record.Key] = record
	}

	for _, section := range tree.FindAll(func(n *htmltree.Node) bool {
		return n.HasClass("bibliography")
	}) {
		if len(order) == 0 {
			section.Remove()
			continue
		}
		for i, key := range order {
			entry := htmltree.NewElement("p", "class", "bibliography-entry")
			entry.AppendChild(htmltree.NewText(formatBibliographyEntry(i+1, key, byKey)))
			section.AppendChild(entry)
		}
	}
}

// formatBibliographyEntry renders one reference line:
//
//	[1] Doe & Smith (2020). A Title. A Journal, 12, 34-56.
//
// Missing fields are omitted; an unknown key degrades to the key itself.
func formatBibliographyEntry(number int, key string, byKey map[string]CitationRecord) string {
	record, found := byKey[key]
	if !found {
		return fmt.Sprintf("[%d] %s.", number, key)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "[%d]", number)
	authors := joinAuthors(record.Authors)
	if authors != "" {
		sb.WriteString(" " + authors)
	}
	if record.Year > 0 {
		fmt.Fprintf(&sb, " (%d)", record.Year)
	}
	// The period terminates the author/year group; without either there is
	// no group to terminate.
	if authors != "" || record.Year > 0 {
		sb.WriteString(".")
	}
	if record.Title != "" {
		sb.WriteString(" " + record.Title + ".")
	}
	var publication []string
	for _, part := range []string{record.Journal, record.Volume, record.Pages} {
		if part != "" {
			publication = append(publication, part)
		}
	}
	if len(publication) > 0 {
		sb.WriteString(" " + strings.Join(publication, ", ") + ".")
	}
	return sb.String()
}

// joinAuthors renders an author list: "A", "A & B", "A, B & C".
func joinAuthors(authors []string) string {
	switch len(authors) {
	case 0:
		return ""
	case 1:
		return authors[0]
	default:
		return strings.Join(authors[:len(authors)-1], ", ") + " & " + authors[len(authors)-1]
	}
}
