package analysis

import (
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"

	"github.com/alpha-assistant/server/internal/settings"
)

type FormatOptions struct {
	// Emphasis underlines every bold term for readers who skim.
	Emphasis bool
}

// Format renders a result as a chat reply. Sections always appear in the same
// order and are left out when the worker returned nothing for them.
func Format(r *Result, opts FormatOptions) string {
	if r == nil {
		return ""
	}
	if r.Error {
		return fmt.Sprintf("Error processing text: %s", r.Message)
	}

	var b strings.Builder
	b.WriteString("# 📝 Text Analysis Results\n\n")

	if summary := summaryText(r.Summary); summary != "" {
		b.WriteString("## Summary\n")
		b.WriteString(summary)
		b.WriteString("\n\n")
	}

	if len(r.Keywords) > 0 {
		b.WriteString("## Key Terms\n")
		b.WriteString(boldList(r.Keywords))
		b.WriteString("\n\n")
	}

	if s := r.Sentiment; s != nil && s.Label != "" && s.Label != "N/A" {
		b.WriteString("## Sentiment Analysis\n")
		fmt.Fprintf(&b, "**%s** (%.1f%%)\n\n", s.Label, s.Score*100)
	}

	if len(r.Definitions) > 0 {
		b.WriteString("## Definitions\n")
		for _, word := range definitionOrder(r.Definitions, r.Keywords) {
			fmt.Fprintf(&b, "- **%s**: %s\n", word, r.Definitions[word])
		}
		b.WriteString("\n")
	}

	if len(r.Entities) > 0 {
		b.WriteString("## Named Entities\n")
		for _, e := range r.Entities {
			fmt.Fprintf(&b, "- **%s** (%s)\n", e.Word, e.EntityGroup)
		}
		b.WriteString("\n")
	}

	if t := r.Translated; t != nil && t.Language != "" && !strings.EqualFold(t.Language, settings.DefaultLanguage) {
		name, ok := settings.LanguageName(t.Language)
		if !ok {
			name = strings.ToUpper(t.Language)
		}
		fmt.Fprintf(&b, "## %s Translation\n", name)
		b.WriteString(t.Summary)
		b.WriteString("\n\n")
		if len(t.Keywords) > 0 {
			fmt.Fprintf(&b, "### Key Terms in %s\n", name)
			b.WriteString(boldList(t.Keywords))
			b.WriteString("\n\n")
		}
	}

	out := strings.TrimRight(b.String(), "\n") + "\n"
	if opts.Emphasis {
		out = Emphasize(out)
	}
	return out
}

var boldTerm = regexp.MustCompile(`\*\*([^*\n]+)\*\*`)

// Emphasize adds underline markup inside every bold term. Text outside bold
// terms is left untouched.
func Emphasize(text string) string {
	return boldTerm.ReplaceAllString(text, "**<u>$1</u>**")
}

func summaryText(s *Summary) string {
	if s == nil {
		return ""
	}
	if s.Highlighted != "" {
		return s.Highlighted
	}
	return s.Text
}

func boldList(terms []string) string {
	parts := make([]string, len(terms))
	for i, t := range terms {
		parts[i] = "**" + t + "**"
	}
	return strings.Join(parts, ", ")
}

// definitionOrder lists defined words in keyword order, then any others alphabetically.
func definitionOrder(defs map[string]string, keywords []string) []string {
	order := make([]string, 0, len(defs))
	seen := make(map[string]bool, len(defs))
	for _, kw := range keywords {
		if _, ok := defs[kw]; ok && !seen[kw] {
			order = append(order, kw)
			seen[kw] = true
		}
	}
	for _, word := range slices.Sorted(maps.Keys(defs)) {
		if !seen[word] {
			order = append(order, word)
		}
	}
	return order
}
