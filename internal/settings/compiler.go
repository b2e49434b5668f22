// Package settings turns the user's feature toggles into an instruction block
// the chat model can follow.
package settings

import (
	"fmt"
	"strings"
)

// Header opens every compiled instruction, even when no directive follows.
const Header = "Please adjust your responses based on the following preferences:\n"

// Compile renders one directive per enabled toggle, always in the same order
// with translation last. Unknown translation codes are printed unresolved.
func Compile(t FeatureToggles) string {
	var b strings.Builder
	b.WriteString(Header)

	if t.Summarization {
		b.WriteString("- Include summarization of complex topics.\n")
	}
	if t.SentimentAnalysis {
		b.WriteString("- Analyze sentiment when appropriate.\n")
	}
	if t.Keywords {
		b.WriteString("- Highlight key terms and important concepts.\n")
	}
	if t.Definitions {
		b.WriteString("- Provide definitions for technical or complex terms.\n")
	}
	if t.Translation {
		name, ok := LanguageName(t.Language)
		if !ok {
			name = t.Language
		}
		fmt.Fprintf(&b, "- Translate important information to %s when helpful.\n", name)
	}

	return b.String()
}

// Empty reports whether a compiled instruction carries no directives, in which
// case there is nothing to inject.
func Empty(instruction string) bool {
	return strings.TrimSpace(instruction) == strings.TrimSpace(Header)
}
