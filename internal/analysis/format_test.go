package analysis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func fullResult() *Result {
	return &Result{
		Summary:     &Summary{Text: "Acme opened a plant.", Highlighted: "**Acme** opened a **plant**."},
		Keywords:    []string{"plant", "acme"},
		Definitions: map[string]string{"zeal": "eagerness", "acme": "the highest point", "plant": "a factory"},
		Entities:    []Entity{{Word: "Acme", EntityGroup: "ORG"}},
		Sentiment:   &Sentiment{Label: "POSITIVE", Score: 0.9871},
		Translated: &Translation{
			Language: "fr",
			Summary:  "Acme a ouvert une usine.",
			Keywords: []string{"usine", "acme"},
		},
	}
}

func TestFormatFullResult(t *testing.T) {
	got := Format(fullResult(), FormatOptions{})

	want := strings.Join([]string{
		"# 📝 Text Analysis Results",
		"",
		"## Summary",
		"**Acme** opened a **plant**.",
		"",
		"## Key Terms",
		"**plant**, **acme**",
		"",
		"## Sentiment Analysis",
		"**POSITIVE** (98.7%)",
		"",
		"## Definitions",
		"- **plant**: a factory",
		"- **acme**: the highest point",
		"- **zeal**: eagerness",
		"",
		"## Named Entities",
		"- **Acme** (ORG)",
		"",
		"## French Translation",
		"Acme a ouvert une usine.",
		"",
		"### Key Terms in French",
		"**usine**, **acme**",
		"",
	}, "\n")
	assert.Equal(t, want, got)
}

func TestFormatOmitsAbsentSections(t *testing.T) {
	got := Format(&Result{
		Summary:    &Summary{Text: "Plain summary."},
		Sentiment:  &Sentiment{Label: "N/A"},
		Translated: &Translation{Language: "en", Summary: "Plain summary."},
	}, FormatOptions{})

	assert.Equal(t, "# 📝 Text Analysis Results\n\n## Summary\nPlain summary.\n", got)
}

func TestFormatUnknownLanguageIsUpperCased(t *testing.T) {
	got := Format(&Result{Translated: &Translation{Language: "sw", Summary: "Habari"}}, FormatOptions{})

	assert.Contains(t, got, "## SW Translation\nHabari\n")
	assert.NotContains(t, got, "### Key Terms in")
}

func TestFormatWorkerError(t *testing.T) {
	got := Format(&Result{Error: true, Message: "model missing"}, FormatOptions{})

	assert.Equal(t, "Error processing text: model missing", got)
}

func TestFormatEmphasisKeepsStructure(t *testing.T) {
	plain := Format(fullResult(), FormatOptions{})
	emphasized := Format(fullResult(), FormatOptions{Emphasis: true})

	assert.Contains(t, emphasized, "**<u>POSITIVE</u>** (98.7%)")
	assert.Contains(t, emphasized, "- **<u>plant</u>**: a factory")
	assert.Equal(t, plain, strings.ReplaceAll(strings.ReplaceAll(emphasized, "<u>", ""), "</u>", ""))
}

func TestFormatNil(t *testing.T) {
	assert.Equal(t, "", Format(nil, FormatOptions{}))
}
