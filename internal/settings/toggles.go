package settings

import "strings"

// DefaultLanguage is used whenever no target language is supplied.
const DefaultLanguage = "en"

// FeatureToggles are the user-facing analysis preferences. The JSON shape is
// what the analysis worker reads from the third input line.
type FeatureToggles struct {
	Summarization     bool   `json:"summarization"`
	SentimentAnalysis bool   `json:"sentimentAnalysis"`
	Keywords          bool   `json:"keywords"`
	Definitions       bool   `json:"definitions"`
	Translation       bool   `json:"translation"`
	Language          string `json:"language,omitempty"`
}

// Defaults mirrors the chat front-end's initial toggle state.
func Defaults() FeatureToggles {
	return FeatureToggles{
		Summarization:     true,
		SentimentAnalysis: true,
		Keywords:          true,
		Definitions:       true,
		Translation:       false,
		Language:          "es",
	}
}

// TargetLanguage is the language analysis results should be translated to
// when no explicit language was requested.
func (t FeatureToggles) TargetLanguage() string {
	if !t.Translation {
		return DefaultLanguage
	}
	if lang := strings.TrimSpace(t.Language); lang != "" {
		return lang
	}
	return DefaultLanguage
}

// Set flips a toggle by its JSON or display name. It reports false for unknown names.
func (t *FeatureToggles) Set(name string, on bool) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "summarization", "summary":
		t.Summarization = on
	case "sentimentanalysis", "sentiment":
		t.SentimentAnalysis = on
	case "keywords":
		t.Keywords = on
	case "definitions":
		t.Definitions = on
	case "translation":
		t.Translation = on
	default:
		return false
	}
	return true
}
