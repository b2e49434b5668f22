package client

import (
	"regexp"
	"strings"
	"unicode"
)

// UsageHint is returned instead of an error for malformed analysis commands.
const UsageHint = "To analyze text, use the format: `/analyze [text]` or `/analyze --lang [language_code] [text]`"

const analyzePrefix = "/analyze"

var analyzePattern = regexp.MustCompile(`(?is)^/analyze(?:\s+--lang\s+([a-z-]+))?\s+(.+)$`)

type analyzeCommand struct {
	Text     string
	Language string
	// Valid is false when the command should be answered with UsageHint.
	Valid bool
}

// isAnalyzeCommand reports whether message is routed to the analysis worker
// instead of the chat model. The command must stand alone or be followed by
// whitespace, so "/analyzer" stays a chat message.
func isAnalyzeCommand(message string) bool {
	m := strings.ToLower(strings.TrimSpace(message))
	if !strings.HasPrefix(m, analyzePrefix) {
		return false
	}
	rest := m[len(analyzePrefix):]
	return rest == "" || unicode.IsSpace(rune(rest[0]))
}

func parseAnalyzeCommand(message string) analyzeCommand {
	m := analyzePattern.FindStringSubmatch(strings.TrimSpace(message))
	if m == nil {
		return analyzeCommand{}
	}
	text := strings.TrimSpace(m[2])
	// "/analyze --lang fr" with no body would otherwise analyze "--lang fr".
	if m[1] == "" && strings.HasPrefix(strings.ToLower(text), "--lang") {
		return analyzeCommand{}
	}
	if text == "" {
		return analyzeCommand{}
	}
	return analyzeCommand{Text: text, Language: strings.ToLower(m[1]), Valid: true}
}
