package prompts

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

// DegradedNote is appended to replies produced from a truncated prompt.
const DegradedNote = "(Note: I had to simplify your message due to API limitations.)"

const degradedTemplate = "Please respond to: {message}"

// Truncate keeps the first n runes of message and marks the cut with "...".
// Messages that already fit are returned unchanged.
func Truncate(message string, n int) string {
	r := []rune(message)
	if n <= 0 || len(r) <= n {
		return message
	}
	return string(r[:n]) + "..."
}

// RenderDegraded renders the simplified prompt sent once the provider has
// failed both with and without history.
func RenderDegraded(ctx context.Context, message string, prefixLen int) (string, error) {
	tpl := prompt.FromMessages(
		schema.FString,
		schema.UserMessage(degradedTemplate),
	)
	msgs, err := tpl.Format(ctx, map[string]any{
		"message": Truncate(message, prefixLen),
	})
	if err != nil {
		return "", fmt.Errorf("degraded prompt render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("degraded prompt render: empty result")
	}
	return msgs[0].Content, nil
}

// AnnotateDegraded attaches the disclosure note to a degraded reply.
func AnnotateDegraded(reply string) string {
	return reply + "\n\n" + DegradedNote
}
