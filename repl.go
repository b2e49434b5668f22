package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/alpha-assistant/server/internal/agent/model"
	errx "github.com/alpha-assistant/server/internal/core/error"
	"github.com/alpha-assistant/server/internal/settings"
)

// conversation is the part of *client.Client the REPL drives.
type conversation interface {
	Send(ctx context.Context, message string) (string, error)
	Reset(ctx context.Context) error
	Mode() model.Mode
	History(ctx context.Context) ([]model.Turn, error)
	Settings() settings.FeatureToggles
	UpdateSettings(t settings.FeatureToggles)
	Emphasis() bool
	SetEmphasis(on bool)
}

const replHelp = `Commands:
  /analyze [--lang code] text   analyze text with the worker
  /set <toggle> on|off          toggle summarization, sentiment, keywords, definitions, translation
  /lang <code>                  translation language (e.g. es, fr, ja)
  /settings                     show current settings
  /emphasis                     toggle underlined key terms in analysis output
  /mode                         show the conversation mode
  /history                      show the conversation history
  /reset                        start a new conversation
  /quit                         exit`

// runREPL reads one message per line until EOF, /quit or ctx is done.
func runREPL(ctx context.Context, in io.Reader, out io.Writer, conv conversation) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	fmt.Fprintln(out, "Alpha Assistant ready. Type /help for commands.")
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		quit, err := handleLine(ctx, out, conv, line)
		if err != nil {
			return err
		}
		if quit || ctx.Err() != nil {
			return nil
		}
	}
}

func handleLine(ctx context.Context, out io.Writer, conv conversation, line string) (bool, error) {
	fields := strings.Fields(line)
	switch strings.ToLower(fields[0]) {
	case "/quit", "/exit":
		return true, nil
	case "/help":
		fmt.Fprintln(out, replHelp)
	case "/mode":
		fmt.Fprintf(out, "Mode: %s\n", conv.Mode())
	case "/reset":
		if err := conv.Reset(ctx); err != nil {
			fmt.Fprintf(out, "Could not reset conversation: %s\n", errx.SafeMessage(err))
			break
		}
		fmt.Fprintln(out, "Conversation reset.")
	case "/history":
		turns, err := conv.History(ctx)
		if err != nil {
			fmt.Fprintf(out, "Could not load history: %s\n", errx.SafeMessage(err))
			break
		}
		for i, t := range turns {
			fmt.Fprintf(out, "%02d %-5s: %s\n", i, t.Role, t.Text)
		}
	case "/emphasis":
		on := !conv.Emphasis()
		conv.SetEmphasis(on)
		fmt.Fprintf(out, "Emphasis mode %s.\n", onOff(on))
	case "/settings":
		printSettings(out, conv.Settings())
	case "/set":
		if len(fields) != 3 || (fields[2] != "on" && fields[2] != "off") {
			fmt.Fprintln(out, "Usage: /set <toggle> on|off")
			break
		}
		t := conv.Settings()
		if !t.Set(fields[1], fields[2] == "on") {
			fmt.Fprintf(out, "Unknown toggle %q.\n", fields[1])
			break
		}
		conv.UpdateSettings(t)
		fmt.Fprintf(out, "%s %s.\n", fields[1], fields[2])
	case "/lang":
		if len(fields) != 2 {
			fmt.Fprintln(out, "Usage: /lang <code>")
			break
		}
		t := conv.Settings()
		t.Language = strings.ToLower(fields[1])
		conv.UpdateSettings(t)
		name, ok := settings.LanguageName(t.Language)
		if !ok {
			name = t.Language
		}
		fmt.Fprintf(out, "Translation language set to %s.\n", name)
	default:
		reply, err := conv.Send(ctx, line)
		if err != nil {
			fmt.Fprintln(out, errx.SafeMessage(err))
			break
		}
		fmt.Fprintln(out, reply)
	}
	return false, nil
}

func printSettings(out io.Writer, t settings.FeatureToggles) {
	fmt.Fprintf(out, "summarization: %s\n", onOff(t.Summarization))
	fmt.Fprintf(out, "sentiment:     %s\n", onOff(t.SentimentAnalysis))
	fmt.Fprintf(out, "keywords:      %s\n", onOff(t.Keywords))
	fmt.Fprintf(out, "definitions:   %s\n", onOff(t.Definitions))
	fmt.Fprintf(out, "translation:   %s (%s)\n", onOff(t.Translation), t.Language)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
