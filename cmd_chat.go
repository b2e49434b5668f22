package main

import (
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	logx "github.com/alpha-assistant/server/pkg/logger"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive conversation",
	Long: `Start an interactive conversation with Alpha Assistant.

Requires GEMINI_API_KEY. When the chat session fails the assistant falls back
to single-shot calls, then to a simplified prompt; /reset starts over.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	cl, closeStore, err := newClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	logx.Debug().Str("session_id", cl.SessionID()).Str("store", cfg.Conversation.Store).Msg("chat session started")
	return runREPL(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), cl)
}
