package main

import (
	"context"
	"fmt"
	"strings"

	einocb "github.com/cloudwego/eino/callbacks"

	"github.com/alpha-assistant/server/internal/agent/client"
	"github.com/alpha-assistant/server/internal/agent/model"
	"github.com/alpha-assistant/server/internal/agent/observers"
	"github.com/alpha-assistant/server/internal/agent/provider"
	"github.com/alpha-assistant/server/internal/agent/repo"
	"github.com/alpha-assistant/server/internal/analysis"
	"github.com/alpha-assistant/server/internal/settings"
	logx "github.com/alpha-assistant/server/pkg/logger"
)

func newAnalyzer(c AppConfig) *analysis.Channel {
	return analysis.NewChannel(newWorkerTransport(c), analysis.WithTimeout(c.Worker.Timeout))
}

func newWorkerTransport(c AppConfig) *analysis.ProcessTransport {
	return &analysis.ProcessTransport{
		Command:        c.Worker.Command,
		Args:           c.Worker.Args,
		Dir:            c.Worker.Dir,
		Env:            c.Worker.Env,
		MaxOutputBytes: c.Worker.MaxOutputBytes,
	}
}

// newRepository picks the turn store. The returned close func is never nil.
func newRepository(ctx context.Context, c AppConfig) (model.ConversationRepository, func(), error) {
	switch strings.ToLower(c.Conversation.Store) {
	case "", "memory":
		return repo.NewMemoryTurnRepository(c.Conversation.TTL), func() {}, nil
	case "redis":
		rdb, err := c.Redis.New(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("initialise redis client: %w", err)
		}
		logx.Info().Msg("Connected to Redis successfully")
		return repo.NewRedisTurnRepository(rdb, c.Conversation.TTL), func() { _ = rdb.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown CONVERSATION_STORE %q (want memory or redis)", c.Conversation.Store)
	}
}

func newClient(ctx context.Context, c AppConfig) (*client.Client, func(), error) {
	chatModel, err := provider.NewChatModel(ctx, provider.Options{
		APIKey:  c.APIKey,
		BaseURL: c.BaseURL,
		Chat:    c.Chat,
	})
	if err != nil {
		return nil, nil, err
	}

	store, closeStore, err := newRepository(ctx, c)
	if err != nil {
		return nil, nil, err
	}

	cl, err := client.New(ctx, chatModel, newAnalyzer(c), store, client.Options{
		ProviderTimeout:   c.Conversation.ProviderTimeout,
		DegradedPrefixLen: c.Conversation.DegradedPrefixLen,
		Emphasis:          c.Conversation.Emphasis,
		Settings:          settings.Defaults(),
		Callbacks:         []einocb.Handler{observers.NewAllCallbacks(c.Chat.Model)},
	})
	if err != nil {
		closeStore()
		return nil, nil, err
	}
	return cl, closeStore, nil
}
