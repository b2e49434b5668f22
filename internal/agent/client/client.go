// Package client is the entry point of a conversation. It routes analysis
// commands to the worker channel and chat messages to the chat model,
// falling back from Stateful to Stateless to Degraded calls when the
// provider fails.
package client

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components"
	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/alpha-assistant/server/internal/agent/model"
	"github.com/alpha-assistant/server/internal/agent/prompts"
	"github.com/alpha-assistant/server/internal/agent/session"
	"github.com/alpha-assistant/server/internal/analysis"
	errx "github.com/alpha-assistant/server/internal/core/error"
	"github.com/alpha-assistant/server/internal/settings"
	logx "github.com/alpha-assistant/server/pkg/logger"
)

const (
	defaultPrefixLen = 100
	// one attempt per mode
	maxAttempts = 3
)

// Analyzer runs a single analysis request. *analysis.Channel satisfies it.
type Analyzer interface {
	Run(ctx context.Context, req analysis.Request) (*analysis.Result, error)
}

// Options tunes a Client. The zero value is usable.
type Options struct {
	// ProviderTimeout bounds each chat model call; zero means no bound.
	ProviderTimeout time.Duration
	// DegradedPrefixLen is how many runes survive truncation in Degraded mode.
	DegradedPrefixLen int
	Emphasis          bool
	Settings          settings.FeatureToggles
	// Callbacks are attached to every chat model call.
	Callbacks []callbacks.Handler
}

// Client routes user messages to the chat model or the analysis worker and
// owns the conversation session.
type Client struct {
	// mu serializes chat turns, resets and history writes. The analysis
	// worker runs without it.
	mu       sync.Mutex
	session  *session.Session
	chat     einomodel.BaseChatModel
	analyzer Analyzer

	timeout   time.Duration
	prefixLen int
	handlers  []callbacks.Handler

	prefMu   sync.RWMutex
	settings settings.FeatureToggles
	emphasis bool
}

// New creates a client that owns a fresh session stored in repo.
func New(ctx context.Context, chat einomodel.BaseChatModel, analyzer Analyzer, repo model.ConversationRepository, opts Options) (*Client, error) {
	if chat == nil {
		return nil, errors.New("client: chat model is required")
	}
	if analyzer == nil {
		return nil, errors.New("client: analyzer is required")
	}
	s, err := session.New(ctx, repo)
	if err != nil {
		return nil, fmt.Errorf("client: create session: %w", err)
	}
	prefixLen := opts.DegradedPrefixLen
	if prefixLen <= 0 {
		prefixLen = defaultPrefixLen
	}
	return &Client{
		session:   s,
		chat:      chat,
		analyzer:  analyzer,
		timeout:   opts.ProviderTimeout,
		prefixLen: prefixLen,
		handlers:  opts.Callbacks,
		settings:  opts.Settings,
		emphasis:  opts.Emphasis,
	}, nil
}

// Send handles one user message and returns the text to show.
func (c *Client) Send(ctx context.Context, message string) (string, error) {
	if isAnalyzeCommand(message) {
		return c.analyze(ctx, message, parseAnalyzeCommand(message))
	}
	if strings.TrimSpace(message) == "" {
		return "", errx.Newf(errx.KindInvalidInput, nil, "message is required")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.restore(ctx)
	c.injectSettings(ctx)
	return c.converse(ctx, message)
}

// restore reseeds a conversation the store expired while the client was idle.
// A failing store is left to the cascade.
func (c *Client) restore(ctx context.Context) {
	if _, err := c.session.Restore(ctx); err != nil {
		logx.Warn().Err(err).Str("session_id", c.session.ID()).Msg("could not check conversation history")
	}
}

func (c *Client) analyze(ctx context.Context, message string, cmd analyzeCommand) (string, error) {
	if !cmd.Valid {
		return UsageHint, nil
	}
	toggles := c.Settings()
	lang := cmd.Language
	if lang == "" {
		lang = toggles.TargetLanguage()
	}
	req, err := analysis.NewRequest(cmd.Text, lang, &toggles)
	if err != nil {
		return "", err
	}

	logx.Debug().
		Str("session_id", c.session.ID()).
		Str("language", req.TargetLanguage).
		Int("text_runes", len([]rune(req.Text))).
		Msg("running text analysis")

	res, err := c.analyzer.Run(ctx, req)
	if err != nil {
		logx.Error().Err(err).Str("session_id", c.session.ID()).Str("kind", string(errx.KindOf(err))).Msg("text analysis failed")
		return "", err
	}
	formatted := analysis.Format(res, analysis.FormatOptions{Emphasis: c.Emphasis()})
	c.recordAnalysis(ctx, message, formatted)
	return formatted, nil
}

// recordAnalysis adds the command and its rendered result to history so later
// chat turns can refer to it. The worker runs without the lock; only the
// append is serialized with chat turns. Outside Stateful nothing is recorded.
func (c *Client) recordAnalysis(ctx context.Context, message, formatted string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session.Mode() != model.Stateful {
		return
	}
	c.restore(ctx)
	if err := c.session.Record(ctx, strings.TrimSpace(message), formatted); err != nil {
		logx.Error().Err(err).Str("session_id", c.session.ID()).Msg("failed to record analysis exchange")
	}
}

// converse runs the fallback cascade starting at the session's current mode.
func (c *Client) converse(ctx context.Context, message string) (string, error) {
	var first error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		mode := c.session.Mode()
		reply, err := c.attempt(ctx, mode, message)
		if err == nil {
			return reply, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("chat aborted: %w", ctxErr)
		}
		if first == nil {
			first = err
		}
		logx.Warn().
			Err(err).
			Str("session_id", c.session.ID()).
			Stringer("mode", mode).
			Int("attempt", attempt).
			Msg("chat attempt failed")
		if mode == model.Degraded {
			break
		}
		c.session.Downgrade()
	}
	return "", errx.Newf(errx.KindProviderUnavailable, first, errx.ProviderUnavailableMessage)
}

func (c *Client) attempt(ctx context.Context, mode model.Mode, message string) (string, error) {
	switch mode {
	case model.Stateful:
		msgs, err := c.session.Context(ctx, message)
		if err != nil {
			return "", errx.Newf(errx.KindProviderCallFailed, err, "load conversation history")
		}
		reply, err := c.generate(ctx, msgs)
		if err != nil {
			return "", err
		}
		if err := c.session.Record(ctx, message, reply); err != nil {
			logx.Error().Err(err).Str("session_id", c.session.ID()).Msg("failed to record chat exchange")
		}
		return reply, nil
	case model.Stateless:
		return c.generate(ctx, []*schema.Message{schema.UserMessage(message)})
	default:
		simplified, err := prompts.RenderDegraded(c.withCallbacks(ctx, "DegradedPrompt", components.ComponentOfPrompt), message, c.prefixLen)
		if err != nil {
			return "", errx.Newf(errx.KindProviderCallFailed, err, "render degraded prompt")
		}
		reply, err := c.generate(ctx, []*schema.Message{schema.UserMessage(simplified)})
		if err != nil {
			return "", err
		}
		return prompts.AnnotateDegraded(reply), nil
	}
}

// injectSettings records the compiled settings instruction in history when
// it changed since the last injection. Only Stateful sessions are injected.
func (c *Client) injectSettings(ctx context.Context) {
	instruction := settings.Compile(c.Settings())
	if settings.Empty(instruction) || c.session.Mode() != model.Stateful || instruction == c.session.Injected() {
		return
	}
	if err := c.inject(ctx, instruction); err != nil {
		logx.Warn().Err(err).Str("session_id", c.session.ID()).Msg("settings injection failed, continuing without history")
		c.session.Escalate(model.Stateless)
	}
}

// inject sends the instruction as a silent exchange whose reply is kept in
// history but never shown.
func (c *Client) inject(ctx context.Context, instruction string) error {
	msgs, err := c.session.Context(ctx, instruction)
	if err == nil {
		var reply string
		if reply, err = c.generate(ctx, msgs); err == nil {
			err = c.session.Record(ctx, instruction, reply)
		}
	}
	if err != nil {
		return errx.Newf(errx.KindInjectionFailed, err, "could not apply settings")
	}
	c.session.MarkInjected(instruction)
	return nil
}

func (c *Client) withCallbacks(ctx context.Context, name string, component components.Component) context.Context {
	if len(c.handlers) == 0 {
		return ctx
	}
	return callbacks.InitCallbacks(ctx, &callbacks.RunInfo{
		Name:      name,
		Type:      "Gemini",
		Component: component,
	}, c.handlers...)
}

func (c *Client) generate(ctx context.Context, msgs []*schema.Message) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	out, err := c.chat.Generate(c.withCallbacks(ctx, "AlphaAssistant", components.ComponentOfChatModel), msgs)
	if err != nil {
		return "", errx.Newf(errx.KindProviderCallFailed, err, "chat model call failed")
	}
	if out == nil || strings.TrimSpace(out.Content) == "" {
		return "", errx.Newf(errx.KindProviderCallFailed, errors.New("empty response"), "chat model call failed")
	}
	return out.Content, nil
}

// Reset starts the conversation over and returns to Stateful mode.
func (c *Client) Reset(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.Reset(ctx)
}

// UpdateSettings replaces the toggles used for injection and analysis. The
// new instruction is injected on the next chat turn.
func (c *Client) UpdateSettings(t settings.FeatureToggles) {
	c.prefMu.Lock()
	defer c.prefMu.Unlock()
	c.settings = t
}

// Settings returns the current feature toggles.
func (c *Client) Settings() settings.FeatureToggles {
	c.prefMu.RLock()
	defer c.prefMu.RUnlock()
	return c.settings
}

// SetEmphasis turns emphasis markers in analysis output on or off.
func (c *Client) SetEmphasis(on bool) {
	c.prefMu.Lock()
	defer c.prefMu.Unlock()
	c.emphasis = on
}

// Emphasis reports whether analysis output carries emphasis markers.
func (c *Client) Emphasis() bool {
	c.prefMu.RLock()
	defer c.prefMu.RUnlock()
	return c.emphasis
}

// Mode is the session's current operating mode.
func (c *Client) Mode() model.Mode {
	return c.session.Mode()
}

// History returns the stored turns, bootstrap turns included.
func (c *Client) History(ctx context.Context) ([]model.Turn, error) {
	return c.session.History(ctx)
}

// SessionID identifies the conversation in the store and in logs.
func (c *Client) SessionID() string {
	return c.session.ID()
}
