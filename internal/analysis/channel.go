// Package analysis hands text-analysis jobs to an isolated worker process and
// turns what the worker prints into a structured Result.
package analysis

import (
	"context"
	"encoding/json"
	"time"

	logx "github.com/alpha-assistant/server/pkg/logger"
)

// Channel runs one analysis per call. It never retries; that is the caller's decision.
type Channel struct {
	transport Transport
	framer    Framer
	timeout   time.Duration
}

type ChannelOption func(*Channel)

// WithFramer swaps the wire framing, e.g. for a length-prefixed protocol.
func WithFramer(f Framer) ChannelOption {
	return func(c *Channel) {
		c.framer = f
	}
}

// WithTimeout bounds every run; zero disables the bound.
func WithTimeout(d time.Duration) ChannelOption {
	return func(c *Channel) {
		c.timeout = d
	}
}

func NewChannel(transport Transport, opts ...ChannelOption) *Channel {
	c := &Channel{
		transport: transport,
		framer:    SentinelFramer{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run sends req to a new worker and parses its payload.
func (c *Channel) Run(ctx context.Context, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	frame, err := c.framer.Encode(req)
	if err != nil {
		return nil, err
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	outcome, err := c.transport.Exchange(ctx, frame)
	if err != nil {
		return nil, err
	}

	if outcome.ExitCode != 0 {
		logx.Warn().
			Int("exit_code", outcome.ExitCode).
			Str("stderr", string(outcome.Stderr)).
			Msg("analysis worker exited with failure")
		return nil, workerFailed(outcome.ExitCode, string(outcome.Stderr), nil)
	}

	raw, err := c.framer.Extract(outcome.Stdout)
	if err != nil {
		logx.Warn().Err(err).Int("stdout_bytes", len(outcome.Stdout)).Msg("analysis worker output has no payload")
		return nil, err
	}

	var result Result
	if err := json.Unmarshal(raw, &result); err != nil {
		logx.Warn().Err(err).Int("payload_bytes", len(raw)).Msg("analysis worker payload is not valid JSON")
		return nil, unparsableResult(raw, err)
	}

	if result.Error {
		logx.Warn().Str("message", result.Message).Msg("analysis worker reported an internal error")
	}
	return &result, nil
}
