package analysis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	logx "github.com/alpha-assistant/server/pkg/logger"
	"golang.org/x/sync/errgroup"
)

const (
	defaultMaxOutputBytes = 4 << 20
	// waitDelay bounds how long Wait keeps draining pipes after the worker was killed.
	waitDelay = 2 * time.Second
)

// Outcome is what a worker left behind once it terminated.
type Outcome struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// Transport delivers one encoded request to a worker and returns its outcome.
// A non-zero exit is reported through Outcome, not as an error; errors are
// reserved for workers that never started or were killed.
type Transport interface {
	Exchange(ctx context.Context, frame []byte) (*Outcome, error)
}

// ProcessTransport spawns a fresh process for every exchange.
type ProcessTransport struct {
	Command string
	Args    []string
	Dir     string
	// Env is appended to the parent environment.
	Env            []string
	MaxOutputBytes int64
}

var _ Transport = (*ProcessTransport)(nil)

func (p *ProcessTransport) Exchange(ctx context.Context, frame []byte) (*Outcome, error) {
	cmd := exec.CommandContext(ctx, p.Command, p.Args...)
	cmd.Dir = p.Dir
	if len(p.Env) > 0 {
		cmd.Env = append(os.Environ(), p.Env...)
	}
	cmd.WaitDelay = waitDelay
	configureProcess(cmd)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, spawnFailed(p.Command, err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, spawnFailed(p.Command, err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, spawnFailed(p.Command, err)
	}

	started := time.Now()
	if err := cmd.Start(); err != nil {
		logx.Error().Err(err).Str("command", p.Command).Msg("failed to start analysis worker")
		return nil, spawnFailed(p.Command, err)
	}
	pid := cmd.Process.Pid
	logx.Debug().Int("pid", pid).Str("command", p.Command).Int("frame_bytes", len(frame)).Msg("analysis worker started")

	maxOut := p.MaxOutputBytes
	if maxOut <= 0 {
		maxOut = defaultMaxOutputBytes
	}
	outBuf := newTailBuffer(maxOut)
	errBuf := newTailBuffer(maxOut)

	var g errgroup.Group
	g.Go(func() error {
		defer stdin.Close()
		if _, err := stdin.Write(frame); err != nil {
			// The worker may exit before reading its input; its exit status tells the story.
			logx.Debug().Err(err).Int("pid", pid).Msg("writing worker input failed")
		}
		return nil
	})
	g.Go(func() error {
		if _, err := io.Copy(outBuf, stdout); err != nil {
			return fmt.Errorf("read worker stdout: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if _, err := io.Copy(errBuf, stderr); err != nil {
			return fmt.Errorf("read worker stderr: %w", err)
		}
		return nil
	})
	pumpErr := g.Wait()
	waitErr := cmd.Wait()

	outcome := &Outcome{
		ExitCode: cmd.ProcessState.ExitCode(),
		Stdout:   outBuf.Bytes(),
		Stderr:   errBuf.Bytes(),
	}

	event := logx.Debug().
		Int("pid", pid).
		Int("exit_code", outcome.ExitCode).
		Int("stdout_bytes", len(outcome.Stdout)).
		Int("stderr_bytes", len(outcome.Stderr)).
		Dur("duration", time.Since(started))
	if outBuf.truncated || errBuf.truncated {
		event.Bool("truncated", true)
	}
	event.Msg("analysis worker finished")

	if ctxErr := ctx.Err(); ctxErr != nil {
		logx.Warn().Err(ctxErr).Int("pid", pid).Msg("analysis worker killed")
		return nil, workerFailed(-1, string(outcome.Stderr), ctxErr)
	}

	var exitErr *exec.ExitError
	if waitErr != nil && !errors.As(waitErr, &exitErr) {
		return nil, workerFailed(outcome.ExitCode, string(outcome.Stderr), waitErr)
	}
	if pumpErr != nil {
		return nil, workerFailed(outcome.ExitCode, string(outcome.Stderr), pumpErr)
	}
	return outcome, nil
}

// tailBuffer keeps the last max bytes written and drops older ones. The
// payload is the last thing a worker prints, so diagnostics are what gets lost
// when a chatty worker overruns the cap.
type tailBuffer struct {
	buf       []byte
	max       int
	truncated bool
}

func newTailBuffer(max int64) *tailBuffer {
	return &tailBuffer{max: int(max)}
}

func (tb *tailBuffer) Write(p []byte) (int, error) {
	n := len(p)
	if n >= tb.max {
		tb.truncated = tb.truncated || n > tb.max || len(tb.buf) > 0
		tb.buf = append(tb.buf[:0], p[n-tb.max:]...)
		return n, nil
	}
	tb.buf = append(tb.buf, p...)
	// compact once the buffer holds twice the cap so appends stay amortized O(1)
	if len(tb.buf) > 2*tb.max {
		tb.truncated = true
		tb.buf = append(tb.buf[:0], tb.buf[len(tb.buf)-tb.max:]...)
	}
	return n, nil
}

func (tb *tailBuffer) Bytes() []byte {
	if len(tb.buf) > tb.max {
		tb.truncated = true
		return tb.buf[len(tb.buf)-tb.max:]
	}
	return tb.buf
}
