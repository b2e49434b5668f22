package analysis

import (
	"errors"
	"fmt"
	"net/http"

	errx "github.com/alpha-assistant/server/internal/core/error"
)

const analysisFailedMessage = "Error analyzing text"

// ExitError carries the worker's exit status and verbatim stderr.
// Code is -1 when the worker was killed (timeout or cancellation); Cause then
// holds the context error.
type ExitError struct {
	Code   int
	Stderr string
	Cause  error
}

func (e *ExitError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("worker terminated (%v): %s", e.Cause, e.Stderr)
	}
	return fmt.Sprintf("worker exited with code %d: %s", e.Code, e.Stderr)
}

func (e *ExitError) Unwrap() error {
	return e.Cause
}

// PayloadError is returned when the text between the markers is not valid JSON.
type PayloadError struct {
	Raw string
	Err error
}

func (e *PayloadError) Error() string {
	return fmt.Sprintf("parse worker payload: %v", e.Err)
}

func (e *PayloadError) Unwrap() error {
	return e.Err
}

func spawnFailed(command string, err error) error {
	return errx.New(errx.KindSpawnFailed, fmt.Errorf("start %q: %w", command, err),
		http.StatusInternalServerError, analysisFailedMessage+": worker could not be started")
}

func workerFailed(code int, stderr string, cause error) error {
	return errx.New(errx.KindWorkerFailed, &ExitError{Code: code, Stderr: stderr, Cause: cause},
		http.StatusBadGateway, analysisFailedMessage+": worker failed")
}

func malformedOutput(reason string) error {
	return errx.New(errx.KindMalformedOutput, errors.New(reason),
		http.StatusBadGateway, analysisFailedMessage+": could not find valid JSON output in worker result")
}

func unparsableResult(raw []byte, err error) error {
	return errx.New(errx.KindUnparsableResult, &PayloadError{Raw: string(raw), Err: err},
		http.StatusBadGateway, analysisFailedMessage+": failed to parse worker output")
}
