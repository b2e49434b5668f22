package analysis

import (
	"net/http"
	"regexp"
	"strings"

	errx "github.com/alpha-assistant/server/internal/core/error"
	"github.com/alpha-assistant/server/internal/settings"
)

var languageCodePattern = regexp.MustCompile(`^[A-Za-z-]{1,16}$`)

// Request is a single analysis job. Build it with NewRequest.
type Request struct {
	Text           string
	TargetLanguage string
	// Settings is nil when the caller supplied none; the worker then uses its defaults.
	Settings *settings.FeatureToggles
}

// NewRequest trims the input, defaults the language and copies the toggles so
// later changes by the caller do not leak into a running job.
func NewRequest(text, targetLanguage string, toggles *settings.FeatureToggles) (Request, error) {
	req := Request{
		Text:           strings.TrimSpace(text),
		TargetLanguage: strings.TrimSpace(targetLanguage),
	}
	if req.TargetLanguage == "" {
		req.TargetLanguage = settings.DefaultLanguage
	}
	if toggles != nil {
		copied := *toggles
		req.Settings = &copied
	}
	if err := req.Validate(); err != nil {
		return Request{}, err
	}
	return req, nil
}

// Validate enforces the invariants the worker protocol relies on.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return errx.New(errx.KindInvalidInput, nil, http.StatusBadRequest, "text to analyze is required")
	}
	if !languageCodePattern.MatchString(r.TargetLanguage) {
		return errx.New(errx.KindInvalidInput, nil, http.StatusBadRequest, "invalid target language code: "+r.TargetLanguage)
	}
	return nil
}
