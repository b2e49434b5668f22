package analysis

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

const (
	StartMarker = "JSON_OUTPUT_START"
	EndMarker   = "JSON_OUTPUT_END"
)

// Framer encodes a request into the bytes written to a worker and recovers the
// structured payload from what the worker wrote back.
type Framer interface {
	Encode(req Request) ([]byte, error)
	Extract(stdout []byte) ([]byte, error)
}

// SentinelFramer is the line protocol: text, language and settings JSON on
// three lines in, payload between StartMarker and EndMarker out.
type SentinelFramer struct{}

var _ Framer = SentinelFramer{}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

func (SentinelFramer) Encode(req Request) ([]byte, error) {
	settingsJSON := []byte("{}")
	if req.Settings != nil {
		b, err := json.Marshal(req.Settings)
		if err != nil {
			return nil, fmt.Errorf("marshal settings: %w", err)
		}
		settingsJSON = b
	}

	var buf bytes.Buffer
	buf.WriteString(lineBreaks.Replace(req.Text))
	buf.WriteByte('\n')
	buf.WriteString(req.TargetLanguage)
	buf.WriteByte('\n')
	buf.Write(settingsJSON)
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// Extract uses the last occurrence of each marker so diagnostics printed
// before the payload cannot confuse it.
func (SentinelFramer) Extract(stdout []byte) ([]byte, error) {
	start := bytes.LastIndex(stdout, []byte(StartMarker))
	end := bytes.LastIndex(stdout, []byte(EndMarker))
	if start < 0 || end < 0 {
		return nil, malformedOutput("output markers not found")
	}
	payloadStart := start + len(StartMarker)
	if end < payloadStart {
		return nil, malformedOutput("end marker precedes start marker")
	}
	return bytes.TrimSpace(stdout[payloadStart:end]), nil
}
