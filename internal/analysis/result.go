package analysis

// Result is the structured payload a worker emits between the output markers.
type Result struct {
	Original    *OriginalText     `json:"original,omitempty"`
	Summary     *Summary          `json:"summary,omitempty"`
	Keywords    []string          `json:"keywords,omitempty"`
	Definitions map[string]string `json:"definitions,omitempty"`
	Entities    []Entity          `json:"entities,omitempty"`
	Sentiment   *Sentiment        `json:"sentiment,omitempty"`
	Translated  *Translation      `json:"translated,omitempty"`

	// Set by the worker when its own pipeline failed but it still exited cleanly.
	Error     bool   `json:"error,omitempty"`
	Message   string `json:"message,omitempty"`
	Traceback string `json:"traceback,omitempty"`
}

type OriginalText struct {
	Text      string `json:"text"`
	WordCount int    `json:"word_count"`
}

type Summary struct {
	Text        string `json:"text"`
	WordCount   int    `json:"word_count"`
	Highlighted string `json:"highlighted,omitempty"`
}

type Entity struct {
	Word        string `json:"word"`
	EntityGroup string `json:"entity_group"`
}

type Sentiment struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Translation mirrors the summary, keywords and definitions in the target language.
type Translation struct {
	Language    string            `json:"language"`
	Summary     string            `json:"summary,omitempty"`
	Keywords    []string          `json:"keywords,omitempty"`
	Definitions map[string]string `json:"definitions,omitempty"`
}
