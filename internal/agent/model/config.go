package model

import "time"

// ================ Config ================
type ChatModelConfig struct {
	Model       string  `envconfig:"GEMINI_MODEL" default:"gemini-2.0-flash"`
	MaxTokens   int     `envconfig:"GEMINI_MAX_TOKENS" default:"1000"`
	Temperature float32 `envconfig:"GEMINI_TEMPERATURE" default:"0.7"`
	TopK        int32   `envconfig:"GEMINI_TOP_K" default:"40"`
	TopP        float32 `envconfig:"GEMINI_TOP_P" default:"0.95"`
}

type ConversationConfig struct {
	// Store selects the turn repository: memory or redis.
	Store             string        `envconfig:"CONVERSATION_STORE" default:"memory"`
	TTL               time.Duration `envconfig:"CONVERSATION_TTL" default:"15m"`
	ProviderTimeout   time.Duration `envconfig:"PROVIDER_TIMEOUT" default:"30s"`
	DegradedPrefixLen int           `envconfig:"DEGRADED_PREFIX_LEN" default:"100"`
	Emphasis          bool          `envconfig:"EMPHASIS_MODE" default:"false"`
}

type WorkerConfig struct {
	Command        string        `envconfig:"WORKER_COMMAND" default:"python3"`
	Args           []string      `envconfig:"WORKER_ARGS" default:"-u,backend/textProcessingScript.py"`
	Dir            string        `envconfig:"WORKER_DIR"`
	Timeout        time.Duration `envconfig:"WORKER_TIMEOUT" default:"2m"`
	MaxOutputBytes int64         `envconfig:"WORKER_MAX_OUTPUT_BYTES" default:"4194304"`
	// Env holds extra KEY=VALUE pairs for the worker, comma separated.
	Env []string `envconfig:"WORKER_ENV"`
}
