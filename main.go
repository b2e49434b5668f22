package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/cobra"

	"github.com/alpha-assistant/server/internal/agent/model"
	"github.com/alpha-assistant/server/internal/core"
	logx "github.com/alpha-assistant/server/pkg/logger"
	pkgredis "github.com/alpha-assistant/server/pkg/redis"
)

// AppConfig defines all configurable parameters of the assistant, sourced
// from environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment core.Environment `envconfig:"APP_ENV" default:"development"`
	LogLevel    string           `envconfig:"LOG_LEVEL"`

	// Infrastructure
	Redis pkgredis.Config

	// LLM provider, only needed for chat
	APIKey  string `envconfig:"GEMINI_API_KEY"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`

	Chat         model.ChatModelConfig
	Conversation model.ConversationConfig
	Worker       model.WorkerConfig
}

var (
	envFile string
	cfg     AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "alpha",
	Short: "Alpha Assistant: chat with Gemini and analyze text",
	Long: `Alpha Assistant talks to a Gemini chat model and runs structured text
analysis (summary, sentiment, key terms, definitions, translation) in a
separate worker process.

Inside a chat, type /analyze [text] or /analyze --lang [code] [text].`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := loadConfig(envFile)
		if err != nil {
			return err
		}
		cfg = loaded
		logx.Init(logx.LoggerOpts{Environment: cfg.Environment, Level: cfg.LogLevel})
		return nil
	},
}

// loadConfig reads the optional .env file and then the process environment.
func loadConfig(path string) (AppConfig, error) {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: could not load %s: %v\n", path, err)
	}
	var c AppConfig
	if err := envconfig.Process("", &c); err != nil {
		return AppConfig{}, fmt.Errorf("process environment config: %w", err)
	}
	return c, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(analyzeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
