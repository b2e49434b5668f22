// Package provider builds the Gemini chat model used by the conversation
// client and prices its token usage.
package provider

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	"google.golang.org/genai"

	"github.com/alpha-assistant/server/internal/agent/model"
	logx "github.com/alpha-assistant/server/pkg/logger"
)

// Options holds everything needed to reach the Gemini API.
type Options struct {
	APIKey  string
	BaseURL string
	Chat    model.ChatModelConfig
}

// SafetySettings blocks medium and above for every harm category the
// assistant guards against.
func SafetySettings() []*genai.SafetySetting {
	categories := []genai.HarmCategory{
		genai.HarmCategoryHarassment,
		genai.HarmCategoryHateSpeech,
		genai.HarmCategorySexuallyExplicit,
		genai.HarmCategoryDangerousContent,
	}
	settings := make([]*genai.SafetySetting, 0, len(categories))
	for _, c := range categories {
		settings = append(settings, &genai.SafetySetting{
			Category:  c,
			Threshold: genai.HarmBlockThresholdBlockMediumAndAbove,
		})
	}
	return settings
}

func chatModelConfig(client *genai.Client, cfg model.ChatModelConfig) *gemini.Config {
	return &gemini.Config{
		Client:         client,
		Model:          cfg.Model,
		Temperature:    &cfg.Temperature,
		MaxTokens:      &cfg.MaxTokens,
		TopP:           &cfg.TopP,
		TopK:           &cfg.TopK,
		SafetySettings: SafetySettings(),
	}
}

// NewChatModel creates the Gemini client and wraps it in the Eino chat model.
func NewChatModel(ctx context.Context, opts Options) (*gemini.ChatModel, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("gemini api key not configured")
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if opts.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = opts.BaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini client")
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}

	chatModel, err := gemini.NewChatModel(ctx, chatModelConfig(client, opts.Chat))
	if err != nil {
		logx.Error().Err(err).Str("model", opts.Chat.Model).Msg("Error creating chat model")
		return nil, fmt.Errorf("error creating chat model: %w", err)
	}

	logx.Debug().
		Str("model", opts.Chat.Model).
		Float32("temperature", opts.Chat.Temperature).
		Int("max_tokens", opts.Chat.MaxTokens).
		Msg("Gemini chat model ready")
	return chatModel, nil
}
