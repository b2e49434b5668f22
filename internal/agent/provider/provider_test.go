package provider

import (
	"context"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/alpha-assistant/server/internal/agent/model"
)

func TestResolvePricing(t *testing.T) {
	p, ok := ResolvePricing("gemini-2.0-flash")
	require.True(t, ok)
	assert.Equal(t, 0.10, p.InputPerM)

	p, ok = ResolvePricing("models/gemini-2.0-flash-001")
	require.True(t, ok)
	assert.Equal(t, 0.40, p.OutputPerM)

	p, ok = ResolvePricing("some-other-model")
	assert.False(t, ok)
	assert.Equal(t, Pricing{}, p)
}

func TestComputeCost(t *testing.T) {
	usage := &schema.TokenUsage{PromptTokens: 1_000_000, CompletionTokens: 500_000, TotalTokens: 1_500_000}

	c := ComputeCost(usage, Pricing{InputPerM: 0.10, OutputPerM: 0.40})

	assert.InDelta(t, 0.10, c.Input, 1e-9)
	assert.InDelta(t, 0.20, c.Output, 1e-9)
	assert.InDelta(t, 0.30, c.Total, 1e-9)
	assert.Equal(t, Cost{}, ComputeCost(nil, Pricing{InputPerM: 1}))
}

func TestSafetySettingsBlockMediumAndAbove(t *testing.T) {
	settings := SafetySettings()

	require.Len(t, settings, 4)
	for _, s := range settings {
		assert.Equal(t, genai.HarmBlockThresholdBlockMediumAndAbove, s.Threshold)
	}
	assert.Equal(t, genai.HarmCategoryDangerousContent, settings[3].Category)
}

func TestChatModelConfigCarriesGenerationSettings(t *testing.T) {
	cfg := chatModelConfig(nil, model.ChatModelConfig{
		Model: "gemini-2.0-flash", MaxTokens: 1000, Temperature: 0.7, TopK: 40, TopP: 0.95,
	})

	assert.Equal(t, "gemini-2.0-flash", cfg.Model)
	assert.Equal(t, 1000, *cfg.MaxTokens)
	assert.Equal(t, float32(0.7), *cfg.Temperature)
	assert.Equal(t, int32(40), *cfg.TopK)
	assert.Equal(t, float32(0.95), *cfg.TopP)
	assert.Len(t, cfg.SafetySettings, 4)
}

func TestNewChatModelRequiresAPIKey(t *testing.T) {
	_, err := NewChatModel(context.Background(), Options{})
	assert.Error(t, err)
}
