package provider

import (
	"strings"

	"github.com/cloudwego/eino/schema"
)

// Pricing defines USD cost per 1M tokens for input/output.
type Pricing struct {
	InputPerM  float64
	OutputPerM float64
}

// Cost is the USD cost of a single provider call.
type Cost struct {
	Input  float64
	Output float64
	Total  float64
}

// Gemini list prices, standard tier, text tokens.
var defaultPricing = map[string]Pricing{
	"gemini-2.0-flash":      {InputPerM: 0.10, OutputPerM: 0.40},
	"gemini-2.0-flash-lite": {InputPerM: 0.075, OutputPerM: 0.30},
	"gemini-2.5-flash":      {InputPerM: 0.30, OutputPerM: 2.50},
	"gemini-2.5-flash-lite": {InputPerM: 0.10, OutputPerM: 0.40},
}

// ResolvePricing returns the pricing for a model. Versioned names such as
// "gemini-2.0-flash-001" resolve to their base model; unknown models cost zero.
func ResolvePricing(model string) (Pricing, bool) {
	name := strings.ToLower(strings.TrimSpace(model))
	name = strings.TrimPrefix(name, "models/")
	if p, ok := defaultPricing[name]; ok {
		return p, true
	}
	if i := strings.LastIndex(name, "-"); i > 0 {
		if p, ok := defaultPricing[name[:i]]; ok {
			return p, true
		}
	}
	return Pricing{}, false
}

// ComputeCost converts token usage to USD cost using per-1M Pricing.
func ComputeCost(usage *schema.TokenUsage, p Pricing) Cost {
	if usage == nil {
		return Cost{}
	}
	c := Cost{
		Input:  p.InputPerM * float64(usage.PromptTokens) / 1_000_000.0,
		Output: p.OutputPerM * float64(usage.CompletionTokens) / 1_000_000.0,
	}
	c.Total = c.Input + c.Output
	return c
}
