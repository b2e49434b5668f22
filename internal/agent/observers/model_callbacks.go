package observers

import (
	"context"
	"strings"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	callbackHelper "github.com/cloudwego/eino/utils/callbacks"

	"github.com/alpha-assistant/server/internal/agent/provider"
	logx "github.com/alpha-assistant/server/pkg/logger"
)

const previewRunes = 120

// newModelHandler logs provider calls and prices the token usage of each
// successful one.
func newModelHandler(modelName string) *callbackHelper.ModelCallbackHandler {
	return &callbackHelper.ModelCallbackHandler{
		OnStart: func(ctx context.Context, info *einocb.RunInfo, input *model.CallbackInput) context.Context {
			ev := logx.Debug().Str("component", info.Name).Str("type", info.Type)
			if input != nil {
				ev = ev.Int("messages", len(input.Messages)).
					Str("user", preview(lastUserContent(input.Messages)))
			}
			ev.Msg("chat model call started")
			return ctx
		},
		OnEnd: func(ctx context.Context, info *einocb.RunInfo, output *model.CallbackOutput) context.Context {
			if output == nil {
				return ctx
			}
			usage := usageOf(output)
			name := modelName
			if output.Config != nil && output.Config.Model != "" {
				name = output.Config.Model
			}
			ev := logx.Debug().Str("component", info.Name).Str("model", name)
			if output.Message != nil {
				ev = ev.Str("assistant", preview(output.Message.Content))
			}
			if usage != nil {
				pricing, _ := provider.ResolvePricing(name)
				cost := provider.ComputeCost(usage, pricing)
				ev = ev.Int("prompt_tokens", usage.PromptTokens).
					Int("completion_tokens", usage.CompletionTokens).
					Int("total_tokens", usage.TotalTokens).
					Float64("input_cost_usd", cost.Input).
					Float64("output_cost_usd", cost.Output).
					Float64("total_cost_usd", cost.Total)
			}
			ev.Msg("chat model call finished")
			return ctx
		},
		OnError: func(ctx context.Context, info *einocb.RunInfo, err error) context.Context {
			logx.Warn().Err(err).Str("component", info.Name).Str("model", modelName).Msg("chat model call failed")
			return ctx
		},
	}
}

func usageOf(output *model.CallbackOutput) *schema.TokenUsage {
	if output.Message != nil && output.Message.ResponseMeta != nil && output.Message.ResponseMeta.Usage != nil {
		return output.Message.ResponseMeta.Usage
	}
	if output.TokenUsage != nil {
		return &schema.TokenUsage{
			PromptTokens:     output.TokenUsage.PromptTokens,
			CompletionTokens: output.TokenUsage.CompletionTokens,
			TotalTokens:      output.TokenUsage.TotalTokens,
		}
	}
	return nil
}

func lastUserContent(msgs []*schema.Message) string {
	for i := len(msgs) - 1; i >= 0; i-- {
		m := msgs[i]
		if m == nil {
			continue
		}
		if m.Role == schema.User {
			return strings.TrimSpace(m.Content)
		}
	}
	return ""
}

func preview(s string) string {
	r := []rune(s)
	if len(r) <= previewRunes {
		return s
	}
	return string(r[:previewRunes]) + "..."
}
