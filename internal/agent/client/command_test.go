package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAnalyzeCommand(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want analyzeCommand
	}{
		{"plain", "/analyze hello world", analyzeCommand{Text: "hello world", Valid: true}},
		{"lang", "/analyze --lang es hola", analyzeCommand{Text: "hola", Language: "es", Valid: true}},
		{"lang upper", "/analyze --lang PT-BR olá", analyzeCommand{Text: "olá", Language: "pt-br", Valid: true}},
		{"multiline", "/analyze line one\nline two", analyzeCommand{Text: "line one\nline two", Valid: true}},
		{"leading space", "  /analyze text", analyzeCommand{Text: "text", Valid: true}},
		{"no body", "/analyze", analyzeCommand{}},
		{"flag only", "/analyze --lang fr", analyzeCommand{}},
		{"no separator", "/analyzetext", analyzeCommand{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseAnalyzeCommand(tt.in))
		})
	}
}

func TestIsAnalyzeCommand(t *testing.T) {
	assert.True(t, isAnalyzeCommand("/Analyze x"))
	assert.True(t, isAnalyzeCommand(" /analyze"))
	assert.True(t, isAnalyzeCommand("/analyze\ttabbed"))
	assert.False(t, isAnalyzeCommand("please /analyze this"))
	assert.False(t, isAnalyzeCommand("/analyzer foo"))
	assert.False(t, isAnalyzeCommand("/analyzefoo"))
}
