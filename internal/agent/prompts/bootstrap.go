package prompts

import (
	_ "embed"
	"strings"

	"github.com/alpha-assistant/server/internal/agent/model"
)

//go:embed template/bootstrap_user.txt
var bootstrapUser string

//go:embed template/bootstrap_model.txt
var bootstrapModel string

// BootstrapTurns is the greeting exchange every fresh session starts with.
// It sets the assistant persona and teaches the /analyze syntax.
func BootstrapTurns() []model.Turn {
	return []model.Turn{
		model.UserTurn(strings.TrimSpace(bootstrapUser)),
		model.ModelTurn(strings.TrimSpace(bootstrapModel)),
	}
}
