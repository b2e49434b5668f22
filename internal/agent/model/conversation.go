package model

import (
	"context"

	"github.com/cloudwego/eino/schema"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Turn is one message of the conversation. Turns are values and never change
// once appended.
type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

func UserTurn(text string) Turn {
	return Turn{Role: RoleUser, Text: text}
}

func ModelTurn(text string) Turn {
	return Turn{Role: RoleModel, Text: text}
}

// Message converts the turn to the chat model's message type.
func (t Turn) Message() *schema.Message {
	if t.Role == RoleModel {
		return schema.AssistantMessage(t.Text, nil)
	}
	return schema.UserMessage(t.Text)
}

// Messages converts a history to chat model input, preserving order.
func Messages(turns []Turn) []*schema.Message {
	msgs := make([]*schema.Message, 0, len(turns))
	for _, t := range turns {
		msgs = append(msgs, t.Message())
	}
	return msgs
}

type ConversationRepository interface {
	// AppendTurns appends turns to the end of the conversation, in order
	AppendTurns(ctx context.Context, conversationID string, turns ...Turn) error

	// LoadHistory retrieves the ordered turns of a conversation
	LoadHistory(ctx context.Context, conversationID string) (*ConversationHistory, error)

	// ClearHistory removes all turns of a conversation
	ClearHistory(ctx context.Context, conversationID string) error

	// GetTurnCount returns the number of turns in the conversation
	GetTurnCount(ctx context.Context, conversationID string) (int, error)
}

// ConversationHistory represents loaded conversation data with metadata.
type ConversationHistory struct {
	ConversationID string
	Turns          []Turn
}
