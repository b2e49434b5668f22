package model

import (
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
)

func TestModeNextNeverGoesBack(t *testing.T) {
	assert.Equal(t, Stateless, Stateful.Next())
	assert.Equal(t, Degraded, Stateless.Next())
	assert.Equal(t, Degraded, Degraded.Next())
	assert.Equal(t, "degraded", Degraded.String())
	assert.Equal(t, "unknown", Mode(9).String())
}

func TestMessagesPreservesOrderAndRoles(t *testing.T) {
	msgs := Messages([]Turn{UserTurn("hi"), ModelTurn("hello"), UserTurn("bye")})

	assert.Len(t, msgs, 3)
	assert.Equal(t, schema.User, msgs[0].Role)
	assert.Equal(t, schema.Assistant, msgs[1].Role)
	assert.Equal(t, "hello", msgs[1].Content)
	assert.Equal(t, "bye", msgs[2].Content)
}
