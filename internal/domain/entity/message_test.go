package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeEmptyArguments(t *testing.T) {
	cases := map[string]string{
		"":                  "{}",
		"null":              "{}",
		"{}":                "{}",
		`{"layer":"NOTES"}`: `{"layer":"NOTES"}`,
	}
	for raw, want := range cases {
		tc := NewToolCall("call_1", "query_drawing", raw)
		assert.Equal(t, want, tc.Arguments, "raw %q", raw)
	}
}

func TestArgumentMap(t *testing.T) {
	tc := NewToolCall("call_1", "modify_entity", `{"handle":"1A3","content":"DN50"}`)
	args, err := tc.ArgumentMap()
	require.NoError(t, err)
	assert.Equal(t, "1A3", args["handle"])
	assert.Equal(t, "DN50", args["content"])
}

func TestArgumentMapEmptyCall(t *testing.T) {
	tc := ToolCall{ID: "call_1", Name: "recognize_frames"}
	args, err := tc.ArgumentMap()
	require.NoError(t, err)
	assert.Empty(t, args)
}

func TestArgumentMapRejectsNonObject(t *testing.T) {
	tc := NewToolCall("call_1", "query_drawing", `[1,2]`)
	_, err := tc.ArgumentMap()
	assert.Error(t, err)
}

func TestAssistantMessageCarriesToolCalls(t *testing.T) {
	result := CallResult{
		Content:          "checking the drawing",
		ReasoningContent: "the user wants a count",
		ToolCalls:        []ToolCall{NewToolCall("call_1", "query_drawing", "{}")},
	}

	msg := result.AssistantMessage()
	assert.Equal(t, RoleAssistant, msg.Role)
	assert.Equal(t, "checking the drawing", msg.Content)
	assert.Equal(t, "the user wants a count", msg.ReasoningContent)
	require.Len(t, msg.ToolCalls, 1)
	assert.True(t, result.HasToolCalls())
}
