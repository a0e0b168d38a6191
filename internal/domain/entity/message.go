package entity

import "encoding/json"

type MessageRole string

const (
	RoleSystem    MessageRole = "system"
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleTool      MessageRole = "tool"
)

// emptyArguments is the canonical encoding for a tool call without
// arguments. Downstream decoders always receive a valid JSON object,
// never an empty string.
const emptyArguments = "{}"

type Message struct {
	Role             MessageRole `json:"role"`
	Content          string      `json:"content"`
	ReasoningContent string      `json:"reasoning_content,omitempty"`
	ToolCalls        []ToolCall  `json:"tool_calls,omitempty"`
	ToolCallID       string      `json:"tool_call_id,omitempty"`
	Name             string      `json:"name,omitempty"`
}

type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// NewToolCall builds a tool call with normalized arguments.
func NewToolCall(id, name, arguments string) ToolCall {
	tc := ToolCall{ID: id, Name: name, Arguments: arguments}
	tc.Normalize()
	return tc
}

// Normalize replaces a missing or null argument blob with the
// empty-object encoding.
func (tc *ToolCall) Normalize() {
	if tc.Arguments == "" || tc.Arguments == "null" {
		tc.Arguments = emptyArguments
	}
}

// ArgumentMap decodes the argument blob into a generic key/value map.
func (tc ToolCall) ArgumentMap() (map[string]any, error) {
	blob := tc.Arguments
	if blob == "" {
		blob = emptyArguments
	}
	args := map[string]any{}
	if err := json.Unmarshal([]byte(blob), &args); err != nil {
		return nil, err
	}
	return args, nil
}

type ToolName string

type ToolDefinition struct {
	Name        ToolName
	Description string
	Parameters  any
}

// CallResult is the assembled outcome of one model call.
type CallResult struct {
	Content          string
	ReasoningContent string
	ToolCalls        []ToolCall
	InputTokens      int
	OutputTokens     int
}

// AssistantMessage converts a call result into the conversation turn
// that must be recorded for it, tool calls included.
func (r *CallResult) AssistantMessage() Message {
	return Message{
		Role:             RoleAssistant,
		Content:          r.Content,
		ReasoningContent: r.ReasoningContent,
		ToolCalls:        r.ToolCalls,
	}
}

// HasToolCalls reports whether the model requested tool execution.
func (r *CallResult) HasToolCalls() bool {
	return len(r.ToolCalls) > 0
}
