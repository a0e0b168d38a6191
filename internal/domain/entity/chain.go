package entity

import "fmt"

// MessageChain is the ordered conversation history for a single
// conversation. It holds user/assistant/tool turns; the system prompt is
// chosen per turn and prepended when the outbound message list is built.
// A chain is owned by exactly one orchestrator and is not shared across
// concurrent operations.
type MessageChain struct {
	messages []Message
}

func NewMessageChain() *MessageChain {
	return &MessageChain{}
}

func (c *MessageChain) Append(msg Message) {
	for i := range msg.ToolCalls {
		msg.ToolCalls[i].Normalize()
	}
	c.messages = append(c.messages, msg)
}

func (c *MessageChain) Len() int {
	return len(c.messages)
}

func (c *MessageChain) Reset() {
	c.messages = nil
}

// Messages returns a copy of the chain's turns.
func (c *MessageChain) Messages() []Message {
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// ValidationError reports the first message that breaks the tool-call
// correlation rule: every tool message must reference a tool call carried
// by the nearest preceding assistant message.
type ValidationError struct {
	Index  int
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid message at index %d: %s", e.Index, e.Reason)
}

// ValidateMessages checks the tool-call correlation rule over an outbound
// message list. It never repairs; a failure here is a programming or data
// error and the list must not be sent.
func ValidateMessages(msgs []Message) *ValidationError {
	var lastAssistant *Message
	for i := range msgs {
		msg := &msgs[i]
		switch msg.Role {
		case RoleAssistant:
			lastAssistant = msg
		case RoleTool:
			if lastAssistant == nil || len(lastAssistant.ToolCalls) == 0 {
				return &ValidationError{
					Index:  i,
					Reason: "tool message without a preceding assistant message carrying tool calls",
				}
			}
			if !hasToolCallID(lastAssistant.ToolCalls, msg.ToolCallID) {
				return &ValidationError{
					Index:  i,
					Reason: fmt.Sprintf("tool_call_id %q not found in preceding assistant tool calls", msg.ToolCallID),
				}
			}
		}
	}
	return nil
}

func (c *MessageChain) Validate() *ValidationError {
	return ValidateMessages(c.messages)
}

func hasToolCallID(calls []ToolCall, id string) bool {
	for _, tc := range calls {
		if tc.ID == id {
			return true
		}
	}
	return false
}

// EstimateTokens approximates the token cost of a message with a cheap
// length heuristic (~4 bytes per token plus a small per-message overhead).
// Exact tokenization is deliberately not attempted; trimming only needs a
// stable, conservative estimate.
func EstimateTokens(msg Message) int {
	chars := len(msg.Content) + len(msg.Name)
	for _, tc := range msg.ToolCalls {
		chars += len(tc.Name) + len(tc.Arguments)
	}
	return chars/4 + 4
}

// Trim builds the outbound message list for one model call: the system
// prompt followed by the newest chain turns that fit the token budget.
// Oldest turns are dropped first. An assistant message carrying tool calls
// and its contiguous tool-result successors form one group that is kept or
// dropped atomically, so the trimmed list always validates.
func (c *MessageChain) Trim(budget int, system Message) []Message {
	groups := groupTurns(c.messages)

	remaining := budget - EstimateTokens(system)
	keepFrom := len(groups)
	for i := len(groups) - 1; i >= 0; i-- {
		cost := 0
		for _, msg := range groups[i] {
			cost += EstimateTokens(msg)
		}
		if remaining-cost < 0 && keepFrom < len(groups) {
			break
		}
		remaining -= cost
		keepFrom = i
	}

	out := []Message{system}
	for _, group := range groups[keepFrom:] {
		out = append(out, group...)
	}
	return out
}

// groupTurns splits the chain into atomic units: each message is its own
// group except an assistant message with tool calls, which absorbs the
// tool messages that follow it.
func groupTurns(msgs []Message) [][]Message {
	var groups [][]Message
	for i := 0; i < len(msgs); i++ {
		group := []Message{msgs[i]}
		if msgs[i].Role == RoleAssistant && len(msgs[i].ToolCalls) > 0 {
			for i+1 < len(msgs) && msgs[i+1].Role == RoleTool {
				i++
				group = append(group, msgs[i])
			}
		}
		groups = append(groups, group)
	}
	return groups
}

// DroppedMessage records one message removed during lenient history
// reconstruction.
type DroppedMessage struct {
	Index   int
	Reason  string
	Message Message
}

// RepairHistory rebuilds a chain from externally supplied history, which
// may have been reordered or corrupted outside this process. Unlike
// ValidateMessages it repairs instead of rejecting: orphaned tool messages
// are dropped (with a reason the caller is expected to log), while system,
// user and assistant messages are always kept.
func RepairHistory(msgs []Message) ([]Message, []DroppedMessage) {
	kept := make([]Message, 0, len(msgs))
	var dropped []DroppedMessage
	var lastAssistant *Message

	for i := range msgs {
		msg := msgs[i]
		for j := range msg.ToolCalls {
			msg.ToolCalls[j].Normalize()
		}

		if msg.Role != RoleTool {
			kept = append(kept, msg)
			if msg.Role == RoleAssistant {
				lastAssistant = &kept[len(kept)-1]
			}
			continue
		}

		if lastAssistant == nil || len(lastAssistant.ToolCalls) == 0 {
			dropped = append(dropped, DroppedMessage{
				Index:   i,
				Reason:  "orphaned tool message: no preceding assistant message with tool calls",
				Message: msg,
			})
			continue
		}
		if !hasToolCallID(lastAssistant.ToolCalls, msg.ToolCallID) {
			dropped = append(dropped, DroppedMessage{
				Index:   i,
				Reason:  fmt.Sprintf("orphaned tool message: tool_call_id %q has no matching tool call", msg.ToolCallID),
				Message: msg,
			})
			continue
		}
		kept = append(kept, msg)
	}
	return kept, dropped
}

// NewMessageChainFromHistory wraps RepairHistory into a ready chain.
func NewMessageChainFromHistory(msgs []Message) (*MessageChain, []DroppedMessage) {
	kept, dropped := RepairHistory(msgs)
	return &MessageChain{messages: kept}, dropped
}
