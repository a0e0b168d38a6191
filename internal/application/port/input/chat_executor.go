package input

import "context"

// TurnResult is the outcome of one full conversation turn, including any
// tool round that ran before the final answer.
type TurnResult struct {
	Answer       string
	Reasoning    string
	ToolsRun     int
	InputTokens  int
	OutputTokens int
}

// ChatExecutor drives one conversation with the drawing assistant.
// ExecuteTurn streams answer fragments to onDelta as they arrive and
// returns the assembled result once the turn is complete.
type ChatExecutor interface {
	ExecuteTurn(ctx context.Context, text string, onDelta func(string)) (*TurnResult, error)
	Reset()
}
