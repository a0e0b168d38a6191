package llm

import "sync"

// TokenLedger accumulates token usage across every model call made by
// this process. Safe for concurrent use.
type TokenLedger struct {
	mu           sync.Mutex
	inputTokens  int
	outputTokens int
	calls        int
}

func NewTokenLedger() *TokenLedger {
	return &TokenLedger{}
}

func (l *TokenLedger) Add(inputTokens, outputTokens int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.inputTokens += inputTokens
	l.outputTokens += outputTokens
	l.calls++
}

func (l *TokenLedger) Totals() (inputTokens, outputTokens, calls int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.inputTokens, l.outputTokens, l.calls
}

func (l *TokenLedger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.inputTokens = 0
	l.outputTokens = 0
	l.calls = 0
}
