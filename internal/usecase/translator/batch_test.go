package translator

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cad-agent/internal/application/port/input"
	"cad-agent/internal/application/port/output"
	"cad-agent/internal/domain/entity"
	"cad-agent/internal/infrastructure/glossary"
	"cad-agent/internal/infrastructure/logger"
)

// fakeLLM translates by mapping or uppercasing, with optional per-item
// latency and failures.
type fakeLLM struct {
	mu       sync.Mutex
	delays   map[string]time.Duration
	failFor  map[string]bool
	inFlight atomic.Int32
	maxSeen  atomic.Int32
	requests []output.TranslateRequest
}

func (f *fakeLLM) ChatStream(ctx context.Context, req output.ChatRequest, handlers output.StreamHandlers) (*entity.CallResult, error) {
	return nil, fmt.Errorf("not implemented")
}

func (f *fakeLLM) Translate(ctx context.Context, req output.TranslateRequest) (string, error) {
	current := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		seen := f.maxSeen.Load()
		if current <= seen || f.maxSeen.CompareAndSwap(seen, current) {
			break
		}
	}

	f.mu.Lock()
	f.requests = append(f.requests, req)
	delay := f.delays[req.Text]
	fail := f.failFor[req.Text]
	f.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if fail {
		return "", fmt.Errorf("simulated translation failure")
	}
	return strings.ToUpper(req.Text), nil
}

func newBatch(llm output.LLMPort, cfg Config) *Batch {
	return New(llm, glossary.NewStore(), logger.NewNop(), cfg)
}

func TestTranslateAllPreservesOrderDespiteCompletionOrder(t *testing.T) {
	// The first item is the slowest; results must still come back in
	// submission order.
	llm := &fakeLLM{delays: map[string]time.Duration{
		"alpha": 80 * time.Millisecond,
		"beta":  40 * time.Millisecond,
		"gamma": 0,
	}}
	batch := newBatch(llm, Config{})

	results := batch.TranslateAll(context.Background(), []string{"alpha", "beta", "gamma"}, input.TranslateOptions{}, nil)
	assert.Equal(t, []string{"ALPHA", "BETA", "GAMMA"}, results)
}

func TestTranslateAllFailureKeepsOriginal(t *testing.T) {
	llm := &fakeLLM{failFor: map[string]bool{"beta": true}}
	batch := newBatch(llm, Config{})

	results := batch.TranslateAll(context.Background(), []string{"alpha", "beta", "gamma"}, input.TranslateOptions{}, nil)
	assert.Equal(t, []string{"ALPHA", "beta", "GAMMA"}, results)
}

func TestTranslateAllReportsProgressPerCompletion(t *testing.T) {
	llm := &fakeLLM{}
	batch := newBatch(llm, Config{})

	var mu sync.Mutex
	var seen []int
	items := []string{"a", "b", "c", "d"}
	batch.TranslateAll(context.Background(), items, input.TranslateOptions{}, func(done, total int) {
		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, len(items), total)
		seen = append(seen, done)
	})

	require.Len(t, seen, len(items))
	assert.ElementsMatch(t, []int{1, 2, 3, 4}, seen)
}

func TestTranslateAllRespectsConcurrencyCap(t *testing.T) {
	llm := &fakeLLM{delays: map[string]time.Duration{}}
	items := make([]string, 20)
	for i := range items {
		items[i] = fmt.Sprintf("item-%02d", i)
		llm.delays[items[i]] = 10 * time.Millisecond
	}

	batch := newBatch(llm, Config{Concurrency: 3})
	batch.TranslateAll(context.Background(), items, input.TranslateOptions{}, nil)

	assert.LessOrEqual(t, llm.maxSeen.Load(), int32(3))
}

func TestTranslateAllSplitsOversizedItems(t *testing.T) {
	llm := &fakeLLM{}
	batch := newBatch(llm, Config{MaxItemRunes: 40})

	long := strings.Repeat("note one. ", 4) + "\n\n" + strings.Repeat("note two. ", 4)
	results := batch.TranslateAll(context.Background(), []string{long}, input.TranslateOptions{}, nil)

	require.Len(t, results, 1)
	assert.Contains(t, results[0], "NOTE ONE.")
	assert.Contains(t, results[0], "NOTE TWO.")

	llm.mu.Lock()
	defer llm.mu.Unlock()
	assert.Greater(t, len(llm.requests), 1, "oversized item should be translated in segments")
	assert.Equal(t, len(llm.requests)-1, strings.Count(results[0], "\n"),
		"segments should be rejoined with a single newline boundary")
}

func TestTranslateAllAttachesGlossary(t *testing.T) {
	store := glossary.NewStore()
	llm := &fakeLLM{}
	batch := New(llm, store, logger.NewNop(), Config{})

	batch.TranslateAll(context.Background(), []string{"阀门"}, input.TranslateOptions{
		SourceLang: "zh",
		TargetLang: "en",
		Domain:     "piping",
	}, nil)

	llm.mu.Lock()
	defer llm.mu.Unlock()
	require.Len(t, llm.requests, 1)
	assert.Equal(t, "zh", llm.requests[0].SourceLang)
	assert.Equal(t, "en", llm.requests[0].TargetLang)
	assert.Equal(t, "piping", llm.requests[0].Domain)
}

func TestTranslateAllEmptyInput(t *testing.T) {
	batch := newBatch(&fakeLLM{}, Config{})
	results := batch.TranslateAll(context.Background(), nil, input.TranslateOptions{}, nil)
	assert.Empty(t, results)
}
