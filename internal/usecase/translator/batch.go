package translator

import (
	"context"
	"strings"
	"sync"

	"github.com/tmc/langchaingo/textsplitter"

	"cad-agent/internal/application/port/input"
	"cad-agent/internal/application/port/output"
	"cad-agent/internal/infrastructure/glossary"
)

var _ input.BatchTranslator = (*Batch)(nil)

const (
	defaultConcurrency        = 10
	defaultSegmentConcurrency = 5
	defaultMaxItemRunes       = 1500
	segmentOverlapRunes       = 0
)

// Batch translates drawing texts concurrently. Items run under a bounded
// semaphore and results come back in submission order regardless of
// completion order. An item that fails keeps its original text so a
// partial batch never loses content. Items longer than the size threshold
// are split into segments, translated under their own smaller gate, and
// rejoined.
type Batch struct {
	llm      output.LLMPort
	glossary *glossary.Store
	logger   output.LoggerPort
	cfg      Config
}

type Config struct {
	Concurrency        int
	SegmentConcurrency int
	MaxItemRunes       int
}

func New(llm output.LLMPort, glossaryStore *glossary.Store, logger output.LoggerPort, cfg Config) *Batch {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}
	if cfg.SegmentConcurrency <= 0 {
		cfg.SegmentConcurrency = defaultSegmentConcurrency
	}
	if cfg.MaxItemRunes <= 0 {
		cfg.MaxItemRunes = defaultMaxItemRunes
	}
	return &Batch{llm: llm, glossary: glossaryStore, logger: logger, cfg: cfg}
}

func (b *Batch) TranslateAll(ctx context.Context, items []string, opts input.TranslateOptions, onProgress func(done, total int)) []string {
	results := make([]string, len(items))
	if len(items) == 0 {
		return results
	}

	req := b.baseRequest(opts)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		done int
	)
	sem := make(chan struct{}, b.cfg.Concurrency)

	for i, item := range items {
		wg.Add(1)
		sem <- struct{}{}
		go func(idx int, text string) {
			defer wg.Done()
			defer func() { <-sem }()

			results[idx] = b.translateItem(ctx, text, req)

			mu.Lock()
			done++
			current := done
			mu.Unlock()
			if onProgress != nil {
				onProgress(current, len(items))
			}
		}(i, item)
	}
	wg.Wait()

	return results
}

func (b *Batch) baseRequest(opts input.TranslateOptions) output.TranslateRequest {
	req := output.TranslateRequest{
		SourceLang: opts.SourceLang,
		TargetLang: opts.TargetLang,
		Domain:     opts.Domain,
	}
	if pack := b.glossary.Lookup(opts.Domain); pack != nil {
		req.Terms = pack.Terms
		req.Memory = pack.Memory
	}
	return req
}

func (b *Batch) translateItem(ctx context.Context, text string, base output.TranslateRequest) string {
	if len([]rune(text)) > b.cfg.MaxItemRunes {
		return b.translateOversized(ctx, text, base)
	}

	req := base
	req.Text = text
	translated, err := b.llm.Translate(ctx, req)
	if err != nil {
		b.logger.Warn("Translation failed, keeping original text", "error", err, "textLen", len(text))
		return text
	}
	return translated
}

// translateOversized splits one long text into segments and translates
// them under the smaller segment gate. Any failed segment keeps its
// original text in the rejoined result.
func (b *Batch) translateOversized(ctx context.Context, text string, base output.TranslateRequest) string {
	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(b.cfg.MaxItemRunes),
		textsplitter.WithChunkOverlap(segmentOverlapRunes),
	)
	segments, err := splitter.SplitText(text)
	if err != nil || len(segments) == 0 {
		b.logger.Warn("Failed to split oversized text, keeping original", "error", err, "textLen", len(text))
		return text
	}

	b.logger.Debug("Translating oversized text in segments", "segments", len(segments), "textLen", len(text))

	translated := make([]string, len(segments))
	var wg sync.WaitGroup
	sem := make(chan struct{}, b.cfg.SegmentConcurrency)

	for i, segment := range segments {
		wg.Add(1)
		sem <- struct{}{}
		go func(idx int, seg string) {
			defer wg.Done()
			defer func() { <-sem }()

			req := base
			req.Text = seg
			result, err := b.llm.Translate(ctx, req)
			if err != nil {
				b.logger.Warn("Segment translation failed, keeping original segment", "segment", idx, "error", err)
				result = seg
			}
			translated[idx] = result
		}(i, segment)
	}
	wg.Wait()

	// The splitter consumes the separators it splits on, so segments are
	// rejoined with a newline to keep a boundary between them.
	return strings.Join(translated, "\n")
}
