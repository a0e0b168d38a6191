package drawing

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"cad-agent/internal/application/port/output"
	"cad-agent/internal/domain/entity"
)

var _ output.DrawingPort = (*MemoryAdapter)(nil)

// MemoryAdapter is an in-process drawing backend. It stands in for a CAD
// host connection and backs the tool layer in tests and local runs; the
// seeded drawing is mutated in place by UpdateText.
type MemoryAdapter struct {
	mu       sync.Mutex
	texts    map[string]*entity.DrawingText
	entities []entity.DrawingEntity
	frames   []entity.Frame
	logger   output.LoggerPort
	closed   bool
}

func NewMemoryAdapter(logger output.LoggerPort) *MemoryAdapter {
	return &MemoryAdapter{
		texts:  make(map[string]*entity.DrawingText),
		logger: logger,
	}
}

// Seed installs the drawing contents. Text entities are also indexed as
// generic entities so queries see them.
func (a *MemoryAdapter) Seed(texts []entity.DrawingText, entities []entity.DrawingEntity, frames []entity.Frame) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := range texts {
		text := texts[i]
		a.texts[text.Handle] = &text
		a.entities = append(a.entities, entity.DrawingEntity{
			Handle: text.Handle,
			Type:   "TEXT",
			Layer:  text.Layer,
		})
	}
	a.entities = append(a.entities, entities...)
	a.frames = append(a.frames, frames...)
}

func (a *MemoryAdapter) ListTexts(ctx context.Context, layer string) ([]entity.DrawingText, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return nil, fmt.Errorf("drawing connection closed")
	}

	result := make([]entity.DrawingText, 0, len(a.texts))
	for _, text := range a.texts {
		if layer != "" && !strings.EqualFold(text.Layer, layer) {
			continue
		}
		result = append(result, *text)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Handle < result[j].Handle })
	return result, nil
}

func (a *MemoryAdapter) UpdateText(ctx context.Context, handle string, content string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return fmt.Errorf("drawing connection closed")
	}

	text, ok := a.texts[handle]
	if !ok {
		return fmt.Errorf("entity %s not found", handle)
	}
	old := text.Content
	text.Content = content
	a.logger.Debug("Text entity updated", "handle", handle, "old", old, "new", content)
	return nil
}

func (a *MemoryAdapter) QueryEntities(ctx context.Context, entityType string, layer string) ([]entity.DrawingEntity, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return nil, fmt.Errorf("drawing connection closed")
	}

	var result []entity.DrawingEntity
	for _, ent := range a.entities {
		if entityType != "" && !strings.EqualFold(ent.Type, entityType) {
			continue
		}
		if layer != "" && !strings.EqualFold(ent.Layer, layer) {
			continue
		}
		result = append(result, ent)
	}
	return result, nil
}

func (a *MemoryAdapter) RecognizeFrames(ctx context.Context) ([]entity.Frame, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return nil, fmt.Errorf("drawing connection closed")
	}

	result := make([]entity.Frame, len(a.frames))
	copy(result, a.frames)
	return result, nil
}

func (a *MemoryAdapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closed = true
	return nil
}
