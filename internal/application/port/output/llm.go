package output

import (
	"context"

	"cad-agent/internal/domain/entity"
)

// StreamHandlers receives streamed fragments as they arrive. Any handler
// may be nil.
type StreamHandlers struct {
	OnContent   func(delta string)
	OnReasoning func(delta string)
}

type ChatRequest struct {
	Messages    []entity.Message
	Tools       []entity.ToolDefinition
	Temperature float32
}

type TranslateRequest struct {
	Text       string
	SourceLang string
	TargetLang string
	Domain     string
	Terms      map[string]string
	Memory     []string
}

// LLMPort is the outbound boundary to the model service. ChatStream blocks
// until the stream is fully consumed and returns the assembled result;
// Translate is the dedicated single-text translation call.
type LLMPort interface {
	ChatStream(ctx context.Context, req ChatRequest, handlers StreamHandlers) (*entity.CallResult, error)
	Translate(ctx context.Context, req TranslateRequest) (string, error)
}
