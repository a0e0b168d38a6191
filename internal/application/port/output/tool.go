package output

import (
	"context"

	"cad-agent/internal/domain/entity"
)

// ToolPort is one callable drawing operation exposed to the model.
// Execute decodes the raw argument blob itself and reports human-readable
// progress through the callback, which may be nil.
type ToolPort interface {
	Name() entity.ToolName
	Description() string
	Parameters() any
	Execute(ctx context.Context, arguments string, progress func(string)) (string, error)
}

type ToolRegistry interface {
	Register(tool ToolPort)
	Get(name entity.ToolName) (ToolPort, bool)
	All() []ToolPort
	Definitions(names ...entity.ToolName) []entity.ToolDefinition
}
