package output

import (
	"context"

	"cad-agent/internal/domain/entity"
)

// DrawingPort is the outbound boundary to the CAD host holding the open
// drawing.
type DrawingPort interface {
	ListTexts(ctx context.Context, layer string) ([]entity.DrawingText, error)
	UpdateText(ctx context.Context, handle string, content string) error
	QueryEntities(ctx context.Context, entityType string, layer string) ([]entity.DrawingEntity, error)
	RecognizeFrames(ctx context.Context) ([]entity.Frame, error)
	Close() error
}
