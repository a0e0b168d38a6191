package tool

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai/jsonschema"

	"cad-agent/internal/application/port/output"
	"cad-agent/internal/domain/entity"
)

const RecognizeFramesName entity.ToolName = "recognize_frames"

var _ output.ToolPort = (*RecognizeFramesTool)(nil)

type RecognizeFramesTool struct {
	drawing output.DrawingPort
	logger  output.LoggerPort
}

func NewRecognizeFramesTool(drawing output.DrawingPort, logger output.LoggerPort) *RecognizeFramesTool {
	return &RecognizeFramesTool{drawing: drawing, logger: logger}
}

func (t *RecognizeFramesTool) Name() entity.ToolName { return RecognizeFramesName }

func (t *RecognizeFramesTool) Description() string {
	return "Detects drawing frames (borders and title blocks) and returns their names and extents"
}

func (t *RecognizeFramesTool) Parameters() any {
	return &jsonschema.Definition{
		Type:       jsonschema.Object,
		Properties: map[string]jsonschema.Definition{},
	}
}

func (t *RecognizeFramesTool) Execute(ctx context.Context, arguments string, progress func(string)) (string, error) {
	if progress != nil {
		progress("scanning drawing for frames")
	}

	frames, err := t.drawing.RecognizeFrames(ctx)
	if err != nil {
		return "", err
	}
	if len(frames) == 0 {
		return "✓ no frames detected", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "✓ %d frames detected\n", len(frames))
	for _, frame := range frames {
		fmt.Fprintf(&b, "- %s: (%.1f, %.1f) to (%.1f, %.1f)\n",
			frame.Name, frame.MinX, frame.MinY, frame.MaxX, frame.MaxY)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}
