package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sashabaranov/go-openai/jsonschema"

	"cad-agent/internal/application/port/output"
	"cad-agent/internal/domain/entity"
)

const ModifyEntityName entity.ToolName = "modify_entity"

var _ output.ToolPort = (*ModifyEntityTool)(nil)

type ModifyEntityTool struct {
	drawing output.DrawingPort
	logger  output.LoggerPort
}

func NewModifyEntityTool(drawing output.DrawingPort, logger output.LoggerPort) *ModifyEntityTool {
	return &ModifyEntityTool{drawing: drawing, logger: logger}
}

func (t *ModifyEntityTool) Name() entity.ToolName { return ModifyEntityName }

func (t *ModifyEntityTool) Description() string {
	return "Replaces the content of one text entity identified by its handle"
}

func (t *ModifyEntityTool) Parameters() any {
	return &jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"handle": {
				Type:        jsonschema.String,
				Description: "Entity handle to modify",
			},
			"content": {
				Type:        jsonschema.String,
				Description: "New text content",
			},
		},
		Required: []string{"handle", "content"},
	}
}

func (t *ModifyEntityTool) Execute(ctx context.Context, arguments string, progress func(string)) (string, error) {
	var args struct {
		Handle  string `json:"handle"`
		Content string `json:"content"`
	}
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return "", fmt.Errorf("decode arguments: %w", err)
	}
	if args.Handle == "" {
		return "", fmt.Errorf("handle is required")
	}

	if progress != nil {
		progress(fmt.Sprintf("updating entity %s", args.Handle))
	}
	if err := t.drawing.UpdateText(ctx, args.Handle, args.Content); err != nil {
		return "", err
	}
	return fmt.Sprintf("✓ entity %s updated", args.Handle), nil
}
