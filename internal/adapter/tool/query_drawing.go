package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sashabaranov/go-openai/jsonschema"

	"cad-agent/internal/application/port/output"
	"cad-agent/internal/domain/entity"
)

const QueryDrawingName entity.ToolName = "query_drawing"

var _ output.ToolPort = (*QueryDrawingTool)(nil)

type QueryDrawingTool struct {
	drawing output.DrawingPort
	logger  output.LoggerPort
}

func NewQueryDrawingTool(drawing output.DrawingPort, logger output.LoggerPort) *QueryDrawingTool {
	return &QueryDrawingTool{drawing: drawing, logger: logger}
}

func (t *QueryDrawingTool) Name() entity.ToolName { return QueryDrawingName }

func (t *QueryDrawingTool) Description() string {
	return "Queries drawing entities by type and/or layer; text entities include their content"
}

func (t *QueryDrawingTool) Parameters() any {
	return &jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"entity_type": {
				Type:        jsonschema.String,
				Description: "Entity type filter, e.g. TEXT, LINE, CIRCLE; empty for all",
			},
			"layer": {
				Type:        jsonschema.String,
				Description: "Layer name filter; empty for all layers",
			},
		},
	}
}

func (t *QueryDrawingTool) Execute(ctx context.Context, arguments string, progress func(string)) (string, error) {
	var args struct {
		EntityType string `json:"entity_type"`
		Layer      string `json:"layer"`
	}
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return "", fmt.Errorf("decode arguments: %w", err)
	}

	if args.EntityType == "TEXT" || args.EntityType == "text" {
		texts, err := t.drawing.ListTexts(ctx, args.Layer)
		if err != nil {
			return "", err
		}
		data, err := json.MarshalIndent(texts, "", "  ")
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("✓ %d text entities\n%s", len(texts), data), nil
	}

	entities, err := t.drawing.QueryEntities(ctx, args.EntityType, args.Layer)
	if err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(entities, "", "  ")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("✓ %d entities\n%s", len(entities), data), nil
}
