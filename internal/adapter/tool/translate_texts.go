package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sashabaranov/go-openai/jsonschema"

	"cad-agent/internal/application/port/input"
	"cad-agent/internal/application/port/output"
	"cad-agent/internal/domain/entity"
)

const TranslateTextsName entity.ToolName = "translate_texts"

var _ output.ToolPort = (*TranslateTextsTool)(nil)

// TranslateTextsTool translates every text entity on a layer (or the
// whole drawing) and writes the results back.
type TranslateTextsTool struct {
	drawing    output.DrawingPort
	translator input.BatchTranslator
	logger     output.LoggerPort
}

func NewTranslateTextsTool(drawing output.DrawingPort, translator input.BatchTranslator, logger output.LoggerPort) *TranslateTextsTool {
	return &TranslateTextsTool{drawing: drawing, translator: translator, logger: logger}
}

func (t *TranslateTextsTool) Name() entity.ToolName { return TranslateTextsName }

func (t *TranslateTextsTool) Description() string {
	return "Translates all text entities in the drawing (optionally restricted to one layer) and writes the translations back"
}

func (t *TranslateTextsTool) Parameters() any {
	return &jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"layer": {
				Type:        jsonschema.String,
				Description: "Layer name to restrict translation to; empty for all layers",
			},
			"source_lang": {
				Type:        jsonschema.String,
				Description: "Source language code, e.g. zh",
			},
			"target_lang": {
				Type:        jsonschema.String,
				Description: "Target language code, e.g. en",
			},
			"domain": {
				Type:        jsonschema.String,
				Description: "Engineering domain for glossary lookup, e.g. piping",
			},
		},
		Required: []string{"source_lang", "target_lang"},
	}
}

func (t *TranslateTextsTool) Execute(ctx context.Context, arguments string, progress func(string)) (string, error) {
	var args struct {
		Layer      string `json:"layer"`
		SourceLang string `json:"source_lang"`
		TargetLang string `json:"target_lang"`
		Domain     string `json:"domain"`
	}
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return "", fmt.Errorf("decode arguments: %w", err)
	}

	texts, err := t.drawing.ListTexts(ctx, args.Layer)
	if err != nil {
		return "", fmt.Errorf("list texts: %w", err)
	}
	if len(texts) == 0 {
		return "✓ no text entities found, nothing to translate", nil
	}

	items := make([]string, len(texts))
	for i, text := range texts {
		items[i] = text.Content
	}

	report := func(done, total int) {
		if progress != nil {
			progress(fmt.Sprintf("translated %d/%d texts", done, total))
		}
	}
	translated := t.translator.TranslateAll(ctx, items, input.TranslateOptions{
		SourceLang: args.SourceLang,
		TargetLang: args.TargetLang,
		Domain:     args.Domain,
	}, report)

	updated := 0
	for i, text := range texts {
		if translated[i] == text.Content {
			continue
		}
		if err := t.drawing.UpdateText(ctx, text.Handle, translated[i]); err != nil {
			t.logger.Warn("Failed to write translation back", "handle", text.Handle, "error", err)
			continue
		}
		updated++
	}

	return fmt.Sprintf("✓ translated %d texts, updated %d entities", len(texts), updated), nil
}
