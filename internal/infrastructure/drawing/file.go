package drawing

import (
	"encoding/json"
	"fmt"
	"os"

	"cad-agent/internal/domain/entity"
)

// drawingFile is the JSON exchange format exported by the CAD host.
type drawingFile struct {
	Texts    []entity.DrawingText   `json:"texts"`
	Entities []entity.DrawingEntity `json:"entities"`
	Frames   []entity.Frame         `json:"frames"`
}

// LoadFile seeds the adapter from an exported drawing file.
func (a *MemoryAdapter) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read drawing file: %w", err)
	}

	var file drawingFile
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse drawing file %s: %w", path, err)
	}

	a.Seed(file.Texts, file.Entities, file.Frames)
	a.logger.Info("Drawing loaded",
		"path", path,
		"texts", len(file.Texts),
		"entities", len(file.Entities),
		"frames", len(file.Frames))
	return nil
}
