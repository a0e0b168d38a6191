package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"cad-agent/internal/application/port/output"
	"cad-agent/internal/domain/entity"
)

// Store persists conversation history as JSON files, one per session.
// Histories come back through the lenient repair path: files edited or
// truncated outside this process load with their orphaned tool messages
// dropped instead of failing.
type Store struct {
	dir    string
	logger output.LoggerPort
}

func NewStore(dir string, logger output.LoggerPort) *Store {
	return &Store{dir: dir, logger: logger}
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

func (s *Store) Save(name string, msgs []entity.Message) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	data, err := json.MarshalIndent(msgs, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.WriteFile(s.path(name), data, 0644); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// Load reads a saved history and repairs it. A missing file yields an
// empty history.
func (s *Store) Load(name string) ([]entity.Message, error) {
	data, err := os.ReadFile(s.path(name))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}

	var msgs []entity.Message
	if err := json.Unmarshal(data, &msgs); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", name, err)
	}

	kept, dropped := entity.RepairHistory(msgs)
	for _, d := range dropped {
		s.logger.Warn("Dropping message from saved session",
			"session", name,
			"index", d.Index,
			"reason", d.Reason)
	}
	return kept, nil
}
