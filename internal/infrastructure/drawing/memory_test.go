package drawing

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cad-agent/internal/domain/entity"
	"cad-agent/internal/infrastructure/logger"
)

func TestListTextsFiltersByLayerCaseInsensitive(t *testing.T) {
	adapter := NewMemoryAdapter(logger.NewNop())
	adapter.Seed([]entity.DrawingText{
		{Handle: "A1", Content: "one", Layer: "Notes"},
		{Handle: "A2", Content: "two", Layer: "TITLE"},
	}, nil, nil)

	texts, err := adapter.ListTexts(context.Background(), "notes")
	require.NoError(t, err)
	require.Len(t, texts, 1)
	assert.Equal(t, "A1", texts[0].Handle)
}

func TestUpdateTextMutatesAndErrors(t *testing.T) {
	adapter := NewMemoryAdapter(logger.NewNop())
	adapter.Seed([]entity.DrawingText{{Handle: "A1", Content: "old"}}, nil, nil)

	require.NoError(t, adapter.UpdateText(context.Background(), "A1", "new"))
	texts, _ := adapter.ListTexts(context.Background(), "")
	assert.Equal(t, "new", texts[0].Content)

	assert.Error(t, adapter.UpdateText(context.Background(), "ZZ", "x"))
}

func TestQueryEntitiesIncludesSeededTexts(t *testing.T) {
	adapter := NewMemoryAdapter(logger.NewNop())
	adapter.Seed(
		[]entity.DrawingText{{Handle: "A1", Content: "note", Layer: "NOTES"}},
		[]entity.DrawingEntity{{Handle: "B1", Type: "LINE", Layer: "PIPES"}},
		nil,
	)

	all, err := adapter.QueryEntities(context.Background(), "", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	texts, err := adapter.QueryEntities(context.Background(), "text", "")
	require.NoError(t, err)
	require.Len(t, texts, 1)
	assert.Equal(t, "A1", texts[0].Handle)
}

func TestClosedAdapterRejectsCalls(t *testing.T) {
	adapter := NewMemoryAdapter(logger.NewNop())
	require.NoError(t, adapter.Close())

	_, err := adapter.ListTexts(context.Background(), "")
	assert.Error(t, err)
	_, err = adapter.RecognizeFrames(context.Background())
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	content := `{
		"texts": [{"handle":"A1","content":"法兰","layer":"NOTES"}],
		"entities": [{"handle":"B1","type":"CIRCLE","layer":"PIPES"}],
		"frames": [{"name":"A3-frame","min_x":0,"min_y":0,"max_x":420,"max_y":297}]
	}`
	path := filepath.Join(t.TempDir(), "drawing.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	adapter := NewMemoryAdapter(logger.NewNop())
	require.NoError(t, adapter.LoadFile(path))

	frames, err := adapter.RecognizeFrames(context.Background())
	require.NoError(t, err)
	require.Len(t, frames, 1)
	assert.Equal(t, "A3-frame", frames[0].Name)
	assert.Equal(t, 420.0, frames[0].MaxX)
}

func TestLoadFileMissing(t *testing.T) {
	adapter := NewMemoryAdapter(logger.NewNop())
	assert.Error(t, adapter.LoadFile(filepath.Join(t.TempDir(), "nope.json")))
}
