package glossary

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDirMergesPacks(t *testing.T) {
	dir := t.TempDir()

	first := `domain: piping
terms:
  法兰: flange
memory:
  - "DN50 法兰 -> DN50 flange"
`
	second := `domain: piping
terms:
  阀门: valve
  法兰: pipe flange
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a_piping.yaml"), []byte(first), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b_piping.yaml"), []byte(second), 0644))

	store := NewStore()
	require.NoError(t, store.LoadDir(dir))

	pack := store.Lookup("piping")
	require.NotNil(t, pack)
	assert.Equal(t, "pipe flange", pack.Terms["法兰"], "later file should override")
	assert.Equal(t, "valve", pack.Terms["阀门"])
	assert.Len(t, pack.Memory, 1)
}

func TestLoadDirMissingDirectory(t *testing.T) {
	store := NewStore()
	assert.NoError(t, store.LoadDir(filepath.Join(t.TempDir(), "nope")))
	assert.Empty(t, store.Domains())
}

func TestLoadDirRejectsMissingDomain(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("terms:\n  a: b\n"), 0644))

	store := NewStore()
	assert.Error(t, store.LoadDir(dir))
}

func TestLookupUnknownDomain(t *testing.T) {
	store := NewStore()
	assert.Nil(t, store.Lookup("electrical"))
}
