package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	in := Settings{
		DefaultModule:     "DutSVV",
		SecondaryModule:   "KJV",
		CommentaryModules: []string{"MHC", "TSK"},
		CacheCapacity:     256,
		ContextRadius:     60,
		CurrentTheme:      "dracula",
		LastReference:     "John 3:16",
		Bookmarks:         map[string]string{"favoriet": "Ps 23:1"},
	}
	require.NoError(t, SaveTo(path, in))

	out, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestLoadMissingFile(t *testing.T) {
	out, err := LoadFrom(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)
	assert.Equal(t, Settings{}, out)
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := LoadFrom(path)
	assert.Error(t, err)
}

func TestDefaults(t *testing.T) {
	s := Settings{}.Defaults()
	assert.Equal(t, "KJV", s.DefaultModule)
	assert.Equal(t, []string{"MHC"}, s.CommentaryModules)
	assert.Equal(t, "Gen 1:1", s.LastReference)
	assert.NotNil(t, s.Bookmarks)

	// Explicit values survive.
	s = Settings{DefaultModule: "DutSVV", LastReference: "Joh 1:1"}.Defaults()
	assert.Equal(t, "DutSVV", s.DefaultModule)
	assert.Equal(t, "Joh 1:1", s.LastReference)
}
