// Package settings persists typed session configuration and bookmarks as a
// JSON file under the user config directory. The core reads these as typed
// values at startup; nothing else parses the file.
package settings

import (
	"encoding/json"
	"os"
	"path/filepath"
)

type Settings struct {
	DefaultModule     string            `json:"default_module"`
	SecondaryModule   string            `json:"secondary_module"`
	CommentaryModules []string          `json:"commentary_modules"`
	CacheCapacity     int               `json:"cache_capacity"`
	ContextRadius     int               `json:"context_radius"`
	CurrentTheme      string            `json:"current_theme"`
	LastReference     string            `json:"last_reference"`
	Bookmarks         map[string]string `json:"bookmarks"` // name -> citation text
}

// Defaults fills zero-valued fields so callers never branch on emptiness.
func (s Settings) Defaults() Settings {
	if s.DefaultModule == "" {
		s.DefaultModule = "KJV"
	}
	if len(s.CommentaryModules) == 0 {
		s.CommentaryModules = []string{"MHC"}
	}
	if s.LastReference == "" {
		s.LastReference = "Gen 1:1"
	}
	if s.Bookmarks == nil {
		s.Bookmarks = map[string]string{}
	}
	return s
}

func configPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}

	dir := filepath.Join(configDir, "canon-tui")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	return filepath.Join(dir, "config.json"), nil
}

func Load() (Settings, error) {
	path, err := configPath()
	if err != nil {
		return Settings{}, err
	}
	return LoadFrom(path)
}

// LoadFrom reads settings from an explicit path. A missing file is not an
// error; it yields the zero value.
func LoadFrom(path string) (Settings, error) {
	var s Settings

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return s, err
	}

	if err := json.Unmarshal(data, &s); err != nil {
		return Settings{}, err
	}

	return s, nil
}

func Save(s Settings) error {
	path, err := configPath()
	if err != nil {
		return err
	}
	return SaveTo(path, s)
}

// SaveTo writes settings to an explicit path.
func SaveTo(path string, s Settings) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}
