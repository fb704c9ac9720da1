package workspace

import (
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// prefsFileName is the preference file kept under the user config dir.
const prefsFileName = "prefs.toml"

// Prefs holds sticky per-workspace choices, currently just the directory a
// document was last saved into. The file is tiny and local; it is not a
// cache of server state.
type Prefs struct {
	// SaveDirs maps workspace id to the last-used save directory.
	SaveDirs map[string]string `toml:"save_dirs"`
}

// DefaultPrefsPath returns the conventional prefs location,
// $XDG_CONFIG_HOME/anvil/prefs.toml or the OS equivalent.
func DefaultPrefsPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating user config dir: %w", err)
	}
	return filepath.Join(base, "anvil", prefsFileName), nil
}

// LoadPrefs reads the preference file at path. A missing file yields empty
// preferences and no error.
func LoadPrefs(path string) (*Prefs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Prefs{SaveDirs: make(map[string]string)}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var p Prefs
	if err := toml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if p.SaveDirs == nil {
		p.SaveDirs = make(map[string]string)
	}
	return &p, nil
}

// SavePrefs writes the preference file atomically (write temp + rename),
// creating parent directories as needed.
func SavePrefs(path string, p *Prefs) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating prefs directory: %w", err)
	}

	data, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshaling prefs: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing temp prefs file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("renaming prefs file: %w", err)
	}
	return nil
}

// SaveDir returns the sticky save directory for a workspace, or "".
func (p *Prefs) SaveDir(workspaceID string) string {
	if p == nil {
		return ""
	}
	return p.SaveDirs[workspaceID]
}

// SetSaveDir records the save directory for a workspace.
func (p *Prefs) SetSaveDir(workspaceID, dir string) {
	if p.SaveDirs == nil {
		p.SaveDirs = make(map[string]string)
	}
	p.SaveDirs[workspaceID] = dir
}
