package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// AppState records an installed application: the version that was installed,
// the artifact URL it came from, and when the install happened.
type AppState struct {
	Version     string    `json:"version"`
	ArtifactURL string    `json:"artifact_url"`
	InstalledAt time.Time `json:"installed_at"`
}

// State holds everything the tool remembers between runs: installed app
// versions keyed by app name, and active SMB mounts keyed by share name.
type State struct {
	Apps   map[string]AppState `json:"apps"`
	Mounts map[string]string   `json:"mounts"`
}

// DefaultPath returns the state file location, ~/.qmactools/state.json.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "state.json"
	}
	return filepath.Join(home, ".qmactools", "state.json")
}

// Load reads the state file at path. A missing or unreadable file yields a
// fresh empty state; the maps are always non-nil.
func Load(path string) *State {
	st := &State{
		Apps:   make(map[string]AppState),
		Mounts: make(map[string]string),
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return st
	}
	_ = json.Unmarshal(raw, st)

	if st.Apps == nil {
		st.Apps = make(map[string]AppState)
	}
	if st.Mounts == nil {
		st.Mounts = make(map[string]string)
	}
	return st
}

// Save writes the state as indented JSON to path, creating the parent
// directory when needed.
func Save(path string, st *State) error {
	raw, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	if err := os.WriteFile(path, raw, 0644); err != nil {
		return fmt.Errorf("failed to write state file %s: %w", path, err)
	}
	return nil
}
