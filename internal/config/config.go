// Package config resolves where tilewm's script and daemon-state files
// live and round-trips the small amount of state that is not itself part
// of the user's `.ns` script (spec.md §6 configures everything else through
// the interpreter). State is a small flat side file built on
// gopkg.in/yaml.v3 (SPEC_FULL.md §4.2), since tilewm's tiling and
// keybinding state lives in the script and in internal/store, not in YAML.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// State is the daemon-level state kept outside the user's script: values
// that must survive a script parse failure (the gap sizes' last-known-good
// settings), an optional override of where the control socket lives, the
// log level, and the startup-registration flag
// (SPEC_FULL.md §7.4 — the registration record lives here even though the
// actual OS registry mechanism is out of scope).
type State struct {
	OuterGap          int    `yaml:"outer_gap"`
	InnerGap          int    `yaml:"inner_gap"`
	SocketPath        string `yaml:"socket_path,omitempty"`
	LogLevel          string `yaml:"log_level"`
	StartupRegistered bool   `yaml:"startup_registered"`
}

// DefaultState returns the values a fresh install starts from.
func DefaultState() *State {
	return &State{
		OuterGap: 8,
		InnerGap: 4,
		LogLevel: "info",
	}
}

// Dir returns "<user config dir>/tilewm", creating it if necessary.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: resolving user config dir: %w", err)
	}
	dir := filepath.Join(base, "tilewm")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("config: creating config dir: %w", err)
	}
	return dir, nil
}

// StatePath returns "<user config dir>/tilewm/state.yaml".
func StatePath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "state.yaml"), nil
}

// ScriptPath returns "<user config dir>/tilewm/config.ns", the default
// location the daemon watches and loads as its `.ns` configuration script.
func ScriptPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.ns"), nil
}

// Load reads State from StatePath, returning DefaultState unmodified if the
// file does not exist yet (a fresh install has no state.yaml until the
// daemon first saves one).
func Load() (*State, error) {
	path, err := StatePath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath reads State from an explicit path.
func LoadFromPath(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultState(), nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	state := DefaultState()
	if err := yaml.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return state, nil
}

// Save writes State to StatePath: a direct yaml.Marshal followed by
// os.WriteFile, no atomic rename — state.yaml is daemon-owned and only
// ever written by one process, so a partial write on crash is self-healed
// by the next Save.
func (s *State) Save() error {
	path, err := StatePath()
	if err != nil {
		return err
	}
	return s.SaveToPath(path)
}

// SaveToPath writes State to an explicit path.
func (s *State) SaveToPath(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("config: marshaling state: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: creating state dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: writing %s: %w", path, err)
	}
	return nil
}
