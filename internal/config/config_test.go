package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromPathMissingFileReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	got, err := LoadFromPath(filepath.Join(dir, "state.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := DefaultState()
	if *got != *want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.yaml")

	state := &State{
		OuterGap:          12,
		InnerGap:          6,
		SocketPath:        "/tmp/custom.sock",
		LogLevel:          "debug",
		StartupRegistered: true,
	}
	if err := state.SaveToPath(path); err != nil {
		t.Fatalf("SaveToPath: %v", err)
	}

	got, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if *got != *state {
		t.Fatalf("got %+v, want %+v", got, state)
	}
}

func TestLoadFromPathRejectsMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.yaml")
	if err := os.WriteFile(path, []byte("outer_gap: [this, is, a, list]\n"), 0o644); err != nil {
		t.Fatalf("os.WriteFile: %v", err)
	}

	if _, err := LoadFromPath(path); err == nil {
		t.Fatal("expected a parse error for malformed YAML")
	}
}
