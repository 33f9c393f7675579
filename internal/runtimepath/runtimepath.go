// Package runtimepath resolves where tilewm's control socket lives: the
// usual XDG_RUNTIME_DIR / /run/user/<uid> / /tmp fallback chain, scoped to
// a per-display name so multiple daemons — one per X DISPLAY — don't
// collide.
package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Dir returns the runtime directory used by tilewm's control socket.
// Priority:
//  1. XDG_RUNTIME_DIR (if set)
//  2. /run/user/<uid> (if present)
//  3. /tmp/tilewm-runtime-<uid> (created)
func Dir() (string, error) {
	if runtimeDir := os.Getenv("XDG_RUNTIME_DIR"); runtimeDir != "" {
		return runtimeDir, nil
	}

	uid := os.Getuid()
	runUserDir := fmt.Sprintf("/run/user/%d", uid)
	if info, err := os.Stat(runUserDir); err == nil && info.IsDir() {
		return runUserDir, nil
	}

	tmpDir := fmt.Sprintf("/tmp/tilewm-runtime-%d", uid)
	if err := os.MkdirAll(tmpDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create runtime dir: %w", err)
	}
	return tmpDir, nil
}

// SocketPath returns the daemon control socket path for displayName (the
// X DISPLAY value, e.g. ":0"), so a daemon per display never shares a
// socket with another.
func SocketPath(displayName string) (string, error) {
	runtimeDir, err := Dir()
	if err != nil {
		return "", err
	}
	safe := strings.NewReplacer("/", "_", ":", "_").Replace(displayName)
	if safe == "" {
		safe = "default"
	}
	return filepath.Join(runtimeDir, fmt.Sprintf("tilewm-%s.sock", safe)), nil
}
