package reload

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/1broseidon/tilewm/internal/events"
)

func TestWatcherPublishesConfigReloadedOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.nog")
	if err := os.WriteFile(path, []byte("initial"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	bus := events.NewBus()
	defer bus.Close()

	var parsed []string
	w := New(path, func(p string) error {
		parsed = append(parsed, p)
		return nil
	}, bus, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	time.Sleep(50 * time.Millisecond) // let the watcher attach to the directory
	if err := os.WriteFile(path, []byte("updated"), 0o644); err != nil {
		t.Fatalf("rewrite file: %v", err)
	}

	select {
	case e := <-bus.Events():
		cr, ok := e.(events.ConfigReloaded)
		if !ok || cr.Path != path {
			t.Fatalf("got %#v, want ConfigReloaded{%q}", e, path)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for ConfigReloaded")
	}
}

func TestWatcherSkipsPublishOnParseError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.nog")
	os.WriteFile(path, []byte("initial"), 0o644)

	bus := events.NewBus()
	defer bus.Close()

	w := New(path, func(p string) error { return errBadConfig }, bus, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	time.Sleep(50 * time.Millisecond)
	os.WriteFile(path, []byte("broken"), 0o644)

	select {
	case e := <-bus.Events():
		t.Fatalf("expected no event on parse failure, got %#v", e)
	case <-time.After(300 * time.Millisecond):
	}
}

var errBadConfig = &parseError{"bad config"}

type parseError struct{ msg string }

func (e *parseError) Error() string { return e.msg }
