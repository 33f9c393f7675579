// Package keybind manages global X11 hotkey grabs and the modal stack of
// keybinding sets they dispatch through (spec.md §4.2). It wraps
// xgbutil/keybind's grab-and-dispatch idiom, generalized from a single
// fixed hotkey table to a full mode stack.
package keybind

import (
	"fmt"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"

	"github.com/1broseidon/tilewm/internal/events"
)

// Binding is a key sequence's action: an opaque command name plus
// arguments, published as an events.KeyAction when the key fires.
// AlwaysActive marks a binding that should still fire while work mode is
// off (spec.md §3's Keybinding.always_active).
type Binding struct {
	Action       string
	Args         []string
	AlwaysActive bool
}

// Mode is one modal layer of keybindings (e.g. "default", "resize",
// "move"). Only the mode on top of the Manager's stack dispatches.
type Mode struct {
	Name     string
	Bindings map[string]Binding // key sequence, e.g. "Mod4-h"
}

// NewMode returns an empty, named mode.
func NewMode(name string) *Mode {
	return &Mode{Name: name, Bindings: make(map[string]Binding)}
}

// Bind adds or replaces a key sequence's binding.
func (m *Mode) Bind(keySequence string, b Binding) {
	m.Bindings[keySequence] = b
}

// Manager owns the X keyboard grabs and the active mode stack.
type Manager struct {
	xu   *xgbutil.XUtil
	root xproto.Window
	bus  *events.Bus

	mu         sync.Mutex
	stack      []*Mode
	registered map[string]bool
}

// NewManager grabs no keys yet; PushMode with the base mode grabs that
// mode's key sequences. xevent's global ignore-mods set
// is configured once here, in configureIgnoreMods.
func NewManager(xu *xgbutil.XUtil, root xproto.Window, bus *events.Bus) *Manager {
	configureIgnoreMods(xu)
	return &Manager{
		xu:         xu,
		root:       root,
		bus:        bus,
		registered: make(map[string]bool),
	}
}

// PushMode makes mode the active mode, grabbing any of its key sequences
// not already grabbed by an earlier mode. Keys are grabbed once and
// forever; which mode they dispatch to is resolved per-press against
// whichever mode is currently on top of the stack.
func (m *Manager) PushMode(mode *Mode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for seq := range mode.Bindings {
		if m.registered[seq] {
			continue
		}
		if err := m.grab(seq); err != nil {
			return fmt.Errorf("keybind: failed to grab %q: %w", seq, err)
		}
		m.registered[seq] = true
	}
	m.stack = append(m.stack, mode)
	return nil
}

// PopMode removes the top mode and returns it. A no-op returning nil if
// only the base mode remains.
func (m *Manager) PopMode() *Mode {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.stack) <= 1 {
		return nil
	}
	top := m.stack[len(m.stack)-1]
	m.stack = m.stack[:len(m.stack)-1]
	return top
}

// Current returns the mode currently on top of the stack, or nil if empty.
func (m *Manager) Current() *Mode {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.stack) == 0 {
		return nil
	}
	return m.stack[len(m.stack)-1]
}

func (m *Manager) grab(keySequence string) error {
	return keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		m.dispatch(keySequence)
	}).Connect(m.xu, m.root, keySequence, true)
}

func (m *Manager) dispatch(keySequence string) {
	mode := m.Current()
	if mode == nil {
		return
	}
	b, ok := mode.Bindings[keySequence]
	if !ok {
		return
	}
	m.bus.Publish(events.KeyAction{Action: b.Action, Args: b.Args, AlwaysActive: b.AlwaysActive})
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	// Always ignore CapsLock.
	caps := uint16(xproto.ModMaskLock)

	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	unique := make(map[uint16]struct{})
	add := func(mask uint16) {
		unique[mask] = struct{}{}
	}

	add(0)
	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		add(mask)
	}

	ignore := make([]uint16, 0, len(unique))
	for mask := range unique {
		ignore = append(ignore, mask)
	}

	xevent.IgnoreMods = ignore
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
