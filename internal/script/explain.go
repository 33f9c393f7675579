package nogscript

import (
	"fmt"
	"sync"
)

// ConfigProvenance records, for a config.* key last touched by a script,
// which source file and line set it — the script-side read companion
// SPEC_FULL.md §7.3 adds alongside spec.md §6's config.{set,enable,disable,
// toggle,increment,decrement} functions. Keyed by call-site (file:line)
// rather than YAML-document provenance, since there is no YAML document
// backing a runtime config.* write.
type ConfigProvenance struct {
	File string
	Line int
}

// ConfigStore is a small key/value table nogscript's config.* functions
// read and write, with one ConfigProvenance recorded per key. It is
// independent of internal/config's YAML-backed State: a store starts from
// whatever seed its caller passes, and script writes stay in the store;
// they are not applied to the orchestrator's AppState.
type ConfigStore struct {
	mu         sync.Mutex
	values     map[string]Value
	provenance map[string]ConfigProvenance
	file       string // source file currently executing, for provenance
}

// NewConfigStore returns a store holding seed's entries, or an empty store
// when seed is nil (the daemon passes nil).
func NewConfigStore(seed map[string]Value) *ConfigStore {
	if seed == nil {
		seed = map[string]Value{}
	}
	return &ConfigStore{values: seed, provenance: map[string]ConfigProvenance{}}
}

// SetSourceFile records which script file subsequent Set calls attribute
// provenance to. Until it is called, provenance records an empty file name.
func (s *ConfigStore) SetSourceFile(file string) {
	s.mu.Lock()
	s.file = file
	s.mu.Unlock()
}

func (s *ConfigStore) set(key string, v Value, line int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = v
	s.provenance[key] = ConfigProvenance{File: s.file, Line: line}
}

// Get reads the current value of key, Null if never set.
func (s *ConfigStore) Get(key string) Value {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.values[key]; ok {
		return v
	}
	return Null
}

// Explain returns the value and its provenance for key, matching the
// teacher's Explain(res, path) (value, Source, error) signature.
func (s *ConfigStore) Explain(key string) (Value, ConfigProvenance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	if !ok {
		return Value{}, ConfigProvenance{}, fmt.Errorf("config key %q was never set", key)
	}
	return v, s.provenance[key], nil
}

// RegisterConfigFunctions exposes config.set/enable/disable/toggle/
// increment/decrement/explain to nogscript on a "config" object, matching
// spec.md §6's root-module function family. callLine recovers the calling
// CallExpr's source line (0 if unavailable, e.g. called from Go) to
// attribute the write's provenance.
func RegisterConfigFunctions(i *Interpreter, store *ConfigStore) {
	set := NewForeign("config.set", func(ii *Interpreter, args []Value) (Value, error) {
		if len(args) != 2 || args[0].Kind != KindValString {
			return Value{}, &GenericError{Message: "config.set(key, value) expects a String key"}
		}
		store.set(args[0].Str, args[1], ii.callLine)
		return Null, nil
	})
	boolSetter := func(name string, val bool) Value {
		return NewForeign(name, func(ii *Interpreter, args []Value) (Value, error) {
			if len(args) != 1 || args[0].Kind != KindValString {
				return Value{}, &GenericError{Message: name + "(key) expects a String key"}
			}
			store.set(args[0].Str, Bool(val), ii.callLine)
			return Null, nil
		})
	}
	toggle := NewForeign("config.toggle", func(ii *Interpreter, args []Value) (Value, error) {
		if len(args) != 1 || args[0].Kind != KindValString {
			return Value{}, &GenericError{Message: "config.toggle(key) expects a String key"}
		}
		next := !store.Get(args[0].Str).IsTrue()
		store.set(args[0].Str, Bool(next), ii.callLine)
		return Bool(next), nil
	})
	step := func(name string, delta int32) Value {
		return NewForeign(name, func(ii *Interpreter, args []Value) (Value, error) {
			if len(args) != 1 || args[0].Kind != KindValString {
				return Value{}, &GenericError{Message: name + "(key) expects a String key"}
			}
			cur := store.Get(args[0].Str)
			n := int32(0)
			if cur.Kind == KindValNumber {
				n = cur.Number
			}
			next := Num(wrapAdd32(n, delta))
			store.set(args[0].Str, next, ii.callLine)
			return next, nil
		})
	}
	explain := NewForeign("config.explain", func(_ *Interpreter, args []Value) (Value, error) {
		if len(args) != 1 || args[0].Kind != KindValString {
			return Value{}, &GenericError{Message: "config.explain(key) expects a String key"}
		}
		v, prov, err := store.Explain(args[0].Str)
		if err != nil {
			return Value{}, &GenericError{Message: err.Error()}
		}
		return NewObject(map[string]Value{
			"value": v,
			"file":  Str(prov.File),
			"line":  Num(int32(prov.Line)),
		}), nil
	})

	obj := NewObject(map[string]Value{
		"set":       set,
		"enable":    boolSetter("config.enable", true),
		"disable":   boolSetter("config.disable", false),
		"toggle":    toggle,
		"increment": step("config.increment", 1),
		"decrement": step("config.decrement", -1),
		"explain":   explain,
	})
	i.DefineGlobal("config", obj)
}
