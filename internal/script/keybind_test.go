package nogscript

import "testing"

type boundKey struct {
	mode, sequence, action string
	args                   []string
}

func TestRegisterKeybindFunctionsBindsBaseMode(t *testing.T) {
	var got []boundKey
	i := NewInterpreter(nil)
	RegisterKeybindFunctions(i, func(mode, sequence, action string, args []string) error {
		got = append(got, boundKey{mode, sequence, action, args})
		return nil
	})

	if _, err := i.Run(`keybind.bind("Mod4-h", "window.focus", "left")`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got) != 1 {
		t.Fatalf("got %d bindings, want 1", len(got))
	}
	b := got[0]
	if b.mode != "" || b.sequence != "Mod4-h" || b.action != "window.focus" || len(b.args) != 1 || b.args[0] != "left" {
		t.Fatalf("got %+v", b)
	}
}

func TestRegisterKeybindFunctionsBindsNamedMode(t *testing.T) {
	var got []boundKey
	i := NewInterpreter(nil)
	RegisterKeybindFunctions(i, func(mode, sequence, action string, args []string) error {
		got = append(got, boundKey{mode, sequence, action, args})
		return nil
	})

	if _, err := i.Run(`keybind.bindMode("resize", "h", "window.moveOut")`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got) != 1 || got[0].mode != "resize" || got[0].sequence != "h" || got[0].action != "window.moveOut" {
		t.Fatalf("got %+v", got)
	}
}

func TestRegisterKeybindFunctionsRequiresTwoArgs(t *testing.T) {
	i := NewInterpreter(nil)
	RegisterKeybindFunctions(i, func(mode, sequence, action string, args []string) error {
		return nil
	})

	if _, err := i.Run(`keybind.bind("Mod4-h")`); err == nil {
		t.Fatal("expected an error for too few arguments")
	}
}
