package nogscript

import "strconv"

// BindFunc registers one key sequence's binding in the named mode ("" means
// the base mode). action/args are the same opaque command shape
// events.KeyAction already carries, so a script-bound key fires through the
// identical ExecuteCommand table a fired hotkey or popup button would.
type BindFunc func(mode, sequence, action string, args []string) error

func valueToArgString(v Value) string {
	switch v.Kind {
	case KindValString:
		return v.Str
	case KindValNumber:
		return strconv.FormatInt(int64(v.Number), 10)
	case KindValBool:
		return strconv.FormatBool(v.Bool)
	default:
		return v.TypeName()
	}
}

// RegisterKeybindFunctions exposes the keybind.* root-module functions
// spec.md §4.2's mode-stack design implies the configuration script needs:
// bind a sequence to a command in the base mode, or in a named mode layered
// on top of it. Mirrors RegisterWMFunctions' Dispatcher-injection shape so
// internal/script stays free of a direct internal/keybind import.
func RegisterKeybindFunctions(i *Interpreter, bind BindFunc) {
	call := func(mode string) func(_ *Interpreter, args []Value) (Value, error) {
		return func(_ *Interpreter, args []Value) (Value, error) {
			if len(args) < 2 {
				return Null, &GenericError{Message: "keybind.bind requires at least (sequence, command)"}
			}
			sequence := valueToArgString(args[0])
			action := valueToArgString(args[1])
			cmdArgs := make([]string, 0, len(args)-2)
			for _, a := range args[2:] {
				cmdArgs = append(cmdArgs, valueToArgString(a))
			}
			if err := bind(mode, sequence, action, cmdArgs); err != nil {
				return Null, err
			}
			return Null, nil
		}
	}

	keybind := NewObject(map[string]Value{
		"bind": NewForeign("keybind.bind", call("")),
		"bindMode": NewForeign("keybind.bindMode", func(_ *Interpreter, args []Value) (Value, error) {
			if len(args) < 1 {
				return Null, &GenericError{Message: "keybind.bindMode requires a mode name"}
			}
			mode := valueToArgString(args[0])
			return call(mode)(nil, args[1:])
		}),
	})
	i.DefineGlobal("keybind", keybind)
}
