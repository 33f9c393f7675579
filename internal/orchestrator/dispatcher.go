package orchestrator

import (
	"strconv"

	"github.com/1broseidon/tilewm/internal/events"
	nogscript "github.com/1broseidon/tilewm/internal/script"
)

// NewScriptDispatcher returns a nogscript.Dispatcher that publishes every
// workspace.*/window.*/popup.* call nogscript's wm.go registers as an
// events.ScriptCommand and blocks for AppState's reply, bridging the
// interpreter (running on whatever goroutine evaluates the startup script
// or a fired keybinding's callback) to the orchestrator's single consumer
// loop without either package importing the other's concrete types.
func NewScriptDispatcher(bus *events.Bus) nogscript.Dispatcher {
	return func(command string, args []nogscript.Value) (nogscript.Value, error) {
		strArgs := make([]string, len(args))
		for i, v := range args {
			strArgs[i] = valueToArg(v)
		}
		reply := make(chan events.ScriptResult, 1)
		bus.Publish(events.ScriptCommand{Name: command, Args: strArgs, Reply: reply})
		result := <-reply
		if result.Err != nil {
			return nogscript.Value{}, result.Err
		}
		return resultToValue(result.Value), nil
	}
}

// valueToArg stringifies a nogscript.Value the same way every command in
// internal/orchestrator/commands.go expects its string arguments encoded:
// numbers and strings render as their literal text, booleans as "true" or
// "false", everything else as its type name (commands never receive those as arguments today, but the
// fallback at least avoids ferrying a zero value silently).
func valueToArg(v nogscript.Value) string {
	switch v.Kind {
	case nogscript.KindValString:
		return v.Str
	case nogscript.KindValNumber:
		return strconv.Itoa(int(v.Number))
	case nogscript.KindValBool:
		return strconv.FormatBool(v.Bool)
	default:
		return v.TypeName()
	}
}

// resultToValue converts ExecuteCommand's untyped result back into a
// nogscript.Value. Commands return nil, bool, int, or string today;
// anything else is out of scope for what a script can currently observe
// back.
func resultToValue(v interface{}) nogscript.Value {
	switch val := v.(type) {
	case nil:
		return nogscript.Null
	case bool:
		return nogscript.Bool(val)
	case int:
		return nogscript.Num(int32(val))
	case string:
		return nogscript.Str(val)
	default:
		return nogscript.Null
	}
}
