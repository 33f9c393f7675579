package nogscript

// Dispatcher executes a window-manager command named by one of the
// foreign functions RegisterWMFunctions defines, returning its result.
// The orchestrator supplies this at startup, bridging nogscript to
// orchestrator-owned state without internal/script importing
// internal/events or internal/orchestrator directly (mirrors how
// RegisterConfigFunctions is handed a ConfigStore rather than reaching
// into the orchestrator's globals itself).
type Dispatcher func(command string, args []Value) (Value, error)

func dispatchForeign(name, command string, dispatch Dispatcher) Value {
	return NewForeign(name, func(_ *Interpreter, args []Value) (Value, error) {
		return dispatch(command, args)
	})
}

// RegisterWMFunctions exposes the workspace.*/window.*/popup.* root-module
// function families spec.md §6 and SPEC_FULL.md §7 describe. Each function
// is a thin Dispatcher call — nogscript only knows the command name and its
// arguments, never the underlying layout.Tree/workspace.Set/popup.Manager
// types, matching how config.* is kept independent of internal/config.
func RegisterWMFunctions(i *Interpreter, dispatch Dispatcher) {
	workspace := NewObject(map[string]Value{
		"switchTo":          dispatchForeign("workspace.switchTo", "workspace.switchTo", dispatch),
		"pin":               dispatchForeign("workspace.pin", "workspace.pin", dispatch),
		"unpin":             dispatchForeign("workspace.unpin", "workspace.unpin", dispatch),
		"isPinned":          dispatchForeign("workspace.isPinned", "workspace.isPinned", dispatch),
		"resize":            dispatchForeign("workspace.resize", "workspace.resize", dispatch),
		"resetRow":          dispatchForeign("workspace.resetRow", "workspace.resetRow", dispatch),
		"resetCol":          dispatchForeign("workspace.resetCol", "workspace.resetCol", dispatch),
		"setSplitDirection": dispatchForeign("workspace.setSplitDirection", "workspace.setSplitDirection", dispatch),
	})
	window := NewObject(map[string]Value{
		"focus":           dispatchForeign("window.focus", "window.focus", dispatch),
		"close":           dispatchForeign("window.close", "window.close", dispatch),
		"swap":            dispatchForeign("window.swap", "window.swap", dispatch),
		"moveIn":          dispatchForeign("window.moveIn", "window.moveIn", dispatch),
		"moveOut":         dispatchForeign("window.moveOut", "window.moveOut", dispatch),
		"fullscreen":      dispatchForeign("window.fullscreen", "window.fullscreen", dispatch),
		"getTitle":        dispatchForeign("window.getTitle", "window.getTitle", dispatch),
		"moveToWorkspace": dispatchForeign("window.moveToWorkspace", "window.moveToWorkspace", dispatch),
	})
	popup := NewObject(map[string]Value{
		"show":  dispatchForeign("popup.show", "popup.show", dispatch),
		"close": dispatchForeign("popup.close", "popup.close", dispatch),
	})
	i.DefineGlobal("workspace", workspace)
	i.DefineGlobal("window", window)
	i.DefineGlobal("popup", popup)

	// toggle_work_mode is a top-level function (spec.md §6's default root
	// module lists it alongside bind/mode/launch/quit, not namespaced under
	// workspace/window), flipping the global on/off for window management.
	i.DefineGlobal("toggle_work_mode", dispatchForeign("toggle_work_mode", "workMode.toggle", dispatch))
}
