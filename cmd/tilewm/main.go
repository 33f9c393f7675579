package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/1broseidon/tilewm/internal/config"
	"github.com/1broseidon/tilewm/internal/events"
	"github.com/1broseidon/tilewm/internal/ipc"
	"github.com/1broseidon/tilewm/internal/keybind"
	"github.com/1broseidon/tilewm/internal/orchestrator"
	"github.com/1broseidon/tilewm/internal/popup"
	"github.com/1broseidon/tilewm/internal/reload"
	nogscript "github.com/1broseidon/tilewm/internal/script"
	"github.com/1broseidon/tilewm/internal/store"
	"github.com/1broseidon/tilewm/internal/x11"
)

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		os.Exit(runDaemon(os.Args[2:]))
	case "reload":
		os.Exit(runClientCommand(os.Args[2:], "reload", func(c *ipc.Client) error { return c.Reload() }))
	case "exit":
		os.Exit(runClientCommand(os.Args[2:], "exit", func(c *ipc.Client) error { return c.Exit() }))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "help", "-h", "--help":
		printUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage(os.Stderr)
		os.Exit(2)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: tilewm <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon    Start the tilewm daemon (foreground)")
	fmt.Fprintln(w, "  reload    Ask the daemon to reload its configuration script")
	fmt.Fprintln(w, "  exit      Ask the daemon to shut down gracefully")
	fmt.Fprintln(w, "  status    Show daemon status")
}

func displayName() string {
	d := os.Getenv("DISPLAY")
	if d == "" {
		d = ":0"
	}
	return d
}

func runClientCommand(args []string, name string, do func(*ipc.Client) error) int {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	client := ipc.NewClient(displayName())
	if err := do(client); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	client := ipc.NewClient(displayName())
	status, err := client.GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	fmt.Printf("daemon_running: %v\n", status.DaemonRunning)
	fmt.Printf("uptime_seconds: %d\n", status.UptimeSeconds)
	for _, d := range status.Displays {
		fmt.Printf("display %d (%s): workspace=%d windows=%d\n", d.ID, d.Name, d.ActiveWorkspace, d.WindowCount)
	}
	return 0
}

// daemonRig bundles everything runDaemon wires up that the config-reload
// path also needs to touch, so a reload can reach the same logger,
// keybind manager, and mode table the startup path built.
type daemonRig struct {
	logger    *slog.Logger
	state     *orchestrator.AppState
	keybinds  *keybind.Manager
	baseMode  *keybind.Mode
	modes     map[string]*keybind.Mode
	bus       *events.Bus
	searchDir string
}

// loadScript parses path and (re-)registers every root-module function
// family against a fresh interpreter, binding keybindings into rig's mode
// table as it goes. Used both at startup and as reload.Watcher's Parser.
//
// This re-runs the whole script on every reload; old and new bindings are
// not diffed. internal/keybind.Manager grabs keys only in PushMode, which
// runs once at startup, and never ungrabs: a binding removed from the
// script stays grabbed until the daemon restarts, and a key sequence first
// added by a reload is not grabbed. config.* writes land in a ConfigStore
// created for this run, which nothing else reads.
func (r *daemonRig) loadScript(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config script: %w", err)
	}

	i := nogscript.NewInterpreter([]string{r.searchDir})
	nogscript.RegisterWMFunctions(i, orchestrator.NewScriptDispatcher(r.bus))
	nogscript.RegisterConfigFunctions(i, nogscript.NewConfigStore(nil))
	nogscript.RegisterKeybindFunctions(i, func(mode, sequence, action string, args []string) error {
		m := r.baseMode
		if mode != "" {
			existing, ok := r.modes[mode]
			if !ok {
				existing = keybind.NewMode(mode)
				r.modes[mode] = existing
			}
			m = existing
		}
		m.Bind(sequence, keybind.Binding{Action: action, Args: args})
		return nil
	})

	pluginsDir := r.searchDir
	if mgr, err := nogscript.NewPluginManager(pluginsDir); err == nil {
		nogscript.RegisterPluginFunctions(i, mgr)
	} else {
		r.logger.Warn("plugin manager unavailable", "error", err)
	}

	if _, err := i.Run(string(data)); err != nil {
		return fmt.Errorf("running config script: %w", err)
	}
	return nil
}

func runDaemon(args []string) int {
	fs := flag.NewFlagSet("daemon", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	state, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load daemon state: %v", err)
	}
	scriptPath, err := config.ScriptPath()
	if err != nil {
		log.Fatalf("failed to resolve config script path: %v", err)
	}
	configDir, err := config.Dir()
	if err != nil {
		log.Fatalf("failed to resolve config dir: %v", err)
	}

	conn, err := x11.NewConnection()
	if err != nil {
		log.Fatalf("failed to connect to display: %v", err)
	}
	defer conn.Close()
	logger.Info("connected to X11 display")

	bus := events.NewBus()
	popups := popup.NewManager(bus)

	opts := orchestrator.Options{OuterGap: state.OuterGap, InnerGap: state.InnerGap}
	appState := orchestrator.New(bus, conn, popups, opts, logger)

	displays, err := conn.EnumerateDisplays(0)
	if err != nil {
		log.Fatalf("failed to enumerate displays: %v", err)
	}
	dn := displayName()
	for _, d := range displays.All() {
		storePath, err := store.DefaultPath(fmt.Sprintf("%s-%d", dn, d.ID))
		if err != nil {
			log.Fatalf("failed to resolve store path: %v", err)
		}
		if err := appState.AddDisplay(d, store.New(storePath)); err != nil {
			log.Fatalf("failed to attach display %d: %v", d.ID, err)
		}
	}

	keybinds := keybind.NewManager(conn.XUtil, conn.Root, bus)
	rig := &daemonRig{
		logger:    logger,
		state:     appState,
		keybinds:  keybinds,
		baseMode:  keybind.NewMode("base"),
		modes:     map[string]*keybind.Mode{},
		bus:       bus,
		searchDir: configDir,
	}
	if err := rig.loadScript(scriptPath); err != nil {
		logger.Error("initial config script failed, starting with no keybindings", "error", err)
	}
	if err := keybinds.PushMode(rig.baseMode); err != nil {
		log.Fatalf("failed to grab base keybindings: %v", err)
	}

	if err := conn.ListenEvents(bus); err != nil {
		log.Fatalf("failed to register window listeners: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	watcher := reload.New(scriptPath, rig.loadScript, bus, logger)
	go func() {
		if err := watcher.Run(ctx); err != nil {
			logger.Error("config watcher exited", "error", err)
		}
	}()

	ipcServer, err := ipc.NewServer(dn, appState, watcher, cancel, logger)
	if err != nil {
		log.Fatalf("failed to create IPC server: %v", err)
	}
	if err := ipcServer.Start(); err != nil {
		log.Fatalf("failed to start IPC server: %v", err)
	}
	defer ipcServer.Stop()

	go func() {
		if err := appState.Run(ctx); err != nil {
			logger.Error("orchestrator loop exited", "error", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("shutting down")
		bus.Publish(events.Shutdown{})
		time.Sleep(100 * time.Millisecond) // let the orchestrator persist state
		cancel()
		ipcServer.Stop()
		conn.Close()
		os.Exit(0)
	}()

	logger.Info("entering event loop")
	conn.RunEventLoop()
	return 0
}
