package nogscript

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// PluginManager installs and tracks `.ns` plugin sources fetched from git
// URLs into a plugins/ subdirectory of the config dir, per SPEC_FULL.md
// §7.2. Shells out to the system `git` binary via os/exec rather than
// vendoring a Go git client — plugin authors already need git installed
// to publish a plugin repo in the first place.
type PluginManager struct {
	dir string
}

// NewPluginManager returns a manager rooted at dir (typically
// "<config dir>/plugins"), creating it if it does not yet exist.
func NewPluginManager(dir string) (*PluginManager, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating plugin directory: %w", err)
	}
	return &PluginManager{dir: dir}, nil
}

func pluginNameFromURL(url string) string {
	name := url
	if idx := strings.LastIndexByte(name, '/'); idx >= 0 {
		name = name[idx+1:]
	}
	return strings.TrimSuffix(name, ".git")
}

// Install clones url into a subdirectory of the plugin root named after the
// repository, so subsequent `import pluginname.module` resolution works
// against it as an ordinary search directory.
func (p *PluginManager) Install(url string) error {
	name := pluginNameFromURL(url)
	if name == "" {
		return &GenericError{Message: "cannot derive plugin name from url " + url}
	}
	dest := filepath.Join(p.dir, name)
	if _, err := os.Stat(dest); err == nil {
		return &GenericError{Message: fmt.Sprintf("plugin %q already installed", name)}
	}
	cmd := exec.Command("git", "clone", "--depth", "1", url, dest)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("git clone %s: %w: %s", url, err, out)
	}
	return nil
}

// Update runs `git pull` in an already-installed plugin's directory.
func (p *PluginManager) Update(name string) error {
	dest := filepath.Join(p.dir, name)
	if _, err := os.Stat(dest); err != nil {
		return &GenericError{Message: fmt.Sprintf("plugin %q not installed", name)}
	}
	cmd := exec.Command("git", "-C", dest, "pull", "--ff-only")
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("git pull %s: %w: %s", name, err, out)
	}
	return nil
}

// Uninstall removes a plugin's directory entirely.
func (p *PluginManager) Uninstall(name string) error {
	dest := filepath.Join(p.dir, name)
	if _, err := os.Stat(dest); err != nil {
		return &GenericError{Message: fmt.Sprintf("plugin %q not installed", name)}
	}
	return os.RemoveAll(dest)
}

// List returns the names of every installed plugin.
func (p *PluginManager) List() ([]string, error) {
	entries, err := os.ReadDir(p.dir)
	if err != nil {
		return nil, fmt.Errorf("reading plugin directory: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// SearchDir returns the plugin root for use as a ModuleLoader search
// directory, letting `import pluginname.module` resolve alongside the
// user's own config-relative script sources.
func (p *PluginManager) SearchDir() string { return p.dir }

// RegisterPluginFunctions exposes plugin.install/update/uninstall/list to
// nogscript as foreign functions on a "plugin" module-like object, matching
// spec.md §6's root-module function naming (`plugin.install(url)`).
func RegisterPluginFunctions(i *Interpreter, mgr *PluginManager) {
	obj := NewObject(map[string]Value{
		"install": NewForeign("plugin.install", func(_ *Interpreter, args []Value) (Value, error) {
			if len(args) != 1 || args[0].Kind != KindValString {
				return Value{}, &GenericError{Message: "plugin.install(url) expects one String argument"}
			}
			if err := mgr.Install(args[0].Str); err != nil {
				return Value{}, err
			}
			return Null, nil
		}),
		"update": NewForeign("plugin.update", func(_ *Interpreter, args []Value) (Value, error) {
			if len(args) != 1 || args[0].Kind != KindValString {
				return Value{}, &GenericError{Message: "plugin.update(name) expects one String argument"}
			}
			if err := mgr.Update(args[0].Str); err != nil {
				return Value{}, err
			}
			return Null, nil
		}),
		"uninstall": NewForeign("plugin.uninstall", func(_ *Interpreter, args []Value) (Value, error) {
			if len(args) != 1 || args[0].Kind != KindValString {
				return Value{}, &GenericError{Message: "plugin.uninstall(name) expects one String argument"}
			}
			if err := mgr.Uninstall(args[0].Str); err != nil {
				return Value{}, err
			}
			return Null, nil
		}),
		"list": NewForeign("plugin.list", func(_ *Interpreter, args []Value) (Value, error) {
			names, err := mgr.List()
			if err != nil {
				return Value{}, err
			}
			items := make([]Value, len(names))
			for idx, n := range names {
				items[idx] = Str(n)
			}
			return NewArray(items), nil
		}),
	})
	i.DefineGlobal("plugin", obj)
}
