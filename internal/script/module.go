package nogscript

import (
	"fmt"
	"os"
	"path/filepath"
)

// Module is a loaded, cached script source file's public interface: the
// exported variables, functions, and classes an `import a.b.c` brings into
// scope. Ported from interpreter.rs's module cache-by-absolute-path
// behavior.
type Module struct {
	Path     string
	Exports  map[string]Value
}

// ModuleLoader resolves `import a.b.c` to `c.ns` under one of a
// configured set of source directories, caching by absolute path so a
// module is only parsed and evaluated once per process, matching spec.md
// §4.6's module semantics.
type ModuleLoader struct {
	searchDirs []string
	cache      map[string]*Module
}

// NewModuleLoader returns a loader that searches dirs, in order, for each
// imported path's `.ns` file.
func NewModuleLoader(dirs []string) *ModuleLoader {
	return &ModuleLoader{searchDirs: dirs, cache: map[string]*Module{}}
}

// Resolve turns a dotted import path into the absolute filesystem path of
// its `.ns` source, per spec.md §4.6 ("import a.b.c resolves c.ns under one
// of the interpreter's source-location directories").
func (l *ModuleLoader) Resolve(importPath string) (string, error) {
	rel := dottedPathToFile(importPath)
	for _, dir := range l.searchDirs {
		candidate := filepath.Join(dir, rel)
		if _, err := os.Stat(candidate); err == nil {
			abs, err := filepath.Abs(candidate)
			if err != nil {
				return "", err
			}
			return abs, nil
		}
	}
	return "", &ModuleNotFoundError{Name: importPath}
}

func dottedPathToFile(importPath string) string {
	parts := []byte(importPath)
	lastDot := -1
	for i, c := range parts {
		if c == '.' {
			lastDot = i
		}
	}
	name := importPath[lastDot+1:]
	dir := ""
	if lastDot >= 0 {
		dir = dottedToSlash(importPath[:lastDot])
	}
	if dir == "" {
		return name + ".ns"
	}
	return filepath.Join(dir, name+".ns")
}

func dottedToSlash(s string) string {
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			out[i] = '/'
		} else {
			out[i] = s[i]
		}
	}
	return string(out)
}

// Load resolves, parses, evaluates, and caches a module by import path.
// Re-importing the same absolute path returns the cached Module without
// re-executing its top-level statements.
func (l *ModuleLoader) Load(i *Interpreter, importPath string) (*Module, error) {
	abs, err := l.Resolve(importPath)
	if err != nil {
		return nil, err
	}
	if m, ok := l.cache[abs]; ok {
		return m, nil
	}

	src, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("reading module %s: %w", abs, err)
	}
	stmts, err := Parse(string(src))
	if err != nil {
		return nil, fmt.Errorf("parsing module %s: %w", abs, err)
	}

	moduleScope := NewScope()
	mod := &Module{Path: abs, Exports: map[string]Value{}}
	l.cache[abs] = mod // insert before evaluating: a cyclic import resolves to the partial module, not infinite recursion

	sub := i.withScope(moduleScope)
	for _, stmt := range stmts {
		exported, name, val, err := sub.execTopLevel(stmt)
		if err != nil {
			return nil, err
		}
		if exported {
			mod.Exports[name] = val
		}
	}

	return mod, nil
}
