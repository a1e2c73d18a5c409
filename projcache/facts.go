package projcache

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"golang.org/x/mod/modfile"
)

// Fact kinds served by the builtin compute functions. Rules pass these to
// RunContext.Fact together with the matching constructor below.
const (
	FactGoModModule     = "go.mod/module"
	FactGoModRequires   = "go.mod/requires"
	FactPackageJSONDeps = "package.json/dependencies"
	FactManifest        = "lintfx.toml"
)

// GoModModule reads the module path declared by the project's go.mod.
func GoModModule(projectRoot string) func() (any, error) {
	return func() (any, error) {
		f, err := parseGoMod(projectRoot)
		if err != nil {
			return nil, err
		}
		return f.Module.Mod.Path, nil
	}
}

// GoModRequires reads the require block of the project's go.mod as a
// module-path to version map, indirect requirements included.
func GoModRequires(projectRoot string) func() (any, error) {
	return func() (any, error) {
		f, err := parseGoMod(projectRoot)
		if err != nil {
			return nil, err
		}
		reqs := make(map[string]string, len(f.Require))
		for _, r := range f.Require {
			reqs[r.Mod.Path] = r.Mod.Version
		}
		return reqs, nil
	}
}

func parseGoMod(projectRoot string) (*modfile.File, error) {
	path := filepath.Join(projectRoot, "go.mod")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := modfile.Parse(path, data, nil)
	if err != nil {
		return nil, err
	}
	if f.Module == nil {
		return nil, os.ErrNotExist
	}
	return f, nil
}

// PackageJSONDeps reads dependencies and devDependencies from the project's
// package.json, merged into one name-to-constraint map.
func PackageJSONDeps(projectRoot string) func() (any, error) {
	return func() (any, error) {
		data, err := os.ReadFile(filepath.Join(projectRoot, "package.json"))
		if err != nil {
			return nil, err
		}
		var manifest struct {
			Dependencies    map[string]string `json:"dependencies"`
			DevDependencies map[string]string `json:"devDependencies"`
		}
		if err := json.Unmarshal(data, &manifest); err != nil {
			return nil, err
		}
		deps := make(map[string]string, len(manifest.Dependencies)+len(manifest.DevDependencies))
		for name, constraint := range manifest.Dependencies {
			deps[name] = constraint
		}
		for name, constraint := range manifest.DevDependencies {
			deps[name] = constraint
		}
		return deps, nil
	}
}

// Manifest reads the project's .lintfx.toml into a key-value map. Rules use
// it for project-declared capabilities and settings.
func Manifest(projectRoot string) func() (any, error) {
	return func() (any, error) {
		var settings map[string]any
		if _, err := toml.DecodeFile(filepath.Join(projectRoot, ".lintfx.toml"), &settings); err != nil {
			return nil, err
		}
		return settings, nil
	}
}

// StringMap converts a cached fact value back into the map form produced by
// GoModRequires and PackageJSONDeps. Returns nil for negative facts.
func StringMap(value any) map[string]string {
	m, _ := value.(map[string]string)
	return m
}
