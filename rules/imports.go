package rules

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/oxhq/lintfx/core"
	"github.com/oxhq/lintfx/engine"
	"github.com/oxhq/lintfx/projcache"
)

// undeclaredImport checks Go imports of third-party modules against the
// require block of the project's go.mod. The go.mod content comes through
// the shared project cache, so one parse serves every file in the run.
func undeclaredImport() engine.Binding {
	return engine.Binding{
		Descriptor: core.RuleDescriptor{
			ID:              "undeclared-import",
			Description:     "import of a module the project manifest does not require",
			DefaultSeverity: core.SeverityError,
			Impact:          core.ImpactCritical,
			Cost:            core.CostHigh,
		},
		Hooks: map[core.NodeKind]engine.VisitFunc{
			core.KindImport: func(rc *engine.RunContext, node *sitter.Node) {
				pathNode := node.ChildByFieldName("path")
				if pathNode == nil {
					return
				}
				path := unquote(rc.Text(pathNode))
				if !thirdParty(path) {
					return
				}

				requires := rc.Fact(projcache.FactGoModRequires, projcache.GoModRequires(rc.ProjectRoot()))
				if !requires.Found {
					// No readable go.mod: nothing to check against.
					return
				}
				if declaredBy(path, projcache.StringMap(requires.Value)) {
					return
				}

				module := rc.Fact(projcache.FactGoModModule, projcache.GoModModule(rc.ProjectRoot()))
				if own, ok := module.Value.(string); module.Found && ok && underModule(path, own) {
					return
				}

				rc.Report(core.Diagnostic{
					Range:      engine.NodeRange(node),
					Message:    "import " + path + " is not required by go.mod",
					Correction: "add the module to go.mod or drop the import",
				})
			},
		},
	}
}

// thirdParty reports whether an import path points outside the standard
// library, by the usual dotted-first-segment convention.
func thirdParty(path string) bool {
	first, _, _ := strings.Cut(path, "/")
	return strings.Contains(first, ".")
}

func declaredBy(path string, requires map[string]string) bool {
	for module := range requires {
		if underModule(path, module) {
			return true
		}
	}
	return false
}

func underModule(path, module string) bool {
	return path == module || strings.HasPrefix(path, module+"/")
}
