package rules

import (
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/oxhq/lintfx/core"
	"github.com/oxhq/lintfx/engine"
)

var printlnToLog = map[string]string{
	"fmt.Println": "log.Println",
	"fmt.Printf":  "log.Printf",
	"fmt.Print":   "log.Print",
}

// noFmtPrintln flags fmt print calls left behind in Go code and proposes
// rewriting the callee to the log package equivalent.
func noFmtPrintln() engine.Binding {
	return engine.Binding{
		Descriptor: core.RuleDescriptor{
			ID:              "no-fmt-println",
			Description:     "fmt print calls belong in throwaway code, not committed code",
			DefaultSeverity: core.SeverityWarning,
			Impact:          core.ImpactLow,
			Cost:            core.CostLow,
		},
		Hooks: map[core.NodeKind]engine.VisitFunc{
			core.KindCall: func(rc *engine.RunContext, node *sitter.Node) {
				name := callee(rc, node)
				replacement, ok := printlnToLog[name]
				if !ok {
					return
				}
				fn := node.ChildByFieldName("function")
				d := core.Diagnostic{
					Range:      engine.NodeRange(node),
					Message:    fmt.Sprintf("%s call in committed code", name),
					Correction: fmt.Sprintf("use %s or return the value to the caller", replacement),
				}
				rc.ReportWithFix(d, func(_ *engine.RunContext, _ core.Diagnostic) (string, []core.Edit) {
					return fmt.Sprintf("replace %s with %s", name, replacement), []core.Edit{
						{Range: engine.NodeRange(fn), Replacement: replacement},
					}
				})
			},
		},
	}
}

// osExit flags os.Exit calls outside main, where they skip deferred cleanup
// and make the code path untestable.
func osExit() engine.Binding {
	return engine.Binding{
		Descriptor: core.RuleDescriptor{
			ID:              "os-exit",
			Description:     "os.Exit outside main skips deferred cleanup",
			DefaultSeverity: core.SeverityWarning,
			Impact:          core.ImpactHigh,
			Cost:            core.CostLow,
		},
		Hooks: map[core.NodeKind]engine.VisitFunc{
			core.KindCall: func(rc *engine.RunContext, node *sitter.Node) {
				if callee(rc, node) != "os.Exit" {
					return
				}
				if enclosingFunction(rc, node) == "main" {
					return
				}
				rc.Report(core.Diagnostic{
					Range:      engine.NodeRange(node),
					Message:    "os.Exit called outside main",
					Correction: "return an error and let main decide the exit code",
				})
			},
		},
	}
}

// noConsole flags console.* calls in JavaScript and proposes deleting the
// whole statement.
func noConsole() engine.Binding {
	return engine.Binding{
		Descriptor: core.RuleDescriptor{
			ID:              "no-console",
			Description:     "console calls left behind in committed JavaScript",
			DefaultSeverity: core.SeverityHint,
			Impact:          core.ImpactLow,
			Cost:            core.CostLow,
		},
		Hooks: map[core.NodeKind]engine.VisitFunc{
			core.KindCall: func(rc *engine.RunContext, node *sitter.Node) {
				if !strings.HasPrefix(callee(rc, node), "console.") {
					return
				}
				d := core.Diagnostic{
					Range:   engine.NodeRange(node),
					Message: "console call in committed code",
				}
				parent := node.Parent()
				if parent == nil || parent.Type() != "expression_statement" {
					rc.Report(d)
					return
				}
				rc.ReportWithFix(d, func(_ *engine.RunContext, _ core.Diagnostic) (string, []core.Edit) {
					return "remove console statement", []core.Edit{
						{Range: engine.NodeRange(parent), Replacement: ""},
					}
				})
			},
		},
	}
}
