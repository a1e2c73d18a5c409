package rules

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/oxhq/lintfx/core"
	"github.com/oxhq/lintfx/engine"
)

// emptyBranch flags if statements whose body is empty and has no else
// branch, and proposes deleting the statement. The condition may still
// carry side effects, hence the hedged correction text.
func emptyBranch() engine.Binding {
	return engine.Binding{
		Descriptor: core.RuleDescriptor{
			ID:              "empty-branch",
			Description:     "if statement with an empty body and no else branch",
			DefaultSeverity: core.SeverityWarning,
			Impact:          core.ImpactMedium,
			Cost:            core.CostLow,
		},
		Hooks: map[core.NodeKind]engine.VisitFunc{
			core.KindConditional: func(rc *engine.RunContext, node *sitter.Node) {
				body := node.ChildByFieldName("consequence")
				if body == nil || body.NamedChildCount() > 0 {
					return
				}
				if node.ChildByFieldName("alternative") != nil {
					return
				}
				d := core.Diagnostic{
					Range:      engine.NodeRange(node),
					Message:    "conditional with empty body",
					Correction: "delete the statement, or keep the condition if it has side effects",
				}
				rc.ReportWithFix(d, func(_ *engine.RunContext, got core.Diagnostic) (string, []core.Edit) {
					return "delete empty conditional", []core.Edit{
						{Range: got.Range, Replacement: ""},
					}
				})
			},
		},
	}
}
