package rules

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/oxhq/lintfx/core"
	"github.com/oxhq/lintfx/engine"
)

// todoComment surfaces TODO and FIXME markers so they show up in reports
// instead of rotting in the tree.
func todoComment() engine.Binding {
	markers := []string{"TODO", "FIXME", "XXX"}
	return engine.Binding{
		Descriptor: core.RuleDescriptor{
			ID:              "todo-comment",
			Description:     "tracks TODO/FIXME markers in comments",
			DefaultSeverity: core.SeverityInfo,
			Impact:          core.ImpactLow,
			Cost:            core.CostLow,
		},
		Hooks: map[core.NodeKind]engine.VisitFunc{
			core.KindComment: func(rc *engine.RunContext, node *sitter.Node) {
				text := rc.Text(node)
				for _, marker := range markers {
					if strings.Contains(text, marker) {
						rc.Report(core.Diagnostic{
							Range:   engine.NodeRange(node),
							Message: marker + " marker in comment",
						})
						return
					}
				}
			},
		},
	}
}
