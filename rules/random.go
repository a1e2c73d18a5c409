package rules

import (
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/oxhq/lintfx/core"
	"github.com/oxhq/lintfx/engine"
)

var randConsumers = map[string]bool{
	"rand.Int":     true,
	"rand.Intn":    true,
	"rand.Int31":   true,
	"rand.Int63":   true,
	"rand.Float32": true,
	"rand.Float64": true,
	"rand.Perm":    true,
	"rand.Shuffle": true,
}

var randMitigations = map[string]bool{
	"rand.Seed":      true,
	"rand.New":       true,
	"rand.NewSource": true,
}

// unseededRandom is a two-phase rule: package-level rand consumers are only
// a problem when the file never seeds or constructs its own source, and
// that is only knowable once the whole file has been walked. Candidates are
// collected during dispatch; the verdict is deferred past the walk. At most
// one diagnostic per file, anchored at the first consumer.
func unseededRandom() engine.Binding {
	var candidates []core.SourceRange
	mitigated := false

	return engine.Binding{
		Descriptor: core.RuleDescriptor{
			ID:              "unseeded-random",
			Description:     "package-level math/rand use without a seeded source",
			DefaultSeverity: core.SeverityWarning,
			Impact:          core.ImpactMedium,
			Cost:            core.CostMedium,
		},
		Hooks: map[core.NodeKind]engine.VisitFunc{
			core.KindCall: func(rc *engine.RunContext, node *sitter.Node) {
				name := callee(rc, node)
				if randMitigations[name] {
					mitigated = true
					return
				}
				if !randConsumers[name] {
					return
				}
				if len(candidates) == 0 {
					rc.Defer(func(rc *engine.RunContext) {
						if mitigated || len(candidates) == 0 {
							return
						}
						rc.Report(core.Diagnostic{
							Range: candidates[0],
							Message: fmt.Sprintf(
								"%d math/rand call(s) without seeding or a dedicated source", len(candidates)),
							Correction: "construct a rand.New(rand.NewSource(...)) or seed once at startup",
						})
					})
				}
				candidates = append(candidates, engine.NodeRange(node))
			},
		},
	}
}
