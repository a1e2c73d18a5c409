package engine

import (
	"errors"
	"fmt"
	"sort"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/oxhq/lintfx/core"
)

// VisitFunc is an immediate rule callback, invoked once for every visited
// node whose kind the rule registered for.
type VisitFunc func(rc *RunContext, node *sitter.Node)

// DeferredFunc is a two-phase rule callback, invoked once after the walk.
type DeferredFunc func(rc *RunContext)

// Binding pairs a rule descriptor with the node-kind hooks it contributes to
// a session. Bindings with per-file state (two-phase rules) must be built
// fresh for every session; sessions never share hook closures.
type Binding struct {
	Descriptor core.RuleDescriptor
	Hooks      map[core.NodeKind]VisitFunc
}

// ErrRegistryFrozen is returned by Register after Build has been called.
var ErrRegistryFrozen = errors.New("registry is frozen")

type callback struct {
	rule core.RuleID
	fn   VisitFunc
	seq  int
}

// Registry maps node kinds to the ordered list of rule callbacks interested
// in that kind. It is built once per session; Build freezes it so the walk
// can never observe a mutating index.
type Registry struct {
	hooks   map[core.NodeKind][]callback
	nextSeq int
	frozen  bool
}

// NewRegistry creates an empty, unfrozen registry.
func NewRegistry() *Registry {
	return &Registry{hooks: make(map[core.NodeKind][]callback)}
}

// Register adds a callback for one node kind. Multiple rules may register
// for the same kind; they fire in registration order. Registration after
// Build fails with ErrRegistryFrozen.
func (r *Registry) Register(kind core.NodeKind, rule core.RuleID, fn VisitFunc) error {
	if r.frozen {
		return fmt.Errorf("register %s for %s: %w", rule, kind, ErrRegistryFrozen)
	}
	if kind == core.KindInvalid {
		return fmt.Errorf("register %s: invalid node kind", rule)
	}
	if fn == nil {
		return fmt.Errorf("register %s for %s: nil callback", rule, kind)
	}
	r.hooks[kind] = append(r.hooks[kind], callback{rule: rule, fn: fn, seq: r.nextSeq})
	r.nextSeq++
	return nil
}

// Build freezes the registry into an immutable kind-to-callbacks index.
// Per-kind order is the registration order, made reproducible by a stable
// sort on the registration sequence.
func (r *Registry) Build() {
	for kind := range r.hooks {
		list := r.hooks[kind]
		sort.SliceStable(list, func(i, j int) bool { return list[i].seq < list[j].seq })
	}
	r.frozen = true
}

// Frozen reports whether Build has been called.
func (r *Registry) Frozen() bool {
	return r.frozen
}

// callbacks returns the frozen list for one kind, nil when no rule cares.
func (r *Registry) callbacks(kind core.NodeKind) []callback {
	return r.hooks[kind]
}
