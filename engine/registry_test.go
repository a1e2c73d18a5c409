package engine

import (
	"errors"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/oxhq/lintfx/core"
)

func noop(*RunContext, *sitter.Node) {}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()

	if err := r.Register(core.KindCall, "a", noop); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := r.Register(core.KindCall, "b", noop); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := r.Register(core.KindInvalid, "c", noop); err == nil {
		t.Fatal("expected error for invalid kind")
	}
	if err := r.Register(core.KindCall, "d", nil); err == nil {
		t.Fatal("expected error for nil callback")
	}
}

func TestRegistry_FrozenAfterBuild(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(core.KindCall, "a", noop); err != nil {
		t.Fatalf("register: %v", err)
	}

	r.Build()
	if !r.Frozen() {
		t.Fatal("registry not frozen after Build")
	}

	err := r.Register(core.KindCall, "b", noop)
	if !errors.Is(err, ErrRegistryFrozen) {
		t.Fatalf("register after Build = %v, want ErrRegistryFrozen", err)
	}
}

func TestRegistry_CallbackOrder(t *testing.T) {
	r := NewRegistry()
	ids := []core.RuleID{"zeta", "alpha", "mid"}
	for _, id := range ids {
		if err := r.Register(core.KindString, id, noop); err != nil {
			t.Fatalf("register: %v", err)
		}
	}
	r.Build()

	got := r.callbacks(core.KindString)
	if len(got) != len(ids) {
		t.Fatalf("callbacks = %d, want %d", len(got), len(ids))
	}
	for i, cb := range got {
		if cb.rule != ids[i] {
			t.Errorf("callback %d = %s, want %s (registration order must hold)", i, cb.rule, ids[i])
		}
	}

	if r.callbacks(core.KindComment) != nil {
		t.Error("expected nil callbacks for unregistered kind")
	}
}
