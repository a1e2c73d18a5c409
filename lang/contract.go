// Package lang is the boundary to the external syntax model: tree-sitter
// grammars and the per-language mapping from grammar node types onto the
// engine's closed dispatch kinds. The engine consumes parsed trees through
// this package and never parses source itself.
package lang

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/oxhq/lintfx/core"
)

// Config describes one language: its grammar and its kind mapping.
type Config interface {
	// Language identifier, e.g. "go".
	Language() string

	// Extensions this language claims, including the dot.
	Extensions() []string

	// GetLanguage returns the tree-sitter grammar.
	GetLanguage() *sitter.Language

	// Kind maps a grammar node type to a dispatch kind. The second result
	// is false for node types the engine does not dispatch on.
	Kind(nodeType string) (core.NodeKind, bool)
}

// Registry resolves languages by identifier or file extension.
type Registry struct {
	byLang map[string]Config
	byExt  map[string]Config
}

// NewRegistry builds a registry from the given configs.
func NewRegistry(configs ...Config) *Registry {
	r := &Registry{
		byLang: make(map[string]Config, len(configs)),
		byExt:  make(map[string]Config),
	}
	for _, c := range configs {
		r.byLang[c.Language()] = c
		for _, ext := range c.Extensions() {
			r.byExt[ext] = c
		}
	}
	return r
}

// Get retrieves a config by language identifier.
func (r *Registry) Get(language string) (Config, bool) {
	c, ok := r.byLang[language]
	return c, ok
}

// ForFile resolves the config for a path by extension.
func (r *Registry) ForFile(path string) (Config, bool) {
	c, ok := r.byExt[filepath.Ext(path)]
	return c, ok
}

// Languages returns the registered language identifiers, sorted.
func (r *Registry) Languages() []string {
	langs := make([]string, 0, len(r.byLang))
	for l := range r.byLang {
		langs = append(langs, l)
	}
	sort.Strings(langs)
	return langs
}

// Parse parses source with the config's grammar. The caller owns the
// returned tree and must Close it after the session is done with it.
func Parse(ctx context.Context, cfg Config, source []byte) (*sitter.Tree, error) {
	parser := sitter.NewParser()
	lang := cfg.GetLanguage()
	if lang == nil {
		return nil, fmt.Errorf("lang %s: grammar unavailable", cfg.Language())
	}
	parser.SetLanguage(lang)

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("lang %s: parse: %w", cfg.Language(), err)
	}
	if tree == nil {
		return nil, fmt.Errorf("lang %s: parser returned no tree", cfg.Language())
	}
	return tree, nil
}
