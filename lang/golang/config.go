package golang

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"

	"github.com/oxhq/lintfx/core"
)

// Config maps the Go grammar onto the engine's dispatch kinds.
type Config struct{}

// New returns the Go language config.
func New() *Config {
	return &Config{}
}

// Language identifier
func (c *Config) Language() string {
	return "go"
}

// Extensions supported
func (c *Config) Extensions() []string {
	return []string{".go"}
}

// GetLanguage returns the tree-sitter grammar for Go
func (c *Config) GetLanguage() *sitter.Language {
	return golang.GetLanguage()
}

var goKinds = map[string]core.NodeKind{
	"call_expression":            core.KindCall,
	"composite_literal":          core.KindComposite,
	"interpreted_string_literal": core.KindString,
	"raw_string_literal":         core.KindString,
	"if_statement":               core.KindConditional,
	"function_declaration":       core.KindFunction,
	"method_declaration":         core.KindFunction,
	"func_literal":               core.KindFunction,
	"import_spec":                core.KindImport,
	"identifier":                 core.KindIdentifier,
	"comment":                    core.KindComment,
	"assignment_statement":       core.KindAssignment,
	"short_var_declaration":      core.KindAssignment,
	"binary_expression":          core.KindBinary,
}

// Kind maps a Go grammar node type to a dispatch kind.
func (c *Config) Kind(nodeType string) (core.NodeKind, bool) {
	k, ok := goKinds[nodeType]
	return k, ok
}
