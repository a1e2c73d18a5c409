package javascript

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"

	"github.com/oxhq/lintfx/core"
)

// Config maps the JavaScript grammar onto the engine's dispatch kinds.
type Config struct{}

// New returns the JavaScript language config.
func New() *Config {
	return &Config{}
}

// Language identifier
func (c *Config) Language() string {
	return "javascript"
}

// Extensions supported
func (c *Config) Extensions() []string {
	return []string{".js", ".jsx", ".mjs", ".cjs"}
}

// GetLanguage returns the tree-sitter grammar for JavaScript
func (c *Config) GetLanguage() *sitter.Language {
	return javascript.GetLanguage()
}

var jsKinds = map[string]core.NodeKind{
	"call_expression":       core.KindCall,
	"new_expression":        core.KindComposite,
	"object":                core.KindComposite,
	"string":                core.KindString,
	"template_string":       core.KindString,
	"if_statement":          core.KindConditional,
	"function_declaration":  core.KindFunction,
	"function_expression":   core.KindFunction,
	"arrow_function":        core.KindFunction,
	"method_definition":     core.KindFunction,
	"import_statement":      core.KindImport,
	"identifier":            core.KindIdentifier,
	"comment":               core.KindComment,
	"assignment_expression": core.KindAssignment,
	"binary_expression":     core.KindBinary,
}

// Kind maps a JavaScript grammar node type to a dispatch kind.
func (c *Config) Kind(nodeType string) (core.NodeKind, bool) {
	k, ok := jsKinds[nodeType]
	return k, ok
}
