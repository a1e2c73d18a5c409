// Package rules holds the builtin rule set. Each rule is an independent,
// pure predicate over the syntax tree; the engine owns dispatch, isolation,
// deduplication and fix validation. Rules with per-file state (the deferred
// ones) are closures, so All must be called once per session.
package rules

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/oxhq/lintfx/engine"
)

// All returns a fresh instance of every builtin rule binding.
func All() []engine.Binding {
	return []engine.Binding{
		noFmtPrintln(),
		osExit(),
		noConsole(),
		todoComment(),
		emptyBranch(),
		unseededRandom(),
		undeclaredImport(),
	}
}

// callee returns the text of a call expression's function operand.
func callee(rc *engine.RunContext, call *sitter.Node) string {
	fn := call.ChildByFieldName("function")
	if fn == nil {
		return ""
	}
	return rc.Text(fn)
}

// enclosingFunction returns the name of the innermost function declaration
// containing the node, or "" at file scope.
func enclosingFunction(rc *engine.RunContext, node *sitter.Node) string {
	for cur := node.Parent(); cur != nil; cur = cur.Parent() {
		switch cur.Type() {
		case "function_declaration", "method_declaration":
			if name := cur.ChildByFieldName("name"); name != nil {
				return rc.Text(name)
			}
			return ""
		}
	}
	return ""
}

// unquote strips the surrounding quotes of a string literal's text.
func unquote(text string) string {
	return strings.Trim(text, "`\"'")
}
