package lang_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/lintfx/core"
	"github.com/oxhq/lintfx/lang"
	"github.com/oxhq/lintfx/lang/golang"
	"github.com/oxhq/lintfx/lang/javascript"
)

func TestRegistry(t *testing.T) {
	r := lang.NewRegistry(golang.New(), javascript.New())

	assert.Equal(t, []string{"go", "javascript"}, r.Languages())

	cfg, ok := r.Get("go")
	require.True(t, ok)
	assert.Equal(t, "go", cfg.Language())

	_, ok = r.Get("cobol")
	assert.False(t, ok)

	tests := []struct {
		path string
		lang string
		ok   bool
	}{
		{path: "a/b/main.go", lang: "go", ok: true},
		{path: "web/app.js", lang: "javascript", ok: true},
		{path: "web/app.mjs", lang: "javascript", ok: true},
		{path: "README.md", ok: false},
		{path: "Makefile", ok: false},
	}
	for _, tt := range tests {
		cfg, ok := r.ForFile(tt.path)
		assert.Equal(t, tt.ok, ok, tt.path)
		if ok {
			assert.Equal(t, tt.lang, cfg.Language(), tt.path)
		}
	}
}

func TestParse_Go(t *testing.T) {
	src := []byte("package main\n\nfunc main() {}\n")
	tree, err := lang.Parse(context.Background(), golang.New(), src)
	require.NoError(t, err)
	defer tree.Close()

	root := tree.RootNode()
	assert.Equal(t, "source_file", root.Type())
	assert.Equal(t, uint32(len(src)), root.EndByte())
}

func TestKindMapping(t *testing.T) {
	goCfg := golang.New()
	jsCfg := javascript.New()

	tests := []struct {
		cfg      lang.Config
		nodeType string
		want     core.NodeKind
		ok       bool
	}{
		{goCfg, "call_expression", core.KindCall, true},
		{goCfg, "interpreted_string_literal", core.KindString, true},
		{goCfg, "raw_string_literal", core.KindString, true},
		{goCfg, "if_statement", core.KindConditional, true},
		{goCfg, "import_spec", core.KindImport, true},
		{goCfg, "source_file", 0, false},
		{jsCfg, "call_expression", core.KindCall, true},
		{jsCfg, "template_string", core.KindString, true},
		{jsCfg, "arrow_function", core.KindFunction, true},
		{jsCfg, "program", 0, false},
	}
	for _, tt := range tests {
		kind, ok := tt.cfg.Kind(tt.nodeType)
		assert.Equal(t, tt.ok, ok, "%s/%s", tt.cfg.Language(), tt.nodeType)
		if tt.ok {
			assert.Equal(t, tt.want, kind, "%s/%s", tt.cfg.Language(), tt.nodeType)
		}
	}
}
