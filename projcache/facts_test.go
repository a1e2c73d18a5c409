package projcache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(root, name), []byte(content), 0o644))
}

func TestGoModFacts(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "go.mod", `module example.com/proj

go 1.22

require (
	github.com/stretchr/testify v1.9.0
	gorm.io/gorm v1.31.0 // indirect
)
`)

	module, err := GoModModule(root)()
	require.NoError(t, err)
	assert.Equal(t, "example.com/proj", module)

	value, err := GoModRequires(root)()
	require.NoError(t, err)
	requires := StringMap(value)
	assert.Equal(t, "v1.9.0", requires["github.com/stretchr/testify"])
	assert.Equal(t, "v1.31.0", requires["gorm.io/gorm"])
	assert.NotContains(t, requires, "example.com/proj")
}

func TestGoModFacts_Absent(t *testing.T) {
	root := t.TempDir()
	_, err := GoModRequires(root)()
	assert.Error(t, err)
}

func TestPackageJSONDeps(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "package.json", `{
  "name": "proj",
  "dependencies": {"react": "^18.0.0"},
  "devDependencies": {"eslint": "^9.0.0"}
}`)

	value, err := PackageJSONDeps(root)()
	require.NoError(t, err)
	deps := StringMap(value)
	assert.Equal(t, "^18.0.0", deps["react"])
	assert.Equal(t, "^9.0.0", deps["eslint"])
}

func TestManifest(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".lintfx.toml", `
[capabilities]
network = true
`)

	value, err := Manifest(root)()
	require.NoError(t, err)
	settings, ok := value.(map[string]any)
	require.True(t, ok)
	caps, ok := settings["capabilities"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, caps["network"])
}

func TestManifest_AbsentIsNegativeThroughCache(t *testing.T) {
	root := t.TempDir()
	c := New()

	fact := c.GetOrCompute(root, FactManifest, Manifest(root))
	assert.False(t, fact.Found)

	// Subsequent callers get the cached negative without touching the
	// filesystem again; observable via the compute counter.
	fact = c.GetOrCompute(root, FactManifest, Manifest(root))
	assert.False(t, fact.Found)
	assert.Equal(t, int64(1), c.Stats()["computes"])
}
