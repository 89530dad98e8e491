package docstore_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/recipebox/pkg/docstore"
	"github.com/calvinalkan/recipebox/pkg/fs"
)

const soupFile = `{"recipes":{"Soup":{"title":"Soup","ingredients":[{"name":"Salt"}]}}}`

// writeBackingFile writes content to a fresh backing file and returns its path.
func writeBackingFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "recipes.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

// openLoaded opens path and waits for the load to succeed.
func openLoaded(t *testing.T, path string, opts ...docstore.Option) *docstore.Store {
	t.Helper()

	store := docstore.Open(path, opts...)
	require.NoError(t, store.Wait(t.Context()), "load %s", path)
	require.Equal(t, docstore.StateLoaded, store.State())

	return store
}

// readTop returns the top-level members of the backing file.
func readTop(t *testing.T, path string) map[string]json.RawMessage {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var top map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &top), "backing file: %s", data)

	return top
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	return string(data)
}

func titles(recipes []docstore.Recipe) []string {
	out := make([]string, 0, len(recipes))
	for _, r := range recipes {
		out = append(out, r.Title)
	}

	return out
}

func recipe(title string, ingredients ...string) docstore.Recipe {
	r := docstore.Recipe{Title: title, Ingredients: []docstore.Ingredient{}}
	for _, name := range ingredients {
		r.Ingredients = append(r.Ingredients, docstore.Ingredient{Name: name})
	}

	return r
}

// gatedFS holds ReadFile until release is called and counts writes.
type gatedFS struct {
	fs.FS

	gate   chan struct{}
	writes atomic.Int32
}

func newGatedFS() *gatedFS {
	return &gatedFS{FS: fs.NewReal(), gate: make(chan struct{})}
}

func (g *gatedFS) release() { close(g.gate) }

func (g *gatedFS) ReadFile(path string) ([]byte, error) {
	<-g.gate

	return g.FS.ReadFile(path)
}

func (g *gatedFS) WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	g.writes.Add(1)

	return g.FS.WriteFileAtomic(path, data, perm)
}

// countingFS counts writes without delaying anything.
type countingFS struct {
	fs.FS

	writes atomic.Int32
}

func newCountingFS() *countingFS {
	return &countingFS{FS: fs.NewReal()}
}

func (c *countingFS) WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	c.writes.Add(1)

	return c.FS.WriteFileAtomic(path, data, perm)
}
