package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pipe01/lispcss/compile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, contents string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(contents), 0o644))
}

func TestLoadCachesFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.lcss", "(body color red)")

	ws := New(dir)

	first, err := ws.Load("a.lcss")
	require.NoError(t, err)
	require.Len(t, first.Nodes, 1)
	assert.Equal(t, "a.lcss", first.Name)

	writeFile(t, dir, "a.lcss", "(body color red)(p color blue)")

	second, err := ws.Load("a.lcss")
	require.NoError(t, err)
	assert.Same(t, first, second)

	ws.Invalidate("a.lcss")

	third, err := ws.Load("a.lcss")
	require.NoError(t, err)
	assert.Len(t, third.Nodes, 2)
}

func TestLoadMissingFile(t *testing.T) {
	ws := New(t.TempDir())

	_, err := ws.Load("missing.lcss")
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadWithContentsReplacesCache(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.lcss", "(body color red)")

	ws := New(dir)

	_, err := ws.Load("a.lcss")
	require.NoError(t, err)

	f, err := ws.LoadWithContents("a.lcss", []byte("(ul (li color red))"))
	require.NoError(t, err)

	loaded, err := ws.Load(filepath.Join(dir, "a.lcss"))
	require.NoError(t, err)
	assert.Same(t, f, loaded)
}

func TestCompile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.lcss", "(ul padding 0 (li color red))\n(p color)")

	ws := New(dir)

	out, err := ws.Compile("a.lcss", compile.Options{})
	require.NoError(t, err)
	assert.Equal(t, " ul {\n    padding: 0;\n}\n ul li {\n    color: red;\n}\n", out)

	_, err = ws.Compile("a.lcss", compile.Options{Strict: true})
	var skipErr *compile.SkippedError
	assert.ErrorAs(t, err, &skipErr)
}
