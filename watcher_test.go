package main

import (
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWatcher(t *testing.T) (w *Watcher, dir, outDir string) {
	t.Helper()

	dir = t.TempDir()
	outDir = filepath.Join(dir, "out")
	require.NoError(t, os.Mkdir(outDir, 0o755))

	c := &cli{
		outDir: outDir,
		stdout: io.Discard,
		stderr: io.Discard,
	}

	w, err := NewWatcher(c)
	require.NoError(t, err)

	return w, dir, outDir
}

func readCSS(path string) string {
	css, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return string(css)
}

func TestWatcherInitialCompile(t *testing.T) {
	w, dir, outDir := newTestWatcher(t)
	defer w.Close()

	src := writeSource(t, dir, "style.lcss", "(body color red)")
	require.NoError(t, w.WatchFile(src))

	w.fileModified(src)

	assert.Equal(t, " body {\n    color: red;\n}\n", readCSS(filepath.Join(outDir, "style.css")))
}

func TestWatcherRecompiles(t *testing.T) {
	w, dir, outDir := newTestWatcher(t)
	defer w.Close()

	w.Start()

	names := []string{"a", "b", "c"}

	var wg sync.WaitGroup
	for _, name := range names {
		src := writeSource(t, dir, name+".lcss", "(body color red)")

		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, w.WatchFile(src))
		}()
	}
	wg.Wait()

	writeSource(t, dir, "ignored.lcss", "(p color black)")

	for _, name := range names {
		writeSource(t, dir, name+".lcss", "(p color "+name+")")
	}

	for _, name := range names {
		expect := " p {\n    color: " + name + ";\n}\n"
		out := filepath.Join(outDir, name+".css")

		require.Eventually(t, func() bool {
			return readCSS(out) == expect
		}, 5*time.Second, 20*time.Millisecond, name)
	}

	_, err := os.Stat(filepath.Join(outDir, "ignored.css"))
	assert.True(t, os.IsNotExist(err))
}

func TestWatcherCloseWithoutStart(t *testing.T) {
	w, _, _ := newTestWatcher(t)

	assert.NoError(t, w.Close())
}
