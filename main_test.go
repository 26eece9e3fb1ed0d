package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSource(t *testing.T, dir, name, contents string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	return path
}

func TestRunOutDir(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")
	require.NoError(t, os.Mkdir(outDir, 0o755))

	src := writeSource(t, dir, "style.lcss", "(body color red)")

	var stdout, stderr bytes.Buffer
	code := run([]string{"-v", "--out-dir", outDir, src}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	css, err := os.ReadFile(filepath.Join(outDir, "style.css"))
	require.NoError(t, err)
	assert.Equal(t, " body {\n    color: red;\n}\n", string(css))

	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "wrote "+filepath.Join(outDir, "style.css"))
}

func TestRunStdout(t *testing.T) {
	dir := t.TempDir()
	a := writeSource(t, dir, "a.lcss", "(body color red)")
	b := writeSource(t, dir, "b.lcss", "(p margin 0)")

	var stdout, stderr bytes.Buffer
	code := run([]string{a, b}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	assert.Equal(t, " body {\n    color: red;\n}\n p {\n    margin: 0;\n}\n", stdout.String())
}

func TestRunSkippedGroupWarning(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "style.lcss", "(body color)\n(p color blue)")

	var stdout, stderr bytes.Buffer
	code := run([]string{src}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	assert.Equal(t, " p {\n    color: blue;\n}\n", stdout.String())
	assert.Contains(t, stderr.String(), "skipped group 0")
}

func TestRunErrors(t *testing.T) {
	type testCase struct {
		name     string
		contents string
		args     []string
		errorMsg string
	}

	cases := []testCase{
		{
			name:     "invalid encoding",
			contents: "(body color \xff)",
			errorMsg: ":1:13: invalid UTF-8 encoding",
		},
		{
			name:     "unbalanced parentheses",
			contents: "(body color red))",
			errorMsg: ":1:17: unbalanced closing parenthesis",
		},
		{
			name:     "strict mode",
			contents: "(body color)\n(p color blue)",
			args:     []string{"--strict"},
			errorMsg: "expected a value, found end of group",
		},
	}

	for _, c := range cases {
		c := c

		t.Run(c.name, func(t *testing.T) {
			src := writeSource(t, t.TempDir(), "style.lcss", c.contents)

			var stdout, stderr bytes.Buffer
			code := run(append(c.args, src), &stdout, &stderr)

			assert.Equal(t, 1, code)
			assert.Empty(t, stdout.String())
			assert.Contains(t, stderr.String(), "lispcss: error: ")
			assert.Contains(t, stderr.String(), c.errorMsg)
		})
	}
}

func TestRunMissingFile(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{filepath.Join(t.TempDir(), "missing.lcss")}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "lispcss: error: ")
}

func TestRunNoOutputOnFailure(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")
	require.NoError(t, os.Mkdir(outDir, 0o755))

	src := writeSource(t, dir, "style.lcss", "(body color red))")

	var stdout, stderr bytes.Buffer
	code := run([]string{"-o", outDir, src}, &stdout, &stderr)
	require.Equal(t, 1, code)

	_, err := os.Stat(filepath.Join(outDir, "style.css"))
	assert.True(t, os.IsNotExist(err))
}
