package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pipe01/lispcss/compile"
	"github.com/pipe01/lispcss/internal/parser/ast"
)

// Workspace loads source files relative to a root directory and keeps their
// parsed form until they are invalidated.
type Workspace struct {
	rootPath string

	mu          sync.Mutex
	parsedFiles map[string]*ast.File
}

func New(rootPath string) *Workspace {
	return &Workspace{
		rootPath:    rootPath,
		parsedFiles: make(map[string]*ast.File),
	}
}

func (w *Workspace) fullPath(relPath string) string {
	if filepath.IsAbs(relPath) {
		return relPath
	}

	return filepath.Join(w.rootPath, relPath)
}

func (w *Workspace) Load(relPath string) (*ast.File, error) {
	fullPath := w.fullPath(relPath)

	w.mu.Lock()
	f, ok := w.parsedFiles[fullPath]
	w.mu.Unlock()

	if ok {
		return f, nil
	}

	bytes, err := os.ReadFile(fullPath)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return w.LoadWithContents(relPath, bytes)
}

// LoadWithContents parses contents as if they were the contents of relPath,
// replacing any cached version of the file.
func (w *Workspace) LoadWithContents(relPath string, contents []byte) (*ast.File, error) {
	fullPath := w.fullPath(relPath)

	file, err := compile.Parse(contents, relPath)
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	w.parsedFiles[fullPath] = file
	w.mu.Unlock()

	return file, nil
}

// Compile loads relPath and renders it into a stylesheet.
func (w *Workspace) Compile(relPath string, opts compile.Options) (string, error) {
	f, err := w.Load(relPath)
	if err != nil {
		return "", err
	}

	return compile.File(f, opts)
}

// Invalidate drops the cached version of relPath, if any.
func (w *Workspace) Invalidate(relPath string) {
	w.mu.Lock()
	delete(w.parsedFiles, w.fullPath(relPath))
	w.mu.Unlock()
}
