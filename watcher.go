package main

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/pipe01/lispcss/internal/workspace"
	"github.com/tliron/commonlog"
)

var watchLog = commonlog.GetLogger("lispcss.watch")

type Watcher struct {
	mu                          sync.Mutex
	watchingDirs, watchingFiles map[string]struct{}
	started                     bool

	// compileMu keeps recompilations of the same output from interleaving.
	compileMu sync.Mutex

	cli     *cli
	ws      *workspace.Workspace
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewWatcher creates a watcher that recompiles files through c. Events are
// not processed until Start is called.
func NewWatcher(c *cli) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	return &Watcher{
		watchingDirs:  make(map[string]struct{}),
		watchingFiles: make(map[string]struct{}),
		cli:           c,
		ws:            workspace.New("/"),
		watcher:       watcher,
		done:          make(chan struct{}),
	}, nil
}

func (w *Watcher) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		return
	}
	w.started = true

	go w.eventLoop()
}

func (w *Watcher) WatchFile(path string) error {
	fullPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.watchingFiles[fullPath] = struct{}{}

	// Editors often replace files instead of writing them, so watch the folder
	dir := filepath.Dir(fullPath)
	if _, ok := w.watchingDirs[dir]; ok {
		return nil
	}

	err = w.watcher.Add(dir)
	if err != nil {
		return err
	}

	w.watchingDirs[dir] = struct{}{}

	return nil
}

func (w *Watcher) isWatching(fullPath string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	_, ok := w.watchingFiles[fullPath]
	return ok
}

// Close stops watching and waits for the event loop to finish.
func (w *Watcher) Close() error {
	err := w.watcher.Close()

	w.mu.Lock()
	started := w.started
	w.mu.Unlock()

	if started {
		<-w.done
	}

	return err
}

func (w *Watcher) eventLoop() {
	defer close(w.done)

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			fname, err := filepath.Abs(event.Name)
			if err != nil || !w.isWatching(fname) {
				continue
			}

			w.fileModified(fname)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			watchLog.Errorf("watcher error: %s", err)
		}
	}
}

func (w *Watcher) fileModified(path string) {
	fullPath, err := filepath.Abs(path)
	if err != nil {
		watchLog.Errorf("failed to resolve %q: %s", path, err)
		return
	}

	w.compileMu.Lock()
	defer w.compileMu.Unlock()

	watchLog.Infof("file %q modified, recompiling...", filepath.Base(fullPath))

	w.ws.Invalidate(fullPath)

	_, err = w.cli.generateFile(w.ws, fullPath)
	if err != nil {
		watchLog.Errorf("failed to compile file %q: %s", fullPath, err)
	}
}
