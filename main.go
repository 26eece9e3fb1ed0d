package main

import (
	goerrors "errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"github.com/pipe01/lispcss/compile"
	lerrors "github.com/pipe01/lispcss/errors"
	"github.com/pipe01/lispcss/internal/parser/ast"
	"github.com/pipe01/lispcss/internal/workspace"
	"github.com/tliron/commonlog"
	"github.com/tliron/commonlog/simple"
	"github.com/tliron/kutil/util"
)

var log = commonlog.GetLogger("lispcss")

type cli struct {
	outDir   string
	strict   bool
	dumpTree bool
	watch    bool
	verbose  int
	files    []string

	opts compile.Options

	app            *kingpin.Application
	stdout, stderr io.Writer
}

func main() {
	util.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line in args and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	c := &cli{
		stdout: stdout,
		stderr: stderr,
	}

	app := kingpin.New("lispcss", "Compile S-expression stylesheets into CSS").
		ErrorWriter(stderr).
		UsageWriter(stderr).
		Terminate(util.Exit)

	app.Flag("out-dir", "Folder to put generated stylesheets on, they are printed to stdout if empty").Short('o').StringVar(&c.outDir)
	app.Flag("strict", "Fail if any top-level group can't be compiled instead of leaving it out").BoolVar(&c.strict)
	app.Flag("tree", "Print the parsed expression tree of each file to stderr").BoolVar(&c.dumpTree)
	app.Flag("watch", "Watch files for changes and recompile automatically").Short('w').BoolVar(&c.watch)
	app.Flag("verbose", "Increase logging verbosity, can be repeated").Short('v').CounterVar(&c.verbose)
	app.Arg("files", "List of files to compile").Required().ExistingFilesVar(&c.files)

	c.app = app

	if _, err := app.Parse(args); err != nil {
		app.Errorf("%s, try --help", err)
		return 1
	}

	configureLogging(c.verbose, stderr)

	if c.outDir != "" {
		dir, err := filepath.Abs(c.outDir)
		if err != nil {
			app.Errorf("resolve output folder %q: %s", c.outDir, err)
			return 1
		}
		c.outDir = dir
	}

	c.opts = compile.Options{
		Strict: c.strict,
	}

	var err error
	if c.watch {
		err = c.watchFiles()
	} else {
		err = c.generateAll()
	}
	if err != nil {
		c.reportError(err)
		return 1
	}

	return 0
}

// configureLogging sends log messages to w as soon as they are emitted.
func configureLogging(verbosity int, w io.Writer) {
	backend := simple.NewBackend()
	backend.Buffered = false
	backend.Configure(verbosity, nil)

	if backend.Writer != io.Discard {
		backend.Writer = util.NewSyncedWriter(w)
	}

	commonlog.SetBackend(backend)
}

func (c *cli) generateAll() error {
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	ws := workspace.New(wd)

	for _, fname := range c.files {
		_, err := c.generateFile(ws, fname)
		if err != nil {
			return fmt.Errorf("compile file %q: %w", fname, err)
		}
	}

	return nil
}

// generateFile compiles fname and writes the stylesheet to the output folder, or
// to stdout when there is none. Nothing is written if compilation fails.
func (c *cli) generateFile(ws *workspace.Workspace, fname string) (outPath string, err error) {
	f, err := ws.Load(fname)
	if err != nil {
		return "", err
	}

	if c.dumpTree {
		fmt.Fprintln(c.stderr, ast.Dump(f))
	}

	for _, s := range f.Skipped {
		log.Warningf("%s: skipped group %d: %s", fname, s.Group, s.Err)
	}

	css, err := compile.File(f, c.opts)
	if err != nil {
		return "", err
	}

	if c.outDir == "" {
		_, err = io.WriteString(c.stdout, css)
		return "", err
	}

	base := filepath.Base(fname)
	outName := strings.TrimSuffix(base, filepath.Ext(base)) + ".css"
	outPath = filepath.Join(c.outDir, outName)

	err = os.WriteFile(outPath, []byte(css), 0o644)
	if err != nil {
		return "", fmt.Errorf("write output file: %w", err)
	}

	log.Infof("wrote %s", outPath)

	return outPath, nil
}

// reportError prints err to stderr, prefixed by the source location when it has one.
func (c *cli) reportError(err error) {
	var poserr lerrors.SituatedErr

	if goerrors.As(err, &poserr) {
		at := poserr.At()
		c.app.Errorf("%s: %s", &at, poserr.Unwrap())
	} else {
		c.app.Errorf("%s", err)
	}
}

func (c *cli) watchFiles() error {
	watcher, err := NewWatcher(c)
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	for _, f := range c.files {
		err = watcher.WatchFile(f)
		if err != nil {
			watcher.Close()
			return fmt.Errorf("watch file %q: %w", f, err)
		}
	}

	for _, f := range c.files {
		watcher.fileModified(f)
	}

	watcher.Start()

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)

	log.Notice("watching files for changes...")

	<-ch
	return watcher.Close()
}
