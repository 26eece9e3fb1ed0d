package main

import (
	"fmt"
	"net/url"
	"path/filepath"
	"sync"

	"github.com/pipe01/lispcss/internal/workspace"
	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"
)

const lsName = "lispcss"

var version string = "0.0.1"
var handler protocol.Handler

var (
	documentsMu sync.Mutex
	documents   = map[string]string{}

	log = commonlog.GetLogger("lispcss.lsp")
)

func main() {
	commonlog.Configure(1, nil)

	protocol.SetTraceValue(protocol.TraceValueMessage)

	handler = protocol.Handler{
		Initialize:  initialize,
		Initialized: initialized,
		Shutdown:    shutdown,
		SetTrace:    setTrace,
		TextDocumentDidOpen: func(context *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
			documentsMu.Lock()
			documents[params.TextDocument.URI] = params.TextDocument.Text
			documentsMu.Unlock()

			return handleDocument(context, params.TextDocument.URI)
		},
		TextDocumentDidChange: func(context *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
			documentsMu.Lock()

			content, ok := documents[params.TextDocument.URI]
			if !ok {
				documentsMu.Unlock()
				return nil
			}

			content = applyChanges(content, params.ContentChanges)
			documents[params.TextDocument.URI] = content

			documentsMu.Unlock()

			return handleDocument(context, params.TextDocument.URI)
		},
		TextDocumentDidClose: func(context *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
			documentsMu.Lock()
			delete(documents, params.TextDocument.URI)
			documentsMu.Unlock()

			context.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
				URI:         params.TextDocument.URI,
				Diagnostics: []protocol.Diagnostic{},
			})

			return nil
		},
	}

	server := server.NewServer(&handler, lsName, false)

	server.RunStdio()
}

func applyChanges(content string, changes []any) string {
	for _, change := range changes {
		switch change := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			content = change.Text

		case protocol.TextDocumentContentChangeEvent:
			startIndex, endIndex := change.Range.IndexesIn(content)
			content = content[:startIndex] + change.Text + content[endIndex:]
		}
	}

	return content
}

func handleDocument(context *glsp.Context, docURI string) error {
	url, err := url.Parse(docURI)
	if err != nil {
		return fmt.Errorf("parse document uri: %w", err)
	}
	if url.Scheme != "file" {
		return fmt.Errorf("invalid document uri scheme %q", url.Scheme)
	}

	documentsMu.Lock()
	contents, ok := documents[docURI]
	documentsMu.Unlock()

	if !ok {
		return nil
	}

	ws := workspace.New(filepath.Dir(url.Path))

	diag := diagnose(ws, filepath.Base(url.Path), contents)

	log.Debugf("%s: %d diagnostic(s)", docURI, len(diag))

	context.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         docURI,
		Diagnostics: diag,
	})

	return nil
}

func initialize(context *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := handler.CreateServerCapabilities()

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &version,
		},
	}, nil
}

func initialized(context *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

func shutdown(context *glsp.Context) error {
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

func setTrace(context *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}
