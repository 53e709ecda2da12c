// Package langserver is a minimal, read-only LSP server: on didOpen and
// didChange it re-runs parse -> elaborate -> semantic against the
// in-memory buffer and publishes the resulting diagnostics. It never
// lowers to IR, allocates registers, or invokes the assembler (spec.md's
// companion-server scope ends at semantic analysis).
package langserver

import (
	"fmt"
	"log"
	"net/url"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"c0c/internal/ast"
	"c0c/internal/elaborate"
	"c0c/internal/parser"
	"c0c/internal/semantic"
)

// Handler implements the LSP callbacks the companion server needs. It
// holds one buffer's worth of content and last-parsed AST per open file,
// the way the teacher's KansoHandler does, protected by an RWMutex since
// glsp dispatches notifications from its own goroutines.
type Handler struct {
	mu      sync.RWMutex
	content map[string]string
	asts    map[string]*ast.Program
}

func NewHandler() *Handler {
	return &Handler{
		content: make(map[string]string),
		asts:    make(map[string]*ast.Program),
	}
}

func (h *Handler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	log.Println("c0c-lsp: initialize")

	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: ptrBool(true),
				Change:    ptrSyncKind(protocol.TextDocumentSyncKindFull),
			},
		},
	}, nil
}

func (h *Handler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	log.Println("c0c-lsp: initialized")
	return nil
}

func (h *Handler) Shutdown(ctx *glsp.Context) error {
	log.Println("c0c-lsp: shutdown")
	return nil
}

func (h *Handler) SetTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	return nil
}

func (h *Handler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	log.Printf("c0c-lsp: opened %s\n", params.TextDocument.URI)
	return h.refreshAndPublish(ctx, params.TextDocument.URI, params.TextDocument.Text)
}

func (h *Handler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	log.Printf("c0c-lsp: changed %s\n", params.TextDocument.URI)

	var text string
	for _, change := range params.ContentChanges {
		if full, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			text = full.Text
		}
	}
	return h.refreshAndPublish(ctx, params.TextDocument.URI, text)
}

func (h *Handler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	log.Printf("c0c-lsp: closed %s\n", params.TextDocument.URI)

	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return fmt.Errorf("converting URI %s: %w", params.TextDocument.URI, err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.content, path)
	delete(h.asts, path)

	return nil
}

// refreshAndPublish re-runs the pipeline over text and sends the editor a
// fresh diagnostics set, including an empty one that clears previously
// reported errors once the buffer compiles cleanly.
func (h *Handler) refreshAndPublish(ctx *glsp.Context, uri protocol.DocumentUri, text string) error {
	path, err := uriToPath(uri)
	if err != nil {
		return fmt.Errorf("converting URI %s: %w", uri, err)
	}

	diagnostics, prog := h.analyze(path, text)

	h.mu.Lock()
	h.content[path] = text
	h.asts[path] = prog
	h.mu.Unlock()

	sendDiagnostics(ctx, uri, diagnostics)
	return nil
}

// analyze runs parse -> elaborate -> semantic over source and converts
// whatever failure stage is reached into diagnostics. It never returns an
// error itself: a malformed buffer is expected editor state, not a server
// fault.
func (h *Handler) analyze(path, source string) ([]protocol.Diagnostic, *ast.Program) {
	prog, parseErrs := parser.ParseSource(source)
	if len(parseErrs) > 0 {
		return convertParseErrors(parseErrs), nil
	}

	elaborated, err := elaborate.Elaborate(prog)
	if err != nil {
		return convertElaborateError(err), prog
	}

	if diags := semantic.Analyze(prog, elaborated); len(diags) > 0 {
		return convertCompilerErrors(diags), prog
	}

	return nil, prog
}

func sendDiagnostics(ctx *glsp.Context, uri protocol.DocumentUri, diagnostics []protocol.Diagnostic) {
	if diagnostics == nil {
		diagnostics = []protocol.Diagnostic{}
	}
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func uriToPath(rawURI string) (string, error) {
	u, err := url.Parse(rawURI)
	if err != nil {
		return "", fmt.Errorf("invalid URI %s: %w", rawURI, err)
	}

	path := u.Path
	if runtime.GOOS == "windows" && strings.HasPrefix(path, "/") && len(path) > 2 && path[2] == ':' {
		path = path[1:]
	}
	return filepath.FromSlash(path), nil
}

func ptrBool(b bool) *bool { return &b }

func ptrSyncKind(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind { return &k }
