package workspace

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/yal/index"
	"github.com/dhamidi/yal/lockfile"
	"github.com/dhamidi/yal/report"
)

const lsName = "yal"

// LSPServer publishes lockfile diagnostics over the language server
// protocol: parse errors as errors, unresolvable dependencies as
// warnings. Hover over an entry shows the package it pins.
type LSPServer struct {
	handler protocol.Handler
	server  *server.Server
	version string
	rootDir string

	mu        sync.Mutex
	documents map[string]string
}

func NewLSPServer(version string) *LSPServer {
	ls := &LSPServer{
		version:   version,
		documents: make(map[string]string),
	}

	ls.handler = protocol.Handler{
		Initialize:            ls.initialize,
		Initialized:           ls.initialized,
		Shutdown:              ls.shutdown,
		SetTrace:              ls.setTrace,
		TextDocumentDidOpen:   ls.textDocumentDidOpen,
		TextDocumentDidChange: ls.textDocumentDidChange,
		TextDocumentDidClose:  ls.textDocumentDidClose,
		TextDocumentDidSave:   ls.textDocumentDidSave,
		TextDocumentHover:     ls.textDocumentHover,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *LSPServer) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *LSPServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	rootDir := "."
	if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	} else if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			rootDir = path
		}
	}
	ls.rootDir = rootDir

	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    intPtr(int(protocol.TextDocumentSyncKindFull)),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *LSPServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	paths, err := Discover(ls.rootDir)
	if err != nil {
		return nil
	}
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		ls.checkDocument(ctx, pathToURI(path), string(data))
	}
	return nil
}

func (ls *LSPServer) shutdown(ctx *glsp.Context) error {
	return nil
}

func (ls *LSPServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *LSPServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	ls.checkDocument(ctx, params.TextDocument.URI, params.TextDocument.Text)
	return nil
}

func (ls *LSPServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			ls.checkDocument(ctx, params.TextDocument.URI, textChange.Text)
		}
	}
	return nil
}

func (ls *LSPServer) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	if params.Text != nil {
		ls.checkDocument(ctx, params.TextDocument.URI, *params.Text)
		return nil
	}
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	ls.checkDocument(ctx, params.TextDocument.URI, string(data))
	return nil
}

func (ls *LSPServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	ls.mu.Lock()
	delete(ls.documents, string(params.TextDocument.URI))
	ls.mu.Unlock()

	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

func (ls *LSPServer) textDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	ls.mu.Lock()
	content, ok := ls.documents[string(params.TextDocument.URI)]
	ls.mu.Unlock()
	if !ok {
		return nil, nil
	}

	lf, err := lockfile.Parse(content)
	if err != nil {
		return nil, nil
	}

	pkg := packageAtLine(content, lf, int(params.Position.Line)+1)
	if pkg == nil {
		return nil, nil
	}

	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: hoverText(pkg),
		},
	}, nil
}

// packageAtLine finds the entry whose header sits closest at or above
// the given 1-based line.
func packageAtLine(content string, lf *lockfile.Lockfile, line int) *lockfile.Package {
	ix := report.NewLineIndex(content)

	var best *lockfile.Package
	bestLine := 0
	for i := range lf.Packages {
		pkg := &lf.Packages[i]
		offset := strings.Index(content, pkg.Descriptors[0].String())
		if offset < 0 {
			continue
		}
		headerLine := ix.Locate(offset).Line
		if headerLine <= line && headerLine > bestLine {
			best = pkg
			bestLine = headerLine
		}
	}
	return best
}

func hoverText(pkg *lockfile.Package) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "**%s**\n\n", pkg.Ident.String())
	if pkg.Version != "" {
		fmt.Fprintf(&sb, "- version: %s\n", pkg.Version)
	}
	if pkg.Resolution != "" {
		fmt.Fprintf(&sb, "- resolution: %s\n", pkg.Resolution)
	}
	if pkg.LinkType != "" {
		fmt.Fprintf(&sb, "- linkType: %s\n", pkg.LinkType)
	}
	if pkg.Conditions != "" {
		fmt.Fprintf(&sb, "- conditions: %s\n", pkg.Conditions)
	}
	if len(pkg.Dependencies) > 0 {
		fmt.Fprintf(&sb, "- dependencies: %d\n", len(pkg.Dependencies))
	}
	if len(pkg.PeerDependencies) > 0 {
		fmt.Fprintf(&sb, "- peerDependencies: %d\n", len(pkg.PeerDependencies))
	}
	if len(pkg.Descriptors) > 1 {
		aliases := make([]string, len(pkg.Descriptors))
		for i, desc := range pkg.Descriptors {
			aliases[i] = desc.String()
		}
		fmt.Fprintf(&sb, "- aliases: %s\n", strings.Join(aliases, ", "))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (ls *LSPServer) checkDocument(ctx *glsp.Context, uri protocol.DocumentUri, content string) {
	ls.mu.Lock()
	ls.documents[string(uri)] = content
	ls.mu.Unlock()

	diagnostics := analyze(content)
	if diagnostics == nil {
		diagnostics = []protocol.Diagnostic{}
	}
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

// analyze turns one lockfile document into LSP diagnostics. A parse
// failure produces a single error; a parsed file produces one warning
// per dependency that resolves to no entry.
func analyze(content string) []protocol.Diagnostic {
	ix := report.NewLineIndex(content)

	lf, err := lockfile.Parse(content)
	if err != nil {
		return []protocol.Diagnostic{parseErrorDiagnostic(ix, err)}
	}

	var diagnostics []protocol.Diagnostic
	for _, m := range index.New(lf).Missing() {
		diagnostics = append(diagnostics, missingDiagnostic(content, ix, m))
	}
	return diagnostics
}

func parseErrorDiagnostic(ix *report.LineIndex, err error) protocol.Diagnostic {
	offset := 0
	var pe lockfile.ParseError
	if errors.As(err, &pe) {
		offset = pe.Pos()
	}
	severity := protocol.DiagnosticSeverityError
	source := lsName
	return protocol.Diagnostic{
		Range:    lineRange(ix.Locate(offset), 1),
		Severity: &severity,
		Source:   &source,
		Message:  err.Error(),
	}
}

func missingDiagnostic(content string, ix *report.LineIndex, m index.MissingDependency) protocol.Diagnostic {
	offset := strings.Index(content, m.Needer)
	if offset < 0 {
		offset = 0
	}
	severity := protocol.DiagnosticSeverityWarning
	source := lsName
	return protocol.Diagnostic{
		Range:    lineRange(ix.Locate(offset), len(m.Needer)),
		Severity: &severity,
		Source:   &source,
		Message:  fmt.Sprintf("no entry for %s@%s (needed by %s)", m.Name, m.Range, m.Needer),
	}
}

func lineRange(pos report.Position, width int) protocol.Range {
	line := protocol.UInteger(pos.Line - 1)
	start := protocol.UInteger(pos.Column - 1)
	return protocol.Range{
		Start: protocol.Position{Line: line, Character: start},
		End:   protocol.Position{Line: line, Character: start + protocol.UInteger(width)},
	}
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func pathToURI(path string) protocol.DocumentUri {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return protocol.DocumentUri("file://" + abs)
}

func boolPtr(b bool) *bool {
	return &b
}

func intPtr(i int) *protocol.TextDocumentSyncKind {
	v := protocol.TextDocumentSyncKind(i)
	return &v
}
