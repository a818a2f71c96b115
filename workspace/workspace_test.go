package workspace

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/yal/lockfile"
)

const validLockfile = `# banner

__metadata:
  version: 8

"ms@npm:^2.1.1":
  version: 2.1.3
  resolution: "ms@npm:2.1.3"
  linkType: hard
`

const cleanLockfile = `# banner

__metadata:
  version: 8

"ms@npm:^2.1.1":
  version: 2.1.3
  resolution: "ms@npm:2.1.3"
  linkType: hard

"app@workspace:.":
  version: 0.0.0-use.local
  resolution: "app@workspace:."
  dependencies:
    ms: "npm:^2.1.1"
  linkType: soft
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "yarn.lock"), validLockfile)
	writeFile(t, filepath.Join(root, "packages", "app", "yarn.lock"), validLockfile)
	writeFile(t, filepath.Join(root, "packages", "app", "package.json"), "{}")
	writeFile(t, filepath.Join(root, "node_modules", "dep", "yarn.lock"), validLockfile)
	writeFile(t, filepath.Join(root, ".git", "yarn.lock"), validLockfile)
	writeFile(t, filepath.Join(root, ".yarn", "cache", "yarn.lock"), validLockfile)

	paths, err := Discover(root)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	want := []string{
		filepath.Join(root, "packages", "app", "yarn.lock"),
		filepath.Join(root, "yarn.lock"),
	}
	if !reflect.DeepEqual(paths, want) {
		t.Errorf("Discover() = %v, want %v", paths, want)
	}
}

func TestDiscoverDotNamedRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), ".hidden")
	writeFile(t, filepath.Join(root, "yarn.lock"), validLockfile)

	paths, err := Discover(root)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if len(paths) != 1 {
		t.Errorf("len(paths) = %d, want 1 (root itself must not be skipped)", len(paths))
	}
}

func TestLoad(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "bad", "yarn.lock"), "not a lockfile\n")
	writeFile(t, filepath.Join(root, "good", "yarn.lock"), validLockfile)

	diags, err := Load(root)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(diags) != 2 {
		t.Fatalf("len(diags) = %d, want 2", len(diags))
	}

	bad := diags[0]
	if bad.Path != filepath.Join(root, "bad", "yarn.lock") {
		t.Errorf("diags[0].Path = %q, want discovery order", bad.Path)
	}
	if bad.Err == nil {
		t.Error("bad lockfile parsed without error")
	}
	if bad.Lockfile != nil {
		t.Error("bad lockfile yielded a Lockfile")
	}

	good := diags[1]
	if good.Err != nil {
		t.Errorf("good lockfile error = %v", good.Err)
	}
	if good.Lockfile == nil || len(good.Lockfile.Packages) != 1 {
		t.Errorf("good lockfile = %+v, want one package", good.Lockfile)
	}
}

func TestAnalyzeParseError(t *testing.T) {
	diags := analyze("not a lockfile\n")
	if len(diags) != 1 {
		t.Fatalf("len(diags) = %d, want 1", len(diags))
	}
	d := diags[0]
	if d.Severity == nil || *d.Severity != protocol.DiagnosticSeverityError {
		t.Errorf("Severity = %v, want error", d.Severity)
	}
	if d.Range.Start.Line != 0 {
		t.Errorf("Start.Line = %d, want 0", d.Range.Start.Line)
	}
	if d.Message == "" {
		t.Error("Message is empty")
	}
}

func TestAnalyzeMissingDependency(t *testing.T) {
	input := `# banner

__metadata:
  version: 8

"app@workspace:.":
  version: 0.0.0-use.local
  resolution: "app@workspace:."
  dependencies:
    lodash: "npm:^4.17.21"
  linkType: soft
`
	diags := analyze(input)
	if len(diags) != 1 {
		t.Fatalf("len(diags) = %d, want 1", len(diags))
	}
	d := diags[0]
	if d.Severity == nil || *d.Severity != protocol.DiagnosticSeverityWarning {
		t.Errorf("Severity = %v, want warning", d.Severity)
	}
	if !strings.Contains(d.Message, "lodash@npm:^4.17.21") {
		t.Errorf("Message = %q, want missing descriptor named", d.Message)
	}
	if !strings.Contains(d.Message, "app@workspace:.") {
		t.Errorf("Message = %q, want needer named", d.Message)
	}
	if d.Range.Start.Line != 5 {
		t.Errorf("Start.Line = %d, want 5 (entry header)", d.Range.Start.Line)
	}
}

func TestAnalyzeCleanFile(t *testing.T) {
	if diags := analyze(cleanLockfile); len(diags) != 0 {
		t.Errorf("analyze() = %+v, want none", diags)
	}
}

func TestPackageAtLine(t *testing.T) {
	lf, err := lockfile.Parse(cleanLockfile)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	tests := []struct {
		line int
		want string
	}{
		{1, ""},
		{4, ""},
		{6, "ms"},
		{8, "ms"},
		{11, "app"},
		{14, "app"},
		{99, "app"},
	}
	for _, tt := range tests {
		pkg := packageAtLine(cleanLockfile, lf, tt.line)
		got := ""
		if pkg != nil {
			got = pkg.Ident.Name
		}
		if got != tt.want {
			t.Errorf("packageAtLine(%d) = %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestTextDocumentHover(t *testing.T) {
	ls := NewLSPServer("0.0.1")
	uri := "file:///tmp/proj/yarn.lock"
	ls.documents[uri] = cleanLockfile

	hover, err := ls.textDocumentHover(nil, hoverParams(uri, 6))
	if err != nil {
		t.Fatalf("hover error = %v", err)
	}
	if hover == nil {
		t.Fatal("hover = nil, want package info")
	}
	markup, ok := hover.Contents.(protocol.MarkupContent)
	if !ok {
		t.Fatalf("Contents type = %T", hover.Contents)
	}
	if !strings.Contains(markup.Value, "**ms**") {
		t.Errorf("hover = %q, want package name", markup.Value)
	}
	if !strings.Contains(markup.Value, "version: 2.1.3") {
		t.Errorf("hover = %q, want version", markup.Value)
	}

	if hover, err := ls.textDocumentHover(nil, hoverParams(uri, 0)); err != nil || hover != nil {
		t.Errorf("hover on banner = %v, %v; want nil, nil", hover, err)
	}
	if hover, err := ls.textDocumentHover(nil, hoverParams("file:///absent", 6)); err != nil || hover != nil {
		t.Errorf("hover on unknown document = %v, %v; want nil, nil", hover, err)
	}
}

func hoverParams(uri string, line protocol.UInteger) *protocol.HoverParams {
	return &protocol.HoverParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uri},
			Position:     protocol.Position{Line: line},
		},
	}
}

func TestHoverTextAliases(t *testing.T) {
	input := `# banner

__metadata:
  version: 8

"ms@npm:2.1.2, ms@npm:^2.1.1":
  version: 2.1.2
  resolution: "ms@npm:2.1.2"
  linkType: hard
`
	lf, err := lockfile.Parse(input)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	text := hoverText(&lf.Packages[0])
	if !strings.Contains(text, "aliases: ms@npm:2.1.2, ms@npm:^2.1.1") {
		t.Errorf("hoverText() = %q, want aliases listed", text)
	}
	if !strings.Contains(text, "resolution: ms@npm:2.1.2") {
		t.Errorf("hoverText() = %q, want resolution", text)
	}
}

func TestURIHelpers(t *testing.T) {
	path, err := uriToPath("file:///tmp/proj/yarn.lock")
	if err != nil {
		t.Fatalf("uriToPath() error = %v", err)
	}
	if path != "/tmp/proj/yarn.lock" {
		t.Errorf("uriToPath() = %q", path)
	}

	uri := pathToURI("/tmp/proj/yarn.lock")
	if uri != "file:///tmp/proj/yarn.lock" {
		t.Errorf("pathToURI() = %q", uri)
	}

	back, err := uriToPath(string(uri))
	if err != nil || back != "/tmp/proj/yarn.lock" {
		t.Errorf("roundtrip = %q, %v", back, err)
	}
}

func TestLSPInitialize(t *testing.T) {
	ls := NewLSPServer("1.2.3")
	rootPath := "/tmp/proj"

	result, err := ls.initialize(nil, &protocol.InitializeParams{RootPath: &rootPath})
	if err != nil {
		t.Fatalf("initialize() error = %v", err)
	}
	if ls.rootDir != rootPath {
		t.Errorf("rootDir = %q, want %q", ls.rootDir, rootPath)
	}

	init, ok := result.(protocol.InitializeResult)
	if !ok {
		t.Fatalf("result type = %T", result)
	}
	if init.ServerInfo == nil || init.ServerInfo.Name != "yal" {
		t.Errorf("ServerInfo = %+v", init.ServerInfo)
	}
	if init.ServerInfo.Version == nil || *init.ServerInfo.Version != "1.2.3" {
		t.Errorf("Version = %v, want 1.2.3", init.ServerInfo.Version)
	}
}

func TestWatcherStop(t *testing.T) {
	w, err := NewWatcher()
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	if err := w.Watch(t.TempDir()); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	if err := w.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-w.Events():
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("events channel did not close after Stop")
		}
	}
}
