package index

import (
	"reflect"
	"testing"

	"github.com/dhamidi/yal/lockfile"
)

const indexInput = `# banner

__metadata:
  version: 8
  cacheKey: 10c0

"ms@npm:2.1.2, ms@npm:^2.1.1":
  version: 2.1.2
  resolution: "ms@npm:2.1.2"
  linkType: hard

"debug@npm:^4.3.4":
  version: 4.3.4
  resolution: "debug@npm:4.3.4"
  dependencies:
    ms: "npm:2.1.2"
  linkType: hard

"debug@npm:^3.0.0":
  version: 3.2.7
  resolution: "debug@npm:3.2.7"
  dependencies:
    ms: "npm:^2.1.1"
  linkType: hard

"app@workspace:.":
  version: 0.0.0-use.local
  resolution: "app@workspace:."
  dependencies:
    debug: "npm:^4.3.4"
    lodash: ^4.17.21
  peerDependencies:
    react: "npm:^18.0.0"
  linkType: soft
`

func buildIndex(t *testing.T) *Index {
	t.Helper()
	lf, err := lockfile.Parse(indexInput)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return New(lf)
}

func TestIndexByDescriptor(t *testing.T) {
	ix := buildIndex(t)

	pkg := ix.ByDescriptor("ms@npm:^2.1.1")
	if pkg == nil {
		t.Fatal("ByDescriptor() = nil, want ms package")
	}
	if pkg.Version != "2.1.2" {
		t.Errorf("Version = %q, want %q", pkg.Version, "2.1.2")
	}

	if alias := ix.ByDescriptor("ms@npm:2.1.2"); alias != pkg {
		t.Error("aliases of one entry resolve to different packages")
	}

	if got := ix.ByDescriptor("nope@npm:^1.0.0"); got != nil {
		t.Errorf("ByDescriptor() = %v, want nil", got)
	}
}

func TestIndexLookup(t *testing.T) {
	ix := buildIndex(t)
	desc := lockfile.Descriptor{
		Ident: lockfile.Ident{Name: "debug"},
		Range: "npm:^4.3.4",
	}
	pkg := ix.Lookup(desc)
	if pkg == nil || pkg.Version != "4.3.4" {
		t.Errorf("Lookup(%v) = %v, want debug 4.3.4", desc, pkg)
	}
}

func TestIndexByIdent(t *testing.T) {
	ix := buildIndex(t)

	pkgs := ix.ByIdent("debug")
	if len(pkgs) != 2 {
		t.Fatalf("len(ByIdent) = %d, want 2", len(pkgs))
	}
	versions := []string{pkgs[0].Version, pkgs[1].Version}
	if want := []string{"4.3.4", "3.2.7"}; !reflect.DeepEqual(versions, want) {
		t.Errorf("versions = %v, want %v (file order)", versions, want)
	}

	if got := ix.ByIdent("nope"); got != nil {
		t.Errorf("ByIdent() = %v, want nil", got)
	}
}

func TestIndexDuplicateDescriptorLastWins(t *testing.T) {
	input := `# banner

__metadata:
  version: 8

"dup@npm:1.0.0":
  version: 1.0.0
  linkType: hard

"dup@npm:1.0.0":
  version: 2.0.0
  linkType: hard
`
	lf, err := lockfile.Parse(input)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	ix := New(lf)

	pkg := ix.ByDescriptor("dup@npm:1.0.0")
	if pkg == nil {
		t.Fatal("ByDescriptor() = nil")
	}
	if pkg.Version != "2.0.0" {
		t.Errorf("Version = %q, want %q (later entry wins)", pkg.Version, "2.0.0")
	}
	if got := len(ix.ByIdent("dup")); got != 2 {
		t.Errorf("len(ByIdent) = %d, want 2", got)
	}
}

func TestIndexResolve(t *testing.T) {
	ix := buildIndex(t)

	tests := []struct {
		name        string
		dep         lockfile.Dependency
		wantVersion string
	}{
		{"exact protocol range", lockfile.Dependency{Name: "ms", Range: "npm:2.1.2"}, "2.1.2"},
		{"bare range implies npm", lockfile.Dependency{Name: "ms", Range: "^2.1.1"}, "2.1.2"},
		{"workspace range", lockfile.Dependency{Name: "app", Range: "workspace:."}, "0.0.0-use.local"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pkg := ix.Resolve(tt.dep)
			if pkg == nil {
				t.Fatalf("Resolve(%v) = nil", tt.dep)
			}
			if pkg.Version != tt.wantVersion {
				t.Errorf("Version = %q, want %q", pkg.Version, tt.wantVersion)
			}
		})
	}

	if pkg := ix.Resolve(lockfile.Dependency{Name: "lodash", Range: "^4.17.21"}); pkg != nil {
		t.Errorf("Resolve(lodash) = %v, want nil", pkg)
	}
}

func TestIndexMissing(t *testing.T) {
	ix := buildIndex(t)

	missing := ix.Missing()
	want := []MissingDependency{
		{
			Needer:     "app@workspace:.",
			Dependency: lockfile.Dependency{Name: "lodash", Range: "^4.17.21"},
		},
	}
	if !reflect.DeepEqual(missing, want) {
		t.Errorf("Missing() = %+v, want %+v", missing, want)
	}
}

func TestIndexMissingIgnoresPeers(t *testing.T) {
	ix := buildIndex(t)
	for _, m := range ix.Missing() {
		if m.Name == "react" {
			t.Error("Missing() reported a peer dependency")
		}
	}
}
