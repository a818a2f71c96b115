// Package index builds descriptor and ident lookup tables over a parsed
// lockfile and checks that every dependency resolves to an entry.
package index

import (
	"strings"

	"github.com/dhamidi/yal/lockfile"
)

// Index maps descriptor strings and idents to their packages. When two
// entries claim the same descriptor string, the later entry wins.
type Index struct {
	lf           *lockfile.Lockfile
	byDescriptor map[string]*lockfile.Package
	byIdent      map[string][]*lockfile.Package
}

func New(lf *lockfile.Lockfile) *Index {
	ix := &Index{
		lf:           lf,
		byDescriptor: make(map[string]*lockfile.Package),
		byIdent:      make(map[string][]*lockfile.Package),
	}
	for i := range lf.Packages {
		pkg := &lf.Packages[i]
		for _, desc := range pkg.Descriptors {
			ix.byDescriptor[desc.String()] = pkg
		}
		ident := pkg.Ident.String()
		ix.byIdent[ident] = append(ix.byIdent[ident], pkg)
	}
	return ix
}

// ByDescriptor returns the package for a full descriptor string such as
// "ms@npm:^2.1.1", or nil when the lockfile has no such entry.
func (ix *Index) ByDescriptor(desc string) *lockfile.Package {
	return ix.byDescriptor[desc]
}

func (ix *Index) Lookup(desc lockfile.Descriptor) *lockfile.Package {
	return ix.byDescriptor[desc.String()]
}

// ByIdent returns every package whose ident matches, in file order.
func (ix *Index) ByIdent(ident string) []*lockfile.Package {
	return ix.byIdent[ident]
}

// Resolve finds the entry a dependency refers to. A range without a
// protocol prefix is retried with the implied npm protocol.
func (ix *Index) Resolve(dep lockfile.Dependency) *lockfile.Package {
	if pkg := ix.byDescriptor[dep.Name+"@"+dep.Range]; pkg != nil {
		return pkg
	}
	if !strings.Contains(dep.Range, ":") {
		return ix.byDescriptor[dep.Name+"@npm:"+dep.Range]
	}
	return nil
}

// MissingDependency is a dependency no lockfile entry satisfies, plus the
// entry that needs it.
type MissingDependency struct {
	Needer string
	lockfile.Dependency
}

// Missing reports every regular dependency that does not resolve to an
// entry, in file order. Peer dependencies are excluded since they are
// satisfied by the consumer, not the lockfile.
func (ix *Index) Missing() []MissingDependency {
	var missing []MissingDependency
	for i := range ix.lf.Packages {
		pkg := &ix.lf.Packages[i]
		needer := pkg.Resolution
		if needer == "" {
			needer = pkg.Ident.String()
		}
		for _, dep := range pkg.Dependencies {
			if ix.Resolve(dep) == nil {
				missing = append(missing, MissingDependency{Needer: needer, Dependency: dep})
			}
		}
	}
	return missing
}
