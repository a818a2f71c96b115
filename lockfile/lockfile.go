// Package lockfile parses Yarn Berry yarn.lock files into a typed model.
//
// Parsing is all-or-nothing: Parse either returns a Lockfile that owns every
// one of its strings or a single typed error carrying a byte offset. Version
// ranges are kept verbatim; the package never interprets semver.
package lockfile

// Ident names a package, optionally under a scope. The scope is stored
// without its leading '@' or trailing '/'.
type Ident struct {
	Scope string
	Name  string
}

func (id Ident) String() string {
	if id.Scope != "" {
		return "@" + id.Scope + "/" + id.Name
	}
	return id.Name
}

// Descriptor is one requester string from an entry header: an ident plus the
// verbatim range it was requested with, protocol prefix included.
type Descriptor struct {
	Ident
	Range string
}

func (d Descriptor) String() string {
	return d.Ident.String() + "@" + d.Range
}

// Dependency is one name/range pair from a dependencies or peerDependencies
// block. Order and duplicates are preserved from the input.
type Dependency struct {
	Name  string
	Range string
}

// BinEntry maps an executable name to a path inside the package.
type BinEntry struct {
	Name string
	Path string
}

// DependencyMeta holds the per-dependency flags of a dependenciesMeta block.
// Nil pointers mark flags the entry does not carry.
type DependencyMeta struct {
	Built     *bool
	Optional  *bool
	Unplugged *bool
}

// PeerDependencyMeta holds the per-peer flags of a peerDependenciesMeta block.
type PeerDependencyMeta struct {
	Optional *bool
}

// LinkType states how a package is linked into the project.
type LinkType string

const (
	LinkTypeHard LinkType = "hard"
	LinkTypeSoft LinkType = "soft"
)

// Package is one resolved lockfile entry. Descriptors carries every alias of
// a multi-descriptor header, in header order; Ident is the first alias's
// ident. Optional string fields are empty when the entry omits them.
type Package struct {
	Descriptors          []Descriptor
	Ident                Ident
	Version              string
	Resolution           string
	Dependencies         []Dependency
	PeerDependencies     []Dependency
	Checksum             string
	LanguageName         string
	LinkType             LinkType
	Bin                  []BinEntry
	Conditions           string
	DependenciesMeta     map[string]DependencyMeta
	PeerDependenciesMeta map[string]PeerDependencyMeta
}

// Metadata is the __metadata block. CacheKey is empty when absent.
type Metadata struct {
	Version  int
	CacheKey string
}

// Lockfile is a parsed yarn.lock: the metadata block plus every package entry
// in file order. Entries are never merged or deduplicated.
type Lockfile struct {
	Metadata Metadata
	Packages []Package
}
