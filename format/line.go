package format

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/dhamidi/yal/lockfile"
)

// LineEncoder writes one tab-separated record per fact, suitable for
// grep and awk pipelines. Map-backed blocks are emitted in sorted key
// order so output is deterministic.
type LineEncoder struct {
	w  io.Writer
	lf *lockfile.Lockfile
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) Encode(lf *lockfile.Lockfile) error {
	e.lf = lf
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *LineEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	lf := e.lf

	fmt.Fprintf(&sb, "metadata\t%d\t%s\n", lf.Metadata.Version, orDash(lf.Metadata.CacheKey))

	for i := range lf.Packages {
		writePackageLines(&sb, &lf.Packages[i])
	}

	return []byte(sb.String()), nil
}

func writePackageLines(sb *strings.Builder, pkg *lockfile.Package) {
	fmt.Fprintf(sb, "package\t%s\t%s\t%s\t%s\n",
		pkg.Ident,
		orDash(pkg.Version),
		orDash(string(pkg.LinkType)),
		orDash(pkg.LanguageName),
	)
	for _, desc := range pkg.Descriptors {
		fmt.Fprintf(sb, "descriptor\t%s\n", desc)
	}
	for _, dep := range pkg.Dependencies {
		fmt.Fprintf(sb, "dependency\t%s\t%s\n", dep.Name, dep.Range)
	}
	for _, dep := range pkg.PeerDependencies {
		fmt.Fprintf(sb, "peerDependency\t%s\t%s\n", dep.Name, dep.Range)
	}
	for _, entry := range pkg.Bin {
		fmt.Fprintf(sb, "bin\t%s\t%s\n", entry.Name, entry.Path)
	}
	if pkg.Conditions != "" {
		fmt.Fprintf(sb, "conditions\t%s\n", pkg.Conditions)
	}
	for _, name := range sortedKeys(pkg.DependenciesMeta) {
		fmt.Fprintf(sb, "dependencyMeta\t%s\t%s\n", name, depMetaFlags(pkg.DependenciesMeta[name]))
	}
	for _, name := range sortedKeys(pkg.PeerDependenciesMeta) {
		fmt.Fprintf(sb, "peerDependencyMeta\t%s\t%s\n", name, peerMetaFlags(pkg.PeerDependenciesMeta[name]))
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func depMetaFlags(meta lockfile.DependencyMeta) string {
	var flags []string
	if meta.Built != nil {
		flags = append(flags, fmt.Sprintf("built=%t", *meta.Built))
	}
	if meta.Optional != nil {
		flags = append(flags, fmt.Sprintf("optional=%t", *meta.Optional))
	}
	if meta.Unplugged != nil {
		flags = append(flags, fmt.Sprintf("unplugged=%t", *meta.Unplugged))
	}
	if len(flags) == 0 {
		return "-"
	}
	return strings.Join(flags, ",")
}

func peerMetaFlags(meta lockfile.PeerDependencyMeta) string {
	if meta.Optional == nil {
		return "-"
	}
	return fmt.Sprintf("optional=%t", *meta.Optional)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
