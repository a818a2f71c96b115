package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/yal/lockfile"
)

type JSONEncoder struct {
	w  io.Writer
	lf *lockfile.Lockfile
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(lf *lockfile.Lockfile) error {
	e.lf = lf
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	data := e.buildLockfileData()
	return json.MarshalIndent(data, "", "  ")
}

type jsonLockfile struct {
	Metadata jsonMetadata  `json:"metadata"`
	Packages []jsonPackage `json:"packages"`
}

type jsonMetadata struct {
	Version  int    `json:"version"`
	CacheKey string `json:"cacheKey,omitempty"`
}

type jsonPackage struct {
	Descriptors          []string                `json:"descriptors"`
	Ident                string                  `json:"ident"`
	Version              string                  `json:"version,omitempty"`
	Resolution           string                  `json:"resolution,omitempty"`
	Dependencies         []jsonDependency        `json:"dependencies,omitempty"`
	PeerDependencies     []jsonDependency        `json:"peerDependencies,omitempty"`
	Bin                  []jsonBinEntry          `json:"bin,omitempty"`
	Conditions           string                  `json:"conditions,omitempty"`
	Checksum             string                  `json:"checksum,omitempty"`
	LanguageName         string                  `json:"languageName,omitempty"`
	LinkType             string                  `json:"linkType,omitempty"`
	DependenciesMeta     map[string]jsonDepMeta  `json:"dependenciesMeta,omitempty"`
	PeerDependenciesMeta map[string]jsonPeerMeta `json:"peerDependenciesMeta,omitempty"`
}

type jsonDependency struct {
	Name  string `json:"name"`
	Range string `json:"range"`
}

type jsonBinEntry struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

type jsonDepMeta struct {
	Built     *bool `json:"built,omitempty"`
	Optional  *bool `json:"optional,omitempty"`
	Unplugged *bool `json:"unplugged,omitempty"`
}

type jsonPeerMeta struct {
	Optional *bool `json:"optional,omitempty"`
}

func (e *JSONEncoder) buildLockfileData() jsonLockfile {
	lf := e.lf
	data := jsonLockfile{
		Metadata: jsonMetadata{
			Version:  lf.Metadata.Version,
			CacheKey: lf.Metadata.CacheKey,
		},
		Packages: make([]jsonPackage, len(lf.Packages)),
	}
	for i := range lf.Packages {
		data.Packages[i] = buildPackageData(&lf.Packages[i])
	}
	return data
}

func buildPackageData(pkg *lockfile.Package) jsonPackage {
	data := jsonPackage{
		Descriptors:          make([]string, len(pkg.Descriptors)),
		Ident:                pkg.Ident.String(),
		Version:              pkg.Version,
		Resolution:           pkg.Resolution,
		Dependencies:         buildDependencies(pkg.Dependencies),
		PeerDependencies:     buildDependencies(pkg.PeerDependencies),
		Bin:                  buildBin(pkg.Bin),
		Conditions:           pkg.Conditions,
		Checksum:             pkg.Checksum,
		LanguageName:         pkg.LanguageName,
		LinkType:             string(pkg.LinkType),
		DependenciesMeta:     buildDependenciesMeta(pkg.DependenciesMeta),
		PeerDependenciesMeta: buildPeerDependenciesMeta(pkg.PeerDependenciesMeta),
	}
	for i, desc := range pkg.Descriptors {
		data.Descriptors[i] = desc.String()
	}
	return data
}

func buildDependencies(deps []lockfile.Dependency) []jsonDependency {
	if len(deps) == 0 {
		return nil
	}
	result := make([]jsonDependency, len(deps))
	for i, dep := range deps {
		result[i] = jsonDependency{Name: dep.Name, Range: dep.Range}
	}
	return result
}

func buildBin(entries []lockfile.BinEntry) []jsonBinEntry {
	if len(entries) == 0 {
		return nil
	}
	result := make([]jsonBinEntry, len(entries))
	for i, entry := range entries {
		result[i] = jsonBinEntry{Name: entry.Name, Path: entry.Path}
	}
	return result
}

func buildDependenciesMeta(meta map[string]lockfile.DependencyMeta) map[string]jsonDepMeta {
	if len(meta) == 0 {
		return nil
	}
	result := make(map[string]jsonDepMeta, len(meta))
	for name, m := range meta {
		result[name] = jsonDepMeta{
			Built:     m.Built,
			Optional:  m.Optional,
			Unplugged: m.Unplugged,
		}
	}
	return result
}

func buildPeerDependenciesMeta(meta map[string]lockfile.PeerDependencyMeta) map[string]jsonPeerMeta {
	if len(meta) == 0 {
		return nil
	}
	result := make(map[string]jsonPeerMeta, len(meta))
	for name, m := range meta {
		result[name] = jsonPeerMeta{Optional: m.Optional}
	}
	return result
}
