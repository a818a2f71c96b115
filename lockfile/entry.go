package lockfile

const (
	propertyIndent  = 2
	childIndent     = 4
	metaFieldIndent = 6
)

// parseEntryBody folds property lines into a Package until the indentation
// returns to the entry's base level or the input ends.
func parseEntryBody(descs []Descriptor, c cursor) (Package, cursor, error) {
	pkg := Package{Descriptors: descs, Ident: descs[0].Ident}
	for {
		ind, c2 := scanIndent(c)
		if isLineEnd(c2.peek()) || ind != propertyIndent {
			break
		}
		var err error
		c, err = parseProperty(&pkg, c2)
		if err != nil {
			return Package{}, c, err
		}
	}
	return pkg, c, nil
}

// parseProperty classifies one property line by its key. Keys that are
// neither known block headers nor known simple fields are skipped together
// with any lines indented deeper than the property level.
func parseProperty(pkg *Package, c cursor) (cursor, error) {
	key, c, err := scanScalar(c)
	if err != nil {
		return c, err
	}
	if c.peek() != ':' {
		return c, &SyntaxError{Offset: c.pos, Msg: "expected ':' after key"}
	}
	c = c.skip(1)

	if isLineEnd(c.peek()) {
		c, err = scanLineEnd(c)
		if err != nil {
			return c, err
		}
		return parseBlock(pkg, key, c)
	}
	if c.peek() != ' ' {
		return c, &SyntaxError{Offset: c.pos, Msg: "expected space after ':'"}
	}
	for c.peek() == ' ' {
		c = c.skip(1)
	}
	return parseSimple(pkg, key, c)
}

func parseBlock(pkg *Package, key view, c cursor) (cursor, error) {
	var err error
	switch key {
	case "dependencies":
		pkg.Dependencies, c, err = parseDependencyBlock(c)
	case "peerDependencies":
		pkg.PeerDependencies, c, err = parseDependencyBlock(c)
	case "bin":
		pkg.Bin, c, err = parseBinBlock(c)
	case "dependenciesMeta":
		pkg.DependenciesMeta, c, err = parseDependencyMetaBlock(c)
	case "peerDependenciesMeta":
		pkg.PeerDependenciesMeta, c, err = parsePeerMetaBlock(c)
	default:
		c = skipDeeper(c, propertyIndent)
	}
	return c, err
}

func parseSimple(pkg *Package, key view, c cursor) (cursor, error) {
	switch key {
	case "conditions":
		v, c2 := scanRestOfLine(c)
		v, _ = trimSpaces(v, c.pos)
		pkg.Conditions = v.own()
		return scanLineEnd(c2)
	case "version", "resolution", "languageName", "linkType", "checksum":
		valOff := c.pos
		v, c2, err := scanScalar(c)
		if err != nil {
			return c2, err
		}
		if err := setSimple(pkg, key, v, valOff); err != nil {
			return c2, err
		}
		return scanLineEnd(c2)
	default:
		_, c = scanRestOfLine(c)
		c, err := scanLineEnd(c)
		if err != nil {
			return c, err
		}
		return skipDeeper(c, propertyIndent), nil
	}
}

func setSimple(pkg *Package, key, v view, off int) error {
	switch key {
	case "version":
		pkg.Version = v.own()
	case "resolution":
		pkg.Resolution = v.own()
	case "languageName":
		pkg.LanguageName = v.own()
	case "checksum":
		pkg.Checksum = v.own()
	case "linkType":
		switch v {
		case "hard":
			pkg.LinkType = LinkTypeHard
		case "soft":
			pkg.LinkType = LinkTypeSoft
		default:
			return &FormatError{Offset: off, Msg: "linkType must be hard or soft"}
		}
	}
	return nil
}

func parseDependencyBlock(c cursor) ([]Dependency, cursor, error) {
	deps := make([]Dependency, 0, countChildLines(c, childIndent))
	for {
		ind, c2 := scanIndent(c)
		if isLineEnd(c2.peek()) || ind < childIndent {
			break
		}
		if ind > childIndent {
			return nil, c, &SyntaxError{Offset: c2.pos, Msg: "unexpected indentation in dependency block"}
		}
		name, value, c3, err := parsePair(c2)
		if err != nil {
			return nil, c3, err
		}
		deps = append(deps, Dependency{Name: name.own(), Range: value.own()})
		c = c3
	}
	return deps, c, nil
}

func parseBinBlock(c cursor) ([]BinEntry, cursor, error) {
	bins := make([]BinEntry, 0, countChildLines(c, childIndent))
	for {
		ind, c2 := scanIndent(c)
		if isLineEnd(c2.peek()) || ind < childIndent {
			break
		}
		if ind > childIndent {
			return nil, c, &SyntaxError{Offset: c2.pos, Msg: "unexpected indentation in bin block"}
		}
		name, value, c3, err := parsePair(c2)
		if err != nil {
			return nil, c3, err
		}
		bins = append(bins, BinEntry{Name: name.own(), Path: value.own()})
		c = c3
	}
	return bins, c, nil
}

// parsePair reads one "name: value" child line.
func parsePair(c cursor) (view, view, cursor, error) {
	name, c, err := scanScalar(c)
	if err != nil {
		return "", "", c, err
	}
	if c.peek() != ':' {
		return "", "", c, &SyntaxError{Offset: c.pos, Msg: "expected ':' after name"}
	}
	c = c.skip(1)
	if c.peek() != ' ' {
		return "", "", c, &SyntaxError{Offset: c.pos, Msg: "expected space after ':'"}
	}
	for c.peek() == ' ' {
		c = c.skip(1)
	}
	value, c, err := scanScalar(c)
	if err != nil {
		return "", "", c, err
	}
	c, err = scanLineEnd(c)
	return name, value, c, err
}

func parseDependencyMetaBlock(c cursor) (map[string]DependencyMeta, cursor, error) {
	meta := make(map[string]DependencyMeta, countChildLines(c, childIndent))
	for {
		ind, c2 := scanIndent(c)
		if isLineEnd(c2.peek()) || ind < childIndent {
			break
		}
		if ind > childIndent {
			return nil, c, &SyntaxError{Offset: c2.pos, Msg: "unexpected indentation in meta block"}
		}
		name, c3, err := parseMetaName(c2)
		if err != nil {
			return nil, c3, err
		}
		var m DependencyMeta
		m, c3, err = parseMetaFields(c3)
		if err != nil {
			return nil, c3, err
		}
		meta[name.own()] = m
		c = c3
	}
	return meta, c, nil
}

func parsePeerMetaBlock(c cursor) (map[string]PeerDependencyMeta, cursor, error) {
	meta := make(map[string]PeerDependencyMeta, countChildLines(c, childIndent))
	for {
		ind, c2 := scanIndent(c)
		if isLineEnd(c2.peek()) || ind < childIndent {
			break
		}
		if ind > childIndent {
			return nil, c, &SyntaxError{Offset: c2.pos, Msg: "unexpected indentation in meta block"}
		}
		name, c3, err := parseMetaName(c2)
		if err != nil {
			return nil, c3, err
		}
		var m PeerDependencyMeta
		m, c3, err = parsePeerMetaFields(c3)
		if err != nil {
			return nil, c3, err
		}
		meta[name.own()] = m
		c = c3
	}
	return meta, c, nil
}

// parseMetaName reads the "name:" line opening one meta sub-block.
func parseMetaName(c cursor) (view, cursor, error) {
	name, c, err := scanScalar(c)
	if err != nil {
		return "", c, err
	}
	if c.peek() != ':' {
		return "", c, &SyntaxError{Offset: c.pos, Msg: "expected ':' after name"}
	}
	c, err = scanLineEnd(c.skip(1))
	return name, c, err
}

func parseMetaFields(c cursor) (DependencyMeta, cursor, error) {
	var m DependencyMeta
	for {
		key, value, valOff, c2, done, err := nextMetaField(c)
		if done || err != nil {
			return m, c2, err
		}
		c = c2
		var b bool
		switch key {
		case "built", "optional", "unplugged":
			b, err = parseBoolean(value, valOff)
			if err != nil {
				return DependencyMeta{}, c, err
			}
		default:
			continue
		}
		switch key {
		case "built":
			m.Built = &b
		case "optional":
			m.Optional = &b
		case "unplugged":
			m.Unplugged = &b
		}
	}
}

func parsePeerMetaFields(c cursor) (PeerDependencyMeta, cursor, error) {
	var m PeerDependencyMeta
	for {
		key, value, valOff, c2, done, err := nextMetaField(c)
		if done || err != nil {
			return m, c2, err
		}
		c = c2
		if key != "optional" {
			continue
		}
		b, err := parseBoolean(value, valOff)
		if err != nil {
			return PeerDependencyMeta{}, c, err
		}
		m.Optional = &b
	}
}

// nextMetaField reads one "key: value" line at the meta field level. done
// reports that the block ended before another field. Unknown keys still come
// back to the caller, which ignores them; their deeper lines are consumed
// here.
func nextMetaField(c cursor) (key, value view, valOff int, after cursor, done bool, err error) {
	ind, c2 := scanIndent(c)
	if isLineEnd(c2.peek()) || ind < metaFieldIndent {
		return "", "", 0, c, true, nil
	}
	if ind > metaFieldIndent {
		return "", "", 0, c, true, &SyntaxError{Offset: c2.pos, Msg: "unexpected indentation in meta fields"}
	}
	key, c2, err = scanScalar(c2)
	if err != nil {
		return "", "", 0, c2, false, err
	}
	if c2.peek() != ':' {
		return "", "", 0, c2, false, &SyntaxError{Offset: c2.pos, Msg: "expected ':' after key"}
	}
	c2 = c2.skip(1)
	if isLineEnd(c2.peek()) {
		c2, err = scanLineEnd(c2)
		if err != nil {
			return "", "", 0, c2, false, err
		}
		return "", "", 0, skipDeeper(c2, metaFieldIndent), false, nil
	}
	if c2.peek() != ' ' {
		return "", "", 0, c2, false, &SyntaxError{Offset: c2.pos, Msg: "expected space after ':'"}
	}
	for c2.peek() == ' ' {
		c2 = c2.skip(1)
	}
	valOff = c2.pos
	value, c2 = scanRestOfLine(c2)
	value, valOff = trimSpaces(value, valOff)
	c2, err = scanLineEnd(c2)
	if err != nil {
		return "", "", 0, c2, false, err
	}
	return key, value, valOff, skipDeeper(c2, metaFieldIndent), false, nil
}

func parseBoolean(v view, off int) (bool, error) {
	switch v {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, &FormatError{Offset: off, Msg: "expected true or false"}
}
