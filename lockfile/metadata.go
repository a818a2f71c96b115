package lockfile

import "strconv"

// parseMetadata reads the __metadata block: a required integer version plus
// an optional cacheKey. Unrecognized fields are skipped like unknown package
// properties.
func parseMetadata(c cursor) (Metadata, cursor, error) {
	headerOff := c.pos
	header, c, err := scanScalar(c)
	if err != nil {
		return Metadata{}, c, err
	}
	if header != "__metadata" {
		return Metadata{}, c, &SyntaxError{Offset: headerOff, Msg: "expected __metadata block"}
	}
	if c.peek() != ':' {
		return Metadata{}, c, &SyntaxError{Offset: c.pos, Msg: "expected ':' after __metadata"}
	}
	c, err = scanLineEnd(c.skip(1))
	if err != nil {
		return Metadata{}, c, err
	}

	var meta Metadata
	versionSeen := false
	for {
		ind, c2 := scanIndent(c)
		if isLineEnd(c2.peek()) || ind != propertyIndent {
			break
		}
		key, c3, err := scanScalar(c2)
		if err != nil {
			return Metadata{}, c3, err
		}
		if c3.peek() != ':' {
			return Metadata{}, c3, &SyntaxError{Offset: c3.pos, Msg: "expected ':' after key"}
		}
		c3 = c3.skip(1)
		if isLineEnd(c3.peek()) {
			c3, err = scanLineEnd(c3)
			if err != nil {
				return Metadata{}, c3, err
			}
			c = skipDeeper(c3, propertyIndent)
			continue
		}
		if c3.peek() != ' ' {
			return Metadata{}, c3, &SyntaxError{Offset: c3.pos, Msg: "expected space after ':'"}
		}
		for c3.peek() == ' ' {
			c3 = c3.skip(1)
		}

		switch key {
		case "version":
			valOff := c3.pos
			v, c4, err := scanScalar(c3)
			if err != nil {
				return Metadata{}, c4, err
			}
			n, convErr := strconv.Atoi(string(v))
			if convErr != nil {
				return Metadata{}, c4, &FormatError{Offset: valOff, Msg: "metadata version must be an integer"}
			}
			meta.Version = n
			versionSeen = true
			c, err = scanLineEnd(c4)
			if err != nil {
				return Metadata{}, c, err
			}
		case "cacheKey":
			v, c4, err := scanScalar(c3)
			if err != nil {
				return Metadata{}, c4, err
			}
			meta.CacheKey = v.own()
			c, err = scanLineEnd(c4)
			if err != nil {
				return Metadata{}, c, err
			}
		default:
			_, c4 := scanRestOfLine(c3)
			c4, err = scanLineEnd(c4)
			if err != nil {
				return Metadata{}, c4, err
			}
			c = skipDeeper(c4, propertyIndent)
		}
	}
	if !versionSeen {
		return Metadata{}, c, &FormatError{Offset: headerOff, Msg: "metadata missing version"}
	}
	return meta, c, nil
}
