package lockfile

import "strings"

// parseIdent reads "name" or "@scope/name".
func parseIdent(v view, off int) (Ident, error) {
	if len(v) == 0 {
		return Ident{}, &SyntaxError{Offset: off, Msg: "empty ident"}
	}
	if v[0] != '@' {
		return Ident{Name: v.own()}, nil
	}
	slash := strings.IndexByte(string(v), '/')
	if slash < 0 {
		return Ident{}, &SyntaxError{Offset: off, Msg: "scoped ident missing '/'"}
	}
	scope := v[1:slash]
	name := v[slash+1:]
	if len(scope) == 0 || len(name) == 0 {
		return Ident{}, &SyntaxError{Offset: off, Msg: "malformed scoped ident"}
	}
	return Ident{Scope: scope.own(), Name: name.own()}, nil
}

// parseDescriptor splits "name@range" at the last '@'. An '@' at position
// zero is a scope marker, never the separator.
func parseDescriptor(v view, off int) (Descriptor, error) {
	at := strings.LastIndexByte(string(v), '@')
	if at <= 0 {
		return Descriptor{}, &SyntaxError{Offset: off, Msg: "descriptor missing '@range'"}
	}
	rng := v[at+1:]
	if len(rng) == 0 {
		return Descriptor{}, &SyntaxError{Offset: off, Msg: "descriptor has empty range"}
	}
	id, err := parseIdent(v[:at], off)
	if err != nil {
		return Descriptor{}, err
	}
	return Descriptor{Ident: id, Range: rng.own()}, nil
}

// parseDescriptorLine reads an entry header: comma-separated descriptors
// followed by ':' at the end of the line. Berry writes multi-descriptor
// headers as a single quoted scalar with ", " between aliases, so the comma
// split applies inside quoted tokens as well as between tokens.
func parseDescriptorLine(c cursor) ([]Descriptor, cursor, error) {
	descs := make([]Descriptor, 0, countDescriptors(c))
	for {
		start := c.pos
		quoted := c.peek() == '"'
		tok, c2, err := scanScalar(c)
		if err != nil {
			return nil, c, err
		}
		contentOff := start
		if quoted {
			contentOff++
		}
		descs, err = appendDescriptors(descs, tok, contentOff)
		if err != nil {
			return nil, c, err
		}
		c = c2
		if c.peek() != ',' {
			break
		}
		c = c.skip(1)
		for c.peek() == ' ' {
			c = c.skip(1)
		}
	}
	if c.peek() != ':' {
		return nil, c, &SyntaxError{Offset: c.pos, Msg: "expected ':' after descriptors"}
	}
	c, err := scanLineEnd(c.skip(1))
	if err != nil {
		return nil, c, err
	}
	return descs, c, nil
}

func appendDescriptors(descs []Descriptor, tok view, off int) ([]Descriptor, error) {
	for {
		i := strings.IndexByte(string(tok), ',')
		piece := tok
		if i >= 0 {
			piece = tok[:i]
		}
		piece, pieceOff := trimSpaces(piece, off)
		d, err := parseDescriptor(piece, pieceOff)
		if err != nil {
			return nil, err
		}
		descs = append(descs, d)
		if i < 0 {
			return descs, nil
		}
		off += i + 1
		tok = tok[i+1:]
	}
}

// countDescriptors sizes the header's descriptor list from the commas left on
// the line.
func countDescriptors(c cursor) int {
	n := 1
	for i := c.pos; i < len(c.input); i++ {
		switch c.input[i] {
		case ',':
			n++
		case '\n':
			return n
		}
	}
	return n
}
