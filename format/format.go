package format

import (
	"encoding"

	"github.com/dhamidi/yal/lockfile"
)

type Encoder interface {
	encoding.TextMarshaler
	Encode(lf *lockfile.Lockfile) error
}
