package conv

import (
	"fmt"
	"strings"
)

// Path identifies one source-to-ear convolution path.
type Path int

const (
	// Lsl routes the left input to the left ear.
	Lsl Path = iota
	// Lsr routes the left input to the right ear.
	Lsr
	// Rsl routes the right input to the left ear.
	Rsl
	// Rsr routes the right input to the right ear.
	Rsr
)

// NumPaths is the number of convolution paths.
const NumPaths = 4

// Paths lists every path in index order.
var Paths = [NumPaths]Path{Lsl, Lsr, Rsl, Rsr}

var pathNames = [NumPaths]string{"Lsl", "Lsr", "Rsl", "Rsr"}

// String returns the short path name.
func (p Path) String() string {
	if !p.Valid() {
		return fmt.Sprintf("Path(%d)", int(p))
	}
	return pathNames[p]
}

// Valid reports whether p is one of the four paths.
func (p Path) Valid() bool {
	return p >= 0 && p < NumPaths
}

// FromLeft reports whether the path takes the left input channel.
func (p Path) FromLeft() bool {
	return p == Lsl || p == Lsr
}

// ToLeft reports whether the path feeds the left ear.
func (p Path) ToLeft() bool {
	return p == Lsl || p == Rsl
}

// ParsePath parses a path name, ignoring case.
func ParsePath(s string) (Path, error) {
	for i, name := range pathNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return Path(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPath, s)
}
