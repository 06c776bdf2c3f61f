// Package shape defines the drawable shapes, their coordinate histories and
// the ordered document that holds them.
//
// Shapes are values. Every mutation returns a new Shape or Document, so a
// history entry can keep a reference to an older state without aliasing.
package shape

import (
	"errors"
	"fmt"
)

// Kind tags the shape variant.
type Kind string

const (
	KindRectangle Kind = "rectangle"
	KindLine      Kind = "line"
	KindText      Kind = "text"
	KindPen       Kind = "pen"
)

// ErrUnknownKind is returned when a kind outside the four variants is seen at
// a trust boundary (for example a decoded client message).
var ErrUnknownKind = errors.New("unknown shape kind")

// Kinds lists every variant in declaration order.
func Kinds() []Kind {
	return []Kind{KindRectangle, KindLine, KindText, KindPen}
}

// Validate returns ErrUnknownKind for anything but the four variants.
func (k Kind) Validate() error {
	switch k {
	case KindRectangle, KindLine, KindText, KindPen:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, k)
	}
}

// MustKnow panics on an unknown kind. Code that switches over kinds calls it
// in its default branch: reaching it is a programming error.
func MustKnow(k Kind) {
	if err := k.Validate(); err != nil {
		panic("shape: " + err.Error())
	}
}
