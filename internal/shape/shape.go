package shape

import "fmt"

// Label holds the constant fields of a text shape, captured once when the
// text is committed.
type Label struct {
	Text      string  `json:"text"`
	BoxWidth  float64 `json:"boxWidth"`
	BoxHeight float64 `json:"boxHeight"`
}

// Shape is a drawable entity with an append-only coordinate history.
// The last snapshot is the current geometry; earlier ones exist for undo.
type Shape struct {
	ID    string
	Kind  Kind
	Label Label // text shapes only

	history []Snapshot
}

// New creates a shape whose kind is taken from its first snapshot.
func New(id string, first Snapshot) Shape {
	MustKnow(first.Kind())
	return Shape{
		ID:      id,
		Kind:    first.Kind(),
		history: []Snapshot{cloneSnapshot(first)},
	}
}

// NewText creates a text shape anchored at at.
func NewText(id string, at TextCoord, label Label) Shape {
	s := New(id, at)
	s.Label = label
	return s
}

// Len returns the number of snapshots in the history.
func (s Shape) Len() int { return len(s.history) }

// Empty reports whether the shape has no geometry left.
func (s Shape) Empty() bool { return len(s.history) == 0 }

// Current returns the authoritative geometry. It panics on an empty shape.
func (s Shape) Current() Snapshot {
	if len(s.history) == 0 {
		panic(fmt.Sprintf("shape: %s has an empty history", s.ID))
	}
	return s.history[len(s.history)-1]
}

// History returns a copy of the coordinate history, oldest first.
func (s Shape) History() []Snapshot {
	out := make([]Snapshot, len(s.history))
	for i, snap := range s.history {
		out[i] = cloneSnapshot(snap)
	}
	return out
}

// WithSnapshot returns a copy of s with snap as its new current geometry.
// Pen strokes keep a single snapshot, so for them snap replaces the history.
func (s Shape) WithSnapshot(snap Snapshot) Shape {
	if snap.Kind() != s.Kind {
		panic(fmt.Sprintf("shape: %s snapshot for %s shape %s", snap.Kind(), s.Kind, s.ID))
	}

	out := s
	if s.Kind == KindPen {
		out.history = []Snapshot{cloneSnapshot(snap)}
		return out
	}

	out.history = make([]Snapshot, len(s.history), len(s.history)+1)
	copy(out.history, s.history)
	out.history = append(out.history, cloneSnapshot(snap))
	return out
}

// WithoutLast returns a copy of s with its last snapshot removed, along with
// the removed snapshot. The returned shape may be empty.
func (s Shape) WithoutLast() (Shape, Snapshot) {
	if len(s.history) == 0 {
		return s, nil
	}
	out := s
	last := s.history[len(s.history)-1]
	out.history = make([]Snapshot, len(s.history)-1)
	copy(out.history, s.history[:len(s.history)-1])
	return out, last
}

// Rect returns the current rectangle geometry.
func (s Shape) Rect() (RectCoord, bool) {
	if s.Empty() {
		return RectCoord{}, false
	}
	r, ok := s.Current().(RectCoord)
	return r, ok
}

// Line returns the current line geometry.
func (s Shape) Line() (LineCoord, bool) {
	if s.Empty() {
		return LineCoord{}, false
	}
	l, ok := s.Current().(LineCoord)
	return l, ok
}

// Text returns the current text anchor.
func (s Shape) Text() (TextCoord, bool) {
	if s.Empty() {
		return TextCoord{}, false
	}
	t, ok := s.Current().(TextCoord)
	return t, ok
}

// Pen returns a copy of the current stroke.
func (s Shape) Pen() (PenCoord, bool) {
	if s.Empty() {
		return PenCoord{}, false
	}
	p, ok := s.Current().(PenCoord)
	return p.Clone(), ok
}

// EdgeDraggable reports whether the shape is picked up by the edge under the
// pointer rather than anywhere along its outline.
func (s Shape) EdgeDraggable() bool { return s.Kind == KindRectangle }

// Movable reports whether the shape can be dragged as a whole.
func (s Shape) Movable() bool { return s.Kind != KindPen }

// Textual reports whether the shape carries a Label.
func (s Shape) Textual() bool { return s.Kind == KindText }

// Selectable reports whether hovering can pick the shape. Freehand strokes
// are not selectable.
func (s Shape) Selectable() bool { return s.Kind != KindPen }

// Visitor handles every shape variant. Adding a variant adds a method here,
// so every visitor in the tree stops compiling until it handles it.
type Visitor interface {
	Rectangle(s Shape, r RectCoord)
	Line(s Shape, l LineCoord)
	Text(s Shape, t TextCoord)
	Pen(s Shape, p PenCoord)
}

// Accept dispatches the current geometry of s to the matching method of v.
func (s Shape) Accept(v Visitor) {
	switch c := s.Current().(type) {
	case RectCoord:
		v.Rectangle(s, c)
	case LineCoord:
		v.Line(s, c)
	case TextCoord:
		v.Text(s, c)
	case PenCoord:
		v.Pen(s, c.Clone())
	default:
		panic(fmt.Sprintf("shape: unknown snapshot %T in %s", c, s.ID))
	}
}
