package shape

import "github.com/inamate/sketch/internal/geometry"

// Snapshot is one immutable geometry record in a shape's coordinate history.
// The set of implementations is closed: RectCoord, LineCoord, TextCoord and
// PenCoord.
type Snapshot interface {
	Kind() Kind
	isSnapshot()
}

// RectCoord is a rectangle corner plus signed extents. A negative width or
// height is kept as drawn and only normalized when rendering or hit-testing.
type RectCoord struct {
	X1     float64 `json:"x1"`
	Y1     float64 `json:"y1"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// LineCoord holds the two endpoints of a line.
type LineCoord struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// TextCoord is the baseline anchor of a text block.
type TextCoord struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PenCoord is a whole freehand stroke.
type PenCoord struct {
	Points []geometry.Point `json:"points"`
}

func (RectCoord) Kind() Kind { return KindRectangle }
func (LineCoord) Kind() Kind { return KindLine }
func (TextCoord) Kind() Kind { return KindText }
func (PenCoord) Kind() Kind  { return KindPen }

func (RectCoord) isSnapshot() {}
func (LineCoord) isSnapshot() {}
func (TextCoord) isSnapshot() {}
func (PenCoord) isSnapshot()  {}

// Box returns the normalized bounding box of the rectangle.
func (r RectCoord) Box() geometry.Box {
	return geometry.NormalizedBox(r.X1, r.Y1, r.Width, r.Height)
}

// Start returns the first endpoint.
func (l LineCoord) Start() geometry.Point { return geometry.Point{X: l.X1, Y: l.Y1} }

// End returns the second endpoint.
func (l LineCoord) End() geometry.Point { return geometry.Point{X: l.X2, Y: l.Y2} }

// Translate moves both endpoints so the start lands on at.
func (l LineCoord) Translate(at geometry.Point) LineCoord {
	return LineCoord{
		X1: at.X,
		Y1: at.Y,
		X2: at.X + (l.X2 - l.X1),
		Y2: at.Y + (l.Y2 - l.Y1),
	}
}

// Point returns the anchor as a point.
func (t TextCoord) Point() geometry.Point { return geometry.Point{X: t.X, Y: t.Y} }

// Clone returns a stroke that shares no memory with p.
func (p PenCoord) Clone() PenCoord {
	pts := make([]geometry.Point, len(p.Points))
	copy(pts, p.Points)
	return PenCoord{Points: pts}
}

// cloneSnapshot copies snapshots that carry slices; the others are plain values.
func cloneSnapshot(s Snapshot) Snapshot {
	if p, ok := s.(PenCoord); ok {
		return p.Clone()
	}
	return s
}
