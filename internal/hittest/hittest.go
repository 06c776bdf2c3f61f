// Package hittest finds the shape under the pointer.
package hittest

import (
	"github.com/inamate/sketch/internal/geometry"
	"github.com/inamate/sketch/internal/shape"
)

// Edge names the rectangle edge under the pointer.
type Edge string

const (
	EdgeNone   Edge = ""
	EdgeLeft   Edge = "left"
	EdgeRight  Edge = "right"
	EdgeTop    Edge = "top"
	EdgeBottom Edge = "bottom"
)

// Horizontal reports whether dragging the edge changes the x extent.
func (e Edge) Horizontal() bool { return e == EdgeLeft || e == EdgeRight }

// Vertical reports whether dragging the edge changes the y extent.
func (e Edge) Vertical() bool { return e == EdgeTop || e == EdgeBottom }

// Options tunes the tolerances of each test.
type Options struct {
	// EdgeTolerance is the half-width of the band around a rectangle edge.
	EdgeTolerance float64
	// LineTolerance bounds the detour accepted by geometry.OnSegment.
	LineTolerance float64
	// TextBaselineOffset is how far above the anchor a text box starts.
	TextBaselineOffset float64
}

// DefaultOptions returns the stock tolerances.
func DefaultOptions() Options {
	return Options{
		EdgeTolerance:      10,
		LineTolerance:      1,
		TextBaselineOffset: 16,
	}
}

// Candidate is a shape under the pointer. Edge is set for rectangles only.
type Candidate struct {
	Shape shape.Shape
	Edge  Edge
}

// FindHover returns the topmost shape of doc containing p.
//
// Freehand strokes are never returned: they cannot be selected or moved.
func FindHover(doc shape.Document, p geometry.Point, opts Options) (Candidate, bool) {
	for s := range doc.Backward() {
		t := tester{p: p, opts: opts}
		s.Accept(&t)
		if t.hit {
			return Candidate{Shape: s, Edge: t.edge}, true
		}
	}
	return Candidate{}, false
}

type tester struct {
	p    geometry.Point
	opts Options

	hit  bool
	edge Edge
}

func (t *tester) Rectangle(_ shape.Shape, r shape.RectCoord) {
	t.edge = RectEdge(r, t.p, t.opts.EdgeTolerance)
	t.hit = t.edge != EdgeNone
}

func (t *tester) Line(_ shape.Shape, l shape.LineCoord) {
	t.hit = geometry.OnSegment(l.Start(), l.End(), t.p, t.opts.LineTolerance)
}

func (t *tester) Text(s shape.Shape, tc shape.TextCoord) {
	top := tc.Y - t.opts.TextBaselineOffset
	box := geometry.Box{
		MinX: tc.X,
		MinY: top,
		MaxX: tc.X + s.Label.BoxWidth,
		MaxY: top + s.Label.BoxHeight,
	}
	t.hit = box.Contains(t.p)
}

func (t *tester) Pen(shape.Shape, shape.PenCoord) {}

// RectEdge returns the edge of r whose band contains p, checking left, right,
// top and bottom in that order. The band extends tolerance on both sides of
// the edge and is bounded by the open extent of the perpendicular side.
func RectEdge(r shape.RectCoord, p geometry.Point, tolerance float64) Edge {
	b := r.Box()
	withinY := p.Y > b.MinY && p.Y < b.MaxY
	withinX := p.X > b.MinX && p.X < b.MaxX

	switch {
	case withinY && geometry.Within(p.X, b.MinX, tolerance):
		return EdgeLeft
	case withinY && geometry.Within(p.X, b.MaxX, tolerance):
		return EdgeRight
	case withinX && geometry.Within(p.Y, b.MinY, tolerance):
		return EdgeTop
	case withinX && geometry.Within(p.Y, b.MaxY, tolerance):
		return EdgeBottom
	default:
		return EdgeNone
	}
}
