// Package render draws documents onto a write-only Surface.
package render

import (
	"strings"

	"github.com/inamate/sketch/internal/geometry"
	"github.com/inamate/sketch/internal/shape"
)

// LineHeight is the vertical distance between consecutive lines of a text shape.
const LineHeight = 20

// Surface is a fixed-size drawing sink. Implementations only draw; they never
// feed anything back into the engine.
type Surface interface {
	// Clear wipes the whole surface.
	Clear()
	StrokeRect(x, y, width, height float64)
	StrokeLine(x1, y1, x2, y2 float64)
	StrokePolyline(points []geometry.Point)
	// FillText draws a single line of text with its baseline at y.
	FillText(text string, x, y float64)
}

// Render clears s and draws every shape of doc in z-order, skipping the shape
// whose id is ignoreID. Pass an empty ignoreID to draw everything.
func Render(doc shape.Document, s Surface, ignoreID string) {
	s.Clear()
	p := painter{surface: s}
	for sh := range doc.All() {
		if ignoreID != "" && sh.ID == ignoreID {
			continue
		}
		sh.Accept(p)
	}
}

// Draw draws a single shape on top of whatever s already shows.
func Draw(s Surface, sh shape.Shape) {
	if sh.Empty() {
		return
	}
	sh.Accept(painter{surface: s})
}

type painter struct {
	surface Surface
}

func (p painter) Rectangle(_ shape.Shape, r shape.RectCoord) {
	p.surface.StrokeRect(r.X1, r.Y1, r.Width, r.Height)
}

func (p painter) Line(_ shape.Shape, l shape.LineCoord) {
	p.surface.StrokeLine(l.X1, l.Y1, l.X2, l.Y2)
}

func (p painter) Text(s shape.Shape, t shape.TextCoord) {
	for i, line := range strings.Split(s.Label.Text, "\n") {
		p.surface.FillText(line, t.X, t.Y+float64(i)*LineHeight)
	}
}

func (p painter) Pen(_ shape.Shape, pen shape.PenCoord) {
	switch len(pen.Points) {
	case 0:
		return
	case 1:
		// A single click still leaves a mark.
		pt := pen.Points[0]
		p.surface.StrokeLine(pt.X, pt.Y, pt.X, pt.Y)
	default:
		p.surface.StrokePolyline(pen.Points)
	}
}
