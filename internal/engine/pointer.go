package engine

import (
	"strings"

	"github.com/inamate/sketch/internal/geometry"
	"github.com/inamate/sketch/internal/hittest"
	"github.com/inamate/sketch/internal/shape"
)

// gesture is the scratch state of one down/move/up sequence. It is replaced
// with the zero value on every return to idle.
type gesture struct {
	kind   shape.Kind
	origin geometry.Point
	pen    []geometry.Point

	// live is the shape being drawn, or the dragged shape at its current
	// geometry.
	live shape.Shape

	drag  DragKind
	edge  hittest.Edge
	base  shape.Shape    // the dragged shape before the drag
	start shape.Snapshot // its geometry

	// offset is the distance from the pointer to the dragged reference
	// point, captured on the first move of the drag.
	latched bool
	offset  geometry.Point
}

// PointerDown starts drawing with the current tool, or starts dragging the
// shape under the pointer when no tool is set.
func (e *Engine) PointerDown(p geometry.Point) {
	if e.surface == nil {
		return
	}

	switch e.state {
	case StateIdle, StateHovering:
	default:
		return
	}

	if kind, ok := e.tool.Kind(); ok {
		e.startDrawing(kind, p)
		return
	}

	// A down without a preceding move (touch input) still picks the shape.
	if e.state == StateIdle {
		e.hover(p)
	}
	if e.state == StateHovering {
		e.startDrag()
	}
}

// PointerMove updates the live shape, the drag, or the hover selection.
func (e *Engine) PointerMove(p geometry.Point) {
	if e.surface == nil {
		return
	}

	switch e.state {
	case StateDrawing:
		e.drawTo(p)
		e.Redraw()
	case StateDragging:
		e.dragTo(p)
		e.Redraw()
	case StateIdle, StateHovering:
		if e.tool != ToolNone {
			e.setCursor(CursorCrosshair)
			return
		}
		e.hover(p)
	}
}

// PointerUp commits the shape being drawn or dragged.
func (e *Engine) PointerUp(p geometry.Point) {
	if e.surface == nil {
		return
	}

	switch e.state {
	case StateDrawing:
		// A stroke only records move points.
		if e.gesture.kind != shape.KindPen {
			e.drawTo(p)
		}
		e.finishDrawing()
	case StateDragging:
		if e.gesture.latched {
			e.dragTo(p)
		}
		e.finishDrag()
	}
}

// PointerLeave behaves as a pointer-up so no gesture is left stuck when the
// pointer leaves the surface.
func (e *Engine) PointerLeave(p geometry.Point) {
	if e.surface == nil {
		return
	}

	switch e.state {
	case StateDrawing, StateDragging:
		e.PointerUp(p)
	case StateHovering:
		e.selection = Selection{}
		e.state = StateIdle
		e.setCursor(e.idleCursor())
	}
}

// CommitText places the pending text shape with the size measured by the
// overlay. Blank text cancels the shape.
func (e *Engine) CommitText(text string, size geometry.Size) bool {
	if e.state != StateTextPending {
		return false
	}
	if strings.TrimSpace(text) == "" {
		e.logger.Debug("blank text discarded")
		e.CancelText()
		return false
	}

	s := shape.NewText(e.gesture.live.ID, shape.TextCoord{X: e.gesture.origin.X, Y: e.gesture.origin.Y}, shape.Label{
		Text:      text,
		BoxWidth:  size.Width,
		BoxHeight: size.Height,
	})
	e.commit(s)
	e.reset()
	e.redraw()
	e.changed()
	return true
}

// CancelText abandons the pending text shape.
func (e *Engine) CancelText() {
	if e.state != StateTextPending {
		return
	}
	e.reset()
	e.redraw()
}

// --- drawing ---

func (e *Engine) startDrawing(kind shape.Kind, p geometry.Point) {
	id := e.newID()
	e.selection = Selection{}
	e.gesture = gesture{kind: kind, origin: p}

	switch kind {
	case shape.KindRectangle:
		e.gesture.live = shape.New(id, shape.RectCoord{X1: p.X, Y1: p.Y})
	case shape.KindLine:
		e.gesture.live = shape.New(id, shape.LineCoord{X1: p.X, Y1: p.Y, X2: p.X, Y2: p.Y})
	case shape.KindPen:
		e.gesture.pen = []geometry.Point{p}
		e.gesture.live = shape.New(id, shape.PenCoord{Points: e.gesture.pen})
	case shape.KindText:
		// The text shape only exists once the overlay commits. Keep the id
		// on an empty placeholder.
		e.gesture.live = shape.Shape{ID: id, Kind: shape.KindText}
		e.state = StateTextPending
		e.logger.Debug("text overlay opened", "shape", id, "x", p.X, "y", p.Y)
		if e.overlay != nil {
			e.overlay.Open(p)
		}
		return
	default:
		shape.MustKnow(kind)
	}

	e.state = StateDrawing
	e.logger.Debug("drawing started", "shape", id, "kind", kind)
	e.Redraw()
}

func (e *Engine) drawTo(p geometry.Point) {
	g := &e.gesture
	o := g.origin

	switch g.kind {
	case shape.KindRectangle:
		g.live = shape.New(g.live.ID, shape.RectCoord{X1: o.X, Y1: o.Y, Width: p.X - o.X, Height: p.Y - o.Y})
	case shape.KindLine:
		g.live = shape.New(g.live.ID, shape.LineCoord{X1: o.X, Y1: o.Y, X2: p.X, Y2: p.Y})
	case shape.KindPen:
		g.pen = append(g.pen, p)
		g.live = shape.New(g.live.ID, shape.PenCoord{Points: g.pen})
	default:
		shape.MustKnow(g.kind)
	}
}

func (e *Engine) finishDrawing() {
	live := e.gesture.live
	if e.discardEmpty && degenerate(live.Current()) {
		e.logger.Debug("empty shape discarded", "shape", live.ID, "kind", live.Kind)
	} else {
		e.commit(live)
	}
	e.reset()
	e.redraw()
	e.changed()
}

func (e *Engine) commit(s shape.Shape) {
	e.doc = e.doc.Put(s)
	e.history.Commit(s.ID)
	e.logger.Debug("shape committed", "shape", s.ID, "kind", s.Kind, "snapshots", s.Len())
}

// degenerate reports whether the pointer never left the origin.
func degenerate(snap shape.Snapshot) bool {
	switch c := snap.(type) {
	case shape.RectCoord:
		return c.Width == 0 && c.Height == 0
	case shape.LineCoord:
		return c.Start() == c.End()
	case shape.PenCoord:
		return len(c.Points) < 2
	case shape.TextCoord:
		return false
	default:
		shape.MustKnow(snap.Kind())
		return false
	}
}

// --- hover and drag ---

func (e *Engine) hover(p geometry.Point) {
	c, ok := hittest.FindHover(e.doc, p, e.hit)
	if !ok {
		e.selection = Selection{}
		e.state = StateIdle
		e.setCursor(CursorDefault)
		return
	}
	e.selection = Selection{Shape: c.Shape, Edge: c.Edge}
	e.state = StateHovering
	e.setCursor(cursorFor(c.Edge))
}

func (e *Engine) startDrag() {
	sel := e.selection
	sel.Active = true
	e.selection = sel

	drag := DragMove
	if sel.Shape.EdgeDraggable() && sel.Edge != hittest.EdgeNone {
		drag = DragEdge
	}
	e.gesture = gesture{
		kind:  sel.Shape.Kind,
		live:  sel.Shape,
		base:  sel.Shape,
		drag:  drag,
		edge:  sel.Edge,
		start: sel.Shape.Current(),
	}
	e.state = StateDragging
	e.logger.Debug("drag started", "shape", sel.Shape.ID, "drag", drag, "edge", sel.Edge)
}

func (e *Engine) dragTo(p geometry.Point) {
	g := &e.gesture
	if !g.latched {
		g.offset = p.Sub(dragReference(g.start, g.edge))
		g.latched = true
	}
	target := p.Sub(g.offset)

	var next shape.Snapshot
	switch c := g.start.(type) {
	case shape.RectCoord:
		next = moveRectEdge(c, g.edge, target)
	case shape.LineCoord:
		next = c.Translate(target)
	case shape.TextCoord:
		next = shape.TextCoord{X: target.X, Y: target.Y}
	case shape.PenCoord:
		// Not selectable, so never dragged.
		return
	default:
		shape.MustKnow(g.start.Kind())
		return
	}

	// Rebuild from the pre-drag shape so moves do not pile up snapshots.
	g.live = g.base.WithSnapshot(next)
	e.selection.Shape = g.live
}

func (e *Engine) finishDrag() {
	g := e.gesture
	if g.latched {
		e.commit(g.live)
	}
	e.reset()
	e.redraw()
	if g.latched {
		e.changed()
	}
}

// dragReference returns the point that follows the pointer during a drag:
// the dragged edge for rectangles, the start point for lines, the anchor for
// text.
func dragReference(snap shape.Snapshot, edge hittest.Edge) geometry.Point {
	switch c := snap.(type) {
	case shape.RectCoord:
		b := c.Box()
		switch edge {
		case hittest.EdgeLeft:
			return geometry.Point{X: b.MinX}
		case hittest.EdgeRight:
			return geometry.Point{X: b.MaxX}
		case hittest.EdgeTop:
			return geometry.Point{Y: b.MinY}
		case hittest.EdgeBottom:
			return geometry.Point{Y: b.MaxY}
		}
		return geometry.Point{X: b.MinX, Y: b.MinY}
	case shape.LineCoord:
		return c.Start()
	case shape.TextCoord:
		return c.Point()
	default:
		return geometry.Point{}
	}
}

// moveRectEdge slides r so the grabbed edge lands on the target. Width and
// height keep their stored sign and size, and the other axis is untouched.
func moveRectEdge(r shape.RectCoord, edge hittest.Edge, target geometry.Point) shape.RectCoord {
	b := r.Box()
	out := r
	switch edge {
	case hittest.EdgeLeft:
		out.X1 = target.X - min(r.Width, 0)
	case hittest.EdgeRight:
		out.X1 = target.X - b.Width() - min(r.Width, 0)
	case hittest.EdgeTop:
		out.Y1 = target.Y - min(r.Height, 0)
	case hittest.EdgeBottom:
		out.Y1 = target.Y - b.Height() - min(r.Height, 0)
	}
	return out
}
