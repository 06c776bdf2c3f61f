// Package engine turns pointer events into shape mutations.
//
// An Engine owns the document, the undo stacks, the current tool and the
// gesture in progress. It is single-threaded: callers deliver events one at a
// time and never from inside a listener.
package engine

import (
	"log/slog"

	"github.com/inamate/sketch/internal/geometry"
	"github.com/inamate/sketch/internal/history"
	"github.com/inamate/sketch/internal/hittest"
	"github.com/inamate/sketch/internal/render"
	"github.com/inamate/sketch/internal/shape"
	"github.com/inamate/sketch/internal/typeid"
)

// Engine is the interaction state machine.
type Engine struct {
	logger  *slog.Logger
	surface render.Surface

	doc     shape.Document
	history *history.Manager

	tool      Tool
	state     State
	selection Selection
	gesture   gesture
	cursor    Cursor

	overlay  TextOverlay
	onCursor func(Cursor)
	onChange func()
	newID    func() string
	hit      hittest.Options

	clearRedoOnCommit bool
	discardEmpty      bool
}

// New creates an unmounted engine with an empty document.
func New(opts ...Option) *Engine {
	e := &Engine{
		logger: slog.Default(),
		doc:    shape.NewDocument(),
		tool:   ToolNone,
		state:  StateIdle,
		cursor: CursorDefault,
		newID:  typeid.NewShapeID,
		hit:    hittest.DefaultOptions(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.history = history.New(history.WithClearRedoOnCommit(e.clearRedoOnCommit))
	return e
}

// --- Surface ---

// Mount attaches the drawing surface and draws the document on it. Pointer
// events are ignored until a surface is mounted.
func (e *Engine) Mount(s render.Surface) {
	e.surface = s
	e.redraw()
}

// Unmount detaches the surface and abandons any gesture in progress.
func (e *Engine) Unmount() {
	e.surface = nil
	e.reset()
}

// Mounted reports whether a surface is attached.
func (e *Engine) Mounted() bool { return e.surface != nil }

// Redraw draws the document, plus the live shape of a gesture in progress.
func (e *Engine) Redraw() {
	if e.surface == nil {
		return
	}
	if live, ok := e.Live(); ok {
		ignore := ""
		if e.state == StateDragging {
			ignore = live.ID
		}
		render.Render(e.doc, e.surface, ignore)
		render.Draw(e.surface, live)
		return
	}
	render.Render(e.doc, e.surface, "")
}

func (e *Engine) redraw() {
	if e.surface != nil {
		render.Render(e.doc, e.surface, "")
	}
}

// --- Tools ---

// SetTool picks the tool used by the next pointer-down. A hover selection
// is dropped because hovering only happens with no tool.
func (e *Engine) SetTool(t Tool) {
	if e.tool == t {
		return
	}
	e.logger.Debug("tool changed", "from", e.tool, "to", t)
	e.tool = t

	if e.state.Busy() {
		return
	}
	e.selection = Selection{}
	e.state = StateIdle
	e.setCursor(e.idleCursor())
}

// Tool returns the current tool.
func (e *Engine) Tool() Tool { return e.tool }

// --- History ---

// Undo reverses the most recent commit. It does nothing during a gesture.
func (e *Engine) Undo() bool {
	if e.state.Busy() {
		return false
	}
	doc, ok := e.history.Undo(e.doc)
	if !ok {
		return false
	}
	e.applyHistory(doc)
	return true
}

// Redo re-applies the most recently undone snapshot. It does nothing during
// a gesture.
func (e *Engine) Redo() bool {
	if e.state.Busy() {
		return false
	}
	doc, ok := e.history.Redo(e.doc)
	if !ok {
		return false
	}
	e.applyHistory(doc)
	return true
}

func (e *Engine) applyHistory(doc shape.Document) {
	e.doc = doc
	if e.state == StateHovering {
		// The hovered shape may have changed or gone.
		e.selection = Selection{}
		e.state = StateIdle
		e.setCursor(e.idleCursor())
	}
	e.redraw()
	e.changed()
}

// CanUndo reports whether Undo would do something now.
func (e *Engine) CanUndo() bool {
	return !e.state.Busy() && e.history.CanUndo(e.doc)
}

// CanRedo reports whether Redo would do something now.
func (e *Engine) CanRedo() bool {
	return !e.state.Busy() && e.history.CanRedo()
}

// --- Queries ---

// Document returns the committed shapes.
func (e *Engine) Document() shape.Document { return e.doc }

// State returns the interaction state.
func (e *Engine) State() State { return e.state }

// Cursor returns the current cursor hint.
func (e *Engine) Cursor() Cursor { return e.cursor }

// Selection returns the hovered or dragged shape.
func (e *Engine) Selection() (Selection, bool) {
	if e.state != StateHovering && e.state != StateDragging {
		return Selection{}, false
	}
	return e.selection, true
}

// Live returns the shape being drawn or dragged, at its current geometry.
func (e *Engine) Live() (shape.Shape, bool) {
	if e.gesture.live.Empty() {
		return shape.Shape{}, false
	}
	return e.gesture.live, true
}

// TextAnchor returns where the pending text shape will be placed.
func (e *Engine) TextAnchor() (geometry.Point, bool) {
	if e.state != StateTextPending {
		return geometry.Point{}, false
	}
	return e.gesture.origin, true
}

func (e *Engine) setCursor(c Cursor) {
	if e.cursor == c {
		return
	}
	e.cursor = c
	if e.onCursor != nil {
		e.onCursor(c)
	}
}

func (e *Engine) idleCursor() Cursor {
	if e.tool != ToolNone {
		return CursorCrosshair
	}
	return CursorDefault
}

func (e *Engine) changed() {
	if e.onChange != nil {
		e.onChange()
	}
}

// reset returns to idle and drops all gesture scratch state.
func (e *Engine) reset() {
	e.gesture = gesture{}
	e.selection = Selection{}
	e.state = StateIdle
	e.setCursor(e.idleCursor())
}
