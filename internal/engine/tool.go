package engine

import (
	"errors"
	"fmt"

	"github.com/inamate/sketch/internal/geometry"
	"github.com/inamate/sketch/internal/hittest"
	"github.com/inamate/sketch/internal/shape"
)

// Tool is the drawing tool picked in the toolbar.
type Tool string

const (
	ToolNone      Tool = "none"
	ToolRectangle Tool = "rectangle"
	ToolLine      Tool = "line"
	ToolText      Tool = "text"
	ToolPen       Tool = "pen"
)

// ErrUnknownTool is returned by ParseTool.
var ErrUnknownTool = errors.New("unknown tool")

// Tools lists every tool in toolbar order.
func Tools() []Tool {
	return []Tool{ToolNone, ToolRectangle, ToolLine, ToolText, ToolPen}
}

// ParseTool converts a client-supplied name. The empty string and "select"
// both mean no tool.
func ParseTool(s string) (Tool, error) {
	switch t := Tool(s); t {
	case "", "select":
		return ToolNone, nil
	case ToolNone, ToolRectangle, ToolLine, ToolText, ToolPen:
		return t, nil
	default:
		return ToolNone, fmt.Errorf("%w: %q", ErrUnknownTool, s)
	}
}

// Kind returns the shape kind the tool draws.
func (t Tool) Kind() (shape.Kind, bool) {
	switch t {
	case ToolRectangle:
		return shape.KindRectangle, true
	case ToolLine:
		return shape.KindLine, true
	case ToolText:
		return shape.KindText, true
	case ToolPen:
		return shape.KindPen, true
	default:
		return "", false
	}
}

// Cursor is the pointer affordance the front-end should show.
type Cursor string

const (
	CursorDefault   Cursor = "default"
	CursorMove      Cursor = "move"
	CursorCrosshair Cursor = "crosshair"
	CursorResizeEW  Cursor = "ew-resize"
	CursorResizeNS  Cursor = "ns-resize"
)

func cursorFor(edge hittest.Edge) Cursor {
	switch {
	case edge.Horizontal():
		return CursorResizeEW
	case edge.Vertical():
		return CursorResizeNS
	default:
		return CursorMove
	}
}

// State is the interaction state.
type State string

const (
	StateIdle        State = "idle"
	StateDrawing     State = "drawing"
	StateHovering    State = "hovering"
	StateDragging    State = "dragging"
	StateTextPending State = "text-pending"
)

// Busy reports whether a gesture is in progress.
func (s State) Busy() bool {
	return s == StateDrawing || s == StateDragging || s == StateTextPending
}

// DragKind says what a drag does to the selected shape.
type DragKind int

// DragEdge drags a rectangle by one edge: the rectangle slides along the
// axis crossing that edge with its size unchanged.
const (
	DragMove DragKind = iota
	DragEdge
)

func (k DragKind) String() string {
	if k == DragEdge {
		return "edge"
	}
	return "move"
}

// Selection is the shape under the pointer. It exists only while hovering
// or dragging.
type Selection struct {
	Shape  shape.Shape
	Active bool
	Edge   hittest.Edge
}

// TextOverlay opens an editable text region. The implementation reports the
// result later through Engine.CommitText or Engine.CancelText.
type TextOverlay interface {
	Open(at geometry.Point)
}

// TextOverlayFunc adapts a function to TextOverlay.
type TextOverlayFunc func(at geometry.Point)

func (f TextOverlayFunc) Open(at geometry.Point) { f(at) }
