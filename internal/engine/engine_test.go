package engine

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/inamate/sketch/internal/geometry"
	"github.com/inamate/sketch/internal/hittest"
	"github.com/inamate/sketch/internal/render"
	"github.com/inamate/sketch/internal/shape"
)

func pt(x, y float64) geometry.Point { return geometry.Point{X: x, Y: y} }

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("s%d", n)
	}
}

func newTestEngine(t *testing.T, opts ...Option) (*Engine, *render.Recorder) {
	t.Helper()
	rec := render.NewRecorder()
	e := New(append([]Option{WithIDGenerator(sequentialIDs())}, opts...)...)
	e.Mount(rec)
	return e, rec
}

// drag runs a full down/move.../up gesture.
func drag(e *Engine, from geometry.Point, path ...geometry.Point) {
	e.PointerDown(from)
	for _, p := range path[:len(path)-1] {
		e.PointerMove(p)
	}
	e.PointerUp(path[len(path)-1])
}

func onlyShape(t *testing.T, e *Engine) shape.Shape {
	t.Helper()
	doc := e.Document()
	if doc.Len() != 1 {
		t.Fatalf("document has %d shapes, want 1", doc.Len())
	}
	s, _ := doc.Get(doc.IDs()[0])
	return s
}

func TestDrawRectangleUndoRedo(t *testing.T) {
	e, _ := newTestEngine(t)
	e.SetTool(ToolRectangle)
	drag(e, pt(10, 10), pt(50, 80), pt(110, 160))

	want := shape.RectCoord{X1: 10, Y1: 10, Width: 100, Height: 150}
	if r, _ := onlyShape(t, e).Rect(); r != want {
		t.Fatalf("rect = %+v, want %+v", r, want)
	}
	if e.State() != StateIdle {
		t.Errorf("state = %s, want idle", e.State())
	}

	if !e.Undo() {
		t.Fatal("undo reported no change")
	}
	if e.Document().Len() != 0 {
		t.Fatalf("document not empty after undo: %v", e.Document().IDs())
	}
	if e.Undo() {
		t.Error("second undo changed something")
	}

	if !e.Redo() {
		t.Fatal("redo reported no change")
	}
	if r, _ := onlyShape(t, e).Rect(); r != want {
		t.Errorf("rect after redo = %+v, want %+v", r, want)
	}
}

func TestNegativeDragKeepsSignedExtents(t *testing.T) {
	e, _ := newTestEngine(t)
	e.SetTool(ToolRectangle)
	drag(e, pt(100, 100), pt(40, 70))

	want := shape.RectCoord{X1: 100, Y1: 100, Width: -60, Height: -30}
	if r, _ := onlyShape(t, e).Rect(); r != want {
		t.Errorf("rect = %+v, want %+v", r, want)
	}
}

func TestUnmountedEngineIsInert(t *testing.T) {
	e := New(WithIDGenerator(sequentialIDs()))
	e.SetTool(ToolLine)
	drag(e, pt(0, 0), pt(10, 10), pt(20, 20))
	e.PointerLeave(pt(20, 20))

	if e.Document().Len() != 0 {
		t.Errorf("unmounted engine committed %v", e.Document().IDs())
	}
	if e.State() != StateIdle {
		t.Errorf("state = %s, want idle", e.State())
	}
}

func TestUnmountAbandonsGesture(t *testing.T) {
	e, _ := newTestEngine(t)
	e.SetTool(ToolLine)
	e.PointerDown(pt(0, 0))
	e.PointerMove(pt(5, 5))
	e.Unmount()

	if e.State() != StateIdle || e.Document().Len() != 0 {
		t.Errorf("state = %s, shapes = %d", e.State(), e.Document().Len())
	}
	if e.Mounted() {
		t.Error("still mounted")
	}
}

func TestDragRectangleRightEdge(t *testing.T) {
	e, _ := newTestEngine(t)
	e.SetTool(ToolRectangle)
	drag(e, pt(100, 100), pt(300, 200))
	e.SetTool(ToolNone)

	e.PointerMove(pt(300, 150))
	sel, ok := e.Selection()
	if !ok || sel.Edge != hittest.EdgeRight {
		t.Fatalf("selection = %+v, %v; want right edge", sel, ok)
	}
	if e.Cursor() != CursorResizeEW {
		t.Errorf("cursor = %s, want %s", e.Cursor(), CursorResizeEW)
	}

	e.PointerDown(pt(304, 150))
	if e.State() != StateDragging {
		t.Fatalf("state = %s, want dragging", e.State())
	}
	// The first move latches a 4-unit offset from the edge.
	e.PointerMove(pt(304, 150))
	if live, _ := e.Live(); !reflect.DeepEqual(live.Current(), shape.RectCoord{X1: 100, Y1: 100, Width: 200, Height: 100}) {
		t.Errorf("first move changed geometry: %+v", live.Current())
	}
	e.PointerMove(pt(354, 190))
	e.PointerUp(pt(354, 190))

	s := onlyShape(t, e)
	want := shape.RectCoord{X1: 150, Y1: 100, Width: 200, Height: 100}
	if r, _ := s.Rect(); r != want {
		t.Fatalf("rect = %+v, want %+v", r, want)
	}
	if s.Len() != 2 {
		t.Errorf("history length = %d, want 2", s.Len())
	}
	if e.Cursor() != CursorDefault || e.State() != StateIdle {
		t.Errorf("after drag: state %s cursor %s", e.State(), e.Cursor())
	}

	e.Undo()
	if r, _ := onlyShape(t, e).Rect(); r != (shape.RectCoord{X1: 100, Y1: 100, Width: 200, Height: 100}) {
		t.Errorf("rect after undo = %+v", r)
	}
}

func TestEdgeDragKeepsSize(t *testing.T) {
	e, _ := newTestEngine(t)
	e.SetTool(ToolRectangle)
	drag(e, pt(10, 10), pt(110, 160))
	e.SetTool(ToolNone)

	e.PointerMove(pt(110, 50))
	e.PointerDown(pt(110, 50))
	e.PointerMove(pt(110, 50))
	e.PointerMove(pt(140, 50))
	e.PointerUp(pt(140, 50))

	want := shape.RectCoord{X1: 40, Y1: 10, Width: 100, Height: 150}
	if r, _ := onlyShape(t, e).Rect(); r != want {
		t.Errorf("rect = %+v, want %+v", r, want)
	}
}

func TestMoveRectEdge(t *testing.T) {
	tests := []struct {
		name string
		edge hittest.Edge
		rect shape.RectCoord
		to   geometry.Point
		want shape.RectCoord
	}{
		{
			name: "left edge of upward rectangle",
			edge: hittest.EdgeLeft,
			rect: shape.RectCoord{X1: 10, Y1: 50, Width: 100, Height: -40},
			to:   pt(0, 999),
			want: shape.RectCoord{X1: 0, Y1: 50, Width: 100, Height: -40},
		},
		{
			name: "top edge",
			edge: hittest.EdgeTop,
			rect: shape.RectCoord{X1: 10, Y1: 10, Width: 100, Height: 40},
			to:   pt(999, 20),
			want: shape.RectCoord{X1: 10, Y1: 20, Width: 100, Height: 40},
		},
		{
			name: "bottom edge of leftward rectangle",
			edge: hittest.EdgeBottom,
			rect: shape.RectCoord{X1: 110, Y1: 10, Width: -100, Height: 40},
			to:   pt(999, 70),
			want: shape.RectCoord{X1: 110, Y1: 30, Width: -100, Height: 40},
		},
		{
			name: "bottom edge of upward rectangle",
			edge: hittest.EdgeBottom,
			rect: shape.RectCoord{X1: 10, Y1: 50, Width: 100, Height: -40},
			to:   pt(999, 90),
			want: shape.RectCoord{X1: 10, Y1: 90, Width: 100, Height: -40},
		},
		{
			name: "right edge of leftward rectangle",
			edge: hittest.EdgeRight,
			rect: shape.RectCoord{X1: 110, Y1: 10, Width: -100, Height: 40},
			to:   pt(150, 0),
			want: shape.RectCoord{X1: 150, Y1: 10, Width: -100, Height: 40},
		},
		{
			name: "left edge of leftward rectangle",
			edge: hittest.EdgeLeft,
			rect: shape.RectCoord{X1: 110, Y1: 10, Width: -100, Height: 40},
			to:   pt(20, 0),
			want: shape.RectCoord{X1: 120, Y1: 10, Width: -100, Height: 40},
		},
		{
			name: "right edge past the old left edge",
			edge: hittest.EdgeRight,
			rect: shape.RectCoord{X1: 10, Y1: 10, Width: 100, Height: 40},
			to:   pt(0, 0),
			want: shape.RectCoord{X1: -100, Y1: 10, Width: 100, Height: 40},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := moveRectEdge(tt.rect, tt.edge, tt.to)
			if got != tt.want {
				t.Errorf("moveRectEdge = %+v, want %+v", got, tt.want)
			}
			if got.Box().Width() != tt.rect.Box().Width() || got.Box().Height() != tt.rect.Box().Height() {
				t.Errorf("size changed: %+v -> %+v", tt.rect, got)
			}
		})
	}
}

func TestMoveLineRigidly(t *testing.T) {
	e, _ := newTestEngine(t)
	e.SetTool(ToolLine)
	drag(e, pt(0, 0), pt(100, 100))
	e.SetTool(ToolNone)

	e.PointerMove(pt(50, 50))
	if e.Cursor() != CursorMove {
		t.Fatalf("cursor = %s, want move", e.Cursor())
	}
	e.PointerDown(pt(50, 50))
	e.PointerMove(pt(50, 50))
	e.PointerMove(pt(65, 55))
	e.PointerUp(pt(70, 60))

	want := shape.LineCoord{X1: 20, Y1: 10, X2: 120, Y2: 110}
	if l, _ := onlyShape(t, e).Line(); l != want {
		t.Errorf("line = %+v, want %+v", l, want)
	}
}

func TestClickWithoutMoveDoesNotAddSnapshot(t *testing.T) {
	e, _ := newTestEngine(t)
	e.SetTool(ToolLine)
	drag(e, pt(0, 0), pt(100, 100))
	e.SetTool(ToolNone)

	e.PointerMove(pt(50, 50))
	e.PointerDown(pt(50, 50))
	e.PointerUp(pt(50, 50))

	if n := onlyShape(t, e).Len(); n != 1 {
		t.Errorf("history length = %d, want 1", n)
	}
}

func TestDragFrameDrawsDraggedShapeOnce(t *testing.T) {
	e, rec := newTestEngine(t)
	e.SetTool(ToolLine)
	drag(e, pt(0, 0), pt(100, 100))
	drag(e, pt(0, 100), pt(100, 0))
	e.SetTool(ToolNone)

	e.PointerMove(pt(25, 25))
	e.PointerDown(pt(25, 25))
	e.PointerMove(pt(25, 25))
	e.PointerMove(pt(35, 25))

	lines := 0
	for _, c := range rec.Commands() {
		if c.Op == "line" {
			lines++
		}
	}
	if lines != 2 {
		t.Errorf("frame has %d lines, want 2", lines)
	}
	last := rec.Commands()[len(rec.Commands())-1]
	if last.X != 10 || last.Y != 0 {
		t.Errorf("live line drawn at (%v, %v), want (10, 0)", last.X, last.Y)
	}
}

func TestHoverIgnoredWithToolSet(t *testing.T) {
	e, _ := newTestEngine(t)
	e.SetTool(ToolLine)
	drag(e, pt(0, 0), pt(100, 100))

	e.PointerMove(pt(50, 50))
	if _, ok := e.Selection(); ok {
		t.Error("hovered with a tool set")
	}
	if e.Cursor() != CursorCrosshair {
		t.Errorf("cursor = %s, want crosshair", e.Cursor())
	}
}

func TestHoverClearsWhenNothingHit(t *testing.T) {
	e, _ := newTestEngine(t)
	e.SetTool(ToolLine)
	drag(e, pt(0, 0), pt(100, 100))
	e.SetTool(ToolNone)

	e.PointerMove(pt(50, 50))
	e.PointerMove(pt(80, 10))
	if _, ok := e.Selection(); ok {
		t.Error("stale selection kept")
	}
	if e.State() != StateIdle || e.Cursor() != CursorDefault {
		t.Errorf("state %s cursor %s", e.State(), e.Cursor())
	}
}

func TestPenStroke(t *testing.T) {
	e, _ := newTestEngine(t)
	e.SetTool(ToolPen)
	points := []geometry.Point{pt(0, 0), pt(1, 1), pt(2, 4), pt(3, 9), pt(4, 16)}
	drag(e, points[0], append(points[1:], pt(99, 99))...)

	pen, _ := onlyShape(t, e).Pen()
	if !reflect.DeepEqual(pen.Points, points) {
		t.Fatalf("points = %v, want %v", pen.Points, points)
	}

	e.Undo()
	if e.Document().Len() != 0 {
		t.Fatal("pen stroke survived undo")
	}
	e.Redo()
	pen, _ = onlyShape(t, e).Pen()
	if !reflect.DeepEqual(pen.Points, points) {
		t.Errorf("points after redo = %v", pen.Points)
	}
}

func TestPenRecordsEveryMove(t *testing.T) {
	e, _ := newTestEngine(t)
	e.SetTool(ToolPen)
	e.PointerDown(pt(0, 0))
	for _, p := range []geometry.Point{pt(1, 1), pt(1, 1), pt(2, 2), pt(3, 3)} {
		e.PointerMove(p)
	}
	e.PointerUp(pt(9, 9))

	want := []geometry.Point{pt(0, 0), pt(1, 1), pt(1, 1), pt(2, 2), pt(3, 3)}
	if pen, _ := onlyShape(t, e).Pen(); !reflect.DeepEqual(pen.Points, want) {
		t.Errorf("points = %v, want %v", pen.Points, want)
	}
}

func TestPenStrokeIsNotSelectable(t *testing.T) {
	e, _ := newTestEngine(t)
	e.SetTool(ToolPen)
	drag(e, pt(0, 0), pt(50, 0), pt(100, 0))
	e.SetTool(ToolNone)

	e.PointerMove(pt(50, 0))
	if _, ok := e.Selection(); ok {
		t.Error("pen stroke selected")
	}
}

type overlayRecorder struct {
	opened []geometry.Point
}

func (o *overlayRecorder) Open(at geometry.Point) { o.opened = append(o.opened, at) }

func TestTextCommit(t *testing.T) {
	overlay := &overlayRecorder{}
	e, _ := newTestEngine(t, WithTextOverlay(overlay))
	e.SetTool(ToolText)

	e.PointerDown(pt(20, 40))
	if e.State() != StateTextPending {
		t.Fatalf("state = %s, want text-pending", e.State())
	}
	if !reflect.DeepEqual(overlay.opened, []geometry.Point{pt(20, 40)}) {
		t.Fatalf("overlay opened at %v", overlay.opened)
	}

	// Stray pointer events while the overlay is open change nothing.
	drag(e, pt(200, 200), pt(250, 250), pt(300, 300))
	e.PointerLeave(pt(300, 300))
	if e.State() != StateTextPending || e.Document().Len() != 0 || len(overlay.opened) != 1 {
		t.Fatalf("stray events leaked: state %s, shapes %d", e.State(), e.Document().Len())
	}
	if e.Undo() || e.CanUndo() {
		t.Error("undo allowed while text is pending")
	}

	if !e.CommitText("hello\nworld", geometry.Size{Width: 42, Height: 40}) {
		t.Fatal("commit refused")
	}
	s := onlyShape(t, e)
	if at, _ := s.Text(); at != (shape.TextCoord{X: 20, Y: 40}) {
		t.Errorf("anchor = %+v", at)
	}
	if s.Label != (shape.Label{Text: "hello\nworld", BoxWidth: 42, BoxHeight: 40}) {
		t.Errorf("label = %+v", s.Label)
	}
	if e.State() != StateIdle {
		t.Errorf("state = %s, want idle", e.State())
	}
	if e.CommitText("again", geometry.Size{}) {
		t.Error("second commit accepted")
	}
}

func TestBlankTextIsDiscarded(t *testing.T) {
	e, _ := newTestEngine(t)
	e.SetTool(ToolText)
	e.PointerDown(pt(0, 0))

	if e.CommitText("  \n ", geometry.Size{Width: 10, Height: 10}) {
		t.Error("blank text committed")
	}
	if e.Document().Len() != 0 || e.State() != StateIdle {
		t.Errorf("state %s shapes %d", e.State(), e.Document().Len())
	}
}

func TestCancelText(t *testing.T) {
	e, _ := newTestEngine(t)
	e.SetTool(ToolText)
	e.PointerDown(pt(5, 5))
	if at, ok := e.TextAnchor(); !ok || at != pt(5, 5) {
		t.Fatalf("anchor = %v, %v", at, ok)
	}
	e.CancelText()
	if e.State() != StateIdle || e.Document().Len() != 0 {
		t.Errorf("state %s shapes %d", e.State(), e.Document().Len())
	}
}

func TestMoveText(t *testing.T) {
	e, _ := newTestEngine(t)
	e.SetTool(ToolText)
	e.PointerDown(pt(10, 100))
	e.CommitText("hi", geometry.Size{Width: 30, Height: 20})
	e.SetTool(ToolNone)

	// The box spans y 84..104.
	e.PointerMove(pt(20, 90))
	if e.Cursor() != CursorMove {
		t.Fatalf("cursor = %s, want move", e.Cursor())
	}
	e.PointerDown(pt(20, 90))
	e.PointerMove(pt(20, 90))
	e.PointerUp(pt(30, 120))

	if at, _ := onlyShape(t, e).Text(); at != (shape.TextCoord{X: 20, Y: 130}) {
		t.Errorf("anchor = %+v", at)
	}
}

func TestPointerLeaveCommits(t *testing.T) {
	e, _ := newTestEngine(t)
	e.SetTool(ToolLine)
	e.PointerDown(pt(0, 0))
	e.PointerMove(pt(10, 10))
	e.PointerLeave(pt(40, 30))

	if l, _ := onlyShape(t, e).Line(); l != (shape.LineCoord{X2: 40, Y2: 30}) {
		t.Errorf("line = %+v", l)
	}
	if e.State() != StateIdle {
		t.Errorf("state = %s, want idle", e.State())
	}
}

func TestZeroSizeShapes(t *testing.T) {
	t.Run("kept by default", func(t *testing.T) {
		e, _ := newTestEngine(t)
		e.SetTool(ToolRectangle)
		e.PointerDown(pt(5, 5))
		e.PointerUp(pt(5, 5))
		if r, _ := onlyShape(t, e).Rect(); r != (shape.RectCoord{X1: 5, Y1: 5}) {
			t.Errorf("rect = %+v", r)
		}
	})
	t.Run("discarded when configured", func(t *testing.T) {
		e, _ := newTestEngine(t, WithDiscardEmptyShapes(true))
		for _, tool := range []Tool{ToolRectangle, ToolLine, ToolPen} {
			e.SetTool(tool)
			e.PointerDown(pt(5, 5))
			e.PointerUp(pt(5, 5))
		}
		if e.Document().Len() != 0 {
			t.Errorf("kept %v", e.Document().IDs())
		}
		if e.CanUndo() {
			t.Error("discarded shapes reached the undo stack")
		}
	})
}

func TestUndoIgnoredMidGesture(t *testing.T) {
	e, _ := newTestEngine(t)
	e.SetTool(ToolLine)
	drag(e, pt(0, 0), pt(10, 10))

	e.PointerDown(pt(20, 20))
	e.PointerMove(pt(30, 30))
	if e.Undo() {
		t.Error("undo ran while drawing")
	}
	e.PointerUp(pt(30, 30))
	if e.Document().Len() != 2 {
		t.Errorf("shapes = %d, want 2", e.Document().Len())
	}
}

func TestLiveShapeDrawnEveryMove(t *testing.T) {
	e, rec := newTestEngine(t)
	e.SetTool(ToolRectangle)
	e.PointerDown(pt(0, 0))
	e.PointerMove(pt(30, 40))

	want := []render.DrawCommand{{Op: "clear"}, {Op: "rect", Width: 30, Height: 40}}
	if got := rec.Commands(); !reflect.DeepEqual(got, want) {
		t.Errorf("frame = %+v, want %+v", got, want)
	}
	if e.Document().Len() != 0 {
		t.Error("shape committed before pointer-up")
	}
}

func TestListeners(t *testing.T) {
	var cursors []Cursor
	changes := 0
	e, _ := newTestEngine(t,
		WithCursorFunc(func(c Cursor) { cursors = append(cursors, c) }),
		WithChangeFunc(func() { changes++ }),
	)

	e.SetTool(ToolLine)
	drag(e, pt(0, 0), pt(100, 100))
	e.SetTool(ToolNone)
	e.PointerMove(pt(50, 50))
	e.PointerMove(pt(51, 51)) // same cursor, no event
	e.Undo()
	e.Redo()

	want := []Cursor{CursorCrosshair, CursorDefault, CursorMove, CursorDefault}
	if !reflect.DeepEqual(cursors, want) {
		t.Errorf("cursors = %v, want %v", cursors, want)
	}
	if changes != 3 {
		t.Errorf("changes = %d, want 3", changes)
	}
}

func TestParseTool(t *testing.T) {
	tests := []struct {
		in   string
		want Tool
		err  error
	}{
		{"", ToolNone, nil},
		{"select", ToolNone, nil},
		{"rectangle", ToolRectangle, nil},
		{"pen", ToolPen, nil},
		{"circle", ToolNone, ErrUnknownTool},
	}
	for _, tt := range tests {
		got, err := ParseTool(tt.in)
		if got != tt.want || !errors.Is(err, tt.err) {
			t.Errorf("ParseTool(%q) = %q, %v; want %q, %v", tt.in, got, err, tt.want, tt.err)
		}
	}
}
