// Package desktop is a native front-end for the engine built on fyne.
package desktop

import (
	"image"
	"log/slog"
	"slices"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/inamate/sketch/internal/engine"
	"github.com/inamate/sketch/internal/geometry"
	"github.com/inamate/sketch/internal/raster"
)

// Board shows the drawing surface and forwards mouse input to the engine.
// Fyne delivers every callback on the main goroutine, which is the only
// goroutine that touches the engine.
type Board struct {
	widget.BaseWidget

	engine  *engine.Engine
	surface *raster.Surface
	image   *canvas.Image
	entry   *textEntry
	layer   *fyne.Container

	last geometry.Point

	// OnChange is called after the document, the tool or the undo stacks
	// change.
	OnChange func()
}

var _ fyne.Widget = (*Board)(nil)
var _ fyne.Draggable = (*Board)(nil)
var _ desktop.Mouseable = (*Board)(nil)
var _ desktop.Hoverable = (*Board)(nil)
var _ desktop.Cursorable = (*Board)(nil)

// NewBoard creates a board with a fixed-size surface.
func NewBoard(width, height int, opts ...engine.Option) (*Board, error) {
	logger := slog.Default().With("component", "board")
	surface, err := raster.New(width, height, raster.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	b := &Board{surface: surface}
	b.entry = newTextEntry(b.commitText)
	b.entry.Hide()
	b.layer = container.NewWithoutLayout(b.entry)

	b.image = canvas.NewImageFromImage(surface.Image())
	b.image.FillMode = canvas.ImageFillOriginal
	b.image.ScaleMode = canvas.ImageScalePixels

	opts = append(slices.Clone(opts),
		engine.WithLogger(logger),
		engine.WithTextOverlay(b),
		engine.WithChangeFunc(b.changed),
	)
	b.engine = engine.New(opts...)
	b.engine.Mount(surface)

	b.ExtendBaseWidget(b)
	b.redraw()
	return b, nil
}

// Engine returns the engine driven by the board.
func (b *Board) Engine() *engine.Engine { return b.engine }

// Snapshot returns a copy of the surface.
func (b *Board) Snapshot() image.Image { return b.surface.Image() }

// Close releases the surface.
func (b *Board) Close() error {
	b.engine.Unmount()
	return b.surface.Close()
}

// SetTool switches tools and notifies OnChange.
func (b *Board) SetTool(t engine.Tool) {
	b.engine.SetTool(t)
	b.redraw()
	b.changed()
}

func (b *Board) Undo() {
	if b.engine.Undo() {
		b.redraw()
	}
}

func (b *Board) Redo() {
	if b.engine.Redo() {
		b.redraw()
	}
}

func (b *Board) changed() {
	if b.OnChange != nil {
		b.OnChange()
	}
}

func (b *Board) redraw() {
	b.image.Image = b.surface.Image()
	b.image.Refresh()
}

func point(p fyne.Position) geometry.Point {
	return geometry.Point{X: float64(p.X), Y: float64(p.Y)}
}

// --- text overlay ---

// Open shows the text entry over the box the committed text will occupy,
// which starts one font size above the baseline anchor.
func (b *Board) Open(at geometry.Point) {
	b.entry.SetText("")
	b.entry.Move(fyne.NewPos(float32(at.X), float32(at.Y-raster.FontSize)))
	b.entry.Resize(fyne.NewSize(200, 60))
	b.entry.Show()
	if c := fyne.CurrentApp().Driver().CanvasForObject(b); c != nil {
		c.Focus(b.entry)
	}
}

func (b *Board) commitText(text string) {
	b.entry.Hide()
	b.engine.CommitText(text, b.surface.Measure(text))
	b.redraw()
}

// --- input ---

func (b *Board) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	b.last = point(e.Position)
	b.engine.PointerDown(b.last)
	b.redraw()
}

func (b *Board) MouseUp(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	b.last = point(e.Position)
	b.engine.PointerUp(b.last)
	b.redraw()
}

func (b *Board) MouseIn(*desktop.MouseEvent) {}

func (b *Board) MouseMoved(e *desktop.MouseEvent) {
	b.last = point(e.Position)
	b.engine.PointerMove(b.last)
	b.redraw()
}

func (b *Board) MouseOut() {
	b.engine.PointerLeave(b.last)
	b.redraw()
}

func (b *Board) Dragged(e *fyne.DragEvent) {
	b.last = point(e.Position)
	b.engine.PointerMove(b.last)
	b.redraw()
}

// DragEnd finishes the gesture in case the driver swallows the mouse-up.
func (b *Board) DragEnd() {
	switch b.engine.State() {
	case engine.StateDrawing, engine.StateDragging:
		b.engine.PointerUp(b.last)
		b.redraw()
	}
}

// Cursor maps the engine's cursor hint to a desktop cursor.
func (b *Board) Cursor() desktop.Cursor {
	switch b.engine.Cursor() {
	case engine.CursorCrosshair:
		return desktop.CrosshairCursor
	case engine.CursorMove:
		return desktop.PointerCursor
	case engine.CursorResizeEW:
		return desktop.HResizeCursor
	case engine.CursorResizeNS:
		return desktop.VResizeCursor
	default:
		return desktop.DefaultCursor
	}
}

func (b *Board) MinSize() fyne.Size {
	return fyne.NewSize(float32(b.surface.Width()), float32(b.surface.Height()))
}

func (b *Board) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(container.NewStack(b.image, b.layer))
}

// textEntry is a multi-line entry that reports its text when it loses focus.
type textEntry struct {
	widget.Entry
	onCommit func(string)
}

func newTextEntry(onCommit func(string)) *textEntry {
	e := &textEntry{onCommit: onCommit}
	e.MultiLine = true
	e.ExtendBaseWidget(e)
	return e
}

func (e *textEntry) FocusLost() {
	e.Entry.FocusLost()
	if e.Visible() && e.onCommit != nil {
		e.onCommit(e.Text)
	}
}
