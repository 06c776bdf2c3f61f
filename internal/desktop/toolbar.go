package desktop

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/inamate/sketch/internal/engine"
)

var toolLabels = map[engine.Tool]string{
	engine.ToolNone:      "Select",
	engine.ToolRectangle: "Rectangle",
	engine.ToolLine:      "Line",
	engine.ToolText:      "Text",
	engine.ToolPen:       "Pen",
}

// Toolbar picks the board's tool and drives undo/redo. It reads the current
// tool back from the engine to highlight the active button.
type Toolbar struct {
	board *Board
	tools map[engine.Tool]*widget.Button
	undo  *widget.Button
	redo  *widget.Button
	box   *fyne.Container
}

func NewToolbar(board *Board) *Toolbar {
	tb := &Toolbar{
		board: board,
		tools: make(map[engine.Tool]*widget.Button),
	}

	box := container.NewHBox(widget.NewLabel("Tool:"))
	for _, tool := range engine.Tools() {
		btn := widget.NewButton(toolLabels[tool], func() {
			board.SetTool(tool)
		})
		tb.tools[tool] = btn
		box.Add(btn)
	}

	tb.undo = widget.NewButtonWithIcon("Undo", theme.ContentUndoIcon(), board.Undo)
	tb.redo = widget.NewButtonWithIcon("Redo", theme.ContentRedoIcon(), board.Redo)
	box.Add(widget.NewSeparator())
	box.Add(tb.undo)
	box.Add(tb.redo)
	box.Add(layout.NewSpacer())
	tb.box = box

	board.OnChange = tb.Update
	tb.Update()
	return tb
}

// Object returns the toolbar's canvas object.
func (tb *Toolbar) Object() fyne.CanvasObject { return tb.box }

// Update highlights the active tool and enables undo/redo when they apply.
func (tb *Toolbar) Update() {
	current := tb.board.Engine().Tool()
	for tool, btn := range tb.tools {
		if tool == current {
			btn.Importance = widget.HighImportance
		} else {
			btn.Importance = widget.MediumImportance
		}
		btn.Refresh()
	}

	e := tb.board.Engine()
	setEnabled(tb.undo, e.CanUndo())
	setEnabled(tb.redo, e.CanRedo())
}

func setEnabled(btn *widget.Button, enabled bool) {
	if enabled {
		btn.Enable()
	} else {
		btn.Disable()
	}
}
