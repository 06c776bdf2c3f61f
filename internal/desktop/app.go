package desktop

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"

	"github.com/inamate/sketch/internal/engine"
)

// Run opens the drawing window and blocks until it is closed.
func Run(width, height int, opts ...engine.Option) error {
	myApp := app.New()
	myWindow := myApp.NewWindow("Sketch")

	// Create the interactive board widget
	board, err := NewBoard(width, height, opts...)
	if err != nil {
		return err
	}
	defer board.Close()

	toolbar := NewToolbar(board)

	// Set up the main layout
	content := container.NewBorder(toolbar.Object(), nil, nil, nil, board)

	myWindow.SetContent(content)
	myWindow.Resize(fyne.NewSize(float32(width), float32(height)+48))
	myWindow.ShowAndRun()
	return nil
}
