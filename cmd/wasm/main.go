//go:build js && wasm

package main

import (
	"encoding/json"
	"log/slog"
	"os"
	"syscall/js"

	"github.com/inamate/sketch/internal/engine"
	"github.com/inamate/sketch/internal/geometry"
	"github.com/inamate/sketch/internal/render"
)

var (
	eng      *engine.Engine
	recorder *render.Recorder
	width    int
	height   int
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	eng = engine.New(
		engine.WithCursorFunc(func(c engine.Cursor) {
			callback("sketchOnCursor", string(c))
		}),
		engine.WithTextOverlay(engine.TextOverlayFunc(func(at geometry.Point) {
			callback("sketchOnTextOverlay", at.X, at.Y)
		})),
	)

	// Create the engine API object
	sketchEngine := js.Global().Get("Object").New()

	// --- Commands (frontend → engine) ---
	sketchEngine.Set("mount", js.FuncOf(mount))
	sketchEngine.Set("setTool", js.FuncOf(setTool))
	sketchEngine.Set("pointerDown", js.FuncOf(pointer(eng.PointerDown)))
	sketchEngine.Set("pointerMove", js.FuncOf(pointer(eng.PointerMove)))
	sketchEngine.Set("pointerUp", js.FuncOf(pointer(eng.PointerUp)))
	sketchEngine.Set("pointerLeave", js.FuncOf(pointer(eng.PointerLeave)))
	sketchEngine.Set("undo", js.FuncOf(undo))
	sketchEngine.Set("redo", js.FuncOf(redo))
	sketchEngine.Set("commitText", js.FuncOf(commitText))
	sketchEngine.Set("cancelText", js.FuncOf(cancelText))

	// --- Queries (frontend ← engine) ---
	sketchEngine.Set("getTool", js.FuncOf(getTool))
	sketchEngine.Set("render", js.FuncOf(renderFrame))
	sketchEngine.Set("getDocument", js.FuncOf(getDocument))
	sketchEngine.Set("getState", js.FuncOf(getState))

	// Register on global scope
	js.Global().Set("sketchEngine", sketchEngine)

	// Signal that WASM is ready
	js.Global().Set("sketchWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

// callback invokes a global JS function if the page defined one.
func callback(name string, args ...interface{}) {
	fn := js.Global().Get(name)
	if fn.Type() != js.TypeFunction {
		return
	}
	fn.Invoke(args...)
}

// --- Command Handlers ---

func mount(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf(map[string]interface{}{"error": "missing width/height"})
	}
	width, height = args[0].Int(), args[1].Int()
	if width <= 0 || height <= 0 {
		return js.ValueOf(map[string]interface{}{"error": "surface size must be positive"})
	}

	recorder = render.NewRecorder()
	eng.Mount(recorder)
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func setTool(this js.Value, args []js.Value) interface{} {
	name := ""
	if len(args) > 0 && args[0].Type() == js.TypeString {
		name = args[0].String()
	}
	tool, err := engine.ParseTool(name)
	if err != nil {
		return js.ValueOf(map[string]interface{}{"error": err.Error()})
	}
	eng.SetTool(tool)
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func pointer(fn func(geometry.Point)) func(js.Value, []js.Value) interface{} {
	return func(this js.Value, args []js.Value) interface{} {
		if len(args) < 2 {
			return nil
		}
		fn(geometry.Point{X: args[0].Float(), Y: args[1].Float()})
		return nil
	}
}

func undo(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.Undo())
}

func redo(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.Redo())
}

func commitText(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return js.ValueOf(false)
	}
	size := geometry.Size{Width: args[1].Float(), Height: args[2].Float()}
	return js.ValueOf(eng.CommitText(args[0].String(), size))
}

func cancelText(this js.Value, args []js.Value) interface{} {
	eng.CancelText()
	return nil
}

// --- Query Handlers ---

func getTool(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(string(eng.Tool()))
}

// renderFrame returns the current frame as JSON draw commands.
func renderFrame(this js.Value, args []js.Value) interface{} {
	if recorder == nil {
		return js.ValueOf("[]")
	}
	result, _ := recorder.JSON()
	return js.ValueOf(result)
}

func getDocument(this js.Value, args []js.Value) interface{} {
	data, err := json.Marshal(eng.Document())
	if err != nil {
		return js.ValueOf("[]")
	}
	return js.ValueOf(string(data))
}

func getState(this js.Value, args []js.Value) interface{} {
	data, _ := json.Marshal(map[string]interface{}{
		"tool":    eng.Tool(),
		"state":   eng.State(),
		"cursor":  eng.Cursor(),
		"canUndo": eng.CanUndo(),
		"canRedo": eng.CanRedo(),
		"mounted": eng.Mounted(),
		"width":   width,
		"height":  height,
	})
	return js.ValueOf(string(data))
}
