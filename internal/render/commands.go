package render

import (
	"encoding/json"
	"slices"

	"github.com/inamate/sketch/internal/geometry"
)

// DrawCommand is a single drawing operation for a remote front-end to execute
// on its own canvas, in order.
type DrawCommand struct {
	Op     string           `json:"op"`               // "clear", "rect", "line", "polyline", "text"
	X      float64          `json:"x,omitempty"`      // rect origin, line start, text anchor
	Y      float64          `json:"y,omitempty"`      //
	X2     float64          `json:"x2,omitempty"`     // line end
	Y2     float64          `json:"y2,omitempty"`     //
	Width  float64          `json:"width,omitempty"`  // rect extents, may be negative
	Height float64          `json:"height,omitempty"` //
	Points []geometry.Point `json:"points,omitempty"` // polyline vertices
	Text   string           `json:"text,omitempty"`
}

// Recorder is a Surface that records draw commands. Clear resets the
// recording, so after a Render the commands describe exactly one frame.
type Recorder struct {
	commands []DrawCommand
}

var _ Surface = (*Recorder)(nil)

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Clear() {
	r.commands = append(r.commands[:0], DrawCommand{Op: "clear"})
}

func (r *Recorder) StrokeRect(x, y, width, height float64) {
	r.commands = append(r.commands, DrawCommand{Op: "rect", X: x, Y: y, Width: width, Height: height})
}

func (r *Recorder) StrokeLine(x1, y1, x2, y2 float64) {
	r.commands = append(r.commands, DrawCommand{Op: "line", X: x1, Y: y1, X2: x2, Y2: y2})
}

func (r *Recorder) StrokePolyline(points []geometry.Point) {
	r.commands = append(r.commands, DrawCommand{Op: "polyline", Points: slices.Clone(points)})
}

func (r *Recorder) FillText(text string, x, y float64) {
	r.commands = append(r.commands, DrawCommand{Op: "text", X: x, Y: y, Text: text})
}

// Commands returns a copy of the recorded frame.
func (r *Recorder) Commands() []DrawCommand {
	return slices.Clone(r.commands)
}

// JSON serializes the recorded frame.
func (r *Recorder) JSON() (string, error) {
	return CommandsToJSON(r.commands)
}

// CommandsToJSON serializes draw commands to JSON.
func CommandsToJSON(commands []DrawCommand) (string, error) {
	if commands == nil {
		return "[]", nil
	}
	data, err := json.Marshal(commands)
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}
