// Package raster implements render.Surface on a software pixel buffer.
package raster

import (
	"fmt"
	"image"
	"io"
	"log/slog"
	"strings"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/inamate/sketch/internal/geometry"
	"github.com/inamate/sketch/internal/render"
)

const (
	// FontSize is the text size in points.
	FontSize  = 16
	lineWidth = 1
)

// Surface draws black strokes and text on a white, fixed-size canvas.
type Surface struct {
	ctx    *gg.Context
	source *text.FontSource
	face   text.Face
	logger *slog.Logger
}

var _ render.Surface = (*Surface)(nil)

// Option configures a Surface.
type Option func(*Surface)

// WithLogger sets the logger used for drawing failures. The default is
// slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Surface) {
		s.logger = logger
	}
}

// New allocates a width x height surface.
func New(width, height int, opts ...Option) (*Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid surface size %dx%d", width, height)
	}

	source, err := text.NewFontSource(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}

	s := &Surface{
		ctx:    gg.NewContext(width, height),
		source: source,
		face:   source.Face(FontSize),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.ctx.SetFont(s.face)
	s.Clear()
	return s, nil
}

// Close releases the drawing context and font.
func (s *Surface) Close() error {
	if err := s.ctx.Close(); err != nil {
		return err
	}
	return s.source.Close()
}

// Width returns the surface width in pixels.
func (s *Surface) Width() int { return s.ctx.Width() }

// Height returns the surface height in pixels.
func (s *Surface) Height() int { return s.ctx.Height() }

func (s *Surface) Clear() {
	s.ctx.ClearWithColor(gg.White)
	s.ctx.SetRGB(0, 0, 0)
	s.ctx.SetLineWidth(lineWidth)
}

func (s *Surface) StrokeRect(x, y, width, height float64) {
	b := geometry.NormalizedBox(x, y, width, height)
	s.ctx.DrawRectangle(b.MinX, b.MinY, b.Width(), b.Height())
	s.stroke()
}

func (s *Surface) StrokeLine(x1, y1, x2, y2 float64) {
	s.ctx.DrawLine(x1, y1, x2, y2)
	s.stroke()
}

func (s *Surface) StrokePolyline(points []geometry.Point) {
	if len(points) == 0 {
		return
	}
	s.ctx.MoveTo(points[0].X, points[0].Y)
	for _, p := range points[1:] {
		s.ctx.LineTo(p.X, p.Y)
	}
	s.stroke()
}

func (s *Surface) FillText(line string, x, y float64) {
	s.ctx.DrawString(line, x, y)
}

// stroke paints and clears the current path. A failed stroke only loses
// pixels; the surface stays usable.
func (s *Surface) stroke() {
	s.strokeFailed(s.ctx.Stroke())
}

func (s *Surface) strokeFailed(err error) {
	if err != nil {
		s.logger.Debug("stroke failed", "error", err)
	}
}

// Image returns a copy of the current pixels.
func (s *Surface) Image() image.Image {
	return s.ctx.Image()
}

// EncodePNG writes the current pixels as PNG.
func (s *Surface) EncodePNG(w io.Writer) error {
	return s.ctx.EncodePNG(w)
}

// Measure returns the box a multi-line text occupies when drawn with
// render.LineHeight spacing.
func (s *Surface) Measure(label string) geometry.Size {
	lines := strings.Split(label, "\n")
	var width float64
	for _, line := range lines {
		w, _ := text.Measure(line, s.face)
		width = max(width, w)
	}
	_, lineHeight := text.Measure("M", s.face)
	height := lineHeight + float64(len(lines)-1)*render.LineHeight
	return geometry.Size{Width: width, Height: height}
}
