package engine

import (
	"log/slog"

	"github.com/inamate/sketch/internal/hittest"
)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithTextOverlay sets the overlay opened by the text tool.
func WithTextOverlay(overlay TextOverlay) Option {
	return func(e *Engine) {
		e.overlay = overlay
	}
}

// WithCursorFunc registers a listener called whenever the cursor hint changes.
func WithCursorFunc(fn func(Cursor)) Option {
	return func(e *Engine) {
		e.onCursor = fn
	}
}

// WithChangeFunc registers a listener called after every change to the
// document or the undo stacks.
func WithChangeFunc(fn func()) Option {
	return func(e *Engine) {
		e.onChange = fn
	}
}

// WithHitOptions overrides the hit-test tolerances.
func WithHitOptions(opts hittest.Options) Option {
	return func(e *Engine) {
		e.hit = opts
	}
}

// WithClearRedoOnCommit makes a new commit discard the redo stack.
func WithClearRedoOnCommit(clear bool) Option {
	return func(e *Engine) {
		e.clearRedoOnCommit = clear
	}
}

// WithDiscardEmptyShapes drops shapes whose pointer never left the origin
// instead of committing them as zero-size geometry.
func WithDiscardEmptyShapes(discard bool) Option {
	return func(e *Engine) {
		e.discardEmpty = discard
	}
}

// WithIDGenerator replaces the shape id generator.
func WithIDGenerator(fn func() string) Option {
	return func(e *Engine) {
		e.newID = fn
	}
}
