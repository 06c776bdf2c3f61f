package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/inamate/sketch/internal/engine"
	"github.com/inamate/sketch/internal/geometry"
	"github.com/inamate/sketch/internal/raster"
	"github.com/inamate/sketch/internal/render"
)

var (
	ErrNotFound       = errors.New("session not found")
	ErrBusy           = errors.New("session already has a client")
	ErrClosed         = errors.New("session closed")
	ErrUnknownMessage = errors.New("unknown message type")
)

// Session is one drawing surface with its own engine. A single goroutine
// owns the engine and runs every event in arrival order.
type Session struct {
	ID     string
	Width  int
	Height int

	logger   *slog.Logger
	engine   *engine.Engine
	recorder *render.Recorder
	raster   *raster.Surface // created on the first snapshot
	client   *Client
	frame    []byte         // last frame sent to the client
	pointer  geometry.Point // last pointer position seen

	events    chan func()
	done      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once

	lastActive atomic.Int64
}

func newSession(id string, width, height int, logger *slog.Logger, opts []engine.Option) *Session {
	s := &Session{
		ID:       id,
		Width:    width,
		Height:   height,
		logger:   logger.With("session", id),
		recorder: render.NewRecorder(),
		events:   make(chan func()),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	s.touch()

	opts = append(slices.Clone(opts),
		engine.WithLogger(s.logger),
		engine.WithCursorFunc(s.sendCursor),
		engine.WithTextOverlay(engine.TextOverlayFunc(s.sendTextOpen)),
		engine.WithChangeFunc(s.sendState),
	)
	s.engine = engine.New(opts...)
	s.engine.Mount(s.recorder)
	return s
}

func (s *Session) run() {
	defer close(s.stopped)
	defer s.shutdown()

	for {
		select {
		case fn := <-s.events:
			fn()
		case <-s.done:
			return
		}
	}
}

func (s *Session) shutdown() {
	s.engine.Unmount()
	if s.client != nil {
		close(s.client.send)
		s.client = nil
	}
	if s.raster != nil {
		if err := s.raster.Close(); err != nil {
			s.logger.Warn("close raster surface", "error", err)
		}
		s.raster = nil
	}
	s.logger.Info("session closed")
}

// Close stops the event loop and disconnects the client. It is safe to call
// more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
	<-s.stopped
}

// call runs fn on the session goroutine and waits for its result.
func (s *Session) call(ctx context.Context, fn func() error) error {
	res := make(chan error, 1)
	select {
	case s.events <- func() { res <- fn() }:
	case <-s.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-res:
		return err
	case <-s.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Session) touch() { s.lastActive.Store(time.Now().UnixNano()) }

// IdleSince returns the time of the last client activity.
func (s *Session) IdleSince() time.Time { return time.Unix(0, s.lastActive.Load()) }

// Attach makes c the session's client and sends it the initial state.
func (s *Session) Attach(ctx context.Context, c *Client) error {
	return s.call(ctx, func() error {
		if s.client != nil {
			return ErrBusy
		}
		s.client = c
		s.frame = nil
		s.logger.Info("client attached", "client", c.ID)

		s.send(TypeWelcome, WelcomePayload{SessionID: s.ID, Width: s.Width, Height: s.Height})
		s.sendState()
		s.sendCursor(s.engine.Cursor())
		s.sendFrame()
		return nil
	})
}

// Detach drops c if it is still the session's client.
func (s *Session) Detach(ctx context.Context, c *Client) error {
	return s.call(ctx, func() error {
		if s.client != c {
			return nil
		}
		close(c.send)
		s.client = nil
		// A gesture cannot finish without its client.
		s.engine.PointerLeave(s.pointer)
		s.engine.CancelText()
		s.logger.Info("client detached", "client", c.ID)
		return nil
	})
}

// Handle applies one client message. Malformed messages are reported to the
// client and do not stop the session.
func (s *Session) Handle(ctx context.Context, msg *Message) error {
	s.touch()
	return s.call(ctx, func() error {
		if err := s.apply(msg); err != nil {
			s.logger.Warn("rejected message", "type", msg.Type, "error", err)
			s.send(TypeError, ErrorPayload{Message: err.Error()})
			return nil
		}
		s.sendFrame()
		return nil
	})
}

func (s *Session) apply(msg *Message) error {
	e := s.engine
	switch msg.Type {
	case TypePointerDown, TypePointerMove, TypePointerUp, TypePointerLeave:
		var p PointPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		pt := geometry.Point{X: p.X, Y: p.Y}
		s.pointer = pt
		switch msg.Type {
		case TypePointerDown:
			e.PointerDown(pt)
		case TypePointerMove:
			e.PointerMove(pt)
		case TypePointerUp:
			e.PointerUp(pt)
		default:
			e.PointerLeave(pt)
		}

	case TypeToolSet:
		var p ToolPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		tool, err := engine.ParseTool(p.Tool)
		if err != nil {
			return err
		}
		e.SetTool(tool)
		s.sendState()

	case TypeHistoryUndo:
		e.Undo()
	case TypeHistoryRedo:
		e.Redo()

	case TypeTextCommit:
		var p TextCommitPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		e.CommitText(p.Text, geometry.Size{Width: p.Width, Height: p.Height})
	case TypeTextCancel:
		e.CancelText()

	default:
		return fmt.Errorf("%w: %q", ErrUnknownMessage, msg.Type)
	}
	return nil
}

func decode(msg *Message, v any) error {
	if len(msg.Payload) == 0 {
		return fmt.Errorf("%s: missing payload", msg.Type)
	}
	if err := json.Unmarshal(msg.Payload, v); err != nil {
		return fmt.Errorf("%s: %w", msg.Type, err)
	}
	return nil
}

// Snapshot writes the document as a PNG image.
func (s *Session) Snapshot(ctx context.Context, w io.Writer) error {
	var buf bytes.Buffer
	err := s.call(ctx, func() error {
		if s.raster == nil {
			r, err := raster.New(s.Width, s.Height, raster.WithLogger(s.logger))
			if err != nil {
				return fmt.Errorf("create raster surface: %w", err)
			}
			s.raster = r
		}
		render.Render(s.engine.Document(), s.raster, "")
		return s.raster.EncodePNG(&buf)
	})
	if err != nil {
		return err
	}
	_, err = buf.WriteTo(w)
	return err
}

// --- outbound, on the session goroutine ---

func (s *Session) send(typ string, payload any) {
	if s.client == nil {
		return
	}
	msg, err := newMessage(typ, payload)
	if err != nil {
		s.logger.Error("marshal message", "type", typ, "error", err)
		return
	}
	s.client.Send(msg)
}

func (s *Session) sendFrame() {
	if s.client == nil {
		return
	}
	cmds := s.recorder.Commands()
	data, err := json.Marshal(cmds)
	if err != nil {
		s.logger.Error("marshal frame", "error", err)
		return
	}
	if bytes.Equal(data, s.frame) {
		return
	}
	s.frame = data
	s.send(TypeFrame, FramePayload{Commands: cmds})
}

func (s *Session) sendCursor(c engine.Cursor) {
	s.send(TypeCursor, CursorPayload{Cursor: c})
}

func (s *Session) sendTextOpen(at geometry.Point) {
	s.send(TypeTextOpen, PointPayload{X: at.X, Y: at.Y})
}

func (s *Session) sendState() {
	e := s.engine
	s.send(TypeState, StatePayload{
		Tool:    e.Tool(),
		CanUndo: e.CanUndo(),
		CanRedo: e.CanRedo(),
		Shapes:  e.Document(),
	})
}
