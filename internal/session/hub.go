package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/inamate/sketch/internal/engine"
	"github.com/inamate/sketch/internal/typeid"
)

// Options configures every session a Hub creates.
type Options struct {
	Width  int
	Height int
	// IdleTimeout closes sessions without client activity. Zero disables it.
	IdleTimeout   time.Duration
	EngineOptions []engine.Option
}

// Hub tracks the live sessions.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	opts     Options
	logger   *slog.Logger
}

func NewHub(opts Options, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		sessions: make(map[string]*Session),
		opts:     opts,
		logger:   logger,
	}
}

// Create starts a new session.
func (h *Hub) Create() *Session {
	s := newSession(typeid.NewSessionID(), h.opts.Width, h.opts.Height, h.logger, h.opts.EngineOptions)
	go s.run()

	h.mu.Lock()
	h.sessions[s.ID] = s
	h.mu.Unlock()

	s.logger.Info("session created", "width", s.Width, "height", s.Height)
	return s
}

func (h *Hub) Get(id string) (*Session, error) {
	h.mu.RLock()
	s, ok := h.sessions[id]
	h.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// Close stops the session and forgets it.
func (h *Hub) Close(id string) error {
	h.mu.Lock()
	s, ok := h.sessions[id]
	delete(h.sessions, id)
	h.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	s.Close()
	return nil
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// Run closes idle sessions until ctx is done, then closes every session.
func (h *Hub) Run(ctx context.Context) {
	defer h.Stop()
	if h.opts.IdleTimeout <= 0 {
		<-ctx.Done()
		return
	}

	ticker := time.NewTicker(h.opts.IdleTimeout / 4)
	defer ticker.Stop()
	for {
		select {
		case now := <-ticker.C:
			h.reap(now)
		case <-ctx.Done():
			return
		}
	}
}

func (h *Hub) reap(now time.Time) {
	var idle []string
	h.mu.RLock()
	for id, s := range h.sessions {
		if now.Sub(s.IdleSince()) > h.opts.IdleTimeout {
			idle = append(idle, id)
		}
	}
	h.mu.RUnlock()

	for _, id := range idle {
		h.logger.Info("closing idle session", "session", id)
		h.Close(id)
	}
}

// Stop closes every session.
func (h *Hub) Stop() {
	h.mu.Lock()
	sessions := h.sessions
	h.sessions = make(map[string]*Session)
	h.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}
