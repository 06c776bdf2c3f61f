package session

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/inamate/sketch/internal/auth"
)

type Handler struct {
	hub     *Hub
	auth    *auth.Service
	origins []string
}

func NewHandler(hub *Hub, authService *auth.Service, origins []string) *Handler {
	return &Handler{hub: hub, auth: authService, origins: origins}
}

// Register mounts the session routes on r.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/sessions", h.Create).Methods("POST")

	r.Handle("/sessions/{sessionId}", h.auth.SessionMiddleware(http.HandlerFunc(h.Delete))).Methods("DELETE")
	r.Handle("/sessions/{sessionId}/snapshot.png", h.auth.SessionMiddleware(http.HandlerFunc(h.Snapshot))).Methods("GET")

	r.HandleFunc("/ws/session/{sessionId}", h.WebSocket)
}

type createResponse struct {
	ID     string `json:"id"`
	Token  string `json:"token"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	s := h.hub.Create()
	token, err := h.auth.IssueToken(s.ID)
	if err != nil {
		h.hub.Close(s.ID)
		slog.Error("issue session token", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	writeJSON(w, http.StatusCreated, createResponse{ID: s.ID, Token: token, Width: s.Width, Height: s.Height})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.authorized(w, r)
	if !ok {
		return
	}
	if err := h.hub.Close(sessionID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Snapshot(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.authorized(w, r)
	if !ok {
		return
	}
	s, err := h.hub.Get(sessionID)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	if err := s.Snapshot(r.Context(), w); err != nil {
		slog.Error("snapshot", "session", sessionID, "error", err)
		writeError(w, err)
	}
}

func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	token := auth.TokenFromRequest(r)
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}
	tokenSession, err := h.auth.ValidateToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}
	if tokenSession != sessionID {
		http.Error(w, "token is for another session", http.StatusForbidden)
		return
	}

	s, err := h.hub.Get(sessionID)
	if err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.origins,
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	client := NewClient(s, conn, uuid.New().String())
	if err := s.Attach(r.Context(), client); err != nil {
		if errors.Is(err, ErrBusy) {
			conn.Close(websocket.StatusPolicyViolation, "session already has a client")
			return
		}
		conn.Close(websocket.StatusGoingAway, "session closed")
		return
	}

	ctx := r.Context()
	go client.WritePump(ctx)
	client.ReadPump(ctx)
}

// authorized checks that the token in the request context is for the session
// named in the path.
func (h *Handler) authorized(w http.ResponseWriter, r *http.Request) (string, bool) {
	sessionID := mux.Vars(r)["sessionId"]
	if auth.SessionIDFromContext(r.Context()) != sessionID {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "token is for another session"})
		return "", false
	}
	return sessionID, true
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, ErrClosed):
		writeJSON(w, http.StatusGone, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
