package session

import (
	"encoding/json"

	"github.com/inamate/sketch/internal/engine"
	"github.com/inamate/sketch/internal/render"
	"github.com/inamate/sketch/internal/shape"
)

type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

const (
	// Client → server
	TypePointerDown  = "pointer.down"
	TypePointerMove  = "pointer.move"
	TypePointerUp    = "pointer.up"
	TypePointerLeave = "pointer.leave"
	TypeToolSet      = "tool.set"
	TypeHistoryUndo  = "history.undo"
	TypeHistoryRedo  = "history.redo"
	TypeTextCommit   = "text.commit"
	TypeTextCancel   = "text.cancel"

	// Server → client
	TypeWelcome  = "welcome"
	TypeFrame    = "frame"
	TypeCursor   = "cursor"
	TypeTextOpen = "text.open"
	TypeState    = "state"
	TypeError    = "error"
)

type PointPayload struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type ToolPayload struct {
	Tool string `json:"tool"`
}

type TextCommitPayload struct {
	Text   string  `json:"text"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type WelcomePayload struct {
	SessionID string `json:"sessionId"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

type FramePayload struct {
	Commands []render.DrawCommand `json:"commands"`
}

type CursorPayload struct {
	Cursor engine.Cursor `json:"cursor"`
}

type StatePayload struct {
	Tool    engine.Tool    `json:"tool"`
	CanUndo bool           `json:"canUndo"`
	CanRedo bool           `json:"canRedo"`
	Shapes  shape.Document `json:"shapes"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

func newMessage(typ string, payload any) (*Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Message{Type: typ, Payload: data}, nil
}
