package session

import (
	"context"
	"encoding/json"
	"image/png"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/gorilla/mux"

	"github.com/inamate/sketch/internal/auth"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	hub := NewHub(Options{Width: 200, Height: 100}, slog.Default())
	t.Cleanup(hub.Stop)

	r := mux.NewRouter()
	NewHandler(hub, auth.NewService("test-secret", time.Hour), nil).Register(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func createSession(t *testing.T, srv *httptest.Server) createResponse {
	t.Helper()
	resp, err := http.Post(srv.URL+"/sessions", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: status %d", resp.StatusCode)
	}
	var out createResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	return out
}

func do(t *testing.T, method, url, token string) *http.Response {
	t.Helper()
	req, _ := http.NewRequest(method, url, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestCreateSession(t *testing.T) {
	srv := newTestServer(t)
	sess := createSession(t, srv)
	if !strings.HasPrefix(sess.ID, "sess_") || sess.Token == "" {
		t.Errorf("session = %+v", sess)
	}
	if sess.Width != 200 || sess.Height != 100 {
		t.Errorf("size = %dx%d", sess.Width, sess.Height)
	}
}

func TestSnapshot(t *testing.T) {
	srv := newTestServer(t)
	sess := createSession(t, srv)
	url := srv.URL + "/sessions/" + sess.ID + "/snapshot.png"

	resp := do(t, http.MethodGet, url, sess.Token)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	img, err := png.Decode(resp.Body)
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 200 || b.Dy() != 100 {
		t.Errorf("bounds = %v", b)
	}

	if resp := do(t, http.MethodGet, url, ""); resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("without token: %d", resp.StatusCode)
	}
	other := createSession(t, srv)
	if resp := do(t, http.MethodGet, url, other.Token); resp.StatusCode != http.StatusForbidden {
		t.Errorf("foreign token: %d", resp.StatusCode)
	}
}

func TestDeleteSession(t *testing.T) {
	srv := newTestServer(t)
	sess := createSession(t, srv)

	if resp := do(t, http.MethodDelete, srv.URL+"/sessions/"+sess.ID, sess.Token); resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete: %d", resp.StatusCode)
	}
	if resp := do(t, http.MethodGet, srv.URL+"/sessions/"+sess.ID+"/snapshot.png", sess.Token); resp.StatusCode != http.StatusNotFound {
		t.Errorf("snapshot after delete: %d", resp.StatusCode)
	}
}

func dial(t *testing.T, ctx context.Context, srv *httptest.Server, sess createResponse) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/session/" + sess.ID + "?token=" + sess.Token
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.CloseNow() })
	return conn
}

func readUntil(t *testing.T, ctx context.Context, conn *websocket.Conn, typ string) Message {
	t.Helper()
	for {
		var msg Message
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			t.Fatalf("read waiting for %s: %v", typ, err)
		}
		if msg.Type == typ {
			return msg
		}
	}
}

func TestWebSocketDrawing(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	srv := newTestServer(t)
	sess := createSession(t, srv)
	conn := dial(t, ctx, srv, sess)

	var welcome WelcomePayload
	json.Unmarshal(readUntil(t, ctx, conn, TypeWelcome).Payload, &welcome)
	if welcome.SessionID != sess.ID {
		t.Errorf("welcome = %+v", welcome)
	}
	readUntil(t, ctx, conn, TypeFrame)

	send := func(typ string, payload any) {
		msg, _ := newMessage(typ, payload)
		if err := wsjson.Write(ctx, conn, msg); err != nil {
			t.Fatalf("write %s: %v", typ, err)
		}
	}
	send(TypeToolSet, ToolPayload{Tool: "line"})
	readUntil(t, ctx, conn, TypeState)
	send(TypePointerDown, PointPayload{X: 0, Y: 0})
	send(TypePointerMove, PointPayload{X: 20, Y: 10})

	var frame FramePayload
	json.Unmarshal(readUntil(t, ctx, conn, TypeFrame).Payload, &frame)
	if n := len(frame.Commands); n != 2 || frame.Commands[1].Op != "line" {
		t.Fatalf("live frame = %+v", frame.Commands)
	}

	send(TypePointerUp, PointPayload{X: 40, Y: 20})
	var st struct {
		CanUndo bool              `json:"canUndo"`
		Shapes  []json.RawMessage `json:"shapes"`
	}
	json.Unmarshal(readUntil(t, ctx, conn, TypeState).Payload, &st)
	if len(st.Shapes) != 1 || !st.CanUndo {
		t.Errorf("state = %+v", st)
	}
}

func TestWebSocketSecondClientRefused(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	srv := newTestServer(t)
	sess := createSession(t, srv)
	first := dial(t, ctx, srv, sess)
	readUntil(t, ctx, first, TypeWelcome)

	second := dial(t, ctx, srv, sess)
	_, _, err := second.Read(ctx)
	if got := websocket.CloseStatus(err); got != websocket.StatusPolicyViolation {
		t.Errorf("close status = %v (%v), want policy violation", got, err)
	}
}

func TestWebSocketRejectsBadToken(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	srv := newTestServer(t)
	sess := createSession(t, srv)
	other := createSession(t, srv)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/session/" + sess.ID + "?token=" + other.Token
	_, resp, err := websocket.Dial(ctx, url, nil)
	if err == nil {
		t.Fatal("dial succeeded with a foreign token")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Errorf("response = %v", resp)
	}
}
