package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/zhouzirui/eunoia/backend/internal/model/chat"
	"github.com/zhouzirui/eunoia/backend/internal/model/companion"
	"github.com/zhouzirui/eunoia/backend/internal/model/persona"
	"github.com/zhouzirui/eunoia/backend/internal/pkg/logger"
	"github.com/zhouzirui/eunoia/backend/internal/repository/contract"
	"github.com/zhouzirui/eunoia/backend/internal/repository/memory"
	chatservice "github.com/zhouzirui/eunoia/backend/internal/service/chat"
	companionservice "github.com/zhouzirui/eunoia/backend/internal/service/companion"
)

type failingTurns struct{}

func (failingTurns) Create(context.Context, *chat.Turn) error { return errors.New("db down") }
func (failingTurns) FindRecentByUserID(context.Context, string, int) ([]chat.Turn, error) {
	return nil, errors.New("db down")
}

func setupRouterWith(turns contract.ChatTurnRepository) (*chi.Mux, *chatservice.Service) {
	chatSvc := chatservice.NewService(turns)
	companionSvc := companionservice.NewService(nil, persona.NewMemoryStore(persona.Seed()), logger.NewNop())
	handler := New(chatSvc, companionSvc, logger.NewNop(), []string{"http://localhost:5173"})

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r, chatSvc
}

func setupRouter() (*chi.Mux, *chatservice.Service) {
	return setupRouterWith(memory.NewChatTurnRepository())
}

func postSend(r http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/chat/send", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestSendPersistsBothTurns(t *testing.T) {
	r, chatSvc := setupRouter()

	resp := postSend(r, `{"message":"I feel anxious","userId":"u-1"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var got companion.Response
	if err := json.Unmarshal(resp.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.Emotion != companion.EmotionConcerned || got.Action != companion.ActionBreathe || got.TargetObject != companion.TargetMat {
		t.Fatalf("unexpected companion response: %+v", got)
	}
	if got.RecommendedCategory != companion.CategoryBreathing {
		t.Fatalf("expected BREATHING, got %s", got.RecommendedCategory)
	}

	turns, _ := chatSvc.Recent(context.Background(), "u-1", 10)
	if len(turns) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(turns))
	}
	if turns[1].Content != "I feel anxious" || !turns[1].IsFromUser {
		t.Fatalf("expected user turn first in time, got %+v", turns[1])
	}
	if turns[0].Content != got.Reply || turns[0].IsFromUser {
		t.Fatalf("expected assistant turn to hold reply, got %+v", turns[0])
	}
}

func TestSendDefaultsAnonymousUser(t *testing.T) {
	r, chatSvc := setupRouter()

	if resp := postSend(r, `{"message":"hello"}`); resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	turns, _ := chatSvc.Recent(context.Background(), chat.AnonymousUserID, 10)
	if len(turns) != 2 {
		t.Fatalf("expected 2 anonymous turns, got %d", len(turns))
	}
}

func TestSendRejectsInvalidBodies(t *testing.T) {
	r, chatSvc := setupRouter()

	for _, body := range []string{`{`, `{}`, `{"message":""}`, `{"message":"   "}`} {
		resp := postSend(r, body)
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("body %q: expected 400, got %d", body, resp.Code)
		}
	}

	turns, _ := chatSvc.Recent(context.Background(), chat.AnonymousUserID, 10)
	if len(turns) != 0 {
		t.Fatalf("expected nothing persisted, got %d", len(turns))
	}
}

func TestSendStorageFailure(t *testing.T) {
	r, _ := setupRouterWith(failingTurns{})

	resp := postSend(r, `{"message":"hello"}`)
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
}

func TestLatestNoContent(t *testing.T) {
	r, chatSvc := setupRouter()
	_, _ = chatSvc.Append(context.Background(), "u-1", "only the user spoke", true)

	req := httptest.NewRequest(http.MethodGet, "/chat/history/latest?userId=u-1", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
	if resp.Body.Len() != 0 {
		t.Fatalf("expected empty body, got %q", resp.Body.String())
	}
}

func TestLatestReturnsIdleReply(t *testing.T) {
	r, chatSvc := setupRouter()
	ctx := context.Background()
	_, _ = chatSvc.Append(ctx, "u-1", "first reply", false)
	_, _ = chatSvc.Append(ctx, "u-1", "second reply", false)
	_, _ = chatSvc.Append(ctx, "u-1", "user again", true)

	req := httptest.NewRequest(http.MethodGet, "/chat/history/latest?userId=u-1", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var got companion.Response
	_ = json.Unmarshal(resp.Body.Bytes(), &got)
	want := companion.Response{
		Reply:               "second reply",
		Emotion:             companion.EmotionHappy,
		Action:              companion.ActionIdle,
		TargetObject:        companion.TargetNone,
		RecommendedCategory: companion.CategoryNone,
	}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestHistoryLimits(t *testing.T) {
	r, chatSvc := setupRouter()
	for i := 0; i < 30; i++ {
		_, _ = chatSvc.Append(context.Background(), "u-1", "msg", i%2 == 0)
	}

	cases := map[string]int{
		"/chat/history?userId=u-1":           20,
		"/chat/history?userId=u-1&limit=5":   5,
		"/chat/history?userId=u-1&limit=500": 30,
		"/chat/history?userId=nobody":        0,
	}
	for url, want := range cases {
		req := httptest.NewRequest(http.MethodGet, url, nil)
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)

		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", url, resp.Code)
		}
		var turns []chat.Turn
		if err := json.Unmarshal(resp.Body.Bytes(), &turns); err != nil {
			t.Fatalf("%s: decode: %v", url, err)
		}
		if len(turns) != want {
			t.Fatalf("%s: expected %d turns, got %d", url, want, len(turns))
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/chat/history?limit=abc", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad limit, got %d", resp.Code)
	}
}

func dialWS(t *testing.T, server *httptest.Server, path string, header http.Header) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func readOutgoing(t *testing.T, conn *websocket.Conn) map[string]json.RawMessage {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var msg map[string]json.RawMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	return msg
}

func TestWebSocketExchange(t *testing.T) {
	r, chatSvc := setupRouter()
	server := httptest.NewServer(r)
	defer server.Close()

	conn := dialWS(t, server, "/chat/ws?userId=u-ws", nil)
	defer conn.Close()

	if msg := readOutgoing(t, conn); string(msg["type"]) != `"connected"` {
		t.Fatalf("expected connected frame, got %s", msg["type"])
	}

	if err := conn.WriteJSON(map[string]any{"type": "text", "data": map[string]string{"text": "I need some water"}}); err != nil {
		t.Fatalf("write: %v", err)
	}
	msg := readOutgoing(t, conn)
	if string(msg["type"]) != `"reply"` {
		t.Fatalf("expected reply frame, got %s", msg["type"])
	}
	var resp companion.Response
	if err := json.Unmarshal(msg["data"], &resp); err != nil {
		t.Fatalf("decode reply: %v", err)
	}
	if resp.Action != companion.ActionDrink || resp.TargetObject != companion.TargetWaterStation {
		t.Fatalf("unexpected reply: %+v", resp)
	}

	if err := conn.WriteJSON(map[string]any{"type": "audio", "data": map[string]string{}}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if msg := readOutgoing(t, conn); string(msg["type"]) != `"error"` {
		t.Fatalf("expected error frame, got %s", msg["type"])
	}

	turns, _ := chatSvc.Recent(context.Background(), "u-ws", 10)
	if len(turns) != 2 {
		t.Fatalf("expected 2 turns persisted, got %d", len(turns))
	}
}

func TestWebSocketRejectsForeignOrigin(t *testing.T) {
	r, _ := setupRouter()
	server := httptest.NewServer(r)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/chat/ws"
	header := http.Header{"Origin": []string{"http://evil.example"}}
	_, resp, err := websocket.DefaultDialer.Dial(url, header)
	if err == nil {
		t.Fatalf("expected handshake failure")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %+v", resp)
	}
}

