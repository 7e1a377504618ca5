package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/zhouzirui/eunoia/backend/internal/model/chat"
	chatService "github.com/zhouzirui/eunoia/backend/internal/service/chat"
)

const (
	wsReadTimeout  = 60 * time.Second
	wsPingInterval = 54 * time.Second
	wsWriteTimeout = 10 * time.Second
)

type inboundMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// TextMessage 文本消息
type TextMessage struct {
	Text string `json:"text"`
}

type outgoingMessage struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// handleWebSocket 处理WebSocket连接，每个文本帧走一次与 /chat/send 相同的流程。
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	userID := chat.NormalizeUserID(r.URL.Query().Get("userId"))

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn(logModule, "websocket upgrade failed", map[string]interface{}{"error": err.Error()})
		return
	}
	defer conn.Close()

	h.log.Info(logModule, "websocket connected", map[string]interface{}{"userId": userID})

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	_ = conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
	})

	go pingLoop(ctx, conn)

	h.send(conn, "connected", map[string]string{"userId": userID})

	for {
		var msg inboundMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Warn(logModule, "websocket read error", map[string]interface{}{"error": err.Error()})
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(wsReadTimeout))

		h.handleMessage(ctx, conn, userID, &msg)
	}
}

func (h *Handler) handleMessage(ctx context.Context, conn *websocket.Conn, userID string, msg *inboundMessage) {
	if msg.Type != "text" {
		h.sendError(conn, "unsupported message type: "+msg.Type)
		return
	}

	var text TextMessage
	if err := json.Unmarshal(msg.Data, &text); err != nil {
		h.sendError(conn, "invalid text payload")
		return
	}

	resp, err := h.converse(ctx, userID, text.Text)
	if err != nil {
		if errors.Is(err, chatService.ErrContentRequired) {
			h.sendError(conn, "text is required")
			return
		}
		h.log.Error(logModule, "websocket exchange failed", map[string]interface{}{"error": err})
		h.sendError(conn, "failed to store chat message")
		return
	}

	h.send(conn, "reply", resp)
}

func (h *Handler) send(conn *websocket.Conn, kind string, data interface{}) {
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	msg := outgoingMessage{
		Type:      kind,
		Data:      data,
		Timestamp: time.Now().Unix(),
	}
	if err := conn.WriteJSON(msg); err != nil {
		h.log.Warn(logModule, "websocket write failed", map[string]interface{}{"type": kind, "error": err.Error()})
	}
}

func (h *Handler) sendError(conn *websocket.Conn, message string) {
	h.send(conn, "error", map[string]string{"message": message})
}

// pingLoop 定期发送ping消息。WriteControl 可与 WriteJSON 并发调用。
func pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteTimeout)); err != nil {
				return
			}
		}
	}
}

// originChecker 仅允许配置中的来源；无 Origin 头的非浏览器客户端直接放行。
func originChecker(allowedOrigins []string) func(r *http.Request) bool {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	allowAny := false
	for _, origin := range allowedOrigins {
		origin = strings.TrimRight(strings.TrimSpace(origin), "/")
		if origin == "*" {
			allowAny = true
		}
		allowed[origin] = struct{}{}
	}

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || allowAny {
			return true
		}
		_, ok := allowed[origin]
		return ok
	}
}
