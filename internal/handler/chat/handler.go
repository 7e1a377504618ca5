package chat

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/zhouzirui/eunoia/backend/internal/model/companion"
	"github.com/zhouzirui/eunoia/backend/internal/pkg/logger"
	chatService "github.com/zhouzirui/eunoia/backend/internal/service/chat"
	companionService "github.com/zhouzirui/eunoia/backend/internal/service/companion"
	"github.com/zhouzirui/eunoia/backend/pkg/utils"
)

const (
	logModule = "chat"

	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// Handler 聊天服务的HTTP处理器
type Handler struct {
	chatSvc      *chatService.Service
	companionSvc *companionService.Service
	log          logger.Logger
	upgrader     websocket.Upgrader
}

// New 创建聊天处理器。allowedOrigins 同时用于 WebSocket 握手的来源校验。
func New(chatSvc *chatService.Service, companionSvc *companionService.Service, log logger.Logger, allowedOrigins []string) *Handler {
	return &Handler{
		chatSvc:      chatSvc,
		companionSvc: companionSvc,
		log:          log,
		upgrader: websocket.Upgrader{
			CheckOrigin:     originChecker(allowedOrigins),
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes 注册聊天相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/chat", func(r chi.Router) {
		r.Post("/send", h.handleSend)
		r.Get("/history/latest", h.handleLatest)
		r.Get("/history", h.handleHistory)
		r.Get("/ws", h.handleWebSocket)
	})
}

type sendRequest struct {
	Message string `json:"message" validate:"required"`
	UserID  string `json:"userId"`
}

func (h *Handler) handleSend(w http.ResponseWriter, r *http.Request) {
	var payload sendRequest
	if err := utils.DecodeJSON(r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.converse(r.Context(), payload.UserID, payload.Message)
	if err != nil {
		if errors.Is(err, chatService.ErrContentRequired) {
			utils.RespondError(w, http.StatusBadRequest, "message is required")
			return
		}
		h.log.Error(logModule, "chat send failed", map[string]interface{}{"error": err})
		utils.RespondError(w, http.StatusInternalServerError, "failed to store chat message")
		return
	}

	utils.RespondJSON(w, http.StatusOK, resp)
}

// converse stores the user's turn, asks the companion, and stores its reply.
func (h *Handler) converse(ctx context.Context, userID, message string) (companion.Response, error) {
	if _, err := h.chatSvc.Append(ctx, userID, message, true); err != nil {
		return companion.Response{}, err
	}

	resp := h.companionSvc.Respond(ctx, message)

	if _, err := h.chatSvc.Append(ctx, userID, resp.Reply, false); err != nil {
		return companion.Response{}, err
	}
	return resp, nil
}

// handleLatest 返回最近一条陪伴回复，动作标签固定为待机状态。
func (h *Handler) handleLatest(w http.ResponseWriter, r *http.Request) {
	turn, ok, err := h.chatSvc.LatestAssistantTurn(r.Context(), r.URL.Query().Get("userId"))
	if err != nil {
		h.log.Error(logModule, "load latest reply failed", map[string]interface{}{"error": err})
		utils.RespondError(w, http.StatusInternalServerError, "failed to load chat history")
		return
	}
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	utils.RespondJSON(w, http.StatusOK, companion.Response{
		Reply:               turn.Content,
		Emotion:             companion.EmotionHappy,
		Action:              companion.ActionIdle,
		TargetObject:        companion.TargetNone,
		RecommendedCategory: companion.CategoryNone,
	})
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit := defaultHistoryLimit
	if raw := query.Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			utils.RespondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(parsed, maxHistoryLimit)
	}

	turns, err := h.chatSvc.Recent(r.Context(), query.Get("userId"), limit)
	if err != nil {
		h.log.Error(logModule, "load chat history failed", map[string]interface{}{"error": err})
		utils.RespondError(w, http.StatusInternalServerError, "failed to load chat history")
		return
	}

	utils.RespondJSON(w, http.StatusOK, turns)
}
