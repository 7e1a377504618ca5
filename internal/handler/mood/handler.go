package mood

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/eunoia/backend/internal/pkg/logger"
	moodService "github.com/zhouzirui/eunoia/backend/internal/service/mood"
	"github.com/zhouzirui/eunoia/backend/pkg/utils"
)

const logModule = "mood"

// Handler 情绪聚合的HTTP处理器
type Handler struct {
	moodSvc *moodService.Service
	log     logger.Logger
}

func New(moodSvc *moodService.Service, log logger.Logger) *Handler {
	return &Handler{moodSvc: moodSvc, log: log}
}

// RegisterRoutes 注册情绪相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/mood", func(r chi.Router) {
		r.Post("/analyze-batch", h.handleAnalyzeBatch)
		r.Get("/history", h.handleHistory)
	})
}

type analyzeRequest struct {
	UserID string `json:"userId"`
}

// handleAnalyzeBatch 汇总最近的对话生成一条情绪样本；没有对话时返回空响应体。
func (h *Handler) handleAnalyzeBatch(w http.ResponseWriter, r *http.Request) {
	var payload analyzeRequest
	if err := utils.DecodeJSON(r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	sample, err := h.moodSvc.AnalyzeRecent(r.Context(), payload.UserID)
	if err != nil {
		h.log.Error(logModule, "mood analysis failed", map[string]interface{}{"error": err})
		utils.RespondError(w, http.StatusInternalServerError, "failed to analyze mood")
		return
	}
	if sample == nil {
		w.WriteHeader(http.StatusOK)
		return
	}

	utils.RespondJSON(w, http.StatusOK, sample)
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	samples, err := h.moodSvc.History(r.Context(), r.URL.Query().Get("userId"))
	if err != nil {
		h.log.Error(logModule, "load mood history failed", map[string]interface{}{"error": err})
		utils.RespondError(w, http.StatusInternalServerError, "failed to load mood history")
		return
	}

	utils.RespondJSON(w, http.StatusOK, samples)
}
