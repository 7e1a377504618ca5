package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/zhouzirui/eunoia/backend/internal/handler/chat"
	"github.com/zhouzirui/eunoia/backend/internal/handler/mood"
	"github.com/zhouzirui/eunoia/backend/internal/handler/persona"
	middlewarePkg "github.com/zhouzirui/eunoia/backend/internal/middleware"
	personaModel "github.com/zhouzirui/eunoia/backend/internal/model/persona"
	"github.com/zhouzirui/eunoia/backend/internal/pkg/logger"
	chatService "github.com/zhouzirui/eunoia/backend/internal/service/chat"
	companionService "github.com/zhouzirui/eunoia/backend/internal/service/companion"
	moodService "github.com/zhouzirui/eunoia/backend/internal/service/mood"
	"github.com/zhouzirui/eunoia/backend/pkg/utils"
)

// Services groups the dependencies the HTTP layer needs.
type Services struct {
	Personas  personaModel.Store
	Chat      *chatService.Service
	Companion *companionService.Service
	Mood      *moodService.Service
	Log       logger.Logger
}

// NewRouter wires HTTP routes to core services.
func NewRouter(allowedOrigins []string, svc Services) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS(allowedOrigins))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(api chi.Router) {
		persona.New(svc.Personas).RegisterRoutes(api)
		chat.New(svc.Chat, svc.Companion, svc.Log, allowedOrigins).RegisterRoutes(api)
		mood.New(svc.Mood, svc.Log).RegisterRoutes(api)
	})

	return r
}
