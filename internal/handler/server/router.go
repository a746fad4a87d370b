package server

import (
	"net/http"

	"github.com/bagdasarian/study-groups/internal/handler"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// NewRouter собирает маршруты API. basePath может быть пустым.
func NewRouter(h *handler.Handler, basePath string, allowedOrigins []string, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(requestLogger(logger))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	r.Get("/healthz", h.Health)

	if basePath == "" {
		SetupRoutes(r, h)
		return r
	}

	r.Route(basePath, func(r chi.Router) {
		SetupRoutes(r, h)
	})
	return r
}

func SetupRoutes(r chi.Router, h *handler.Handler) {
	r.Route("/groups", func(r chi.Router) {
		r.Get("/", h.ListGroups)
		r.Post("/", h.CreateGroup)
		r.Get("/search/public", h.SearchPublicGroups)
		r.Get("/by-code/{invite_code}", h.GetGroupByInviteCode)
		r.Post("/join-by-code", h.JoinByInviteCode)
		r.Get("/user/{user_id}", h.ListUserGroups)

		r.Route("/{group_id}", func(r chi.Router) {
			r.Get("/", h.GetGroup)
			r.Patch("/", h.UpdateGroup)
			r.Get("/members", h.ListMembers)
			r.Post("/join", h.JoinGroup)
			r.Post("/leave", h.LeaveGroup)
			r.Patch("/members/{member_id}/role", h.ChangeMemberRole)
			r.Delete("/members/{member_id}", h.RemoveMember)
			r.Get("/stats", h.GetGroupStats)
		})
	})
}
