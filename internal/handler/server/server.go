package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/bagdasarian/study-groups/internal/config"
	"github.com/bagdasarian/study-groups/internal/handler"
	"go.uber.org/zap"
)

type Server struct {
	server *http.Server
	logger *zap.Logger
}

func NewServer(h *handler.Handler, cfg config.HTTPConfig, logger *zap.Logger) *Server {
	return &Server{
		server: &http.Server{
			Addr:         cfg.Addr,
			Handler:      NewRouter(h, cfg.BasePath, cfg.CORSAllowedOrigins, logger),
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		logger: logger,
	}
}

// Start блокируется до остановки сервера. После Shutdown возвращает nil.
func (s *Server) Start() error {
	s.logger.Info("server starting", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}
