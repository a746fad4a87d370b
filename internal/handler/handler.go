package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/bagdasarian/study-groups/internal/service"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Pinger - проверка доступности БД для /healthz
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Handler struct {
	groupService      service.GroupService
	membershipService service.MembershipService
	db                Pinger
	logger            *zap.Logger
	validate          *validator.Validate
	translator        ut.Translator
}

func NewHandler(
	groupService service.GroupService,
	membershipService service.MembershipService,
	db Pinger,
	logger *zap.Logger,
) *Handler {
	validate, translator := newValidator()

	return &Handler{
		groupService:      groupService,
		membershipService: membershipService,
		db:                db,
		logger:            logger,
		validate:          validate,
		translator:        translator,
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
