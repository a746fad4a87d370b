package handler

import (
	"errors"
	"net/http"

	"github.com/bagdasarian/study-groups/internal/domain"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	statusCode := http.StatusInternalServerError

	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		statusCode = getStatusCode(domainErr.Code)
	}

	if statusCode >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err),
		)
	}

	writeJSON(w, statusCode, ErrorResponse{Error: err.Error()})
}

func getStatusCode(errorCode string) int {
	switch errorCode {
	case domain.CodeValidation, domain.CodeNotJoinable, domain.CodeAlreadyMember, domain.CodeGroupFull:
		return http.StatusBadRequest
	case domain.CodeForbidden:
		return http.StatusForbidden
	case domain.CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
