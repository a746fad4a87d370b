package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bagdasarian/study-groups/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestGetStatusCode(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{domain.CodeValidation, http.StatusBadRequest},
		{domain.CodeNotJoinable, http.StatusBadRequest},
		{domain.CodeAlreadyMember, http.StatusBadRequest},
		{domain.CodeGroupFull, http.StatusBadRequest},
		{domain.CodeForbidden, http.StatusForbidden},
		{domain.CodeNotFound, http.StatusNotFound},
		{domain.CodeInviteCodeExhausted, http.StatusInternalServerError},
		{"SOMETHING_ELSE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, getStatusCode(tt.code))
		})
	}
}

func TestHandleError(t *testing.T) {
	t.Run("доменная ошибка без записи в лог", func(t *testing.T) {
		core, logs := observer.New(zapcore.InfoLevel)
		h := &Handler{logger: zap.New(core)}

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/groups/g1/join", nil)

		h.handleError(rec, req, domain.ErrGroupFull)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var body ErrorResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, "group has reached maximum capacity", body.Error)
		assert.Zero(t, logs.Len())
	})

	t.Run("внутренняя ошибка пишется в лог", func(t *testing.T) {
		core, logs := observer.New(zapcore.InfoLevel)
		h := &Handler{logger: zap.New(core)}

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/groups", nil)

		h.handleError(rec, req, errors.New("connection refused"))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"error":"connection refused"}`, rec.Body.String())
		require.Equal(t, 1, logs.Len())
		entry := logs.All()[0]
		assert.Equal(t, "request failed", entry.Message)
		assert.Equal(t, "/groups", entry.ContextMap()["path"])
	})
}
