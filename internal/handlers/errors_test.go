package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/monocle-dev/taskboard/internal/apperror"
)

func TestWriteErrorStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	id := uuid.New()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "not found", err: apperror.NotFound("project", id), want: http.StatusNotFound},
		{name: "forbidden", err: apperror.Forbidden("project", id), want: http.StatusForbidden},
		{name: "unauthorized", err: apperror.Unauthorized("nope"), want: http.StatusUnauthorized},
		{name: "validation", err: apperror.Field("name", "required"), want: http.StatusBadRequest},
		{name: "already assigned", err: apperror.AlreadyAssigned("again"), want: http.StatusConflict},
		{name: "wrapped", err: fmt.Errorf("outer: %w", apperror.NotFound("task", id)), want: http.StatusNotFound},
		{name: "unknown", err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			ctx, _ := gin.CreateTestContext(w)
			ctx.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			writeError(ctx, log, tt.err)

			if w.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, w.Code)
			}
		})
	}
}
