package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/monocle-dev/taskboard/internal/apperror"
)

// writeError maps service errors onto HTTP statuses. Unknown errors are logged and hidden.
func writeError(ctx *gin.Context, log *slog.Logger, err error) {
	var (
		notFound  *apperror.NotFoundError
		forbidden *apperror.ForbiddenError
		unauth    *apperror.UnauthorizedError
		invalid   *apperror.ValidationError
		duplicate *apperror.AlreadyAssignedError
	)

	switch {
	case errors.As(err, &notFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": notFound.Error()})
	case errors.As(err, &forbidden):
		ctx.JSON(http.StatusForbidden, gin.H{"error": forbidden.Error()})
	case errors.As(err, &unauth):
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": unauth.Message})
	case errors.As(err, &invalid):
		body := gin.H{"error": invalid.Message}
		if len(invalid.Fields) > 0 {
			body["fields"] = invalid.Fields
		}
		ctx.JSON(http.StatusBadRequest, body)
	case errors.As(err, &duplicate):
		ctx.JSON(http.StatusConflict, gin.H{"error": duplicate.Message})
	default:
		log.Error("request failed", "method", ctx.Request.Method, "path", ctx.FullPath(), "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// bindJSON decodes the request body into req and turns binding failures into a ValidationError
// keyed by JSON field name.
func bindJSON(ctx *gin.Context, req any) error {
	err := ctx.ShouldBindJSON(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperror.Validation("Invalid request body", nil)
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fieldMessage(fe)
	}
	return apperror.Validation("Validation failed", fields)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	case "min":
		return fmt.Sprintf("Must be at least %s characters", fe.Param())
	default:
		return fmt.Sprintf("Failed the %s check", fe.Tag())
	}
}
