package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/monocle-dev/taskboard/internal/services"
	"github.com/monocle-dev/taskboard/internal/utils"
)

type UserHandler struct {
	users *services.UserService
	log   *slog.Logger
}

func NewUserHandler(users *services.UserService, log *slog.Logger) *UserHandler {
	return &UserHandler{users: users, log: log}
}

// Search lists users whose email or display name contains the query parameter.
func (h *UserHandler) Search(ctx *gin.Context) {
	page, err := utils.GetPageRequest(ctx)

	if err != nil {
		writeError(ctx, h.log, err)
		return
	}

	res, err := h.users.Search(ctx.Request.Context(), ctx.Query("query"), page)

	if err != nil {
		writeError(ctx, h.log, err)
		return
	}

	ctx.JSON(http.StatusOK, res)
}
