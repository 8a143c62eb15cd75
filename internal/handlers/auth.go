package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/monocle-dev/taskboard/internal/dto"
	"github.com/monocle-dev/taskboard/internal/services"
	"github.com/monocle-dev/taskboard/internal/utils"
)

type AuthHandler struct {
	auth *services.AuthService
	log  *slog.Logger
}

func NewAuthHandler(auth *services.AuthService, log *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, log: log}
}

func (h *AuthHandler) Register(ctx *gin.Context) {
	var req dto.RegisterRequest

	if err := bindJSON(ctx, &req); err != nil {
		writeError(ctx, h.log, err)
		return
	}

	res, err := h.auth.Register(ctx.Request.Context(), req)

	if err != nil {
		writeError(ctx, h.log, err)
		return
	}

	ctx.JSON(http.StatusCreated, res)
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req dto.LoginRequest

	if err := bindJSON(ctx, &req); err != nil {
		writeError(ctx, h.log, err)
		return
	}

	res, err := h.auth.Login(ctx.Request.Context(), req)

	if err != nil {
		writeError(ctx, h.log, err)
		return
	}

	ctx.JSON(http.StatusOK, res)
}

func (h *AuthHandler) Google(ctx *gin.Context) {
	var req dto.GoogleLoginRequest

	if err := bindJSON(ctx, &req); err != nil {
		writeError(ctx, h.log, err)
		return
	}

	res, err := h.auth.GoogleLogin(ctx.Request.Context(), req)

	if err != nil {
		writeError(ctx, h.log, err)
		return
	}

	ctx.JSON(http.StatusOK, res)
}

func (h *AuthHandler) Me(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	user, err := h.auth.CurrentUser(ctx.Request.Context(), userID)

	if err != nil {
		writeError(ctx, h.log, err)
		return
	}

	ctx.JSON(http.StatusOK, user)
}
