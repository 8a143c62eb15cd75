package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/monocle-dev/taskboard/internal/dto"
	"github.com/monocle-dev/taskboard/internal/services"
	"github.com/monocle-dev/taskboard/internal/utils"
)

type TaskHandler struct {
	tasks *services.TaskService
	log   *slog.Logger
}

func NewTaskHandler(tasks *services.TaskService, log *slog.Logger) *TaskHandler {
	return &TaskHandler{tasks: tasks, log: log}
}

func (h *TaskHandler) callerAndTask(ctx *gin.Context) (caller, taskID uuid.UUID, ok bool) {
	caller, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return uuid.Nil, uuid.Nil, false
	}

	taskID, err = utils.GetUUIDParam(ctx, "id")

	if err != nil {
		writeError(ctx, h.log, err)
		return uuid.Nil, uuid.Nil, false
	}

	return caller, taskID, true
}

func (h *TaskHandler) Create(ctx *gin.Context) {
	caller, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req dto.CreateTaskRequest

	if err := bindJSON(ctx, &req); err != nil {
		writeError(ctx, h.log, err)
		return
	}

	task, err := h.tasks.Create(ctx.Request.Context(), caller, req, nil)

	if err != nil {
		writeError(ctx, h.log, err)
		return
	}

	ctx.JSON(http.StatusCreated, task)
}

// List returns tasks the caller created or is assigned to, filtered by the status, priority
// and query parameters.
func (h *TaskHandler) List(ctx *gin.Context) {
	caller, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	page, err := utils.GetPageRequest(ctx)

	if err != nil {
		writeError(ctx, h.log, err)
		return
	}

	filter := services.TaskQuery{
		Status:   ctx.Query("status"),
		Priority: ctx.Query("priority"),
		Query:    ctx.Query("query"),
	}

	res, err := h.tasks.ListForUser(ctx.Request.Context(), caller, filter, page)

	if err != nil {
		writeError(ctx, h.log, err)
		return
	}

	ctx.JSON(http.StatusOK, res)
}

func (h *TaskHandler) ListOwned(ctx *gin.Context) {
	caller, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	page, err := utils.GetPageRequest(ctx)

	if err != nil {
		writeError(ctx, h.log, err)
		return
	}

	res, err := h.tasks.ListOwned(ctx.Request.Context(), caller, page)

	if err != nil {
		writeError(ctx, h.log, err)
		return
	}

	ctx.JSON(http.StatusOK, res)
}

func (h *TaskHandler) ListAssigned(ctx *gin.Context) {
	caller, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	page, err := utils.GetPageRequest(ctx)

	if err != nil {
		writeError(ctx, h.log, err)
		return
	}

	res, err := h.tasks.ListAssigned(ctx.Request.Context(), caller, ctx.Query("query"), page)

	if err != nil {
		writeError(ctx, h.log, err)
		return
	}

	ctx.JSON(http.StatusOK, res)
}

func (h *TaskHandler) Stats(ctx *gin.Context) {
	caller, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	stats, err := h.tasks.Stats(ctx.Request.Context(), caller)

	if err != nil {
		writeError(ctx, h.log, err)
		return
	}

	ctx.JSON(http.StatusOK, stats)
}

func (h *TaskHandler) Get(ctx *gin.Context) {
	caller, taskID, ok := h.callerAndTask(ctx)
	if !ok {
		return
	}

	task, err := h.tasks.Get(ctx.Request.Context(), caller, taskID)

	if err != nil {
		writeError(ctx, h.log, err)
		return
	}

	ctx.JSON(http.StatusOK, task)
}

func (h *TaskHandler) Update(ctx *gin.Context) {
	caller, taskID, ok := h.callerAndTask(ctx)
	if !ok {
		return
	}

	var req dto.UpdateTaskRequest

	if err := bindJSON(ctx, &req); err != nil {
		writeError(ctx, h.log, err)
		return
	}

	task, err := h.tasks.Update(ctx.Request.Context(), caller, taskID, req)

	if err != nil {
		writeError(ctx, h.log, err)
		return
	}

	ctx.JSON(http.StatusOK, task)
}

func (h *TaskHandler) Delete(ctx *gin.Context) {
	caller, taskID, ok := h.callerAndTask(ctx)
	if !ok {
		return
	}

	if err := h.tasks.Delete(ctx.Request.Context(), caller, taskID); err != nil {
		writeError(ctx, h.log, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

func (h *TaskHandler) Assign(ctx *gin.Context) {
	caller, taskID, ok := h.callerAndTask(ctx)
	if !ok {
		return
	}

	var req dto.AssignTaskRequest

	if err := bindJSON(ctx, &req); err != nil {
		writeError(ctx, h.log, err)
		return
	}

	task, err := h.tasks.Assign(ctx.Request.Context(), caller, taskID, req.AssigneeID)

	if err != nil {
		writeError(ctx, h.log, err)
		return
	}

	ctx.JSON(http.StatusOK, task)
}

func (h *TaskHandler) ChangeStatus(ctx *gin.Context) {
	caller, taskID, ok := h.callerAndTask(ctx)
	if !ok {
		return
	}

	var req dto.ChangeStatusRequest

	if err := bindJSON(ctx, &req); err != nil {
		writeError(ctx, h.log, err)
		return
	}

	task, err := h.tasks.ChangeStatus(ctx.Request.Context(), caller, taskID, req.Status)

	if err != nil {
		writeError(ctx, h.log, err)
		return
	}

	ctx.JSON(http.StatusOK, task)
}
