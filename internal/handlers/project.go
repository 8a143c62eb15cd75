package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/monocle-dev/taskboard/internal/dto"
	"github.com/monocle-dev/taskboard/internal/pagination"
	"github.com/monocle-dev/taskboard/internal/services"
	"github.com/monocle-dev/taskboard/internal/utils"
)

type ProjectHandler struct {
	projects *services.ProjectService
	tasks    *services.TaskService
	log      *slog.Logger
}

func NewProjectHandler(projects *services.ProjectService, tasks *services.TaskService, log *slog.Logger) *ProjectHandler {
	return &ProjectHandler{projects: projects, tasks: tasks, log: log}
}

// callerAndProject reads the caller and the :id path parameter. It writes the error response
// and returns ok=false when either is missing.
func (h *ProjectHandler) callerAndProject(ctx *gin.Context) (caller, projectID uuid.UUID, ok bool) {
	caller, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return uuid.Nil, uuid.Nil, false
	}

	projectID, err = utils.GetUUIDParam(ctx, "id")

	if err != nil {
		writeError(ctx, h.log, err)
		return uuid.Nil, uuid.Nil, false
	}

	return caller, projectID, true
}

func (h *ProjectHandler) Create(ctx *gin.Context) {
	caller, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req dto.CreateProjectRequest

	if err := bindJSON(ctx, &req); err != nil {
		writeError(ctx, h.log, err)
		return
	}

	project, err := h.projects.Create(ctx.Request.Context(), caller, req)

	if err != nil {
		writeError(ctx, h.log, err)
		return
	}

	ctx.JSON(http.StatusCreated, project)
}

func (h *ProjectHandler) ListOwned(ctx *gin.Context) {
	h.list(ctx, h.projects.ListOwned)
}

func (h *ProjectHandler) ListAssigned(ctx *gin.Context) {
	h.list(ctx, h.projects.ListAssigned)
}

type projectLister func(context.Context, uuid.UUID, string, pagination.Request) (pagination.Page[dto.ProjectResponse], error)

func (h *ProjectHandler) list(ctx *gin.Context, fetch projectLister) {
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

	res, err := fetch(ctx.Request.Context(), caller, ctx.Query("query"), page)

	if err != nil {
		writeError(ctx, h.log, err)
		return
	}

	ctx.JSON(http.StatusOK, res)
}

func (h *ProjectHandler) Get(ctx *gin.Context) {
	caller, projectID, ok := h.callerAndProject(ctx)
	if !ok {
		return
	}

	project, err := h.projects.Get(ctx.Request.Context(), caller, projectID)

	if err != nil {
		writeError(ctx, h.log, err)
		return
	}

	ctx.JSON(http.StatusOK, project)
}

func (h *ProjectHandler) Update(ctx *gin.Context) {
	caller, projectID, ok := h.callerAndProject(ctx)
	if !ok {
		return
	}

	var req dto.UpdateProjectRequest

	if err := bindJSON(ctx, &req); err != nil {
		writeError(ctx, h.log, err)
		return
	}

	project, err := h.projects.Update(ctx.Request.Context(), caller, projectID, req)

	if err != nil {
		writeError(ctx, h.log, err)
		return
	}

	ctx.JSON(http.StatusOK, project)
}

func (h *ProjectHandler) Delete(ctx *gin.Context) {
	caller, projectID, ok := h.callerAndProject(ctx)
	if !ok {
		return
	}

	if err := h.projects.Delete(ctx.Request.Context(), caller, projectID); err != nil {
		writeError(ctx, h.log, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

func (h *ProjectHandler) AssignUser(ctx *gin.Context) {
	caller, projectID, ok := h.callerAndProject(ctx)
	if !ok {
		return
	}

	var req dto.AssignUserRequest

	if err := bindJSON(ctx, &req); err != nil {
		writeError(ctx, h.log, err)
		return
	}

	assignment, err := h.projects.AssignUser(ctx.Request.Context(), caller, projectID, req.UserID)

	if err != nil {
		writeError(ctx, h.log, err)
		return
	}

	ctx.JSON(http.StatusCreated, assignment)
}

func (h *ProjectHandler) RemoveUser(ctx *gin.Context) {
	caller, projectID, ok := h.callerAndProject(ctx)
	if !ok {
		return
	}

	userID, err := utils.GetUUIDParam(ctx, "userId")

	if err != nil {
		writeError(ctx, h.log, err)
		return
	}

	if err := h.projects.RemoveUser(ctx.Request.Context(), caller, projectID, userID); err != nil {
		writeError(ctx, h.log, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

func (h *ProjectHandler) MemberIDs(ctx *gin.Context) {
	caller, projectID, ok := h.callerAndProject(ctx)
	if !ok {
		return
	}

	ids, err := h.projects.ListMemberIDs(ctx.Request.Context(), caller, projectID)

	if err != nil {
		writeError(ctx, h.log, err)
		return
	}

	ctx.JSON(http.StatusOK, ids)
}

func (h *ProjectHandler) Members(ctx *gin.Context) {
	caller, projectID, ok := h.callerAndProject(ctx)
	if !ok {
		return
	}

	page, err := utils.GetPageRequest(ctx)

	if err != nil {
		writeError(ctx, h.log, err)
		return
	}

	res, err := h.projects.ListMembers(ctx.Request.Context(), caller, projectID, page)

	if err != nil {
		writeError(ctx, h.log, err)
		return
	}

	ctx.JSON(http.StatusOK, res)
}

func (h *ProjectHandler) ListTasks(ctx *gin.Context) {
	caller, projectID, ok := h.callerAndProject(ctx)
	if !ok {
		return
	}

	page, err := utils.GetPageRequest(ctx)

	if err != nil {
		writeError(ctx, h.log, err)
		return
	}

	res, err := h.tasks.ListByProject(ctx.Request.Context(), caller, projectID, page)

	if err != nil {
		writeError(ctx, h.log, err)
		return
	}

	ctx.JSON(http.StatusOK, res)
}

func (h *ProjectHandler) CreateTask(ctx *gin.Context) {
	caller, projectID, ok := h.callerAndProject(ctx)
	if !ok {
		return
	}

	var req dto.CreateTaskRequest

	if err := bindJSON(ctx, &req); err != nil {
		writeError(ctx, h.log, err)
		return
	}

	task, err := h.tasks.Create(ctx.Request.Context(), caller, req, &projectID)

	if err != nil {
		writeError(ctx, h.log, err)
		return
	}

	ctx.JSON(http.StatusCreated, task)
}
