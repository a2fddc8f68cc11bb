package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/streakie-app/streakie-api/internal/application"
	"github.com/streakie-app/streakie-api/internal/domain/entity"
	"github.com/streakie-app/streakie-api/internal/domain/repository"
	"github.com/streakie-app/streakie-api/internal/interface/middleware"
	"github.com/streakie-app/streakie-api/pkg/helpers"
	"github.com/streakie-app/streakie-api/pkg/response"
	"github.com/streakie-app/streakie-api/pkg/validation"
)

type TodoHandler struct {
	Svc    *application.TodoService
	Logger *logrus.Logger
}

func NewTodoHandler(svc *application.TodoService, logger *logrus.Logger) *TodoHandler {
	return &TodoHandler{Svc: svc, Logger: logger}
}

type createTodoRequest struct {
	Title    string     `json:"title" binding:"required"`
	Deadline *time.Time `json:"deadline"`
}

type updateTodoRequest struct {
	Completed *bool `json:"completed" binding:"required"`
}

// todoPayload serializes a todo: timestamps as RFC3339 UTC, the
// grouping day as YYYY-MM-DD.
func todoPayload(t *entity.Todo) gin.H {
	var deadline any
	if t.Deadline != nil {
		deadline = t.Deadline.UTC().Format(time.RFC3339)
	}
	return gin.H{
		"id":         t.ID,
		"title":      t.Title,
		"completed":  t.Completed,
		"deadline":   deadline,
		"date":       helpers.FormatDate(t.Date),
		"created_at": t.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// List - GET /api/todos (today's todos only)
func (h *TodoHandler) List(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)

	todos, err := h.Svc.ListToday(c.Request.Context(), uid)
	if err != nil {
		h.Logger.WithError(err).WithField("user_id", uid).Error("list todos failed")
		response.Error(c, http.StatusInternalServerError, "internal error", nil)
		return
	}

	out := make([]gin.H, 0, len(todos))
	for i := range todos {
		out = append(out, todoPayload(&todos[i]))
	}
	response.Success(c, http.StatusOK, out, "today's todos", map[string]any{"count": len(out)})
}

// Create - POST /api/todos
func (h *TodoHandler) Create(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)

	var req createTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	t, err := h.Svc.Create(c.Request.Context(), uid, req.Title, req.Deadline)
	if err != nil {
		h.Logger.WithError(err).WithField("user_id", uid).Error("create todo failed")
		response.Error(c, http.StatusInternalServerError, "internal error", nil)
		return
	}
	response.Success(c, http.StatusCreated, todoPayload(t), "todo created", nil)
}

// Update - PUT /api/todos/:id
func (h *TodoHandler) Update(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	todoID := c.Param("id")

	var req updateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	t, err := h.Svc.SetCompleted(c.Request.Context(), uid, todoID, *req.Completed)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "todo not found", nil)
			return
		}
		h.Logger.WithError(err).WithField("user_id", uid).Error("update todo failed")
		response.Error(c, http.StatusInternalServerError, "internal error", nil)
		return
	}
	response.Success(c, http.StatusOK, todoPayload(t), "todo updated", nil)
}

// Delete - DELETE /api/todos/:id
func (h *TodoHandler) Delete(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	todoID := c.Param("id")

	if err := h.Svc.Delete(c.Request.Context(), uid, todoID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "todo not found", nil)
			return
		}
		h.Logger.WithError(err).WithField("user_id", uid).Error("delete todo failed")
		response.Error(c, http.StatusInternalServerError, "internal error", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true}, "todo deleted successfully", nil)
}
