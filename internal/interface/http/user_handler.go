package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/streakie-app/streakie-api/internal/application"
	"github.com/streakie-app/streakie-api/internal/domain/repository"
	"github.com/streakie-app/streakie-api/internal/interface/middleware"
	"github.com/streakie-app/streakie-api/pkg/response"
)

type UserHandler struct {
	Svc    *application.UserService
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

// Stats - GET /api/user/stats
func (h *UserHandler) Stats(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)

	stats, err := h.Svc.GetStats(c.Request.Context(), uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "user not found", nil)
			return
		}
		h.Logger.WithError(err).WithField("user_id", uid).Error("get stats failed")
		response.Error(c, http.StatusInternalServerError, "internal error", nil)
		return
	}
	response.Success(c, http.StatusOK, stats, "streak stats", nil)
}

// Profile - GET /api/user/profile
func (h *UserHandler) Profile(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)

	u, err := h.Svc.GetProfile(c.Request.Context(), uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "user not found", nil)
			return
		}
		h.Logger.WithError(err).WithField("user_id", uid).Error("get profile failed")
		response.Error(c, http.StatusInternalServerError, "internal error", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"id":             u.ID,
		"email":          u.Email,
		"name":           u.Name,
		"current_streak": u.CurrentStreak,
		"highest_streak": u.HighestStreak,
		"created_at":     u.CreatedAt,
	}, "profile", nil)
}
