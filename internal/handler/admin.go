package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"backend/internal/service"
)

// AccountUnlocker clears a user's lockout state.
type AccountUnlocker interface {
	Reset(ctx context.Context, userID int64) error
}

type AdminHandler interface {
	UnlockUser(c *gin.Context)
}

type adminHandler struct {
	unlocker AccountUnlocker
	log      *logrus.Logger
}

func NewAdminHandler(unlocker AccountUnlocker, log *logrus.Logger) AdminHandler {
	return &adminHandler{unlocker: unlocker, log: log}
}

// UnlockUser clears a user's failed-attempt counter. Admin-only route.
func (h *adminHandler) UnlockUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	if err := h.unlocker.Reset(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		h.log.Errorf("Failed to unlock user %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unlock user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User unlocked"})
}
