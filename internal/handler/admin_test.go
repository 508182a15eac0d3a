package handler_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"backend/internal/handler"
	"backend/internal/service"
)

type stubUnlocker struct {
	resetErr error
	calls    []int64
}

func (s *stubUnlocker) Reset(ctx context.Context, userID int64) error {
	s.calls = append(s.calls, userID)
	return s.resetErr
}

func newAdminRouter(unlocker *stubUnlocker) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := logrus.New()
	log.SetOutput(io.Discard)

	h := handler.NewAdminHandler(unlocker, log)
	router := gin.New()
	router.POST("/api/admin/users/:id/unlock", h.UnlockUser)
	return router
}

func TestUnlockUser(t *testing.T) {
	unlocker := &stubUnlocker{}
	router := newAdminRouter(unlocker)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/users/7/unlock", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, []int64{7}, unlocker.calls)
}

func TestUnlockUserNotFound(t *testing.T) {
	unlocker := &stubUnlocker{resetErr: service.ErrUserNotFound}
	router := newAdminRouter(unlocker)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/users/42/unlock", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestUnlockUserBadID(t *testing.T) {
	unlocker := &stubUnlocker{}
	router := newAdminRouter(unlocker)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/users/abc/unlock", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Empty(t, unlocker.calls)
}
