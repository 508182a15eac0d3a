package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"

	"backend/internal/config"
	"backend/internal/handler"
	"backend/internal/middleware"
	"backend/internal/notifier"
	"backend/internal/repository"
	"backend/internal/service"
	"backend/internal/token"
)

type Server struct {
	router *gin.Engine
	db     *sqlx.DB
	cfg    *config.Config
	logger *zap.Logger
	log    *logrus.Logger
}

func NewServer(db *sqlx.DB, cfg *config.Config, logger *zap.Logger, n notifier.Notifier, log *logrus.Logger) (*Server, error) {
	router := gin.Default()

	s := &Server{
		router: router,
		db:     db,
		cfg:    cfg,
		logger: logger,
		log:    log,
	}

	if err := s.setupRoutes(n); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Server) setupRoutes(n notifier.Notifier) error {
	issuer, err := token.NewIssuer([]byte(s.cfg.Auth.JWTSecret), time.Duration(s.cfg.Auth.TokenTTLHours)*time.Hour)
	if err != nil {
		return err
	}

	userRepo := repository.NewUserRepository(s.db, s.log)
	roleRepo := repository.NewRoleRepository(s.db, s.log)

	tracker := service.NewLockoutTracker(userRepo, s.cfg.Auth.LockoutThreshold, s.logger)
	codes := service.NewVerificationCodeService(userRepo, time.Duration(s.cfg.Auth.ResetCodeTTLMin)*time.Minute, s.logger)
	authService := service.NewAuthService(userRepo, tracker, issuer, s.logger)
	resetService := service.NewPasswordResetService(userRepo, codes, n, s.logger)

	authHandler := handler.NewAuthHandler(authService, resetService, s.log)
	adminHandler := handler.NewAdminHandler(tracker, s.log)

	// Ping route for health check
	s.router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// Authentication routes
	authGroup := s.router.Group("/api/auth")
	authGroup.POST("/login", authHandler.Login)
	authGroup.PUT("/forgot-password", authHandler.ForgotPassword)
	authGroup.POST("/validate-code", authHandler.ValidateCode)
	authGroup.POST("/change-password", authHandler.ChangePassword)

	// Authenticated routes
	authRequired := s.router.Group("/api")
	authRequired.Use(middleware.Authenticate(issuer, roleRepo, s.logger))
	{
		// Role-agnostic: any authenticated user
		authRequired.GET("/me", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"userId": c.MustGet(middleware.CtxUserID).(int64),
				"roleId": c.MustGet(middleware.CtxRoleID).(int64),
				"role":   c.GetString(middleware.CtxRoleName),
			})
		})
		authRequired.POST("/auth/logout", authHandler.Logout)
		// Forced password change: the target user is the token holder
		authRequired.POST("/account/change-password", authHandler.ChangeOwnPassword)

		adminGroup := authRequired.Group("/admin")
		adminGroup.Use(middleware.RequireRoles("admin"))
		{
			adminGroup.POST("/users/:id/unlock", adminHandler.UnlockUser)
		}
	}

	return nil
}

// Run serves until the context is cancelled, then drains in-flight
// requests before returning.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:    addr,
		Handler: s.router,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("Server starting on port %s...", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
