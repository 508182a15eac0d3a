package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"backend/internal/middleware"
	"backend/internal/service"
)

type AuthHandler interface {
	Login(c *gin.Context)
	Logout(c *gin.Context)
	ForgotPassword(c *gin.Context)
	ValidateCode(c *gin.Context)
	ChangePassword(c *gin.Context)
	ChangeOwnPassword(c *gin.Context)
}

type authHandler struct {
	authService  service.AuthService
	resetService service.PasswordResetService
	log          *logrus.Logger
}

func NewAuthHandler(authService service.AuthService, resetService service.PasswordResetService, log *logrus.Logger) AuthHandler {
	return &authHandler{
		authService:  authService,
		resetService: resetService,
		log:          log,
	}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ValidateCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

type ChangePasswordRequest struct {
	UserID      int64  `json:"userId"`
	Email       string `json:"email"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

type ChangeOwnPasswordRequest struct {
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

func (h *authHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorf("Failed to bind JSON for login: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		case errors.Is(err, service.ErrAccountLocked):
			c.JSON(http.StatusForbidden, gin.H{"error": "Account locked. Reset your password to unlock it."})
		case errors.Is(err, service.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		default:
			h.log.Errorf("Failed to login user: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to login"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "Login successful",
		"token":         result.Token,
		"expires_at":    result.ExpiresAt,
		"userId":        result.UserID,
		"roleId":        result.RoleID,
		"email":         result.Email,
		"first_name":    result.FirstName,
		"last_name":     result.LastName,
		"profileImage":  result.ProfileImage,
		"resetPassword": result.ResetPassword,
	})
}

func (h *authHandler) Logout(c *gin.Context) {
	userID := c.MustGet(middleware.CtxUserID).(int64)

	if err := h.authService.Logout(c.Request.Context(), userID); err != nil {
		h.log.Errorf("Failed to logout user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to logout"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logout successful"})
}

func (h *authHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorf("Failed to bind JSON for forgot-password: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.resetService.Forgot(c.Request.Context(), req.Email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		case errors.Is(err, service.ErrResetPending):
			c.JSON(http.StatusBadRequest, gin.H{"error": "A verification code was already sent"})
		default:
			h.log.Errorf("Failed to start password reset: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send verification code"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Verification code sent"})
}

func (h *authHandler) ValidateCode(c *gin.Context) {
	var req ValidateCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorf("Failed to bind JSON for validate-code: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := h.resetService.ValidateCode(c.Request.Context(), req.Code)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCode) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired code"})
			return
		}
		h.log.Errorf("Failed to validate code: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate code"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"userId": userID})
}

func (h *authHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorf("Failed to bind JSON for change-password: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.UserID == 0 && req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId or email is required"})
		return
	}

	var err error
	if req.UserID != 0 {
		err = h.resetService.ChangePassword(c.Request.Context(), req.UserID, req.NewPassword)
	} else {
		err = h.resetService.ChangePasswordByEmail(c.Request.Context(), req.Email, req.NewPassword)
	}
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		case errors.Is(err, service.ErrInvalidCode):
			c.JSON(http.StatusBadRequest, gin.H{"error": "No valid verification code for this account"})
		default:
			h.log.Errorf("Failed to change password: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to change password"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password changed"})
}

// ChangeOwnPassword is the authenticated variant used by the forced
// password-change screen. The target user comes from the session token, so
// a caller can only ever change their own credential.
func (h *authHandler) ChangeOwnPassword(c *gin.Context) {
	var req ChangeOwnPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorf("Failed to bind JSON for change-password: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.MustGet(middleware.CtxUserID).(int64)

	if err := h.resetService.ForceChangePassword(c.Request.Context(), userID, req.NewPassword); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		h.log.Errorf("Failed to change password for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to change password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password changed"})
}
