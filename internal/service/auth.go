package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"backend/internal/crypto"
	"backend/internal/repository"
	"backend/internal/token"
)

// LoginResult carries the session token plus the minimal profile fields the
// client needs for display. ResetPassword tells the client to route the
// user to a forced password-change screen before the dashboard.
type LoginResult struct {
	Token         string
	ExpiresAt     time.Time
	UserID        int64
	RoleID        int64
	Email         string
	FirstName     string
	LastName      string
	ProfileImage  string
	ResetPassword bool
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Logout(ctx context.Context, userID int64) error
}

type authService struct {
	users   repository.UserRepository
	tracker *LockoutTracker
	issuer  *token.Issuer
	logger  *zap.Logger
}

func NewAuthService(users repository.UserRepository, tracker *LockoutTracker, issuer *token.Issuer, logger *zap.Logger) AuthService {
	return &authService{
		users:   users,
		tracker: tracker,
		issuer:  issuer,
		logger:  logger,
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("Failed to get user by email", zap.Error(err))
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}

	// Locked accounts are rejected before the password is even looked at
	if s.tracker.Locked(user) {
		return nil, ErrAccountLocked
	}

	if !crypto.VerifyPassword(password, user.Password) {
		locked, err := s.tracker.RecordFailure(ctx, user.ID)
		if err != nil {
			s.logger.Error("Failed to record failed login", zap.Error(err))
			return nil, fmt.Errorf("failed to record failed login: %w", err)
		}
		if locked {
			return nil, ErrAccountLocked
		}
		return nil, ErrInvalidCredentials
	}

	if err := s.tracker.Reset(ctx, user.ID); err != nil {
		s.logger.Error("Failed to reset login attempts", zap.Error(err))
		return nil, err
	}

	var roleID int64
	if user.RoleID.Valid {
		roleID = user.RoleID.Int64
	}

	tokenString, expirationTime, err := s.issuer.Issue(user.ID, roleID)
	if err != nil {
		s.logger.Error("Failed to generate session token", zap.Error(err))
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info("User logged in successfully.",
		zap.Int64("user_id", user.ID),
		zap.Bool("reset_password", user.ResetPassword),
	)

	return &LoginResult{
		Token:         tokenString,
		ExpiresAt:     expirationTime,
		UserID:        user.ID,
		RoleID:        roleID,
		Email:         user.Email,
		FirstName:     user.FirstName,
		LastName:      user.LastName,
		ProfileImage:  user.ProfileImage.String,
		ResetPassword: user.ResetPassword,
	}, nil
}

// Logout exists for audit symmetry. Tokens are self-contained and
// short-lived, so there is no server-side state to revoke.
func (s *authService) Logout(ctx context.Context, userID int64) error {
	s.logger.Info("User logged out successfully.", zap.Int64("user_id", userID))
	return nil
}
