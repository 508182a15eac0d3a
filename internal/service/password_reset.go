package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"backend/internal/crypto"
	"backend/internal/notifier"
	"backend/internal/repository"
)

// PasswordResetService drives the forgot-password workflow:
// code issued -> code validated -> password changed. The code is consumed
// only by the final password change, so an abandoned flow can re-validate.
// ChangePassword refuses to run without a live code on the account, which
// keeps the completion step unreachable for callers that skipped the
// validate-code step. ForceChangePassword is the exception: it serves the
// authenticated forced-change flow, where the session token is the proof
// of identity and no code exists.
type PasswordResetService interface {
	Forgot(ctx context.Context, email string) error
	ValidateCode(ctx context.Context, code string) (int64, error)
	ChangePassword(ctx context.Context, userID int64, newPassword string) error
	ChangePasswordByEmail(ctx context.Context, email, newPassword string) error
	ForceChangePassword(ctx context.Context, userID int64, newPassword string) error
}

type passwordResetService struct {
	users    repository.UserRepository
	codes    *VerificationCodeService
	notifier notifier.Notifier
	logger   *zap.Logger
}

func NewPasswordResetService(users repository.UserRepository, codes *VerificationCodeService, n notifier.Notifier, logger *zap.Logger) PasswordResetService {
	return &passwordResetService{
		users:    users,
		codes:    codes,
		notifier: n,
		logger:   logger,
	}
}

// Forgot issues a reset code and hands it to the notifier. Locked accounts
// may start a reset: completing it is their unlock path.
func (s *passwordResetService) Forgot(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUserNotFound
		}
		s.logger.Error("Failed to get user by email", zap.Error(err))
		return fmt.Errorf("failed to retrieve user: %w", err)
	}

	code, err := s.codes.Issue(ctx, user.ID)
	if err != nil {
		return err
	}

	if err := s.notifier.SendResetCode(ctx, user, code); err != nil {
		s.logger.Error("Failed to send reset code", zap.Error(err), zap.Int64("user_id", user.ID))
		return fmt.Errorf("failed to send reset code: %w", err)
	}

	return nil
}

// ValidateCode resolves a submitted code to a user id without consuming it.
func (s *passwordResetService) ValidateCode(ctx context.Context, code string) (int64, error) {
	return s.codes.Validate(ctx, code)
}

// ChangePassword stores the new credential and clears lockout and reset
// state in one store operation. A completed reset always unlocks the
// account and drops the forced-change flag. The store update is gated on
// an unexpired reset code, so an account with no reset in flight cannot
// have its credential overwritten here.
func (s *passwordResetService) ChangePassword(ctx context.Context, userID int64, newPassword string) error {
	hash, err := crypto.HashPassword(newPassword)
	if err != nil {
		s.logger.Error("Failed to hash password", zap.Error(err))
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.users.CompletePasswordReset(ctx, userID, hash); err != nil {
		if errors.Is(err, repository.ErrNoPendingReset) {
			// Zero rows matched: either the user is unknown or no live
			// code exists for them
			if _, lookupErr := s.users.GetByID(ctx, userID); lookupErr != nil {
				if errors.Is(lookupErr, sql.ErrNoRows) {
					return ErrUserNotFound
				}
				return fmt.Errorf("failed to retrieve user: %w", lookupErr)
			}
			return ErrInvalidCode
		}
		s.logger.Error("Failed to store new password", zap.Error(err))
		return fmt.Errorf("failed to store new password: %w", err)
	}

	s.logger.Info("Password changed", zap.Int64("user_id", userID))
	return nil
}

// ForceChangePassword serves the forced-change step after login. Identity
// comes from the caller's session token, not a reset code.
func (s *passwordResetService) ForceChangePassword(ctx context.Context, userID int64, newPassword string) error {
	hash, err := crypto.HashPassword(newPassword)
	if err != nil {
		s.logger.Error("Failed to hash password", zap.Error(err))
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		if errors.Is(err, repository.ErrNoSuchUser) {
			return ErrUserNotFound
		}
		s.logger.Error("Failed to store new password", zap.Error(err))
		return fmt.Errorf("failed to store new password: %w", err)
	}

	s.logger.Info("Password changed", zap.Int64("user_id", userID))
	return nil
}

func (s *passwordResetService) ChangePasswordByEmail(ctx context.Context, email, newPassword string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to retrieve user: %w", err)
	}
	return s.ChangePassword(ctx, user.ID, newPassword)
}
