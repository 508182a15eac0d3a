package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"backend/internal/models"
	"backend/internal/repository"
)

// LockoutTracker maintains the per-user failed-attempt counter. An account
// is locked once the counter reaches the threshold; only a successful login,
// a completed password reset or an explicit unlock clears it.
type LockoutTracker struct {
	repo      repository.UserRepository
	threshold int
	logger    *zap.Logger
}

func NewLockoutTracker(repo repository.UserRepository, threshold int, logger *zap.Logger) *LockoutTracker {
	return &LockoutTracker{repo: repo, threshold: threshold, logger: logger}
}

// Locked reports whether the account is in the locked state.
func (t *LockoutTracker) Locked(user *models.User) bool {
	return user.LoginAttempts >= t.threshold
}

// RecordFailure increments the counter through the store's atomic update and
// reports whether the account is locked after the increment. Concurrent
// failures for the same user serialize in the store, so the threshold can
// never be skipped.
func (t *LockoutTracker) RecordFailure(ctx context.Context, userID int64) (bool, error) {
	attempts, err := t.repo.IncrementLoginAttempts(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("failed to record login failure: %w", err)
	}

	locked := attempts >= t.threshold
	if locked {
		t.logger.Warn("Account locked after repeated failed logins",
			zap.Int64("user_id", userID),
			zap.Int("attempts", attempts),
		)
	}
	return locked, nil
}

// Reset clears the counter to zero.
func (t *LockoutTracker) Reset(ctx context.Context, userID int64) error {
	if err := t.repo.ResetLoginAttempts(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNoSuchUser) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to reset login attempts: %w", err)
	}
	return nil
}
