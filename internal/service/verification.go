package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"math/big"
	"time"

	"go.uber.org/zap"

	"backend/internal/repository"
)

const codeIssueRetries = 3

var codeSpace = big.NewInt(1000000)

// VerificationCodeService issues and validates the short-lived one-time
// codes used by the password reset workflow. At most one live code exists
// per user; the store enforces that with a conditional claim, and a global
// unique index keeps two users from holding the same code value.
type VerificationCodeService struct {
	repo   repository.UserRepository
	ttl    time.Duration
	logger *zap.Logger
}

func NewVerificationCodeService(repo repository.UserRepository, ttl time.Duration, logger *zap.Logger) *VerificationCodeService {
	return &VerificationCodeService{repo: repo, ttl: ttl, logger: logger}
}

// Issue generates a 6-digit code and stores it with an expiry. Fails with
// ErrResetPending when an unexpired code already exists for the user.
func (s *VerificationCodeService) Issue(ctx context.Context, userID int64) (string, error) {
	expires := time.Now().Add(s.ttl)

	for attempt := 0; attempt < codeIssueRetries; attempt++ {
		code, err := generateCode()
		if err != nil {
			return "", fmt.Errorf("failed to generate verification code: %w", err)
		}

		claimed, err := s.repo.ClaimResetCode(ctx, userID, code, expires)
		if err != nil {
			if errors.Is(err, repository.ErrDuplicateResetCode) {
				// Another user holds this code value right now
				continue
			}
			return "", fmt.Errorf("failed to store verification code: %w", err)
		}
		if !claimed {
			return "", ErrResetPending
		}

		s.logger.Info("Verification code issued",
			zap.Int64("user_id", userID),
			zap.Time("expires_at", expires),
		)
		return code, nil
	}

	return "", fmt.Errorf("failed to issue verification code after %d attempts", codeIssueRetries)
}

// Validate resolves a code to the user holding it. Expired codes never
// match, even when textually correct. The code is NOT consumed here: it
// stays valid until the password change that follows it.
func (s *VerificationCodeService) Validate(ctx context.Context, code string) (int64, error) {
	if len(code) != 6 {
		return 0, ErrInvalidCode
	}

	user, err := s.repo.GetByResetCode(ctx, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrInvalidCode
		}
		return 0, fmt.Errorf("failed to look up verification code: %w", err)
	}

	return user.ID, nil
}

// Consume clears the user's code and expiry together.
func (s *VerificationCodeService) Consume(ctx context.Context, userID int64) error {
	if err := s.repo.ClearResetCode(ctx, userID); err != nil {
		return fmt.Errorf("failed to consume verification code: %w", err)
	}
	return nil
}

// generateCode returns 6 decimal digits from a uniform crypto/rand draw.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, codeSpace)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
