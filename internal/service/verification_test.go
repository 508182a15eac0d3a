package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"backend/internal/repository"
	"backend/internal/service"
)

// collidingUserRepo reports a duplicate-code collision for the first
// `rejects` ClaimResetCode calls, then delegates to the in-memory store.
type collidingUserRepo struct {
	*memoryUserRepo
	rejects int
	claims  int
}

func (m *collidingUserRepo) ClaimResetCode(ctx context.Context, id int64, code string, expires time.Time) (bool, error) {
	m.claims++
	if m.claims <= m.rejects {
		return false, repository.ErrDuplicateResetCode
	}
	return m.memoryUserRepo.ClaimResetCode(ctx, id, code, expires)
}

func TestIssueRetriesOnCodeCollision(t *testing.T) {
	ctx := context.Background()
	user := newTestUser(t, 1, "jane@example.com", "password one")
	repo := &collidingUserRepo{memoryUserRepo: newMemoryUserRepo(user), rejects: 1}
	codes := service.NewVerificationCodeService(repo, 15*time.Minute, zap.NewNop())

	code, err := codes.Issue(ctx, 1)
	require.NoError(t, err)
	require.Len(t, code, 6)
	require.Equal(t, 2, repo.claims)
	require.True(t, repo.users[1].PasswordResetCode.Valid)
	require.Equal(t, code, repo.users[1].PasswordResetCode.String)
}

func TestIssueGivesUpAfterRepeatedCollisions(t *testing.T) {
	ctx := context.Background()
	user := newTestUser(t, 1, "jane@example.com", "password one")
	repo := &collidingUserRepo{memoryUserRepo: newMemoryUserRepo(user), rejects: 100}
	codes := service.NewVerificationCodeService(repo, 15*time.Minute, zap.NewNop())

	_, err := codes.Issue(ctx, 1)
	require.Error(t, err)
	require.NotErrorIs(t, err, service.ErrResetPending)
	require.False(t, repo.users[1].PasswordResetCode.Valid)
	require.Equal(t, 3, repo.claims)
}
