package service_test

import (
	"context"
	"database/sql"
	"time"

	"backend/internal/models"
	"backend/internal/repository"
)

// memoryUserRepo mirrors the store semantics the Postgres repository
// implements in SQL: atomic increments and the conditional reset-code claim.
type memoryUserRepo struct {
	users map[int64]*models.User
}

func newMemoryUserRepo(users ...*models.User) *memoryUserRepo {
	m := &memoryUserRepo{users: make(map[int64]*models.User)}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *memoryUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *memoryUserRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *u
	return &copied, nil
}

func (m *memoryUserRepo) GetByResetCode(ctx context.Context, code string) (*models.User, error) {
	now := time.Now()
	for _, u := range m.users {
		if u.PasswordResetCode.Valid && u.PasswordResetCode.String == code &&
			u.PasswordResetExpires.Valid && u.PasswordResetExpires.Time.After(now) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *memoryUserRepo) IncrementLoginAttempts(ctx context.Context, id int64) (int, error) {
	u, ok := m.users[id]
	if !ok {
		return 0, sql.ErrNoRows
	}
	u.LoginAttempts++
	return u.LoginAttempts, nil
}

func (m *memoryUserRepo) ResetLoginAttempts(ctx context.Context, id int64) error {
	u, ok := m.users[id]
	if !ok {
		return repository.ErrNoSuchUser
	}
	u.LoginAttempts = 0
	return nil
}

func (m *memoryUserRepo) ClaimResetCode(ctx context.Context, id int64, code string, expires time.Time) (bool, error) {
	u, ok := m.users[id]
	if !ok {
		return false, sql.ErrNoRows
	}
	for _, other := range m.users {
		if other.ID != id && other.PasswordResetCode.Valid && other.PasswordResetCode.String == code {
			return false, repository.ErrDuplicateResetCode
		}
	}
	if hasPendingCode(u, time.Now()) {
		return false, nil
	}
	u.PasswordResetCode = sql.NullString{String: code, Valid: true}
	u.PasswordResetExpires = sql.NullTime{Time: expires, Valid: true}
	return true, nil
}

func (m *memoryUserRepo) ClearResetCode(ctx context.Context, id int64) error {
	u, ok := m.users[id]
	if !ok {
		return sql.ErrNoRows
	}
	u.PasswordResetCode = sql.NullString{}
	u.PasswordResetExpires = sql.NullTime{}
	return nil
}

func (m *memoryUserRepo) CompletePasswordReset(ctx context.Context, id int64, passwordHash string) error {
	u, ok := m.users[id]
	if !ok || !hasPendingCode(u, time.Now()) {
		// Mirrors the SQL predicate: zero rows when the user is missing or
		// carries no live code
		return repository.ErrNoPendingReset
	}
	m.applyPasswordUpdate(u, passwordHash)
	return nil
}

func (m *memoryUserRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	u, ok := m.users[id]
	if !ok {
		return repository.ErrNoSuchUser
	}
	m.applyPasswordUpdate(u, passwordHash)
	return nil
}

func (m *memoryUserRepo) applyPasswordUpdate(u *models.User, passwordHash string) {
	u.Password = passwordHash
	u.LoginAttempts = 0
	u.PasswordResetCode = sql.NullString{}
	u.PasswordResetExpires = sql.NullTime{}
	u.ResetPassword = false
}

func hasPendingCode(u *models.User, now time.Time) bool {
	return u.PasswordResetCode.Valid &&
		u.PasswordResetExpires.Valid &&
		u.PasswordResetExpires.Time.After(now)
}
