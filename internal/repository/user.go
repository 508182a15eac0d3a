package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"backend/internal/models"
)

var (
	// ErrDuplicateResetCode is returned when an issued reset code collides
	// with another user's live code. Callers regenerate and retry.
	ErrDuplicateResetCode = errors.New("reset code already in use")

	// ErrNoSuchUser is returned by updates targeting a user id that does
	// not exist.
	ErrNoSuchUser = errors.New("no such user")

	// ErrNoPendingReset is returned when a reset completion finds no live
	// code on the row (missing user, no code issued, or code expired).
	ErrNoPendingReset = errors.New("no password reset in flight")
)

const userColumns = `id, email, username, password, role_id, login_attempts,
	password_reset_code, password_reset_expires, reset_password,
	first_name, last_name, phone, sector, district, profile_image, created_at`

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	// GetByResetCode matches only codes whose expiry is still in the future.
	GetByResetCode(ctx context.Context, code string) (*models.User, error)
	// IncrementLoginAttempts bumps the counter in a single statement and
	// returns the post-increment value.
	IncrementLoginAttempts(ctx context.Context, id int64) (int, error)
	ResetLoginAttempts(ctx context.Context, id int64) error
	// ClaimResetCode stores a code and expiry only if no unexpired code is
	// already present. Returns false when a live code blocked the claim.
	ClaimResetCode(ctx context.Context, id int64, code string, expires time.Time) (bool, error)
	ClearResetCode(ctx context.Context, id int64) error
	// CompletePasswordReset stores the new hash and clears lockout and
	// reset state in one statement, so a failed write leaves nothing
	// half-applied. The update only matches rows carrying an unexpired
	// reset code; without one it fails with ErrNoPendingReset.
	CompletePasswordReset(ctx context.Context, id int64, passwordHash string) error
	// UpdatePassword stores the new hash and clears lockout and reset
	// state without requiring a live code. Reserved for callers that have
	// already authenticated the user (forced password change).
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}

type userRepository struct {
	db  *sqlx.DB
	log *logrus.Logger
}

func NewUserRepository(db *sqlx.DB, log *logrus.Logger) UserRepository {
	return &userRepository{db: db, log: log}
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByResetCode(ctx context.Context, code string) (*models.User, error) {
	var user models.User
	query := `SELECT ` + userColumns + ` FROM users
		WHERE password_reset_code = $1 AND password_reset_expires > NOW()`
	if err := r.db.GetContext(ctx, &user, query, code); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) IncrementLoginAttempts(ctx context.Context, id int64) (int, error) {
	var attempts int
	query := `UPDATE users SET login_attempts = login_attempts + 1
		WHERE id = $1 RETURNING login_attempts`
	if err := r.db.GetContext(ctx, &attempts, query, id); err != nil {
		return 0, err
	}
	return attempts, nil
}

func (r *userRepository) ResetLoginAttempts(ctx context.Context, id int64) error {
	query := `UPDATE users SET login_attempts = 0 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNoSuchUser
	}
	return nil
}

func (r *userRepository) ClaimResetCode(ctx context.Context, id int64, code string, expires time.Time) (bool, error) {
	query := `UPDATE users SET password_reset_code = $2, password_reset_expires = $3
		WHERE id = $1 AND (password_reset_code IS NULL OR password_reset_expires < NOW())`
	res, err := r.db.ExecContext(ctx, query, id, code, expires)
	if err != nil {
		if isUniqueViolation(err) {
			return false, ErrDuplicateResetCode
		}
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

func (r *userRepository) ClearResetCode(ctx context.Context, id int64) error {
	query := `UPDATE users SET password_reset_code = NULL, password_reset_expires = NULL
		WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *userRepository) CompletePasswordReset(ctx context.Context, id int64, passwordHash string) error {
	query := `UPDATE users SET password = $2, login_attempts = 0,
		password_reset_code = NULL, password_reset_expires = NULL, reset_password = FALSE
		WHERE id = $1
		  AND password_reset_code IS NOT NULL
		  AND password_reset_expires > NOW()`
	res, err := r.db.ExecContext(ctx, query, id, passwordHash)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNoPendingReset
	}
	return nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	query := `UPDATE users SET password = $2, login_attempts = 0,
		password_reset_code = NULL, password_reset_expires = NULL, reset_password = FALSE
		WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, passwordHash)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNoSuchUser
	}
	return nil
}

// isUniqueViolation detects a PostgreSQL unique constraint violation.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
