package models

import (
	"database/sql"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type User struct {
	ID                   int64          `db:"id"`
	Email                string         `db:"email"`
	Username             string         `db:"username"`
	Password             string         `db:"password"`
	RoleID               sql.NullInt64  `db:"role_id"`
	LoginAttempts        int            `db:"login_attempts"`
	PasswordResetCode    sql.NullString `db:"password_reset_code"`
	PasswordResetExpires sql.NullTime   `db:"password_reset_expires"`
	ResetPassword        bool           `db:"reset_password"`
	FirstName            string         `db:"first_name"`
	LastName             string         `db:"last_name"`
	Phone                sql.NullString `db:"phone"`
	Sector               sql.NullString `db:"sector"`
	District             sql.NullString `db:"district"`
	ProfileImage         sql.NullString `db:"profile_image"`
	CreatedAt            time.Time      `db:"created_at"`
}

// Claims defines the structure of the JWT claims.
type Claims struct {
	UserID int64 `json:"user_id"`
	RoleID int64 `json:"role_id"`
	jwt.RegisteredClaims
}
