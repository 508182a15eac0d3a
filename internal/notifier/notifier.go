package notifier

import (
	"context"

	"backend/internal/models"
)

// Notifier delivers a freshly issued reset code to the user through an
// out-of-band channel. The code never travels back in the HTTP response.
type Notifier interface {
	SendResetCode(ctx context.Context, user *models.User, code string) error
}
