package notifier

import (
	"context"

	"go.uber.org/zap"

	"backend/internal/models"
)

// LogNotifier is the development stand-in: it records the delivery without
// any external channel. The code itself is only visible at Debug level.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) SendResetCode(ctx context.Context, user *models.User, code string) error {
	n.logger.Info("Reset code issued (delivery disabled)", zap.Int64("user_id", user.ID))
	n.logger.Debug("Reset code", zap.String("code", code))
	return nil
}
