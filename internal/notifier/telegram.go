package notifier

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"backend/internal/config"
	"backend/internal/models"
)

// TelegramNotifier pushes reset codes to an operations channel from which
// they are relayed to the user (SMS bridge in production deployments).
type TelegramNotifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
	logger *zap.Logger
}

// NewTelegramNotifier creates the Telegram-backed notifier. When the
// notifier is disabled in config, a log-only notifier is returned instead
// so the reset flow stays usable in development.
func NewTelegramNotifier(cfg *config.Config, logger *zap.Logger) (Notifier, error) {
	if !cfg.Notifier.Enabled || cfg.Notifier.TelegramBotToken == "" {
		logger.Info("Telegram notifier is disabled (notifier.enabled=false or token is empty)")
		return NewLogNotifier(logger), nil
	}

	botAPI, err := tgbotapi.NewBotAPI(cfg.Notifier.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot API: %w", err)
	}

	logger.Info("Telegram notifier authorized", zap.String("username", botAPI.Self.UserName))

	return &TelegramNotifier{
		api:    botAPI,
		chatID: cfg.Notifier.TelegramChatID,
		logger: logger,
	}, nil
}

func (n *TelegramNotifier) SendResetCode(ctx context.Context, user *models.User, code string) error {
	text := fmt.Sprintf("Password reset requested for %s (%s %s).\nVerification code: %s",
		user.Email, user.FirstName, user.LastName, code)

	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, err := n.api.Send(msg); err != nil {
		n.logger.Error("Failed to deliver reset code", zap.Error(err), zap.Int64("user_id", user.ID))
		return fmt.Errorf("failed to deliver reset code: %w", err)
	}

	n.logger.Info("Reset code delivered", zap.Int64("user_id", user.ID))
	return nil
}
