// Package notifier pushes high-confidence fake-job verdicts to a
// Telegram chat so someone can follow up on suspicious postings.
package notifier

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"jobguard/internal/models"
)

// TelegramNotifier sends alert messages for fake-job predictions at or
// above a confidence threshold. Delivery failures are logged and never
// surfaced to the request that triggered the alert.
type TelegramNotifier struct {
	api       *tgbotapi.BotAPI
	chatID    int64
	threshold float64
	logger    *zap.Logger
}

// NewTelegramNotifier creates the notifier, or (nil, nil) when token
// is empty so callers can wire it unconditionally.
func NewTelegramNotifier(token string, chatID int64, threshold float64, logger *zap.Logger) (*TelegramNotifier, error) {
	if token == "" {
		logger.Info("Telegram alerts are disabled (no bot token configured)")
		return nil, nil
	}

	botAPI, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot API: %w", err)
	}

	logger.Info("Telegram bot authorized", zap.String("username", botAPI.Self.UserName))

	return &TelegramNotifier{
		api:       botAPI,
		chatID:    chatID,
		threshold: threshold,
		logger:    logger,
	}, nil
}

// NotifyFakeJob sends an alert if the record's confidence meets the
// threshold.
func (n *TelegramNotifier) NotifyFakeJob(rec *models.PredictionRecord) {
	if n == nil || rec.Confidence < n.threshold {
		return
	}

	desc := rec.JobDescription
	if len(desc) > 300 {
		desc = desc[:300] + "…"
	}
	text := fmt.Sprintf("⚠️ Fake job posting detected (%.2f%% confidence)\n\n%s", rec.Confidence, desc)

	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, err := n.api.Send(msg); err != nil {
		n.logger.Error("Failed to send Telegram alert",
			zap.Int64("record_id", rec.ID),
			zap.Error(err))
	}
}
