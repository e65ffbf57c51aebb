// Package notify delivers best-effort user notifications over Telegram.
// Delivery failures are logged and swallowed; no economic operation ever
// depends on a notification going out.
package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ludik-gifts/backend/internal/logger"
)

// Notifier sends out-of-band messages to users.
type Notifier interface {
	ReferralJoined(ctx context.Context, referrerID int64, joinedName string)
}

type telegramNotifier struct {
	bot *tgbotapi.BotAPI
}

// NewTelegram wraps an authorized bot client.
func NewTelegram(bot *tgbotapi.BotAPI) Notifier {
	return &telegramNotifier{bot: bot}
}

func (n *telegramNotifier) ReferralJoined(ctx context.Context, referrerID int64, joinedName string) {
	text := fmt.Sprintf("🎉 New Referral! 🎉\n\nUser %s joined from your link!", joinedName)
	msg := tgbotapi.NewMessage(referrerID, text)

	if _, err := n.bot.Send(msg); err != nil {
		logger.FromContext(ctx).Error("Failed to send referral notification",
			"referrer_id", referrerID,
			"error", err)
	}
}

type noopNotifier struct{}

// NewNoop returns a notifier that drops everything. Used when no bot
// token is configured, and in tests.
func NewNoop() Notifier {
	return noopNotifier{}
}

func (noopNotifier) ReferralJoined(context.Context, int64, string) {}
