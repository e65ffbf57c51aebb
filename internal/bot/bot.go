// Package bot runs the Telegram bot side of the service: the /start
// handler that welcomes users, opens the web app, and registers referral
// links of the form "/start ref_<id>_<code>".
package bot

import (
	"context"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ludik-gifts/backend/internal/domain"
	"github.com/ludik-gifts/backend/internal/logger"
)

const (
	welcomePhoto   = "https://i.ibb.co/5Q2KK6D/IMG_20250522-184911-835.jpg"
	welcomeCaption = "Welcome to Ludik Gifts! 🎁\n\nTap the button below to start!"
	welcomeButton  = "🎮 Open Ludik Gifts"

	// Registering a referral touches the ledger; keep the bot handler from
	// hanging on a slow database.
	handleTimeout = 10 * time.Second
)

// ReferralRegistrar is the slice of the ledger service the bot needs.
type ReferralRegistrar interface {
	RegisterReferral(ctx context.Context, identity domain.Identity, refCode string) error
}

// messageSender is the slice of the Telegram client that sends messages.
type messageSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Bot polls Telegram updates and handles commands.
type Bot struct {
	api       *tgbotapi.BotAPI
	send      messageSender
	webAppURL string
	referrals ReferralRegistrar
}

func New(api *tgbotapi.BotAPI, webAppURL string, referrals ReferralRegistrar) *Bot {
	return &Bot{api: api, send: api, webAppURL: webAppURL, referrals: referrals}
}

// Run polls for updates until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 30
	updates := b.api.GetUpdatesChan(cfg)

	log := logger.FromContext(ctx)
	log.Info("Telegram bot started", "username", b.api.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			log.Info("Telegram bot stopped")
			return
		case update := <-updates:
			if update.Message != nil && update.Message.IsCommand() && update.Message.Command() == "start" {
				b.handleStart(ctx, update.Message)
			}
		}
	}
}

func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) {
	ctx, cancel := context.WithTimeout(ctx, handleTimeout)
	defer cancel()

	if payload := strings.TrimSpace(msg.CommandArguments()); strings.HasPrefix(payload, "ref_") {
		identity := domain.Identity{
			ID:        msg.From.ID,
			Username:  msg.From.UserName,
			FirstName: msg.From.FirstName,
			LastName:  msg.From.LastName,
		}
		if err := b.referrals.RegisterReferral(ctx, identity, payload); err != nil {
			logger.FromContext(ctx).Error("Failed to register referral from /start",
				"user_id", identity.ID,
				"error", err)
		}
	}

	b.sendWelcome(ctx, msg.Chat.ID)
}

// sendWelcome posts the welcome photo with a URL button. Telegram opens
// the Mini App directly from the web-app link.
func (b *Bot) sendWelcome(ctx context.Context, chatID int64) {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(welcomePhoto))
	photo.Caption = welcomeCaption
	photo.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL(welcomeButton, b.webAppURL),
		),
	)

	if _, err := b.send.Send(photo); err != nil {
		logger.FromContext(ctx).Error("Failed to send welcome message",
			"chat_id", chatID,
			"error", err)
	}
}
