package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ludik-gifts/backend/internal/auth"
	"github.com/ludik-gifts/backend/internal/bot"
	"github.com/ludik-gifts/backend/internal/catalog"
	"github.com/ludik-gifts/backend/internal/concurrency"
	"github.com/ludik-gifts/backend/internal/config"
	"github.com/ludik-gifts/backend/internal/database"
	"github.com/ludik-gifts/backend/internal/database/postgres"
	"github.com/ludik-gifts/backend/internal/fulfillment"
	"github.com/ludik-gifts/backend/internal/ledger"
	"github.com/ludik-gifts/backend/internal/logger"
	"github.com/ludik-gifts/backend/internal/notify"
	"github.com/ludik-gifts/backend/internal/rtp"
	"github.com/ludik-gifts/backend/internal/server"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("Fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger.Init(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	// Database
	if err := database.RunMigrations(cfg.GetDBConnString()); err != nil {
		return err
	}
	pool, err := database.NewPool(context.Background(), cfg.GetDBConnString(), 16, time.Minute, 30*time.Minute)
	if err != nil {
		return err
	}
	defer pool.Close()

	// Catalog: load, validate, calibrate once at boot.
	catalogCfg, err := catalog.Load(cfg.CatalogDir)
	if err != nil {
		return err
	}
	snapshot, err := catalog.NewSnapshot(catalogCfg, cfg.RTPTarget)
	if err != nil {
		return err
	}
	slog.Info("Catalog calibrated", "cases", len(snapshot.Cases()), "rtp_target", cfg.RTPTarget)

	// Telegram: the bot is optional, the verifier is not. Without a bot
	// token no init data can be verified and no request can authenticate.
	if cfg.BotToken == "" {
		return errors.New("BOT_TOKEN is required")
	}
	verifier := auth.NewVerifier(cfg.BotToken, cfg.AuthMaxAge)

	notifier := notify.NewNoop()
	botAPI, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		slog.Warn("Telegram bot unavailable, notifications disabled", "error", err)
		botAPI = nil
	} else {
		notifier = notify.NewTelegram(botAPI)
	}

	fulfiller := fulfillment.NewClient(cfg.FulfillmentURL, cfg.FulfillmentSender, cfg.FulfillmentTimeout)

	repo := postgres.NewLedgerRepository(pool)
	ledgerService := ledger.NewService(
		repo,
		concurrency.NewLockManager(),
		snapshot,
		rtp.NewSampler(),
		fulfiller,
		notifier,
		ledger.Tuning{
			UpgradeMaxChance: cfg.UpgradeMaxChance,
			UpgradeMinChance: cfg.UpgradeMinChance,
			UpgradeRisk:      cfg.UpgradeRisk,
		},
	)

	srv := server.NewServer(cfg.Port, verifier, nil, pool, ledgerService, snapshot)

	// Bot polling runs alongside the HTTP server so /start deep links can
	// register referrals.
	botCtx, cancelBot := context.WithCancel(context.Background())
	defer cancelBot()
	if botAPI != nil {
		go bot.New(botAPI, cfg.WebAppURL, ledgerService).Run(botCtx)
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		slog.Info("Shutting down", "signal", sig.String())
	}

	cancelBot()
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		slog.Error("Server forced shutdown", "error", err)
	}

	slog.Info("Server stopped")
	return nil
}
