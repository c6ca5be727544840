package main

import (
	"context"
	"errors"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/avolkoff/tgScout/internal/config"
	"github.com/avolkoff/tgScout/internal/db"
	"github.com/avolkoff/tgScout/internal/ledger"
	"github.com/avolkoff/tgScout/internal/notify"
	"github.com/avolkoff/tgScout/internal/prompt"
	"github.com/avolkoff/tgScout/internal/telegram"
	"github.com/avolkoff/tgScout/internal/watcher"
)

const ledgerPath = "known-chats.txt"

func main() {
	_ = godotenv.Load()

	logFile, err := os.OpenFile("tgScout.log", os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		log.Fatalf("failed to open log file: %s", err)
	}
	defer logFile.Close()
	logger := slog.New(slog.NewTextHandler(io.MultiWriter(os.Stdout, logFile), nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if !cfg.Telegram.Valid() {
		config.HandleInvalid(logger)
		logger.Warn("watcher will not start until the configuration is completed")
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var archive watcher.Archive
	if uri := cfg.Mongo["uri"]; uri != "" {
		mongoClient, err := db.NewClient(ctx, uri)
		if err != nil {
			logger.Error("failed to connect to mongo", "error", err)
			os.Exit(1)
		}
		archive = db.NewArchive(mongoClient, cfg.Mongo["db"])
		logger.Info("discovery archive enabled", "db", cfg.Mongo["db"])
	}

	bot, err := notify.NewBot(logger, cfg.Telegram.BotToken)
	if err != nil {
		logger.Error("failed to create bot transport", "error", err)
		os.Exit(1)
	}

	tgClient := telegram.NewClient(logger, cfg.Telegram, cfg.SessionPath(), prompt.NewStdin())

	store := ledger.NewStore(ledgerPath)
	w := watcher.New(logger, store, tgClient, bot, archive, cfg.Telegram.Me, cfg.NewChatsFolder)
	sched := watcher.NewScheduler(logger, w, watcher.DefaultInterval)

	logger.Info("starting telegram watcher", "folder", cfg.NewChatsFolder)
	err = tgClient.Run(ctx, func(ctx context.Context) error {
		sched.Run(ctx)
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("watcher stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("stopped")
}
