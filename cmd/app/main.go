package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"telegram-kargo-bot/internal/application"
	"telegram-kargo-bot/internal/config"
	"telegram-kargo-bot/internal/domain/ports/adapter"
	"telegram-kargo-bot/internal/infra/adapters/shortener"
	tele "telegram-kargo-bot/internal/infra/adapters/telegram"
	"telegram-kargo-bot/internal/infra/adapters/tracking"
	"telegram-kargo-bot/internal/infra/db/sqlite"
	httpapi "telegram-kargo-bot/internal/infra/http"
	"telegram-kargo-bot/internal/infra/i18n"
	"telegram-kargo-bot/internal/infra/logging"
	"telegram-kargo-bot/internal/infra/metrics"
	"telegram-kargo-bot/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, noop bot)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	metrics.MustRegister()

	// ---- SQLite ----
	db, err := sqlite.Open(cfg.Database.Path())
	if err != nil {
		logger.Fatal().Err(err).Msg("sqlite open failed")
	}
	if err := sqlite.AutoMigrate(db); err != nil {
		logger.Fatal().Err(err).Msg("sqlite migrate failed")
	}

	// ---- Repositories ----
	groupRepo := sqlite.NewGroupRepo(db)
	logRepo := sqlite.NewDeliveryLogRepo(db)
	submitter := sqlite.NewSubmitter(db)

	// ---- Tracking API ----
	gateway, err := tracking.NewClient(cfg.Tracking.BaseURL, cfg.Tracking.Token, cfg.Tracking.Timeout, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("tracking client init failed")
	}

	// ---- URL shortener (optional) ----
	var short adapter.URLShortener = shortener.Noop{}
	if cfg.Shortener.Enabled {
		short = shortener.NewChain(cfg.Shortener.Order, logger)
	}

	// ---- i18n ----
	translator, err := i18n.NewTranslator(i18n.LocalesFS, "tr")
	if err != nil {
		logger.Fatal().Err(err).Msg("translator init failed")
	}

	// ---- Use cases ----
	submissionUC := usecase.NewSubmissionUseCase(groupRepo, submitter, gateway, short, logger)
	quotaUC := usecase.NewQuotaUseCase(groupRepo, logger)
	reportUC := usecase.NewReportUseCase(logRepo, logger)

	// ---- Facade ----
	facade := application.NewBotFacade(submissionUC, quotaUC, reportUC, translator, cfg.Bot.AdminUsername, logger)

	// ---- Telegram ----
	botAdapter, err := tele.NewRealBotAdapter(&cfg.Bot, facade, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("telegram init failed")
	}
	go func() {
		if err := botAdapter.StartPolling(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error().Err(err).Msg("telegram polling stopped")
		}
	}()

	// ---- Liveness / metrics HTTP server ----
	srv := httpapi.NewServer(cfg.Health.Port, logger)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()
	botAdapter.StopPolling()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
}
