package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"church_finance_bot/internal/app"
	"church_finance_bot/internal/infra/config"
	idb "church_finance_bot/internal/infra/database"
	"church_finance_bot/internal/infra/logger"
	"church_finance_bot/internal/infra/observability"
	"church_finance_bot/internal/infra/scheduler"
	"church_finance_bot/internal/infra/telegram"

	"gopkg.in/telebot.v3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatalf("Could not load application configuration: %v", err)
	}
	logger.Init(cfg)
	mainLogger := logger.Component("main")

	mainLogger.WithField("admin_id", cfg.AdminTelegramID).
		WithField("timezone", cfg.Location.String()).
		Info("Configuration loaded")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize Database Connection
	db, err := idb.NewPostgresConnection(ctx, cfg)
	if err != nil {
		mainLogger.WithError(err).Fatal("Could not connect to database")
	}
	defer db.Close()
	mainLogger.WithField("max_open_conns", cfg.DBPool.MaxOpenConns).Info("Database connection established")

	// Initialize Repositories
	scheduleRepo := idb.NewPostgresScheduleRepository(db)
	ledgerRepo := idb.NewPostgresLedgerRepository(db)
	settlementStore := idb.NewPostgresSettlementStore(db)
	stateRepo := idb.NewPostgresReminderStateRepository(db)

	metrics := observability.NewMetrics()

	// Initialize Telegram Bot
	pref := telebot.Settings{
		Token:  cfg.TelegramToken,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c telebot.Context) {
			entry := logger.Component("telebot").WithError(err)
			if c != nil && c.Sender() != nil && c.Chat() != nil {
				entry = entry.WithField("sender_id", c.Sender().ID).WithField("chat_id", c.Chat().ID)
			}
			entry.Error("Telegram handler error")
		},
	}
	bot, err := telebot.NewBot(pref)
	if err != nil {
		mainLogger.WithError(err).Fatal("Could not create Telegram bot")
	}
	telegramClient := telegram.NewTelebotAdapter(bot)

	// Initialize Services
	itemLocks := app.NewItemLocks()
	adminService := app.NewAdminService(scheduleRepo, ledgerRepo, itemLocks, cfg.AdminTelegramID, logger.Component("admin_service"))
	paymentService := app.NewPaymentService(scheduleRepo, settlementStore, itemLocks, metrics, logger.Component("payment_service"), cfg.Location)
	reminderService := app.NewReminderService(
		scheduleRepo,
		stateRepo,
		telegramClient,
		cfg.NotifyChatID,
		cfg.ReportChatID,
		metrics,
		logger.Component("reminder_service"),
	)
	if cfg.NotifyChatID == 0 {
		mainLogger.Warn("NOTIFY_CHAT_ID is not set; reminder alerts will be computed but not delivered")
	}

	// Register Handlers
	handlerLogger := logger.Component("telegram")
	telegram.RegisterBotCommands(bot, cfg.AdminTelegramID, handlerLogger)
	telegram.RegisterAdminHandlers(ctx, bot, adminService, cfg.AdminTelegramID, handlerLogger)
	telegram.RegisterPaymentHandlers(ctx, bot, paymentService, reminderService, cfg.AdminTelegramID, cfg.Location, handlerLogger)

	reminderScheduler := scheduler.NewReminderScheduler(reminderService, logger.Component("scheduler"), cfg.Location, cfg.CronSpecReminderScan)
	if err := reminderScheduler.Start(); err != nil {
		mainLogger.WithError(err).Fatal("Could not start reminder scheduler")
	}

	var metricsServer *http.Server
	if cfg.MetricsAddr != "" {
		metricsServer = &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           observability.NewRouter(metrics),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				mainLogger.WithError(err).Error("Metrics server stopped")
			}
		}()
		mainLogger.WithField("addr", cfg.MetricsAddr).Info("Metrics endpoint listening")
	}

	go bot.Start()
	mainLogger.Info("Application setup complete. Bot and scheduler are running")

	<-ctx.Done()

	mainLogger.Info("Shutting down application...")
	bot.Stop()
	reminderScheduler.Stop()
	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}
	mainLogger.Info("Application shut down gracefully")
}
