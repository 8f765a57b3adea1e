package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	sentry "github.com/getsentry/sentry-go"
	telego "github.com/mymmrac/telego"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	telegoBot "ruble-bot/bot"
	"ruble-bot/internal/auth"
	"ruble-bot/internal/config"
	"ruble-bot/internal/database"
	"ruble-bot/internal/feedback"
	"ruble-bot/internal/handlers"
	"ruble-bot/internal/locales"
	"ruble-bot/internal/logger"
	"ruble-bot/internal/metrics"
	"ruble-bot/internal/session"
	"ruble-bot/internal/tickets"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("configuration error")
	}

	appLog := logger.New(cfg.AppEnv, cfg.Debug)
	log.Logger = appLog

	if err := locales.Init(cfg.DefaultLanguage); err != nil {
		appLog.Fatal().Err(err).Msg("failed to initialize locales")
	}

	err = sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.SentryDSN,
		Environment: cfg.AppEnv,
		Release:     cfg.Version,
		Debug:       cfg.Debug,
	})
	if err != nil {
		appLog.Fatal().Err(err).Msg("sentry init failed")
	}
	defer sentry.Flush(2 * time.Second)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	extra := []prometheus.Collector{
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	}

	// --- Session store ---
	var store session.Store
	switch cfg.SessionBackend {
	case config.SessionBackendRedis:
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			sentry.CaptureException(err)
			appLog.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("failed to connect to Redis")
		}
		defer func() {
			if err := rdb.Close(); err != nil {
				appLog.Error().Err(err).Msg("error closing Redis client")
			}
		}()
		store = session.NewRedisStore(rdb, cfg.SessionTTL)
		appLog.Info().Str("addr", cfg.RedisAddr).Msg("using Redis session store")
	default:
		memStore := session.NewMemoryStore()
		extra = append(extra, prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "feedback_sessions_open",
			Help: "Users currently composing feedback",
		}, func() float64 { return float64(memStore.Len()) }))
		store = memStore
		appLog.Info().Msg("using in-memory session store")
	}
	metrics.MustRegister(registry, extra...)

	// --- Audit log ---
	var (
		actionLogger database.UserActionLogger = database.NoopLogger{}
		userRepo     database.UserRepository   = database.NoopLogger{}
	)
	if cfg.MongoDBURI != "" {
		client, db, err := database.ConnectDB(ctx, cfg.MongoDBURI, cfg.MongoDBDatabase)
		if err != nil {
			sentry.CaptureException(err)
			appLog.Fatal().Err(err).Msg("failed to connect to MongoDB")
		}
		defer func() {
			if err := client.Disconnect(context.Background()); err != nil {
				appLog.Error().Err(err).Msg("error disconnecting from MongoDB")
				sentry.CaptureException(err)
			}
		}()
		mongoLogger := database.NewMongoLogger(db)
		actionLogger, userRepo = mongoLogger, mongoLogger
	}

	// --- Telegram ---
	bot, err := telego.NewBot(cfg.BotToken, telego.WithLogger(logger.NewTelegoLogger(appLog, cfg.BotToken)))
	if err != nil {
		sentry.CaptureException(err)
		appLog.Fatal().Err(err).Msg("failed to create telego bot")
	}
	me, err := bot.GetMe(ctx)
	if err != nil {
		sentry.CaptureException(err)
		appLog.Fatal().Err(err).Msg("failed to reach Telegram")
	}
	appLog.Info().Str("username", me.Username).Msg("authorized")

	adminChecker, err := auth.NewAdminChecker(cfg.AdminID)
	if err != nil {
		appLog.Fatal().Err(err).Msg("failed to create admin checker")
	}

	ticketClient, err := tickets.New(cfg.TicketRoute,
		tickets.WithTimeout(cfg.TicketTimeout),
		tickets.WithLogger(appLog.With().Str("component", "tickets").Logger()),
	)
	if err != nil {
		appLog.Fatal().Err(err).Msg("failed to create ticket client")
	}

	feedbackService := feedback.NewService(store, ticketClient, handlers.NewAdminNotifier(bot, cfg.AdminID), appLog)

	messageHandler, err := handlers.NewMessageHandler(handlers.Deps{
		Feedback:     feedbackService,
		AdminChecker: adminChecker,
		ActionLogger: actionLogger,
		UserRepo:     userRepo,
		Menu: handlers.MenuLinks{
			WebApp:   cfg.WebAppURL,
			Trade:    cfg.TradeURL,
			Website:  cfg.WebsiteURL,
			X:        cfg.XURL,
			Buy:      cfg.BuyURL,
			Contract: cfg.ContractURL,
		},
		FeedbackMarker: cfg.FeedbackMarker,
		WelcomePhoto:   cfg.WelcomePhoto,
		Log:            appLog,
	})
	if err != nil {
		appLog.Fatal().Err(err).Msg("failed to create message handler")
	}
	if err := messageHandler.SetupCommands(ctx, bot); err != nil {
		sentry.CaptureException(err)
		appLog.Error().Err(err).Msg("failed to register bot commands")
	}

	updates, err := bot.UpdatesViaLongPolling(ctx, &telego.GetUpdatesParams{
		AllowedUpdates: []string{"message", "callback_query"},
	})
	if err != nil {
		sentry.CaptureException(err)
		appLog.Fatal().Err(err).Msg("failed to start long polling")
	}

	appBot, err := telegoBot.New(telegoBot.BotDeps{
		Bot:         bot,
		UpdatesChan: updates,
		Handler:     messageHandler,
		RateLimit:   cfg.RateLimit,
		Log:         appLog,
	})
	if err != nil {
		sentry.CaptureException(err)
		appLog.Fatal().Err(err).Msg("failed to create bot")
	}

	if cfg.MetricsAddr != "" {
		metrics.StartServer(ctx, appLog, cfg.MetricsAddr, registry)
	}

	appLog.Info().Str("version", cfg.Version).Str("env", cfg.AppEnv).Msg("bot started")
	appBot.Start(ctx)

	appLog.Info().Msg("bot shutdown complete")
}
