package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fitbot/internal/bot"
	"fitbot/internal/config"
	"fitbot/internal/database"
	"fitbot/internal/domain"
	"fitbot/internal/export"
	"fitbot/internal/google"
	"fitbot/internal/logger"
	"fitbot/internal/metrics"
	"fitbot/internal/repository"
	"fitbot/internal/service"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	// Загрузка конфигурации
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Инициализация базы данных
	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Database.Path).Msg("database init failed")
	}
	defer db.Close()

	// Redis необязателен: без него состояния диалогов живут в памяти процесса
	var redisClient *redis.Client
	stateRepo := domain.StateRepository(repository.NewMemoryStateRepository())
	if cfg.Redis.Address != "" {
		redisClient = repository.NewRedisClient(cfg.Redis)
		if err := repository.Ping(ctx, redisClient); err != nil {
			log.Warn().Err(err).Msg("redis unavailable, falling back to in-memory state")
			_ = repository.Close(redisClient)
			redisClient = nil
		} else {
			stateRepo = repository.NewRedisStateRepository(redisClient)
			log.Info().Str("address", cfg.Redis.Address).Msg("dialog state stored in redis")
		}
	}
	defer repository.Close(redisClient)

	if cfg.Monitoring.PrometheusEnabled {
		metrics.Register()
		go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, db, log)
	}

	var sheets service.SheetsSyncer
	if cfg.Google.Enabled() {
		sheetsService, err := google.NewSheetsService(ctx, cfg.Google.CredentialsFile, cfg.Google.UsersSpreadSheetID, log)
		switch {
		case err != nil:
			log.Warn().Err(err).Msg("google sheets disabled")
		case sheetsService.TestConnection(ctx) != nil:
			email, _ := google.ServiceAccountEmail(cfg.Google.CredentialsFile)
			log.Warn().Str("service_account", email).Msg("google sheets connection test failed, share the spreadsheet with the service account")
		default:
			sheets = sheetsService
			log.Info().Msg("google sheets sync enabled")
		}
	}

	api, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		log.Fatal().Err(err).Msg("telegram authorization failed")
	}
	api.Debug = cfg.Telegram.Debug
	log.Info().Str("username", api.Self.UserName).Msg("authorized on telegram")

	sender := bot.NewSender(api, log)
	engine := service.NewEngine(service.Deps{
		Store:    db,
		States:   service.NewStateService(stateRepo, log),
		Admins:   service.NewAdmins(cfg.Admins.IDs, cfg.Admins.Phones),
		Notifier: sender,
		Exporter: export.NewMembersExporter(cfg.Exports.Path, log),
		Sheets:   sheets,
		Logger:   log,
	})

	telegramBot := bot.New(api, sender, engine, cfg.Telegram.Timeout, log)
	telegramBot.Start(ctx)

	log.Info().Msg("shutdown complete")
}

func startMetricsServer(ctx context.Context, port int, db *database.DB, log zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context()); err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()

	log.Info().Int("port", port).Msg("metrics server started")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("metrics server error")
	}
}
