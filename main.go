package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"jobguard/internal/classifier"
	"jobguard/internal/config"
	"jobguard/internal/notifier"
	"jobguard/internal/repository"
	"jobguard/internal/server"
	"jobguard/internal/service"
)

func main() {
	cfgPath := flag.String("config", "configs/config.yml", "path to the configuration file")
	flag.Parse()

	// Load configuration before the logger so its development flag
	// can pick the logger profile.
	cfg, err := config.LoadConfig(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	var logger *zap.Logger
	if cfg.Server.Development {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = logger.Sync() // Flushes buffer, if any
	}()

	// Context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Inference backend. Either path must fail fast: the process
	// never serves traffic without a usable model.
	var clf classifier.Classifier
	switch cfg.Classifier.Mode {
	case "local":
		local, err := classifier.NewLocal(cfg.Classifier.VectorizerPath, cfg.Classifier.ModelPath, logger)
		if err != nil {
			logger.Fatal("Failed to load classifier artifacts", zap.Error(err))
		}
		clf = local
	case "remote":
		remote := classifier.NewRemote(cfg.Classifier.ServiceURL)
		if err := remote.HealthCheck(ctx); err != nil {
			logger.Fatal("Inference service is unavailable", zap.Error(err))
		}
		clf = remote
	}

	// Prediction store.
	var store repository.PredictionStore
	var authService service.AuthService
	switch cfg.Storage.Driver {
	case "csv":
		store, err = repository.NewCSVPredictionStore(cfg.Storage.Path, logger)
		if err != nil {
			logger.Fatal("Failed to open prediction log", zap.Error(err))
		}
	default:
		db, err := openDatabase(cfg, logger)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		if err := repository.MigrateDB(db, cfg.Storage.Driver, logger); err != nil {
			logger.Fatal("Failed to run database migrations", zap.Error(err))
		}
		store = repository.NewSQLPredictionStore(db, logger)

		if cfg.Auth.Enabled {
			authRepo := repository.NewAuthRepository(db, logger)
			authService = service.NewAuthService(authRepo, cfg.Auth.JWTSecret, logger)
			if err := authService.SeedAdmin(cfg.Auth.AdminUsername, cfg.Auth.AdminPassword); err != nil {
				logger.Fatal("Failed to seed admin account", zap.Error(err))
			}
		}
	}
	defer store.Close()

	// Optional Telegram alerting for high-confidence fake postings.
	var alerts service.Notifier
	tg, err := notifier.NewTelegramNotifier(cfg.Alerts.TelegramBotToken, cfg.Alerts.TelegramChatID, cfg.Alerts.ConfidenceThreshold, logger)
	if err != nil {
		logger.Warn("Failed to initialize Telegram notifier, continuing without it", zap.Error(err))
	} else if tg != nil {
		alerts = tg
	}

	predictions := service.NewPredictionService(store, clf, alerts, logger)

	srv := server.NewServer(cfg, predictions, authService, logger)
	go func() {
		if err := srv.Run(cfg.Server.Addr); err != nil {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Application stopped.")
}

func openDatabase(cfg *config.Config, logger *zap.Logger) (*sqlx.DB, error) {
	switch cfg.Storage.Driver {
	case "postgres":
		return repository.NewPostgresDB(cfg.Storage.URL, logger)
	default:
		return repository.NewSQLiteDB(cfg.Storage.Path, logger)
	}
}
