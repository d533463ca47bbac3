package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/taskforge-dev/taskforge/db"
	"github.com/taskforge-dev/taskforge/internal/auth"
	"github.com/taskforge-dev/taskforge/internal/config"
	"github.com/taskforge-dev/taskforge/internal/handlers"
	"github.com/taskforge-dev/taskforge/internal/logger"
	"github.com/taskforge-dev/taskforge/internal/mailer"
	"github.com/taskforge-dev/taskforge/internal/metrics"
	"github.com/taskforge-dev/taskforge/internal/notify"
	"github.com/taskforge-dev/taskforge/internal/router"
	"github.com/taskforge-dev/taskforge/internal/store"
	"go.uber.org/zap"
)

func main() {
	// A .env file is a convenience for local runs only.
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zl, err := logger.New(cfg.Logging.Development)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zl.Sync()

	conn, err := db.Connect(cfg.Database.DSN)
	if err != nil {
		zl.Fatal("failed to connect to database", zap.Error(err))
	}

	if err := db.Migrate(conn); err != nil {
		zl.Fatal("failed to run migrations", zap.Error(err))
	}

	authManager, err := auth.NewManager(cfg.JWT.AccessSecret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
	if err != nil {
		zl.Fatal("failed to initialize token manager", zap.Error(err))
	}

	st := store.New(conn)
	hub := notify.NewHub(zl)
	dispatcher := notify.NewDispatcher(st.Notifications, st.Projects, st.Users, hub, zl)
	metricsService := metrics.NewService(conn)
	smtpMailer := mailer.NewSMTPMailer(cfg.SMTP, zl)

	h := handlers.New(st, metricsService, dispatcher, hub, authManager, smtpMailer, cfg, zl)

	r := router.NewRouter(h, authManager, st, cfg)

	zl.Info("starting server", zap.String("port", cfg.HTTP.Port))

	if err := r.Run(":" + cfg.HTTP.Port); err != nil {
		zl.Fatal("server stopped", zap.Error(err))
	}
}
