package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"yamdb/database"
	"yamdb/internal/config"
	"yamdb/internal/logger"
	"yamdb/internal/mail"
	"yamdb/internal/microservices/http-api/server"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}

	appLogger := logger.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.ConnectDB(cfg, appLogger)
	if err != nil {
		appLogger.Error("database unavailable", "error", err)
		os.Exit(1)
	}
	defer database.Close(db)

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = database.NewRedisClient(cfg.RedisURL)
		if err != nil {
			appLogger.Error("redis unavailable", "error", err)
			os.Exit(1)
		}
		defer rdb.Close()
	} else {
		appLogger.Warn("REDIS_URL not set, confirmation code cooldown disabled")
	}

	var mailer mail.Mailer
	switch cfg.EmailBackend {
	case "smtp":
		mailer = mail.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.DefaultFromEmail)
	default:
		mailer = mail.NewConsoleMailer(cfg.DefaultFromEmail, appLogger)
	}

	srv, err := server.NewServer(cfg, db, rdb, mailer, appLogger)
	if err != nil {
		appLogger.Error("could not build server", "error", err)
		os.Exit(1)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			appLogger.Error("HTTP server stopped", "error", err)
		}
	case sig := <-sigChan:
		appLogger.Info("Shutdown signal received", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			appLogger.Error("graceful shutdown failed", "error", err)
		}
	}
}
