package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"plate-server/internal/app"
	"plate-server/internal/config"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// @title Plate Server
// @version 1.0.0
// @description Authentication API: sign-up, login, token refresh, token verification and logout.
// @contact.name Plate Team
// @contact.email support@plate.org
// @BasePath /
// @securityDefinitions.apikey bearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.
func main() {
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp: true,
	})
	log.SetOutput(os.Stdout)

	if err := godotenv.Load(); err != nil {
		log.Warn("Could not load .env file.")
	}

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Invalid configuration")
	}

	level, _ := log.ParseLevel(cfg.App.LogLevel)
	log.SetLevel(level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("Could not start the application")
	}

	if err := a.Run(ctx); err != nil {
		log.WithError(err).Fatal("Plate server stopped with an error")
	}
	log.Info("Plate server stopped.")
}
