package main

import (
	"os"

	"estateauth/config"
	"estateauth/internal/db"

	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	direction := "up"
	if len(os.Args) > 1 {
		direction = os.Args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("config load failed")
	}

	if err := db.Migrate(cfg.DatabaseURL, direction); err != nil {
		logger.WithError(err).Fatal("migration failed")
	}
	logger.WithField("direction", direction).Info("migrations applied")
}
