// The sweeper is a short-lived process meant to be run from cron. It opens
// its own store connection, removes every deal whose end date has passed and
// exits. Exit code 0 covers "nothing to expire"; any connection or store
// failure exits non-zero and retrying is the scheduler's job.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/example/dealspot/internal/config"
	"github.com/example/dealspot/internal/database"
	"github.com/example/dealspot/internal/logger"
	"github.com/example/dealspot/internal/sweeper"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg := config.LoadSweeper()

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Printf("logger init failed: %v", err)
		return 1
	}
	defer logger.L().Sync()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.L().Error("database connection failed", zap.Error(err))
		return 1
	}
	defer database.Close(db)

	removed, err := sweeper.Run(context.Background(), db, time.Now())
	if err != nil {
		logger.L().Error("expiry sweep failed", zap.Error(err))
		return 1
	}

	logger.L().Info("expiry sweep complete", zap.Int64("deals_removed", removed))
	return 0
}
