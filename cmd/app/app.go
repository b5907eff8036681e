package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/eventhub-app/eventhub-api/internal/api"
	"github.com/eventhub-app/eventhub-api/internal/config"
	"github.com/eventhub-app/eventhub-api/internal/db"
	"github.com/eventhub-app/eventhub-api/internal/logger"
)

func Start() error {
	conf, err := config.Load("./cmd/app/config.yml")
	if err != nil {
		return fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment); err != nil {
		return fmt.Errorf("failed to initialize logger -> %w", err)
	}

	dbURL := os.Getenv("DATABASE_URL")
	var postgresDB *gorm.DB
	if dbURL != "" {
		postgresDB, err = db.OpenPostgresWithURL(dbURL)
	} else {
		postgresDB, err = db.OpenPostgres(conf.Postgres)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database -> %w", err)
	}

	s := api.NewServer(conf, postgresDB)

	startSweeper(s, conf.API.SweepInterval)

	addr := ":" + s.Config.API.Port
	zap.L().Info(fmt.Sprintf("starting server at %v", addr))
	if err = s.Router.Run(addr); err != nil {
		return fmt.Errorf("failed to start the server -> %w", err)
	}

	return nil
}

// startSweeper periodically marks published events whose end date has
// passed as finished, so reads never have to mutate state.
func startSweeper(s *api.Server, intervalMinutes int) {
	if intervalMinutes <= 0 {
		zap.L().Info("finished-event sweep disabled")

		return
	}

	interval := time.Duration(intervalMinutes) * time.Minute
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for range ticker.C {
			if _, err := s.EventService.FinishPastEvents(context.Background()); err != nil {
				zap.L().Error("finished-event sweep failed", zap.Error(err))
			}
		}
	}()
}
