package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"

	syncapp "github.com/retailcore/backend/internal/application/sync"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/infrastructure/config"
	"github.com/retailcore/backend/internal/infrastructure/logger"
	"github.com/retailcore/backend/internal/infrastructure/persistence"
	syncinfra "github.com/retailcore/backend/internal/infrastructure/sync"
)

// syncd pushes this installation's changes to the peer on an interval.
// Incoming batches arrive through the server's batch intake endpoint, so
// one daemon per side keeps the link moving in both directions.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	branchID, err := uuid.Parse(cfg.App.BranchID)
	if err != nil {
		log.Fatal("app.branch_id must be a UUID", zap.Error(err))
	}
	if cfg.Sync.PeerURL == "" {
		log.Fatal("sync.peer_url is required to run the synchronization daemon")
	}

	log.Info("Starting synchronization daemon",
		zap.String("branch", cfg.App.BranchID),
		zap.String("side", cfg.Sync.Side),
		zap.String("peer", cfg.Sync.PeerURL),
		zap.Duration("interval", cfg.Sync.Interval),
	)

	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, logger.NewGormLogger(log, gormlogger.Warn))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	registry, err := syncinfra.DefaultRegistry(cfg.Sync.Policies)
	if err != nil {
		log.Fatal("Failed to build table registry", zap.Error(err))
	}

	coordinator := syncapp.NewCoordinator(
		registry,
		persistence.NewStoreSource(db.DB, branchID),
		syncinfra.NewHTTPDestination(cfg.Sync.PeerURL, nil, log),
		persistence.NewGormBranchSyncRepository(db.DB),
		persistence.NewGormQuarantineStore(db.DB),
		shared.SystemClock{},
		log,
		syncapp.Config{
			Side:          cfg.Sync.SyncSide(),
			BatchSize:     cfg.Params.SyncBatchSize,
			ApplyAttempts: cfg.Sync.ApplyAttempts,
			RetryInterval: cfg.Sync.RetryInterval,
			Interval:      cfg.Sync.Interval,
		},
	)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Info("Shutting down synchronization daemon...")
		cancel()
	}()

	if err := coordinator.Run(ctx, branchID); err != nil && err != context.Canceled {
		log.Fatal("Synchronization loop failed", zap.Error(err))
	}

	log.Info("Synchronization daemon exited")
}
