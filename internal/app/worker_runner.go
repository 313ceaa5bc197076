package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/dig"

	"wm-pickup/internal/config"
	"wm-pickup/internal/logx"
	"wm-pickup/internal/repository"
	"wm-pickup/internal/service/schedulesync"
	"wm-pickup/internal/transport/kafka"
)

// WorkerRunner runs the pickup sync worker
type WorkerRunner struct {
	runFn func(*dig.Container) error
}

// NewWorkerRunner returns a new WorkerRunner
func NewWorkerRunner() *WorkerRunner {
	return &WorkerRunner{runFn: runWorker}
}

// MustRun starts the worker using the provided DI container
func (r *WorkerRunner) MustRun(container *dig.Container) {
	err := r.runFn(container)
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}
	panic(err)
}

func runWorker(container *dig.Container) error {
	return container.Invoke(func(
		ctx context.Context,
		cfg *config.Config,
		pool *pgxpool.Pool,
		logger logx.Logger,
		syncer *schedulesync.Syncer,
		publisher *kafka.Publisher,
	) error {
		defer closeWorker(pool, logger, publisher)
		if err := repository.EnsureSchema(ctx, pool); err != nil {
			return err
		}
		return workerRun(ctx, cfg, logger, syncer)
	})
}

func workerRun(ctx context.Context, cfg *config.Config, logger logx.Logger, syncer *schedulesync.Syncer) error {
	if syncer == nil {
		return fmt.Errorf("syncer is nil: worker container misconfigured")
	}
	if !cfg.Kafka.Enabled() {
		logger.Warn("kafka not configured, delay notices are not published")
	}
	logger.Info("wm-pickup-worker started", logx.Duration("interval", cfg.Sync.Interval))
	return syncer.Run(ctx, cfg.Sync.Interval)
}

func closeWorker(pool *pgxpool.Pool, logger logx.Logger, publisher *kafka.Publisher) {
	if err := publisher.Close(); err != nil {
		logger.Error("kafka close error", logx.Err(err))
	}
	if pool != nil {
		pool.Close()
	}
	_ = logger.Sync()
}
