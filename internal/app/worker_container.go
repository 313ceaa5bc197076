package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"wm-pickup/internal/config"
	"wm-pickup/internal/logx"
	"wm-pickup/internal/repository"
	"wm-pickup/internal/service/pickup"
	"wm-pickup/internal/service/schedulesync"
	"wm-pickup/internal/transport/kafka"
)

// MustBuildWorker builds the sync worker container
func (b *ContainerBuilder) MustBuildWorker(ctx context.Context) *dig.Container {
	container, err := b.buildWorker(ctx)
	if err != nil {
		b.logFatalf("failed to build worker container: %v", err)
	}
	return container
}

func (b *ContainerBuilder) buildWorker(ctx context.Context) (*dig.Container, error) {
	container := dig.New()

	if err := b.registerCore(container, ctx); err != nil {
		return nil, fmt.Errorf("core: %w", err)
	}
	if err := registerDb(container, b.dbConnect); err != nil {
		return nil, fmt.Errorf("DB: %w", err)
	}
	if err := registerGateway(container); err != nil {
		return nil, fmt.Errorf("gateway: %w", err)
	}
	if err := registerService(container); err != nil {
		return nil, fmt.Errorf("service: %w", err)
	}
	if err := registerSync(container); err != nil {
		return nil, fmt.Errorf("sync: %w", err)
	}
	return container, nil
}

// MustBuildWorkerContainer builds and returns the sync worker container
func MustBuildWorkerContainer(ctx context.Context) *dig.Container {
	return NewContainerBuilder().MustBuildWorker(ctx)
}

func registerDb(container *dig.Container, dbConnect dbConnectFunc) error {
	providerDB := func(ctx context.Context, cfg *config.Config, logger logx.Logger) (*pgxpool.Pool, error) {
		return dbConnect(ctx, logger, cfg.DB.DSN(), 10, time.Second)
	}
	return provideAll(container, providerDB)
}

type syncerIn struct {
	dig.In
	Pickups   *pickup.Service
	Store     *repository.SnapshotRepo
	Publisher *kafka.Publisher
	Logger    logx.Logger
	Published prometheus.Counter `name:"delay_notices_published_total"`
}

func newSyncer(in syncerIn) *schedulesync.Syncer {
	var pub schedulesync.Publisher
	if in.Publisher != nil {
		pub = in.Publisher
	}
	return schedulesync.New(in.Pickups, in.Store, pub, in.Logger, in.Published)
}

func newPublisher(cfg *config.Config, logger logx.Logger) (*kafka.Publisher, error) {
	return kafka.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.DelayTopic, logger)
}

func registerSync(container *dig.Container) error {
	return provideAll(container,
		repository.NewSnapshotRepo,
		newPublisher,
		newSyncer,
	)
}
