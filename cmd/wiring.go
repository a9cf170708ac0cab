package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/okian/drape/internal/adapters/blob"
	"github.com/okian/drape/internal/adapters/mq/publisher"
	"github.com/okian/drape/internal/adapters/narrator"
	"github.com/okian/drape/internal/adapters/repository"
	service "github.com/okian/drape/internal/app"
	"github.com/okian/drape/internal/config"
	"github.com/okian/drape/pkg/logger"
)

// serviceOptions opens every backend the configuration names and returns
// the options of a service that owns them. Service.Stop closes the store
// and the publisher, and so does a failed Service.Start.
func serviceOptions(ctx context.Context, cfg *config.Config) ([]service.Option, error) {
	log := logger.Get()

	store, err := repository.Open(ctx, cfg.StoreBackend, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	archive, err := openArchive(ctx, cfg)
	if err != nil {
		return nil, errors.Join(err, store.Close())
	}

	templates := narrator.NewTemplateNarrator()
	var narr narrator.Narrator = templates
	if cfg.GenAIAPIKey != "" {
		g, err := narrator.NewGenAINarrator(ctx, cfg.GenAIAPIKey, cfg.GenAIModel, templates)
		if err != nil {
			log.Warn(ctx, "genai narrator unavailable; using templates", logger.Error(err))
		} else {
			narr = g
		}
	}

	var pub publisher.Publisher = publisher.NewLogPublisher(log.Named("events"))
	if cfg.AMQPURL != "" {
		p, err := publisher.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			return nil, errors.Join(fmt.Errorf("connect broker: %w", err), store.Close())
		}
		pub = p
	}

	log.Info(ctx, "backends configured",
		logger.String("store", cfg.StoreBackend),
		logger.String("blob", cfg.BlobBackend),
		logger.Bool("genai", cfg.GenAIAPIKey != ""),
		logger.Bool("amqp", cfg.AMQPURL != ""),
	)

	return []service.Option{
		service.WithLogger(log.Named("service")),
		service.WithWorkerCount(cfg.WorkerCount),
		service.WithQueueSize(cfg.EventQueueSize),
		service.WithDedupeSize(cfg.DedupeSize),
		service.WithCounts(cfg.RecommendCount, cfg.DisplayCount, cfg.AlternativesCount),
		service.WithCatalogPaths(cfg.CatalogPaths...),
		service.WithCatalogRefreshInterval(cfg.CatalogRefreshInterval),
		service.WithStore(store),
		service.WithArchive(archive),
		service.WithNarrator(narr),
		service.WithPublisher(pub),
	}, nil
}

func openArchive(ctx context.Context, cfg *config.Config) (blob.Archive, error) {
	switch cfg.BlobBackend {
	case "", "none":
		return blob.NopArchive{}, nil
	case "memory":
		return blob.NewMemoryArchive(), nil
	case "s3":
		a, err := blob.NewS3Archive(ctx, blob.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
		if err != nil {
			return nil, err
		}
		return a, nil
	case "azure":
		var (
			a   *blob.AzureArchive
			err error
		)
		if cfg.AzureConnectionString != "" {
			a, err = blob.NewAzureArchive(ctx, cfg.AzureConnectionString, cfg.AzureContainer)
		} else {
			a, err = blob.NewAzureArchiveFromAccount(ctx, cfg.AzureAccountURL, cfg.AzureContainer)
		}
		if err != nil {
			return nil, err
		}
		return a, nil
	default:
		return nil, fmt.Errorf("%w: blob_backend %q", config.ErrUnknownBackend, cfg.BlobBackend)
	}
}
