// Package cmdutil holds shared helpers for the liststorectl subcommands:
// loading configuration and constructing the docstore/liststore
// collaborators from it.
package cmdutil

import (
	"context"
	"fmt"

	"github.com/cktan/liststore/internal/logger"
	"github.com/cktan/liststore/internal/metrics"
	blobbadger "github.com/cktan/liststore/pkg/blobcache/badger"
	"github.com/cktan/liststore/pkg/config"
	"github.com/cktan/liststore/pkg/docstore"
	"github.com/cktan/liststore/pkg/liststore"
	objs3 "github.com/cktan/liststore/pkg/objectstore/s3"
)

// Stores bundles the constructed collaborators and a Close to release the
// cache's resources.
type Stores struct {
	Docs  *docstore.DocStore
	Lists *liststore.ListStore
	Close func() error
}

// Build loads configuration from configPath and wires the object-store and
// cache collaborators into a DocStore and ListStore pair.
func Build(ctx context.Context, configPath string) (*Stores, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("cmdutil: load config: %w", err)
	}

	if err := logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}); err != nil {
		return nil, fmt.Errorf("cmdutil: init logger: %w", err)
	}

	if cfg.Metrics.Enabled {
		metrics.Enable()
	}

	objects, err := objs3.NewFromConfig(ctx, objs3.Config{
		Bucket:         cfg.ObjectStore.Bucket,
		Region:         cfg.ObjectStore.Region,
		Endpoint:       cfg.ObjectStore.Endpoint,
		AccessKey:      cfg.ObjectStore.AccessKey,
		SecretKey:      cfg.ObjectStore.SecretKey,
		ForcePathStyle: cfg.ObjectStore.ForcePathStyle,
		RequestTimeout: cfg.ObjectStore.RequestTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("cmdutil: build object store: %w", err)
	}

	cache, err := blobbadger.Open(blobbadger.Config{
		Dir:      cfg.Cache.Dir,
		InMemory: cfg.Cache.InMemory,
	})
	if err != nil {
		return nil, fmt.Errorf("cmdutil: open cache: %w", err)
	}

	return &Stores{
		Docs:  docstore.New(objects, cache),
		Lists: liststore.New(objects, cache, cfg.ObjectStore.Bucket),
		Close: cache.Close,
	}, nil
}

// WithOperation tags ctx with a fresh LogContext for operation, so every
// log line the command's store calls emit can be correlated by TraceID.
func WithOperation(ctx context.Context, operation string) context.Context {
	return logger.WithContext(ctx, logger.NewLogContext(operation))
}
