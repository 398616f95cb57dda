package files

import (
	"context"
	"fmt"

	"blob-gateway/core/storage"
	"blob-gateway/core/storage/azurestore"
	"blob-gateway/core/storage/memstore"
	"blob-gateway/core/storage/miniostore"
	"blob-gateway/core/storage/s3store"

	"go.uber.org/zap"
)

// Open builds the service from configuration. Every failure is a
// *storage.ConfigError and should abort startup.
func Open(ctx context.Context, cfg storage.Config, logger *zap.Logger) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	public, protected, err := openContainers(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.VerifyContainers {
		if err := verifyContainers(ctx, public, protected, cfg.CreateContainers, logger); err != nil {
			return nil, err
		}
	}

	logger.Info("Storage gateway ready",
		zap.String("driver", cfg.Driver),
		zap.String("public", public.Name()),
		zap.String("protected", protected.Name()),
		zap.Duration("signed_url_ttl", cfg.SignedURLTTL))

	return NewService(public, protected, logger,
		WithPolicyBuilder(ReadOnlyFor(cfg.SignedURLTTL)),
		WithStreamBuffer(cfg.StreamBufferBytes),
	), nil
}

func openContainers(ctx context.Context, cfg storage.Config) (storage.Container, storage.Container, error) {
	switch cfg.Driver {
	case storage.DriverAzure:
		svc, err := azurestore.NewService(cfg.ConnectionString)
		if err != nil {
			return nil, nil, err
		}
		public, err := svc.Container(cfg.PublicContainer)
		if err != nil {
			return nil, nil, err
		}
		protected, err := svc.Container(cfg.ProtectedContainer)
		if err != nil {
			return nil, nil, err
		}
		return public, protected, nil

	case storage.DriverMinio:
		mcfg, err := miniostore.ParseConfig(cfg.ConnectionString, cfg.TimeoutSeconds)
		if err != nil {
			return nil, nil, err
		}
		client, err := miniostore.NewClient(mcfg)
		if err != nil {
			return nil, nil, err
		}
		return miniostore.NewContainer(client, cfg.PublicContainer, mcfg.Region),
			miniostore.NewContainer(client, cfg.ProtectedContainer, mcfg.Region), nil

	case storage.DriverS3:
		client, ep, err := s3store.NewClient(ctx, cfg.ConnectionString)
		if err != nil {
			return nil, nil, err
		}
		return s3store.NewContainer(client, cfg.PublicContainer, ep),
			s3store.NewContainer(client, cfg.ProtectedContainer, ep), nil

	case storage.DriverMemory:
		cs, err := storage.ParseConnectionString(cfg.ConnectionString)
		if err != nil {
			return nil, nil, err
		}
		base := cs.Get("BaseURL")
		return memstore.NewContainer(cfg.PublicContainer, base),
			memstore.NewContainer(cfg.ProtectedContainer, base), nil
	}
	return nil, nil, &storage.ConfigError{Field: "driver", Err: storage.ErrUnknownDriver}
}

// verifyContainers checks public before protected, so with both missing
// the error always names public_container.
func verifyContainers(ctx context.Context, public, protected storage.Container, create bool, logger *zap.Logger) error {
	for _, target := range []struct {
		field string
		c     storage.Container
	}{
		{"public_container", public},
		{"protected_container", protected},
	} {
		if err := verifyContainer(ctx, target.c, create, logger); err != nil {
			return &storage.ConfigError{Field: target.field, Err: err}
		}
	}
	return nil
}

func verifyContainer(ctx context.Context, c storage.Container, create bool, logger *zap.Logger) error {
	v, ok := c.(storage.Verifier)
	if !ok {
		return nil
	}
	exists, err := v.Exists(ctx)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	if !create {
		return fmt.Errorf("%w: %s", storage.ErrContainerMissing, c.Name())
	}
	if err := v.Create(ctx); err != nil {
		return err
	}
	logger.Info("Created missing container", zap.String("container", c.Name()))
	return nil
}
