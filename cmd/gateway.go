package cmd

import (
	"context"
	"fmt"

	"blob-gateway/core/config"
	"blob-gateway/core/logger"
	"blob-gateway/feature/files"

	"go.uber.org/zap"
)

// openGateway loads configuration and builds the file service shared by
// the one-shot commands.
func openGateway(ctx context.Context) (*files.Service, *zap.Logger, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}

	svc, err := files.Open(ctx, cfg.Storage, logg)
	if err != nil {
		return nil, logg, fmt.Errorf("failed to open storage gateway: %w", err)
	}
	return svc, logg, nil
}
