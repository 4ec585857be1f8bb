package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/caarlos0/env/v11"

	"github.com/jacentio/quill/storage"
)

// Config holds server settings read from the environment. Flags
// override whatever the environment provides.
type Config struct {
	Addr        string `env:"QUILL_ADDR" envDefault:":3000"`
	Storage     string `env:"QUILL_STORAGE" envDefault:"dynamodb"`
	TablePrefix string `env:"QUILL_TABLE_PREFIX" envDefault:"quill_"`
}

// LoadConfig parses the QUILL_* environment variables.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// openStore builds the store named by cfg.Storage. The dynamodb backend
// picks up credentials and region from the standard AWS environment.
func openStore(ctx context.Context, cfg Config, logger *slog.Logger) (storage.Store, error) {
	switch cfg.Storage {
	case "memory":
		logger.Warn("using in-memory storage, data will not survive a restart")
		return storage.NewMemory(), nil
	case "dynamodb":
		awsCfg, err := config.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		return storage.NewDynamo(dynamodb.NewFromConfig(awsCfg), storage.Config{
			TablePrefix: cfg.TablePrefix,
		}), nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage)
}
