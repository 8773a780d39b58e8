package backend

import (
	"context"
	"fmt"

	"github.com/Ettuli11/BlockDebt/pkg/config"
	"github.com/Ettuli11/BlockDebt/pkg/storage"
	dydbstore "github.com/Ettuli11/BlockDebt/pkg/storage/dynamodb"
	"github.com/Ettuli11/BlockDebt/pkg/storage/memory"
	"github.com/Ettuli11/BlockDebt/pkg/storage/sqlstore"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// Open connects the store selected by cfg.StoreDriver. The returned close
// function releases it and is never nil.
func Open(ctx context.Context, cfg *config.Config) (storage.Storage, func() error, error) {
	noop := func() error { return nil }
	if err := cfg.RequireStore(); err != nil {
		return nil, noop, err
	}

	switch cfg.StoreDriver {
	case config.DriverSQLite:
		s, err := sqlstore.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, noop, err
		}
		return s, s.Close, nil

	case config.DriverPostgres:
		s, err := sqlstore.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, noop, err
		}
		return s, s.Close, nil

	case config.DriverDynamoDB:
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, noop, fmt.Errorf("unable to load SDK config: %w", err)
		}
		client := dynamodb.NewFromConfig(awsCfg)
		return dydbstore.New(client, cfg.LoansTableName, cfg.PaymentsTableName), noop, nil

	default:
		return memory.New(), noop, nil
	}
}
