// Package mongo holds the optional MongoDB backend for visit history.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	defaultTimeout     = 10 * time.Second
	defaultMaxPoolSize = 20
)

// Config selects the server and database that hold visit history.
type Config struct {
	URI         string
	Database    string
	MaxPoolSize uint64
	Timeout     time.Duration
}

// Connect dials the server and pings the primary before handing back the
// history database. The caller owns the returned client.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxPoolSize == 0 {
		cfg.MaxPoolSize = defaultMaxPoolSize
	}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetAppName("marketplace-api").
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetServerSelectionTimeout(cfg.Timeout)

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to mongo: %w", err)
	}
	if err := Ping(ctx, client); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}
	return client, client.Database(cfg.Database), nil
}

// Ping checks that the primary is reachable.
func Ping(ctx context.Context, client *mongo.Client) error {
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("ping mongo primary: %w", err)
	}
	return nil
}
