package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"schoolapi/internal/config"
)

var mongoConnect = mongo.Connect

// NewMongo connects to MongoDB and verifies the primary is reachable within
// pingTimeout. Embedded documents decode as maps so they serialize to JSON objects.
func NewMongo(ctx context.Context, c config.MongoConfig, pingTimeout time.Duration) (*mongo.Client, error) {
	if c.URI == "" || c.Database == "" {
		return nil, fmt.Errorf("invalid mongo config: uri and database are required")
	}

	opts := options.Client().
		ApplyURI(c.URI).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})

	client, err := mongoConnect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	return client, nil
}
