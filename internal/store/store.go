// Package store opens the configured document store and exposes its collections.
package store

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"schoolapi/internal/config"
	"schoolapi/internal/database"
	"schoolapi/internal/database/schema"
	"schoolapi/internal/model"
	"schoolapi/internal/repository"
	"schoolapi/internal/repository/memory"
	"schoolapi/internal/repository/mongodb"
	"schoolapi/internal/repository/postgres"
)

// Collections is the set of collection names every backend provides.
var Collections = []string{"students", "teachers"}

// Store holds one shared backend handle and the collections built on it.
type Store struct {
	Driver   string
	Students repository.Collection[model.Student]
	Teachers repository.Collection[model.Teacher]

	ping  func(ctx context.Context) error
	close func(ctx context.Context) error
}

// Open connects to the backend selected by cfg.Store.Driver and verifies it
// is reachable. PostgreSQL collection tables are created when missing.
func Open(ctx context.Context, cfg *config.AppConfig, log zerolog.Logger) (*Store, error) {
	log = log.With().Str("component", "store").Str("driver", cfg.Store.Driver).Logger()

	switch cfg.Store.Driver {
	case config.DriverPostgres:
		db, err := database.NewPostgres(ctx, cfg.Database, cfg.Store.PingTimeout())
		if err != nil {
			return nil, err
		}
		if err := schema.EnsureCollections(ctx, db, log, Collections...); err != nil {
			_ = db.Close()
			return nil, err
		}
		log.Info().Msg("store connected")
		return &Store{
			Driver:   config.DriverPostgres,
			Students: postgres.NewStudents(db),
			Teachers: postgres.NewTeachers(db),
			ping:     db.PingContext,
			close:    func(context.Context) error { return db.Close() },
		}, nil

	case config.DriverMongo:
		client, err := database.NewMongo(ctx, cfg.Mongo, cfg.Store.PingTimeout())
		if err != nil {
			return nil, err
		}
		db := client.Database(cfg.Mongo.Database)
		log.Info().Str("database", cfg.Mongo.Database).Msg("store connected")
		return &Store{
			Driver:   config.DriverMongo,
			Students: mongodb.NewStudents(db),
			Teachers: mongodb.NewTeachers(db),
			ping:     func(ctx context.Context) error { return client.Ping(ctx, readpref.Primary()) },
			close:    client.Disconnect,
		}, nil

	case config.DriverMemory:
		s, err := NewMemory()
		if err != nil {
			return nil, err
		}
		log.Warn().Msg("using in-memory store, data is lost on exit")
		return s, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// NewMemory returns an empty in-process store.
func NewMemory() (*Store, error) {
	db, err := memory.NewDB(Collections...)
	if err != nil {
		return nil, err
	}
	return &Store{
		Driver:   config.DriverMemory,
		Students: memory.NewStudents(db),
		Teachers: memory.NewTeachers(db),
		ping:     func(context.Context) error { return nil },
		close:    func(context.Context) error { return nil },
	}, nil
}

// Ping checks that the backend is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.ping(ctx)
}

// Close releases the backend handle.
func (s *Store) Close(ctx context.Context) error {
	if err := s.close(ctx); err != nil {
		return fmt.Errorf("close %s store: %w", s.Driver, err)
	}
	return nil
}
