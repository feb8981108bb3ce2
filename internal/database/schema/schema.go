package schema

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

type step struct {
	Name string
	SQL  string
}

// stepsFor returns the idempotent statements that create one collection table.
func stepsFor(table string) []step {
	return []step{
		{
			Name: "create_table_" + table,
			SQL: fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
  id         UUID        PRIMARY KEY,
  seq        BIGSERIAL   NOT NULL,
  doc        JSONB       NOT NULL DEFAULT '{}'::jsonb,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`, table),
		},
		{
			Name: "create_index_" + table + "_seq",
			SQL:  fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_seq ON %s (seq);`, table, table),
		},
	}
}

// EnsureCollections creates the backing table of every named collection that
// does not exist yet. Existing tables are left untouched.
func EnsureCollections(ctx context.Context, db *sql.DB, log zerolog.Logger, tables ...string) error {
	log = log.With().Str("component", "database").Logger()
	start := time.Now()

	for _, table := range tables {
		log.Info().Str("event", "db_schema_check").Str("table", table).Msg("checking collection table")

		var exists bool
		query := "SELECT to_regclass($1) IS NOT NULL"
		if err := db.QueryRowContext(ctx, query, "public."+table).Scan(&exists); err != nil {
			log.Error().Err(err).Str("event", "db_schema_failed").Str("table", table).
				Int64("duration_ms", time.Since(start).Milliseconds()).
				Msg("failed to check collection table")
			return fmt.Errorf("check table %s: %w", table, err)
		}
		if exists {
			continue
		}

		for _, st := range stepsFor(table) {
			stepStart := time.Now()
			if _, err := db.ExecContext(ctx, st.SQL); err != nil {
				log.Error().Err(err).Str("event", "db_schema_failed").Str("schema_step", st.Name).
					Int64("step_duration_ms", time.Since(stepStart).Milliseconds()).
					Msg("schema step failed")
				return fmt.Errorf("schema step %s failed: %w", st.Name, err)
			}
			log.Info().Str("event", "db_schema_step").Str("schema_step", st.Name).
				Int64("step_duration_ms", time.Since(stepStart).Milliseconds()).
				Msg("schema step applied")
		}
	}

	log.Info().Str("event", "db_schema_ready").Strs("tables", tables).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("collection tables ready")
	return nil
}
