package schema

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureCollections(t *testing.T) {
	ctx := context.Background()

	t.Run("creates missing tables only", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		var buf bytes.Buffer
		log := zerolog.New(&buf)

		mock.ExpectQuery("SELECT to_regclass").WithArgs("public.students").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectQuery("SELECT to_regclass").WithArgs("public.teachers").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS teachers").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_teachers_seq").WillReturnResult(sqlmock.NewResult(0, 0))

		err = EnsureCollections(ctx, db, log, "students", "teachers")

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
		out := buf.String()
		assert.Contains(t, out, `"event":"db_schema_check"`)
		assert.Contains(t, out, `"schema_step":"create_table_teachers"`)
		assert.NotContains(t, out, `"schema_step":"create_table_students"`)
		assert.Contains(t, out, `"event":"db_schema_ready"`)
	})

	t.Run("check error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("SELECT to_regclass").WillReturnError(errors.New("conn refused"))

		err = EnsureCollections(ctx, db, zerolog.Nop(), "students")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "check table students: conn refused")
	})

	t.Run("step error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("SELECT to_regclass").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS students").WillReturnError(errors.New("permission denied"))

		err = EnsureCollections(ctx, db, zerolog.Nop(), "students")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "schema step create_table_students failed: permission denied")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
