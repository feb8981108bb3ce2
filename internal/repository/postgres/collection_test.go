package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolapi/internal/model"
	"schoolapi/internal/repository"
)

func strPtr(s string) *string   { return &s }
func numPtr(f float64) *float64 { return &f }

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestCollection_List(t *testing.T) {
	db, mock := newMock(t)
	repo := NewStudents(db)
	ctx := context.Background()

	t.Run("ordered by insertion", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "doc"}).
			AddRow("id-1", []byte(`{"name":"Ada","age":30,"grade":"A"}`)).
			AddRow("id-2", []byte(`{"name":"Alan"}`))
		mock.ExpectQuery("SELECT id, doc FROM students ORDER BY seq").WillReturnRows(rows)

		items, err := repo.List(ctx)

		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "id-1", items[0].ID)
		assert.Equal(t, "Ada", *items[0].Name)
		assert.Equal(t, 30.0, *items[0].Age)
		assert.Equal(t, "A", items[0].Grade)
		assert.Equal(t, "id-2", items[1].ID)
		assert.Nil(t, items[1].Age)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty collection", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, doc FROM students").
			WillReturnRows(sqlmock.NewRows([]string{"id", "doc"}))

		items, err := repo.List(ctx)

		require.NoError(t, err)
		assert.NotNil(t, items)
		assert.Empty(t, items)
	})

	t.Run("query error", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, doc FROM students").WillReturnError(errors.New("conn reset"))

		_, err := repo.List(ctx)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "list students: conn reset")
	})
}

func TestCollection_FindByID(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTeachers(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		id := uuid.NewString()
		rows := sqlmock.NewRows([]string{"id", "doc"}).
			AddRow(id, []byte(`{"name":"Grace","gender":"f","subject":"cs"}`))
		mock.ExpectQuery("SELECT id, doc FROM teachers WHERE id = ?").
			WithArgs(id).
			WillReturnRows(rows)

		doc, err := repo.FindByID(ctx, id)

		require.NoError(t, err)
		assert.Equal(t, id, doc.ID)
		assert.Equal(t, "cs", *doc.Subject)
	})

	t.Run("not found", func(t *testing.T) {
		id := uuid.NewString()
		mock.ExpectQuery("SELECT id, doc FROM teachers WHERE id = ?").
			WithArgs(id).
			WillReturnError(sql.ErrNoRows)

		doc, err := repo.FindByID(ctx, id)

		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.Nil(t, doc)
	})

	t.Run("malformed id does not query", func(t *testing.T) {
		doc, err := repo.FindByID(ctx, "doesnotexist")

		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.Nil(t, doc)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("canonical id form", func(t *testing.T) {
		id := uuid.New()
		mock.ExpectQuery("SELECT id, doc FROM teachers WHERE id = ?").
			WithArgs(id.String()).
			WillReturnRows(sqlmock.NewRows([]string{"id", "doc"}).AddRow(id.String(), []byte(`{}`)))

		doc, err := repo.FindByID(ctx, "urn:uuid:"+id.String())

		require.NoError(t, err)
		assert.Equal(t, id.String(), doc.ID)
	})
}

func TestCollection_Create(t *testing.T) {
	db, mock := newMock(t)
	repo := NewStudents(db)
	ctx := context.Background()

	in := &model.Student{Name: strPtr("Ada"), Age: numPtr(30), Grade: "A"}
	stored := `{"name":"Ada","age":30,"grade":"A"}`

	mock.ExpectQuery("INSERT INTO students").
		WithArgs(sqlmock.AnyArg(), stored).
		WillReturnRows(sqlmock.NewRows([]string{"id", "doc"}).AddRow("new-id", []byte(stored)))

	doc, err := repo.Create(ctx, in)

	require.NoError(t, err)
	assert.Equal(t, "new-id", doc.ID)
	assert.Equal(t, "Ada", *doc.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCollection_Update(t *testing.T) {
	db, mock := newMock(t)
	repo := NewStudents(db)
	ctx := context.Background()

	t.Run("merged", func(t *testing.T) {
		id := uuid.NewString()
		mock.ExpectQuery("UPDATE students SET doc").
			WithArgs(id, `{"age":31,"name":"Ada L."}`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "doc"}).
				AddRow(id, []byte(`{"name":"Ada L.","age":31,"grade":"A"}`)))

		doc, err := repo.Update(ctx, id, map[string]any{"name": "Ada L.", "age": 31})

		require.NoError(t, err)
		assert.Equal(t, "Ada L.", *doc.Name)
		assert.Equal(t, 31.0, *doc.Age)
		assert.Equal(t, "A", doc.Grade)
	})

	t.Run("empty patch", func(t *testing.T) {
		id := uuid.NewString()
		mock.ExpectQuery("UPDATE students SET doc").
			WithArgs(id, `{}`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "doc"}).AddRow(id, []byte(`{"name":"Ada"}`)))

		doc, err := repo.Update(ctx, id, nil)

		require.NoError(t, err)
		assert.Equal(t, "Ada", *doc.Name)
	})

	t.Run("not found", func(t *testing.T) {
		id := uuid.NewString()
		mock.ExpectQuery("UPDATE students SET doc").
			WithArgs(id, `{"name":"X"}`).
			WillReturnError(sql.ErrNoRows)

		doc, err := repo.Update(ctx, id, map[string]any{"name": "X"})

		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.Nil(t, doc)
	})

	t.Run("malformed id", func(t *testing.T) {
		_, err := repo.Update(ctx, "doesnotexist", map[string]any{"name": "X"})
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCollection_Delete(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTeachers(db)
	ctx := context.Background()

	t.Run("returns prior state", func(t *testing.T) {
		id := uuid.NewString()
		mock.ExpectQuery("DELETE FROM teachers WHERE id = ?").
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows([]string{"id", "doc"}).AddRow(id, []byte(`{"name":"Grace"}`)))

		doc, err := repo.Delete(ctx, id)

		require.NoError(t, err)
		assert.Equal(t, id, doc.ID)
		assert.Equal(t, "Grace", *doc.Name)
	})

	t.Run("not found", func(t *testing.T) {
		id := uuid.NewString()
		mock.ExpectQuery("DELETE FROM teachers WHERE id = ?").
			WithArgs(id).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.Delete(ctx, id)

		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("store error", func(t *testing.T) {
		id := uuid.NewString()
		mock.ExpectQuery("DELETE FROM teachers WHERE id = ?").
			WithArgs(id).
			WillReturnError(errors.New("db down"))

		_, err := repo.Delete(ctx, id)

		assert.Error(t, err)
		assert.NotErrorIs(t, err, repository.ErrNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
