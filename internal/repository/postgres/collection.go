package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"schoolapi/internal/model"
	"schoolapi/internal/repository"
)

// Collection is a PostgreSQL implementation of repository.Collection.
// Each document lives in a JSONB column of a per-collection table; the
// identifier and insertion sequence are regular columns.
type Collection[T any, PT model.Record[T]] struct {
	db    *sql.DB
	table string

	qList   string
	qFind   string
	qInsert string
	qUpdate string
	qDelete string
}

// NewCollection creates a repository over the given table. The table must
// already exist (see schema.EnsureCollections).
func NewCollection[T any, PT model.Record[T]](db *sql.DB, table string) *Collection[T, PT] {
	return &Collection[T, PT]{
		db:      db,
		table:   table,
		qList:   fmt.Sprintf(`SELECT id, doc FROM %s ORDER BY seq`, table),
		qFind:   fmt.Sprintf(`SELECT id, doc FROM %s WHERE id = $1`, table),
		qInsert: fmt.Sprintf(`INSERT INTO %s (id, doc) VALUES ($1, $2) RETURNING id, doc`, table),
		qUpdate: fmt.Sprintf(`UPDATE %s SET doc = doc || $2::jsonb, updated_at = now() WHERE id = $1 RETURNING id, doc`, table),
		qDelete: fmt.Sprintf(`DELETE FROM %s WHERE id = $1 RETURNING id, doc`, table),
	}
}

// NewStudents returns the students collection.
func NewStudents(db *sql.DB) *Collection[model.Student, *model.Student] {
	return NewCollection[model.Student](db, "students")
}

// NewTeachers returns the teachers collection.
func NewTeachers(db *sql.DB) *Collection[model.Teacher, *model.Teacher] {
	return NewCollection[model.Teacher](db, "teachers")
}

var _ repository.Collection[model.Student] = (*Collection[model.Student, *model.Student])(nil)

// List returns all documents ordered by insertion.
func (r *Collection[T, PT]) List(ctx context.Context) ([]T, error) {
	rows, err := r.db.QueryContext(ctx, r.qList)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.table, err)
	}
	defer rows.Close()

	items := make([]T, 0)
	for rows.Next() {
		var (
			id  string
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("list %s: %w", r.table, err)
		}
		doc, err := repository.DecodeJSON[T, PT](id, raw)
		if err != nil {
			return nil, err
		}
		items = append(items, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list %s: %w", r.table, err)
	}
	return items, nil
}

// FindByID fetches a single document by its ID.
func (r *Collection[T, PT]) FindByID(ctx context.Context, id string) (*T, error) {
	key, ok := parseID(id)
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r.scanOne(r.db.QueryRowContext(ctx, r.qFind, key), "find")
}

// Create inserts doc under a new UUID. Any ID already set on doc is not stored.
func (r *Collection[T, PT]) Create(ctx context.Context, doc *T) (*T, error) {
	body, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode %s document: %w", r.table, err)
	}
	return r.scanOne(r.db.QueryRowContext(ctx, r.qInsert, uuid.NewString(), string(body)), "insert")
}

// Update merges fields into the stored document with the JSONB concatenation operator.
func (r *Collection[T, PT]) Update(ctx context.Context, id string, fields map[string]any) (*T, error) {
	key, ok := parseID(id)
	if !ok {
		return nil, repository.ErrNotFound
	}
	if fields == nil {
		fields = map[string]any{}
	}
	patch, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("encode %s patch: %w", r.table, err)
	}
	return r.scanOne(r.db.QueryRowContext(ctx, r.qUpdate, key, string(patch)), "update")
}

// Delete removes a document and returns the removed row.
func (r *Collection[T, PT]) Delete(ctx context.Context, id string) (*T, error) {
	key, ok := parseID(id)
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r.scanOne(r.db.QueryRowContext(ctx, r.qDelete, key), "delete")
}

func (r *Collection[T, PT]) scanOne(row *sql.Row, op string) (*T, error) {
	var (
		id  string
		raw []byte
	)
	if err := row.Scan(&id, &raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("%s %s: %w", op, r.table, err)
	}
	return repository.DecodeJSON[T, PT](id, raw)
}

// parseID returns the canonical form of id, or false when id cannot be a
// primary key and therefore cannot match a row.
func parseID(id string) (string, bool) {
	u, err := uuid.Parse(id)
	if err != nil {
		return "", false
	}
	return u.String(), true
}
