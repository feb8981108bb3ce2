package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/hashicorp/go-memdb"

	"schoolapi/internal/model"
	"schoolapi/internal/repository"
)

// row is the value stored in every table. Doc holds the JSON document
// without its identifier; Seq records insertion order.
type row struct {
	ID  string
	Seq uint64
	Doc []byte
}

// NewDB creates an in-memory database with one table per collection name.
func NewDB(tables ...string) (*memdb.MemDB, error) {
	schema := &memdb.DBSchema{Tables: make(map[string]*memdb.TableSchema, len(tables))}
	for _, name := range tables {
		schema.Tables[name] = &memdb.TableSchema{
			Name: name,
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:    "id",
					Unique:  true,
					Indexer: &memdb.UUIDFieldIndex{Field: "ID"},
				},
			},
		}
	}
	db, err := memdb.NewMemDB(schema)
	if err != nil {
		return nil, fmt.Errorf("create memory store: %w", err)
	}
	return db, nil
}

// Collection is an in-process implementation of repository.Collection
// backed by go-memdb. Stored rows are never mutated; updates insert a
// replacement row.
type Collection[T any, PT model.Record[T]] struct {
	db    *memdb.MemDB
	table string
	seq   atomic.Uint64
}

// NewCollection returns a repository over a table created by NewDB.
func NewCollection[T any, PT model.Record[T]](db *memdb.MemDB, table string) *Collection[T, PT] {
	return &Collection[T, PT]{db: db, table: table}
}

// NewStudents returns the students collection.
func NewStudents(db *memdb.MemDB) *Collection[model.Student, *model.Student] {
	return NewCollection[model.Student](db, "students")
}

// NewTeachers returns the teachers collection.
func NewTeachers(db *memdb.MemDB) *Collection[model.Teacher, *model.Teacher] {
	return NewCollection[model.Teacher](db, "teachers")
}

var _ repository.Collection[model.Student] = (*Collection[model.Student, *model.Student])(nil)

func (r *Collection[T, PT]) List(_ context.Context) ([]T, error) {
	txn := r.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(r.table, "id")
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.table, err)
	}
	var rows []*row
	for obj := it.Next(); obj != nil; obj = it.Next() {
		rows = append(rows, obj.(*row))
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Seq < rows[j].Seq })

	items := make([]T, 0, len(rows))
	for _, rw := range rows {
		doc, err := repository.DecodeJSON[T, PT](rw.ID, rw.Doc)
		if err != nil {
			return nil, err
		}
		items = append(items, *doc)
	}
	return items, nil
}

func (r *Collection[T, PT]) FindByID(_ context.Context, id string) (*T, error) {
	txn := r.db.Txn(false)
	defer txn.Abort()

	rw, err := r.lookup(txn, id)
	if err != nil {
		return nil, err
	}
	return repository.DecodeJSON[T, PT](rw.ID, rw.Doc)
}

func (r *Collection[T, PT]) Create(_ context.Context, doc *T) (*T, error) {
	body, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode %s document: %w", r.table, err)
	}
	rw := &row{ID: uuid.NewString(), Seq: r.seq.Add(1), Doc: body}

	txn := r.db.Txn(true)
	defer txn.Abort()
	if err := txn.Insert(r.table, rw); err != nil {
		return nil, fmt.Errorf("insert %s: %w", r.table, err)
	}
	txn.Commit()

	return repository.DecodeJSON[T, PT](rw.ID, rw.Doc)
}

// Update merges fields over the top-level keys of the stored document.
func (r *Collection[T, PT]) Update(_ context.Context, id string, fields map[string]any) (*T, error) {
	txn := r.db.Txn(true)
	defer txn.Abort()

	current, err := r.lookup(txn, id)
	if err != nil {
		return nil, err
	}

	merged := map[string]json.RawMessage{}
	if len(current.Doc) > 0 {
		if err := json.Unmarshal(current.Doc, &merged); err != nil {
			return nil, fmt.Errorf("decode document %s: %w", id, err)
		}
	}
	for k, v := range fields {
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode %s patch: %w", r.table, err)
		}
		merged[k] = b
	}
	body, err := json.Marshal(merged)
	if err != nil {
		return nil, fmt.Errorf("encode %s document: %w", r.table, err)
	}

	next := &row{ID: current.ID, Seq: current.Seq, Doc: body}
	if err := txn.Insert(r.table, next); err != nil {
		return nil, fmt.Errorf("update %s: %w", r.table, err)
	}
	txn.Commit()

	return repository.DecodeJSON[T, PT](next.ID, next.Doc)
}

func (r *Collection[T, PT]) Delete(_ context.Context, id string) (*T, error) {
	txn := r.db.Txn(true)
	defer txn.Abort()

	current, err := r.lookup(txn, id)
	if err != nil {
		return nil, err
	}
	if err := txn.Delete(r.table, current); err != nil {
		return nil, fmt.Errorf("delete %s: %w", r.table, err)
	}
	txn.Commit()

	return repository.DecodeJSON[T, PT](current.ID, current.Doc)
}

func (r *Collection[T, PT]) lookup(txn *memdb.Txn, id string) (*row, error) {
	if _, err := uuid.Parse(id); err != nil || len(id) != 36 {
		return nil, repository.ErrNotFound
	}
	obj, err := txn.First(r.table, "id", id)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", r.table, err)
	}
	if obj == nil {
		return nil, repository.ErrNotFound
	}
	return obj.(*row), nil
}
