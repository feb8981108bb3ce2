package service

import (
	"context"
	"errors"

	"schoolapi/internal/model"
	"schoolapi/internal/repository"
)

var ErrNotFound = errors.New("resource not found")

// Service defines the use cases for one resource collection.
type Service[T any] interface {
	// List returns every stored entity in insertion order.
	List(ctx context.Context) ([]T, error)

	// Get returns a single entity by its ID.
	Get(ctx context.Context, id string) (*T, error)

	// Create stores doc under a new identifier. Any ID set on doc is discarded.
	Create(ctx context.Context, doc *T) (*T, error)

	// Update applies the declared keys of payload to an existing entity,
	// cast to their declared kinds. Other keys, the identifier included, are
	// dropped. A value that cannot be cast yields a *model.CastError.
	Update(ctx context.Context, id string, payload map[string]any) (*T, error)

	// Delete removes an entity and returns its last stored state.
	Delete(ctx context.Context, id string) (*T, error)
}

type (
	StudentService = Service[model.Student]
	TeacherService = Service[model.Teacher]
)

// resourceService is the Service implementation shared by all resources.
type resourceService[T any, PT model.Record[T]] struct {
	repo   repository.Collection[T]
	schema model.Schema
}

// New constructs a Service over repo that only lets fields declared in schema through Update.
func New[T any, PT model.Record[T]](repo repository.Collection[T], schema model.Schema) Service[T] {
	return &resourceService[T, PT]{repo: repo, schema: schema}
}

// NewStudentService constructs the students use cases.
func NewStudentService(repo repository.Collection[model.Student]) StudentService {
	return New[model.Student](repo, model.StudentSchema)
}

// NewTeacherService constructs the teachers use cases.
func NewTeacherService(repo repository.Collection[model.Teacher]) TeacherService {
	return New[model.Teacher](repo, model.TeacherSchema)
}

func (s *resourceService[T, PT]) List(ctx context.Context) ([]T, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func (s *resourceService[T, PT]) Get(ctx context.Context, id string) (*T, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	doc, err := s.repo.FindByID(ctx, id)
	return doc, mapErr(err)
}

func (s *resourceService[T, PT]) Create(ctx context.Context, doc *T) (*T, error) {
	in := new(T)
	if doc != nil {
		*in = *doc
	}
	PT(in).SetID("")
	return s.repo.Create(ctx, in)
}

func (s *resourceService[T, PT]) Update(ctx context.Context, id string, payload map[string]any) (*T, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	fields, err := s.schema.Cast(payload)
	if err != nil {
		return nil, err
	}
	doc, err := s.repo.Update(ctx, id, fields)
	return doc, mapErr(err)
}

func (s *resourceService[T, PT]) Delete(ctx context.Context, id string) (*T, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	doc, err := s.repo.Delete(ctx, id)
	return doc, mapErr(err)
}

func mapErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
