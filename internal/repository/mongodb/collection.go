package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"schoolapi/internal/model"
	"schoolapi/internal/repository"
)

// Collection is a MongoDB implementation of repository.Collection.
// Identifiers are ObjectIDs exposed as 24-character hex strings.
type Collection[T any, PT model.Record[T]] struct {
	coll *mongo.Collection
}

// NewCollection wraps the named collection of db.
func NewCollection[T any, PT model.Record[T]](db *mongo.Database, name string) *Collection[T, PT] {
	return &Collection[T, PT]{coll: db.Collection(name)}
}

// NewStudents returns the students collection.
func NewStudents(db *mongo.Database) *Collection[model.Student, *model.Student] {
	return NewCollection[model.Student](db, "students")
}

// NewTeachers returns the teachers collection.
func NewTeachers(db *mongo.Database) *Collection[model.Teacher, *model.Teacher] {
	return NewCollection[model.Teacher](db, "teachers")
}

var _ repository.Collection[model.Teacher] = (*Collection[model.Teacher, *model.Teacher])(nil)

// List returns all documents sorted by _id, which follows insertion order
// for ObjectIDs generated by this process.
func (r *Collection[T, PT]) List(ctx context.Context) ([]T, error) {
	cur, err := r.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.coll.Name(), err)
	}
	defer cur.Close(ctx)

	items := make([]T, 0)
	for cur.Next(ctx) {
		doc, err := decode[T, PT](cur.Current)
		if err != nil {
			return nil, err
		}
		items = append(items, *doc)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list %s: %w", r.coll.Name(), err)
	}
	return items, nil
}

// FindByID fetches a single document by its ID.
func (r *Collection[T, PT]) FindByID(ctx context.Context, id string) (*T, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	return r.single(r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}), "find")
}

// Create inserts doc under a new ObjectID.
func (r *Collection[T, PT]) Create(ctx context.Context, doc *T) (*T, error) {
	body, err := bson.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode %s document: %w", r.coll.Name(), err)
	}
	var fields bson.D
	if err := bson.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("encode %s document: %w", r.coll.Name(), err)
	}

	oid := primitive.NewObjectID()
	stored := append(bson.D{{Key: "_id", Value: oid}}, fields...)
	if _, err := r.coll.InsertOne(ctx, stored); err != nil {
		return nil, fmt.Errorf("insert %s: %w", r.coll.Name(), err)
	}

	out := *doc
	PT(&out).SetID(oid.Hex())
	return &out, nil
}

// Update applies fields with $set and returns the document after the update.
func (r *Collection[T, PT]) Update(ctx context.Context, id string, fields map[string]any) (*T, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	// An empty $set is rejected by the server.
	if len(fields) == 0 {
		return r.single(r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}), "update")
	}
	res := r.coll.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: oid}},
		bson.D{{Key: "$set", Value: bson.M(fields)}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	return r.single(res, "update")
}

// Delete removes a document and returns it as it was before removal.
func (r *Collection[T, PT]) Delete(ctx context.Context, id string) (*T, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	return r.single(r.coll.FindOneAndDelete(ctx, bson.D{{Key: "_id", Value: oid}}), "delete")
}

func (r *Collection[T, PT]) single(res *mongo.SingleResult, op string) (*T, error) {
	raw, err := res.Raw()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("%s %s: %w", op, r.coll.Name(), err)
	}
	return decode[T, PT](raw)
}

func decode[T any, PT model.Record[T]](raw bson.Raw) (*T, error) {
	var out T
	if err := bson.Unmarshal(raw, PT(&out)); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	if oid, ok := raw.Lookup("_id").ObjectIDOK(); ok {
		PT(&out).SetID(oid.Hex())
	}
	return &out, nil
}
