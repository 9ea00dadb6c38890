package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/quiethour/quiethour/internal/devotion"
)

// DefaultCollection is the collection holding devotion documents.
const DefaultCollection = "devotions"

// Store implements devotion.Store on a MongoDB collection.
// Documents are keyed by date string via _id, which gives the per-document
// atomicity and last-writer-wins semantics the repository relies on.
type Store struct {
	coll *mongo.Collection
}

// NewStore creates a devotion store over the named collection.
func NewStore(db *mongo.Database, collection string) *Store {
	if collection == "" {
		collection = DefaultCollection
	}
	return &Store{coll: db.Collection(collection)}
}

func (s *Store) Get(ctx context.Context, date string) (devotion.Record, error) {
	var doc bson.M
	err := s.coll.FindOne(ctx, bson.M{"_id": date}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, devotion.ErrNotFound
		}
		return nil, errors.Join(devotion.ErrStorageUnavailable, err)
	}

	rec := toRecord(doc)
	delete(rec, "_id")
	rec[devotion.FieldDate] = date
	return rec, nil
}

func (s *Store) Put(ctx context.Context, date string, rec devotion.Record) error {
	doc := bson.M(rec.Clone())
	doc["_id"] = date

	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": date}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Join(devotion.ErrStorageUnavailable, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, date string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": date})
	if err != nil {
		return errors.Join(devotion.ErrStorageUnavailable, err)
	}
	if res.DeletedCount == 0 {
		return devotion.ErrNotFound
	}
	return nil
}

func (s *Store) Dates(ctx context.Context) ([]string, error) {
	cursor, err := s.coll.Find(ctx, bson.M{},
		options.Find().SetProjection(bson.M{"_id": 1}).SetSort(bson.M{"_id": 1}))
	if err != nil {
		return nil, errors.Join(devotion.ErrStorageUnavailable, err)
	}
	defer cursor.Close(ctx)

	var dates []string
	for cursor.Next(ctx) {
		var doc struct {
			ID string `bson:"_id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, errors.Join(devotion.ErrStorageUnavailable, err)
		}
		dates = append(dates, doc.ID)
	}
	if err := cursor.Err(); err != nil {
		return nil, errors.Join(devotion.ErrStorageUnavailable, err)
	}

	if dates == nil {
		dates = []string{}
	}
	return dates, nil
}

// toRecord converts decoded BSON values to plain Go maps and slices, so the
// domain layer never sees driver types.
func toRecord(doc bson.M) devotion.Record {
	rec := make(devotion.Record, len(doc))
	for k, v := range doc {
		rec[k] = fromBSON(v)
	}
	return rec
}

func fromBSON(v any) any {
	switch t := v.(type) {
	case bson.M:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[k] = fromBSON(e)
		}
		return m
	case bson.D:
		m := make(map[string]any, len(t))
		for _, e := range t {
			m[e.Key] = fromBSON(e.Value)
		}
		return m
	case bson.A:
		a := make([]any, len(t))
		for i, e := range t {
			a[i] = fromBSON(e)
		}
		return a
	case []any:
		a := make([]any, len(t))
		for i, e := range t {
			a[i] = fromBSON(e)
		}
		return a
	default:
		return v
	}
}
