package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore implements Store on a MongoDB database. Document ids are stored
// in _id and surfaced as Record["id"].
type MongoStore struct {
	db      *mongo.Database
	timeout time.Duration
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db, timeout: 10 * time.Second}
}

func mongoField(field string) string {
	if field == IDField {
		return "_id"
	}
	return field
}

// mongoFilter translates where constraints. array-contains-any and in both
// become $in, which matches array fields element-wise.
func mongoFilter(filters []Constraint) bson.D {
	var conds bson.A
	for _, f := range filters {
		field := mongoField(f.Field)
		switch f.Op {
		case OpEqual, OpArrayContains:
			conds = append(conds, bson.D{{Key: field, Value: f.Value}})
		case OpIn, OpArrayContainsAny:
			values, _ := toSlice(f.Value)
			conds = append(conds, bson.D{{Key: field, Value: bson.D{{Key: "$in", Value: values}}}})
		}
	}
	switch len(conds) {
	case 0:
		return bson.D{}
	case 1:
		return conds[0].(bson.D)
	default:
		return bson.D{{Key: "$and", Value: conds}}
	}
}

func mongoSort(orders []Constraint) bson.D {
	sort := bson.D{}
	hasID := false
	for _, o := range orders {
		dir := 1
		if o.Direction == Desc {
			dir = -1
		}
		field := mongoField(o.Field)
		if field == "_id" {
			hasID = true
		}
		sort = append(sort, bson.E{Key: field, Value: dir})
	}
	if !hasID {
		sort = append(sort, bson.E{Key: "_id", Value: 1})
	}
	return sort
}

func (s *MongoStore) Query(ctx context.Context, collection string, constraints ...Constraint) ([]Record, error) {
	q, err := Compile(constraints)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	opts := options.Find().SetSort(mongoSort(q.Orders))
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}

	cursor, err := s.db.Collection(collection).Find(ctx, mongoFilter(q.Filters), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", collection, err)
	}
	defer cursor.Close(ctx)

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", collection, err)
	}

	records := make([]Record, 0, len(docs))
	for _, d := range docs {
		records = append(records, fromBSON(d))
	}
	return records, nil
}

func (s *MongoStore) Get(ctx context.Context, collection, id string) (Record, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var doc bson.M
	err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s/%s: %w", collection, id, err)
	}
	return fromBSON(doc), nil
}

func (s *MongoStore) Set(ctx context.Context, collection, id string, doc Record) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	body := bson.M{}
	for k, v := range doc {
		if k == IDField {
			continue
		}
		body[k] = v
	}
	body["_id"] = id

	_, err := s.db.Collection(collection).ReplaceOne(ctx, bson.M{"_id": id}, body, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to write %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, collection, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	result, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", collection, id, err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.db.Client().Ping(ctx, nil)
}

func fromBSON(doc bson.M) Record {
	rec := make(Record, len(doc))
	for k, v := range doc {
		if k == "_id" {
			switch id := v.(type) {
			case string:
				rec[IDField] = id
			case primitive.ObjectID:
				rec[IDField] = id.Hex()
			default:
				rec[IDField] = fmt.Sprint(id)
			}
			continue
		}
		rec[k] = normalizeBSON(v)
	}
	return rec
}

func normalizeBSON(v any) any {
	switch t := v.(type) {
	case primitive.DateTime:
		return t.Time().UTC()
	case primitive.ObjectID:
		return t.Hex()
	case primitive.A:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalizeBSON(e)
		}
		return out
	case bson.M:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = normalizeBSON(e)
		}
		return out
	case bson.D:
		out := make(map[string]any, len(t))
		for _, e := range t {
			out[e.Key] = normalizeBSON(e.Value)
		}
		return out
	default:
		return v
	}
}
