package docstore

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStore implements Store on Cloud Firestore.
//
// Firestore accepts a single disjunctive filter (in, array-contains,
// array-contains-any) per query. The first one is pushed down; any further
// ones are evaluated in memory while streaming, and the limit is then applied
// client side so residual filtering never shortens a page.
type FirestoreStore struct {
	client *firestore.Client
}

func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

// splitFilters separates the filters Firestore can run from the residual ones.
func splitFilters(filters []Constraint) (pushed, residual []Constraint) {
	disjunctive := false
	for _, f := range filters {
		multi := f.Disjunctive() || f.Op == OpArrayContains
		if multi && disjunctive {
			residual = append(residual, f)
			continue
		}
		if multi {
			disjunctive = true
		}
		pushed = append(pushed, f)
	}
	return pushed, residual
}

func firestorePath(field string) string {
	if field == IDField {
		return firestore.DocumentID
	}
	return field
}

func (s *FirestoreStore) Query(ctx context.Context, collection string, constraints ...Constraint) ([]Record, error) {
	q, err := Compile(constraints)
	if err != nil {
		return nil, err
	}
	pushed, residual := splitFilters(q.Filters)

	fq := s.client.Collection(collection).Query
	for _, f := range pushed {
		value := f.Value
		if f.Disjunctive() {
			value, _ = toSlice(f.Value)
		}
		fq = fq.Where(firestorePath(f.Field), string(f.Op), value)
	}
	hasID := false
	for _, o := range q.Orders {
		dir := firestore.Asc
		if o.Direction == Desc {
			dir = firestore.Desc
		}
		if o.Field == IDField {
			hasID = true
		}
		fq = fq.OrderBy(firestorePath(o.Field), dir)
	}
	if !hasID {
		fq = fq.OrderBy(firestore.DocumentID, firestore.Asc)
	}
	if q.Limit > 0 && len(residual) == 0 {
		fq = fq.Limit(q.Limit)
	}

	iter := fq.Documents(ctx)
	defer iter.Stop()

	var records []Record
	for {
		if q.Limit > 0 && len(records) >= q.Limit {
			break
		}
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to query %s: %w", collection, err)
		}
		rec := fromSnapshot(snap)
		if MatchesAll(rec, residual) {
			records = append(records, rec)
		}
	}
	return records, nil
}

func (s *FirestoreStore) Get(ctx context.Context, collection, id string) (Record, error) {
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s/%s: %w", collection, id, err)
	}
	return fromSnapshot(snap), nil
}

func (s *FirestoreStore) Set(ctx context.Context, collection, id string, doc Record) error {
	body := make(map[string]any, len(doc))
	for k, v := range doc {
		if k != IDField {
			body[k] = v
		}
	}
	if _, err := s.client.Collection(collection).Doc(id).Set(ctx, body); err != nil {
		return fmt.Errorf("failed to write %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *FirestoreStore) Delete(ctx context.Context, collection, id string) error {
	_, err := s.client.Collection(collection).Doc(id).Delete(ctx, firestore.Exists)
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", collection, id, err)
	}
	return nil
}

// Ping reads a single collection reference page; Firestore has no native ping.
func (s *FirestoreStore) Ping(ctx context.Context) error {
	iter := s.client.Collections(ctx)
	_, err := iter.Next()
	if err != nil && !errors.Is(err, iterator.Done) {
		return err
	}
	return nil
}

func fromSnapshot(snap *firestore.DocumentSnapshot) Record {
	rec := Record(snap.Data())
	if rec == nil {
		rec = Record{}
	}
	rec[IDField] = snap.Ref.ID
	return rec
}
