package search

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"collabhub/database/docstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var base = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func seedStore(t *testing.T) *docstore.MemoryStore {
	t.Helper()
	ctx := context.Background()
	s := docstore.NewMemoryStore()

	projects := []docstore.Record{
		{"id": "p1", "title": "Login flow redesign", "skills": []string{"React"}, "category": "web", "status": "active", "createdAt": base},
		{"id": "p2", "title": "Auth service", "description": "Token based login for mobile clients", "skills": []string{"Go"}, "category": "api", "createdAt": base.Add(time.Hour)},
		{"id": "p3", "title": "Design system", "skills": []any{"Vue"}, "category": "web", "createdAt": base.Add(2 * time.Hour)},
	}
	for _, p := range projects {
		require.NoError(t, s.Set(ctx, docstore.ProjectsCollection, p.ID(), p))
	}

	users := []docstore.Record{
		{"id": "u1", "fullName": "Ana Ruiz", "photoURL": "https://img/ana.png", "skills": []string{"React"}, "languages": []string{"English"}, "availability": "full-time", "createdAt": base},
		{"id": "u2", "displayName": "Bo", "skills": []string{"Go"}, "languages": []string{"Spanish"}, "availability": "part-time", "createdAt": base.Add(time.Hour)},
		{"id": "u3", "name": "Chen", "bio": "Login and identity expert", "skills": []string{"React"}, "languages": []string{"Spanish"}, "availability": "part-time", "createdAt": base.Add(2 * time.Hour)},
	}
	for _, u := range users {
		require.NoError(t, s.Set(ctx, docstore.UsersCollection, u.ID(), u))
	}
	return s
}

func resultIDs(results []Result) []string {
	out := make([]string, 0, len(results))
	for _, r := range results {
		switch r.Kind {
		case KindProject:
			out = append(out, r.Project.ID)
		case KindUser:
			out = append(out, r.User.ID)
		}
	}
	return out
}

func TestComposer_Search(t *testing.T) {
	c := NewComposer(seedStore(t), zap.NewNop(), 20, 100)
	ctx := context.Background()

	tests := []struct {
		name    string
		filters Filters
		want    []string
	}{
		{
			name:    "no filters returns projects then users newest first",
			filters: Filters{},
			want:    []string{"p3", "p2", "p1", "u3", "u2", "u1"},
		},
		{
			name:    "skills are ORed",
			filters: Filters{Kind: KindProject, Skills: []string{"React", "Vue"}},
			want:    []string{"p3", "p1"},
		},
		{
			name:    "project types filter the category",
			filters: Filters{Kind: KindProject, ProjectTypes: []string{"api"}},
			want:    []string{"p2"},
		},
		{
			name:    "project facets are ANDed",
			filters: Filters{Kind: KindProject, Skills: []string{"React"}, ProjectTypes: []string{"mobile"}},
			want:    []string{},
		},
		{
			name:    "project skill and type both match",
			filters: Filters{Kind: KindProject, Skills: []string{"React", "Go"}, ProjectTypes: []string{"web"}},
			want:    []string{"p1"},
		},
		{
			name:    "facets are ANDed",
			filters: Filters{Kind: KindUser, Skills: []string{"React"}, Languages: []string{"Spanish"}},
			want:    []string{"u3"},
		},
		{
			name:    "availability any imposes nothing",
			filters: Filters{Kind: KindUser, Availability: AvailabilityAny},
			want:    []string{"u3", "u2", "u1"},
		},
		{
			name:    "availability equality",
			filters: Filters{Kind: KindUser, Availability: "full-time"},
			want:    []string{"u1"},
		},
		{
			name:    "free text is trimmed and case-insensitive",
			filters: Filters{Query: "  LOGIN "},
			want:    []string{"p2", "p1", "u3"},
		},
		{
			name:    "skills facet spans both kinds",
			filters: Filters{Skills: []string{"Go"}},
			want:    []string{"p2", "u2"},
		},
		{
			name:    "limit applies per kind",
			filters: Filters{Limit: 1},
			want:    []string{"p3", "u3"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Search(ctx, tt.filters)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resultIDs(got))
		})
	}
}

func TestComposer_Search_Defaults(t *testing.T) {
	c := NewComposer(seedStore(t), zap.NewNop(), 20, 100)

	got, err := c.Search(context.Background(), Filters{})
	require.NoError(t, err)
	require.Len(t, got, 6)

	p3 := got[0].Project
	require.NotNil(t, p3)
	assert.Nil(t, got[0].User)
	assert.Equal(t, "open", p3.Status)
	assert.Equal(t, "idea", p3.Phase)
	assert.Equal(t, "web", p3.Category)
	assert.Equal(t, "public", p3.Visibility)
	assert.Equal(t, []string{"Vue"}, p3.Skills)
	assert.Empty(t, p3.Members)
	assert.NotNil(t, p3.Members)

	p1 := got[2].Project
	assert.Equal(t, "active", p1.Status)

	u3, u2, u1 := got[3].User, got[4].User, got[5].User
	assert.Equal(t, "Chen", u3.Name)
	assert.Equal(t, "Bo", u2.Name)
	assert.Nil(t, u2.Avatar)
	require.NotNil(t, u1.Avatar)
	assert.Equal(t, "https://img/ana.png", *u1.Avatar)
	assert.Equal(t, "Ana Ruiz", u1.Name)
}

func TestComposer_Search_UnknownKind(t *testing.T) {
	store := &recordingStore{}
	c := NewComposer(store, zap.NewNop(), 20, 100)

	got, err := c.Search(context.Background(), Filters{Kind: "teams"})
	assert.Nil(t, got)
	assert.ErrorIs(t, err, ErrUnknownKind)
	assert.Empty(t, store.calls)

	got, err = c.Search(context.Background(), Filters{Kind: "Users"})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, 20, store.limitFor(docstore.UsersCollection))
	assert.Equal(t, -1, store.limitFor(docstore.ProjectsCollection))
}

type failingStore struct {
	docstore.Store
	err error
}

func (s failingStore) Query(ctx context.Context, collection string, _ ...docstore.Constraint) ([]docstore.Record, error) {
	if collection == docstore.UsersCollection {
		return nil, s.err
	}
	return nil, nil
}

func TestComposer_Search_PropagatesStoreError(t *testing.T) {
	boom := errors.New("permission denied")
	c := NewComposer(failingStore{err: boom}, zap.NewNop(), 20, 100)

	got, err := c.Search(context.Background(), Filters{})
	assert.Nil(t, got)
	assert.Same(t, boom, err)

	got, err = c.Search(context.Background(), Filters{Kind: KindProject})
	require.NoError(t, err)
	assert.Empty(t, got)
}

type recordingStore struct {
	docstore.Store
	mu    sync.Mutex
	calls map[string][]docstore.Constraint
}

func (s *recordingStore) Query(_ context.Context, collection string, cs ...docstore.Constraint) ([]docstore.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.calls == nil {
		s.calls = map[string][]docstore.Constraint{}
	}
	s.calls[collection] = cs
	return nil, nil
}

func (s *recordingStore) limitFor(collection string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.calls[collection] {
		if c.Kind == docstore.KindLimit {
			return c.N
		}
	}
	return -1
}

func TestComposer_Search_Limit(t *testing.T) {
	tests := []struct {
		requested, want int
	}{
		{0, 20},
		{-3, 20},
		{7, 7},
		{500, 100},
	}
	for _, tt := range tests {
		store := &recordingStore{}
		c := NewComposer(store, zap.NewNop(), 20, 100)
		_, err := c.Search(context.Background(), Filters{Limit: tt.requested})
		require.NoError(t, err)
		assert.Equal(t, tt.want, store.limitFor(docstore.ProjectsCollection), "requested %d", tt.requested)
		assert.Equal(t, tt.want, store.limitFor(docstore.UsersCollection), "requested %d", tt.requested)
	}
}

func TestUserConstraints(t *testing.T) {
	cs := UserConstraints(Filters{
		Skills:       []string{"Go", " ", "Go"},
		Languages:    []string{"English"},
		Availability: "part-time",
	}, 10)

	require.Len(t, cs, 5)
	assert.Equal(t, docstore.Where("skills", docstore.OpArrayContainsAny, []any{"Go"}), cs[0])
	assert.Equal(t, docstore.Where("languages", docstore.OpArrayContainsAny, []any{"English"}), cs[1])
	assert.Equal(t, docstore.Where("availability", docstore.OpEqual, "part-time"), cs[2])
	assert.Equal(t, docstore.OrderBy("createdAt", docstore.Desc), cs[3])
	assert.Equal(t, docstore.Limit(10), cs[4])
}

func TestParseKind(t *testing.T) {
	for in, want := range map[string]Kind{"": KindAll, "all": KindAll, "Projects": KindProject, "user": KindUser} {
		got, err := ParseKind(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseKind("teams")
	assert.ErrorIs(t, err, ErrUnknownKind)
}
