package search

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"collabhub/database/docstore"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectFromRecord_Malformed(t *testing.T) {
	rec := docstore.Record{
		"id":        "p9",
		"title":     42,
		"skills":    "React",
		"members":   []any{"u1", nil, 7},
		"owner":     map[string]any{"id": "u1"},
		"createdAt": "2025-03-01T09:00:00Z",
	}

	want := &ProjectResult{
		ID:            "p9",
		Title:         "42",
		Status:        "open",
		Skills:        []string{},
		Members:       []string{"u1", "7"},
		Phase:         "idea",
		Category:      "other",
		Visibility:    "public",
		RequiredRoles: []string{},
		CreatedAt:     time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	if diff := cmp.Diff(want, projectFromRecord(rec)); diff != "" {
		t.Errorf("projectFromRecord mismatch (-want +got):\n%s", diff)
	}
}

func TestUserFromRecord_AvatarFallbacks(t *testing.T) {
	tests := []struct {
		name string
		rec  docstore.Record
		want string
	}{
		{"avatar wins", docstore.Record{"avatar": "a", "photoURL": "b"}, "a"},
		{"empty avatar skipped", docstore.Record{"avatar": "", "photoUrl": "c"}, "c"},
		{"profile picture", docstore.Record{"profilePicture": "d", "avatarUrl": "e"}, "d"},
		{"last resort", docstore.Record{"avatarUrl": "e"}, "e"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := userFromRecord(tt.rec)
			require.NotNil(t, u.Avatar)
			assert.Equal(t, tt.want, *u.Avatar)
		})
	}

	assert.Nil(t, userFromRecord(docstore.Record{"avatar": ""}).Avatar)
}

func TestUserFromRecord_Fields(t *testing.T) {
	u := userFromRecord(docstore.Record{
		"id":                  "u7",
		"fullName":            "Dana",
		"country":             "Kenya",
		"experienceLevel":     "senior",
		"weeklyAvailability":  "25",
		"socialLinks":         map[string]any{"github": "dana", "x": ""},
		"stats":               map[string]any{"projectsCompleted": 3, "rating": 4.5},
		"collaborationStyles": []string{"async"},
	})

	assert.Equal(t, "Dana", u.Name)
	assert.Equal(t, "Kenya", u.Location)
	assert.Equal(t, "senior", u.Experience)
	assert.Equal(t, 25, u.WeeklyAvailability)
	assert.Equal(t, map[string]string{"github": "dana"}, u.SocialLinks)
	assert.Equal(t, UserStats{ProjectsCompleted: 3, Rating: 4.5}, u.Stats)
	assert.Equal(t, []string{"async"}, u.CollaborationStyles)
	assert.Equal(t, []string{}, u.Languages)
	assert.True(t, u.CreatedAt.IsZero())
}

func TestUserFromRecord_NonFiniteRating(t *testing.T) {
	for _, rating := range []any{"NaN", math.NaN(), math.Inf(1), math.Inf(-1), "Inf", "bogus"} {
		u := userFromRecord(docstore.Record{"id": "u2", "stats": map[string]any{"rating": rating, "collaborations": 2}})
		assert.Zero(t, u.Stats.Rating, "rating %v", rating)
		assert.Equal(t, 2, u.Stats.Collaborations)

		_, err := json.Marshal(u)
		assert.NoError(t, err, "rating %v", rating)
	}
}
