package search

import (
	"math"
	"time"

	"collabhub/database/docstore"
	"collabhub/models"

	"github.com/spf13/cast"
)

// avatarFields lists the keys an avatar has been stored under, newest first.
var avatarFields = []string{"avatar", "photoURL", "photoUrl", "profilePicture", "profileImage", "avatarUrl"}

// Ingestion never fails: anything missing or of the wrong type takes its default.

func str(rec docstore.Record, key string) string {
	v, ok := rec[key]
	if !ok || v == nil {
		return ""
	}
	switch v.(type) {
	case map[string]any, []any, []string:
		return ""
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return ""
	}
	return s
}

func strOr(rec docstore.Record, def string, keys ...string) string {
	for _, key := range keys {
		if s := str(rec, key); s != "" {
			return s
		}
	}
	return def
}

func strs(rec docstore.Record, key string) []string {
	out := []string{}
	switch v := rec[key].(type) {
	case []string:
		for _, s := range v {
			if s != "" {
				out = append(out, s)
			}
		}
	case []any:
		for _, e := range v {
			if e == nil {
				continue
			}
			if s, err := cast.ToStringE(e); err == nil && s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

func integer(rec docstore.Record, key string) int {
	n, err := cast.ToIntE(rec[key])
	if err != nil {
		return 0
	}
	return n
}

// number coerces to a finite float; NaN and ±Inf cannot be encoded as JSON.
func number(v any) float64 {
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func timestamp(rec docstore.Record, key string) time.Time {
	t, err := cast.ToTimeE(rec[key])
	if err != nil {
		return time.Time{}
	}
	return t
}

func projectFromRecord(rec docstore.Record) *ProjectResult {
	return &ProjectResult{
		ID:            rec.ID(),
		Title:         str(rec, "title"),
		Description:   str(rec, "description"),
		CoverImage:    str(rec, "coverImage"),
		Status:        strOr(rec, models.DefaultProjectStatus, "status"),
		Skills:        strs(rec, "skills"),
		Owner:         strOr(rec, "", "ownerId", "owner"),
		Members:       strs(rec, "members"),
		Phase:         strOr(rec, models.DefaultProjectPhase, "phase"),
		Category:      strOr(rec, models.DefaultProjectCategory, "category"),
		Visibility:    strOr(rec, models.DefaultProjectVisibility, "visibility"),
		RequiredRoles: strs(rec, "requiredRoles"),
		CreatedAt:     timestamp(rec, "createdAt"),
	}
}

func userFromRecord(rec docstore.Record) *UserResult {
	var avatar *string
	if s := strOr(rec, "", avatarFields...); s != "" {
		avatar = &s
	}

	links := map[string]string{}
	if m, err := cast.ToStringMapStringE(rec["socialLinks"]); err == nil {
		for k, v := range m {
			if v != "" {
				links[k] = v
			}
		}
	}

	var stats UserStats
	if m, err := cast.ToStringMapE(rec["stats"]); err == nil {
		stats.ProjectsCompleted = cast.ToInt(m["projectsCompleted"])
		stats.Collaborations = cast.ToInt(m["collaborations"])
		stats.Rating = number(m["rating"])
	}

	return &UserResult{
		ID:                  rec.ID(),
		Name:                strOr(rec, "", "fullName", "displayName", "name"),
		Bio:                 str(rec, "bio"),
		Avatar:              avatar,
		Skills:              strs(rec, "skills"),
		Availability:        str(rec, "availability"),
		Location:            strOr(rec, "", "location", "country"),
		ProfessionalTitle:   str(rec, "professionalTitle"),
		Experience:          strOr(rec, "", "experienceLevel", "experience"),
		Languages:           strs(rec, "languages"),
		CollaborationStyles: strs(rec, "collaborationStyles"),
		WeeklyAvailability:  integer(rec, "weeklyAvailability"),
		SocialLinks:         links,
		Stats:               stats,
		CreatedAt:           timestamp(rec, "createdAt"),
	}
}
