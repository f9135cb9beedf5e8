// models/user.go
package models

import (
	"strings"
	"time"
)

// Availability buckets derived from weekly hours.
const (
	AvailabilityFullTime   = "full-time"
	AvailabilityPartTime   = "part-time"
	AvailabilityOccasional = "occasional"
)

// AvailabilityForHours maps weekly availability hours to the bucket used by
// the search availability facet.
func AvailabilityForHours(hours int) string {
	switch {
	case hours >= 30:
		return AvailabilityFullTime
	case hours >= 10:
		return AvailabilityPartTime
	default:
		return AvailabilityOccasional
	}
}

// UserProfile is the document stored in the users collection.
type UserProfile struct {
	ID                  string    `json:"id"`
	Email               string    `json:"email"`
	FullName            string    `json:"fullName"`
	ProfessionalTitle   string    `json:"professionalTitle"`
	Bio                 string    `json:"bio"`
	Skills              []string  `json:"skills"`
	ExperienceLevel     string    `json:"experienceLevel"`
	YearsOfExperience   int       `json:"yearsOfExperience"`
	ProfilePicture      string    `json:"profilePicture,omitempty"`
	ProfileEmoji        string    `json:"profileEmoji,omitempty"`
	ProfileColor        string    `json:"profileColor,omitempty"`
	ProjectPreferences  []string  `json:"projectPreferences"`
	CollaborationStyles []string  `json:"collaborationStyles"`
	Languages           []string  `json:"languages"`
	Location            string    `json:"location"`
	WeeklyAvailability  int       `json:"weeklyAvailability"`
	Availability        string    `json:"availability"`
	PasswordHash        string    `json:"-"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// ProfileFromRegistration builds the profile document from a completed record.
// Credentials are not copied.
func ProfileFromRegistration(r RegistrationRecord) UserProfile {
	return UserProfile{
		Email:               strings.ToLower(strings.TrimSpace(r.Email)),
		FullName:            strings.TrimSpace(r.FullName),
		ProfessionalTitle:   strings.TrimSpace(r.ProfessionalTitle),
		Bio:                 r.Bio,
		Skills:              cloneStrings(r.Skills),
		ExperienceLevel:     r.ExperienceLevel,
		YearsOfExperience:   r.YearsOfExperience,
		ProfilePicture:      r.ProfilePicture,
		ProfileEmoji:        r.ProfileEmoji,
		ProfileColor:        r.ProfileColor,
		ProjectPreferences:  cloneStrings(r.ProjectPreferences),
		CollaborationStyles: cloneStrings(r.CollaborationStyles),
		Languages:           cloneStrings(r.Languages),
		Location:            r.Country,
		WeeklyAvailability:  r.WeeklyAvailability,
		Availability:        AvailabilityForHours(r.WeeklyAvailability),
	}
}

// Fields returns the profile as a document body. The password hash is
// included only when set.
func (u UserProfile) Fields() map[string]any {
	doc := map[string]any{
		"email":               u.Email,
		"fullName":            u.FullName,
		"professionalTitle":   u.ProfessionalTitle,
		"bio":                 u.Bio,
		"skills":              nonNil(u.Skills),
		"experienceLevel":     u.ExperienceLevel,
		"yearsOfExperience":   u.YearsOfExperience,
		"profilePicture":      u.ProfilePicture,
		"profileEmoji":        u.ProfileEmoji,
		"profileColor":        u.ProfileColor,
		"projectPreferences":  nonNil(u.ProjectPreferences),
		"collaborationStyles": nonNil(u.CollaborationStyles),
		"languages":           nonNil(u.Languages),
		"location":            u.Location,
		"weeklyAvailability":  u.WeeklyAvailability,
		"availability":        u.Availability,
		"createdAt":           u.CreatedAt,
		"updatedAt":           u.UpdatedAt,
	}
	if u.PasswordHash != "" {
		doc["passwordHash"] = u.PasswordHash
	}
	return doc
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
