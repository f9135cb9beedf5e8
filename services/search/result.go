package search

import (
	"strings"
	"time"
)

// Result is a tagged variant: exactly one of Project and User is set,
// according to Kind.
type Result struct {
	Kind    Kind           `json:"kind"`
	Project *ProjectResult `json:"project,omitempty"`
	User    *UserResult    `json:"user,omitempty"`
}

type ProjectResult struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	CoverImage    string    `json:"coverImage"`
	Status        string    `json:"status"`
	Skills        []string  `json:"skills"`
	Owner         string    `json:"owner"`
	Members       []string  `json:"members"`
	Phase         string    `json:"phase"`
	Category      string    `json:"category"`
	Visibility    string    `json:"visibility"`
	RequiredRoles []string  `json:"requiredRoles"`
	CreatedAt     time.Time `json:"createdAt"`
}

type UserStats struct {
	ProjectsCompleted int     `json:"projectsCompleted"`
	Collaborations    int     `json:"collaborations"`
	Rating            float64 `json:"rating"`
}

type UserResult struct {
	ID                  string            `json:"id"`
	Name                string            `json:"name"`
	Bio                 string            `json:"bio"`
	Avatar              *string           `json:"avatar"`
	Skills              []string          `json:"skills"`
	Availability        string            `json:"availability"`
	Location            string            `json:"location"`
	ProfessionalTitle   string            `json:"professionalTitle"`
	Experience          string            `json:"experience"`
	Languages           []string          `json:"languages"`
	CollaborationStyles []string          `json:"collaborationStyles"`
	WeeklyAvailability  int               `json:"weeklyAvailability"`
	SocialLinks         map[string]string `json:"socialLinks"`
	Stats               UserStats         `json:"stats"`
	CreatedAt           time.Time         `json:"createdAt"`
}

func containsText(s, q string) bool {
	return strings.Contains(strings.ToLower(s), q)
}

func anyContainsText(values []string, q string) bool {
	for _, v := range values {
		if containsText(v, q) {
			return true
		}
	}
	return false
}

// matchesText expects q already lower-cased.
func (p *ProjectResult) matchesText(q string) bool {
	return containsText(p.Title, q) ||
		containsText(p.Description, q) ||
		anyContainsText(p.Skills, q) ||
		containsText(p.Category, q)
}

func (u *UserResult) matchesText(q string) bool {
	return containsText(u.Name, q) ||
		containsText(u.Bio, q) ||
		anyContainsText(u.Skills, q) ||
		containsText(u.ProfessionalTitle, q) ||
		containsText(u.Location, q)
}
