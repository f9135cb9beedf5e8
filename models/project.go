package models

import "time"

// Project defaults applied wherever a value is missing.
const (
	DefaultProjectStatus     = "open"
	DefaultProjectPhase      = "idea"
	DefaultProjectCategory   = "other"
	DefaultProjectVisibility = "public"
)

// Project is the document stored in the projects collection.
type Project struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	CoverImage    string    `json:"coverImage"`
	Status        string    `json:"status"`
	Skills        []string  `json:"skills"`
	OwnerID       string    `json:"ownerId"`
	Members       []string  `json:"members"`
	Phase         string    `json:"phase"`
	Category      string    `json:"category"`
	Visibility    string    `json:"visibility"`
	RequiredRoles []string  `json:"requiredRoles"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ApplyDefaults fills every empty optional field.
func (p *Project) ApplyDefaults() {
	if p.Status == "" {
		p.Status = DefaultProjectStatus
	}
	if p.Phase == "" {
		p.Phase = DefaultProjectPhase
	}
	if p.Category == "" {
		p.Category = DefaultProjectCategory
	}
	if p.Visibility == "" {
		p.Visibility = DefaultProjectVisibility
	}
	p.Skills = nonNil(p.Skills)
	p.Members = nonNil(p.Members)
	p.RequiredRoles = nonNil(p.RequiredRoles)
}

// Fields returns the project as a document body.
func (p Project) Fields() map[string]any {
	return map[string]any{
		"title":         p.Title,
		"description":   p.Description,
		"coverImage":    p.CoverImage,
		"status":        p.Status,
		"skills":        nonNil(p.Skills),
		"ownerId":       p.OwnerID,
		"members":       nonNil(p.Members),
		"phase":         p.Phase,
		"category":      p.Category,
		"visibility":    p.Visibility,
		"requiredRoles": nonNil(p.RequiredRoles),
		"createdAt":     p.CreatedAt,
		"updatedAt":     p.UpdatedAt,
	}
}
