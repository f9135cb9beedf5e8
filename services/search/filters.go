package search

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownKind is returned for a result kind other than all, project or user.
var ErrUnknownKind = errors.New("unknown result kind")

// Kind selects which result types a search returns.
type Kind string

const (
	KindAll     Kind = "all"
	KindProject Kind = "project"
	KindUser    Kind = "user"
)

// ParseKind accepts "", "all", "project"/"projects" and "user"/"users".
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return KindAll, nil
	case "project", "projects":
		return KindProject, nil
	case "user", "users":
		return KindUser, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownKind, s)
}

// AvailabilityAny disables the availability facet.
const AvailabilityAny = "any"

// Filters is one search request. Set-valued facets are ORed internally and
// ANDed with each other; an empty facet imposes no constraint.
type Filters struct {
	Kind         Kind
	Query        string
	Skills       []string
	ProjectTypes []string
	Languages    []string
	Availability string
	// Limit caps each kind's result count; <= 0 means the default.
	Limit int
}

func (f Filters) wantsProjects() bool { return f.Kind == KindAll || f.Kind == KindProject }
func (f Filters) wantsUsers() bool    { return f.Kind == KindAll || f.Kind == KindUser }

// normalizedQuery is the lower-cased free text, or "" when it matches everything.
func (f Filters) normalizedQuery() string {
	return strings.ToLower(strings.TrimSpace(f.Query))
}
