// Package search composes faceted queries against the document store and
// returns projects and users as one ordered result list.
package search

import (
	"context"
	"strings"

	"collabhub/database/docstore"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	fieldSkills       = "skills"
	fieldCategory     = "category"
	fieldLanguages    = "languages"
	fieldAvailability = "availability"
	fieldCreatedAt    = "createdAt"
)

// Composer runs searches. It holds no per-search state and is safe for
// concurrent use.
type Composer struct {
	store        docstore.Store
	logger       *zap.Logger
	defaultLimit int
	maxLimit     int
}

func NewComposer(store docstore.Store, logger *zap.Logger, defaultLimit, maxLimit int) *Composer {
	if defaultLimit <= 0 {
		defaultLimit = 20
	}
	if maxLimit < defaultLimit {
		maxLimit = defaultLimit
	}
	return &Composer{store: store, logger: logger, defaultLimit: defaultLimit, maxLimit: maxLimit}
}

func (c *Composer) limit(requested int) int {
	switch {
	case requested <= 0:
		return c.defaultLimit
	case requested > c.maxLimit:
		return c.maxLimit
	}
	return requested
}

// ProjectConstraints builds the project query for f.
func ProjectConstraints(f Filters, limit int) []docstore.Constraint {
	var cs []docstore.Constraint
	if skills := cleanValues(f.Skills); len(skills) > 0 {
		cs = append(cs, docstore.Where(fieldSkills, docstore.OpArrayContainsAny, skills))
	}
	if types := cleanValues(f.ProjectTypes); len(types) > 0 {
		cs = append(cs, docstore.Where(fieldCategory, docstore.OpIn, types))
	}
	return append(cs, docstore.OrderBy(fieldCreatedAt, docstore.Desc), docstore.Limit(limit))
}

// UserConstraints builds the user query for f.
func UserConstraints(f Filters, limit int) []docstore.Constraint {
	var cs []docstore.Constraint
	if skills := cleanValues(f.Skills); len(skills) > 0 {
		cs = append(cs, docstore.Where(fieldSkills, docstore.OpArrayContainsAny, skills))
	}
	if langs := cleanValues(f.Languages); len(langs) > 0 {
		cs = append(cs, docstore.Where(fieldLanguages, docstore.OpArrayContainsAny, langs))
	}
	if a := strings.TrimSpace(f.Availability); a != "" && !strings.EqualFold(a, AvailabilityAny) {
		cs = append(cs, docstore.Where(fieldAvailability, docstore.OpEqual, a))
	}
	return append(cs, docstore.OrderBy(fieldCreatedAt, docstore.Desc), docstore.Limit(limit))
}

// cleanValues drops blanks and duplicates, keeping first-seen order.
func cleanValues(values []string) []any {
	seen := make(map[string]struct{}, len(values))
	out := make([]any, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Search returns projects then users matching f. Within each kind the
// store's createdAt-descending order is preserved. Any store error fails the
// whole search and is returned as is. An unknown Kind is rejected before
// any query runs.
func (c *Composer) Search(ctx context.Context, f Filters) ([]Result, error) {
	kind, err := ParseKind(string(f.Kind))
	if err != nil {
		return nil, err
	}
	f.Kind = kind
	limit := c.limit(f.Limit)
	q := f.normalizedQuery()

	var projects, users []Result
	g, gctx := errgroup.WithContext(ctx)

	if f.wantsProjects() {
		g.Go(func() error {
			recs, err := c.store.Query(gctx, docstore.ProjectsCollection, ProjectConstraints(f, limit)...)
			if err != nil {
				return err
			}
			for _, rec := range recs {
				p := projectFromRecord(rec)
				if q != "" && !p.matchesText(q) {
					continue
				}
				projects = append(projects, Result{Kind: KindProject, Project: p})
			}
			return nil
		})
	}
	if f.wantsUsers() {
		g.Go(func() error {
			recs, err := c.store.Query(gctx, docstore.UsersCollection, UserConstraints(f, limit)...)
			if err != nil {
				return err
			}
			for _, rec := range recs {
				u := userFromRecord(rec)
				if q != "" && !u.matchesText(q) {
					continue
				}
				users = append(users, Result{Kind: KindUser, User: u})
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		c.logger.Warn("Search failed", zap.String("kind", string(f.Kind)), zap.Error(err))
		return nil, err
	}

	results := make([]Result, 0, len(projects)+len(users))
	results = append(results, projects...)
	results = append(results, users...)
	c.logger.Debug("Search completed",
		zap.String("kind", string(f.Kind)),
		zap.Int("projects", len(projects)),
		zap.Int("users", len(users)))
	return results, nil
}
