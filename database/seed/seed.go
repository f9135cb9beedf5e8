// Package seed fills a document store with sample users and projects for
// local development of the explore page.
package seed

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"collabhub/database/docstore"
	"collabhub/models"

	"golang.org/x/crypto/bcrypt"
)

// DemoPassword is the password of every seeded user.
const DemoPassword = "$Password1234"

var (
	skillPool      = []string{"Go", "React", "Vue", "Swift", "Kotlin", "Python", "Figma", "PostgreSQL", "Rust", "Product"}
	categoryPool   = []string{"web", "mobile", "data", "design", "hardware", "other"}
	languagePool   = []string{"English", "Spanish", "French", "German", "Swahili", "Portuguese"}
	stylePool      = []string{"async", "pairing", "weekly-sync", "mentoring"}
	experiencePool = []string{"junior", "mid", "senior", "expert"}
	countryPool    = []string{"Kenya", "Germany", "Brazil", "India", "Canada", "Spain"}
	phasePool      = []string{"idea", "prototype", "building", "launched"}
)

// Options controls how much data is generated.
type Options struct {
	Users    int
	Projects int
	// Seed makes generation reproducible.
	Seed int64
	// Now is the creation time of the newest document.
	Now time.Time
}

// Result lists the ids that were written.
type Result struct {
	UserIDs    []string
	ProjectIDs []string
}

func pick(r *rand.Rand, pool []string, n int) []string {
	idx := r.Perm(len(pool))
	if n > len(idx) {
		n = len(idx)
	}
	out := make([]string, 0, n)
	for _, i := range idx[:n] {
		out = append(out, pool[i])
	}
	return out
}

// Run writes opts.Users users and opts.Projects projects. Documents are
// spaced one hour apart going back from opts.Now, and each project is owned
// by one of the seeded users.
func Run(ctx context.Context, store docstore.Store, opts Options) (*Result, error) {
	if opts.Users <= 0 {
		return nil, fmt.Errorf("seed: at least one user is required")
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now().UTC()
	}
	r := rand.New(rand.NewSource(opts.Seed))

	hashed, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("seed: failed to hash password: %w", err)
	}

	res := &Result{}
	for i := 1; i <= opts.Users; i++ {
		hours := 1 + r.Intn(40)
		created := opts.Now.Add(-time.Duration(i) * time.Hour)
		u := models.UserProfile{
			ID:                  fmt.Sprintf("user-%d", i),
			Email:               fmt.Sprintf("member_%d@example.com", i),
			FullName:            fmt.Sprintf("Member %d", i),
			ProfessionalTitle:   pick(r, skillPool, 1)[0] + " developer",
			Bio:                 "Sample member created by the seeder.",
			Skills:              pick(r, skillPool, 1+r.Intn(4)),
			ExperienceLevel:     experiencePool[r.Intn(len(experiencePool))],
			YearsOfExperience:   r.Intn(15),
			ProjectPreferences:  pick(r, categoryPool, 1+r.Intn(2)),
			CollaborationStyles: pick(r, stylePool, 1+r.Intn(2)),
			Languages:           pick(r, languagePool, 1+r.Intn(3)),
			Location:            countryPool[r.Intn(len(countryPool))],
			WeeklyAvailability:  hours,
			Availability:        models.AvailabilityForHours(hours),
			PasswordHash:        string(hashed),
			CreatedAt:           created,
			UpdatedAt:           created,
		}
		if err := store.Set(ctx, docstore.UsersCollection, u.ID, u.Fields()); err != nil {
			return res, fmt.Errorf("seed: failed to write %s: %w", u.ID, err)
		}
		res.UserIDs = append(res.UserIDs, u.ID)
	}

	for i := 1; i <= opts.Projects; i++ {
		owner := res.UserIDs[r.Intn(len(res.UserIDs))]
		created := opts.Now.Add(-time.Duration(i) * time.Hour)
		p := models.Project{
			ID:            fmt.Sprintf("project-%d", i),
			Title:         fmt.Sprintf("Sample project %d", i),
			Description:   "Sample project created by the seeder.",
			Skills:        pick(r, skillPool, 1+r.Intn(3)),
			OwnerID:       owner,
			Members:       []string{owner},
			Phase:         phasePool[r.Intn(len(phasePool))],
			Category:      categoryPool[r.Intn(len(categoryPool))],
			RequiredRoles: pick(r, skillPool, r.Intn(2)),
			CreatedAt:     created,
			UpdatedAt:     created,
		}
		p.ApplyDefaults()
		if err := store.Set(ctx, docstore.ProjectsCollection, p.ID, p.Fields()); err != nil {
			return res, fmt.Errorf("seed: failed to write %s: %w", p.ID, err)
		}
		res.ProjectIDs = append(res.ProjectIDs, p.ID)
	}
	return res, nil
}
