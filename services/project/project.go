// Package project manages the projects collection that the search composer
// reads from.
package project

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"collabhub/database/docstore"
	"collabhub/models"

	"github.com/google/uuid"
	"github.com/spf13/cast"
	"go.uber.org/zap"
)

var (
	ErrNotFound     = errors.New("project not found")
	ErrForbidden    = errors.New("only the project owner can do this")
	ErrInvalidInput = errors.New("invalid project")
)

const defaultListLimit = 50

// Input is the caller-supplied part of a project.
type Input struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	CoverImage    string   `json:"coverImage"`
	Status        string   `json:"status"`
	Skills        []string `json:"skills"`
	Phase         string   `json:"phase"`
	Category      string   `json:"category"`
	Visibility    string   `json:"visibility"`
	RequiredRoles []string `json:"requiredRoles"`
}

type Service struct {
	store  docstore.Store
	logger *zap.Logger
	now    func() time.Time
}

func NewService(store docstore.Store, logger *zap.Logger) *Service {
	return &Service{store: store, logger: logger, now: time.Now}
}

// Create stores a new project owned by ownerID. The owner is its first member.
func (s *Service) Create(ctx context.Context, ownerID string, in Input) (*models.Project, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if ownerID == "" {
		return nil, fmt.Errorf("%w: owner is required", ErrInvalidInput)
	}

	now := s.now().UTC()
	p := &models.Project{
		ID:            uuid.New().String(),
		Title:         title,
		Description:   strings.TrimSpace(in.Description),
		CoverImage:    in.CoverImage,
		Status:        in.Status,
		Skills:        in.Skills,
		OwnerID:       ownerID,
		Members:       []string{ownerID},
		Phase:         in.Phase,
		Category:      in.Category,
		Visibility:    in.Visibility,
		RequiredRoles: in.RequiredRoles,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	p.ApplyDefaults()

	if err := s.store.Set(ctx, docstore.ProjectsCollection, p.ID, p.Fields()); err != nil {
		s.logger.Error("Failed to create project", zap.String("owner", ownerID), zap.Error(err))
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	s.logger.Info("Project created", zap.String("id", p.ID), zap.String("owner", ownerID))
	return p, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Project, error) {
	rec, err := s.store.Get(ctx, docstore.ProjectsCollection, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load project %s: %w", id, err)
	}
	return fromRecord(rec), nil
}

// ListByOwner returns the owner's projects, newest first.
func (s *Service) ListByOwner(ctx context.Context, ownerID string, limit int) ([]*models.Project, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	recs, err := s.store.Query(ctx, docstore.ProjectsCollection,
		docstore.Where("ownerId", docstore.OpEqual, ownerID),
		docstore.OrderBy("createdAt", docstore.Desc),
		docstore.Limit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	out := make([]*models.Project, 0, len(recs))
	for _, rec := range recs {
		out = append(out, fromRecord(rec))
	}
	return out, nil
}

// Delete removes a project. Only its owner may delete it.
func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	p, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if p.OwnerID != ownerID {
		return ErrForbidden
	}
	if err := s.store.Delete(ctx, docstore.ProjectsCollection, id); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete project %s: %w", id, err)
	}
	s.logger.Info("Project deleted", zap.String("id", id), zap.String("owner", ownerID))
	return nil
}

func fromRecord(rec docstore.Record) *models.Project {
	p := &models.Project{
		ID:            rec.ID(),
		Title:         cast.ToString(rec["title"]),
		Description:   cast.ToString(rec["description"]),
		CoverImage:    cast.ToString(rec["coverImage"]),
		Status:        cast.ToString(rec["status"]),
		Skills:        cast.ToStringSlice(rec["skills"]),
		OwnerID:       cast.ToString(rec["ownerId"]),
		Members:       cast.ToStringSlice(rec["members"]),
		Phase:         cast.ToString(rec["phase"]),
		Category:      cast.ToString(rec["category"]),
		Visibility:    cast.ToString(rec["visibility"]),
		RequiredRoles: cast.ToStringSlice(rec["requiredRoles"]),
		CreatedAt:     cast.ToTime(rec["createdAt"]),
		UpdatedAt:     cast.ToTime(rec["updatedAt"]),
	}
	p.ApplyDefaults()
	return p
}
