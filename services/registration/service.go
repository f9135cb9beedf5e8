package registration

import (
	"context"
	"errors"
	"time"

	"collabhub/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// View is what the API returns for a session. Passwords are never included.
type View struct {
	SessionID string                    `json:"sessionId"`
	Step      Step                      `json:"step"`
	StepName  string                    `json:"stepName"`
	State     State                     `json:"state"`
	Record    models.RegistrationRecord `json:"record"`
	Errors    StepErrors                `json:"errors"`
	Account   *models.Account           `json:"account,omitempty"`
}

// Service runs wizards whose state lives in a SessionStore, so that every
// HTTP call can resume the same registration.
type Service struct {
	Store         SessionStore
	Creator       AccountCreator
	Logger        *zap.Logger
	SubmitTimeout time.Duration
}

func NewService(store SessionStore, creator AccountCreator, logger *zap.Logger) *Service {
	return &Service{
		Store:         store,
		Creator:       creator,
		Logger:        logger,
		SubmitTimeout: 20 * time.Second,
	}
}

func (s *Service) view(sessionID string, w *Wizard) *View {
	snap := w.Snapshot()
	return &View{
		SessionID: sessionID,
		Step:      snap.Step,
		StepName:  snap.Step.String(),
		State:     snap.State,
		Record:    snap.Record.Redacted(),
		Errors:    snap.Errors,
		Account:   snap.Account,
	}
}

// Start creates an empty session on the first step.
func (s *Service) Start(ctx context.Context) (*View, error) {
	sessionID := uuid.NewString()
	w := NewWizard(s.Creator, s.Logger)
	if err := s.Store.Save(ctx, sessionID, w.Snapshot()); err != nil {
		return nil, err
	}
	return s.view(sessionID, w), nil
}

func (s *Service) Get(ctx context.Context, sessionID string) (*View, error) {
	snap, err := s.Store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.view(sessionID, RestoreWizard(snap, s.Creator, s.Logger)), nil
}

func (s *Service) Update(ctx context.Context, sessionID string, patch models.RegistrationPatch) (*View, error) {
	return s.mutate(ctx, sessionID, func(w *Wizard) error {
		return w.UpdateFields(patch)
	})
}

// Next advances the session; validation problems are reported in View.Errors.
func (s *Service) Next(ctx context.Context, sessionID string) (*View, error) {
	return s.mutate(ctx, sessionID, func(w *Wizard) error {
		submitCtx, cancel := context.WithTimeout(ctx, s.SubmitTimeout)
		defer cancel()
		_, err := w.Next(submitCtx)
		return err
	})
}

func (s *Service) Back(ctx context.Context, sessionID string) (*View, error) {
	return s.mutate(ctx, sessionID, func(w *Wizard) error {
		return w.Back()
	})
}

// mutate runs fn on the session under its lock and persists the outcome. A
// submitted session is dropped from the store once its view is built.
func (s *Service) mutate(ctx context.Context, sessionID string, fn func(w *Wizard) error) (*View, error) {
	unlock, err := s.Store.Lock(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	snap, err := s.Store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	w := RestoreWizard(snap, s.Creator, s.Logger)

	if err := fn(w); err != nil {
		return nil, err
	}

	view := s.view(sessionID, w)
	if w.State() == StateSubmitted {
		if err := s.Store.Delete(ctx, sessionID); err != nil {
			s.Logger.Warn("failed to drop submitted registration session", zap.String("sessionID", sessionID), zap.Error(err))
		}
		return view, nil
	}
	if err := s.Store.Save(ctx, sessionID, w.Snapshot()); err != nil {
		return nil, err
	}
	return view, nil
}

// IsConflict reports whether err means the session cannot be changed right now.
func IsConflict(err error) bool {
	return errors.Is(err, ErrSessionBusy) ||
		errors.Is(err, ErrSubmissionInFlight) ||
		errors.Is(err, ErrAlreadySubmitted) ||
		errors.Is(err, ErrFirstStep)
}
