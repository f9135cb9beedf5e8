package registration

import (
	"context"
	"errors"
	"sync"

	"collabhub/models"

	"go.uber.org/zap"
)

// State is the lifecycle position of a wizard.
type State string

const (
	StateActive     State = "active"
	StateSubmitting State = "submitting"
	StateSubmitted  State = "submitted"
	StateFailed     State = "failed"
)

const genericSubmitMessage = "Account creation failed. Please try again."

// AccountCreator creates the account once the review step is confirmed.
type AccountCreator interface {
	CreateAccount(ctx context.Context, record models.RegistrationRecord) (*models.Account, error)
}

// Wizard drives the four-step registration flow. It owns its record; callers
// only ever see copies.
type Wizard struct {
	creator AccountCreator
	logger  *zap.Logger

	mu             sync.Mutex
	step           Step
	record         models.RegistrationRecord
	errors         StepErrors
	shouldValidate bool
	state          State
	account        *models.Account
}

// NewWizard returns a wizard on the first step with an empty record.
func NewWizard(creator AccountCreator, logger *zap.Logger) *Wizard {
	return &Wizard{
		creator: creator,
		logger:  logger,
		step:    StepBasicInfo,
		errors:  StepErrors{},
		state:   StateActive,
	}
}

func (w *Wizard) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

func (w *Wizard) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

func (w *Wizard) Record() models.RegistrationRecord {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.record.Clone()
}

func (w *Wizard) Errors() StepErrors {
	w.mu.Lock()
	defer w.mu.Unlock()
	return copyErrors(w.errors)
}

// Account is set once the wizard reached StateSubmitted.
func (w *Wizard) Account() *models.Account {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.account
}

// checkWritable must be called with mu held.
func (w *Wizard) checkWritable() error {
	switch w.state {
	case StateSubmitted:
		return ErrAlreadySubmitted
	case StateSubmitting:
		return ErrSubmissionInFlight
	}
	return nil
}

// UpdateFields merges patch into the record. Once validation has been
// triggered on the current step, the step is re-validated after the merge.
func (w *Wizard) UpdateFields(patch models.RegistrationPatch) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.checkWritable(); err != nil {
		return err
	}

	patch.Apply(&w.record)
	if w.shouldValidate {
		errs := Validate(w.step, w.record)
		if w.state == StateFailed {
			errs[FieldSubmit] = w.errors[FieldSubmit]
		}
		w.errors = errs
	}
	return nil
}

// Next validates the current step and advances. On the review step it
// submits the record; a rejected submission leaves the wizard in StateFailed
// with a "submit" error and can be retried with another Next.
//
// The returned StepErrors are empty when the wizard advanced or submitted.
func (w *Wizard) Next(ctx context.Context) (StepErrors, error) {
	w.mu.Lock()
	if err := w.checkWritable(); err != nil {
		w.mu.Unlock()
		return nil, err
	}

	w.shouldValidate = true
	errs := Validate(w.step, w.record)
	if !errs.Valid() {
		w.errors = errs
		w.mu.Unlock()
		return copyErrors(errs), nil
	}

	if w.step < StepReview {
		w.step++
		w.errors = StepErrors{}
		w.shouldValidate = false
		w.mu.Unlock()
		return StepErrors{}, nil
	}

	w.state = StateSubmitting
	w.errors = StepErrors{}
	record := w.record.Clone()
	w.mu.Unlock()

	account, err := w.creator.CreateAccount(ctx, record)

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.logger.Warn("registration submission failed",
			zap.String("email", record.Email),
			zap.Error(err),
		)
		w.state = StateFailed
		w.errors = StepErrors{FieldSubmit: submitMessage(err)}
		return copyErrors(w.errors), nil
	}

	w.logger.Info("registration submitted", zap.String("accountID", account.ID))
	w.state = StateSubmitted
	w.account = account
	return StepErrors{}, nil
}

// Back returns to the previous step without validating. Entered values are
// kept; displayed errors are cleared.
func (w *Wizard) Back() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.checkWritable(); err != nil {
		return err
	}
	if w.step <= StepBasicInfo {
		return ErrFirstStep
	}

	w.step--
	w.errors = StepErrors{}
	w.shouldValidate = false
	w.state = StateActive
	return nil
}

func submitMessage(err error) string {
	var accErr *models.AccountError
	if errors.As(err, &accErr) && accErr.Message != "" {
		return accErr.Message
	}
	return genericSubmitMessage
}

func copyErrors(errs StepErrors) StepErrors {
	out := make(StepErrors, len(errs))
	for k, v := range errs {
		out[k] = v
	}
	return out
}
