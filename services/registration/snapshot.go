package registration

import (
	"collabhub/models"

	"go.uber.org/zap"
)

const interruptedSubmitMessage = "Your previous submission was interrupted. Please try again."

// Snapshot is the serialisable state of a wizard.
type Snapshot struct {
	Step           Step                      `json:"step"`
	Record         models.RegistrationRecord `json:"record"`
	Errors         StepErrors                `json:"errors"`
	ShouldValidate bool                      `json:"shouldValidate"`
	State          State                     `json:"state"`
	Account        *models.Account           `json:"account,omitempty"`
}

func (w *Wizard) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return Snapshot{
		Step:           w.step,
		Record:         w.record.Clone(),
		Errors:         copyErrors(w.errors),
		ShouldValidate: w.shouldValidate,
		State:          w.state,
		Account:        w.account,
	}
}

// RestoreWizard rebuilds a wizard from a snapshot. A snapshot caught mid
// submission is restored as failed so the user can retry.
func RestoreWizard(s Snapshot, creator AccountCreator, logger *zap.Logger) *Wizard {
	w := NewWizard(creator, logger)
	if s.Step >= StepBasicInfo && s.Step <= StepReview {
		w.step = s.Step
	}
	w.record = s.Record.Clone()
	w.errors = copyErrors(s.Errors)
	w.shouldValidate = s.ShouldValidate
	w.account = s.Account

	switch s.State {
	case StateSubmitted, StateFailed:
		w.state = s.State
	case StateSubmitting:
		w.step = StepReview
		w.state = StateFailed
		w.errors = StepErrors{FieldSubmit: interruptedSubmitMessage}
	default:
		w.state = StateActive
	}
	return w
}
