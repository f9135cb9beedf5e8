package registration

import "errors"

var (
	// ErrSubmissionInFlight is returned while an account submission is pending.
	ErrSubmissionInFlight = errors.New("registration: submission already in progress")
	// ErrAlreadySubmitted is returned by any operation on a completed wizard.
	ErrAlreadySubmitted = errors.New("registration: already submitted")
	// ErrFirstStep is returned by Back on the first step.
	ErrFirstStep = errors.New("registration: already on the first step")
	// ErrSessionNotFound is returned when a session id is unknown or expired.
	ErrSessionNotFound = errors.New("registration: session not found")
)

// ErrSessionBusy is returned when another request currently holds the session.
var ErrSessionBusy = errors.New("registration: session is busy")
