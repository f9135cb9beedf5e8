package models

// Account is the result of a successful account creation.
type Account struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	// Token is set only when the account provider issues its own session token.
	Token string `json:"token,omitempty"`
}

// AccountError is a rejection from the account provider carrying a message
// that can be shown to the user.
type AccountError struct {
	Message string
	Err     error
}

func (e *AccountError) Error() string { return e.Message }

func (e *AccountError) Unwrap() error { return e.Err }
