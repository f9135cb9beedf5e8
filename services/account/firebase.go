package account

import (
	"context"
	"fmt"
	"time"

	"collabhub/database/docstore"
	"collabhub/models"

	"firebase.google.com/go/v4/auth"
	"go.uber.org/zap"
)

// authClient is the subset of *auth.Client used here.
type authClient interface {
	CreateUser(ctx context.Context, user *auth.UserToCreate) (*auth.UserRecord, error)
	DeleteUser(ctx context.Context, uid string) error
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// FirebaseAccountService creates accounts in Firebase Auth and stores the
// profile under users/<uid>.
type FirebaseAccountService struct {
	auth   authClient
	store  docstore.Store
	logger *zap.Logger
	now    func() time.Time
}

func NewFirebaseAccountService(client authClient, store docstore.Store, logger *zap.Logger) *FirebaseAccountService {
	return &FirebaseAccountService{auth: client, store: store, logger: logger, now: time.Now}
}

func (s *FirebaseAccountService) CreateAccount(ctx context.Context, record models.RegistrationRecord) (*models.Account, error) {
	profile := models.ProfileFromRegistration(record)

	params := (&auth.UserToCreate{}).
		Email(profile.Email).
		Password(record.Password).
		DisplayName(profile.FullName)
	if record.ProfilePicture != "" {
		params = params.PhotoURL(record.ProfilePicture)
	}

	user, err := s.auth.CreateUser(ctx, params)
	if err != nil {
		if auth.IsEmailAlreadyExists(err) {
			return nil, rejection(msgEmailTaken, err)
		}
		s.logger.Error("Failed to create firebase user", zap.String("email", profile.Email), zap.Error(err))
		return nil, rejection(msgCreateFailed, err)
	}

	now := s.now().UTC()
	profile.ID = user.UID
	profile.CreatedAt = now
	profile.UpdatedAt = now
	if err := s.store.Set(ctx, docstore.UsersCollection, user.UID, profile.Fields()); err != nil {
		s.logger.Error("Failed to write user profile", zap.String("uid", user.UID), zap.Error(err))
		if derr := s.auth.DeleteUser(ctx, user.UID); derr != nil {
			s.logger.Error("Failed to roll back firebase user", zap.String("uid", user.UID), zap.Error(derr))
		}
		return nil, rejection(msgCreateFailed, err)
	}

	s.logger.Info("Account created", zap.String("uid", user.UID))
	return &models.Account{ID: user.UID, Email: profile.Email}, nil
}

// VerifyToken checks a Firebase ID token.
func (s *FirebaseAccountService) VerifyToken(ctx context.Context, token string) (string, error) {
	tok, err := s.auth.VerifyIDToken(ctx, token)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return tok.UID, nil
}
