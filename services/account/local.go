package account

import (
	"context"
	"fmt"
	"time"

	"collabhub/database/docstore"
	"collabhub/models"
	"collabhub/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// LocalAccountService keeps credentials in the users collection as bcrypt
// hashes and issues its own JWTs.
type LocalAccountService struct {
	store  docstore.Store
	tokens *utils.TokenIssuer
	logger *zap.Logger
	now    func() time.Time
}

func NewLocalAccountService(store docstore.Store, tokens *utils.TokenIssuer, logger *zap.Logger) *LocalAccountService {
	return &LocalAccountService{store: store, tokens: tokens, logger: logger, now: time.Now}
}

func (s *LocalAccountService) CreateAccount(ctx context.Context, record models.RegistrationRecord) (*models.Account, error) {
	profile := models.ProfileFromRegistration(record)

	existing, err := s.store.Query(ctx, docstore.UsersCollection,
		docstore.Where("email", docstore.OpEqual, profile.Email),
		docstore.Limit(1))
	if err != nil {
		s.logger.Error("Failed to check for existing user", zap.Error(err))
		return nil, rejection(msgCreateFailed, err)
	}
	if len(existing) > 0 {
		return nil, rejection(msgEmailTaken, nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(record.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("Failed to hash password", zap.Error(err))
		return nil, rejection(msgCreateFailed, err)
	}

	now := s.now().UTC()
	profile.ID = uuid.New().String()
	profile.PasswordHash = string(hash)
	profile.CreatedAt = now
	profile.UpdatedAt = now

	if err := s.store.Set(ctx, docstore.UsersCollection, profile.ID, profile.Fields()); err != nil {
		s.logger.Error("Failed to create user", zap.Error(err))
		return nil, rejection(msgCreateFailed, err)
	}

	token, err := s.tokens.GenerateToken(profile.ID, profile.Email)
	if err != nil {
		s.logger.Error("Failed to generate auth token", zap.Error(err))
		return nil, rejection(msgCreateFailed, err)
	}

	s.logger.Info("Account created", zap.String("id", profile.ID))
	return &models.Account{ID: profile.ID, Email: profile.Email, Token: token}, nil
}

// VerifyToken checks a token issued by CreateAccount.
func (s *LocalAccountService) VerifyToken(_ context.Context, token string) (string, error) {
	id, err := s.tokens.ExtractIDFromToken(token)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return id, nil
}
