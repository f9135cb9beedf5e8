package account

import (
	"context"
	"errors"
	"testing"
	"time"

	"collabhub/database/docstore"
	"collabhub/models"
	"collabhub/utils"

	"firebase.google.com/go/v4/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func completedRecord() models.RegistrationRecord {
	return models.RegistrationRecord{
		Email:               "  Ada@Example.com ",
		FullName:            "Ada Lovelace",
		Password:            "Engine#1843",
		PasswordConfirm:     "Engine#1843",
		ProfessionalTitle:   "Analyst",
		Skills:              []string{"Math"},
		ExperienceLevel:     "senior",
		ProjectPreferences:  []string{"research"},
		CollaborationStyles: []string{"async"},
		Languages:           []string{"English"},
		Country:             "UK",
		WeeklyAvailability:  12,
	}
}

func TestLocalAccountService_CreateAccount(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemoryStore()
	svc := NewLocalAccountService(store, utils.NewTokenIssuer("secret", time.Hour), zap.NewNop())

	acct, err := svc.CreateAccount(ctx, completedRecord())
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", acct.Email)
	assert.NotEmpty(t, acct.ID)
	assert.NotEmpty(t, acct.Token)

	doc, err := store.Get(ctx, docstore.UsersCollection, acct.ID)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", doc["email"])
	assert.Equal(t, "part-time", doc["availability"])
	assert.Equal(t, "UK", doc["location"])
	assert.NotContains(t, doc, "password")
	hash, ok := doc["passwordHash"].(string)
	require.True(t, ok)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("Engine#1843")))

	id, err := svc.VerifyToken(ctx, acct.Token)
	require.NoError(t, err)
	assert.Equal(t, acct.ID, id)

	t.Run("duplicate email", func(t *testing.T) {
		rec := completedRecord()
		rec.Email = "ADA@example.com"
		_, err := svc.CreateAccount(ctx, rec)
		var accErr *models.AccountError
		require.ErrorAs(t, err, &accErr)
		assert.Equal(t, "An account with this email already exists", accErr.Message)
	})
}

func TestLocalAccountService_VerifyToken_Rejects(t *testing.T) {
	svc := NewLocalAccountService(docstore.NewMemoryStore(), utils.NewTokenIssuer("secret", time.Hour), zap.NewNop())
	_, err := svc.VerifyToken(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

type fakeAuth struct {
	createErr error
	deleted   []string
	tokens    map[string]string
}

func (f *fakeAuth) CreateUser(_ context.Context, _ *auth.UserToCreate) (*auth.UserRecord, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &auth.UserRecord{UserInfo: &auth.UserInfo{UID: "fb-uid-1"}}, nil
}

func (f *fakeAuth) DeleteUser(_ context.Context, uid string) error {
	f.deleted = append(f.deleted, uid)
	return nil
}

func (f *fakeAuth) VerifyIDToken(_ context.Context, idToken string) (*auth.Token, error) {
	uid, ok := f.tokens[idToken]
	if !ok {
		return nil, errors.New("token expired")
	}
	return &auth.Token{UID: uid}, nil
}

type brokenStore struct {
	docstore.Store
}

func (brokenStore) Set(context.Context, string, string, docstore.Record) error {
	return errors.New("unavailable")
}

func TestFirebaseAccountService_CreateAccount(t *testing.T) {
	ctx := context.Background()

	t.Run("writes profile under uid", func(t *testing.T) {
		store := docstore.NewMemoryStore()
		svc := NewFirebaseAccountService(&fakeAuth{}, store, zap.NewNop())

		acct, err := svc.CreateAccount(ctx, completedRecord())
		require.NoError(t, err)
		assert.Equal(t, &models.Account{ID: "fb-uid-1", Email: "ada@example.com"}, acct)

		doc, err := store.Get(ctx, docstore.UsersCollection, "fb-uid-1")
		require.NoError(t, err)
		assert.Equal(t, "Ada Lovelace", doc["fullName"])
		assert.NotContains(t, doc, "passwordHash")
	})

	t.Run("auth failure is a rejection", func(t *testing.T) {
		svc := NewFirebaseAccountService(&fakeAuth{createErr: errors.New("quota")}, docstore.NewMemoryStore(), zap.NewNop())
		_, err := svc.CreateAccount(ctx, completedRecord())
		var accErr *models.AccountError
		require.ErrorAs(t, err, &accErr)
		assert.Equal(t, "Registration failed, please try again", accErr.Message)
	})

	t.Run("profile failure rolls back the auth user", func(t *testing.T) {
		fa := &fakeAuth{}
		svc := NewFirebaseAccountService(fa, brokenStore{}, zap.NewNop())
		_, err := svc.CreateAccount(ctx, completedRecord())
		require.Error(t, err)
		assert.Equal(t, []string{"fb-uid-1"}, fa.deleted)
	})
}

func TestFirebaseAccountService_VerifyToken(t *testing.T) {
	svc := NewFirebaseAccountService(&fakeAuth{tokens: map[string]string{"good": "u1"}}, docstore.NewMemoryStore(), zap.NewNop())

	uid, err := svc.VerifyToken(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, "u1", uid)

	_, err = svc.VerifyToken(context.Background(), "bad")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
