package registration

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	sessionPrefix = "registration:"
	lockPrefix    = "registration:lock:"
)

// SessionStore persists wizard snapshots between requests.
type SessionStore interface {
	Save(ctx context.Context, sessionID string, snapshot Snapshot) error
	Load(ctx context.Context, sessionID string) (Snapshot, error)
	Delete(ctx context.Context, sessionID string) error
	// Lock grants exclusive use of a session or fails with ErrSessionBusy.
	Lock(ctx context.Context, sessionID string) (unlock func(), err error)
}

// unlockScript deletes the lock only if it still carries our token.
var unlockScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// RedisSessionStore keeps snapshots as JSON with a sliding TTL. Password
// fields are encrypted with a key derived from the session secret.
type RedisSessionStore struct {
	client  *redis.Client
	sealer  *fieldSealer
	ttl     time.Duration
	lockTTL time.Duration
	logger  *zap.Logger
}

func NewRedisSessionStore(client *redis.Client, secret string, logger *zap.Logger) (*RedisSessionStore, error) {
	sealer, err := newFieldSealer(secret)
	if err != nil {
		return nil, err
	}
	return &RedisSessionStore{
		client:  client,
		sealer:  sealer,
		ttl:     30 * time.Minute,
		lockTTL: 30 * time.Second,
		logger:  logger,
	}, nil
}

// Save stores the registration session in Redis with the configured TTL.
func (s *RedisSessionStore) Save(ctx context.Context, sessionID string, snapshot Snapshot) error {
	sealed, err := s.sealer.sealSnapshot(snapshot)
	if err != nil {
		return err
	}
	data, err := json.Marshal(sealed)
	if err != nil {
		return fmt.Errorf("failed to marshal registration session: %w", err)
	}
	if err := s.client.Set(ctx, sessionPrefix+sessionID, data, s.ttl).Err(); err != nil {
		s.logger.Error("Failed to save registration session", zap.String("sessionID", sessionID), zap.Error(err))
		return fmt.Errorf("failed to save registration session: %w", err)
	}
	return nil
}

// Load retrieves the registration session from Redis by sessionID.
func (s *RedisSessionStore) Load(ctx context.Context, sessionID string) (Snapshot, error) {
	var snapshot Snapshot
	data, err := s.client.Get(ctx, sessionPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return snapshot, ErrSessionNotFound
	}
	if err != nil {
		s.logger.Error("Failed to get registration session", zap.String("sessionID", sessionID), zap.Error(err))
		return snapshot, fmt.Errorf("failed to load registration session: %w", err)
	}
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return snapshot, fmt.Errorf("failed to unmarshal registration session: %w", err)
	}
	opened, err := s.sealer.openSnapshot(snapshot)
	if err != nil {
		// Written under another secret; the session cannot be resumed.
		s.logger.Warn("Discarding unreadable registration session", zap.String("sessionID", sessionID))
		return Snapshot{}, ErrSessionNotFound
	}
	return opened, nil
}

// Delete removes the registration session from Redis.
func (s *RedisSessionStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, sessionPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("failed to delete registration session: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) Lock(ctx context.Context, sessionID string) (func(), error) {
	key := lockPrefix + sessionID
	token := uuid.NewString()

	ok, err := s.client.SetNX(ctx, key, token, s.lockTTL).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to lock registration session: %w", err)
	}
	if !ok {
		return nil, ErrSessionBusy
	}

	return func() {
		if err := unlockScript.Run(context.Background(), s.client, []string{key}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
			s.logger.Warn("Failed to release registration lock", zap.String("sessionID", sessionID), zap.Error(err))
		}
	}, nil
}
