package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// SessionDuration is 7 days
	SessionDuration = 7 * 24 * time.Hour
	// sessionKeyPrefix is the key prefix for token -> userID entries
	sessionKeyPrefix = "session:"
	// userSessionKeyPrefix is the key prefix for userID -> token entries
	userSessionKeyPrefix = "user_session:"
)

// KeyValue is the minimal key-value surface sessions need. Lookup reports
// (value, found, error) so a missing key is not an error.
type KeyValue interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Lookup(ctx context.Context, key string) (string, bool, error)
	Delete(ctx context.Context, keys ...string) error
}

// RedisKeyValue adapts a go-redis client to the KeyValue interface.
type RedisKeyValue struct {
	Client *redis.Client
}

func (r *RedisKeyValue) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return r.Client.Set(ctx, key, value, ttl).Err()
}

func (r *RedisKeyValue) Lookup(ctx context.Context, key string) (string, bool, error) {
	val, err := r.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (r *RedisKeyValue) Delete(ctx context.Context, keys ...string) error {
	return r.Client.Del(ctx, keys...).Err()
}

// SessionService issues and validates opaque bearer tokens. Each user holds at
// most one session: logging in again invalidates the previous token so the
// 7-day timer restarts from the newest login.
type SessionService struct {
	kv KeyValue
}

func NewSessionService(kv KeyValue) *SessionService {
	return &SessionService{kv: kv}
}

// Create mints a session token for a user and returns it with its lifetime.
func (s *SessionService) Create(ctx context.Context, userID uuid.UUID) (string, time.Duration, error) {
	// Invalidate any existing session for this user
	if err := s.InvalidateUser(ctx, userID); err != nil {
		return "", 0, err
	}

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", 0, err
	}
	token := base64.URLEncoding.EncodeToString(tokenBytes)

	if err := s.kv.Set(ctx, sessionKeyPrefix+token, userID.String(), SessionDuration); err != nil {
		return "", 0, err
	}
	if err := s.kv.Set(ctx, userSessionKeyPrefix+userID.String(), token, SessionDuration); err != nil {
		return "", 0, err
	}

	return token, SessionDuration, nil
}

// Validate checks a session token and returns the user it belongs to.
func (s *SessionService) Validate(ctx context.Context, token string) (uuid.UUID, bool, error) {
	if token == "" {
		return uuid.Nil, false, nil
	}

	userIDStr, ok, err := s.kv.Lookup(ctx, sessionKeyPrefix+token)
	if err != nil || !ok {
		return uuid.Nil, false, err
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, false, err
	}

	return userID, true, nil
}

// Invalidate removes a session token. Unknown tokens are a no-op.
func (s *SessionService) Invalidate(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	userIDStr, ok, err := s.kv.Lookup(ctx, sessionKeyPrefix+token)
	if err != nil {
		return err
	}
	if ok && userIDStr != "" {
		if err := s.kv.Delete(ctx, userSessionKeyPrefix+userIDStr); err != nil {
			return err
		}
	}

	return s.kv.Delete(ctx, sessionKeyPrefix+token)
}

// InvalidateUser removes the user's current session, if any. Called on login
// and after a password reset.
func (s *SessionService) InvalidateUser(ctx context.Context, userID uuid.UUID) error {
	userKey := userSessionKeyPrefix + userID.String()

	token, ok, err := s.kv.Lookup(ctx, userKey)
	if err != nil {
		return err
	}
	if ok && token != "" {
		if err := s.kv.Delete(ctx, sessionKeyPrefix+token); err != nil {
			return err
		}
	}

	return s.kv.Delete(ctx, userKey)
}
