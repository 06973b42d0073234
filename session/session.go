package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"

	"github.com/joy095/salon/logger"
	"github.com/joy095/salon/models/user_models"
	"github.com/joy095/salon/utils"
)

// A session is the persisted {token, identity} pair. The two records live
// under separate keys and are always written and cleared together:
//
//	session_token:<userID>    -> bearer token
//	session_identity:<userID> -> serialized identity record
//
// There is no refresh flow. An expired token means the session is gone.

const (
	tokenKeyPrefix    = "session_token:"
	identityKeyPrefix = "session_identity:"
)

// ErrNoSession is returned when no live session exists for the caller.
var ErrNoSession = errors.New("no active session")

// Session is a hydrated, non-expired caller session.
type Session struct {
	Token    string               `json:"token"`
	Identity user_models.Identity `json:"identity"`
}

// Store persists sessions. RedisStore is the production implementation;
// tests use an in-memory fake.
type Store interface {
	// Hydrate resolves the session for the presented bearer token. An
	// expired, unknown or logged-out token yields ErrNoSession.
	Hydrate(ctx context.Context, token string) (*Session, error)
	// Login persists the pair with a TTL matching the token's lifetime.
	Login(ctx context.Context, identity user_models.Identity, token string) error
	// Logout clears both persisted records unconditionally.
	Logout(ctx context.Context, token string) error
}

// RedisStore keeps sessions in Redis.
type RedisStore struct {
	Client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{Client: client}
}

// tokenClaims verifies the token signature and pulls out the subject and
// embedded expiry. Claims validation is skipped so an expired token still
// yields its claims; expiry is enforced by the callers (Hydrate purges, Login
// refuses), not by the parser.
func tokenClaims(token string) (sub string, exp time.Time, err error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return utils.GetJWTSecret(), nil
	}, jwt.WithoutClaimsValidation())
	if err != nil || !parsed.Valid {
		return "", time.Time{}, fmt.Errorf("invalid token: %w", err)
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", time.Time{}, errors.New("invalid token claims")
	}
	sub, err = claims.GetSubject()
	if err != nil || sub == "" {
		return "", time.Time{}, errors.New("token has no subject")
	}
	expClaim, err := claims.GetExpirationTime()
	if err != nil || expClaim == nil {
		return "", time.Time{}, errors.New("token has no expiry")
	}
	return sub, expClaim.Time, nil
}

func (s *RedisStore) Hydrate(ctx context.Context, token string) (*Session, error) {
	sub, exp, err := tokenClaims(token)
	if err != nil {
		return nil, ErrNoSession
	}
	if time.Now().After(exp) {
		// Expiry is fatal; purge whatever is left of the session.
		_ = s.Logout(ctx, token)
		return nil, ErrNoSession
	}

	stored, err := s.Client.Get(ctx, tokenKeyPrefix+sub).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNoSession
		}
		logger.ErrorLogger.Errorf("Redis error hydrating session for %s: %v", sub, err)
		return nil, fmt.Errorf("failed to hydrate session: %w", err)
	}
	if stored != token {
		// A later login replaced this token; treat the old one as logged out.
		return nil, ErrNoSession
	}

	raw, err := s.Client.Get(ctx, identityKeyPrefix+sub).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNoSession
		}
		logger.ErrorLogger.Errorf("Redis error reading identity for %s: %v", sub, err)
		return nil, fmt.Errorf("failed to hydrate session: %w", err)
	}

	var identity user_models.Identity
	if err := json.Unmarshal([]byte(raw), &identity); err != nil {
		logger.ErrorLogger.Errorf("Corrupt identity record for %s: %v", sub, err)
		return nil, ErrNoSession
	}

	return &Session{Token: token, Identity: identity}, nil
}

func (s *RedisStore) Login(ctx context.Context, identity user_models.Identity, token string) error {
	sub, exp, err := tokenClaims(token)
	if err != nil {
		return fmt.Errorf("refusing to store invalid token: %w", err)
	}
	ttl := time.Until(exp)
	if ttl <= 0 {
		return fmt.Errorf("refusing to store expired token")
	}

	raw, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("failed to serialize identity: %w", err)
	}

	pipe := s.Client.TxPipeline()
	pipe.Set(ctx, tokenKeyPrefix+sub, token, ttl)
	pipe.Set(ctx, identityKeyPrefix+sub, raw, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		logger.ErrorLogger.Errorf("Failed to persist session for %s: %v", sub, err)
		return fmt.Errorf("failed to persist session: %w", err)
	}

	logger.InfoLogger.Infof("Session stored for user %s (role %s)", sub, identity.Role)
	return nil
}

func (s *RedisStore) Logout(ctx context.Context, token string) error {
	// Clearing must work even for an expired token, so skip signature
	// validation and read the subject claim directly.
	sub := subjectUnverified(token)
	if sub == "" {
		return nil
	}
	if err := s.Client.Del(ctx, tokenKeyPrefix+sub, identityKeyPrefix+sub).Err(); err != nil {
		logger.ErrorLogger.Errorf("Failed to clear session for %s: %v", sub, err)
		return fmt.Errorf("failed to clear session: %w", err)
	}
	logger.InfoLogger.Infof("Session cleared for user %s", sub)
	return nil
}

func subjectUnverified(token string) string {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return ""
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return ""
	}
	sub, _ := claims.GetSubject()
	return sub
}
