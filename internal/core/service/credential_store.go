package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/torneoops/matchday/internal/core/domain"
	"github.com/torneoops/matchday/internal/core/ports"
	"github.com/torneoops/matchday/internal/observability/metrics"
)

// Storage keys. The credential store is the only writer of these entries.
const (
	keyToken        = "auth.token"
	keyRefreshToken = "auth.refresh_token"
	keyUser         = "auth.user"
	keyProfile      = "auth.profile"
)

// CredentialStore is the typed persistence layer for session credentials,
// built on a key-value backing. Corrupted entries are self-healing: they are
// removed, logged, and reported as absent rather than propagated.
type CredentialStore struct {
	kv  ports.KeyValueStore
	log zerolog.Logger
}

func NewCredentialStore(kv ports.KeyValueStore, log zerolog.Logger) *CredentialStore {
	return &CredentialStore{kv: kv, log: log}
}

// Token returns the persisted bearer token, if any.
func (s *CredentialStore) Token(ctx context.Context) (string, bool) {
	return s.get(ctx, keyToken)
}

// RefreshToken returns the persisted refresh token, if any.
func (s *CredentialStore) RefreshToken(ctx context.Context) (string, bool) {
	return s.get(ctx, keyRefreshToken)
}

// SaveSession persists a freshly acquired credential set. It must complete
// before the session is announced as authenticated, so that any observer
// reacting to that announcement reads valid storage.
func (s *CredentialStore) SaveSession(ctx context.Context, token, refreshToken string, user domain.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := s.kv.Set(ctx, keyToken, token); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}
	if refreshToken != "" {
		if err := s.kv.Set(ctx, keyRefreshToken, refreshToken); err != nil {
			return fmt.Errorf("persist refresh token: %w", err)
		}
	}
	if err := s.kv.Set(ctx, keyUser, string(raw)); err != nil {
		return fmt.Errorf("persist user: %w", err)
	}
	return nil
}

// User returns the cached user record, if present and well-formed.
func (s *CredentialStore) User(ctx context.Context) (domain.User, bool) {
	var user domain.User
	if !s.getJSON(ctx, keyUser, &user) {
		return domain.User{}, false
	}
	return user, true
}

// SaveProfile caches the extended operator profile.
func (s *CredentialStore) SaveProfile(ctx context.Context, profile domain.Profile) error {
	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	return s.kv.Set(ctx, keyProfile, string(raw))
}

// Profile returns the cached extended profile, if present and well-formed.
func (s *CredentialStore) Profile(ctx context.Context) (domain.Profile, bool) {
	var profile domain.Profile
	if !s.getJSON(ctx, keyProfile, &profile) {
		return domain.Profile{}, false
	}
	return profile, true
}

// RemoveProfile drops the cached profile entry.
func (s *CredentialStore) RemoveProfile(ctx context.Context) {
	if err := s.kv.Remove(ctx, keyProfile); err != nil {
		s.log.Error().Err(err).Msg("remove cached profile")
	}
}

// Clear wipes every persisted entry.
func (s *CredentialStore) Clear(ctx context.Context) error {
	return s.kv.Clear(ctx)
}

func (s *CredentialStore) get(ctx context.Context, key string) (string, bool) {
	value, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		s.log.Error().Err(err).Str("key", key).Msg("credential read failed")
		return "", false
	}
	return value, ok
}

// getJSON reads and decodes a JSON entry. A value that fails to decode is
// removed so the corruption cannot resurface on the next boot.
func (s *CredentialStore) getJSON(ctx context.Context, key string, out any) bool {
	raw, ok := s.get(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("corrupt persisted entry discarded")
		metrics.StorageCorruptionsTotal.WithLabelValues(key).Inc()
		if rerr := s.kv.Remove(ctx, key); rerr != nil {
			s.log.Error().Err(rerr).Str("key", key).Msg("remove corrupt entry")
		}
		return false
	}
	return true
}
