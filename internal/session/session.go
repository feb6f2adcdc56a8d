// Package session tracks the authenticated identity for the client. It
// owns the persisted token and cached user snapshot and is the single
// subscriber to the API client's unauthorized hook.
package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/rajeshprivate007/taskflow-frontend/internal/api"
	"github.com/rajeshprivate007/taskflow-frontend/internal/model"
	"github.com/rajeshprivate007/taskflow-frontend/internal/storage"
)

type State int

const (
	StateUnauthenticated State = iota
	StateLoading
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// Store holds the current session. It is driven from a single goroutine;
// operations only mutate local state after the backend confirms.
type Store struct {
	api   *api.Client
	kv    storage.Store
	log   zerolog.Logger
	state State
	user  *model.User
}

func New(client *api.Client, kv storage.Store, log zerolog.Logger) *Store {
	store := &Store{
		api: client,
		kv:  kv,
		log: log,
	}
	client.OnUnauthorized(store.handleUnauthorized)
	return store
}

func (s *Store) State() State {
	return s.state
}

func (s *Store) Authenticated() bool {
	return s.state == StateAuthenticated
}

func (s *Store) User() *model.User {
	return s.user
}

// Bootstrap decides the initial state from the persisted token. A token
// the backend rejects is cleared so the next start skips the round trip.
func (s *Store) Bootstrap(ctx context.Context) error {
	token, ok, err := s.kv.Get(storage.KeyToken)
	if err != nil {
		return err
	}
	if !ok {
		s.state = StateUnauthenticated
		return nil
	}

	if tokenExpired(token) {
		s.log.Debug().Msg("stored token is expired, clearing session")
		s.clearAuth()
		return nil
	}

	s.state = StateLoading

	// Rehydrate from the cached snapshot for instant display; the
	// profile fetch below is still authoritative.
	if cached, ok, err := s.kv.Get(storage.KeyUser); err == nil && ok {
		var user model.User
		if err := json.Unmarshal([]byte(cached), &user); err == nil {
			s.user = &user
		}
	}

	user, err := s.api.Profile(ctx)
	if err != nil {
		s.log.Warn().Str("error", api.Message(err)).Msg("auth check failed")
		s.clearAuth()
		return nil
	}

	s.setAuth(token, user)
	return nil
}

func (s *Store) Login(ctx context.Context, email, password string) (model.User, error) {
	previous := s.state
	s.state = StateLoading

	payload, err := s.api.Login(ctx, api.LoginRequest{Email: email, Password: password})
	if err != nil {
		s.state = previous
		return model.User{}, err
	}

	s.setAuth(payload.Token, payload.User)
	return payload.User, nil
}

func (s *Store) Register(ctx context.Context, name, email, password string) (model.User, error) {
	previous := s.state
	s.state = StateLoading

	payload, err := s.api.Register(ctx, api.RegisterRequest{Name: name, Email: email, Password: password})
	if err != nil {
		s.state = previous
		return model.User{}, err
	}

	s.setAuth(payload.Token, payload.User)
	return payload.User, nil
}

// Logout notifies the backend best-effort, then unconditionally clears
// local state.
func (s *Store) Logout(ctx context.Context) {
	if err := s.api.Logout(ctx); err != nil {
		s.log.Warn().Str("error", api.Message(err)).Msg("logout request failed")
	}
	s.clearAuth()
}

func (s *Store) UpdateProfile(ctx context.Context, patch api.ProfilePatch) (model.User, error) {
	s.state = StateLoading
	defer func() {
		if s.state == StateLoading {
			s.state = StateAuthenticated
		}
	}()

	user, err := s.api.UpdateProfile(ctx, patch)
	if err != nil {
		return model.User{}, err
	}

	s.user = &user
	s.cacheUser(user)
	return user, nil
}

func (s *Store) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	return s.api.ChangePassword(ctx, currentPassword, newPassword)
}

// DeleteAccount removes the account server-side; success is equivalent
// to a logout.
func (s *Store) DeleteAccount(ctx context.Context, password string) error {
	if err := s.api.DeleteAccount(ctx, password); err != nil {
		return err
	}
	s.clearAuth()
	return nil
}

func (s *Store) handleUnauthorized() {
	if s.state == StateUnauthenticated {
		return
	}
	s.log.Debug().Msg("session rejected by backend, clearing local auth")
	s.clearAuth()
}

func (s *Store) setAuth(token string, user model.User) {
	if err := s.kv.Set(storage.KeyToken, token); err != nil {
		s.log.Warn().Err(err).Msg("persist token failed")
	}
	s.cacheUser(user)
	s.user = &user
	s.state = StateAuthenticated
}

func (s *Store) cacheUser(user model.User) {
	data, err := json.Marshal(user)
	if err != nil {
		s.log.Warn().Err(err).Msg("serialize user failed")
		return
	}
	if err := s.kv.Set(storage.KeyUser, string(data)); err != nil {
		s.log.Warn().Err(err).Msg("persist user failed")
	}
}

func (s *Store) clearAuth() {
	if err := s.kv.Delete(storage.KeyToken); err != nil {
		s.log.Warn().Err(err).Msg("clear token failed")
	}
	if err := s.kv.Delete(storage.KeyUser); err != nil {
		s.log.Warn().Err(err).Msg("clear user failed")
	}
	s.user = nil
	s.state = StateUnauthenticated
}

// tokenExpired reports whether the token carries an exp claim in the
// past. The client never verifies the signature; that is the backend's
// job. Tokens without a readable exp claim are passed through to the
// profile fetch.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	expiry, err := claims.GetExpirationTime()
	if err != nil || expiry == nil {
		return false
	}
	return expiry.Before(time.Now())
}
