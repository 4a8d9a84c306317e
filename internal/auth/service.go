package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/stemleague/server/internal/auth/oauth"
	"github.com/stemleague/server/internal/domain/users"
)

var (
	// ErrUnauthorized means the login attempt failed before an identity
	// was established: bad state nonce, failed code exchange, or an
	// unresolvable access token. Terminal for the attempt; no retry.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden means a valid identity was resolved but its email is
	// not on the allowlist. No user row is created or updated.
	ErrForbidden = errors.New("forbidden")
)

// IdentityBridge resolves an authorization code to an external identity.
type IdentityBridge interface {
	GenerateAuthURL(state string) string
	ExchangeCode(ctx context.Context, code string) (string, error)
	FetchUserProfile(ctx context.Context, accessToken string) (*oauth.GoogleUser, error)
}

// AdmissionGate is the allowlist membership test.
type AdmissionGate interface {
	IsAllowed(ctx context.Context, email string) (bool, error)
}

// Service drives the login state machine: initiate with a nonce, then on
// callback exchange the code, resolve the identity, check admission,
// upsert the user, and issue a session credential.
type Service struct {
	bridge   IdentityBridge
	gate     AdmissionGate
	users    users.Repository
	sessions *SessionManager
	states   *StateStore
	logger   zerolog.Logger
}

func NewService(
	bridge IdentityBridge,
	gate AdmissionGate,
	usersRepo users.Repository,
	sessions *SessionManager,
	states *StateStore,
	logger zerolog.Logger,
) *Service {
	return &Service{
		bridge:   bridge,
		gate:     gate,
		users:    usersRepo,
		sessions: sessions,
		states:   states,
		logger:   logger.With().Str("component", "auth").Logger(),
	}
}

// BeginLogin issues a fresh nonce and returns the provider authorization
// URL embedding it.
func (s *Service) BeginLogin() (authURL string, state string, err error) {
	state, err = s.states.Issue()
	if err != nil {
		return "", "", fmt.Errorf("begin login: %w", err)
	}
	return s.bridge.GenerateAuthURL(state), state, nil
}

// CompleteLogin runs the callback half of the state machine. Rejections at
// any gate are terminal for the attempt: a bad nonce or bridge failure is
// ErrUnauthorized, an allowlist denial is ErrForbidden (leaving the users
// relation untouched). On success the user row is upserted in a single
// conditional statement keyed on the Google identity id, and a session
// credential is issued.
func (s *Service) CompleteLogin(ctx context.Context, code, state string) (*users.User, string, error) {
	if code == "" {
		return nil, "", fmt.Errorf("%w: missing authorization code", ErrUnauthorized)
	}
	if !s.states.Consume(state) {
		return nil, "", fmt.Errorf("%w: state mismatch", ErrUnauthorized)
	}

	accessToken, err := s.bridge.ExchangeCode(ctx, code)
	if err != nil {
		s.logger.Warn().Err(err).Msg("code exchange failed")
		return nil, "", fmt.Errorf("%w: code exchange failed", ErrUnauthorized)
	}

	identity, err := s.bridge.FetchUserProfile(ctx, accessToken)
	if err != nil {
		s.logger.Warn().Err(err).Msg("identity resolution failed")
		return nil, "", fmt.Errorf("%w: identity resolution failed", ErrUnauthorized)
	}

	allowed, err := s.gate.IsAllowed(ctx, identity.Email)
	if err != nil {
		return nil, "", fmt.Errorf("admission check: %w", err)
	}
	if !allowed {
		s.logger.Warn().Str("email", identity.Email).Msg("login attempt by non-allowlisted email")
		return nil, "", fmt.Errorf("%w: email not allowed", ErrForbidden)
	}

	user, err := s.users.Upsert(ctx, users.UpsertParams{
		GoogleID: identity.ID,
		Email:    identity.Email,
		Name:     identity.Name,
		Picture:  identity.Picture,
	})
	if err != nil {
		return nil, "", fmt.Errorf("upsert user: %w", err)
	}

	token, err := s.sessions.Issue(user.ID, user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("issue session: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID).Msg("login complete")
	return user, token, nil
}
