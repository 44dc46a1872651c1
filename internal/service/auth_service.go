package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/k-javaman/my-practices/internal/domain"
	"github.com/k-javaman/my-practices/internal/events"
	"github.com/k-javaman/my-practices/internal/logging"
	"github.com/k-javaman/my-practices/internal/observability"
	"github.com/k-javaman/my-practices/internal/repository"
	"github.com/k-javaman/my-practices/internal/security"
)

type RegisterInput struct {
	Firstname string
	Lastname  string
	Email     string
	Password  string
}

type AuthResult struct {
	Token string
	User  *domain.User
}

type AuthService struct {
	users     repository.UserRepository
	tokens    *TokenService
	verifier  *CredentialVerifier
	publisher events.Publisher
	now       func() time.Time
}

func NewAuthService(users repository.UserRepository, tokens *TokenService, verifier *CredentialVerifier, publisher events.Publisher) *AuthService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &AuthService{
		users:     users,
		tokens:    tokens,
		verifier:  verifier,
		publisher: publisher,
		now:       time.Now,
	}
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" || in.Password == "" {
		observability.RecordAuthAttempt(ctx, "register", "invalid_input")
		return nil, fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}
	if len(in.Password) > security.MaxPasswordBytes {
		observability.RecordAuthAttempt(ctx, "register", "invalid_input")
		return nil, fmt.Errorf("%w: password must be at most %d bytes", ErrInvalidInput, security.MaxPasswordBytes)
	}
	hash, err := security.HashPassword(in.Password)
	if err != nil {
		observability.RecordAuthAttempt(ctx, "register", "error")
		return nil, err
	}
	user := &domain.User{
		Firstname: strings.TrimSpace(in.Firstname),
		Lastname:  strings.TrimSpace(in.Lastname),
		Email:     email,
		Password:  hash,
		Role:      domain.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			observability.RecordAuthAttempt(ctx, "register", "email_exists")
			return nil, ErrEmailAlreadyExists
		}
		observability.RecordAuthAttempt(ctx, "register", "error")
		return nil, err
	}
	token, err := s.tokens.Issue(ctx, user)
	if err != nil {
		observability.RecordAuthAttempt(ctx, "register", "error")
		return nil, err
	}
	observability.RecordAuthAttempt(ctx, "register", "success")
	s.publish(ctx, events.UserRegistered, user)
	return &AuthResult{Token: token, User: user}, nil
}

// Authenticate verifies credentials and leaves exactly one usable token for
// the user: every previously open token is revoked before a new one is issued.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.verifier.Verify(ctx, strings.TrimSpace(email), password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			observability.RecordAuthAttempt(ctx, "authenticate", "invalid_credentials")
		} else {
			observability.RecordAuthAttempt(ctx, "authenticate", "error")
		}
		return nil, err
	}
	revoked, err := s.tokens.RevokeAllForUser(ctx, user.ID)
	if err != nil {
		observability.RecordAuthAttempt(ctx, "authenticate", "error")
		return nil, err
	}
	token, err := s.tokens.Issue(ctx, user)
	if err != nil {
		observability.RecordAuthAttempt(ctx, "authenticate", "error")
		return nil, err
	}
	logging.FromContext(ctx).DebugContext(ctx, "prior tokens revoked", "user_id", user.ID, "count", revoked)
	observability.RecordAuthAttempt(ctx, "authenticate", "success")
	s.publish(ctx, events.UserAuthenticated, user)
	return &AuthResult{Token: token, User: user}, nil
}

// Logout revokes rawToken. Unknown or empty tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, rawToken string) error {
	if rawToken == "" {
		observability.RecordAuthAttempt(ctx, "logout", "no_token")
		return nil
	}
	stored, err := s.tokens.Revoke(ctx, rawToken)
	if err != nil {
		observability.RecordAuthAttempt(ctx, "logout", "error")
		return err
	}
	if stored == nil {
		observability.RecordAuthAttempt(ctx, "logout", "unknown_token")
		return nil
	}
	observability.RecordAuthAttempt(ctx, "logout", "success")
	s.publish(ctx, events.UserLoggedOut, &domain.User{ID: stored.UserID})
	return nil
}

func (s *AuthService) publish(ctx context.Context, t events.Type, user *domain.User) {
	err := s.publisher.Publish(ctx, events.Event{
		Type:       t,
		UserID:     user.ID,
		Email:      user.Email,
		OccurredAt: s.now().UTC(),
	})
	if err != nil {
		logging.FromContext(ctx).WarnContext(ctx, "auth event publish failed", "type", string(t), "user_id", user.ID, "error", err.Error())
	}
}
