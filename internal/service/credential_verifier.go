package service

import (
	"context"
	"errors"
	"sync"

	"github.com/k-javaman/my-practices/internal/domain"
	"github.com/k-javaman/my-practices/internal/repository"
	"github.com/k-javaman/my-practices/internal/security"
)

// CredentialVerifier checks an email and password pair against the stored
// bcrypt hash. Unknown emails and wrong passwords are indistinguishable.
type CredentialVerifier struct {
	users repository.UserRepository

	dummyOnce sync.Once
	dummyHash string
}

func NewCredentialVerifier(users repository.UserRepository) *CredentialVerifier {
	return &CredentialVerifier{users: users}
}

func (v *CredentialVerifier) Verify(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := v.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			security.ComparePassword(v.dummy(), password)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !security.ComparePassword(user.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// dummy keeps the unknown-email path as slow as a real comparison.
func (v *CredentialVerifier) dummy() string {
	v.dummyOnce.Do(func() {
		h, err := security.HashPassword("unused-password-for-timing")
		if err == nil {
			v.dummyHash = h
		}
	})
	return v.dummyHash
}
