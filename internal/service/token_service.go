package service

import (
	"context"
	"errors"

	"github.com/k-javaman/my-practices/internal/domain"
	"github.com/k-javaman/my-practices/internal/repository"
	"github.com/k-javaman/my-practices/internal/security"
)

type TokenService struct {
	codec  *security.TokenCodec
	tokens repository.TokenRepository
}

func NewTokenService(codec *security.TokenCodec, tokens repository.TokenRepository) *TokenService {
	return &TokenService{codec: codec, tokens: tokens}
}

// Issue signs a token for user and records it as usable.
func (s *TokenService) Issue(ctx context.Context, user *domain.User) (string, error) {
	raw, err := s.codec.Issue(user.Email, map[string]any{"role": string(user.Role)})
	if err != nil {
		return "", err
	}
	if err := s.tokens.Save(ctx, &domain.Token{
		Token:     raw,
		TokenType: domain.TokenTypeBearer,
		UserID:    user.ID,
	}); err != nil {
		return "", err
	}
	return raw, nil
}

// RevokeAllForUser flags every still open token of the user.
func (s *TokenService) RevokeAllForUser(ctx context.Context, userID uint) (int, error) {
	valid, err := s.tokens.FindValidTokensForUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	if err := s.tokens.RevokeAll(ctx, valid); err != nil {
		return 0, err
	}
	return len(valid), nil
}

// Revoke flags one literal token. An unknown token yields (nil, nil).
func (s *TokenService) Revoke(ctx context.Context, raw string) (*domain.Token, error) {
	stored, err := s.tokens.FindByToken(ctx, raw)
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if err := s.tokens.RevokeAll(ctx, []domain.Token{*stored}); err != nil {
		return nil, err
	}
	stored.Expired = true
	stored.Revoked = true
	return stored, nil
}

// IsUsable reports whether raw is recorded with neither flag set.
func (s *TokenService) IsUsable(ctx context.Context, raw string) (bool, error) {
	stored, err := s.tokens.FindByToken(ctx, raw)
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			return false, nil
		}
		return false, err
	}
	return stored.Usable(), nil
}
