package repository

import (
	"context"
	"errors"

	"github.com/k-javaman/my-practices/internal/domain"
	"github.com/k-javaman/my-practices/internal/observability"

	"gorm.io/gorm"
)

type TokenRepository interface {
	Save(ctx context.Context, t *domain.Token) error
	FindValidTokensForUser(ctx context.Context, userID uint) ([]domain.Token, error)
	RevokeAll(ctx context.Context, tokens []domain.Token) error
	FindByToken(ctx context.Context, raw string) (*domain.Token, error)
}

type GormTokenRepository struct{ db *gorm.DB }

func NewTokenRepository(db *gorm.DB) TokenRepository { return &GormTokenRepository{db: db} }

func (r *GormTokenRepository) Save(ctx context.Context, t *domain.Token) error {
	if t.TokenType == "" {
		t.TokenType = domain.TokenTypeBearer
	}
	t.Expired = false
	t.Revoked = false
	err := r.db.WithContext(ctx).Create(t).Error
	observability.RecordRepositoryOperation(ctx, "token", "save", outcomeOf(err, nil))
	return err
}

// FindValidTokensForUser lists every row that is not both expired and
// revoked. A row with only one flag set is still returned.
func (r *GormTokenRepository) FindValidTokensForUser(ctx context.Context, userID uint) ([]domain.Token, error) {
	var tokens []domain.Token
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND (expired = ? OR revoked = ?)", userID, false, false).
		Order("id ASC").
		Find(&tokens).Error
	observability.RecordRepositoryOperation(ctx, "token", "find_valid_for_user", outcomeOf(err, nil))
	return tokens, err
}

func (r *GormTokenRepository) RevokeAll(ctx context.Context, tokens []domain.Token) error {
	if len(tokens) == 0 {
		return nil
	}
	ids := make([]uint, 0, len(tokens))
	for _, t := range tokens {
		ids = append(ids, t.ID)
	}
	err := r.db.WithContext(ctx).Model(&domain.Token{}).
		Where("id IN ?", ids).
		Updates(map[string]any{"expired": true, "revoked": true}).Error
	observability.RecordRepositoryOperation(ctx, "token", "revoke_all", outcomeOf(err, nil))
	if err != nil {
		return err
	}
	for i := range tokens {
		tokens[i].Expired = true
		tokens[i].Revoked = true
	}
	return nil
}

func (r *GormTokenRepository) FindByToken(ctx context.Context, raw string) (*domain.Token, error) {
	var t domain.Token
	err := r.db.WithContext(ctx).Where("token = ?", raw).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = ErrTokenNotFound
	}
	observability.RecordRepositoryOperation(ctx, "token", "find_by_token", outcomeOf(err, ErrTokenNotFound))
	if err != nil {
		return nil, err
	}
	return &t, nil
}
