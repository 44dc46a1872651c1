package domain

import "time"

type TokenType string

const TokenTypeBearer TokenType = "BEARER"

// Token is one issued credential. Rows are flagged, never deleted.
type Token struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Token     string    `gorm:"size:1024;uniqueIndex;not null" json:"-"`
	TokenType TokenType `gorm:"size:16;not null;default:BEARER" json:"token_type"`
	Expired   bool      `gorm:"not null;default:false" json:"expired"`
	Revoked   bool      `gorm:"not null;default:false" json:"revoked"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Usable reports whether neither flag has been set.
func (t Token) Usable() bool {
	return !t.Expired && !t.Revoked
}
