package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/k-javaman/my-practices/internal/domain"
	"github.com/k-javaman/my-practices/internal/events"
	"github.com/k-javaman/my-practices/internal/repository"
	"github.com/k-javaman/my-practices/internal/security"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []events.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Type, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type authFixture struct {
	db        *gorm.DB
	users     repository.UserRepository
	tokens    repository.TokenRepository
	tokenSvc  *TokenService
	auth      *AuthService
	publisher *recordingPublisher
}

func newAuthFixture(t *testing.T) authFixture {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Token{}))

	codec, err := security.NewTokenCodec(base64.StdEncoding.EncodeToString([]byte(strings.Repeat("q", 32))), time.Hour)
	require.NoError(t, err)

	users := repository.NewUserRepository(db)
	tokens := repository.NewTokenRepository(db)
	tokenSvc := NewTokenService(codec, tokens)
	pub := &recordingPublisher{}
	return authFixture{
		db:        db,
		users:     users,
		tokens:    tokens,
		tokenSvc:  tokenSvc,
		auth:      NewAuthService(users, tokenSvc, NewCredentialVerifier(users), pub),
		publisher: pub,
	}
}

func (f authFixture) register(t *testing.T, email, password string) *AuthResult {
	t.Helper()
	res, err := f.auth.Register(t.Context(), RegisterInput{Firstname: "Grace", Lastname: "Hopper", Email: email, Password: password})
	require.NoError(t, err)
	return res
}
