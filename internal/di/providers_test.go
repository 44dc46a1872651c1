package di

import (
	"context"
	"encoding/base64"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/k-javaman/my-practices/internal/config"
	"github.com/k-javaman/my-practices/internal/events"
	"github.com/k-javaman/my-practices/internal/http/middleware"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		HTTPAddr:          "127.0.0.1:0",
		DBDriver:          "sqlite",
		DatabaseURL:       "file::memory:",
		JWTSecret:         base64.StdEncoding.EncodeToString([]byte(strings.Repeat("w", 32))),
		JWTTTL:            time.Hour,
		RateLimitBackend:  "local",
		RateLimitFailMode: "fail_open",
		AuthRateLimitRPM:  100,
		APIRateLimitRPM:   100,
		PrometheusEnabled: true,
		SeedPeople:        true,
		SeedPeopleCount:   10,
		SeedRandomSeed:    3,
		ShutdownTimeout:   time.Second,
	}
}

func TestInitializeAppServesHealth(t *testing.T) {
	cfg := testConfig(t)
	a, cleanup, err := InitializeApp(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	t.Cleanup(cleanup)

	rr := httptest.NewRecorder()
	a.Server.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected ready, got %d body=%s", rr.Code, rr.Body.String())
	}
	rr = httptest.NewRecorder()
	a.Server.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "go_goroutines") {
		t.Fatalf("expected prometheus output, got %d", rr.Code)
	}
}

func TestProvideLimiterSelectsBackend(t *testing.T) {
	cfg := testConfig(t)
	if _, ok := provideLimiter(cfg, nil).(*middleware.RedisLimiter); ok {
		t.Fatal("local backend should not use redis")
	}

	mr := miniredis.RunT(t)
	cfg.RedisURL = "redis://" + mr.Addr()
	cfg.RateLimitBackend = "redis"
	client, cleanup, err := provideRedis(cfg)
	if err != nil {
		t.Fatalf("redis: %v", err)
	}
	t.Cleanup(cleanup)
	if _, ok := provideLimiter(cfg, client).(*middleware.RedisLimiter); !ok {
		t.Fatal("redis backend expected")
	}
	if ready, results := provideReadiness(nil, client).Ready(context.Background()); ready {
		t.Fatalf("nil db must fail readiness: %+v", results)
	}
}

func TestProvidePublisherDefaultsToNoop(t *testing.T) {
	p, cleanup := providePublisher(testConfig(t), slog.New(slog.NewTextHandler(io.Discard, nil)))
	defer cleanup()
	if _, ok := p.(events.NoopPublisher); !ok {
		t.Fatalf("expected noop publisher, got %T", p)
	}
}

func TestSeedTaskDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.SeedPeople = false
	if task := provideSeedTask(cfg, slog.Default(), nil); task != nil {
		t.Fatal("expected no seed task")
	}
}
