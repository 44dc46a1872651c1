package main

import (
	"bytes"
	"encoding/base64"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/k-javaman/my-practices/internal/config"
	"github.com/k-javaman/my-practices/internal/di"
	"github.com/k-javaman/my-practices/internal/domain"
	"github.com/k-javaman/my-practices/internal/repository"
)

func setupPromoteEnv(t *testing.T) repository.UserRepository {
	t.Helper()
	t.Setenv("JWT_SECRET", base64.StdEncoding.EncodeToString([]byte(strings.Repeat("s", 32))))
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", "file:"+filepath.Join(t.TempDir(), "auth.db"))
	t.Setenv("LOG_LEVEL", "error")

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	users, cleanup, err := di.InitializeUserRepository(cfg)
	if err != nil {
		t.Fatalf("open users: %v", err)
	}
	t.Cleanup(cleanup)
	return users
}

func runAPI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--env-file", ""}, args...))
	err := root.ExecuteContext(t.Context())
	return out.String(), err
}

func TestPromoteCommandGrantsAdmin(t *testing.T) {
	users := setupPromoteEnv(t)
	if err := users.Create(t.Context(), &domain.User{Email: "root@example.com", Password: "hash"}); err != nil {
		t.Fatalf("create user: %v", err)
	}

	out, err := runAPI(t, "promote", "--email", "root@example.com")
	if err != nil {
		t.Fatalf("promote: %v", err)
	}
	if !strings.Contains(out, "root@example.com is now ADMIN") {
		t.Fatalf("unexpected output %q", out)
	}
	u, err := users.FindByEmail(t.Context(), "root@example.com")
	if err != nil || u.Role != domain.RoleAdmin {
		t.Fatalf("expected ADMIN row, got %+v %v", u, err)
	}

	if _, err := runAPI(t, "promote", "--email", "root@example.com", "--role", "user"); err != nil {
		t.Fatalf("demote: %v", err)
	}
	u, _ = users.FindByEmail(t.Context(), "root@example.com")
	if u.Role != domain.RoleUser {
		t.Fatalf("expected USER after demotion, got %q", u.Role)
	}
}

func TestPromoteCommandRejectsUnknownUserAndRole(t *testing.T) {
	setupPromoteEnv(t)

	if _, err := runAPI(t, "promote", "--email", "ghost@example.com"); !errors.Is(err, repository.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := runAPI(t, "promote", "--email", "ghost@example.com", "--role", "OWNER"); err == nil || !strings.Contains(err.Error(), "unknown role") {
		t.Fatalf("expected unknown role error, got %v", err)
	}
	if _, err := runAPI(t, "promote"); err == nil {
		t.Fatal("expected missing --email to fail")
	}
}
