package smoke

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/brianvoe/gofakeit/v7"
)

type Result struct {
	Name     string        `json:"name"`
	OK       bool          `json:"ok"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration_ns"`
}

type step struct {
	name string
	run  func(ctx context.Context, s *session) error
}

type session struct {
	c        *client
	email    string
	password string
	first    string
	second   string
}

// lifecycle walks one fresh account through register, re-authenticate and
// logout, checking that every superseded token stops working.
var lifecycle = []step{
	{"liveness", func(ctx context.Context, s *session) error {
		return s.c.expect(ctx, http.MethodGet, "/health/live", "", http.StatusOK)
	}},
	{"readiness", func(ctx context.Context, s *session) error {
		return s.c.expect(ctx, http.MethodGet, "/health/ready", "", http.StatusOK)
	}},
	{"register", func(ctx context.Context, s *session) (err error) {
		s.first, err = s.c.token(ctx, "/api/v1/auth/register", map[string]string{
			"firstname": "Smoke",
			"lastname":  "Test",
			"email":     s.email,
			"password":  s.password,
		})
		return err
	}},
	{"duplicate register rejected", func(ctx context.Context, s *session) error {
		status, env, err := s.c.do(ctx, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
			"email": s.email, "password": s.password,
		})
		if err != nil {
			return err
		}
		if status != http.StatusConflict {
			return unexpected("/api/v1/auth/register", http.StatusConflict, status, env)
		}
		return nil
	}},
	{"me with registration token", func(ctx context.Context, s *session) error {
		return s.c.expect(ctx, http.MethodGet, "/api/v1/me", s.first, http.StatusOK)
	}},
	{"authenticate", func(ctx context.Context, s *session) (err error) {
		s.second, err = s.c.token(ctx, "/api/v1/auth/authenticate", map[string]string{
			"email": s.email, "password": s.password,
		})
		if err == nil && s.second == s.first {
			err = fmt.Errorf("authenticate returned the previous token")
		}
		return err
	}},
	{"superseded token rejected", func(ctx context.Context, s *session) error {
		return s.c.expect(ctx, http.MethodGet, "/api/v1/me", s.first, http.StatusUnauthorized)
	}},
	{"people page", func(ctx context.Context, s *session) error {
		return s.c.expect(ctx, http.MethodGet, "/api/v1/people?page=1&page_size=5&sort_by=last_name", s.second, http.StatusOK)
	}},
	{"wrong password rejected", func(ctx context.Context, s *session) error {
		status, env, err := s.c.do(ctx, http.MethodPost, "/api/v1/auth/authenticate", "", map[string]string{
			"email": s.email, "password": s.password + "x",
		})
		if err != nil {
			return err
		}
		if status != http.StatusUnauthorized {
			return unexpected("/api/v1/auth/authenticate", http.StatusUnauthorized, status, env)
		}
		return nil
	}},
	{"logout", func(ctx context.Context, s *session) error {
		return s.c.expect(ctx, http.MethodPost, "/api/v1/auth/logout", s.second, http.StatusOK)
	}},
	{"logged out token rejected", func(ctx context.Context, s *session) error {
		return s.c.expect(ctx, http.MethodGet, "/api/v1/me", s.second, http.StatusUnauthorized)
	}},
}

// Run executes the lifecycle in order and stops at the first failure.
func Run(ctx context.Context, baseURL string, seed uint64) ([]Result, error) {
	c, err := newClient(baseURL, 10*time.Second)
	if err != nil {
		return nil, err
	}
	f := gofakeit.New(seed)
	s := &session{
		c:        c,
		email:    fmt.Sprintf("smoke-%d-%s", time.Now().UnixNano(), f.Email()),
		password: f.Password(true, true, true, false, false, 16),
	}

	results := make([]Result, 0, len(lifecycle))
	for _, st := range lifecycle {
		start := time.Now()
		err := st.run(ctx, s)
		r := Result{Name: st.name, OK: err == nil, Duration: time.Since(start)}
		if err != nil {
			r.Error = err.Error()
			results = append(results, r)
			return results, fmt.Errorf("%s: %w", st.name, err)
		}
		results = append(results, r)
	}
	return results, nil
}
