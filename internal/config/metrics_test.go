package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribeLoadError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want loadOutcome
	}{
		{"success", nil, loadOutcome{Stage: "none", Key: "none"}},
		{"env file", &EnvFileError{Path: ".env", Err: errors.New("unexpected character")}, loadOutcome{Stage: "env_file", Key: "none"}},
		{"parse", &ParseError{Key: "JWT_TTL", Err: errors.New("bad")}, loadOutcome{Stage: "parse", Key: "JWT_TTL"}},
		{"wrapped parse", fmt.Errorf("boot: %w", &ParseError{Key: "SEED_PEOPLE", Err: errors.New("bad")}), loadOutcome{Stage: "parse", Key: "SEED_PEOPLE"}},
		{"validation blames first key", &ValidationError{Problems: []Problem{{Key: "JWT_SECRET"}, {Key: "DATABASE_URL"}}}, loadOutcome{Stage: "validation", Key: "JWT_SECRET"}},
		{"foreign error", errors.New("boom"), loadOutcome{Stage: "unknown", Key: "none"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, describeLoadError(tc.err))
		})
	}
}

func TestLoadErrorsCarryTheirKey(t *testing.T) {
	t.Run("parse", func(t *testing.T) {
		t.Setenv("JWT_SECRET", testSecret())
		t.Setenv("API_RATE_LIMIT_RPM", "lots")
		_, err := Load("")
		var perr *ParseError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, "API_RATE_LIMIT_RPM", perr.Key)
	})
	t.Run("validation", func(t *testing.T) {
		t.Setenv("JWT_SECRET", testSecret())
		t.Setenv("DB_DRIVER", "mysql")
		t.Setenv("RATE_LIMIT_FAIL_MODE", "shrug")
		_, err := Load("")
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		keys := make([]string, len(verr.Problems))
		for i, p := range verr.Problems {
			keys[i] = p.Key
		}
		assert.Equal(t, []string{"DB_DRIVER", "RATE_LIMIT_FAIL_MODE"}, keys)
	})
	t.Run("env file", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "broken.env")
		require.NoError(t, os.WriteFile(file, []byte("BAD-KEY=1\n"), 0o600))
		_, err := Load(file)
		var eerr *EnvFileError
		require.ErrorAs(t, err, &eerr)
		assert.Equal(t, file, eerr.Path)
	})
}

func TestAppEnvLabel(t *testing.T) {
	assert.Equal(t, "production", appEnvLabel("  Production "))
	assert.Equal(t, "unknown", appEnvLabel(""))
	assert.Equal(t, "other", appEnvLabel("pr-1234"))
}
