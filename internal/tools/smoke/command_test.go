package smoke

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/k-javaman/my-practices/internal/config"
	"github.com/k-javaman/my-practices/internal/di"
)

func newAPIServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := &config.Config{
		HTTPAddr:          "127.0.0.1:0",
		DBDriver:          "sqlite",
		DatabaseURL:       "file::memory:",
		JWTSecret:         base64.StdEncoding.EncodeToString([]byte(strings.Repeat("z", 32))),
		JWTTTL:            time.Hour,
		RateLimitBackend:  "local",
		RateLimitFailMode: "fail_open",
		AuthRateLimitRPM:  1000,
		APIRateLimitRPM:   1000,
	}
	a, cleanup, err := di.InitializeApp(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
	if err != nil {
		t.Fatalf("initialize app: %v", err)
	}
	t.Cleanup(cleanup)
	srv := httptest.NewServer(a.Server.Handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestRunPassesAgainstLiveRouter(t *testing.T) {
	srv := newAPIServer(t)
	results, err := Run(context.Background(), srv.URL, 11)
	if err != nil {
		t.Fatalf("smoke run failed: %v results=%+v", err, results)
	}
	if len(results) != len(lifecycle) {
		t.Fatalf("expected %d results, got %d", len(lifecycle), len(results))
	}
}

func TestRunStopsAtFirstFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	results, err := Run(context.Background(), srv.URL, 1)
	if err == nil {
		t.Fatal("expected failure")
	}
	if len(results) != 1 || results[0].OK {
		t.Fatalf("expected a single failed result, got %+v", results)
	}
}

func TestRunCommandCIOutput(t *testing.T) {
	srv := newAPIServer(t)
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"run", "--ci", "--env-file", "", "--base-url", srv.URL})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	var got ciResult
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("decode ci output: %v (%s)", err, out.String())
	}
	if !got.OK || len(got.Results) == 0 {
		t.Fatalf("unexpected ci result %+v", got)
	}
}

func TestRunCommandReportsCheckFailure(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"run", "--env-file", "", "--base-url", "http://127.0.0.1:1", "--timeout", "2s"})
	err := cmd.Execute()
	if !IsCheckFailure(err) {
		t.Fatalf("expected check failure, got %v", err)
	}
}

func TestNewClientRejectsRelativeURL(t *testing.T) {
	if _, err := newClient("localhost:8080", time.Second); err == nil {
		t.Fatal("expected error for relative url")
	}
}

func TestProgressModelQuitsWhenDone(t *testing.T) {
	m := progressModel{title: "t"}
	next, cmd := m.Update(tickMsg{})
	if next.(progressModel).frame != 1 || cmd == nil {
		t.Fatal("tick should advance the spinner")
	}
	want := []Result{{Name: "liveness", OK: true}}
	next, cmd = next.Update(doneMsg{results: want})
	fm := next.(progressModel)
	if !fm.done || len(fm.results) != 1 || cmd == nil {
		t.Fatalf("done message should finish the model: %+v", fm)
	}
	if fm.View() != "" {
		t.Fatal("finished model renders nothing")
	}
}

func TestRenderHumanMarksFailures(t *testing.T) {
	var buf bytes.Buffer
	renderHuman(&buf, "smoke", []Result{{Name: "liveness", OK: true}, {Name: "register", Error: "boom"}}, errChecksFailed)
	out := buf.String()
	for _, want := range []string{"PASS", "FAIL", "boom", "smoke failed"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}
