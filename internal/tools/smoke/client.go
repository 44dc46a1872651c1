package smoke

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

type client struct {
	base *url.URL
	http *http.Client
}

func newClient(baseURL string, timeout time.Duration) (*client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}
	return &client{base: u, http: &http.Client{Timeout: timeout}}, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *client) do(ctx context.Context, method, path, token string, body any) (int, envelope, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, envelope{}, err
		}
		reader = bytes.NewReader(b)
	}
	rel, err := url.Parse(path)
	if err != nil {
		return 0, envelope{}, err
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base.ResolveReference(rel).String(), reader)
	if err != nil {
		return 0, envelope{}, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, envelope{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return resp.StatusCode, envelope{}, err
	}
	var env envelope
	if len(raw) > 0 && resp.Header.Get("Content-Type") == "application/json" {
		if err := json.Unmarshal(raw, &env); err != nil {
			return resp.StatusCode, envelope{}, fmt.Errorf("decode %s %s: %w", method, path, err)
		}
	}
	return resp.StatusCode, env, nil
}

func (c *client) token(ctx context.Context, path string, body any) (string, error) {
	status, env, err := c.do(ctx, http.MethodPost, path, "", body)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", unexpected(path, http.StatusOK, status, env)
	}
	var payload struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(env.Data, &payload); err != nil || payload.Token == "" {
		return "", fmt.Errorf("%s: response carried no token", path)
	}
	return payload.Token, nil
}

func (c *client) expect(ctx context.Context, method, path, token string, want int) error {
	status, env, err := c.do(ctx, method, path, token, nil)
	if err != nil {
		return err
	}
	if status != want {
		return unexpected(path, want, status, env)
	}
	return nil
}

func unexpected(path string, want, got int, env envelope) error {
	if env.Error != nil {
		return fmt.Errorf("%s: expected %d, got %d (%s)", path, want, got, env.Error.Code)
	}
	return fmt.Errorf("%s: expected %d, got %d", path, want, got)
}
