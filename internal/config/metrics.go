package config

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	loadMetricsOnce sync.Once
	loadCounter     metric.Int64Counter
)

// loadOutcome describes one Load call: the stage that stopped it and the
// first variable to blame.
type loadOutcome struct {
	Stage string
	Key   string
}

func describeLoadError(err error) loadOutcome {
	var (
		envErr   *EnvFileError
		parseErr *ParseError
		valErr   *ValidationError
	)
	switch {
	case err == nil:
		return loadOutcome{Stage: "none", Key: "none"}
	case errors.As(err, &envErr):
		return loadOutcome{Stage: "env_file", Key: "none"}
	case errors.As(err, &parseErr):
		return loadOutcome{Stage: "parse", Key: parseErr.Key}
	case errors.As(err, &valErr) && len(valErr.Problems) > 0:
		return loadOutcome{Stage: "validation", Key: valErr.Problems[0].Key}
	default:
		return loadOutcome{Stage: "unknown", Key: "none"}
	}
}

// recordLoadEvent counts config.load.events per APP_ENV, stage and key.
func recordLoadEvent(ctx context.Context, profile string, err error) {
	loadMetricsOnce.Do(func() {
		counter, cerr := otel.Meter("github.com/k-javaman/my-practices/config").Int64Counter("config.load.events")
		if cerr == nil {
			loadCounter = counter
		}
	})
	if loadCounter == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	d := describeLoadError(err)
	loadCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("app_env", appEnvLabel(profile)),
		attribute.String("outcome", outcome),
		attribute.String("stage", d.Stage),
		attribute.String("key", strings.ToLower(d.Key)),
	))
}

func appEnvLabel(profile string) string {
	switch v := strings.ToLower(strings.TrimSpace(profile)); v {
	case "":
		return "unknown"
	case "development", "test", "staging", "production":
		return v
	default:
		return "other"
	}
}
