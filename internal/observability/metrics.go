package observability

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/k-javaman/my-practices/internal/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

const meterName = "github.com/k-javaman/my-practices"

type AppMetrics struct {
	authAttempts     metric.Int64Counter
	gateDecisions    metric.Int64Counter
	repoOperations   metric.Int64Counter
	rateLimitChecks  metric.Int64Counter
	eventPublishes   metric.Int64Counter
	seededPeopleRows metric.Int64Counter
}

var (
	metricsMu  sync.RWMutex
	appMetrics *AppMetrics
)

func InitMetrics(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*sdkmetric.MeterProvider, error) {
	if !cfg.OTELMetricsEnabled {
		mp := sdkmetric.NewMeterProvider()
		otel.SetMeterProvider(mp)
		logger.Info("otel metrics disabled")
		return mp, nil
	}

	opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(cfg.OTELExporterOTLPEndpoint)}
	if cfg.OTELExporterOTLPInsecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}
	exporter, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create otlp metric exporter: %w", err)
	}
	res, err := newResource(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create metric resource: %w", err)
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(cfg.OTELMetricsExportInterval))
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
	)
	otel.SetMeterProvider(mp)

	m, err := newAppMetrics(mp.Meter(meterName))
	if err != nil {
		return nil, err
	}
	metricsMu.Lock()
	appMetrics = m
	metricsMu.Unlock()

	logger.Info("otel metrics initialized", "endpoint", cfg.OTELExporterOTLPEndpoint)
	return mp, nil
}

// UseMeterProvider installs instruments from an existing provider. Tests pass
// a provider backed by a manual reader.
func UseMeterProvider(mp metric.MeterProvider) error {
	m, err := newAppMetrics(mp.Meter(meterName))
	if err != nil {
		return err
	}
	metricsMu.Lock()
	appMetrics = m
	metricsMu.Unlock()
	return nil
}

func newAppMetrics(meter metric.Meter) (*AppMetrics, error) {
	authAttempts, err := meter.Int64Counter("auth.attempts")
	if err != nil {
		return nil, err
	}
	gateDecisions, err := meter.Int64Counter("auth.gate.decisions")
	if err != nil {
		return nil, err
	}
	repoOperations, err := meter.Int64Counter("repository.operations")
	if err != nil {
		return nil, err
	}
	rateLimitChecks, err := meter.Int64Counter("ratelimit.decisions")
	if err != nil {
		return nil, err
	}
	eventPublishes, err := meter.Int64Counter("events.publish")
	if err != nil {
		return nil, err
	}
	seeded, err := meter.Int64Counter("seed.people.rows")
	if err != nil {
		return nil, err
	}
	return &AppMetrics{
		authAttempts:     authAttempts,
		gateDecisions:    gateDecisions,
		repoOperations:   repoOperations,
		rateLimitChecks:  rateLimitChecks,
		eventPublishes:   eventPublishes,
		seededPeopleRows: seeded,
	}, nil
}

func current() *AppMetrics {
	metricsMu.RLock()
	defer metricsMu.RUnlock()
	return appMetrics
}

// RecordAuthAttempt counts register, authenticate and logout outcomes.
func RecordAuthAttempt(ctx context.Context, operation, status string) {
	m := current()
	if m == nil {
		return
	}
	m.authAttempts.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("status", status),
	))
}

func RecordGateDecision(ctx context.Context, outcome string) {
	m := current()
	if m == nil {
		return
	}
	m.gateDecisions.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

func RecordRepositoryOperation(ctx context.Context, repo, operation, outcome string) {
	m := current()
	if m == nil {
		return
	}
	m.repoOperations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("repository", repo),
		attribute.String("operation", operation),
		attribute.String("outcome", outcome),
	))
}

func RecordRateLimitDecision(ctx context.Context, scope, outcome, mode string) {
	m := current()
	if m == nil {
		return
	}
	m.rateLimitChecks.Add(ctx, 1, metric.WithAttributes(
		attribute.String("scope", scope),
		attribute.String("outcome", outcome),
		attribute.String("mode", mode),
	))
}

func RecordEventPublish(ctx context.Context, eventType, outcome string) {
	m := current()
	if m == nil {
		return
	}
	m.eventPublishes.Add(ctx, 1, metric.WithAttributes(
		attribute.String("type", eventType),
		attribute.String("outcome", outcome),
	))
}

func RecordSeededPeople(ctx context.Context, n int) {
	m := current()
	if m == nil || n <= 0 {
		return
	}
	m.seededPeopleRows.Add(ctx, int64(n))
}

func newResource(ctx context.Context, cfg *config.Config) (*resource.Resource, error) {
	return resource.New(ctx,
		resource.WithAttributes(
			attribute.String("service.name", cfg.OTELServiceName),
			attribute.String("deployment.environment", cfg.OTELEnvironment),
		),
	)
}
