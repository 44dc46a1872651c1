package observability

import (
	"context"
	"errors"
	"log/slog"

	"github.com/k-javaman/my-practices/internal/config"

	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

type Runtime struct {
	MeterProvider  *sdkmetric.MeterProvider
	TracerProvider *sdktrace.TracerProvider
	LoggerProvider *sdklog.LoggerProvider
}

var (
	initMetrics = InitMetrics
	initTracing = InitTracing
)

// InitRuntime owns lp from the moment it is called: on failure lp is shut
// down together with anything already started.
func InitRuntime(ctx context.Context, cfg *config.Config, logger *slog.Logger, lp *sdklog.LoggerProvider) (*Runtime, error) {
	mp, err := initMetrics(ctx, cfg, logger)
	if err != nil {
		return nil, errors.Join(err, (&Runtime{LoggerProvider: lp}).Shutdown(ctx))
	}
	tp, err := initTracing(ctx, cfg, logger)
	if err != nil {
		return nil, errors.Join(err, (&Runtime{MeterProvider: mp, LoggerProvider: lp}).Shutdown(ctx))
	}
	return &Runtime{MeterProvider: mp, TracerProvider: tp, LoggerProvider: lp}, nil
}

func (r *Runtime) Shutdown(ctx context.Context) error {
	if r == nil {
		return nil
	}
	var errs []error
	if r.MeterProvider != nil {
		if err := r.MeterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if r.TracerProvider != nil {
		if err := r.TracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if r.LoggerProvider != nil {
		if err := r.LoggerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
