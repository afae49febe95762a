package otel

import (
	"context"
	"errors"
	"log/slog"
	"os"

	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.38.0"
)

// Setup installs the default slog handler and, when telemetry is enabled,
// the OTLP log, metric and trace providers.
func Setup(ctx context.Context, serviceName, serviceVersion string) error {
	level := slog.LevelInfo

	if EnableDebug {
		level = slog.LevelDebug
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))

	if !EnableTelemetry {
		return nil
	}

	resource, err := sdkresource.New(ctx,
		sdkresource.WithFromEnv(),
		sdkresource.WithTelemetrySDK(),
		sdkresource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)

	if err != nil {
		return err
	}

	return errors.Join(
		setupLogger(ctx, resource),
		setupMeter(ctx, resource),
		setupTracer(ctx, resource),
	)
}
