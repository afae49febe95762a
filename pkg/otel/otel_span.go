package otel

import (
	"errors"

	"github.com/adrianliechti/sketchify/pkg/provider"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	var serviceErr *provider.ServiceError

	if errors.As(err, &serviceErr) {
		span.SetAttributes(
			String("error.type", string(serviceErr.Kind)),
			Int("http.response.status_code", serviceErr.Status),
		)
	}
}
