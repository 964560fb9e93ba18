package otel

import (
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// RecordError marks span as failed and tags the event with the concrete
// error type.
func RecordError(err error, span trace.Span) {
	if err == nil {
		return
	}
	span.RecordError(err, trace.WithAttributes(attribute.String("error.type", fmt.Sprintf("%T", err))))
	span.SetStatus(codes.Error, err.Error())
}
