package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/baggage"
	"go.opentelemetry.io/otel/trace"
)

const CorrelationIDHeader = "X-Correlation-ID"

// CorrelationMiddleware propagates a correlation id across requests of one
// business transaction. It falls back to the request id, so it must run
// after RequestIDMiddleware. The id is put in trace baggage so background
// work such as notification emission keeps it.
func CorrelationMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		correlationID := c.GetHeader(CorrelationIDHeader)
		if correlationID == "" {
			correlationID = c.GetString("request_id")
		}

		c.Set("correlation_id", correlationID)
		c.Header(CorrelationIDHeader, correlationID)

		if correlationID != "" {
			span := trace.SpanFromContext(c.Request.Context())
			if span.IsRecording() {
				span.SetAttributes(attribute.String("trace.correlation_id", correlationID))
			}

			if member, err := baggage.NewMember("correlation_id", correlationID); err == nil {
				if b, err := baggage.New(member); err == nil {
					c.Request = c.Request.WithContext(baggage.ContextWithBaggage(c.Request.Context(), b))
				}
			}
		}

		c.Next()
	}
}

// GetCorrelationIDFromContext extracts correlation ID from context
func GetCorrelationIDFromContext(ctx context.Context) string {
	return baggage.FromContext(ctx).Member("correlation_id").Value()
}
