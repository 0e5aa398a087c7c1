package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/roozanaryal/TwitterClone-sub000/internal/util"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracingMiddleware wraps otelgin and adds viewer and feed attributes to
// the server span.
func TracingMiddleware(serviceName string) gin.HandlerFunc {
	base := otelgin.Middleware(serviceName)

	return func(c *gin.Context) {
		base(c)

		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}

		if userID := c.GetString(util.UserIDKey); userID != "" {
			span.SetAttributes(attribute.String("user.id", userID))
		}
		if view := c.Param("view"); view != "" {
			span.SetAttributes(attribute.String("feed.view", view))
		}
		if limit := c.Query("limit"); limit != "" {
			span.SetAttributes(attribute.String("query.limit", limit))
		}

		for _, ginErr := range c.Errors {
			span.RecordError(ginErr.Err)
			span.SetStatus(codes.Error, ginErr.Error())
		}
	}
}
