package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "chirpline/engagement"

// Tracer returns the tracer used for domain spans.
func Tracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

// TraceFeed starts a span for assembling one feed page.
func TraceFeed(ctx context.Context, view, viewerID string, limit int, hasCursor bool) (context.Context, trace.Span) {
	return Tracer().Start(ctx, "feed.get",
		trace.WithAttributes(
			attribute.String("feed.view", view),
			attribute.String("user.id", viewerID),
			attribute.Int("feed.limit", limit),
			attribute.Bool("feed.has_cursor", hasCursor),
		),
	)
}

// TraceAction starts a span for an engagement write such as "like" or
// "follow". targetID is the post or user acted on.
func TraceAction(ctx context.Context, action, actorID, targetID string) (context.Context, trace.Span) {
	return Tracer().Start(ctx, "engagement."+action,
		trace.WithAttributes(
			attribute.String("engagement.action", action),
			attribute.String("user.id", actorID),
			attribute.String("engagement.target_id", targetID),
		),
	)
}

// TraceNotification starts a span around persisting and fanning out one
// notification.
func TraceNotification(ctx context.Context, kind, recipientID string) (context.Context, trace.Span) {
	return Tracer().Start(ctx, "notification.emit",
		trace.WithAttributes(
			attribute.String("notification.kind", kind),
			attribute.String("notification.recipient_id", recipientID),
		),
	)
}

// End records err on span, if any, and ends it.
func End(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
