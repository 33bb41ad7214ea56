// Tracing instrumentation for the execution graph.
package graph

import (
	"context"

	"github.com/vinayprograms/agentkit/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// startTurnSpan starts a span for one turn invocation or resume.
func startTurnSpan(ctx context.Context, op, sessionID string) (context.Context, trace.Span) {
	tracer := telemetry.GetTracer()
	ctx, span := tracer.StartSpan(ctx, op)
	span.SetAttributes(
		attribute.String("session.id", sessionID),
	)
	return ctx, span
}

// startToolSpan starts a span for a single tool execution.
func startToolSpan(ctx context.Context, toolName string) (context.Context, trace.Span) {
	tracer := telemetry.GetTracer()
	ctx, span := tracer.StartSpan(ctx, "tool."+toolName)
	span.SetAttributes(
		attribute.String("tool.name", toolName),
	)
	return ctx, span
}

// startAgentSpan starts a span for a specialist delegation.
func startAgentSpan(ctx context.Context, agentName string) (context.Context, trace.Span) {
	tracer := telemetry.GetTracer()
	ctx, span := tracer.StartSpan(ctx, "agent."+agentName)
	span.SetAttributes(
		attribute.String("agent.name", agentName),
	)
	return ctx, span
}

// endSpan ends a span, recording the error if any.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
	}
	span.End()
}
