package services_test

import (
	"context"
	"testing"

	"ddpsdk/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithInvocationID(ctx, "inv-123")
	ctx = services.WithMode(ctx, "process")
	ctx = services.WithOperation(ctx, "process_from_bytes")

	if id, ok := services.InvocationIDFromContext(ctx); !ok || id != "inv-123" {
		t.Fatalf("unexpected invocation id: %v %v", id, ok)
	}
	if mode, ok := services.ModeFromContext(ctx); !ok || mode != "process" {
		t.Fatalf("unexpected mode: %v %v", mode, ok)
	}
	if op, ok := services.OperationFromContext(ctx); !ok || op != "process_from_bytes" {
		t.Fatalf("unexpected operation: %v %v", op, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithMode(ctx, "")
	ctx = services.WithInvocationID(ctx, "")
	if _, ok := services.ModeFromContext(ctx); ok {
		t.Fatal("expected no mode value")
	}
	if _, ok := services.InvocationIDFromContext(ctx); ok {
		t.Fatal("expected no invocation id value")
	}
}
