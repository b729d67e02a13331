package requestctx

import (
	"context"
	"testing"
)

func TestIdentityRoundTrip(t *testing.T) {
	ctx := WithIdentity(context.Background(), Identity{Email: "a@example.com", Role: "attendee"})

	id, ok := IdentityFromContext(ctx)
	if !ok {
		t.Fatal("expected identity in context")
	}
	if id.Email != "a@example.com" || id.Role != "attendee" {
		t.Fatalf("unexpected identity: %+v", id)
	}
	if got := EmailFromContext(ctx); got != "a@example.com" {
		t.Fatalf("expected email, got %q", got)
	}
}

func TestIdentityMissing(t *testing.T) {
	if _, ok := IdentityFromContext(context.Background()); ok {
		t.Fatal("expected no identity")
	}
	if got := EmailFromContext(nil); got != "" {
		t.Fatalf("expected empty email, got %q", got)
	}
}

func TestRequestID(t *testing.T) {
	ctx := WithRequestID(nil, "req-1")
	if got := RequestIDFromContext(ctx); got != "req-1" {
		t.Fatalf("expected req-1, got %q", got)
	}
	if got := RequestIDFromContext(context.Background()); got != "" {
		t.Fatalf("expected empty request id, got %q", got)
	}
}
