package common

import (
	"context"
	"testing"
)

func TestUserContextRoundTrip(t *testing.T) {
	uc := &UserContext{UserID: "u-1", Email: "alice@example.com", KYCStatus: "pending"}
	ctx := WithUserContext(context.Background(), uc)

	got := UserContextFromContext(ctx)
	if got == nil {
		t.Fatal("expected user context, got nil")
	}
	if got.UserID != "u-1" || got.Email != "alice@example.com" {
		t.Errorf("unexpected user context: %+v", got)
	}
}

func TestUserContextAbsent(t *testing.T) {
	if uc := UserContextFromContext(context.Background()); uc != nil {
		t.Errorf("expected nil user context, got %+v", uc)
	}
	if id := ResolveUserID(context.Background()); id != "" {
		t.Errorf("expected empty user id, got %q", id)
	}
}

func TestResolveUserID(t *testing.T) {
	ctx := WithUserContext(context.Background(), &UserContext{UserID: "u-2"})
	if id := ResolveUserID(ctx); id != "u-2" {
		t.Errorf("expected u-2, got %q", id)
	}
}
