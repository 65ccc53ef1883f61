package auth

import (
	"context"
	"testing"
)

func TestUserIDFromContext(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	if got := UserIDFromContext(ctx); got != "" {
		t.Errorf("UserIDFromContext on empty context = %q, want empty", got)
	}

	ctx = ContextWithUserID(ctx, "user-1")
	if got := UserIDFromContext(ctx); got != "user-1" {
		t.Errorf("UserIDFromContext = %q, want user-1", got)
	}
}
