package user

import (
	"context"

	"CareSync/healthcare-backend/internal"
)

// GetFromContext retrieves the authenticated user placed in the context by
// the JWT middleware.
func GetFromContext(ctx context.Context) (User, bool) {
	u, ok := ctx.Value(internal.UserContextKey).(User)
	return u, ok
}
