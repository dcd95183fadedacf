package domain

import "context"

const (
	RequesterIdCtxKey = "plopper-requesterId"
)

// RequesterID extracts the authenticated user id from the request context.
// The second return is false when no user is active.
func RequesterID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(RequesterIdCtxKey).(string)
	return v, ok && v != ""
}
