package middleware

import (
	"context"

	"github.com/google/uuid"
)

type contextKey int

const (
	ctxUserID contextKey = iota
	ctxRequestMeta
)

// requestMeta is shared by pointer so the access log sees values set by inner middleware.
type requestMeta struct {
	userID string
}

func withRequestMeta(ctx context.Context) (context.Context, *requestMeta) {
	meta := &requestMeta{}
	return context.WithValue(ctx, ctxRequestMeta, meta), meta
}

func UserIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	v, _ := ctx.Value(ctxUserID).(string)
	return v
}

// UserUUIDFromContext returns the authenticated user id, if any.
func UserUUIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(UserIDFromContext(ctx))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// WithUserID marks the request as authenticated for downstream handlers and the access log.
func WithUserID(ctx context.Context, userID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if meta, ok := ctx.Value(ctxRequestMeta).(*requestMeta); ok {
		meta.userID = userID
	}
	return context.WithValue(ctx, ctxUserID, userID)
}
