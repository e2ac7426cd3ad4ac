package ports

import (
	"context"
	"time"
)

// Session is a logged-in principal bound to an opaque token.
type Session struct {
	Token     string
	Username  string
	Role      string
	ExpiresAt time.Time
}

// SessionStore keeps sessions across process restarts. Adapters may be
// backed by SQLite or an in-memory map.
type SessionStore interface {
	Put(ctx context.Context, session Session) error
	Get(ctx context.Context, token string) (session Session, found bool, err error)
	Delete(ctx context.Context, token string) error
	PurgeExpired(ctx context.Context, now time.Time) error
}
