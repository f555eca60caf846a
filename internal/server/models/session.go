package models

import "time"

// Flash kinds. A session carries at most one pending message per kind.
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// Flash holds the pending one-shot messages of a session. Empty string means
// no message of that kind is pending.
type Flash struct {
	Success string
	Error   string
}

// Empty reports whether no message is pending.
func (f Flash) Empty() bool {
	return f.Success == "" && f.Error == ""
}

// Session is a server-side authentication record keyed by an opaque token.
// RenewedAt records the last sliding-expiry extension; the expiry is pushed
// out at most once per touch interval, not on every read.
type Session struct {
	Token     string
	UserID    string
	Username  string
	CreatedAt time.Time
	RenewedAt time.Time
	ExpiresAt time.Time
	Flash     Flash
}
