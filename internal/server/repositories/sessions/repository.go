// Package sessions provides repositories for server-side session records
// keyed by their opaque token.
package sessions

import (
	"context"
	"time"

	"github.com/mlezhnev/moviehub/internal/server/models"
)

// Repository is the data-access contract for sessions. Lookups return
// common.ErrNotFound when the token does not match any record.
//
// ConsumeFlash must be atomic with respect to concurrent requests bearing the
// same token: a message is returned to exactly one caller.
type Repository interface {
	// Create persists a new session record.
	Create(ctx context.Context, session *models.Session) error

	// Get returns the session for the given token.
	Get(ctx context.Context, token string) (*models.Session, error)

	// Touch extends the session's sliding expiry.
	Touch(ctx context.Context, token string, renewedAt, expiresAt time.Time) error

	// Delete evicts the session.
	Delete(ctx context.Context, token string) error

	// SetFlash overwrites the pending message slot for the given kind
	// (models.FlashSuccess or models.FlashError).
	SetFlash(ctx context.Context, token, kind, message string) error

	// ConsumeFlash atomically returns the pending messages and clears them.
	ConsumeFlash(ctx context.Context, token string) (models.Flash, error)
}
