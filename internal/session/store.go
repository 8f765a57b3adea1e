// Package session tracks which users are currently composing feedback.
package session

import "context"

// Store records, per user, whether the bot is waiting for that user's feedback.
// A user without an entry is never awaiting feedback. Implementations must be
// safe for concurrent use and linearizable per user.
type Store interface {
	// StartFeedback marks the user as awaiting feedback. Idempotent.
	StartFeedback(ctx context.Context, userID int64) error
	// IsAwaitingFeedback reports the current flag, false when no entry exists.
	IsAwaitingFeedback(ctx context.Context, userID int64) (bool, error)
	// EndFeedback removes the entry. Ending a missing entry is a no-op.
	EndFeedback(ctx context.Context, userID int64) error
}
