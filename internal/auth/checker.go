package auth

import (
	"context"
	"fmt"
)

// AdminCheckerInterface reports whether a Telegram chat or user is the
// support admin.
type AdminCheckerInterface interface {
	IsAdmin(ctx context.Context, id int64) (bool, error)
}

// AdminChecker compares ids against the configured admin chat. Feedback is
// forwarded to that chat and answers are only accepted from it.
type AdminChecker struct {
	adminID int64
}

// NewAdminChecker creates a new AdminChecker. The admin id cannot be zero.
func NewAdminChecker(adminID int64) (*AdminChecker, error) {
	if adminID == 0 {
		return nil, fmt.Errorf("admin ID cannot be zero")
	}
	return &AdminChecker{adminID: adminID}, nil
}

// IsAdmin reports whether id is the admin chat.
func (ac *AdminChecker) IsAdmin(_ context.Context, id int64) (bool, error) {
	return id == ac.adminID, nil
}

// AdminID returns the configured admin chat id.
func (ac *AdminChecker) AdminID() int64 {
	return ac.adminID
}
