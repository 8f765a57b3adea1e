package handlers

import (
	"context"

	"ruble-bot/internal/feedback"
)

// FeedbackService is the feedback protocol as used by MessageHandler.
type FeedbackService interface {
	RequestFeedback(ctx context.Context, userID int64) error
	Cancel(ctx context.Context, userID int64) (bool, error)
	IsAwaiting(ctx context.Context, userID int64) (bool, error)
	Submit(ctx context.Context, userID int64, text string) (feedback.SubmitOutcome, error)
	Reply(ctx context.Context, env feedback.Envelope) feedback.ReplyOutcome
}
