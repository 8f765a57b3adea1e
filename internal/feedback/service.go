// Package feedback implements the feedback session protocol: a user asks to
// leave feedback, submits it as a ticket, and later receives the admin's
// answer when that ticket is closed.
package feedback

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"ruble-bot/internal/metrics"
	"ruble-bot/internal/session"
)

// SubmitOutcome is the result of a feedback submission.
type SubmitOutcome string

const (
	SubmitCreated       SubmitOutcome = "created"
	SubmitAlreadyExists SubmitOutcome = "already_exists"
	SubmitFailed        SubmitOutcome = "failed"
	// SubmitNotAwaiting means the user never asked to leave feedback; nothing
	// was sent anywhere.
	SubmitNotAwaiting SubmitOutcome = "not_awaiting"
)

// ReplyOutcome is the result of closing a ticket with an admin reply.
type ReplyOutcome string

const (
	ReplyDeleted  ReplyOutcome = "deleted"
	ReplyNotFound ReplyOutcome = "not_found"
	ReplyFailed   ReplyOutcome = "failed"
)

// TicketBackend creates and deletes tickets. Both calls return the HTTP
// status, or an error when no response was received.
type TicketBackend interface {
	CreateTicket(ctx context.Context, userID int64, message string) (int, error)
	DeleteTicket(ctx context.Context, userID string) (int, error)
}

// AdminNotifier forwards a submission to the admin chat together with a
// way to answer it.
type AdminNotifier interface {
	NotifyFeedback(ctx context.Context, userID int64, text string) error
}

// Service drives the per-user feedback state machine.
type Service struct {
	store    session.Store
	backend  TicketBackend
	notifier AdminNotifier
	log      zerolog.Logger
}

// NewService creates a Service.
func NewService(store session.Store, backend TicketBackend, notifier AdminNotifier, log zerolog.Logger) *Service {
	return &Service{
		store:    store,
		backend:  backend,
		notifier: notifier,
		log:      log.With().Str("component", "feedback").Logger(),
	}
}

// RequestFeedback moves the user to the awaiting state.
func (s *Service) RequestFeedback(ctx context.Context, userID int64) error {
	if err := s.store.StartFeedback(ctx, userID); err != nil {
		return fmt.Errorf("start feedback session: %w", err)
	}
	s.log.Debug().Int64("user_id", userID).Msg("awaiting feedback")
	return nil
}

// Cancel returns the user to idle. It reports whether a session was open;
// cancelling an idle user changes nothing.
func (s *Service) Cancel(ctx context.Context, userID int64) (bool, error) {
	awaiting, err := s.store.IsAwaitingFeedback(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("check feedback session: %w", err)
	}
	if !awaiting {
		return false, nil
	}
	if err := s.store.EndFeedback(ctx, userID); err != nil {
		return true, fmt.Errorf("end feedback session: %w", err)
	}
	s.log.Debug().Int64("user_id", userID).Msg("feedback cancelled")
	return true, nil
}

// IsAwaiting reports whether the user is composing feedback.
func (s *Service) IsAwaiting(ctx context.Context, userID int64) (bool, error) {
	return s.store.IsAwaitingFeedback(ctx, userID)
}

// Submit turns text into a ticket. While awaiting it notifies the admin,
// creates the ticket and then always ends the session, whatever the backend
// answered. The returned error only reports session store failures; backend
// failures are folded into SubmitFailed.
func (s *Service) Submit(ctx context.Context, userID int64, text string) (SubmitOutcome, error) {
	log := s.log.With().Int64("user_id", userID).Logger()

	awaiting, err := s.store.IsAwaitingFeedback(ctx, userID)
	if err != nil {
		return SubmitFailed, fmt.Errorf("check feedback session: %w", err)
	}
	if !awaiting {
		return SubmitNotAwaiting, nil
	}

	log.Info().Str("text", text).Msg("feedback submitted")
	if err := s.notifier.NotifyFeedback(ctx, userID, text); err != nil {
		log.Error().Err(err).Msg("failed to notify admin")
	}

	status, err := s.backend.CreateTicket(ctx, userID, text)
	outcome := classifyCreate(status, err)
	if err != nil {
		log.Error().Err(err).Msg("create ticket failed")
	}
	metrics.FeedbackSubmissions.WithLabelValues(string(outcome)).Inc()
	log.Info().Int("status", status).Str("outcome", string(outcome)).Msg("ticket create finished")

	if err := s.store.EndFeedback(ctx, userID); err != nil {
		return outcome, fmt.Errorf("end feedback session: %w", err)
	}
	return outcome, nil
}

// Reply closes the ticket addressed by env. Session state is not touched:
// the ticket and the feedback session are tracked independently.
func (s *Service) Reply(ctx context.Context, env Envelope) ReplyOutcome {
	log := s.log.With().Str("user_id", env.UserID).Logger()

	status, err := s.backend.DeleteTicket(ctx, env.UserID)
	outcome := classifyDelete(status, err)
	if err != nil {
		log.Error().Err(err).Msg("delete ticket failed")
	}
	metrics.AdminReplies.WithLabelValues(string(outcome)).Inc()
	log.Info().Int("status", status).Str("outcome", string(outcome)).Msg("ticket delete finished")
	return outcome
}

func classifyCreate(status int, err error) SubmitOutcome {
	if err != nil {
		return SubmitFailed
	}
	switch status {
	case http.StatusCreated:
		return SubmitCreated
	case http.StatusConflict:
		return SubmitAlreadyExists
	default:
		return SubmitFailed
	}
}

func classifyDelete(status int, err error) ReplyOutcome {
	if err != nil {
		return ReplyFailed
	}
	switch status {
	case http.StatusOK:
		return ReplyDeleted
	case http.StatusNotFound:
		return ReplyNotFound
	default:
		return ReplyFailed
	}
}
