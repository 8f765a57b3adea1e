// Package tickets talks to the backend that owns support tickets.
package tickets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"ruble-bot/internal/metrics"
)

const (
	operationCreate = "create"
	operationDelete = "delete"
)

// Client calls the ticket route of the backend. Every call is a single
// synchronous attempt; the caller interprets the returned status code.
type Client struct {
	route      string
	httpClient *http.Client
	log        zerolog.Logger
}

type Option func(*Client)

func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

type createTicketRequest struct {
	UserID  int64  `json:"userId"`
	Message string `json:"message"`
}

// The backend keys tickets by the id as it appears in the admin reply, so
// the delete body carries it verbatim as a string.
type deleteTicketRequest struct {
	UserID string `json:"userId"`
}

// New creates a client for route, e.g. https://backend/api/tickets.
func New(route string, opts ...Option) (*Client, error) {
	if route == "" {
		return nil, fmt.Errorf("ticket route is required")
	}
	parsed, err := url.Parse(route)
	if err != nil {
		return nil, fmt.Errorf("parse ticket route: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("ticket route must be an absolute URL, got %q", route)
	}
	client := &Client{
		route:      parsed.String(),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// CreateTicket opens a ticket for userID. 201 means created, 409 means the
// user already has an open ticket.
func (c *Client) CreateTicket(ctx context.Context, userID int64, message string) (int, error) {
	c.log.Info().Int64("user_id", userID).Msg("creating ticket")
	status, err := c.send(ctx, http.MethodPost, operationCreate, createTicketRequest{UserID: userID, Message: message})
	if err != nil {
		return 0, err
	}
	c.log.Info().Int64("user_id", userID).Int("status", status).Msg("create ticket response")
	return status, nil
}

// DeleteTicket closes the open ticket of userID. 200 means deleted, 404
// means there was none.
func (c *Client) DeleteTicket(ctx context.Context, userID string) (int, error) {
	c.log.Info().Str("user_id", userID).Msg("deleting ticket")
	status, err := c.send(ctx, http.MethodDelete, operationDelete, deleteTicketRequest{UserID: userID})
	if err != nil {
		return 0, err
	}
	c.log.Info().Str("user_id", userID).Int("status", status).Msg("delete ticket response")
	return status, nil
}

func (c *Client) send(ctx context.Context, method, operation string, body any) (int, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return 0, fmt.Errorf("marshal %s request: %w", operation, err)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.route, bytes.NewReader(raw))
	if err != nil {
		return 0, fmt.Errorf("create %s request: %w", operation, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ObserveTicketRequest(operation, start, 0)
		return 0, fmt.Errorf("ticket %s request failed: %w", operation, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	metrics.ObserveTicketRequest(operation, start, resp.StatusCode)
	return resp.StatusCode, nil
}
