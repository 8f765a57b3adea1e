package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	UpdatesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bot_updates_total",
		Help: "Telegram updates processed, by kind",
	}, []string{"kind"})

	BotSendErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bot_send_errors_total",
		Help: "Failed outbound Telegram calls",
	})

	FeedbackSubmissions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "feedback_submissions_total",
		Help: "Feedback submissions, by ticket outcome",
	}, []string{"outcome"})

	AdminReplies = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "admin_replies_total",
		Help: "Admin replies, by ticket outcome",
	}, []string{"outcome"})

	TicketRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ticket_backend_request_duration_seconds",
		Help:    "Ticket backend request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "status"})
)

// MustRegister registers the collectors.
func MustRegister(registerer prometheus.Registerer, extra ...prometheus.Collector) {
	registerer.MustRegister(
		UpdatesTotal,
		BotSendErrors,
		FeedbackSubmissions,
		AdminReplies,
		TicketRequestDuration,
	)
	if len(extra) > 0 {
		registerer.MustRegister(extra...)
	}
}

// ObserveTicketRequest records one backend call. statusCode is 0 when the
// request failed before a response arrived.
func ObserveTicketRequest(operation string, start time.Time, statusCode int) {
	status := "error"
	if statusCode > 0 {
		status = strconv.Itoa(statusCode)
	}
	TicketRequestDuration.WithLabelValues(operation, status).Observe(time.Since(start).Seconds())
}
