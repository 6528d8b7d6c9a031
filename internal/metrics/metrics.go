package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quizrush_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "quizrush_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	SubscriptionPurchasesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quizrush_subscription_purchases_total",
			Help: "Total number of subscription purchase attempts",
		},
		[]string{"plan", "status"},
	)

	SubscriptionCancellationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "quizrush_subscription_cancellations_total",
			Help: "Total number of subscription cancellations",
		},
	)

	PaymentWebhookEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quizrush_payment_webhook_events_total",
			Help: "Total number of payment webhook events received",
		},
		[]string{"type", "outcome"},
	)

	GamesCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quizrush_games_created_total",
			Help: "Total number of games created",
		},
		[]string{"mode"},
	)

	GameCreationsRejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quizrush_game_creations_rejected_total",
			Help: "Total number of game creation requests rejected by entitlement checks",
		},
		[]string{"reason"},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quizrush_emails_sent_total",
			Help: "Total number of emails sent",
		},
		[]string{"type", "status"},
	)

	EmailQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "quizrush_email_queue_length",
			Help: "Current length of email queue",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordPurchase(plan, status string) {
	SubscriptionPurchasesTotal.WithLabelValues(plan, status).Inc()
}

func RecordCancellation() {
	SubscriptionCancellationsTotal.Inc()
}

func RecordWebhookEvent(eventType, outcome string) {
	PaymentWebhookEventsTotal.WithLabelValues(eventType, outcome).Inc()
}

func RecordGameCreated(mode string) {
	GamesCreatedTotal.WithLabelValues(mode).Inc()
}

func RecordGameRejected(reason string) {
	GameCreationsRejectedTotal.WithLabelValues(reason).Inc()
}

func RecordEmail(emailType, status string) {
	EmailsSentTotal.WithLabelValues(emailType, status).Inc()
}
