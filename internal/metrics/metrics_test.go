package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordPurchase(t *testing.T) {
	before := testutil.ToFloat64(SubscriptionPurchasesTotal.WithLabelValues("pro_monthly", "pending"))

	RecordPurchase("pro_monthly", "pending")

	after := testutil.ToFloat64(SubscriptionPurchasesTotal.WithLabelValues("pro_monthly", "pending"))
	assert.Equal(t, before+1, after)
}

func TestRecordWebhookEvent(t *testing.T) {
	before := testutil.ToFloat64(PaymentWebhookEventsTotal.WithLabelValues("payment_intent.succeeded", "applied"))

	RecordWebhookEvent("payment_intent.succeeded", "applied")

	after := testutil.ToFloat64(PaymentWebhookEventsTotal.WithLabelValues("payment_intent.succeeded", "applied"))
	assert.Equal(t, before+1, after)
}

func TestRecordGameCreated(t *testing.T) {
	before := testutil.ToFloat64(GamesCreatedTotal.WithLabelValues("QUICK_GAME"))

	RecordGameCreated("QUICK_GAME")

	after := testutil.ToFloat64(GamesCreatedTotal.WithLabelValues("QUICK_GAME"))
	assert.Equal(t, before+1, after)
}

func TestRecordHTTPRequest(t *testing.T) {
	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/plans", "200"))

	RecordHTTPRequest("GET", "/plans", "200", 0.01)

	after := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/plans", "200"))
	assert.Equal(t, before+1, after)
}
