package payment

import (
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76/webhook"
)

const testWebhookSecret = "whsec_test_secret"

func signedHeader(t *testing.T, payload []byte) string {
	t.Helper()
	now := time.Now()
	sig := webhook.ComputeSignature(now, payload, testWebhookSecret)
	return fmt.Sprintf("t=%d,v1=%s", now.Unix(), hex.EncodeToString(sig))
}

func TestParseWebhookEventPaymentSucceeded(t *testing.T) {
	payload := []byte(`{
		"id": "evt_1",
		"object": "event",
		"type": "payment_intent.succeeded",
		"data": {"object": {"id": "pi_123", "object": "payment_intent"}}
	}`)

	event, err := ParseWebhookEvent(payload, signedHeader(t, payload), testWebhookSecret)
	require.NoError(t, err)
	assert.Equal(t, EventPaymentSucceeded, event.Type)
	assert.Equal(t, "pi_123", event.PaymentIntentID)
}

func TestParseWebhookEventPaymentFailed(t *testing.T) {
	payload := []byte(`{
		"id": "evt_2",
		"object": "event",
		"type": "payment_intent.payment_failed",
		"data": {"object": {"id": "pi_456", "object": "payment_intent"}}
	}`)

	event, err := ParseWebhookEvent(payload, signedHeader(t, payload), testWebhookSecret)
	require.NoError(t, err)
	assert.Equal(t, EventPaymentFailed, event.Type)
	assert.Equal(t, "pi_456", event.PaymentIntentID)
}

func TestParseWebhookEventOtherType(t *testing.T) {
	payload := []byte(`{
		"id": "evt_3",
		"object": "event",
		"type": "charge.refunded",
		"data": {"object": {"id": "ch_789", "object": "charge"}}
	}`)

	event, err := ParseWebhookEvent(payload, signedHeader(t, payload), testWebhookSecret)
	require.NoError(t, err)
	assert.Equal(t, "charge.refunded", event.Type)
	assert.Empty(t, event.PaymentIntentID)
}

func TestParseWebhookEventBadSignature(t *testing.T) {
	payload := []byte(`{"id": "evt_4", "type": "payment_intent.succeeded"}`)

	_, err := ParseWebhookEvent(payload, "t=1,v1=deadbeef", testWebhookSecret)
	assert.Error(t, err)
}

func TestParseWebhookEventMissingSignature(t *testing.T) {
	payload := []byte(`{"id": "evt_5", "type": "payment_intent.succeeded"}`)

	_, err := ParseWebhookEvent(payload, "", testWebhookSecret)
	assert.Error(t, err)
}
