package subscription

import (
	"net/http"

	"quizrush/internal/logger"
	"quizrush/internal/metrics"
	"quizrush/internal/payment"

	"github.com/gin-gonic/gin"
)

// WebhookHandler receives payment provider notifications. It answers
// 200 for events it cannot match to a subscription: the provider
// retries on non-2xx, and replays are already harmless.
type WebhookHandler struct {
	svc           Service
	webhookSecret string
}

func NewWebhookHandler(svc Service, webhookSecret string) *WebhookHandler {
	return &WebhookHandler{svc: svc, webhookSecret: webhookSecret}
}

// HandleStripe godoc
// @Summary      Stripe payment webhook
// @Tags         webhooks
// @Accept       json
// @Produce      json
// @Success      200  {object}  api.MessageResponse
// @Failure      400  {object}  api.ErrorResponse
// @Router       /webhooks/stripe [post]
func (h *WebhookHandler) HandleStripe(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read payload"})
		return
	}

	event, err := payment.ParseWebhookEvent(payload, c.GetHeader("Stripe-Signature"), h.webhookSecret)
	if err != nil {
		logger.Errorf("Stripe webhook rejected: %v", err)
		metrics.RecordWebhookEvent("unknown", "rejected")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid webhook"})
		return
	}

	switch event.Type {
	case payment.EventPaymentSucceeded:
		err = h.svc.HandlePaymentSucceeded(c.Request.Context(), event.PaymentIntentID)
	case payment.EventPaymentFailed:
		err = h.svc.HandlePaymentFailed(c.Request.Context(), event.PaymentIntentID)
	default:
		logger.Debugf("Stripe webhook: ignoring event type %s", event.Type)
		metrics.RecordWebhookEvent(event.Type, "ignored")
		c.JSON(http.StatusOK, gin.H{"message": "ignored"})
		return
	}

	if err != nil {
		logger.Errorf("Stripe webhook: %s for %s: %v", event.Type, event.PaymentIntentID, err)
		metrics.RecordWebhookEvent(event.Type, "error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process event"})
		return
	}

	metrics.RecordWebhookEvent(event.Type, "applied")
	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}
