package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

// StripeProvider implements Provider against the Stripe API.
type StripeProvider struct {
	api *client.API
}

func NewStripeProvider(secretKey string) *StripeProvider {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeProvider{api: api}
}

func (p *StripeProvider) CreateCustomer(ctx context.Context, name, email string, userID int) (*Customer, error) {
	params := &stripe.CustomerParams{
		Name:  stripe.String(name),
		Email: stripe.String(email),
	}
	params.Context = ctx
	params.AddMetadata("user_id", strconv.Itoa(userID))

	c, err := p.api.Customers.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe create customer: %w", err)
	}

	return &Customer{ID: c.ID}, nil
}

func (p *StripeProvider) CreatePaymentIntent(ctx context.Context, req IntentRequest) (*Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(req.AmountCents),
		Currency: stripe.String(req.Currency),
		Customer: stripe.String(req.CustomerID),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	pi, err := p.api.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe create payment intent: %w", err)
	}

	return &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		AmountCents:  pi.Amount,
		Currency:     string(pi.Currency),
	}, nil
}

// ParseWebhookEvent verifies the Stripe signature and extracts the
// payment intent id from events the engine cares about. Other event
// types come back with an empty PaymentIntentID.
func ParseWebhookEvent(payload []byte, signature, webhookSecret string) (*Event, error) {
	// The account's event API version rarely matches the SDK pin;
	// signature verification is what matters here.
	event, err := webhook.ConstructEventWithOptions(payload, signature, webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("stripe webhook verification: %w", err)
	}

	parsed := &Event{Type: string(event.Type)}

	switch parsed.Type {
	case EventPaymentSucceeded, EventPaymentFailed:
		var intent struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			return nil, fmt.Errorf("stripe webhook payload: %w", err)
		}
		parsed.PaymentIntentID = intent.ID
	}

	return parsed, nil
}
