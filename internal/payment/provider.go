package payment

import "context"

// Customer is the provider-side billing identity for a user.
type Customer struct {
	ID string
}

// Intent is a provider payment intent awaiting client confirmation.
type Intent struct {
	ID           string
	ClientSecret string
	AmountCents  int64
	Currency     string
}

type IntentRequest struct {
	AmountCents int64
	Currency    string
	CustomerID  string
	Metadata    map[string]string
}

// Provider abstracts the external payment service.
type Provider interface {
	CreateCustomer(ctx context.Context, name, email string, userID int) (*Customer, error)
	CreatePaymentIntent(ctx context.Context, req IntentRequest) (*Intent, error)
}

// Event is a parsed provider webhook notification.
type Event struct {
	Type            string
	PaymentIntentID string
}

const (
	EventPaymentSucceeded = "payment_intent.succeeded"
	EventPaymentFailed    = "payment_intent.payment_failed"
)
