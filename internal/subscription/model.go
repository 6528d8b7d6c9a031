package subscription

import "time"

type Status string
type PaymentStatus string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusCancelled Status = "cancelled"
	StatusFailed    Status = "failed"

	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

// UnlimitedGames marks a plan with no quota ceiling.
const UnlimitedGames = -1

// DefaultPlayersLimit applies to users without any active subscription.
const DefaultPlayersLimit = 4

const ProviderStripe = "stripe"

type Subscription struct {
	ID              int           `db:"id" json:"id"`
	UserID          int           `db:"user_id" json:"user_id"`
	PlanID          int           `db:"plan_id" json:"plan_id"`
	Status          Status        `db:"status" json:"status"`
	GamesPlayed     int           `db:"games_played" json:"games_played"`
	PaymentStatus   PaymentStatus `db:"payment_status" json:"payment_status"`
	PaymentProvider string        `db:"payment_provider" json:"payment_provider"`
	PaymentRef      string        `db:"payment_ref" json:"payment_ref,omitempty"`
	PaidAmountCents int64         `db:"paid_amount_cents" json:"paid_amount_cents"`
	PaidCurrency    string        `db:"paid_currency" json:"paid_currency"`
	CreatedAt       time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time     `db:"updated_at" json:"updated_at"`
}

// Limits is the quota snapshot returned to clients.
// GamesRemaining is -1 for unlimited plans and may go negative when a
// metered subscription has been over-consumed; it is deliberately not
// clamped so over-quota is visible.
type Limits struct {
	HasSubscription  bool   `json:"has_subscription"`
	GamesLimit       int    `json:"games_limit"`
	GamesPlayed      int    `json:"games_played"`
	GamesRemaining   int    `json:"games_remaining"`
	QuestionsLimit   int    `json:"questions_limit"`
	PlayersLimit     int    `json:"players_limit"`
	SubscriptionType string `json:"subscription_type,omitempty"`
}

// GameValidation is the outcome of a game-creation entitlement check.
type GameValidation struct {
	Valid                bool   `json:"valid"`
	Message              string `json:"message,omitempty"`
	SubscriptionRequired bool   `json:"subscription_required"`
}

type PurchaseResult struct {
	ClientSecret    string `json:"client_secret"`
	SubscriptionID  int    `json:"subscription_id"`
	PaymentIntentID string `json:"payment_intent_id"`
	AmountCents     int64  `json:"amount_cents"`
	Currency        string `json:"currency"`
	Status          Status `json:"status"`
}

type PurchaseRequest struct {
	PlanID        int    `json:"plan_id" binding:"required"`
	PaymentMethod string `json:"payment_method,omitempty"`
	PromoCode     string `json:"promo_code,omitempty"`
}

type CancelRequest struct {
	Reason string `json:"reason,omitempty"`
}

// SubscriptionWithPlan decorates a subscription with its plan for
// responses where the caller needs both.
type SubscriptionWithPlan struct {
	Subscription
	Plan *Plan `json:"plan,omitempty"`
}
