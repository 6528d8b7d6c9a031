package ledger

import "time"

const TypeSubscription = "subscription"

type TxStatus string

const (
	TxPending   TxStatus = "pending"
	TxCompleted TxStatus = "completed"
	TxFailed    TxStatus = "failed"
)

// Transaction is one audit row per payment attempt. Reference carries
// the provider payment intent id; OrderRef is our own correlation id
// assigned before the provider is contacted.
type Transaction struct {
	ID             int       `db:"id" json:"id"`
	UserID         int       `db:"user_id" json:"user_id"`
	SubscriptionID int       `db:"subscription_id" json:"subscription_id"`
	OrderRef       string    `db:"order_ref" json:"order_ref"`
	Type           string    `db:"type" json:"type"`
	AmountCents    int64     `db:"amount_cents" json:"amount_cents"`
	Currency       string    `db:"currency" json:"currency"`
	Reference      string    `db:"reference" json:"reference"`
	Status         TxStatus  `db:"status" json:"status"`
	Provider       string    `db:"provider" json:"provider"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}
