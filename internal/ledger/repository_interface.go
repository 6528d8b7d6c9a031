package ledger

import "context"

type CreateSubscriptionTransactionParams struct {
	SubscriptionID int
	UserID         int
	OrderRef       string
	AmountCents    int64
	Currency       string
	Reference      string
	Status         TxStatus
	Provider       string
}

type Repository interface {
	CreateSubscriptionTransaction(ctx context.Context, params CreateSubscriptionTransactionParams) (*Transaction, error)
	MarkStatusByReference(ctx context.Context, reference string, status TxStatus) error
	ListByUser(ctx context.Context, userID int, limit, offset int) ([]Transaction, error)
}
