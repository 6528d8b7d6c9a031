package ledger

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateSubscriptionTransaction(ctx context.Context, params CreateSubscriptionTransactionParams) (*Transaction, error) {
	tx := &Transaction{}
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO transactions (user_id, subscription_id, order_ref, type, amount_cents, currency, reference, status, provider)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, user_id, subscription_id, order_ref, type, amount_cents, currency, reference, status, provider, created_at, updated_at
	`, params.UserID, params.SubscriptionID, params.OrderRef, TypeSubscription,
		params.AmountCents, params.Currency, params.Reference, params.Status, params.Provider,
	).StructScan(tx)

	return tx, err
}

func (r *repository) MarkStatusByReference(ctx context.Context, reference string, status TxStatus) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE transactions
		SET status = $1,
		    updated_at = NOW()
		WHERE reference = $2
	`, status, reference)
	return err
}

func (r *repository) ListByUser(ctx context.Context, userID int, limit, offset int) ([]Transaction, error) {
	if limit <= 0 {
		limit = 50
	}

	txs := []Transaction{}
	err := r.db.SelectContext(ctx, &txs, `
		SELECT id, user_id, subscription_id, order_ref, type, amount_cents, currency, reference, status, provider, created_at, updated_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	return txs, nil
}
