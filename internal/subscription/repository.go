package subscription

import (
	"context"

	"quizrush/internal/db"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const subscriptionColumns = `id, user_id, plan_id, status, games_played, payment_status, payment_provider, payment_ref, paid_amount_cents, paid_currency, created_at, updated_at`

func (r *repository) Create(ctx context.Context, userID, planID int, provider string, amountCents int64, currency string) (*Subscription, error) {
	sub := &Subscription{}
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO subscriptions (user_id, plan_id, status, games_played, payment_status, payment_provider, paid_amount_cents, paid_currency)
		VALUES ($1, $2, 'pending', 0, 'pending', $3, $4, $5)
		RETURNING `+subscriptionColumns+`
	`, userID, planID, provider, amountCents, currency).StructScan(sub)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
			return nil, ErrAlreadySubscribed
		}
		return nil, err
	}

	return sub, nil
}

func (r *repository) GetActiveByUser(ctx context.Context, userID int) (*Subscription, error) {
	sub := &Subscription{}
	err := r.db.GetContext(ctx, sub, `
		SELECT `+subscriptionColumns+`
		FROM subscriptions
		WHERE user_id = $1
		  AND status = 'active'
		ORDER BY created_at DESC
		LIMIT 1
	`, userID)

	return sub, err
}

func (r *repository) HasActive(ctx context.Context, userID int) (bool, error) {
	return db.Exists(ctx, r.db, `
		SELECT EXISTS(SELECT 1 FROM subscriptions WHERE user_id = $1 AND status = 'active')
	`, userID)
}

func (r *repository) HasActiveForPlan(ctx context.Context, userID, planID int) (bool, error) {
	return db.Exists(ctx, r.db, `
		SELECT EXISTS(SELECT 1 FROM subscriptions WHERE user_id = $1 AND plan_id = $2 AND status = 'active')
	`, userID, planID)
}

func (r *repository) FindByIDForUser(ctx context.Context, id, userID int) (*Subscription, error) {
	sub := &Subscription{}
	err := r.db.GetContext(ctx, sub, `
		SELECT `+subscriptionColumns+`
		FROM subscriptions
		WHERE id = $1
		  AND user_id = $2
	`, id, userID)

	return sub, err
}

func (r *repository) FindByPaymentRef(ctx context.Context, ref string) (*Subscription, error) {
	sub := &Subscription{}
	err := r.db.GetContext(ctx, sub, `
		SELECT `+subscriptionColumns+`
		FROM subscriptions
		WHERE payment_ref = $1
	`, ref)

	return sub, err
}

func (r *repository) SetPaymentRef(ctx context.Context, id int, ref string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE subscriptions
		SET payment_ref = $1,
		    updated_at = NOW()
		WHERE id = $2
	`, ref, id)
	return err
}

// UpdateStatus can trip the partial unique active index when it
// activates a row while another subscription for the same plan is
// already active; that surfaces as ErrAlreadySubscribed.
func (r *repository) UpdateStatus(ctx context.Context, id int, status Status, paymentStatus PaymentStatus) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE subscriptions
		SET status = $1,
		    payment_status = $2,
		    updated_at = NOW()
		WHERE id = $3
	`, status, paymentStatus, id)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
			return ErrAlreadySubscribed
		}
		return err
	}
	return nil
}

// IncrementGamesPlayed bumps the counter of the user's newest active
// subscription in a single statement, so concurrent games never lose
// an increment to a read-modify-write race.
func (r *repository) IncrementGamesPlayed(ctx context.Context, userID int) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE subscriptions
		SET games_played = games_played + 1,
		    updated_at = NOW()
		WHERE id = (
			SELECT id FROM subscriptions
			WHERE user_id = $1
			  AND status = 'active'
			ORDER BY created_at DESC
			LIMIT 1
		)
	`, userID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrSubscriptionNotFound
	}

	return nil
}

func (r *repository) ListByUser(ctx context.Context, userID int) ([]*Subscription, error) {
	subs := []*Subscription{}
	err := r.db.SelectContext(ctx, &subs, `
		SELECT `+subscriptionColumns+`
		FROM subscriptions
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	return subs, err
}
