package subscription

import "context"

type Repository interface {
	Create(ctx context.Context, userID, planID int, provider string, amountCents int64, currency string) (*Subscription, error)
	GetActiveByUser(ctx context.Context, userID int) (*Subscription, error)
	HasActive(ctx context.Context, userID int) (bool, error)
	HasActiveForPlan(ctx context.Context, userID, planID int) (bool, error)
	FindByIDForUser(ctx context.Context, id, userID int) (*Subscription, error)
	FindByPaymentRef(ctx context.Context, ref string) (*Subscription, error)
	SetPaymentRef(ctx context.Context, id int, ref string) error
	UpdateStatus(ctx context.Context, id int, status Status, paymentStatus PaymentStatus) error
	IncrementGamesPlayed(ctx context.Context, userID int) error
	ListByUser(ctx context.Context, userID int) ([]*Subscription, error)
}

type PlanRepository interface {
	GetByID(ctx context.Context, id int) (*Plan, error)
	ListActive(ctx context.Context) ([]Plan, error)
}
