package subscription

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type planRepository struct {
	db *sqlx.DB
}

func NewPlanRepository(db *sqlx.DB) PlanRepository {
	return &planRepository{db: db}
}

const planColumns = `id, name, game_mode, games_allowed, questions_allowed, players_allowed, price_cents, currency, status, language_id, created_at, updated_at`

func (r *planRepository) GetByID(ctx context.Context, id int) (*Plan, error) {
	plan := &Plan{}
	err := r.db.GetContext(ctx, plan, `
		SELECT `+planColumns+`
		FROM plans
		WHERE id = $1
	`, id)

	return plan, err
}

func (r *planRepository) ListActive(ctx context.Context) ([]Plan, error) {
	plans := []Plan{}
	err := r.db.SelectContext(ctx, &plans, `
		SELECT `+planColumns+`
		FROM plans
		WHERE status = 'active'
		ORDER BY price_cents ASC
	`)
	return plans, err
}
