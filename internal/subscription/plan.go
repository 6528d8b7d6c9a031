package subscription

import "time"

type PlanStatus string

const (
	PlanActive   PlanStatus = "active"
	PlanInactive PlanStatus = "inactive"
)

// Plan is a purchasable catalog entry. GamesAllowed is either a
// positive quota or UnlimitedGames.
type Plan struct {
	ID               int        `db:"id" json:"id"`
	Name             string     `db:"name" json:"name"`
	GameMode         string     `db:"game_mode" json:"game_mode"`
	GamesAllowed     int        `db:"games_allowed" json:"games_allowed"`
	QuestionsAllowed int        `db:"questions_allowed" json:"questions_allowed"`
	PlayersAllowed   int        `db:"players_allowed" json:"players_allowed"`
	PriceCents       int64      `db:"price_cents" json:"price_cents"`
	Currency         string     `db:"currency" json:"currency"`
	Status           PlanStatus `db:"status" json:"status"`
	LanguageID       *int       `db:"language_id" json:"language_id,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

// Unlimited reports whether the plan has no games quota.
func (p *Plan) Unlimited() bool {
	return p.GamesAllowed == UnlimitedGames
}
