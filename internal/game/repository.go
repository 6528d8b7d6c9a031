package game

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	ErrGameNotFound        = errors.New("game not found")
	ErrGameNotInLobby      = errors.New("game is not in the lobby")
	ErrGameAlreadyFinished = errors.New("game is already finished")
	ErrRoomCodeTaken       = errors.New("room code is already in use")
)

const gameColumns = `id, host_id, mode, room_code, max_players, status, current_turn, created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, hostID int, mode, roomCode string, maxPlayers int) (*Game, error) {
	query := `
		INSERT INTO games (host_id, mode, room_code, max_players, status, current_turn)
		VALUES ($1, $2, $3, $4, 'lobby', 0)
		RETURNING ` + gameColumns

	var g Game
	err := r.db.GetContext(ctx, &g, query, hostID, mode, roomCode, maxPlayers)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return nil, ErrRoomCodeTaken
		}
		return nil, err
	}

	return &g, nil
}

func (r *repository) FindByID(ctx context.Context, id int) (*Game, error) {
	query := `
		SELECT ` + gameColumns + `
		FROM games
		WHERE id = $1
	`

	var g Game
	err := r.db.GetContext(ctx, &g, query, id)
	if err != nil {
		return nil, err
	}

	return &g, nil
}

func (r *repository) FindByRoomCode(ctx context.Context, roomCode string) (*Game, error) {
	query := `
		SELECT ` + gameColumns + `
		FROM games
		WHERE room_code = $1
	`

	var g Game
	err := r.db.GetContext(ctx, &g, query, roomCode)
	if err != nil {
		return nil, err
	}

	return &g, nil
}

func (r *repository) ListByHost(ctx context.Context, hostID int) ([]Game, error) {
	query := `
		SELECT ` + gameColumns + `
		FROM games
		WHERE host_id = $1
		ORDER BY created_at DESC
	`

	var games []Game
	err := r.db.SelectContext(ctx, &games, query, hostID)
	if err != nil {
		return nil, err
	}

	return games, nil
}

// Start moves a lobby game into play. The status guard makes the
// transition single-shot under concurrent requests.
func (r *repository) Start(ctx context.Context, id int) error {
	query := `
		UPDATE games
		SET status = 'in_progress',
		    updated_at = NOW()
		WHERE id = $1 AND status = 'lobby'
	`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrGameNotInLobby
	}

	return nil
}

// Finish is guarded the same way, so quota consumption tied to the
// finish transition happens at most once per game.
func (r *repository) Finish(ctx context.Context, id int) error {
	query := `
		UPDATE games
		SET status = 'finished',
		    updated_at = NOW()
		WHERE id = $1 AND status = 'in_progress'
	`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrGameAlreadyFinished
	}

	return nil
}

func (r *repository) AdvanceTurn(ctx context.Context, id int) (int, error) {
	query := `
		UPDATE games
		SET current_turn = current_turn + 1,
		    updated_at = NOW()
		WHERE id = $1 AND status = 'in_progress'
		RETURNING current_turn
	`

	var turn int
	err := r.db.GetContext(ctx, &turn, query, id)
	if err != nil {
		return 0, err
	}

	return turn, nil
}
