package game

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func setupGameMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	closer := func() { sqlxDB.Close() }
	return repo, mock, closer
}

func gameRows(id, hostID int, mode, roomCode string, maxPlayers int, status Status, turn int) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "host_id", "mode", "room_code", "max_players", "status", "current_turn",
		"created_at", "updated_at",
	}).AddRow(id, hostID, mode, roomCode, maxPlayers, string(status), turn, now, now)
}

func TestCreateGameRow(t *testing.T) {
	repo, mock, close := setupGameMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta(`
		INSERT INTO games (host_id, mode, room_code, max_players, status, current_turn)
		VALUES ($1, $2, $3, $4, 'lobby', 0)
	`)).
		WithArgs(1, "TOURNAMENT", "ABC234", 8).
		WillReturnRows(gameRows(5, 1, "TOURNAMENT", "ABC234", 8, StatusLobby, 0))

	g, err := repo.Create(context.Background(), 1, "TOURNAMENT", "ABC234", 8)
	require.NoError(t, err)
	require.Equal(t, 5, g.ID)
	require.Equal(t, StatusLobby, g.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateGameRoomCodeCollision(t *testing.T) {
	repo, mock, close := setupGameMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO games`)).
		WithArgs(1, "TOURNAMENT", "ABC234", 8).
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := repo.Create(context.Background(), 1, "TOURNAMENT", "ABC234", 8)
	require.ErrorIs(t, err, ErrRoomCodeTaken)
}

func TestFindByRoomCode(t *testing.T) {
	repo, mock, close := setupGameMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta(`
		FROM games
		WHERE room_code = $1
	`)).
		WithArgs("ABC234").
		WillReturnRows(gameRows(5, 1, "TOURNAMENT", "ABC234", 8, StatusLobby, 0))

	g, err := repo.FindByRoomCode(context.Background(), "ABC234")
	require.NoError(t, err)
	require.Equal(t, "ABC234", g.RoomCode)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStartOnlyFromLobby(t *testing.T) {
	repo, mock, close := setupGameMock(t)
	defer close()

	mock.ExpectExec(regexp.QuoteMeta(`
		UPDATE games
		SET status = 'in_progress',
		    updated_at = NOW()
		WHERE id = $1 AND status = 'lobby'
	`)).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Start(context.Background(), 5)
	require.ErrorIs(t, err, ErrGameNotInLobby)
}

func TestFinishTransition(t *testing.T) {
	repo, mock, close := setupGameMock(t)
	defer close()

	mock.ExpectExec(regexp.QuoteMeta(`
		UPDATE games
		SET status = 'finished',
		    updated_at = NOW()
		WHERE id = $1 AND status = 'in_progress'
	`)).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Finish(context.Background(), 5))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFinishTwice(t *testing.T) {
	repo, mock, close := setupGameMock(t)
	defer close()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE games`)).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Finish(context.Background(), 5)
	require.ErrorIs(t, err, ErrGameAlreadyFinished)
}

func TestAdvanceTurn(t *testing.T) {
	repo, mock, close := setupGameMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta(`
		UPDATE games
		SET current_turn = current_turn + 1,
		    updated_at = NOW()
		WHERE id = $1 AND status = 'in_progress'
		RETURNING current_turn
	`)).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"current_turn"}).AddRow(3))

	turn, err := repo.AdvanceTurn(context.Background(), 5)
	require.NoError(t, err)
	require.Equal(t, 3, turn)
	require.NoError(t, mock.ExpectationsWereMet())
}
