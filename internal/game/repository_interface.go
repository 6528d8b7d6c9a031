package game

import "context"

type Repository interface {
	Create(ctx context.Context, hostID int, mode, roomCode string, maxPlayers int) (*Game, error)
	FindByID(ctx context.Context, id int) (*Game, error)
	FindByRoomCode(ctx context.Context, roomCode string) (*Game, error)
	ListByHost(ctx context.Context, hostID int) ([]Game, error)
	Start(ctx context.Context, id int) error
	Finish(ctx context.Context, id int) error
	AdvanceTurn(ctx context.Context, id int) (int, error)
}
