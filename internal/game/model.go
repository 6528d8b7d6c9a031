package game

import "time"

type Status string

const (
	StatusLobby      Status = "lobby"
	StatusInProgress Status = "in_progress"
	StatusFinished   Status = "finished"
)

type Game struct {
	ID          int       `db:"id" json:"id"`
	HostID      int       `db:"host_id" json:"host_id"`
	Mode        string    `db:"mode" json:"mode"`
	RoomCode    string    `db:"room_code" json:"room_code"`
	MaxPlayers  int       `db:"max_players" json:"max_players"`
	Status      Status    `db:"status" json:"status"`
	CurrentTurn int       `db:"current_turn" json:"current_turn"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

type CreateGameRequest struct {
	Mode       string `json:"mode" binding:"required"`
	MaxPlayers *int   `json:"max_players,omitempty" binding:"omitempty,min=2,max=50"`
}
