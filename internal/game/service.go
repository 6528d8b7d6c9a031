package game

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"

	"quizrush/internal/logger"
	"quizrush/internal/metrics"
	"quizrush/internal/subscription"
)

var (
	ErrNotGameHost       = errors.New("only the host can manage this game")
	ErrGameNotInProgress = errors.New("game is not in progress")
)

const (
	roomCodeLength   = 6
	roomCodeAttempts = 5
)

// roomCodeAlphabet omits easily confused characters (0/O, 1/I/L).
const roomCodeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

type Service interface {
	CreateGame(ctx context.Context, hostID int, req CreateGameRequest) (*Game, *subscription.GameValidation, error)
	GetByID(ctx context.Context, id int) (*Game, error)
	GetByRoomCode(ctx context.Context, roomCode string) (*Game, error)
	ListByHost(ctx context.Context, hostID int) ([]Game, error)
	StartGame(ctx context.Context, hostID, gameID int) (*Game, error)
	NextTurn(ctx context.Context, hostID, gameID int) (*Game, error)
	FinishGame(ctx context.Context, hostID, gameID int) (*Game, error)
}

type service struct {
	repo          Repository
	subscriptions subscription.Service
}

func NewService(repo Repository, subscriptions subscription.Service) Service {
	return &service{repo: repo, subscriptions: subscriptions}
}

// CreateGame runs the entitlement checks before any row is written. A
// rejected request returns the validation verdict with a nil game and
// nil error, mirroring a 403 rather than a server fault.
func (s *service) CreateGame(ctx context.Context, hostID int, req CreateGameRequest) (*Game, *subscription.GameValidation, error) {
	validation, err := s.subscriptions.ValidateGameCreation(ctx, hostID, req.Mode, req.MaxPlayers)
	if err != nil {
		return nil, nil, err
	}
	if !validation.Valid {
		reason := "plan_limit"
		if validation.SubscriptionRequired {
			reason = "subscription_required"
		}
		metrics.RecordGameRejected(reason)
		return nil, validation, nil
	}

	maxPlayers := subscription.DefaultPlayersLimit
	if req.MaxPlayers != nil {
		maxPlayers = *req.MaxPlayers
	}

	var g *Game
	for attempt := 0; attempt < roomCodeAttempts; attempt++ {
		code, err := generateRoomCode()
		if err != nil {
			return nil, nil, err
		}

		g, err = s.repo.Create(ctx, hostID, req.Mode, code, maxPlayers)
		if err == nil {
			break
		}
		if errors.Is(err, ErrRoomCodeTaken) {
			logger.Debugf("CreateGame: room code %s collided, retrying", code)
			continue
		}
		return nil, nil, err
	}
	if g == nil {
		return nil, nil, ErrRoomCodeTaken
	}

	metrics.RecordGameCreated(req.Mode)
	logger.Infof("Game %d created by host %d, mode %s, room %s", g.ID, hostID, req.Mode, g.RoomCode)

	return g, validation, nil
}

func (s *service) GetByID(ctx context.Context, id int) (*Game, error) {
	g, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	return g, nil
}

func (s *service) GetByRoomCode(ctx context.Context, roomCode string) (*Game, error) {
	g, err := s.repo.FindByRoomCode(ctx, roomCode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	return g, nil
}

func (s *service) ListByHost(ctx context.Context, hostID int) ([]Game, error) {
	return s.repo.ListByHost(ctx, hostID)
}

func (s *service) StartGame(ctx context.Context, hostID, gameID int) (*Game, error) {
	g, err := s.GetByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if g.HostID != hostID {
		return nil, ErrNotGameHost
	}

	if err := s.repo.Start(ctx, gameID); err != nil {
		return nil, err
	}
	g.Status = StatusInProgress

	return g, nil
}

// NextTurn bumps the turn counter of a running game. The guarded
// update only matches in_progress rows, so advancing a lobby or
// finished game reports ErrGameNotInProgress.
func (s *service) NextTurn(ctx context.Context, hostID, gameID int) (*Game, error) {
	g, err := s.GetByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if g.HostID != hostID {
		return nil, ErrNotGameHost
	}

	turn, err := s.repo.AdvanceTurn(ctx, gameID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGameNotInProgress
		}
		return nil, err
	}
	g.CurrentTurn = turn

	return g, nil
}

// FinishGame consumes one game from the host's quota for premium
// modes. The status transition in the repository fires at most once, so
// a replayed finish request never double-charges.
func (s *service) FinishGame(ctx context.Context, hostID, gameID int) (*Game, error) {
	g, err := s.GetByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if g.HostID != hostID {
		return nil, ErrNotGameHost
	}

	if err := s.repo.Finish(ctx, gameID); err != nil {
		return nil, err
	}
	g.Status = StatusFinished

	if s.subscriptions.Classify(g.Mode) == subscription.EntitlementPremium {
		if err := s.subscriptions.IncrementGamesPlayed(ctx, hostID); err != nil {
			// The game is already finished; the quota write failing is
			// reported but not rolled back.
			logger.Errorf("FinishGame: quota increment for host %d failed: %v", hostID, err)
		}
	}

	return g, nil
}

func generateRoomCode() (string, error) {
	buf := make([]byte, roomCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	code := make([]byte, roomCodeLength)
	for i, b := range buf {
		code[i] = roomCodeAlphabet[int(b)%len(roomCodeAlphabet)]
	}
	return string(code), nil
}
