package game

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"quizrush/internal/api"
	"quizrush/internal/auth"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// Create godoc
// @Summary      Create a game
// @Description  Creates a game in the lobby state. Premium modes require an active subscription with remaining games.
// @Tags         games
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      CreateGameRequest  true  "Game settings"
// @Success      201      {object}  api.Response
// @Failure      400      {object}  api.ErrorResponse
// @Failure      403      {object}  api.ErrorResponse
// @Router       /games [post]
func (h *Handler) Create(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req CreateGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	g, validation, err := h.svc.CreateGame(c.Request.Context(), userID, req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create game"})
		return
	}
	if g == nil {
		c.JSON(http.StatusForbidden, gin.H{
			"error":                 validation.Message,
			"subscription_required": validation.SubscriptionRequired,
		})
		return
	}

	c.JSON(http.StatusCreated, api.OK("Game created", g))
}

// ListMine godoc
// @Summary      List own hosted games
// @Tags         games
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  api.Response
// @Failure      500  {object}  api.ErrorResponse
// @Router       /games [get]
func (h *Handler) ListMine(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	games, err := h.svc.ListByHost(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load games"})
		return
	}

	c.JSON(http.StatusOK, api.OK("", games))
}

// Get godoc
// @Summary      Get a game by id
// @Tags         games
// @Produce      json
// @Security     BearerAuth
// @Param        gameID  path      int  true  "Game ID"
// @Success      200     {object}  api.Response
// @Failure      404     {object}  api.ErrorResponse
// @Router       /games/{gameID} [get]
func (h *Handler) Get(c *gin.Context) {
	gameID, err := strconv.Atoi(c.Param("gameID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid game id"})
		return
	}

	g, err := h.svc.GetByID(c.Request.Context(), gameID)
	if err != nil {
		if errors.Is(err, ErrGameNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load game"})
		return
	}

	c.JSON(http.StatusOK, api.OK("", g))
}

// GetByCode godoc
// @Summary      Look up a game by room code
// @Tags         games
// @Produce      json
// @Param        roomCode  path      string  true  "Room code"
// @Success      200       {object}  api.Response
// @Failure      404       {object}  api.ErrorResponse
// @Router       /games/code/{roomCode} [get]
func (h *Handler) GetByCode(c *gin.Context) {
	g, err := h.svc.GetByRoomCode(c.Request.Context(), c.Param("roomCode"))
	if err != nil {
		if errors.Is(err, ErrGameNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load game"})
		return
	}

	c.JSON(http.StatusOK, api.OK("", g))
}

// Start godoc
// @Summary      Start a game
// @Tags         games
// @Produce      json
// @Security     BearerAuth
// @Param        gameID  path      int  true  "Game ID"
// @Success      200     {object}  api.Response
// @Failure      400     {object}  api.ErrorResponse
// @Failure      403     {object}  api.ErrorResponse
// @Failure      404     {object}  api.ErrorResponse
// @Router       /games/{gameID}/start [post]
func (h *Handler) Start(c *gin.Context) {
	h.transition(c, h.svc.StartGame, ErrGameNotInLobby, "Game started")
}

// NextTurn godoc
// @Summary      Advance the game to the next turn
// @Tags         games
// @Produce      json
// @Security     BearerAuth
// @Param        gameID  path      int  true  "Game ID"
// @Success      200     {object}  api.Response
// @Failure      400     {object}  api.ErrorResponse
// @Failure      403     {object}  api.ErrorResponse
// @Failure      404     {object}  api.ErrorResponse
// @Router       /games/{gameID}/turn [post]
func (h *Handler) NextTurn(c *gin.Context) {
	h.transition(c, h.svc.NextTurn, ErrGameNotInProgress, "Turn advanced")
}

// Finish godoc
// @Summary      Finish a game
// @Description  Marks the game finished and consumes one game from the host's quota for premium modes.
// @Tags         games
// @Produce      json
// @Security     BearerAuth
// @Param        gameID  path      int  true  "Game ID"
// @Success      200     {object}  api.Response
// @Failure      400     {object}  api.ErrorResponse
// @Failure      403     {object}  api.ErrorResponse
// @Failure      404     {object}  api.ErrorResponse
// @Router       /games/{gameID}/finish [post]
func (h *Handler) Finish(c *gin.Context) {
	h.transition(c, h.svc.FinishGame, ErrGameAlreadyFinished, "Game finished")
}

func (h *Handler) transition(c *gin.Context, fn func(ctx context.Context, hostID, gameID int) (*Game, error), conflictErr error, message string) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	gameID, err := strconv.Atoi(c.Param("gameID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid game id"})
		return
	}

	g, err := fn(c.Request.Context(), userID, gameID)
	if err != nil {
		switch {
		case errors.Is(err, ErrGameNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, ErrNotGameHost):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, conflictErr):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update game"})
		}
		return
	}

	c.JSON(http.StatusOK, api.OK(message, g))
}
