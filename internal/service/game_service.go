package service

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/benbeisheim/mindchess/internal/game"
	"github.com/benbeisheim/mindchess/internal/model"
)

var ErrInvalidPromotion = errors.New("invalid promotion choice")

type GameService struct {
	gameManager  *GameManager
	matchmaker   *Matchmaker
	defaultWhite string
	defaultBlack string
	logger       *log.Logger
}

func NewGameService(gameManager *GameManager, defaultWhite, defaultBlack string, logger *log.Logger) *GameService {
	return &GameService{
		gameManager:  gameManager,
		matchmaker:   NewMatchmaker(gameManager, logger),
		defaultWhite: defaultWhite,
		defaultBlack: defaultBlack,
		logger:       logger,
	}
}

// CreateGame starts a game, filling blank names with the configured
// defaults.
func (gs *GameService) CreateGame(white, black string) (string, error) {
	if white == "" {
		white = gs.defaultWhite
	}
	if black == "" {
		black = gs.defaultBlack
	}
	session, err := gs.gameManager.CreateGame(white, black)
	if err != nil {
		return "", fmt.Errorf("failed to create game: %w", err)
	}
	return session.ID, nil
}

func (gs *GameService) JoinGame(gameID, playerID string) (model.Color, error) {
	return gs.gameManager.AddPlayerToGame(gameID, playerID)
}

func (gs *GameService) JoinMatchmaking(playerID, name string) (Match, bool, error) {
	return gs.matchmaker.Join(playerID, name)
}

// MatchmakingStatus returns the player's match, or whether they are still
// waiting for one.
func (gs *GameService) MatchmakingStatus(playerID string) (match Match, matched, queued bool) {
	if m, ok := gs.matchmaker.Status(playerID); ok {
		return m, true, false
	}
	return Match{}, false, gs.matchmaker.Queued(playerID)
}

func (gs *GameService) LeaveMatchmaking(playerID string) {
	gs.matchmaker.Leave(playerID)
}

func (gs *GameService) ListGames() []Summary {
	return gs.gameManager.ListGames()
}

func (gs *GameService) GetGameState(gameID string) (game.View, error) {
	session, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return game.View{}, err
	}
	return session.View(), nil
}

func (gs *GameService) HandleClick(gameID, playerID string, x, y int) (Result, error) {
	session, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return Result{}, err
	}
	gs.logger.Debug("click", "game", gameID, "player", playerID, "x", x, "y", y)
	return session.HandleInput(playerID, x, y)
}

// HandlePromotion translates a piece choice into the input the promotion
// state expects.
func (gs *GameService) HandlePromotion(gameID, playerID string, piece model.PieceType) (Result, error) {
	x, y, ok := game.PromotionInput(piece)
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrInvalidPromotion, piece)
	}
	return gs.HandleClick(gameID, playerID, x, y)
}

func (gs *GameService) Board(gameID string) (string, error) {
	session, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return "", err
	}
	return session.Board(), nil
}

func (gs *GameService) Plies(gameID string) ([]PlyView, error) {
	session, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	return session.Plies(), nil
}

func (gs *GameService) DeleteGame(gameID string) error {
	return gs.gameManager.DeleteGame(gameID)
}

func (gs *GameService) RegisterConnection(gameID string, playerID string, conn Conn) error {
	return gs.gameManager.RegisterConnection(gameID, playerID, conn)
}

func (gs *GameService) UnregisterConnection(gameID string, playerID string, conn Conn) {
	gs.gameManager.UnregisterConnection(gameID, playerID, conn)
}
