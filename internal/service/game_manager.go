// service/game_manager.go
package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/benbeisheim/mindchess/internal/model"
)

var (
	ErrGameNotFound     = errors.New("game not found")
	ErrInvalidPlayers   = errors.New("invalid players")
	ErrConnectionExists = errors.New("connection already exists")
	ErrGameFull         = errors.New("game is full")
	ErrNotSeated        = errors.New("player is not seated in this game")
	ErrNotYourTurn      = errors.New("not your turn")
)

type GameManager struct {
	sessions map[string]*Session
	mu       sync.RWMutex
	logger   *log.Logger
}

func NewGameManager(logger *log.Logger) *GameManager {
	return &GameManager{
		sessions: make(map[string]*Session),
		logger:   logger,
	}
}

// CreateGame starts a session between two distinct, non-blank names.
func (gm *GameManager) CreateGame(white, black string) (*Session, error) {
	white, black = strings.TrimSpace(white), strings.TrimSpace(black)
	if white == "" || black == "" {
		return nil, fmt.Errorf("%w: both players need a name", ErrInvalidPlayers)
	}
	if strings.EqualFold(white, black) {
		return nil, fmt.Errorf("%w: %q cannot play against themselves", ErrInvalidPlayers, white)
	}

	gm.mu.Lock()
	defer gm.mu.Unlock()

	id := uuid.New().String()
	session := newSession(id, white, black, gm.logger)
	gm.sessions[id] = session
	gm.logger.Info("game created", "game", id, "white", white, "black", black)
	return session, nil
}

func (gm *GameManager) GetGame(gameID string) (*Session, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	session, exists := gm.sessions[gameID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	return session, nil
}

// ListGames returns every session, oldest first.
func (gm *GameManager) ListGames() []Summary {
	gm.mu.RLock()
	sessions := make([]*Session, 0, len(gm.sessions))
	for _, s := range gm.sessions {
		sessions = append(sessions, s)
	}
	gm.mu.RUnlock()

	sort.Slice(sessions, func(i, j int) bool {
		if sessions[i].Created.Equal(sessions[j].Created) {
			return sessions[i].ID < sessions[j].ID
		}
		return sessions[i].Created.Before(sessions[j].Created)
	})
	out := make([]Summary, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, s.Summary())
	}
	return out
}

// DeleteGame removes a session and closes its connections.
func (gm *GameManager) DeleteGame(gameID string) error {
	gm.mu.Lock()
	session, exists := gm.sessions[gameID]
	delete(gm.sessions, gameID)
	gm.mu.Unlock()

	if !exists {
		return fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	session.closeConnections()
	gm.logger.Info("game deleted", "game", gameID)
	return nil
}

// AddPlayerToGame seats playerID in the game and returns their color.
func (gm *GameManager) AddPlayerToGame(gameID, playerID string) (model.Color, error) {
	session, err := gm.GetGame(gameID)
	if err != nil {
		return "", err
	}
	return session.AddPlayer(playerID)
}

func (gm *GameManager) RegisterConnection(gameID, playerID string, conn Conn) error {
	session, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return session.RegisterConnection(playerID, conn)
}

func (gm *GameManager) UnregisterConnection(gameID, playerID string, conn Conn) {
	session, err := gm.GetGame(gameID)
	if err != nil {
		return
	}
	session.UnregisterConnection(playerID, conn)
}
