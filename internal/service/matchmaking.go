package service

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/benbeisheim/mindchess/internal/model"
)

var ErrAlreadyQueued = errors.New("player already in queue")

type queuedPlayer struct {
	ID       string
	Name     string
	JoinedAt time.Time
}

// Match tells a queued player which game they were paired into.
type Match struct {
	GameID string      `json:"game_id"`
	Color  model.Color `json:"color"`
}

// Matchmaker pairs waiting players into new games, longest waiting first.
// The earlier of the two plays white.
type Matchmaker struct {
	players []queuedPlayer
	matches map[string]Match // playerID -> match
	manager *GameManager
	mu      sync.Mutex
	logger  *log.Logger
}

func NewMatchmaker(manager *GameManager, logger *log.Logger) *Matchmaker {
	return &Matchmaker{
		matches: make(map[string]Match),
		manager: manager,
		logger:  logger,
	}
}

// Join queues playerID under name and pairs the queue. It reports the
// player's match when one exists after pairing.
func (m *Matchmaker) Join(playerID, name string) (Match, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if match, ok := m.liveMatch(playerID); ok {
		return match, true, nil
	}
	for _, p := range m.players {
		if p.ID == playerID {
			return Match{}, false, fmt.Errorf("%w: %s", ErrAlreadyQueued, playerID)
		}
	}
	if name = strings.TrimSpace(name); name == "" {
		name = playerID
	}
	m.players = append(m.players, queuedPlayer{ID: playerID, Name: name, JoinedAt: time.Now()})
	m.logger.Info("player queued", "player", playerID, "queued", len(m.players))

	if err := m.pair(); err != nil {
		return Match{}, false, err
	}
	match, ok := m.matches[playerID]
	return match, ok, nil
}

// Status reports the match of playerID, if any.
func (m *Matchmaker) Status(playerID string) (Match, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.liveMatch(playerID)
}

// liveMatch returns the match of playerID while its game still exists and
// forgets it once the game is gone.
func (m *Matchmaker) liveMatch(playerID string) (Match, bool) {
	match, ok := m.matches[playerID]
	if !ok {
		return Match{}, false
	}
	if _, err := m.manager.GetGame(match.GameID); err != nil {
		delete(m.matches, playerID)
		return Match{}, false
	}
	return match, true
}

// Queued reports whether playerID is waiting for an opponent.
func (m *Matchmaker) Queued(playerID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.players {
		if p.ID == playerID {
			return true
		}
	}
	return false
}

// Leave removes playerID from the queue and forgets their match.
func (m *Matchmaker) Leave(playerID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.matches, playerID)
	for i, p := range m.players {
		if p.ID == playerID {
			m.players = append(m.players[:i], m.players[i+1:]...)
			return
		}
	}
}

func (m *Matchmaker) Size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.players)
}

// pair matches the two longest waiting players whose names differ.
func (m *Matchmaker) pair() error {
	for i := 0; i < len(m.players); i++ {
		for j := i + 1; j < len(m.players); j++ {
			white, black := m.players[i], m.players[j]
			if strings.EqualFold(white.Name, black.Name) {
				continue
			}
			session, err := m.manager.CreateGame(white.Name, black.Name)
			if err != nil {
				return err
			}
			session.seat(white.ID, model.White)
			session.seat(black.ID, model.Black)
			m.matches[white.ID] = Match{GameID: session.ID, Color: model.White}
			m.matches[black.ID] = Match{GameID: session.ID, Color: model.Black}

			// Remove these players from the queue
			m.players = append(m.players[:j], m.players[j+1:]...)
			m.players = append(m.players[:i], m.players[i+1:]...)
			m.logger.Info("players matched", "game", session.ID, "white", white.ID, "black", black.ID)
			return nil
		}
	}
	return nil
}
