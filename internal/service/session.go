package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/benbeisheim/mindchess/internal/game"
	"github.com/benbeisheim/mindchess/internal/model"
	"github.com/benbeisheim/mindchess/internal/ws"
)

// Conn is the part of a websocket connection a session writes to.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// The connections watching a specific session
type sessionConnections struct {
	connections map[string]Conn // playerID -> connection
	mu          sync.Mutex
}

// Session wraps one game with the lock that serializes its input, the
// players seated at it and the connections that watch it.
type Session struct {
	ID      string
	Created time.Time

	game        *game.Game
	buffer      *notificationBuffer
	connections *sessionConnections
	clocks      map[model.Color]*Clock
	seats       map[model.Color]string // color -> playerID
	mu          sync.Mutex

	// sendMu keeps broadcasts in the order their inputs were handled
	sendMu sync.Mutex
	logger *log.Logger
}

// Summary describes a session in listings.
type Summary struct {
	ID      string       `json:"id"`
	White   model.Player `json:"white"`
	Black   model.Player `json:"black"`
	Status  string       `json:"status"`
	Ongoing bool         `json:"ongoing"`
	Plies   int          `json:"plies"`
	Time    PlayerTimes  `json:"time"`
	Created time.Time    `json:"created"`
}

// PlayerTimes is the time each player has spent on their turns.
type PlayerTimes struct {
	White time.Duration `json:"white"`
	Black time.Duration `json:"black"`
}

// PlyView is a recorded ply with its notation and the position after it.
// FEN shows the pawn before a promotion choice was made.
type PlyView struct {
	Number    int             `json:"number"`
	Notation  string          `json:"notation"`
	FEN       string          `json:"fen"`
	Promotion model.PieceType `json:"promotion,omitempty"`
	Ply       model.Ply       `json:"ply"`
}

// Result is what one input produced: the notifications in the order they
// were raised and the view afterwards.
type Result struct {
	Notifications []ws.NotificationPayload `json:"notifications"`
	View          game.View                `json:"view"`
}

func newSession(id, white, black string, logger *log.Logger) *Session {
	logger = logger.With("game", id)
	buffer := &notificationBuffer{}
	g := game.New(white, black, game.WithLogger(logger))
	g.AddObserver(buffer)
	s := &Session{
		ID:          id,
		Created:     time.Now(),
		game:        g,
		buffer:      buffer,
		connections: &sessionConnections{connections: make(map[string]Conn)},
		clocks: map[model.Color]*Clock{
			model.White: NewClock(),
			model.Black: NewClock(),
		},
		seats:  make(map[model.Color]string),
		logger: logger,
	}
	s.clocks[model.White].Start()
	return s
}

// AddPlayer seats playerID at the first free color. A player already
// seated keeps their color.
func (s *Session) AddPlayer(playerID string) (model.Color, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if color, ok := s.colorOf(playerID); ok {
		return color, nil
	}
	for _, color := range []model.Color{model.White, model.Black} {
		if s.seats[color] == "" {
			s.seats[color] = playerID
			s.logger.Info("player seated", "player", playerID, "color", color)
			return color, nil
		}
	}
	return "", ErrGameFull
}

// seat puts playerID at color, replacing whoever sat there.
func (s *Session) seat(playerID string, color model.Color) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seats[color] = playerID
}

// IsPlayerInGame reports whether playerID holds a seat.
func (s *Session) IsPlayerInGame(playerID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.colorOf(playerID)
	return ok
}

func (s *Session) colorOf(playerID string) (model.Color, bool) {
	for color, id := range s.seats {
		if id == playerID {
			return color, true
		}
	}
	return "", false
}

// HandleInput feeds one click from playerID to the game and broadcasts what
// it raised to every connection. Only the player seated at the color to
// move may play.
func (s *Session) HandleInput(playerID string, x, y int) (Result, error) {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()

	res, err := s.handle(playerID, x, y)
	if err != nil {
		return Result{}, err
	}
	s.broadcast(res)
	return res, nil
}

func (s *Session) handle(playerID string, x, y int) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// a panicking input must not leak its notifications into the next one
	defer s.buffer.drain()

	color, ok := s.colorOf(playerID)
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrNotSeated, playerID)
	}
	before := s.game.CurrentPlayer().Color
	if color != before {
		return Result{}, fmt.Errorf("%w: %s plays %s", ErrNotYourTurn, playerID, color)
	}

	s.game.HandleInput(x, y)
	s.updateClocks(before)
	return Result{Notifications: s.buffer.drain(), View: s.game.View()}, nil
}

// updateClocks hands the running clock to the player now to move and stops
// both once the game is over.
func (s *Session) updateClocks(before model.Color) {
	if !s.game.IsGameOngoing() {
		for _, c := range s.clocks {
			c.Stop()
		}
		return
	}
	if after := s.game.CurrentPlayer().Color; after != before {
		s.clocks[before].Stop()
		s.clocks[after].Start()
	}
}

func (s *Session) View() game.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.View()
}

func (s *Session) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Summary{
		ID:      s.ID,
		White:   s.game.Player(model.White),
		Black:   s.game.Player(model.Black),
		Status:  s.game.GameStatus(),
		Ongoing: s.game.IsGameOngoing(),
		Plies:   s.game.Plies().Len(),
		Time: PlayerTimes{
			White: s.clocks[model.White].Used(),
			Black: s.clocks[model.Black].Used(),
		},
		Created: s.Created,
	}
}

// Board renders the current position as an ASCII diagram.
func (s *Session) Board() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Board().Snapshot().Draw()
}

func (s *Session) Plies() []PlyView {
	s.mu.Lock()
	defer s.mu.Unlock()
	history := s.game.Plies()
	plies := history.All()
	out := make([]PlyView, 0, len(plies))
	for i, p := range plies {
		promotion, _ := history.Promotion(i)
		out = append(out, PlyView{
			Number:    i + 1,
			Notation:  history.Notation(i),
			FEN:       p.Snapshot.FEN(),
			Promotion: promotion,
			Ply:       p,
		})
	}
	return out
}

// RegisterConnection adds conn for playerID and sends it the current view.
// A player already connected keeps the existing connection.
func (s *Session) RegisterConnection(playerID string, conn Conn) error {
	s.connections.mu.Lock()
	defer s.connections.mu.Unlock()
	if _, exists := s.connections.connections[playerID]; exists {
		return ErrConnectionExists
	}
	s.connections.connections[playerID] = conn
	s.logger.Info("connection registered", "player", playerID)

	msg, err := ws.NewMessage(ws.MessageTypeGameState, s.View())
	if err != nil {
		return err
	}
	if err := conn.WriteJSON(msg); err != nil {
		delete(s.connections.connections, playerID)
		return err
	}
	return nil
}

// UnregisterConnection drops playerID only if conn is still the registered
// connection.
func (s *Session) UnregisterConnection(playerID string, conn Conn) {
	s.connections.mu.Lock()
	defer s.connections.mu.Unlock()
	if current, exists := s.connections.connections[playerID]; exists && current == conn {
		delete(s.connections.connections, playerID)
		s.logger.Info("connection unregistered", "player", playerID)
	}
}

func (s *Session) closeConnections() {
	s.connections.mu.Lock()
	defer s.connections.mu.Unlock()
	for playerID, conn := range s.connections.connections {
		if err := conn.Close(); err != nil {
			s.logger.Debug("close connection", "player", playerID, "err", err)
		}
		delete(s.connections.connections, playerID)
	}
}

// broadcast writes every notification then the new view to each
// connection. Connections that fail a write are dropped.
func (s *Session) broadcast(res Result) {
	msgs := make([]ws.Message, 0, len(res.Notifications)+1)
	for _, n := range res.Notifications {
		msg, err := ws.NewMessage(ws.MessageTypeNotification, n)
		if err != nil {
			s.logger.Error("marshal notification", "err", err)
			continue
		}
		msgs = append(msgs, msg)
	}
	state, err := ws.NewMessage(ws.MessageTypeGameState, res.View)
	if err != nil {
		s.logger.Error("marshal game state", "err", err)
	} else {
		msgs = append(msgs, state)
	}

	s.connections.mu.Lock()
	defer s.connections.mu.Unlock()
	for playerID, conn := range s.connections.connections {
		for _, msg := range msgs {
			if err := conn.WriteJSON(msg); err != nil {
				s.logger.Warn("failed to send to player", "player", playerID, "err", err)
				delete(s.connections.connections, playerID)
				break
			}
		}
	}
}
