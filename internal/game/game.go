// Package game sequences player input through the turn states of a chess
// game and notifies observers of everything the presentation must redraw.
package game

import (
	"errors"
	"io"

	"github.com/charmbracelet/log"

	"github.com/benbeisheim/mindchess/internal/model"
)

var ErrLegalSquareNotFound = errors.New("no legal square with matching coordinates")

// Context is what states share between transitions. Game is the only
// implementation; states depend on this seam rather than on each other.
type Context interface {
	CurrentPlayer() model.Player
	Player(c model.Color) model.Player
	Board() *model.Board
	Plies() *model.History
	LegalSquares() []model.Square
	SetLegalSquares([]model.Square)
	State() State
	SetState(State)
	Observers() []Observer
	AddObserver(Observer)
	SwitchPlayer()
	HandleInput(x, y int)
	Logger() *log.Logger
}

// Game owns one session: board, plies, the live state and its observers.
// It is not safe for concurrent use.
type Game struct {
	players   map[model.Color]model.Player
	current   model.Color
	board     *model.Board
	plies     *model.History
	legal     []model.Square
	state     State
	observers []Observer
	logger    *log.Logger
}

type Option func(*Game)

func WithLogger(logger *log.Logger) Option {
	return func(g *Game) {
		g.logger = logger
	}
}

// WithBoard starts the game from b instead of the standard position.
func WithBoard(b *model.Board) Option {
	return func(g *Game) {
		g.board = b
	}
}

// WithCurrentPlayer sets who moves first.
func WithCurrentPlayer(c model.Color) Option {
	return func(g *Game) {
		g.current = c
	}
}

// New starts a game between white and black, white to move.
func New(white, black string, opts ...Option) *Game {
	g := &Game{
		players: map[model.Color]model.Player{
			model.White: {Name: white, Color: model.White},
			model.Black: {Name: black, Color: model.Black},
		},
		current: model.White,
		board:   model.NewStandardBoard(),
		plies:   model.NewHistory(),
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.state = newNoPieceSelected(g)
	return g
}

// HandleInput feeds a logical click to the live state.
func (g *Game) HandleInput(x, y int) {
	g.state.HandleInput(x, y)
}

func (g *Game) GameStatus() string {
	return g.state.GameStatus()
}

func (g *Game) IsGameOngoing() bool {
	return g.state.IsGameOngoing()
}

func (g *Game) CurrentPlayer() model.Player {
	return g.players[g.current]
}

func (g *Game) Player(c model.Color) model.Player {
	return g.players[c]
}

func (g *Game) Board() *model.Board {
	return g.board
}

func (g *Game) Plies() *model.History {
	return g.plies
}

func (g *Game) LegalSquares() []model.Square {
	return g.legal
}

func (g *Game) SetLegalSquares(squares []model.Square) {
	g.legal = squares
}

func (g *Game) State() State {
	return g.state
}

func (g *Game) SetState(s State) {
	g.logger.Debug("state transition", "from", g.state.Kind(), "to", s.Kind())
	g.state = s
}

func (g *Game) Observers() []Observer {
	return g.observers
}

func (g *Game) AddObserver(o Observer) {
	g.observers = append(g.observers, o)
}

func (g *Game) SwitchPlayer() {
	g.current = g.current.Opposite()
}

func (g *Game) Logger() *log.Logger {
	return g.logger
}
