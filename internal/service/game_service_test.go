package service

import (
	"encoding/json"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/benbeisheim/mindchess/internal/game"
	"github.com/benbeisheim/mindchess/internal/model"
	"github.com/benbeisheim/mindchess/internal/ws"
)

type fakeConn struct {
	mu       sync.Mutex
	messages []ws.Message
	failures int
	closed   bool
}

func (c *fakeConn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failures > 0 {
		c.failures--
		return errors.New("broken pipe")
	}
	c.messages = append(c.messages, v.(ws.Message))
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) types() []ws.MessageType {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]ws.MessageType, 0, len(c.messages))
	for _, m := range c.messages {
		out = append(out, m.Type)
	}
	return out
}

func newTestService() *GameService {
	logger := log.New(io.Discard)
	return NewGameService(NewGameManager(logger), "White", "Black", logger)
}

// newSeatedGame creates Alice against Bob with players "alice" and "bob"
// seated as white and black.
func newSeatedGame(t *testing.T, gs *GameService) string {
	t.Helper()
	id, err := gs.CreateGame("Alice", "Bob")
	if err != nil {
		t.Fatal(err)
	}
	for _, player := range []string{"alice", "bob"} {
		if _, err := gs.JoinGame(id, player); err != nil {
			t.Fatalf("JoinGame(%s): %v", player, err)
		}
	}
	return id
}

// play clicks each square as the seated player to move and returns the
// result of the last click.
func play(t *testing.T, gs *GameService, id string, clicks ...[2]int) Result {
	t.Helper()
	seated := map[model.Color]string{model.White: "alice", model.Black: "bob"}
	var res Result
	for _, c := range clicks {
		view, err := gs.GetGameState(id)
		if err != nil {
			t.Fatal(err)
		}
		res, err = gs.HandleClick(id, seated[view.ToMove.Color], c[0], c[1])
		if err != nil {
			t.Fatalf("click %v: %v", c, err)
		}
	}
	return res
}

func TestCreateGame(t *testing.T) {
	tests := []struct {
		name         string
		white, black string
		wantErr      error
		wantWhite    string
	}{
		{name: "named players", white: "Alice", black: "Bob", wantWhite: "Alice"},
		{name: "defaults fill blanks", wantWhite: "White"},
		{name: "same name twice", white: "Alice", black: "alice", wantErr: ErrInvalidPlayers},
		{name: "whitespace name", white: "  ", black: "Bob", wantErr: ErrInvalidPlayers},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gs := newTestService()
			id, err := gs.CreateGame(tt.white, tt.black)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("CreateGame() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateGame() error: %v", err)
			}
			view, err := gs.GetGameState(id)
			if err != nil {
				t.Fatalf("GetGameState() error: %v", err)
			}
			if view.Players.White.Name != tt.wantWhite {
				t.Errorf("white = %q, want %q", view.Players.White.Name, tt.wantWhite)
			}
			if view.State != game.KindNoPieceSelected || !view.Ongoing {
				t.Errorf("new game view = %s, ongoing %v", view.State, view.Ongoing)
			}
		})
	}
}

func TestUnknownGame(t *testing.T) {
	gs := newTestService()
	if _, err := gs.GetGameState("missing"); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("GetGameState() error = %v, want ErrGameNotFound", err)
	}
	if _, err := gs.HandleClick("missing", "p1", 4, 6); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("HandleClick() error = %v, want ErrGameNotFound", err)
	}
	if _, err := gs.JoinGame("missing", "p1"); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("JoinGame() error = %v, want ErrGameNotFound", err)
	}
	if err := gs.DeleteGame("missing"); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("DeleteGame() error = %v, want ErrGameNotFound", err)
	}
	if err := gs.RegisterConnection("missing", "p1", &fakeConn{}); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("RegisterConnection() error = %v, want ErrGameNotFound", err)
	}
}

func TestHandleClickReturnsNotifications(t *testing.T) {
	gs := newTestService()
	id := newSeatedGame(t, gs)

	play(t, gs, id, [2]int{4, 6})
	res := play(t, gs, id, [2]int{4, 4})
	want := []ws.NotificationPayload{
		{Event: ws.EventDrawPieces},
		{Event: ws.EventSwitchPlayer},
		{Event: ws.EventDrawLegalMoves},
	}
	if diff := cmp.Diff(want, res.Notifications); diff != "" {
		t.Errorf("notifications mismatch (-want +got):\n%s", diff)
	}
	if res.View.ToMove.Name != "Bob" {
		t.Errorf("ToMove = %v, want Bob", res.View.ToMove)
	}

	plies, err := gs.Plies(id)
	if err != nil {
		t.Fatal(err)
	}
	if len(plies) != 1 || plies[0].Notation != "e4" || plies[0].Number != 1 {
		t.Fatalf("Plies() = %+v, want a single e4", plies)
	}
	if want := "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR"; plies[0].FEN != want {
		t.Errorf("ply FEN = %q, want %q", plies[0].FEN, want)
	}

	board, err := gs.Board(id)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(board, "A B C D E F G H") {
		t.Errorf("Board() = %q, want a labelled diagram", board)
	}
}

func TestKingInCheckCarriesCoordinates(t *testing.T) {
	gs := newTestService()
	id := newSeatedGame(t, gs)
	play(t, gs, id, [2]int{2, 6}, [2]int{2, 4}, [2]int{3, 1}, [2]int{3, 3}, [2]int{3, 7})
	res := play(t, gs, id, [2]int{0, 4})

	var check *ws.NotificationPayload
	for i, n := range res.Notifications {
		if n.Event == ws.EventKingInCheck {
			check = &res.Notifications[i]
		}
	}
	if check == nil || check.X == nil || check.Y == nil {
		t.Fatalf("no kingInCheck with coordinates in %+v", res.Notifications)
	}
	if *check.X != 4 || *check.Y != 0 {
		t.Errorf("kingInCheck at (%d,%d), want (4,0)", *check.X, *check.Y)
	}
	raw, _ := json.Marshal(res.Notifications[0])
	if strings.Contains(string(raw), `"x"`) {
		t.Errorf("%s: coordinates on a plain notification", raw)
	}
}

func TestHandlePromotion(t *testing.T) {
	gs := newTestService()
	id := newSeatedGame(t, gs)

	if _, err := gs.HandlePromotion(id, "alice", model.King); !errors.Is(err, ErrInvalidPromotion) {
		t.Errorf("HandlePromotion(king) error = %v, want ErrInvalidPromotion", err)
	}
	// Outside the promotion state the choice is ignored.
	res, err := gs.HandlePromotion(id, "alice", model.Queen)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Notifications) != 0 || res.View.State != game.KindNoPieceSelected {
		t.Errorf("promotion outside promotion state changed the game: %+v", res)
	}
}

func TestBroadcast(t *testing.T) {
	gs := newTestService()
	id := newSeatedGame(t, gs)

	alice, bob := &fakeConn{}, &fakeConn{}
	if err := gs.RegisterConnection(id, "alice", alice); err != nil {
		t.Fatal(err)
	}
	if err := gs.RegisterConnection(id, "bob", bob); err != nil {
		t.Fatal(err)
	}
	if err := gs.RegisterConnection(id, "bob", &fakeConn{}); !errors.Is(err, ErrConnectionExists) {
		t.Errorf("second connection error = %v, want ErrConnectionExists", err)
	}

	play(t, gs, id, [2]int{4, 6})

	want := []ws.MessageType{ws.MessageTypeGameState, ws.MessageTypeNotification, ws.MessageTypeGameState}
	for name, conn := range map[string]*fakeConn{"alice": alice, "bob": bob} {
		if diff := cmp.Diff(want, conn.types()); diff != "" {
			t.Errorf("%s messages mismatch (-want +got):\n%s", name, diff)
		}
	}

	var payload ws.NotificationPayload
	if err := json.Unmarshal(alice.messages[1].Payload, &payload); err != nil {
		t.Fatal(err)
	}
	if payload.Event != ws.EventDrawLegalMoves {
		t.Errorf("event = %s, want drawLegalMoves", payload.Event)
	}

	gs.UnregisterConnection(id, "bob", &fakeConn{})
	gs.UnregisterConnection(id, "alice", alice)
	play(t, gs, id, [2]int{4, 6})
	if got := len(alice.types()); got != 3 {
		t.Errorf("alice received %d messages after unregistering, want 3", got)
	}
	if got := len(bob.types()); got != 5 {
		t.Errorf("bob received %d messages, want 5", got)
	}
}

func TestBroadcastDropsFailedConnection(t *testing.T) {
	gs := newTestService()
	id := newSeatedGame(t, gs)
	conn := &fakeConn{}
	if err := gs.RegisterConnection(id, "alice", conn); err != nil {
		t.Fatal(err)
	}
	conn.failures = 1
	play(t, gs, id, [2]int{4, 6}, [2]int{4, 6})
	if got := len(conn.types()); got != 1 {
		t.Errorf("dropped connection received %d messages, want only the initial state", got)
	}
}

func TestDeleteGameClosesConnections(t *testing.T) {
	gs := newTestService()
	id, _ := gs.CreateGame("Alice", "Bob")
	conn := &fakeConn{}
	if err := gs.RegisterConnection(id, "alice", conn); err != nil {
		t.Fatal(err)
	}
	if err := gs.DeleteGame(id); err != nil {
		t.Fatal(err)
	}
	if !conn.closed {
		t.Error("connection left open")
	}
	if len(gs.ListGames()) != 0 {
		t.Errorf("ListGames() = %v after delete", gs.ListGames())
	}
}

func TestListGames(t *testing.T) {
	gs := newTestService()
	first, _ := gs.CreateGame("Alice", "Bob")
	second, _ := gs.CreateGame("Carol", "Dave")
	if color, err := gs.JoinGame(second, "carol"); err != nil || color != model.White {
		t.Fatalf("JoinGame(carol) = %s, %v; want white", color, err)
	}
	gs.HandleClick(second, "carol", 6, 7)
	gs.HandleClick(second, "carol", 5, 5)

	games := gs.ListGames()
	if len(games) != 2 {
		t.Fatalf("ListGames() returned %d games, want 2", len(games))
	}
	byID := map[string]Summary{}
	for _, g := range games {
		byID[g.ID] = g
	}
	if byID[first].Plies != 0 || byID[second].Plies != 1 {
		t.Errorf("plies = %d, %d; want 0, 1", byID[first].Plies, byID[second].Plies)
	}
	if byID[second].White.Name != "Carol" || byID[second].Status != "Game ongoing" {
		t.Errorf("summary = %+v", byID[second])
	}
}

func TestSeats(t *testing.T) {
	gs := newTestService()
	id, _ := gs.CreateGame("Alice", "Bob")

	seats := []struct {
		player  string
		want    model.Color
		wantErr error
	}{
		{"alice", model.White, nil},
		{"bob", model.Black, nil},
		{"alice", model.White, nil},
		{"carol", "", ErrGameFull},
	}
	for _, tt := range seats {
		color, err := gs.JoinGame(id, tt.player)
		if !errors.Is(err, tt.wantErr) || color != tt.want {
			t.Errorf("JoinGame(%s) = %q, %v; want %q, %v", tt.player, color, err, tt.want, tt.wantErr)
		}
	}

	conn := &fakeConn{}
	if err := gs.RegisterConnection(id, "carol", conn); err != nil {
		t.Fatalf("a spectator could not watch: %v", err)
	}
	rejected := []struct {
		name    string
		click   func() error
		wantErr error
	}{
		{"unseated click", func() error {
			_, err := gs.HandleClick(id, "carol", 4, 6)
			return err
		}, ErrNotSeated},
		{"unseated promotion", func() error {
			_, err := gs.HandlePromotion(id, "carol", model.Queen)
			return err
		}, ErrNotSeated},
		{"black on white's turn", func() error {
			_, err := gs.HandleClick(id, "bob", 4, 1)
			return err
		}, ErrNotYourTurn},
	}
	for _, tt := range rejected {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.click(); !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
	view, _ := gs.GetGameState(id)
	if view.State != game.KindNoPieceSelected || len(view.LegalMoves) != 0 {
		t.Errorf("rejected input changed the game: %+v", view)
	}
	if got := len(conn.types()); got != 1 {
		t.Errorf("rejected input was broadcast: %d messages, want only the initial state", got)
	}

	play(t, gs, id, [2]int{4, 6}, [2]int{4, 4})
	if _, err := gs.HandleClick(id, "alice", 4, 1); !errors.Is(err, ErrNotYourTurn) {
		t.Errorf("white clicking on black's turn: error = %v, want ErrNotYourTurn", err)
	}
}

// gatedConn holds the first notification it is sent until gate closes.
type gatedConn struct {
	fakeConn
	gate    chan struct{}
	blocked chan struct{}
	once    sync.Once
}

func (c *gatedConn) WriteJSON(v interface{}) error {
	if v.(ws.Message).Type == ws.MessageTypeNotification {
		c.once.Do(func() {
			close(c.blocked)
			<-c.gate
		})
	}
	return c.fakeConn.WriteJSON(v)
}

func TestBroadcastsFollowInputOrder(t *testing.T) {
	gs := newTestService()
	id := newSeatedGame(t, gs)
	conn := &gatedConn{gate: make(chan struct{}), blocked: make(chan struct{})}
	if err := gs.RegisterConnection(id, "viewer", conn); err != nil {
		t.Fatal(err)
	}

	errs := make(chan error, 2)
	go func() {
		_, err := gs.HandleClick(id, "alice", 4, 6)
		errs <- err
	}()
	<-conn.blocked
	go func() {
		_, err := gs.HandleClick(id, "alice", 4, 4)
		errs <- err
	}()

	// The move must wait until the selection has been sent.
	time.Sleep(50 * time.Millisecond)
	if plies, _ := gs.Plies(id); len(plies) != 0 {
		t.Errorf("second input handled while the first was still broadcasting")
	}
	close(conn.gate)
	for i := 0; i < 2; i++ {
		if err := <-errs; err != nil {
			t.Fatal(err)
		}
	}

	conn.mu.Lock()
	defer conn.mu.Unlock()
	var states []game.StateKind
	var last game.View
	for _, msg := range conn.messages {
		if msg.Type != ws.MessageTypeGameState {
			continue
		}
		if err := json.Unmarshal(msg.Payload, &last); err != nil {
			t.Fatal(err)
		}
		states = append(states, last.State)
	}
	want := []game.StateKind{game.KindNoPieceSelected, game.KindPieceSelected, game.KindNoPieceSelected}
	if diff := cmp.Diff(want, states); diff != "" {
		t.Errorf("game states mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"e4"}, last.MoveHistory); diff != "" {
		t.Errorf("final move history mismatch (-want +got):\n%s", diff)
	}
}

func TestSessionRecoversBufferAfterPanic(t *testing.T) {
	gm := NewGameManager(log.New(io.Discard))
	session, err := gm.CreateGame("Alice", "Bob")
	if err != nil {
		t.Fatal(err)
	}
	session.game.AddObserver(panicObserver{})
	if _, err := session.AddPlayer("alice"); err != nil {
		t.Fatal(err)
	}

	func() {
		defer func() { recover() }()
		session.HandleInput("alice", 4, 6)
	}()

	if len(session.buffer.pending) != 0 {
		t.Errorf("buffer kept %d notifications after a panic", len(session.buffer.pending))
	}
	// The lock was released.
	_ = session.View()
}

type panicObserver struct{}

func (panicObserver) NotifyDrawPieces() {}
func (panicObserver) NotifyDrawDeadPieces() {}
func (panicObserver) NotifyDrawLegalMoves() { panic("observer failed") }
func (panicObserver) NotifySwitchPlayer() {}
func (panicObserver) NotifyKingInCheck(int, int) {}
func (panicObserver) NotifyPawnPromotionSetup() {}
func (panicObserver) NotifyPawnPromotionCleanUp() {}
