package model

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/benbeisheim/checkers-backend/internal/ws"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"
)

// MovePicker chooses a move for side on a private copy of the board.
type MovePicker interface {
	PickMove(board Board, side PlayerColor) (Move, bool)
}

type GameOptions struct {
	// ComputerSide is the side played by Picker. Empty means both sides
	// are played from the owner's client.
	ComputerSide PlayerColor
	Picker       MovePicker
	// AIDelay is waited before the computer starts thinking.
	AIDelay time.Duration
}

// The connections for a specific game
type GameConnections struct {
	connections map[string]*websocket.Conn // playerID -> connection
	mu          sync.RWMutex
	writeMu     sync.Mutex
	// broadcastMu orders whole broadcasts; lastSent is the newest view
	// version sent under it.
	broadcastMu sync.Mutex
	lastSent    uint64
}

type Result struct {
	Winner PlayerColor `json:"winner"`
	Reason string      `json:"reason"`
}

// GameView is the snapshot sent to clients.
type GameView struct {
	ID               string         `json:"id"`
	// Version grows with every change; a view older than one already
	// received can be ignored.
	Version          uint64         `json:"version"`
	Sound            string         `json:"sound"`
	Board            Board          `json:"board"`
	ToMove           PlayerColor    `json:"toMove"`
	MoveHistory      []HistoryEntry `json:"moveHistory"`
	WhiteCount       int            `json:"whiteCount"`
	BlackCount       int            `json:"blackCount"`
	CaptureMandatory bool           `json:"captureMandatory"`
	Thinking         bool           `json:"thinking"`
	LastMove         *Move          `json:"lastMove"`
	Resolve          *Result        `json:"resolve"`
	Players          struct {
		White ClientPlayer `json:"white"`
		Black ClientPlayer `json:"black"`
	} `json:"players"`
}

// Game is one checkers session. Its owner plays against the computer or,
// without a computer side, moves for both colors.
type Game struct {
	ID      string
	OwnerID string

	mu          sync.Mutex
	state       *GameState
	connections *GameConnections
	computer    PlayerColor
	picker      MovePicker
	aiDelay     time.Duration
	whiteClock  *Clock
	blackClock  *Clock

	// version changes on every mutation so a computer move computed for an
	// older position is dropped.
	version  uint64
	thinking bool
	pending  sync.WaitGroup
	dirty    bool
	sound    string
	lastMove *Move
	resolve  *Result
}

func NewGame(id, ownerID string, opts GameOptions) (*Game, error) {
	if opts.ComputerSide != "" && !opts.ComputerSide.Valid() {
		return nil, fmt.Errorf("%w: unknown computer side %q", ErrInvalidOptions, opts.ComputerSide)
	}
	if opts.ComputerSide != "" && opts.Picker == nil {
		return nil, fmt.Errorf("%w: computer side without a move picker", ErrInvalidOptions)
	}

	g := &Game{
		ID:          id,
		OwnerID:     ownerID,
		connections: NewGameConnections(),
		computer:    opts.ComputerSide,
		picker:      opts.Picker,
		aiDelay:     opts.AIDelay,
		whiteClock:  NewClock(),
		blackClock:  NewClock(),
	}
	g.state = NewGameState(Hooks{
		Render:      g.onRender,
		PieceCounts: g.onPieceCounts,
	})

	g.mu.Lock()
	g.whiteClock.Start()
	g.scheduleComputerMove()
	g.mu.Unlock()
	return g, nil
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]*websocket.Conn),
	}
}

func (g *Game) IsOwner(playerID string) bool {
	return playerID != "" && playerID == g.OwnerID
}

func (g *Game) GetState() GameView {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.view()
}

// Select returns the moves the piece on pos can make right now, for
// highlighting. It never fails: a bad square just has no moves.
func (g *Game) Select(pos Position) []Move {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.resolve != nil {
		return []Move{}
	}
	moves := g.state.LegalMoves(pos)
	if moves == nil {
		return []Move{}
	}
	return moves
}

func (g *Game) MakeMove(playerID string, move WSMove) error {
	g.mu.Lock()
	if err := g.validateMove(playerID, move); err != nil {
		g.mu.Unlock()
		return err
	}
	legal, err := g.matchMove(move)
	if err != nil {
		g.mu.Unlock()
		return err
	}
	log.Debugf("game %s: %s plays %s", g.ID, g.state.CurrentPlayer, legal)

	g.play(legal)
	g.scheduleComputerMove()
	view, changed := g.flush()
	g.mu.Unlock()

	if changed {
		g.broadcastState(view)
	}
	return nil
}

func (g *Game) validateMove(playerID string, move WSMove) error {
	if !g.IsOwner(playerID) {
		return ErrNotInGame
	}
	if g.resolve != nil {
		return ErrGameOver
	}
	if !move.From.InBounds() || !move.To.InBounds() {
		return ErrOutOfBounds
	}
	if g.computer != "" && g.state.CurrentPlayer == g.computer {
		return ErrNotYourTurn
	}
	piece := g.state.Board.At(move.From)
	if piece.IsEmpty() {
		return ErrNoPiece
	}
	if piece.Color != g.state.CurrentPlayer {
		return ErrNotYourTurn
	}
	return nil
}

// matchMove finds the legal move of the selected piece landing on move.To.
func (g *Game) matchMove(move WSMove) (Move, error) {
	for _, legal := range g.state.LegalMoves(move.From) {
		if legal.To == move.To {
			return legal, nil
		}
	}
	return Move{}, fmt.Errorf("%w: %s to %s", ErrIllegalMove, move.From.getSquareNotation(), move.To.getSquareNotation())
}

// Undo takes back the last move and gives the turn back to its mover. In a
// game against the computer a computer move is taken back together with
// the owner's move before it. Captured pieces are not restored.
func (g *Game) Undo(playerID string) error {
	g.mu.Lock()
	if !g.IsOwner(playerID) {
		g.mu.Unlock()
		return ErrNotInGame
	}

	entry, ok := g.state.Undo()
	if ok && g.computer != "" && entry.Piece.Color == g.computer {
		if previous, more := g.state.Undo(); more {
			entry = previous
		}
	}
	if ok {
		g.state.CurrentPlayer = entry.Piece.Color
		g.lastMove = nil
		g.sound = "undo"
		g.resolve = g.checkResult()
		g.version++
		g.thinking = false
		g.switchClocks()
		g.scheduleComputerMove()
	}
	view, changed := g.flush()
	g.mu.Unlock()

	if changed {
		g.broadcastState(view)
	}
	return nil
}

func (g *Game) Restart(playerID string) error {
	g.mu.Lock()
	if !g.IsOwner(playerID) {
		g.mu.Unlock()
		return ErrNotInGame
	}

	g.state.Reset()
	g.sound = ""
	g.lastMove = nil
	g.resolve = nil
	g.version++
	g.thinking = false
	g.whiteClock.Reset()
	g.blackClock.Reset()
	g.whiteClock.Start()
	g.scheduleComputerMove()
	view, _ := g.flush()
	g.mu.Unlock()

	g.broadcastState(view)
	return nil
}

// Wait blocks until no computer move is pending.
func (g *Game) Wait() {
	g.pending.Wait()
}

// play applies a legal move for the side to move and hands the turn over.
// Callers hold g.mu.
func (g *Game) play(move Move) {
	g.sound = "move"
	g.state.ApplyMove(move)
	if last := g.state.MoveHistory[len(g.state.MoveHistory)-1]; !last.Piece.IsKing() && g.state.Board.At(move.To).IsKing() {
		g.sound = "promotion"
	}
	g.state.SwitchTurn()
	g.switchClocks()
	g.lastMove = &move
	g.version++
	g.resolve = g.checkResult()
	if g.resolve != nil {
		g.whiteClock.Stop()
		g.blackClock.Stop()
		log.Infof("game %s: %s wins (%s)", g.ID, g.resolve.Winner, g.resolve.Reason)
	}
}

func (g *Game) checkResult() *Result {
	if !g.state.IsGameOver() {
		return nil
	}
	winner, _ := g.state.Winner()
	reason := "no moves"
	if white, black := g.state.PieceCounts(); white == 0 || black == 0 {
		reason = "no pieces"
	}
	return &Result{Winner: winner, Reason: reason}
}

func (g *Game) switchClocks() {
	if g.state.CurrentPlayer == PlayerColorWhite {
		g.blackClock.Stop()
		g.whiteClock.Start()
	} else {
		g.whiteClock.Stop()
		g.blackClock.Start()
	}
}

// scheduleComputerMove starts the picker when the computer is to move.
// Callers hold g.mu. The search runs on a copy of the board without the
// lock and its move is only played if nothing changed in the meantime.
func (g *Game) scheduleComputerMove() {
	if g.computer == "" || g.resolve != nil || g.state.CurrentPlayer != g.computer {
		return
	}
	version := g.version
	board := g.state.Board
	side := g.computer
	g.thinking = true

	g.pending.Add(1)
	go func() {
		defer g.pending.Done()
		if g.aiDelay > 0 {
			time.Sleep(g.aiDelay)
		}
		move, ok := g.picker.PickMove(board, side)

		g.mu.Lock()
		if g.version != version {
			g.mu.Unlock()
			log.Debugf("game %s: dropping stale computer move", g.ID)
			return
		}
		g.thinking = false
		if !ok {
			g.mu.Unlock()
			log.Warnf("game %s: computer has no move", g.ID)
			return
		}
		g.play(move)
		view, _ := g.flush()
		g.mu.Unlock()

		g.broadcastState(view)
	}()
}

func (g *Game) onRender(Board) {
	g.dirty = true
}

func (g *Game) onPieceCounts(white, black int) {
	if g.sound == "move" {
		g.sound = "capture"
	}
	log.Debugf("game %s: pieces white=%d black=%d", g.ID, white, black)
}

// flush returns the current view and whether the board was redrawn since
// the last flush. Callers hold g.mu.
func (g *Game) flush() (GameView, bool) {
	changed := g.dirty
	g.dirty = false
	return g.view(), changed
}

func (g *Game) view() GameView {
	white, black := g.state.PieceCounts()
	view := GameView{
		ID:               g.ID,
		Version:          g.version,
		Sound:            g.sound,
		Board:            g.state.Board,
		ToMove:           g.state.CurrentPlayer,
		MoveHistory:      append(make([]HistoryEntry, 0, len(g.state.MoveHistory)), g.state.MoveHistory...),
		WhiteCount:       white,
		BlackCount:       black,
		CaptureMandatory: g.state.CaptureIsMandatory(g.state.CurrentPlayer),
		Thinking:         g.thinking,
		Resolve:          g.resolve,
	}
	if g.lastMove != nil {
		last := *g.lastMove
		view.LastMove = &last
	}
	view.Players.White = g.clientPlayer(PlayerColorWhite, g.whiteClock)
	view.Players.Black = g.clientPlayer(PlayerColorBlack, g.blackClock)
	return view
}

func (g *Game) clientPlayer(color PlayerColor, clock *Clock) ClientPlayer {
	player := ClientPlayer{
		ID:       g.OwnerID,
		Color:    color,
		TimeUsed: int(clock.GetTimeUsed().Milliseconds()),
	}
	if color == g.computer {
		player.ID = "computer"
		player.Computer = true
	}
	return player
}

// RegisterConnection subscribes a websocket to the game's updates. Anyone
// holding the game id may watch; only the owner may move.
func (g *Game) RegisterConnection(playerID string, conn *websocket.Conn) error {
	connID := fmt.Sprintf("%p", conn)

	g.connections.mu.Lock()
	if _, exists := g.connections.connections[playerID]; exists {
		// If we already have a healthy connection, keep it and reject the new one
		g.connections.mu.Unlock()
		g.connections.writeMu.Lock()
		conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(
				websocket.CloseNormalClosure,
				"Connection already exists",
			),
		)
		g.connections.writeMu.Unlock()
		conn.Close()
		return nil // Not really an error, just rejecting duplicate connection
	}

	g.connections.connections[playerID] = conn
	g.connections.mu.Unlock()
	log.Debugf("game %s: registered connection %s for player %s", g.ID, connID, playerID)

	// Send initial state
	g.broadcastState(g.GetState())
	return nil
}

func (g *Game) UnregisterConnection(playerID string, conn *websocket.Conn) {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	// Only unregister if this is still the current connection
	if current, exists := g.connections.connections[playerID]; exists && current == conn {
		log.Debugf("game %s: unregistering connection %p for player %s", g.ID, conn, playerID)
		delete(g.connections.connections, playerID)
	}
}

// SendTo writes msg to conn, serialized with the game's broadcasts.
func (g *Game) SendTo(conn *websocket.Conn, msg ws.Message) error {
	g.connections.writeMu.Lock()
	defer g.connections.writeMu.Unlock()
	return conn.WriteJSON(msg)
}

// claim reports whether a view at version may still be sent and records
// it. Callers hold broadcastMu.
func (c *GameConnections) claim(version uint64) bool {
	if version < c.lastSent {
		return false
	}
	c.lastSent = version
	return true
}

// broadcastState sends view to every connection of the game. A view older
// than one already broadcast is dropped.
func (g *Game) broadcastState(view GameView) {
	g.connections.broadcastMu.Lock()
	defer g.connections.broadcastMu.Unlock()
	if !g.connections.claim(view.Version) {
		log.Debugf("game %s: dropping stale view %d", g.ID, view.Version)
		return
	}

	payload, err := json.Marshal(view)
	if err != nil {
		log.Errorf("game %s: failed to marshal state: %v", g.ID, err)
		return
	}
	msg := ws.Message{
		Type:    ws.MessageTypeGameState,
		Payload: json.RawMessage(payload),
	}

	// Get a snapshot of connections under the connections mutex
	g.connections.mu.RLock()
	activeConnections := make(map[string]*websocket.Conn, len(g.connections.connections))
	for playerID, conn := range g.connections.connections {
		activeConnections[playerID] = conn
	}
	g.connections.mu.RUnlock()

	for playerID, conn := range activeConnections {
		if err := g.SendTo(conn, msg); err != nil {
			log.Warnf("game %s: failed to send state to player %s: %v", g.ID, playerID, err)
			g.UnregisterConnection(playerID, conn)
		}
	}
}
