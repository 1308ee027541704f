package model

// Hooks are invoked by GameState so that a driver can redraw or update its
// counters. Either function may be nil.
type Hooks struct {
	Render      func(board Board)
	PieceCounts func(white, black int)
}

// GameState owns the board, the side to move and the move history. It is
// not safe for concurrent use; Game serializes access to it.
type GameState struct {
	Board         Board
	CurrentPlayer PlayerColor
	MoveHistory   []HistoryEntry
	WhiteCount    int
	BlackCount    int

	hooks Hooks
}

func NewGameState(hooks Hooks) *GameState {
	s := &GameState{hooks: hooks}
	s.Reset()
	return s
}

// NewGameStateFromBoard starts from an arbitrary position with toMove to
// play. It is used to set up puzzles and tests.
func NewGameStateFromBoard(board Board, toMove PlayerColor, hooks Hooks) *GameState {
	s := &GameState{
		Board:         board,
		CurrentPlayer: toMove,
		MoveHistory:   make([]HistoryEntry, 0),
		hooks:         hooks,
	}
	s.refreshCounts()
	return s
}

// Reset puts the pieces back in the opening layout with white to move.
func (s *GameState) Reset() {
	s.Board = NewBoard()
	s.CurrentPlayer = PlayerColorWhite
	s.MoveHistory = make([]HistoryEntry, 0)
	s.refreshCounts()
	s.render()
}

// LegalMoves returns the moves of the piece on pos, or nothing when the
// square is empty, off the board or holds a piece of the side not to move.
func (s *GameState) LegalMoves(pos Position) []Move {
	if !pos.InBounds() {
		return nil
	}
	piece := s.Board.At(pos)
	if piece.IsEmpty() || piece.Color != s.CurrentPlayer {
		return nil
	}
	return s.Board.MovesFrom(pos)
}

// LegalMovesForSide returns the moves of every piece of side, whether or
// not it is side's turn.
func (s *GameState) LegalMovesForSide(side PlayerColor) []Move {
	return s.Board.MovesForSide(side)
}

// CaptureIsMandatory reports whether side has a capture available. It is a
// query only: LegalMoves does not hide quiet moves when it is true.
func (s *GameState) CaptureIsMandatory(side PlayerColor) bool {
	return s.Board.HasCapture(side)
}

// ApplyMove plays move without changing the side to move.
func (s *GameState) ApplyMove(move Move) {
	mover, captured := s.Board.Apply(move)
	if mover.IsEmpty() {
		return
	}

	entry := HistoryEntry{
		Piece:    mover,
		From:     move.From,
		To:       move.To,
		Notation: move.Notation(),
	}
	if move.IsCapture() {
		capturedAt := move.Captured
		entry.Captured = &capturedAt
	}
	s.MoveHistory = append(s.MoveHistory, entry)

	if !captured.IsEmpty() {
		s.refreshCounts()
	}
	s.render()
}

// Undo takes back the last move by returning the mover, uncrowned if it was
// promoted, to its origin. A captured piece stays off the board.
func (s *GameState) Undo() (HistoryEntry, bool) {
	if len(s.MoveHistory) == 0 {
		return HistoryEntry{}, false
	}
	last := s.MoveHistory[len(s.MoveHistory)-1]
	s.MoveHistory = s.MoveHistory[:len(s.MoveHistory)-1]

	s.Board.Clear(last.To)
	s.Board.Place(last.From, last.Piece)
	// Taking back the move before a capture can return the captured piece.
	if white, black := s.Board.Count(); white != s.WhiteCount || black != s.BlackCount {
		s.refreshCounts()
	}
	s.render()
	return last, true
}

func (s *GameState) SwitchTurn() {
	s.CurrentPlayer = s.CurrentPlayer.Opponent()
}

// IsGameOver reports whether either side is left without a legal move.
func (s *GameState) IsGameOver() bool {
	return len(s.LegalMovesForSide(PlayerColorWhite)) == 0 ||
		len(s.LegalMovesForSide(PlayerColorBlack)) == 0
}

// Winner returns the side that still has moves once the game is over. The
// immobile side loses; when both are stuck the side to move loses.
func (s *GameState) Winner() (PlayerColor, bool) {
	whiteStuck := len(s.LegalMovesForSide(PlayerColorWhite)) == 0
	blackStuck := len(s.LegalMovesForSide(PlayerColorBlack)) == 0
	switch {
	case whiteStuck && blackStuck:
		return s.CurrentPlayer.Opponent(), true
	case whiteStuck:
		return PlayerColorBlack, true
	case blackStuck:
		return PlayerColorWhite, true
	}
	return "", false
}

func (s *GameState) PieceCounts() (white, black int) {
	return s.WhiteCount, s.BlackCount
}

func (s *GameState) refreshCounts() {
	s.WhiteCount, s.BlackCount = s.Board.Count()
	if s.hooks.PieceCounts != nil {
		s.hooks.PieceCounts(s.WhiteCount, s.BlackCount)
	}
}

func (s *GameState) render() {
	if s.hooks.Render != nil {
		s.hooks.Render(s.Board)
	}
}
