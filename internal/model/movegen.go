package model

type direction struct {
	row, col int
}

var (
	whiteManDirs = []direction{{-1, -1}, {-1, 1}}
	blackManDirs = []direction{{1, -1}, {1, 1}}
	kingDirs     = []direction{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
)

func forwardDirs(color PlayerColor) []direction {
	if color == PlayerColorWhite {
		return whiteManDirs
	}
	return blackManDirs
}

// MovesFrom returns every move available to the piece on pos, regardless
// of whose turn it is. An empty or out of bounds square yields nil.
func (b *Board) MovesFrom(pos Position) []Move {
	piece := b.At(pos)
	if piece.IsEmpty() {
		return nil
	}
	if piece.IsKing() {
		return dedupe(b.getKingMoves(pos, piece))
	}
	return dedupe(append(b.getManSteps(pos, piece), b.getManJumps(pos, piece)...))
}

// MovesForSide collects the moves of every piece of color, scanning the
// board row by row.
func (b *Board) MovesForSide(color PlayerColor) []Move {
	var moves []Move
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			if b[row][col].Color != color {
				continue
			}
			moves = append(moves, b.MovesFrom(Position{Row: row, Col: col})...)
		}
	}
	return dedupe(moves)
}

func (b *Board) HasCapture(color PlayerColor) bool {
	for _, move := range b.MovesForSide(color) {
		if move.IsCapture() {
			return true
		}
	}
	return false
}

func (b *Board) getManSteps(pos Position, piece Piece) []Move {
	moves := []Move{}
	for _, dir := range forwardDirs(piece.Color) {
		target := pos.add(dir)
		if target.InBounds() && b.At(target).IsEmpty() {
			moves = append(moves, SimpleMove(pos, target))
		}
	}
	return moves
}

func (b *Board) getManJumps(pos Position, piece Piece) []Move {
	moves := []Move{}
	for _, dir := range forwardDirs(piece.Color) {
		over := pos.add(dir)
		landing := over.add(dir)
		if !landing.InBounds() || !b.At(landing).IsEmpty() {
			continue
		}
		victim := b.At(over)
		if !victim.IsEmpty() && victim.Color != piece.Color {
			moves = append(moves, CaptureMove(pos, landing, over))
		}
	}
	return moves
}

// getKingMoves slides along each diagonal. Empty squares before any enemy
// are quiet moves; after a single enemy piece every further empty square is
// a capture landing for that piece. A friendly piece, or any piece met after
// the enemy, closes the diagonal.
func (b *Board) getKingMoves(pos Position, piece Piece) []Move {
	moves := []Move{}
	for _, dir := range kingDirs {
		var captured *Position
		target := pos.add(dir)
		for target.InBounds() {
			occupant := b.At(target)
			if occupant.IsEmpty() {
				if captured != nil {
					moves = append(moves, CaptureMove(pos, target, *captured))
				} else {
					moves = append(moves, SimpleMove(pos, target))
				}
			} else if captured == nil && occupant.Color != piece.Color {
				victim := target
				captured = &victim
			} else {
				break
			}
			target = target.add(dir)
		}
	}
	return moves
}

// dedupe drops repeated moves while keeping generation order.
func dedupe(moves []Move) []Move {
	if len(moves) < 2 {
		return moves
	}
	seen := make(map[Move]struct{}, len(moves))
	unique := moves[:0:0]
	for _, move := range moves {
		if _, ok := seen[move]; ok {
			continue
		}
		seen[move] = struct{}{}
		unique = append(unique, move)
	}
	return unique
}
