// Package search picks moves for the computer side with a material
// evaluator and alpha-beta pruned minimax.
package search

import (
	"github.com/benbeisheim/checkers-backend/internal/model"
)

// Inf bounds every reachable evaluation.
const Inf = 1 << 30

// Stats counts the work done by one top-level search.
type Stats struct {
	Nodes   int
	Cutoffs int
}

// Evaluate scores the board from white's point of view: a man is worth 10,
// a king 30, white pieces count positive and black pieces negative.
func Evaluate(board model.Board) int {
	score := 0
	for row := range board {
		for _, piece := range board[row] {
			switch piece.Color {
			case model.PlayerColorWhite:
				score += piece.Value()
			case model.PlayerColorBlack:
				score -= piece.Value()
			}
		}
	}
	return score
}

// Search returns the minimax value of board with white maximizing. The side
// to move is white when maximizing is true. At depth 0, or when the side to
// move has no move, the static evaluation is returned.
func Search(board model.Board, depth int, maximizing bool, alpha, beta int) int {
	var stats Stats
	return search(&board, depth, maximizing, alpha, beta, &stats)
}

func search(board *model.Board, depth int, maximizing bool, alpha, beta int, stats *Stats) int {
	stats.Nodes++
	moves := candidateMoves(board, sideFor(maximizing))
	if depth <= 0 || len(moves) == 0 {
		return Evaluate(*board)
	}

	if maximizing {
		best := -Inf
		for _, move := range moves {
			child := *board
			child.Apply(move)
			eval := search(&child, depth-1, false, alpha, beta, stats)
			best = max(best, eval)
			alpha = max(alpha, eval)
			if beta <= alpha {
				stats.Cutoffs++
				break
			}
		}
		return best
	}

	best := Inf
	for _, move := range moves {
		child := *board
		child.Apply(move)
		eval := search(&child, depth-1, true, alpha, beta, stats)
		best = min(best, eval)
		beta = min(beta, eval)
		if beta <= alpha {
			stats.Cutoffs++
			break
		}
	}
	return best
}

// BestMove searches every root move of side and returns the best one with
// its value. Among equal values the first generated move wins. ok is false
// when side has no move. With depth <= 0 nothing is searched: the first
// candidate is returned with the static evaluation.
func BestMove(board model.Board, side model.PlayerColor, depth int) (best model.Move, value int, ok bool) {
	best, value, _, ok = bestMove(board, side, depth)
	return best, value, ok
}

func bestMove(board model.Board, side model.PlayerColor, depth int) (model.Move, int, Stats, bool) {
	var stats Stats
	moves := candidateMoves(&board, side)
	if len(moves) == 0 {
		return model.Move{}, Evaluate(board), stats, false
	}
	if depth <= 0 {
		return moves[0], Evaluate(board), stats, true
	}

	maximizing := side == model.PlayerColorWhite
	alpha, beta := -Inf, Inf
	best := moves[0]
	value := Inf
	if maximizing {
		value = -Inf
	}

	for _, move := range moves {
		child := board
		child.Apply(move)
		eval := search(&child, depth-1, !maximizing, alpha, beta, &stats)
		if maximizing && eval > value {
			best, value = move, eval
			alpha = max(alpha, eval)
		}
		if !maximizing && eval < value {
			best, value = move, eval
			beta = min(beta, eval)
		}
	}
	return best, value, stats, true
}

// candidateMoves restricts a node to its captures whenever one exists.
func candidateMoves(board *model.Board, side model.PlayerColor) []model.Move {
	moves := board.MovesForSide(side)
	captures := make([]model.Move, 0, len(moves))
	for _, move := range moves {
		if move.IsCapture() {
			captures = append(captures, move)
		}
	}
	if len(captures) > 0 {
		return captures
	}
	return moves
}

func sideFor(maximizing bool) model.PlayerColor {
	if maximizing {
		return model.PlayerColorWhite
	}
	return model.PlayerColorBlack
}
