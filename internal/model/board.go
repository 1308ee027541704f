package model

import (
	"encoding/json"
	"fmt"
)

const BoardSize = 8

type Rank string

const (
	Man  Rank = "man"
	King Rank = "king"
)

// Piece is the occupant of a square. The zero value is an empty square.
type Piece struct {
	Color PlayerColor `json:"color"`
	Rank  Rank        `json:"rank"`
}

func (p Piece) IsEmpty() bool {
	return p.Color == ""
}

func (p Piece) IsKing() bool {
	return p.Rank == King
}

func (p Piece) Value() int {
	switch p.Rank {
	case Man:
		return 10
	case King:
		return 30
	}
	return 0
}

func (p Piece) String() string {
	switch {
	case p.IsEmpty():
		return "."
	case p.Color == PlayerColorWhite && p.IsKing():
		return "W"
	case p.Color == PlayerColorWhite:
		return "w"
	case p.IsKing():
		return "B"
	default:
		return "b"
	}
}

// Position addresses a square; row 0 is black's back rank.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (p Position) InBounds() bool {
	return p.Row >= 0 && p.Row < BoardSize && p.Col >= 0 && p.Col < BoardSize
}

func (p Position) add(d direction) Position {
	return Position{Row: p.Row + d.row, Col: p.Col + d.col}
}

func (p Position) getSquareNotation() string {
	return fmt.Sprintf("%c%d", p.Col+97, BoardSize-p.Row)
}

// Board is a value type: assigning a Board copies every square.
type Board [BoardSize][BoardSize]Piece

// NewBoard returns the standard opening layout: black men on the dark
// squares of rows 0-2, white men on rows 5-7.
func NewBoard() Board {
	var b Board
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			if (row+col)%2 == 0 {
				continue
			}
			switch {
			case row < 3:
				b[row][col] = Piece{Color: PlayerColorBlack, Rank: Man}
			case row > 4:
				b[row][col] = Piece{Color: PlayerColorWhite, Rank: Man}
			}
		}
	}
	return b
}

func (b *Board) At(pos Position) Piece {
	if !pos.InBounds() {
		return Piece{}
	}
	return b[pos.Row][pos.Col]
}

func (b *Board) Place(pos Position, piece Piece) {
	if !pos.InBounds() {
		return
	}
	b[pos.Row][pos.Col] = piece
}

func (b *Board) Clear(pos Position) {
	b.Place(pos, Piece{})
}

// Count scans the board and returns the number of white and black pieces.
func (b *Board) Count() (white, black int) {
	for row := range b {
		for _, piece := range b[row] {
			switch piece.Color {
			case PlayerColorWhite:
				white++
			case PlayerColorBlack:
				black++
			}
		}
	}
	return white, black
}

// Apply performs move on the board: the mover is relocated, a jumped piece is
// removed and a man reaching the far rank is crowned. It returns the mover as
// it was before the move and the piece that was captured, if any.
func (b *Board) Apply(move Move) (mover Piece, captured Piece) {
	mover = b.At(move.From)
	if mover.IsEmpty() {
		return mover, captured
	}
	b.Clear(move.From)
	b.Place(move.To, mover)

	if move.IsCapture() {
		captured = b.At(move.Captured)
		b.Clear(move.Captured)
	}

	if !mover.IsKing() && move.To.Row == promotionRow(mover.Color) {
		b.Place(move.To, Piece{Color: mover.Color, Rank: King})
	}
	return mover, captured
}

func (b Board) String() string {
	s := ""
	for row := range b {
		for _, piece := range b[row] {
			s += piece.String()
		}
		s += "\n"
	}
	return s
}

// MarshalJSON renders the board as rows of pieces with null for empty squares.
func (b Board) MarshalJSON() ([]byte, error) {
	rows := make([][]*Piece, BoardSize)
	for row := range b {
		rows[row] = make([]*Piece, BoardSize)
		for col := range b[row] {
			if !b[row][col].IsEmpty() {
				piece := b[row][col]
				rows[row][col] = &piece
			}
		}
	}
	return json.Marshal(rows)
}

func promotionRow(color PlayerColor) int {
	if color == PlayerColorWhite {
		return 0
	}
	return BoardSize - 1
}
