package model

import (
	"encoding/json"
	"fmt"
)

type MoveKind string

const (
	MoveSimple  MoveKind = "simple"
	MoveCapture MoveKind = "capture"
)

// Move is either a simple step/slide or a capture. Captured is only
// meaningful for captures; Move is comparable so it can key a set.
type Move struct {
	Kind     MoveKind `json:"kind"`
	From     Position `json:"from"`
	To       Position `json:"to"`
	Captured Position `json:"captured"`
}

func SimpleMove(from, to Position) Move {
	return Move{Kind: MoveSimple, From: from, To: to}
}

func CaptureMove(from, to, captured Position) Move {
	return Move{Kind: MoveCapture, From: from, To: to, Captured: captured}
}

func (m Move) IsCapture() bool {
	return m.Kind == MoveCapture
}

func (m Move) Notation() string {
	sep := "-"
	if m.IsCapture() {
		sep = "x"
	}
	return fmt.Sprintf("%s%s%s", m.From.getSquareNotation(), sep, m.To.getSquareNotation())
}

func (m Move) MarshalJSON() ([]byte, error) {
	out := struct {
		Kind     MoveKind  `json:"kind"`
		From     Position  `json:"from"`
		To       Position  `json:"to"`
		Captured *Position `json:"captured,omitempty"`
	}{Kind: m.Kind, From: m.From, To: m.To}
	if m.IsCapture() {
		captured := m.Captured
		out.Captured = &captured
	}
	return json.Marshal(out)
}

func (m Move) String() string {
	return m.Notation()
}

// HistoryEntry records an applied move. Piece is the mover before any
// promotion so Undo can restore a crowned man.
type HistoryEntry struct {
	Piece    Piece     `json:"piece"`
	From     Position  `json:"from"`
	To       Position  `json:"to"`
	Captured *Position `json:"captured"`
	Notation string    `json:"notation"`
}

// WSMove is a move request from a client: a source square and a target
// square, matched against the legal moves of the source.
type WSMove struct {
	From Position `json:"from"`
	To   Position `json:"to"`
}
