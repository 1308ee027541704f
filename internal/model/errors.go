package model

import "errors"

var (
	ErrGameNotFound   = errors.New("game not found")
	ErrGameExists     = errors.New("game already exists")
	ErrNotInGame      = errors.New("player not in game")
	ErrNotYourTurn    = errors.New("not your turn")
	ErrNoPiece        = errors.New("no piece at from square")
	ErrOutOfBounds    = errors.New("invalid move, out of bounds")
	ErrIllegalMove    = errors.New("invalid move, not legal")
	ErrGameOver       = errors.New("game is over")
	ErrInvalidOptions = errors.New("invalid game options")
)
