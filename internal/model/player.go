package model

type ClientPlayer struct {
	ID    string      `json:"name"`
	Color PlayerColor `json:"color"`
	// Computer marks the side played by the move picker.
	Computer bool `json:"computer"`
	TimeUsed int  `json:"timeUsed"`
}

type PlayerColor string

const (
	PlayerColorWhite PlayerColor = "white"
	PlayerColorBlack PlayerColor = "black"
)

func (c PlayerColor) Opponent() PlayerColor {
	if c == PlayerColorWhite {
		return PlayerColorBlack
	}
	return PlayerColorWhite
}

func (c PlayerColor) Valid() bool {
	return c == PlayerColorWhite || c == PlayerColorBlack
}
