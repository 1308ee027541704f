package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/benbeisheim/checkers-backend/internal/config"
	"github.com/benbeisheim/checkers-backend/internal/model"
	"github.com/benbeisheim/checkers-backend/internal/search"
	"github.com/benbeisheim/checkers-backend/internal/ws"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"
)

// CreateOptions are the per-game choices a client makes.
type CreateOptions struct {
	VsComputer   bool              `json:"vsComputer"`
	ComputerSide model.PlayerColor `json:"computerSide"`
	Depth        int               `json:"depth"`
}

type GameManager struct {
	games map[string]*model.Game
	cfg   config.Config
	mu    sync.RWMutex
}

func NewGameManager(cfg config.Config) *GameManager {
	return &GameManager{
		games: make(map[string]*model.Game),
		cfg:   cfg,
	}
}

func (gm *GameManager) CreateGame(gameID string, ownerID string, opts CreateOptions) error {
	gameOpts, err := gm.gameOptions(opts)
	if err != nil {
		return err
	}

	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, exists := gm.games[gameID]; exists {
		return model.ErrGameExists
	}

	game, err := model.NewGame(gameID, ownerID, gameOpts)
	if err != nil {
		return err
	}
	gm.games[gameID] = game
	log.Infof("created game %s for player %s (computer=%q)", gameID, ownerID, gameOpts.ComputerSide)
	return nil
}

func (gm *GameManager) gameOptions(opts CreateOptions) (model.GameOptions, error) {
	if !opts.VsComputer {
		return model.GameOptions{}, nil
	}
	side := opts.ComputerSide
	if side == "" {
		side = model.PlayerColorBlack
	}
	if !side.Valid() {
		return model.GameOptions{}, fmt.Errorf("%w: unknown computer side %q", model.ErrInvalidOptions, side)
	}
	if opts.Depth < 0 {
		return model.GameOptions{}, fmt.Errorf("%w: negative depth %d", model.ErrInvalidOptions, opts.Depth)
	}
	return model.GameOptions{
		ComputerSide: side,
		Picker:       gm.newPicker(opts.Depth),
		AIDelay:      gm.cfg.AIDelay,
	}, nil
}

func (gm *GameManager) newPicker(depth int) model.MovePicker {
	if gm.cfg.AIStrategy == config.StrategyRandom {
		return search.NewRandomPicker(time.Now().UnixNano())
	}
	if depth == 0 {
		depth = gm.cfg.AIDepth
	}
	return search.NewEngine(depth)
}

func (gm *GameManager) GetGame(gameID string) (*model.Game, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	game, exists := gm.games[gameID]
	if !exists {
		return nil, model.ErrGameNotFound
	}

	return game, nil
}

func (gm *GameManager) GetGameState(gameID string) (model.GameView, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return model.GameView{}, err
	}
	return game.GetState(), nil
}

func (gm *GameManager) LegalMoves(gameID string, pos model.Position) ([]model.Move, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	return game.Select(pos), nil
}

func (gm *GameManager) MakeMove(gameID string, playerID string, move model.WSMove) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.MakeMove(playerID, move)
}

func (gm *GameManager) Undo(gameID string, playerID string) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.Undo(playerID)
}

func (gm *GameManager) Restart(gameID string, playerID string) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.Restart(playerID)
}

func (gm *GameManager) RegisterConnection(gameID string, playerID string, conn *websocket.Conn) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.RegisterConnection(playerID, conn)
}

func (gm *GameManager) UnregisterConnection(gameID string, playerID string, conn *websocket.Conn) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return
	}
	game.UnregisterConnection(playerID, conn)
}

func (gm *GameManager) Send(gameID string, conn *websocket.Conn, msg ws.Message) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.SendTo(conn, msg)
}

// Wait blocks until every pending computer move has been played or dropped.
func (gm *GameManager) Wait() {
	gm.mu.RLock()
	games := make([]*model.Game, 0, len(gm.games))
	for _, game := range gm.games {
		games = append(games, game)
	}
	gm.mu.RUnlock()

	for _, game := range games {
		game.Wait()
	}
}
