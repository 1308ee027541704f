package search

import (
	"math/rand"
	"sync"
	"time"

	"github.com/benbeisheim/checkers-backend/internal/model"
	"github.com/gofiber/fiber/v2/log"
)

const DefaultDepth = 4

// Engine picks moves with BestMove at a fixed depth.
type Engine struct {
	Depth int
}

func NewEngine(depth int) *Engine {
	if depth < 1 {
		depth = DefaultDepth
	}
	return &Engine{Depth: depth}
}

func (e *Engine) PickMove(board model.Board, side model.PlayerColor) (model.Move, bool) {
	started := time.Now()
	move, value, stats, ok := bestMove(board, side, e.Depth)
	if !ok {
		log.Debugf("search: %s has no move", side)
		return model.Move{}, false
	}
	log.Debugf("search: %s plays %s value=%d depth=%d nodes=%d cutoffs=%d in %s",
		side, move, value, e.Depth, stats.Nodes, stats.Cutoffs, time.Since(started))
	return move, true
}

// RandomPicker plays a random capture when one exists, otherwise a random
// move. It does not look ahead.
type RandomPicker struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewRandomPicker(seed int64) *RandomPicker {
	return &RandomPicker{rng: rand.New(rand.NewSource(seed))}
}

func (p *RandomPicker) PickMove(board model.Board, side model.PlayerColor) (model.Move, bool) {
	moves := candidateMoves(&board, side)
	if len(moves) == 0 {
		return model.Move{}, false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return moves[p.rng.Intn(len(moves))], true
}
