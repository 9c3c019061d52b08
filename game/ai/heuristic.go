package ai

import (
	"errors"
	"fmt"

	"github.com/samber/lo"

	"github.com/wricardo/mcp-training/ludo/game/engine"
)

// maxTurnSteps bounds the number of rolls and moves in one automated turn.
const maxTurnSteps = 64

var ErrNoMove = errors.New("no legal move offered")

// Game is the slice of the engine an automated player drives
type Game interface {
	Roll() (engine.RollOutcome, error)
	Move(piece int) (engine.MoveResult, bool, error)
	Previews() (int, []engine.MovePreview)
	CurrentPlayer() engine.Color
	Phase() engine.Phase
}

// HeuristicAI picks moves by a fixed priority order
type HeuristicAI struct{}

// New creates a heuristic AI
func New() *HeuristicAI {
	return &HeuristicAI{}
}

// Choose selects a piece index among the previews for a roll.
// Previews must be ordered by piece index.
func (a *HeuristicAI) Choose(steps int, previews []engine.MovePreview) (int, bool) {
	if len(previews) == 0 {
		return -1, false
	}

	if p, ok := lo.Find(previews, func(p engine.MovePreview) bool { return len(p.Captures) > 0 }); ok {
		return p.Piece.Index, true
	}
	if p, ok := lo.Find(previews, func(p engine.MovePreview) bool { return p.EntersFinish }); ok {
		return p.Piece.Index, true
	}

	if steps == engine.DieFaces {
		if p, ok := lo.Find(previews, func(p engine.MovePreview) bool { return p.FromZone == engine.ZoneYard }); ok {
			return p.Piece.Index, true
		}
	} else {
		onTrack := lo.Filter(previews, func(p engine.MovePreview, _ int) bool { return p.FromZone == engine.ZoneTrack })
		if len(onTrack) > 0 {
			best := lo.MaxBy(onTrack, func(a, b engine.MovePreview) bool { return a.FromIndex > b.FromIndex })
			return best.Piece.Index, true
		}
	}

	if p, ok := lo.Find(previews, func(p engine.MovePreview) bool { return !p.Safe }); ok {
		return p.Piece.Index, true
	}
	return previews[0].Piece.Index, true
}

// ChooseFor selects a move straight from the rules engine.
func (a *HeuristicAI) ChooseFor(rules *engine.RulesEngine, c engine.Color, steps int) (int, bool) {
	return a.Choose(steps, rules.Previews(c, steps))
}

// TurnSummary records what an automated turn did
type TurnSummary struct {
	Player   engine.Color         `json:"player"`
	Rolls    []int                `json:"rolls"`
	Moves    []engine.MoveResult  `json:"moves"`
	Outcomes []engine.RollOutcome `json:"-"`
	GameOver bool                 `json:"game_over"`
}

// PlayTurn rolls and moves for the current player until the turn passes or the game ends
func (a *HeuristicAI) PlayTurn(g Game) (*TurnSummary, error) {
	player := g.CurrentPlayer()
	summary := &TurnSummary{Player: player}

	for step := 0; step < maxTurnSteps; step++ {
		switch g.Phase() {
		case engine.PhaseGameOver:
			summary.GameOver = true
			return summary, nil

		case engine.PhaseAwaitingRoll:
			if g.CurrentPlayer() != player {
				return summary, nil
			}
			out, err := g.Roll()
			if err != nil {
				return summary, fmt.Errorf("roll for %s: %w", player, err)
			}
			summary.Rolls = append(summary.Rolls, out.Value)
			summary.Outcomes = append(summary.Outcomes, out)

		case engine.PhaseAwaitingMove:
			steps, previews := g.Previews()
			idx, ok := a.Choose(steps, previews)
			if !ok {
				return summary, fmt.Errorf("%w: %s with %d", ErrNoMove, player, steps)
			}
			res, moved, err := g.Move(idx)
			if err != nil {
				return summary, fmt.Errorf("move %s#%d by %d: %w", player, idx, steps, err)
			}
			if !moved {
				return summary, fmt.Errorf("%w: %s#%d rejected for %d", engine.ErrIllegalMove, player, idx, steps)
			}
			summary.Moves = append(summary.Moves, res)
		}
	}
	return summary, fmt.Errorf("turn for %s did not finish in %d steps", player, maxTurnSteps)
}
