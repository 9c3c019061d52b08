// Package sim plays many AI-only games concurrently and summarizes them.
package sim

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/wricardo/mcp-training/ludo/game/ai"
	"github.com/wricardo/mcp-training/ludo/game/engine"
)

// MaxTurnsPerGame aborts a game that has not ended after this many turns.
const MaxTurnsPerGame = 10000

var ErrUnfinished = errors.New("game did not finish")

// Options controls a simulation run
type Options struct {
	Games   int
	Workers int
	// Seed makes the run reproducible; zero picks a random base seed.
	Seed   uint64
	Logger *zap.Logger
}

// GameResult is the outcome of one simulated game
type GameResult struct {
	Game     int          `json:"game"`
	Seed     uint64       `json:"seed"`
	Winner   engine.Color `json:"winner"`
	Turns    int          `json:"turns"`
	Moves    int          `json:"moves"`
	Captures int          `json:"captures"`
	// Progress is each seat's total path progress when the game ended.
	Progress map[engine.Color]int `json:"progress"`
}

// Report summarizes a simulation run
type Report struct {
	Games         int                  `json:"games"`
	Wins          map[engine.Color]int `json:"wins"`
	AverageTurns  float64              `json:"average_turns"`
	LongestGame   GameResult           `json:"longest_game"`
	TotalCaptures int                  `json:"total_captures"`
	Results       []GameResult         `json:"results"`
	Elapsed       time.Duration        `json:"elapsed"`
}

// captureCounter counts captures through the engine's listener hook
type captureCounter struct {
	engine.NopListener
	count int
}

func (c *captureCounter) OnPieceCaptured(engine.PieceRef) { c.count++ }

// PlayGame plays one game with every seat driven by the heuristic AI.
func PlayGame(ctx context.Context, config *engine.GameConfig, seed uint64) (GameResult, error) {
	counter := &captureCounter{}
	e, err := engine.NewEngine(config,
		engine.WithDice(engine.NewRandomDice(seed)),
		engine.WithListener(counter))
	if err != nil {
		return GameResult{}, err
	}

	player := ai.New()
	result := GameResult{Seed: seed}
	for !e.IsGameOver() {
		if result.Turns >= MaxTurnsPerGame {
			return result, fmt.Errorf("%w after %d turns (seed %d)", ErrUnfinished, result.Turns, seed)
		}
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if _, err := player.PlayTurn(e); err != nil {
			return result, fmt.Errorf("seed %d turn %d: %w", seed, result.Turns, err)
		}
		e.Drain()
		result.Turns++
	}

	state := e.GetState()
	length := e.Path().Length(engine.Yellow)
	result.Winner, _ = e.Winner()
	result.Moves = state.MovesMade
	result.Captures = counter.count
	result.Progress = make(map[engine.Color]int, len(state.Players))
	for i := range state.Players {
		result.Progress[state.Players[i].Color] = engine.TotalProgress(&state.Players[i], length)
	}
	return result, nil
}

// Run plays opts.Games games on a pool of opts.Workers goroutines.
func Run(ctx context.Context, config *engine.GameConfig, opts Options) (*Report, error) {
	if opts.Games <= 0 {
		return nil, fmt.Errorf("games must be positive, got %d", opts.Games)
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	base := opts.Seed
	if base == 0 {
		base = rand.Uint64()
	}

	pool, err := ants.NewPool(opts.Workers, ants.WithExpiryDuration(time.Minute))
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	start := time.Now()
	results := make(chan GameResult, opts.Workers)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(results)

		var (
			wg       sync.WaitGroup
			once     sync.Once
			firstErr error
		)
		for i := 0; i < opts.Games && gctx.Err() == nil; i++ {
			game := i
			wg.Add(1)
			err := pool.Submit(func() {
				defer wg.Done()
				res, err := PlayGame(gctx, config, base+uint64(game)+1)
				if err != nil {
					once.Do(func() { firstErr = fmt.Errorf("game %d: %w", game, err) })
					return
				}
				res.Game = game
				opts.Logger.Debug("game finished",
					zap.Int("game", game),
					zap.Stringer("winner", res.Winner),
					zap.Int("turns", res.Turns))
				select {
				case results <- res:
				case <-gctx.Done():
				}
			})
			if err != nil {
				wg.Done()
				wg.Wait()
				return fmt.Errorf("submit game %d: %w", game, err)
			}
		}
		wg.Wait()
		return firstErr
	})

	collected := make([]GameResult, 0, opts.Games)
	g.Go(func() error {
		for res := range results {
			collected = append(collected, res)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := summarize(collected)
	report.Elapsed = time.Since(start)
	opts.Logger.Info("simulation finished",
		zap.Int("games", report.Games),
		zap.Uint64("seed", base),
		zap.Duration("elapsed", report.Elapsed))
	return report, nil
}

func summarize(results []GameResult) *Report {
	sort.Slice(results, func(i, j int) bool { return results[i].Game < results[j].Game })

	report := &Report{
		Games:   len(results),
		Wins:    lo.CountValuesBy(results, func(r GameResult) engine.Color { return r.Winner }),
		Results: results,
	}
	if len(results) == 0 {
		return report
	}
	report.AverageTurns = float64(lo.SumBy(results, func(r GameResult) int { return r.Turns })) / float64(len(results))
	report.TotalCaptures = lo.SumBy(results, func(r GameResult) int { return r.Captures })
	report.LongestGame = lo.MaxBy(results, func(a, b GameResult) bool { return a.Turns > b.Turns })
	return report
}
