// Package terminal runs a Ludo game on a line-oriented terminal.
//
// Human seats are prompted for each roll and move; AI seats are played
// through the service's auto-play until a human is to act again.
package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/wricardo/mcp-training/ludo/game/engine"
	"github.com/wricardo/mcp-training/ludo/game/render"
	"github.com/wricardo/mcp-training/ludo/game/service"
)

// Game drives one session from a reader and writer
type Game struct {
	svc       service.GameService
	in        *bufio.Scanner
	out       io.Writer
	sessionID string
}

// New prepares a terminal game over the service
func New(svc service.GameService, in io.Reader, out io.Writer) *Game {
	return &Game{
		svc: svc,
		in:  bufio.NewScanner(in),
		out: out,
	}
}

// SessionID returns the session being played, once Run has created it.
func (g *Game) SessionID() string {
	return g.sessionID
}

// Run creates a session from the named configuration and plays it until the
// game ends, the input runs out or the player quits.
func (g *Game) Run(ctx context.Context, configName string) error {
	info, err := g.svc.CreateSession(ctx, configName)
	if err != nil {
		return err
	}
	g.sessionID = info.ID
	fmt.Fprintf(g.out, "Session %s (%s)\n\n%s\n", info.ID, info.ConfigName, render.State(info.GameState))

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		state, err := g.svc.GetGameState(ctx, g.sessionID)
		if err != nil {
			return err
		}
		if state.GameOver {
			fmt.Fprintf(g.out, "\n%s wins!\n", state.Winner)
			return nil
		}

		current, _ := lo.Find(state.Players, func(p engine.Player) bool { return p.Color == state.Turn.Player })
		var quit bool
		switch {
		case current.AI:
			err = g.autoPlay(ctx)
		case state.Turn.Phase == engine.PhaseAwaitingRoll:
			quit, err = g.promptRoll(ctx, current)
		default:
			quit, err = g.promptMove(ctx, current)
		}
		if err != nil {
			return err
		}
		if quit {
			fmt.Fprintln(g.out, "Bye.")
			return nil
		}
	}
}

// readLine returns the next trimmed input line; ok is false at end of input.
func (g *Game) readLine(prompt string) (string, bool) {
	fmt.Fprint(g.out, prompt)
	if !g.in.Scan() {
		fmt.Fprintln(g.out)
		return "", false
	}
	return strings.TrimSpace(g.in.Text()), true
}

func (g *Game) autoPlay(ctx context.Context) error {
	result, err := g.svc.AutoPlay(ctx, g.sessionID, service.AutoPlayOptions{})
	if err != nil {
		return err
	}
	for _, turn := range result.Turns {
		fmt.Fprintf(g.out, "%s rolled %v", turn.Player, turn.Rolls)
		for _, mv := range turn.Moves {
			fmt.Fprintf(g.out, ", moved %s->%s", render.Piece(mv.From), render.Piece(mv.To))
		}
		fmt.Fprintln(g.out)
	}
	fmt.Fprintf(g.out, "\n%s\n", render.State(result.GameState))
	return nil
}

// promptRoll rolls on enter. A number 1-6 is used as the roll, which helps
// when playing with physical dice.
func (g *Game) promptRoll(ctx context.Context, p engine.Player) (bool, error) {
	line, ok := g.readLine(fmt.Sprintf("%s (%s): enter to roll, q to quit > ", p.Name, p.Color))
	if !ok || line == "q" {
		return true, nil
	}

	var (
		result *service.RollResult
		err    error
	)
	if v, convErr := strconv.Atoi(line); convErr == nil {
		result, err = g.svc.RollValue(ctx, g.sessionID, v)
	} else {
		result, err = g.svc.Roll(ctx, g.sessionID)
	}
	if err != nil {
		fmt.Fprintf(g.out, "%v\n", err)
		return false, nil
	}

	fmt.Fprintf(g.out, "%s rolled %d\n", p.Name, result.Outcome.Value)
	fmt.Fprint(g.out, render.Events(result.Events))
	return false, nil
}

func (g *Game) promptMove(ctx context.Context, p engine.Player) (bool, error) {
	state, err := g.svc.GetGameState(ctx, g.sessionID)
	if err != nil {
		return false, err
	}
	if len(state.Turn.DiceQueue) == 0 {
		return false, fmt.Errorf("session %s awaits a move with no roll queued", g.sessionID)
	}
	head := state.Turn.DiceQueue[0]

	fmt.Fprintf(g.out, "Rolls to play: %v\n", state.Turn.DiceQueue)
	line, ok := g.readLine(fmt.Sprintf("%s (%s): piece to move %d > ", p.Name, p.Color, head))
	if !ok || line == "q" {
		return true, nil
	}
	piece, err := strconv.Atoi(line)
	if err != nil {
		fmt.Fprintf(g.out, "enter a piece number 0-%d\n", engine.PiecesPerPlayer-1)
		return false, nil
	}

	result, err := g.svc.Move(ctx, g.sessionID, piece)
	if err != nil {
		return false, err
	}
	if !result.Success {
		fmt.Fprintf(g.out, "%s\n%s", result.Message, render.Previews(head, result.Previews))
		return false, nil
	}
	fmt.Fprint(g.out, render.Events(result.Events))
	fmt.Fprintf(g.out, "\n%s\n", render.State(result.GameState))
	return false, nil
}
