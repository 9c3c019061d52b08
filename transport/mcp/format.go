package mcp

import (
	"fmt"
	"strings"

	"github.com/wricardo/mcp-training/ludo/game/render"
	"github.com/wricardo/mcp-training/ludo/game/service"
)

const instructions = `Ludo - Rules

OBJECTIVE:
Bring all four of your pieces from your yard, once around the shared track
and up your home stretch into the finish. The first player to do so wins.

TURN:
1. Roll the die (roll_dice).
2. A six lets you roll again. Three sixes in a row lose the whole turn.
3. Once you roll something other than a six, play your rolls in the order
   they were rolled (move_piece). Each move uses the oldest unplayed roll.
4. A roll no piece can use is skipped automatically.

MOVING:
- A piece leaves the yard only on a six, onto your entry square.
- A piece must reach the finish exactly; overshooting is not allowed.
- Landing on a square held by opponents sends them back to their yards,
  unless the square is safe. Entry squares and star squares are safe, and
  the home stretch belongs to you alone.

BONUS ROLLS:
- Reaching the finish earns a bonus roll, played before any rolls you had
  left over. Some tables also grant one for a capture.

TIPS:
- game_state shows every piece as #index:location, where tN is the step
  count along your own path.
- roll_dice lists the legal moves for the roll you must play next.
- auto_play lets the computer play its seats until it is your turn.`

func formatRollResult(result *service.RollResult) string {
	var b strings.Builder
	out := result.Outcome

	fmt.Fprintf(&b, "%s rolled %d\n", out.Player, out.Value)
	switch {
	case out.Forfeited:
		b.WriteString("Three sixes: turn forfeited\n")
	case out.RollAgain:
		b.WriteString("Roll again\n")
	}
	if len(out.Skipped) > 0 {
		fmt.Fprintf(&b, "Skipped (no legal move): %v\n", out.Skipped)
	}
	if out.Head > 0 {
		b.WriteString("\n")
		b.WriteString(render.Previews(out.Head, result.Previews))
	}
	if len(result.Events) > 0 {
		b.WriteString("\nEvents:\n")
		b.WriteString(render.Events(result.Events))
	}
	b.WriteString("\n")
	b.WriteString(render.State(result.GameState))
	return b.String()
}

func formatMoveResult(result *service.MoveResult) string {
	var b strings.Builder

	if !result.Success {
		fmt.Fprintf(&b, "Move rejected: %s\n", result.Message)
		if len(result.Previews) > 0 {
			b.WriteString(render.Previews(result.Previews[0].Steps, result.Previews))
		}
		return b.String()
	}

	mv := result.Move
	fmt.Fprintf(&b, "%s moved %d: %s -> %s\n", mv.Piece, mv.Steps, render.Piece(mv.From), render.Piece(mv.To))
	for _, victim := range mv.Captured {
		fmt.Fprintf(&b, "Captured %s\n", victim)
	}
	if len(result.Previews) > 0 {
		b.WriteString("\n")
		b.WriteString(render.Previews(result.Previews[0].Steps, result.Previews))
	}
	if len(result.Events) > 0 {
		b.WriteString("\nEvents:\n")
		b.WriteString(render.Events(result.Events))
	}
	b.WriteString("\n")
	b.WriteString(render.State(result.GameState))
	return b.String()
}

func formatAutoPlayResult(result *service.AutoPlayResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Played %d turns, stopped: %s (%s)\n\n", result.TurnsPlayed, result.StoppedReason, result.StopReasonCode)
	for _, turn := range result.Turns {
		fmt.Fprintf(&b, "%s rolled %v", turn.Player, turn.Rolls)
		for _, mv := range turn.Moves {
			fmt.Fprintf(&b, "; #%d %s->%s", mv.Piece.Index, render.Piece(mv.From), render.Piece(mv.To))
			if len(mv.Captured) > 0 {
				fmt.Fprintf(&b, " captures %v", mv.Captured)
			}
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(render.State(result.GameState))
	return b.String()
}
