// Package render turns engine snapshots and events into plain text for the
// terminal and MCP frontends.
package render

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/wricardo/mcp-training/ludo/game/engine"
)

// State writes a multi-line summary of a snapshot.
func State(state *engine.GameState) string {
	if state == nil {
		return "no game state"
	}
	var b strings.Builder

	if state.GameOver {
		fmt.Fprintf(&b, "GAME OVER: %s wins after %d moves\n", state.Winner, state.MovesMade)
	} else {
		turn := state.Turn
		fmt.Fprintf(&b, "Turn: %s (%s)\n", turn.Player, turn.Phase)
		if len(turn.DiceQueue) > 0 {
			fmt.Fprintf(&b, "Rolls to play: %v\n", turn.DiceQueue)
		}
		if turn.ConsecutiveSixes > 0 {
			fmt.Fprintf(&b, "Sixes in a row: %d\n", turn.ConsecutiveSixes)
		}
	}
	if state.Message != "" {
		fmt.Fprintf(&b, "Message: %s\n", state.Message)
	}

	b.WriteString("\n")
	for _, p := range state.Players {
		b.WriteString(Player(p))
		b.WriteString("\n")
	}
	return b.String()
}

// Player writes one line per player: seat, zone counts and every piece.
func Player(p engine.Player) string {
	kind := "human"
	if p.AI {
		kind = "ai"
	}
	counts := lo.CountValuesBy(p.Pieces, func(piece engine.Piece) engine.Zone { return piece.Zone })
	pieces := lo.Map(p.Pieces, func(piece engine.Piece, _ int) string { return Piece(piece) })
	return fmt.Sprintf("%-6s %-8s %-5s yard:%d track:%d finish:%d  %s",
		p.Color, p.Name, kind,
		counts[engine.ZoneYard], counts[engine.ZoneTrack], counts[engine.ZoneFinish],
		strings.Join(pieces, " "))
}

// Piece writes a short piece label such as "#2:t17".
func Piece(p engine.Piece) string {
	switch p.Zone {
	case engine.ZoneTrack:
		return fmt.Sprintf("#%d:t%d", p.Index, p.PathIndex)
	case engine.ZoneFinish:
		return fmt.Sprintf("#%d:home", p.Index)
	default:
		return fmt.Sprintf("#%d:yard", p.Index)
	}
}

// Previews lists the legal moves for a roll, one per line.
func Previews(steps int, previews []engine.MovePreview) string {
	if len(previews) == 0 {
		return fmt.Sprintf("No piece can move %d\n", steps)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Moves for %d:\n", steps)
	for _, pv := range previews {
		b.WriteString("  ")
		b.WriteString(Preview(pv))
		b.WriteString("\n")
	}
	return b.String()
}

// Preview describes one candidate move.
func Preview(pv engine.MovePreview) string {
	from := "yard"
	if pv.FromZone == engine.ZoneTrack {
		from = fmt.Sprintf("t%d", pv.FromIndex)
	}
	to := fmt.Sprintf("t%d", pv.ToIndex)
	if pv.EntersFinish {
		to = "home"
	}

	var notes []string
	if len(pv.Captures) > 0 {
		notes = append(notes, "captures "+strings.Join(lo.Map(pv.Captures, func(r engine.PieceRef, _ int) string {
			return r.String()
		}), ","))
	}
	if pv.Safe && !pv.EntersFinish {
		notes = append(notes, "safe")
	}

	line := fmt.Sprintf("piece %d: %s -> %s", pv.Piece.Index, from, to)
	if len(notes) > 0 {
		line += " (" + strings.Join(notes, ", ") + ")"
	}
	return line
}

// Event writes a single presentation event.
func Event(ev engine.Event) string {
	switch ev.Type {
	case engine.EventPieceMoved:
		return fmt.Sprintf("%d. %s moved %s", ev.Seq, ev.Player, refString(ev.Piece))
	case engine.EventPieceCaptured:
		return fmt.Sprintf("%d. %s sent back to yard", ev.Seq, refString(ev.Piece))
	case engine.EventTurnChanged:
		return fmt.Sprintf("%d. turn passes to %s", ev.Seq, ev.Player)
	case engine.EventBonusRoll:
		return fmt.Sprintf("%d. %s earns a bonus roll (%s)", ev.Seq, ev.Player, ev.Reason)
	case engine.EventGameOver:
		return fmt.Sprintf("%d. %s wins", ev.Seq, ev.Player)
	default:
		if ev.Message != "" {
			return fmt.Sprintf("%d. %s", ev.Seq, ev.Message)
		}
		return fmt.Sprintf("%d. %s %s %d", ev.Seq, ev.Player, ev.Status, ev.Value)
	}
}

// Events writes events one per line.
func Events(events []engine.Event) string {
	var b strings.Builder
	for _, ev := range events {
		b.WriteString(Event(ev))
		b.WriteString("\n")
	}
	return b.String()
}

func refString(r *engine.PieceRef) string {
	if r == nil {
		return "?"
	}
	return r.String()
}
