package engine

import "fmt"

// MaxConsecutiveSixes is the number of sixes in one turn that forfeits it.
const MaxConsecutiveSixes = 3

// Phase is the turn controller's state
type Phase int

const (
	PhaseAwaitingRoll Phase = iota
	PhaseAwaitingMove
	PhaseGameOver
)

var phaseNames = [...]string{"awaiting_roll", "awaiting_move", "game_over"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return fmt.Sprintf("phase(%d)", int(p))
	}
	return phaseNames[p]
}

// MarshalText encodes the phase by name.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// TurnState is the turn-scoped bookkeeping of the controller.
// Everything except Current, Phase and the winner is reset when the turn passes.
type TurnState struct {
	Current          int   `json:"current"`
	Player           Color `json:"player"`
	DiceQueue        []int `json:"dice_queue"`
	Consumed         int   `json:"consumed"`
	ConsecutiveSixes int   `json:"consecutive_sixes"`
	RollingPhase     bool  `json:"rolling_phase"`
	Pending          []int `json:"pending,omitempty"`
	Phase            Phase `json:"phase"`
	GameOver         bool  `json:"game_over"`
}

// RollOutcome reports what a roll did to the turn
type RollOutcome struct {
	Player    Color `json:"player"`
	Value     int   `json:"value"`
	RollAgain bool  `json:"roll_again"`
	Forfeited bool  `json:"forfeited"`
	Skipped   []int `json:"skipped,omitempty"`
	TurnEnded bool  `json:"turn_ended"`
	Head      int   `json:"head,omitempty"`
	Movable   []int `json:"movable,omitempty"`
}

// TurnController sequences rolls, moves and turn order
type TurnController struct {
	rules    *RulesEngine
	events   *EventQueue
	geometry Geometry
	messages Messages

	state   TurnState
	winner  Color
	message string

	// skipped collects values dropped during the current input
	skipped []int
}

// NewTurnController creates a controller starting with the first player
func NewTurnController(rules *RulesEngine, events *EventQueue, geometry Geometry, messages Messages) *TurnController {
	t := &TurnController{
		rules:    rules,
		events:   events,
		geometry: geometry,
		messages: messages,
	}
	t.reset()
	return t
}

func (t *TurnController) reset() {
	t.state = TurnState{Phase: PhaseAwaitingRoll}
	if players := t.rules.Players(); len(players) > 0 {
		t.state.Player = players[0].Color
	}
	t.winner = 0
	t.message = t.format(t.messages.TurnChanged, t.playerName(t.state.Player))
}

// State returns a copy of the turn state
func (t *TurnController) State() TurnState {
	s := t.state
	s.DiceQueue = cloneInts(t.state.DiceQueue)
	s.Pending = cloneInts(t.state.Pending)
	return s
}

// Phase returns the current phase.
func (t *TurnController) Phase() Phase {
	return t.state.Phase
}

// Current returns the color whose turn it is.
func (t *TurnController) Current() Color {
	return t.state.Player
}

// Winner returns the winning color once the game is over.
func (t *TurnController) Winner() (Color, bool) {
	return t.winner, t.state.GameOver
}

// Message is the latest status text.
func (t *TurnController) Message() string {
	return t.message
}

// Head returns the oldest unconsumed roll, which the next move must use.
func (t *TurnController) Head() (int, bool) {
	if t.state.Phase != PhaseAwaitingMove || len(t.state.DiceQueue) == 0 {
		return 0, false
	}
	return t.state.DiceQueue[0], true
}

// Movable returns the pieces that may move for the head roll.
func (t *TurnController) Movable() []int {
	head, ok := t.Head()
	if !ok {
		return nil
	}
	return t.rules.MovablePieces(t.state.Player, head)
}

// Roll feeds a die value into the current turn
func (t *TurnController) Roll(value int) (RollOutcome, error) {
	if t.state.Phase == PhaseGameOver {
		return RollOutcome{}, ErrGameOver
	}
	if value < 1 || value > DieFaces {
		return RollOutcome{}, fmt.Errorf("%w: %d", ErrInvalidRollValue, value)
	}
	if t.state.Phase != PhaseAwaitingRoll {
		return RollOutcome{}, fmt.Errorf("%w: cannot roll while %s", ErrWrongPhase, t.state.Phase)
	}

	player := t.state.Player
	name := t.playerName(player)
	t.skipped = nil
	out := RollOutcome{Player: player, Value: value}

	t.status(StatusRolled, value, t.format(t.messages.Rolled, name, value))

	if value == DieFaces {
		if t.state.ConsecutiveSixes >= MaxConsecutiveSixes-1 {
			t.status(StatusForfeited, value, t.format(t.messages.Forfeited, name))
			t.advance()
			out.Forfeited = true
			out.TurnEnded = true
			return out, nil
		}
		t.state.DiceQueue = append(t.state.DiceQueue, value)
		t.state.ConsecutiveSixes++
		t.state.RollingPhase = true
		t.bonus(BonusSix, t.messages.BonusSix)
		out.RollAgain = true
		return out, nil
	}

	t.state.DiceQueue = append(t.state.DiceQueue, value)
	t.state.RollingPhase = false
	t.resolveHead()
	t.fillOutcome(&out, player)
	return out, nil
}

// Move moves a piece by the head roll. An illegal request returns false and
// no error, leaving all state untouched.
func (t *TurnController) Move(pieceIndex int) (MoveResult, bool, error) {
	if t.state.Phase == PhaseGameOver {
		return MoveResult{}, false, ErrGameOver
	}
	head, ok := t.Head()
	if !ok {
		return MoveResult{}, false, fmt.Errorf("%w: cannot move while %s", ErrWrongPhase, t.state.Phase)
	}

	player := t.state.Player
	if !t.rules.CanMovePiece(player, pieceIndex, head) {
		return MoveResult{}, false, nil
	}

	fromPiece, _ := t.rules.Piece(PieceRef{Color: player, Index: pieceIndex})
	capturedFrom := t.capturedPositions(player, pieceIndex, head)

	res, err := t.rules.ApplyMove(player, pieceIndex, head)
	if err != nil {
		return MoveResult{}, false, err
	}

	t.skipped = nil
	t.state.DiceQueue = cloneInts(t.state.DiceQueue[1:])
	t.state.Consumed++
	t.emitMove(fromPiece, res, capturedFrom)

	if t.rules.HasWon(player) {
		t.finish(player)
		return res, true, nil
	}

	switch {
	case res.EnteredFinish:
		t.grantBonus(BonusFinish, t.messages.BonusFinish)
	case len(res.Captured) > 0 && t.rules.Rules().CaptureGrantsBonus:
		t.grantBonus(BonusCapture, t.messages.BonusCapture)
	default:
		t.resolveHead()
	}
	return res, true, nil
}

// Skipped returns the roll values dropped for lack of a legal move during the last input.
func (t *TurnController) Skipped() []int {
	return cloneInts(t.skipped)
}

// grantBonus gives exactly one bonus roll that takes priority over the queue.
// The remaining queue is kept behind any older pending rolls and resumed in
// roll order once the bonus is resolved. The bonus starts a fresh count of
// consecutive sixes.
func (t *TurnController) grantBonus(reason BonusReason, msg string) {
	if len(t.state.DiceQueue) > 0 {
		t.state.Pending = append(cloneInts(t.state.Pending), t.state.DiceQueue...)
	}
	t.state.DiceQueue = nil
	t.state.ConsecutiveSixes = 0
	t.state.RollingPhase = true
	t.state.Phase = PhaseAwaitingRoll
	t.bonus(reason, msg)
}

// resolveHead drops head values nobody can use, then either waits for a
// move, resumes pending rolls or passes the turn.
func (t *TurnController) resolveHead() {
	player := t.state.Player
	for {
		if len(t.state.DiceQueue) == 0 {
			if len(t.state.Pending) > 0 {
				t.state.DiceQueue = t.state.Pending
				t.state.Pending = nil
				t.status(StatusResumed, 0, t.format(t.messages.Resumed, t.playerName(player)))
				continue
			}
			t.advance()
			return
		}

		head := t.state.DiceQueue[0]
		if len(t.rules.MovablePieces(player, head)) > 0 {
			t.state.Phase = PhaseAwaitingMove
			return
		}

		t.state.DiceQueue = cloneInts(t.state.DiceQueue[1:])
		t.skipped = append(t.skipped, head)
		t.status(StatusSkipped, head, t.format(t.messages.Skipped, t.playerName(player), head))
	}
}

// advance passes the turn and clears every turn-scoped field.
func (t *TurnController) advance() {
	players := t.rules.Players()
	next := (t.state.Current + 1) % len(players)
	t.state = TurnState{
		Current: next,
		Player:  players[next].Color,
		Phase:   PhaseAwaitingRoll,
	}
	name := t.playerName(t.state.Player)
	t.message = t.format(t.messages.TurnChanged, name)
	t.events.Push(Event{Type: EventTurnChanged, Player: t.state.Player, Message: t.message})
}

func (t *TurnController) finish(winner Color) {
	t.winner = winner
	t.state.DiceQueue = nil
	t.state.Pending = nil
	t.state.RollingPhase = false
	t.state.Phase = PhaseGameOver
	t.state.GameOver = true
	t.message = t.format(t.messages.GameOver, t.playerName(winner))
	t.events.Push(Event{Type: EventGameOver, Player: winner, Message: t.message})
}

func (t *TurnController) bonus(reason BonusReason, msg string) {
	t.message = t.format(msg, t.playerName(t.state.Player))
	t.events.Push(Event{Type: EventBonusRoll, Player: t.state.Player, Reason: reason, Message: t.message})
}

func (t *TurnController) status(kind StatusKind, value int, msg string) {
	t.message = msg
	t.events.Push(Event{Type: EventStatus, Player: t.state.Player, Status: kind, Value: value, Message: msg})
}

// capturedPositions records where the pieces a move would capture stand, before the move.
func (t *TurnController) capturedPositions(c Color, index, steps int) map[PieceRef]Position {
	prev, ok := t.rules.Preview(c, index, steps)
	if !ok || len(prev.Captures) == 0 {
		return nil
	}
	out := make(map[PieceRef]Position, len(prev.Captures))
	for _, ref := range prev.Captures {
		if p, ok := t.rules.Piece(ref); ok {
			out[ref] = PiecePosition(t.geometry, p)
		}
	}
	return out
}

func (t *TurnController) emitMove(from Piece, res MoveResult, capturedFrom map[PieceRef]Position) {
	ref := res.Piece
	fromPos := PiecePosition(t.geometry, from)
	toPos := PiecePosition(t.geometry, res.To)
	name := t.playerName(ref.Color)
	t.message = t.format(t.messages.Moved, name, ref.Index)
	t.events.Push(Event{
		Type:    EventPieceMoved,
		Player:  ref.Color,
		Piece:   &ref,
		From:    &fromPos,
		To:      &toPos,
		Value:   res.Steps,
		Message: t.message,
	})

	for _, victim := range res.Captured {
		fromPos := capturedFrom[victim]
		home := t.geometry.HomeSlot(victim.Color, victim.Index)
		t.message = t.format(t.messages.Captured, name, victim.String())
		t.events.Push(Event{
			Type:    EventPieceCaptured,
			Player:  ref.Color,
			Piece:   &victim,
			From:    &fromPos,
			To:      &home,
			Message: t.message,
		})
	}
}

func (t *TurnController) fillOutcome(out *RollOutcome, player Color) {
	out.Skipped = cloneInts(t.skipped)
	out.TurnEnded = t.state.Player != player || t.state.Phase == PhaseGameOver
	if head, ok := t.Head(); ok {
		out.Head = head
		out.Movable = t.Movable()
	}
}

func (t *TurnController) playerName(c Color) string {
	if p, ok := t.rules.Player(c); ok && p.Name != "" {
		return p.Name
	}
	return c.String()
}

func (t *TurnController) format(msg string, args ...interface{}) string {
	if msg == "" {
		return ""
	}
	return fmt.Sprintf(msg, args...)
}
