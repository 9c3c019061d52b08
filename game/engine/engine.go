package engine

import (
	"fmt"
	"sync"

	"github.com/jinzhu/copier"
)

// Engine provides the main interface for game operations
type Engine interface {
	// Game state management
	GetState() *GameState
	Reset() *GameState
	IsGameOver() bool
	Winner() (Color, bool)
	CurrentPlayer() Color
	Phase() Phase

	// Turn operations
	Roll() (RollOutcome, error)
	RollValue(value int) (RollOutcome, error)
	Move(piece int) (MoveResult, bool, error)
	CanMove(piece int) bool
	MovablePieces() []int
	Previews() (int, []MovePreview)

	// Presentation
	Drain() []Event
	Subscribe(l Listener)

	// Configuration
	GetConfig() *GameConfig
}

// GameEngine implements the Engine interface.
// Every input holds the engine lock until the move, its captures and any
// bonus bookkeeping are fully resolved.
type GameEngine struct {
	mu sync.Mutex

	config    *GameConfig
	path      *PathModel
	rules     *RulesEngine
	turn      *TurnController
	events    *EventQueue
	geometry  Geometry
	dice      Dice
	movesMade int
}

// Option customizes a GameEngine
type Option func(*GameEngine)

// WithDice sets the roll source used by Roll.
func WithDice(d Dice) Option {
	return func(e *GameEngine) { e.dice = d }
}

// WithGeometry replaces the default board geometry.
func WithGeometry(g Geometry) Option {
	return func(e *GameEngine) { e.geometry = g }
}

// WithListener registers a presentation listener. Listeners run under the
// engine lock and must not call back into the engine.
func WithListener(l Listener) Option {
	return func(e *GameEngine) { e.events.Subscribe(l) }
}

// NewEngine creates a new game engine with the provided configuration
func NewEngine(config *GameConfig, opts ...Option) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}

	path, err := NewPathModel(config.Track)
	if err != nil {
		return nil, err
	}
	players, err := playerSeats(config)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	e := &GameEngine{
		config: config,
		path:   path,
		rules:  NewRulesEngine(path, config.Rules, players),
		events: NewEventQueue(),
		dice:   NewRandomDice(0),
	}
	e.geometry = NewGridGeometry(path)
	for _, opt := range opts {
		opt(e)
	}
	e.turn = NewTurnController(e.rules, e.events, e.geometry, config.Messages)
	return e, nil
}

// NewEngineWithDefaults creates a new game engine with the classic configuration
func NewEngineWithDefaults(opts ...Option) *GameEngine {
	e, err := NewEngine(DefaultConfig(), opts...)
	if err != nil {
		panic(fmt.Sprintf("engine: default config rejected: %v", err))
	}
	return e
}

// GetState returns a deep copy of the current game state
func (e *GameEngine) GetState() *GameState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot()
}

func (e *GameEngine) snapshot() *GameState {
	live := GameState{
		Players:   make([]Player, 0, len(e.rules.Players())),
		Turn:      e.turn.State(),
		Message:   e.turn.Message(),
		MovesMade: e.movesMade,
	}
	for _, p := range e.rules.Players() {
		live.Players = append(live.Players, *p)
	}
	if winner, over := e.turn.Winner(); over {
		live.GameOver = true
		live.Winner = winner.String()
	}

	var out GameState
	if err := copier.CopyWithOption(&out, &live, copier.Option{DeepCopy: true}); err != nil {
		panic(fmt.Sprintf("engine: snapshot copy failed: %v", err))
	}
	return &out
}

// Reset puts every piece back in its yard and gives the turn to the first player
func (e *GameEngine) Reset() *GameState {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.rules.Reset()
	e.turn.reset()
	e.events.Drain()
	e.movesMade = 0
	return e.snapshot()
}

// IsGameOver reports whether a player has won
func (e *GameEngine) IsGameOver() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.turn.Phase() == PhaseGameOver
}

// Winner returns the winning color once the game is over
func (e *GameEngine) Winner() (Color, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.turn.Winner()
}

// CurrentPlayer returns the color whose turn it is
func (e *GameEngine) CurrentPlayer() Color {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.turn.Current()
}

// CurrentPlayerIsAI reports whether the player to act is automated.
func (e *GameEngine) CurrentPlayerIsAI() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	p, ok := e.rules.Player(e.turn.Current())
	return ok && p.AI
}

// Phase returns the turn phase
func (e *GameEngine) Phase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.turn.Phase()
}

// Roll draws a value from the engine's dice and feeds it to the turn
func (e *GameEngine) Roll() (RollOutcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.turn.Roll(e.dice.Roll())
}

// RollValue feeds an externally produced die value to the turn
func (e *GameEngine) RollValue(value int) (RollOutcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.turn.Roll(value)
}

// Move moves one of the current player's pieces by the oldest unconsumed roll
func (e *GameEngine) Move(piece int) (MoveResult, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	res, ok, err := e.turn.Move(piece)
	if ok {
		e.movesMade++
	}
	return res, ok, err
}

// CanMove reports whether a piece of the current player can use the head roll
func (e *GameEngine) CanMove(piece int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	head, ok := e.turn.Head()
	return ok && e.rules.CanMovePiece(e.turn.Current(), piece, head)
}

// MovablePieces lists the current player's pieces that can use the head roll
func (e *GameEngine) MovablePieces() []int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.turn.Movable()
}

// Previews returns the head roll and a preview of every legal move for it.
// The roll is 0 when no move is awaited.
func (e *GameEngine) Previews() (int, []MovePreview) {
	e.mu.Lock()
	defer e.mu.Unlock()
	head, ok := e.turn.Head()
	if !ok {
		return 0, nil
	}
	return head, e.rules.Previews(e.turn.Current(), head)
}

// Drain returns and clears pending presentation events
func (e *GameEngine) Drain() []Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.events.Drain()
}

// Subscribe registers a presentation listener
func (e *GameEngine) Subscribe(l Listener) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events.Subscribe(l)
}

// GetConfig returns the engine configuration
func (e *GameEngine) GetConfig() *GameConfig {
	return e.config
}

// Path returns the engine's path model.
func (e *GameEngine) Path() *PathModel {
	return e.path
}

// Geometry returns the engine's board geometry.
func (e *GameEngine) Geometry() Geometry {
	return e.geometry
}
