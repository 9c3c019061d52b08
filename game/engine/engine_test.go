package engine

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestConfig returns the classic table with every seat human.
func createTestConfig() *GameConfig {
	config := DefaultConfig()
	for i := range config.Players {
		config.Players[i].AI = false
	}
	return config
}

func createTestEngine(t *testing.T, rolls ...int) *GameEngine {
	t.Helper()
	e, err := NewEngine(createTestConfig(), WithDice(NewScriptedDice(rolls...)))
	require.NoError(t, err)
	return e
}

// place puts a piece directly into a zone; at is the path index on the
// track or the slot in the finish.
func place(r *RulesEngine, c Color, idx int, zone Zone, at int) {
	p, _ := r.Player(c)
	switch zone {
	case ZoneTrack:
		p.Pieces[idx] = Piece{Owner: c, Index: idx, Zone: ZoneTrack, PathIndex: at, Slot: -1}
	case ZoneFinish:
		p.Pieces[idx] = Piece{Owner: c, Index: idx, Zone: ZoneFinish, PathIndex: -1, Slot: at}
	default:
		p.Pieces[idx] = yardPiece(c, idx)
	}
}

func pieceOf(r *RulesEngine, c Color, idx int) Piece {
	p, _ := r.Piece(PieceRef{Color: c, Index: idx})
	return p
}

func TestNewEngine(t *testing.T) {
	e, err := NewEngine(createTestConfig())
	require.NoError(t, err)

	state := e.GetState()
	require.Len(t, state.Players, 4)
	for _, p := range state.Players {
		require.Len(t, p.Pieces, PiecesPerPlayer)
		for _, piece := range p.Pieces {
			assert.Equal(t, ZoneYard, piece.Zone)
			assert.Equal(t, -1, piece.PathIndex)
		}
	}
	assert.Equal(t, Yellow, e.CurrentPlayer())
	assert.Equal(t, PhaseAwaitingRoll, e.Phase())
	assert.False(t, e.IsGameOver())
	assert.Equal(t, "Yellow to roll", state.Message)
}

func TestNewEngine_InvalidConfig(t *testing.T) {
	config := createTestConfig()
	config.Players = config.Players[:1]

	_, err := NewEngine(config)
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestNewEngineWithDefaults(t *testing.T) {
	e := NewEngineWithDefaults()
	assert.Equal(t, "classic", e.GetConfig().Name)
	assert.False(t, e.CurrentPlayerIsAI())
	assert.Equal(t, 58, e.Path().Length(Yellow))
}

func TestGameEngine_GetStateIsDeepCopy(t *testing.T) {
	e := createTestEngine(t)
	place(e.rules, Yellow, 0, ZoneTrack, 10)
	_, err := e.RollValue(6)
	require.NoError(t, err)

	state := e.GetState()
	state.Players[0].Pieces[0].PathIndex = 40
	state.Turn.DiceQueue[0] = 1

	again := e.GetState()
	assert.Equal(t, 10, again.Players[0].Pieces[0].PathIndex)
	assert.Equal(t, []int{6}, again.Turn.DiceQueue)
}

func TestGameEngine_RollUsesDice(t *testing.T) {
	dice := NewScriptedDice(3, 5)
	e, err := NewEngine(createTestConfig(), WithDice(dice))
	require.NoError(t, err)

	out, err := e.Roll()
	require.NoError(t, err)
	assert.Equal(t, 3, out.Value)
	assert.Equal(t, Yellow, out.Player)
	assert.True(t, out.TurnEnded)
	assert.Equal(t, 1, dice.Rolled())

	out, err = e.Roll()
	require.NoError(t, err)
	assert.Equal(t, 5, out.Value)
	assert.Equal(t, Red, out.Player)
}

func TestGameEngine_CanMoveAndPreviews(t *testing.T) {
	e := createTestEngine(t)
	place(e.rules, Yellow, 2, ZoneTrack, 20)

	assert.False(t, e.CanMove(2), "no roll yet")
	head, previews := e.Previews()
	assert.Zero(t, head)
	assert.Empty(t, previews)

	_, err := e.RollValue(4)
	require.NoError(t, err)

	assert.True(t, e.CanMove(2))
	assert.False(t, e.CanMove(0))
	assert.Equal(t, []int{2}, e.MovablePieces())

	head, previews = e.Previews()
	assert.Equal(t, 4, head)
	require.Len(t, previews, 1)
	assert.Equal(t, 24, previews[0].ToIndex)
}

func TestGameEngine_Reset(t *testing.T) {
	e := createTestEngine(t)
	place(e.rules, Yellow, 0, ZoneTrack, 3)
	_, err := e.RollValue(2)
	require.NoError(t, err)
	_, ok, err := e.Move(0)
	require.NoError(t, err)
	require.True(t, ok)

	state := e.Reset()
	assert.Equal(t, 0, state.MovesMade)
	assert.Equal(t, Yellow, state.Turn.Player)
	assert.Equal(t, ZoneYard, state.Players[0].Pieces[0].Zone)
	assert.Empty(t, e.Drain())
}

func TestGameEngine_MovesMadeCountsOnlyAppliedMoves(t *testing.T) {
	e := createTestEngine(t)
	place(e.rules, Yellow, 0, ZoneTrack, 3)
	_, err := e.RollValue(2)
	require.NoError(t, err)

	_, ok, err := e.Move(1)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, e.GetState().MovesMade)

	_, ok, err = e.Move(0)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, e.GetState().MovesMade)
}

func TestEngine_ConcurrentInputs(t *testing.T) {
	e, err := NewEngine(createTestConfig(), WithDice(NewRandomDice(42)))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				switch (w + i) % 4 {
				case 0:
					_, _ = e.Roll()
				case 1:
					_, _, _ = e.Move(i % PiecesPerPlayer)
				case 2:
					_ = e.GetState()
				default:
					_ = e.Drain()
				}
			}
		}(w)
	}
	wg.Wait()

	length := e.Path().Length(Yellow)
	state := e.GetState()
	for _, p := range state.Players {
		require.Len(t, p.Pieces, PiecesPerPlayer)
		slots := map[int]bool{}
		for _, piece := range p.Pieces {
			switch piece.Zone {
			case ZoneYard:
				assert.Equal(t, -1, piece.PathIndex, "%s#%d", p.Color, piece.Index)
			case ZoneTrack:
				assert.GreaterOrEqual(t, piece.PathIndex, 0)
				assert.Less(t, piece.PathIndex, length)
			case ZoneFinish:
				assert.GreaterOrEqual(t, piece.Slot, 0)
				assert.Less(t, piece.Slot, PiecesPerPlayer)
				assert.False(t, slots[piece.Slot], "finish slot %d used twice by %s", piece.Slot, p.Color)
				slots[piece.Slot] = true
			}
		}
	}
	if !state.GameOver {
		assert.LessOrEqual(t, len(state.Turn.DiceQueue), MaxConsecutiveSixes)
	}
}
