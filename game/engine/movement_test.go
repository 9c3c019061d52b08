package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestRules(t *testing.T, rules Rules) *RulesEngine {
	t.Helper()
	path, err := NewPathModel(DefaultTrackLayout())
	require.NoError(t, err)

	players := make([]*Player, 0, len(AllColors))
	for _, c := range AllColors {
		players = append(players, newPlayer(c, c.String(), false))
	}
	return NewRulesEngine(path, rules, players)
}

func TestRulesEngine_CanMove(t *testing.T) {
	r := createTestRules(t, Rules{})
	length := r.Path().Length(Yellow)

	tests := []struct {
		name  string
		piece Piece
		steps int
		want  bool
	}{
		{"yard needs six", yardPiece(Yellow, 0), 6, true},
		{"yard rejects five", yardPiece(Yellow, 0), 5, false},
		{"yard rejects one", yardPiece(Yellow, 0), 1, false},
		{"track inside path", Piece{Owner: Yellow, Zone: ZoneTrack, PathIndex: 10, Slot: -1}, 4, true},
		{"track exact finish", Piece{Owner: Yellow, Zone: ZoneTrack, PathIndex: length - 6, Slot: -1}, 6, true},
		{"track one short of finish", Piece{Owner: Yellow, Zone: ZoneTrack, PathIndex: length - 2, Slot: -1}, 1, true},
		{"track overshoot", Piece{Owner: Yellow, Zone: ZoneTrack, PathIndex: length - 2, Slot: -1}, 3, false},
		{"track overshoot by one", Piece{Owner: Yellow, Zone: ZoneTrack, PathIndex: length - 5, Slot: -1}, 6, false},
		{"finish never moves", Piece{Owner: Yellow, Zone: ZoneFinish, PathIndex: -1, Slot: 0}, 1, false},
		{"zero steps", Piece{Owner: Yellow, Zone: ZoneTrack, PathIndex: 3, Slot: -1}, 0, false},
		{"seven steps", Piece{Owner: Yellow, Zone: ZoneTrack, PathIndex: 3, Slot: -1}, 7, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.CanMove(tt.piece, tt.steps))
		})
	}
}

func TestRulesEngine_CanMoveIsIdempotent(t *testing.T) {
	r := createTestRules(t, Rules{})
	place(r, Yellow, 0, ZoneTrack, 30)
	before := pieceOf(r, Yellow, 0)

	for i := 0; i < 5; i++ {
		assert.True(t, r.CanMovePiece(Yellow, 0, 5))
		assert.False(t, r.CanMovePiece(Yellow, 1, 5))
	}
	assert.Equal(t, before, pieceOf(r, Yellow, 0))
}

func TestRulesEngine_ApplyMoveTransitions(t *testing.T) {
	r := createTestRules(t, Rules{})
	length := r.Path().Length(Yellow)

	t.Run("yard to track entry", func(t *testing.T) {
		res, err := r.ApplyMove(Yellow, 0, 6)
		require.NoError(t, err)
		assert.Equal(t, ZoneYard, res.From.Zone)
		assert.Equal(t, ZoneTrack, res.To.Zone)
		assert.Equal(t, 0, res.To.PathIndex)
		assert.False(t, res.EnteredFinish)
	})

	t.Run("track forward", func(t *testing.T) {
		res, err := r.ApplyMove(Yellow, 0, 4)
		require.NoError(t, err)
		assert.Equal(t, 4, res.To.PathIndex)
		assert.Equal(t, 4, pieceOf(r, Yellow, 0).PathIndex)
	})

	t.Run("exact length enters finish", func(t *testing.T) {
		place(r, Yellow, 1, ZoneTrack, length-3)
		res, err := r.ApplyMove(Yellow, 1, 3)
		require.NoError(t, err)
		assert.True(t, res.EnteredFinish)
		assert.Equal(t, ZoneFinish, res.To.Zone)
		assert.Equal(t, 0, res.To.Slot)
		assert.Equal(t, -1, res.To.PathIndex)
	})

	t.Run("second finisher takes next slot", func(t *testing.T) {
		place(r, Yellow, 2, ZoneTrack, length-1)
		res, err := r.ApplyMove(Yellow, 2, 1)
		require.NoError(t, err)
		assert.Equal(t, 1, res.To.Slot)
	})

	t.Run("overshoot is rejected without change", func(t *testing.T) {
		place(r, Yellow, 3, ZoneTrack, length-2)
		_, err := r.ApplyMove(Yellow, 3, 3)
		require.ErrorIs(t, err, ErrIllegalMove)
		assert.Equal(t, length-2, pieceOf(r, Yellow, 3).PathIndex)
	})

	t.Run("finished piece is rejected", func(t *testing.T) {
		_, err := r.ApplyMove(Yellow, 1, 1)
		require.ErrorIs(t, err, ErrIllegalMove)
	})

	t.Run("unknown piece is rejected", func(t *testing.T) {
		_, err := r.ApplyMove(Yellow, 7, 6)
		require.ErrorIs(t, err, ErrIllegalMove)
	})
}

func TestRulesEngine_Capture(t *testing.T) {
	tests := []struct {
		name        string
		setup       func(r *RulesEngine)
		piece       int
		steps       int
		wantCapture []PieceRef
	}{
		{
			name: "opponent on plain square is captured",
			setup: func(r *RulesEngine) {
				place(r, Yellow, 0, ZoneTrack, 5)
				place(r, Red, 2, ZoneTrack, r.Path().IndexOf(Red, 8))
			},
			piece:       0,
			steps:       3,
			wantCapture: []PieceRef{{Color: Red, Index: 2}},
		},
		{
			name: "every opponent on the square is captured",
			setup: func(r *RulesEngine) {
				place(r, Yellow, 0, ZoneTrack, 5)
				place(r, Red, 1, ZoneTrack, r.Path().IndexOf(Red, 8))
				place(r, Green, 3, ZoneTrack, r.Path().IndexOf(Green, 8))
			},
			piece:       0,
			steps:       3,
			wantCapture: []PieceRef{{Color: Red, Index: 1}, {Color: Green, Index: 3}},
		},
		{
			name: "safe square protects",
			setup: func(r *RulesEngine) {
				place(r, Yellow, 0, ZoneTrack, 10)
				place(r, Red, 0, ZoneTrack, 0)
			},
			piece: 0,
			steps: 3,
		},
		{
			name: "own pieces share a square",
			setup: func(r *RulesEngine) {
				place(r, Yellow, 0, ZoneTrack, 20)
				place(r, Yellow, 1, ZoneTrack, 22)
			},
			piece: 0,
			steps: 2,
		},
		{
			name: "leaving the yard onto an occupied safe entry",
			setup: func(r *RulesEngine) {
				place(r, Blue, 0, ZoneTrack, r.Path().IndexOf(Blue, 0))
			},
			piece: 0,
			steps: 6,
		},
		{
			name: "stretch cells are private",
			setup: func(r *RulesEngine) {
				place(r, Yellow, 0, ZoneTrack, 50)
				place(r, Red, 0, ZoneTrack, 53)
			},
			piece: 0,
			steps: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := createTestRules(t, Rules{})
			tt.setup(r)

			res, err := r.ApplyMove(Yellow, tt.piece, tt.steps)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCapture, res.Captured)

			for _, ref := range tt.wantCapture {
				victim := pieceOf(r, ref.Color, ref.Index)
				assert.Equal(t, ZoneYard, victim.Zone)
				assert.Equal(t, -1, victim.PathIndex)
				assert.Equal(t, -1, victim.Slot)
			}
		})
	}
}

func TestRulesEngine_NoMixedColorsAfterMove(t *testing.T) {
	r := createTestRules(t, Rules{})
	place(r, Yellow, 0, ZoneTrack, 5)
	place(r, Red, 2, ZoneTrack, r.Path().IndexOf(Red, 8))
	place(r, Red, 3, ZoneTrack, r.Path().IndexOf(Red, 8))

	_, err := r.ApplyMove(Yellow, 0, 3)
	require.NoError(t, err)

	occupants := r.Occupants(8)
	require.Len(t, occupants, 1)
	assert.Equal(t, Yellow, occupants[0].Color)
}

func TestRulesEngine_Preview(t *testing.T) {
	r := createTestRules(t, Rules{})
	place(r, Yellow, 0, ZoneTrack, 5)
	place(r, Red, 2, ZoneTrack, r.Path().IndexOf(Red, 8))

	prev, ok := r.Preview(Yellow, 0, 3)
	require.True(t, ok)
	assert.Equal(t, 8, prev.ToIndex)
	assert.False(t, prev.Safe)
	assert.Equal(t, []PieceRef{{Color: Red, Index: 2}}, prev.Captures)

	// preview does not mutate
	assert.Equal(t, ZoneTrack, pieceOf(r, Red, 2).Zone)

	_, ok = r.Preview(Yellow, 1, 3)
	assert.False(t, ok)

	prev, ok = r.Preview(Yellow, 1, 6)
	require.True(t, ok)
	assert.Equal(t, ZoneYard, prev.FromZone)
	assert.True(t, prev.Safe)
}

func TestRulesEngine_MovablePieces(t *testing.T) {
	r := createTestRules(t, Rules{})
	assert.Empty(t, r.MovablePieces(Yellow, 3))
	assert.Equal(t, []int{0, 1, 2, 3}, r.MovablePieces(Yellow, 6))

	place(r, Yellow, 2, ZoneTrack, 12)
	place(r, Yellow, 3, ZoneFinish, 0)
	assert.Equal(t, []int{2}, r.MovablePieces(Yellow, 3))
	assert.Equal(t, []int{0, 1, 2}, r.MovablePieces(Yellow, 6))
	assert.Nil(t, r.MovablePieces(Color(9), 6))
}

func TestRulesEngine_HasWon(t *testing.T) {
	r := createTestRules(t, Rules{})
	assert.False(t, r.HasWon(Yellow))

	for i := 0; i < 3; i++ {
		place(r, Yellow, i, ZoneFinish, i)
	}
	assert.False(t, r.HasWon(Yellow))
	assert.Equal(t, 3, r.FinishedCount(Yellow))

	place(r, Yellow, 3, ZoneFinish, 3)
	assert.True(t, r.HasWon(Yellow))
	assert.False(t, r.HasWon(Red))
}

func TestRulesEngine_InvariantViolationPanics(t *testing.T) {
	r := createTestRules(t, Rules{})
	assert.Panics(t, func() {
		r.mustValid(Piece{Owner: Yellow, Zone: ZoneTrack, PathIndex: r.Path().Length(Yellow), Slot: -1})
	})
	assert.Panics(t, func() {
		r.mustValid(Piece{Owner: Yellow, Zone: ZoneFinish, PathIndex: -1, Slot: 4})
	})
	assert.NotPanics(t, func() {
		r.mustValid(yardPiece(Yellow, 0))
	})
}

func TestRulesEngine_Reset(t *testing.T) {
	r := createTestRules(t, Rules{})
	place(r, Green, 1, ZoneTrack, 40)
	place(r, Blue, 2, ZoneFinish, 0)

	r.Reset()
	for _, p := range r.Players() {
		assert.Equal(t, 0, CountZone(p, ZoneTrack)+CountZone(p, ZoneFinish))
	}
}
