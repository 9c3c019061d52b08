package engine

import "fmt"

// RulesEngine decides move legality and applies moves.
// It is the only writer of piece state.
type RulesEngine struct {
	path    *PathModel
	rules   Rules
	players []*Player
	byColor map[Color]*Player
}

// NewRulesEngine creates a rules engine over the given players
func NewRulesEngine(path *PathModel, rules Rules, players []*Player) *RulesEngine {
	r := &RulesEngine{
		path:    path,
		rules:   rules,
		players: players,
		byColor: make(map[Color]*Player, len(players)),
	}
	for _, p := range players {
		r.byColor[p.Color] = p
	}
	return r
}

// Path returns the path model the rules are evaluated against.
func (r *RulesEngine) Path() *PathModel {
	return r.path
}

// Rules returns the optional rule switches.
func (r *RulesEngine) Rules() Rules {
	return r.rules
}

// Players returns the players in turn order.
func (r *RulesEngine) Players() []*Player {
	return r.players
}

// Player looks up a player by color
func (r *RulesEngine) Player(c Color) (*Player, bool) {
	p, ok := r.byColor[c]
	return p, ok
}

// Piece returns a copy of a piece's current state
func (r *RulesEngine) Piece(ref PieceRef) (Piece, bool) {
	p, ok := r.byColor[ref.Color]
	if !ok || ref.Index < 0 || ref.Index >= len(p.Pieces) {
		return Piece{}, false
	}
	return p.Pieces[ref.Index], true
}

// CanMove reports whether a piece may move the given number of steps.
// It has no side effects.
func (r *RulesEngine) CanMove(p Piece, steps int) bool {
	if steps < 1 || steps > DieFaces {
		return false
	}
	switch p.Zone {
	case ZoneYard:
		return steps == DieFaces
	case ZoneTrack:
		return p.PathIndex+steps <= r.path.Length(p.Owner)
	default:
		return false
	}
}

// CanMovePiece is CanMove addressed by color and piece index.
func (r *RulesEngine) CanMovePiece(c Color, index, steps int) bool {
	p, ok := r.Piece(PieceRef{Color: c, Index: index})
	return ok && r.CanMove(p, steps)
}

// MovablePieces returns the indexes of a color's pieces that can move by steps
func (r *RulesEngine) MovablePieces(c Color, steps int) []int {
	player, ok := r.byColor[c]
	if !ok {
		return nil
	}
	var out []int
	for i, p := range player.Pieces {
		if r.CanMove(p, steps) {
			out = append(out, i)
		}
	}
	return out
}

// Previews returns a preview for every movable piece of a color, by piece index
func (r *RulesEngine) Previews(c Color, steps int) []MovePreview {
	var out []MovePreview
	for _, idx := range r.MovablePieces(c, steps) {
		if prev, ok := r.Preview(c, idx, steps); ok {
			out = append(out, prev)
		}
	}
	return out
}

// Preview computes the effect of a move without applying it.
// The second result is false when the move is illegal.
func (r *RulesEngine) Preview(c Color, index, steps int) (MovePreview, bool) {
	p, ok := r.Piece(PieceRef{Color: c, Index: index})
	if !ok || !r.CanMove(p, steps) {
		return MovePreview{}, false
	}

	dest := 0
	if p.Zone == ZoneTrack {
		dest = p.PathIndex + steps
	}

	prev := MovePreview{
		Piece:     p.Ref(),
		Steps:     steps,
		FromZone:  p.Zone,
		FromIndex: p.PathIndex,
		ToIndex:   dest,
	}

	if dest == r.path.Length(c) {
		prev.EntersFinish = true
		prev.Safe = true
		return prev, true
	}

	prev.Safe = r.path.IsSafe(c, dest)
	if sq, shared := r.path.Square(c, dest); shared && !prev.Safe {
		prev.Captures = r.opponentsOn(c, sq)
	}
	return prev, true
}

// ApplyMove moves a piece and resolves captures and finish entry.
// Illegal requests return ErrIllegalMove and leave every piece untouched.
func (r *RulesEngine) ApplyMove(c Color, index, steps int) (MoveResult, error) {
	prev, ok := r.Preview(c, index, steps)
	if !ok {
		return MoveResult{}, fmt.Errorf("%w: %s#%d by %d", ErrIllegalMove, c, index, steps)
	}

	player := r.byColor[c]
	piece := &player.Pieces[index]
	before := *piece

	if prev.EntersFinish {
		slot := r.FinishedCount(c) % PiecesPerPlayer
		piece.Zone = ZoneFinish
		piece.PathIndex = -1
		piece.Slot = slot
	} else {
		piece.Zone = ZoneTrack
		piece.PathIndex = prev.ToIndex
		piece.Slot = -1
	}
	r.mustValid(*piece)

	for _, ref := range prev.Captures {
		r.sendToYard(ref)
	}

	return MoveResult{
		Piece:         prev.Piece,
		Steps:         steps,
		From:          before,
		To:            *piece,
		EnteredFinish: prev.EntersFinish,
		Captured:      prev.Captures,
	}, nil
}

// HasWon is true iff all of a color's pieces are in the finish
func (r *RulesEngine) HasWon(c Color) bool {
	player, ok := r.byColor[c]
	if !ok {
		return false
	}
	return CountZone(player, ZoneFinish) == len(player.Pieces)
}

// FinishedCount returns how many of a color's pieces are in the finish.
func (r *RulesEngine) FinishedCount(c Color) int {
	player, ok := r.byColor[c]
	if !ok {
		return 0
	}
	return CountZone(player, ZoneFinish)
}

// Occupants lists every piece standing on a shared ring square
func (r *RulesEngine) Occupants(square int) []PieceRef {
	var out []PieceRef
	for _, player := range r.players {
		for _, p := range player.Pieces {
			if p.Zone != ZoneTrack {
				continue
			}
			if sq, ok := r.path.Square(p.Owner, p.PathIndex); ok && sq == square {
				out = append(out, p.Ref())
			}
		}
	}
	return out
}

// Reset returns every piece to its yard.
func (r *RulesEngine) Reset() {
	for _, player := range r.players {
		for i := range player.Pieces {
			player.Pieces[i] = yardPiece(player.Color, i)
		}
	}
}

func (r *RulesEngine) opponentsOn(c Color, square int) []PieceRef {
	var out []PieceRef
	for _, ref := range r.Occupants(square) {
		if ref.Color != c {
			out = append(out, ref)
		}
	}
	return out
}

func (r *RulesEngine) sendToYard(ref PieceRef) {
	player := r.byColor[ref.Color]
	player.Pieces[ref.Index] = yardPiece(ref.Color, ref.Index)
}

// mustValid panics on a piece whose zone and indices disagree.
func (r *RulesEngine) mustValid(p Piece) {
	switch p.Zone {
	case ZoneYard:
		if p.PathIndex != -1 || p.Slot != -1 {
			panic(fmt.Sprintf("engine: yard piece %s carries position", p))
		}
	case ZoneTrack:
		if p.PathIndex < 0 || p.PathIndex >= r.path.Length(p.Owner) {
			panic(fmt.Sprintf("engine: track piece %s outside [0, %d)", p, r.path.Length(p.Owner)))
		}
	case ZoneFinish:
		if p.Slot < 0 || p.Slot >= PiecesPerPlayer {
			panic(fmt.Sprintf("engine: finish piece %s has slot out of range", p))
		}
	default:
		panic(fmt.Sprintf("engine: piece %s has unknown zone", p))
	}
}
