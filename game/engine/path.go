package engine

import (
	"fmt"
	"sort"
)

// CellKind tags a track cell as shared or private to one color
type CellKind int

const (
	CellCommon CellKind = iota
	CellStretch
)

func (k CellKind) String() string {
	if k == CellStretch {
		return "stretch"
	}
	return "common"
}

// Cell is an abstract track coordinate.
// Square is the shared ring square for common cells, Stretch the offset
// into the color's private stretch otherwise.
type Cell struct {
	Kind    CellKind `json:"kind"`
	Color   Color    `json:"color"`
	Square  int      `json:"square"`
	Stretch int      `json:"stretch"`
	Safe    bool     `json:"safe"`
}

// TrackLayout describes the board the PathModel is built from
type TrackLayout struct {
	SharedLength  int            `json:"shared_length" yaml:"shared_length"`
	StretchLength int            `json:"stretch_length" yaml:"stretch_length"`
	Entries       map[string]int `json:"entries" yaml:"entries"`
	SafeSquares   []int          `json:"safe_squares" yaml:"safe_squares"`
}

// DefaultTrackLayout returns the classic 52-square ring with six-cell stretches.
// Entry squares and the star eight squares before each entry are safe.
func DefaultTrackLayout() TrackLayout {
	return TrackLayout{
		SharedLength:  52,
		StretchLength: 6,
		Entries: map[string]int{
			Yellow.String(): 0,
			Red.String():    13,
			Green.String():  26,
			Blue.String():   39,
		},
		SafeSquares: []int{0, 5, 13, 18, 26, 31, 39, 44},
	}
}

// Validate checks the layout can be turned into a PathModel
func (l TrackLayout) Validate() error {
	if l.SharedLength < PiecesPerPlayer {
		return fmt.Errorf("%w: shared_length must be at least %d, got %d", ErrInvalidConfig, PiecesPerPlayer, l.SharedLength)
	}
	if l.StretchLength < 1 {
		return fmt.Errorf("%w: stretch_length must be positive, got %d", ErrInvalidConfig, l.StretchLength)
	}

	seen := make(map[int]Color)
	for _, c := range AllColors {
		entry, ok := l.Entries[c.String()]
		if !ok {
			return fmt.Errorf("%w: missing entry square for %s", ErrInvalidConfig, c)
		}
		if entry < 0 || entry >= l.SharedLength {
			return fmt.Errorf("%w: entry square %d for %s outside ring of %d", ErrInvalidConfig, entry, c, l.SharedLength)
		}
		if other, dup := seen[entry]; dup {
			return fmt.Errorf("%w: %s and %s share entry square %d", ErrInvalidConfig, other, c, entry)
		}
		seen[entry] = c
	}
	for name := range l.Entries {
		if _, err := ParseColor(name); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}

	for _, sq := range l.SafeSquares {
		if sq < 0 || sq >= l.SharedLength {
			return fmt.Errorf("%w: safe square %d outside ring of %d", ErrInvalidConfig, sq, l.SharedLength)
		}
	}
	return nil
}

// PathModel maps each color's path index to a cell on the board.
//
// Index 0 is the color's entry square. Indices below the shared length walk
// the ring once; the remaining indices are the color's private stretch.
// Reaching Length exactly means entering the finish.
type PathModel struct {
	shared  int
	stretch int
	entries map[Color]int
	safe    map[int]bool
}

// NewPathModel builds the path model once from a layout
func NewPathModel(layout TrackLayout) (*PathModel, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}

	pm := &PathModel{
		shared:  layout.SharedLength,
		stretch: layout.StretchLength,
		entries: make(map[Color]int, len(AllColors)),
		safe:    make(map[int]bool, len(layout.SafeSquares)),
	}
	for _, c := range AllColors {
		pm.entries[c] = layout.Entries[c.String()]
	}
	for _, sq := range layout.SafeSquares {
		pm.safe[sq] = true
	}
	return pm, nil
}

// Length is the number of track cells on a color's path, excluding yard and finish.
// It is the same for every color.
func (pm *PathModel) Length(Color) int {
	return pm.shared + pm.stretch
}

// SharedLength is the number of squares on the common ring.
func (pm *PathModel) SharedLength() int {
	return pm.shared
}

// StretchLength is the number of private cells before the finish.
func (pm *PathModel) StretchLength() int {
	return pm.stretch
}

// Entry returns the ring square where a color's pieces enter the track.
func (pm *PathModel) Entry(c Color) int {
	return pm.entries[c]
}

// Square returns the shared ring square for a path index.
// The second result is false for stretch cells and out-of-range indices.
func (pm *PathModel) Square(c Color, index int) (int, bool) {
	if index < 0 || index >= pm.shared {
		return 0, false
	}
	return (pm.entries[c] + index) % pm.shared, true
}

// CellAt returns the cell at a color's path index
func (pm *PathModel) CellAt(c Color, index int) (Cell, error) {
	if index < 0 || index >= pm.Length(c) {
		return Cell{}, fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, index, pm.Length(c))
	}
	if sq, ok := pm.Square(c, index); ok {
		return Cell{Kind: CellCommon, Color: c, Square: sq, Stretch: -1, Safe: pm.safe[sq]}, nil
	}
	return Cell{Kind: CellStretch, Color: c, Square: -1, Stretch: index - pm.shared, Safe: true}, nil
}

// IsSafe reports whether a piece at this index cannot be captured.
// Stretch cells are private and therefore always safe.
func (pm *PathModel) IsSafe(c Color, index int) bool {
	cell, err := pm.CellAt(c, index)
	if err != nil {
		return false
	}
	return cell.Safe
}

// IsSafeSquare reports whether a shared ring square is safe.
func (pm *PathModel) IsSafeSquare(square int) bool {
	return pm.safe[square]
}

// SafeSquares returns the safe ring squares in ascending order.
func (pm *PathModel) SafeSquares() []int {
	out := make([]int, 0, len(pm.safe))
	for sq := range pm.safe {
		out = append(out, sq)
	}
	sort.Ints(out)
	return out
}

// IndexOf returns the path index a color would use to reach a ring square.
func (pm *PathModel) IndexOf(c Color, square int) int {
	return ((square-pm.entries[c])%pm.shared + pm.shared) % pm.shared
}
