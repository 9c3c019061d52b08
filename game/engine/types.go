package engine

import (
	"errors"
	"fmt"
	"strings"
)

// PiecesPerPlayer is the number of tokens each color owns.
const PiecesPerPlayer = 4

// DieFaces is the highest value a die can show.
const DieFaces = 6

var (
	ErrIllegalMove      = errors.New("illegal move")
	ErrInvalidRollValue = errors.New("invalid roll value")
	ErrWrongPhase       = errors.New("action not allowed in current phase")
	ErrGameOver         = errors.New("game is over")
	ErrIndexOutOfRange  = errors.New("path index out of range")
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrUnknownColor     = errors.New("unknown color")
)

// Color identifies a player and the pieces it owns
type Color int

const (
	Yellow Color = iota
	Red
	Green
	Blue
)

// AllColors lists every color in classic turn order.
var AllColors = []Color{Yellow, Red, Green, Blue}

var colorNames = [...]string{"yellow", "red", "green", "blue"}

func (c Color) String() string {
	if c < 0 || int(c) >= len(colorNames) {
		return fmt.Sprintf("color(%d)", int(c))
	}
	return colorNames[c]
}

// MarshalText encodes the color by name.
func (c Color) MarshalText() ([]byte, error) {
	if c < 0 || int(c) >= len(colorNames) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownColor, int(c))
	}
	return []byte(colorNames[c]), nil
}

// UnmarshalText decodes a color name (case-insensitive).
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseColor converts a color name to a Color
func ParseColor(name string) (Color, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range colorNames {
		if n == name {
			return Color(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownColor, name)
}

// Zone is where a piece currently lives
type Zone int

const (
	ZoneYard Zone = iota
	ZoneTrack
	ZoneFinish
)

var zoneNames = [...]string{"yard", "track", "finish"}

func (z Zone) String() string {
	if z < 0 || int(z) >= len(zoneNames) {
		return fmt.Sprintf("zone(%d)", int(z))
	}
	return zoneNames[z]
}

// MarshalText encodes the zone by name.
func (z Zone) MarshalText() ([]byte, error) {
	return []byte(z.String()), nil
}

// UnmarshalText decodes a zone name.
func (z *Zone) UnmarshalText(text []byte) error {
	for i, n := range zoneNames {
		if n == string(text) {
			*z = Zone(i)
			return nil
		}
	}
	return fmt.Errorf("unknown zone %q", string(text))
}

// Piece is one of a player's four tokens.
//
// PathIndex is only meaningful in ZoneTrack and Slot only in ZoneFinish;
// both hold -1 otherwise.
type Piece struct {
	Owner     Color `json:"owner"`
	Index     int   `json:"index"`
	Zone      Zone  `json:"zone"`
	PathIndex int   `json:"path_index"`
	Slot      int   `json:"slot"`
}

// Ref returns the identity of the piece.
func (p Piece) Ref() PieceRef {
	return PieceRef{Color: p.Owner, Index: p.Index}
}

func (p Piece) String() string {
	switch p.Zone {
	case ZoneTrack:
		return fmt.Sprintf("%s#%d@track(%d)", p.Owner, p.Index, p.PathIndex)
	case ZoneFinish:
		return fmt.Sprintf("%s#%d@finish(%d)", p.Owner, p.Index, p.Slot)
	default:
		return fmt.Sprintf("%s#%d@yard", p.Owner, p.Index)
	}
}

func yardPiece(owner Color, index int) Piece {
	return Piece{Owner: owner, Index: index, Zone: ZoneYard, PathIndex: -1, Slot: -1}
}

// PieceRef identifies a piece without carrying its state
type PieceRef struct {
	Color Color `json:"color"`
	Index int   `json:"index"`
}

func (r PieceRef) String() string {
	return fmt.Sprintf("%s#%d", r.Color, r.Index)
}

// Player owns four pieces exclusively
type Player struct {
	Color  Color   `json:"color"`
	Name   string  `json:"name"`
	AI     bool    `json:"ai"`
	Pieces []Piece `json:"pieces"`
}

func newPlayer(color Color, name string, ai bool) *Player {
	p := &Player{
		Color:  color,
		Name:   name,
		AI:     ai,
		Pieces: make([]Piece, PiecesPerPlayer),
	}
	for i := range p.Pieces {
		p.Pieces[i] = yardPiece(color, i)
	}
	return p
}

// Position is a board coordinate in cell units, produced by a Geometry.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// MovePreview describes what moving a piece by a roll would do, without doing it.
type MovePreview struct {
	Piece        PieceRef   `json:"piece"`
	Steps        int        `json:"steps"`
	FromZone     Zone       `json:"from_zone"`
	FromIndex    int        `json:"from_index"`
	ToIndex      int        `json:"to_index"`
	EntersFinish bool       `json:"enters_finish"`
	Safe         bool       `json:"safe"`
	Captures     []PieceRef `json:"captures,omitempty"`
}

// MoveResult is the outcome of an applied move
type MoveResult struct {
	Piece         PieceRef   `json:"piece"`
	Steps         int        `json:"steps"`
	From          Piece      `json:"from"`
	To            Piece      `json:"to"`
	EnteredFinish bool       `json:"entered_finish"`
	Captured      []PieceRef `json:"captured,omitempty"`
}

// GameState is a snapshot of a game, safe to hand to callers
type GameState struct {
	Players   []Player  `json:"players"`
	Turn      TurnState `json:"turn"`
	Message   string    `json:"message"`
	MovesMade int       `json:"moves_made"`
	GameOver  bool      `json:"game_over"`
	Winner    string    `json:"winner,omitempty"`
}
