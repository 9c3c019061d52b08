package engine

// Geometry maps logical piece locations to board coordinates.
// Coordinates are always derived from path indices, never the reverse.
type Geometry interface {
	HomeSlot(c Color, slot int) Position
	TrackCell(c Color, pathIndex int) Position
	FinishSlot(c Color, slot int) Position
}

// ringCells lists the 52 shared squares of a 15x15 board, starting at the
// square left of center on the top-left arm and running clockwise.
var ringCells = [52][2]int{
	{1, 6}, {2, 6}, {3, 6}, {4, 6}, {5, 6},
	{6, 5}, {6, 4}, {6, 3}, {6, 2}, {6, 1}, {6, 0},
	{7, 0},
	{8, 0}, {8, 1}, {8, 2}, {8, 3}, {8, 4}, {8, 5},
	{9, 6}, {10, 6}, {11, 6}, {12, 6}, {13, 6}, {14, 6},
	{14, 7},
	{14, 8}, {13, 8}, {12, 8}, {11, 8}, {10, 8}, {9, 8},
	{8, 9}, {8, 10}, {8, 11}, {8, 12}, {8, 13}, {8, 14},
	{7, 14},
	{6, 14}, {6, 13}, {6, 12}, {6, 11}, {6, 10}, {6, 9},
	{5, 8}, {4, 8}, {3, 8}, {2, 8}, {1, 8}, {0, 8},
	{0, 7},
	{0, 6},
}

// armDirections points from the board center toward the arm a color enters on,
// keyed by entry square.
var armDirections = map[int][2]float64{
	0:  {-1, 0},
	13: {0, -1},
	26: {1, 0},
	39: {0, 1},
}

const boardCenter = 7.0

// GridGeometry lays the classic track out on a 15x15 grid
type GridGeometry struct {
	path *PathModel
}

// NewGridGeometry returns a grid geometry when the path uses the classic
// 52/6 layout with entries on the four arms, otherwise a LinearGeometry.
func NewGridGeometry(path *PathModel) Geometry {
	if path.SharedLength() != len(ringCells) || path.StretchLength() != 6 {
		return LinearGeometry{}
	}
	for _, c := range AllColors {
		if _, ok := armDirections[path.Entry(c)]; !ok {
			return LinearGeometry{}
		}
	}
	return &GridGeometry{path: path}
}

func (g *GridGeometry) arm(c Color) (dx, dy float64) {
	d := armDirections[g.path.Entry(c)]
	return d[0], d[1]
}

// HomeSlot places yard slots in a 2x2 block at the center of the color's quadrant.
func (g *GridGeometry) HomeSlot(c Color, slot int) Position {
	dx, dy := g.arm(c)
	// quadrant sits on the arm side rotated a quarter turn counter-clockwise
	qx := boardCenter + dx*4.5 - dy*4.5
	qy := boardCenter + dy*4.5 + dx*4.5
	return Position{
		X: qx + float64(slot%2)*1.5 - 0.75,
		Y: qy + float64(slot/2)*1.5 - 0.75,
	}
}

// TrackCell returns the cell for a path index, clamping out-of-range indices
// to the nearest end of the path.
func (g *GridGeometry) TrackCell(c Color, pathIndex int) Position {
	if pathIndex < 0 {
		pathIndex = 0
	}
	if sq, ok := g.path.Square(c, pathIndex); ok {
		cell := ringCells[sq]
		return Position{X: float64(cell[0]), Y: float64(cell[1])}
	}

	k := pathIndex - g.path.SharedLength()
	if k >= g.path.StretchLength() {
		k = g.path.StretchLength() - 1
	}
	dx, dy := g.arm(c)
	dist := float64(g.path.StretchLength() - k)
	return Position{X: boardCenter + dx*dist, Y: boardCenter + dy*dist}
}

// FinishSlot spreads the four finish slots across the color's side of the center cell.
func (g *GridGeometry) FinishSlot(c Color, slot int) Position {
	dx, dy := g.arm(c)
	offset := (float64(slot) - 1.5) * 0.3
	return Position{
		X: boardCenter + dx*0.6 - dy*offset,
		Y: boardCenter + dy*0.6 + dx*offset,
	}
}

// LinearGeometry lays each color's path on its own row.
// It serves layouts the grid cannot draw.
type LinearGeometry struct{}

func (LinearGeometry) HomeSlot(c Color, slot int) Position {
	return Position{X: -1, Y: float64(int(c)*2) + float64(slot)*0.25}
}

func (LinearGeometry) TrackCell(c Color, pathIndex int) Position {
	return Position{X: float64(pathIndex), Y: float64(int(c) * 2)}
}

func (LinearGeometry) FinishSlot(c Color, slot int) Position {
	return Position{X: -2, Y: float64(int(c)*2) + float64(slot)*0.25}
}

// PiecePosition resolves a piece's coordinate through a geometry.
func PiecePosition(g Geometry, p Piece) Position {
	switch p.Zone {
	case ZoneTrack:
		return g.TrackCell(p.Owner, p.PathIndex)
	case ZoneFinish:
		return g.FinishSlot(p.Owner, p.Slot)
	default:
		return g.HomeSlot(p.Owner, p.Index)
	}
}
