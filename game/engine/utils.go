package engine

// CountZone counts a player's pieces in the given zone
func CountZone(player *Player, zone Zone) int {
	count := 0
	for _, p := range player.Pieces {
		if p.Zone == zone {
			count++
		}
	}
	return count
}

// Progress returns how many steps a piece has covered, counting the
// finish as pathLength+1 and the yard as 0.
func Progress(p Piece, pathLength int) int {
	switch p.Zone {
	case ZoneTrack:
		return p.PathIndex + 1
	case ZoneFinish:
		return pathLength + 1
	default:
		return 0
	}
}

// TotalProgress sums Progress over a player's pieces.
func TotalProgress(player *Player, pathLength int) int {
	total := 0
	for _, p := range player.Pieces {
		total += Progress(p, pathLength)
	}
	return total
}

func cloneInts(s []int) []int {
	if len(s) == 0 {
		return nil
	}
	out := make([]int, len(s))
	copy(out, s)
	return out
}
