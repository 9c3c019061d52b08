// Command analyze prints quick, human-readable facts about the track of each
// configuration file in the configs directory: the ring map with entry and
// safe squares, and the longest stretch of exposed squares each color must cross.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"

	"github.com/wricardo/mcp-training/ludo/game/engine"
)

func main() {
	dir := "configs"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		fmt.Printf("Error reading directory: %v\n", err)
		os.Exit(1)
	}

	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".json" && ext != ".yaml" && ext != ".yml") {
			continue
		}
		fmt.Printf("\n=== Analyzing %s ===\n", entry.Name())
		if err := analyzeConfig(os.Stdout, filepath.Join(dir, entry.Name())); err != nil {
			fmt.Printf("Error: %v\n", err)
		}
	}
}

func analyzeConfig(w io.Writer, path string) error {
	config, err := engine.LoadGameConfig(path)
	if err != nil {
		return err
	}
	pm, err := engine.NewPathModel(config.Track)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Name: %s\n", config.Name)
	fmt.Fprintf(w, "Seats: %s\n", strings.Join(lo.Map(config.Players, func(p engine.PlayerConfig, _ int) string {
		if p.AI {
			return p.Color + "(ai)"
		}
		return p.Color
	}), ", "))
	fmt.Fprintf(w, "Ring: %d squares, stretch: %d cells, path: %d cells\n",
		pm.SharedLength(), pm.StretchLength(), pm.Length(engine.Yellow))
	fmt.Fprintf(w, "Safe squares: %v\n", pm.SafeSquares())
	fmt.Fprintf(w, "Map: %s\n", ringMap(pm))

	for _, c := range engine.AllColors {
		fmt.Fprintf(w, "  %-7s entry %2d, longest exposed run %d\n", c, pm.Entry(c), longestExposedRun(pm, c))
	}
	if config.Rules.CaptureGrantsBonus {
		fmt.Fprintf(w, "Captures grant a bonus roll\n")
	}
	return nil
}

// ringMap draws the shared ring: entry squares by color initial, safe squares
// as '*', everything else as '.'.
func ringMap(pm *engine.PathModel) string {
	cells := []byte(strings.Repeat(".", pm.SharedLength()))
	for _, sq := range pm.SafeSquares() {
		if sq >= 0 && sq < len(cells) {
			cells[sq] = '*'
		}
	}
	for _, c := range engine.AllColors {
		cells[pm.Entry(c)] = strings.ToUpper(c.String())[0]
	}
	return string(cells)
}

// longestExposedRun is the longest run of consecutive capturable cells on a
// color's path, from its entry to the start of its stretch.
func longestExposedRun(pm *engine.PathModel, c engine.Color) int {
	longest, run := 0, 0
	for i := 0; i < pm.SharedLength(); i++ {
		if pm.IsSafe(c, i) {
			run = 0
			continue
		}
		run++
		longest = max(longest, run)
	}
	return longest
}
