package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/wricardo/mcp-training/ludo/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// Info holds the checks that passed and Warnings the oddities that do not
// make the file unusable.
type ValidationResult struct {
	File     string   `json:"file"`
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
	Info     []string `json:"info,omitempty"`
}

func (r *ValidationResult) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) warn(format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) pass(format string, args ...interface{}) {
	r.Info = append(r.Info, "✓ "+fmt.Sprintf(format, args...))
}

// ValidateFile loads and checks a single configuration file. Beyond the
// checks the engine applies when loading, it looks at the track shape and
// the seating order.
func ValidateFile(filePath string) ValidationResult {
	result := ValidationResult{
		File:  filepath.Base(filePath),
		Valid: true,
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	config, err := engine.ParseGameConfig(data, filepath.Ext(filePath))
	if err != nil {
		result.fail("Failed to parse: %v", err)
		return result
	}

	if err := engine.ValidateGameConfig(config); err != nil {
		result.fail("%v", err)
		return result
	}

	path, err := engine.NewPathModel(config.Track)
	if err != nil {
		result.fail("%v", err)
		return result
	}

	ai := 0
	for _, p := range config.Players {
		if p.AI {
			ai++
		}
	}
	result.pass("Players: %d seated, %d AI", len(config.Players), ai)
	if ai == len(config.Players) {
		result.warn("Every seat is AI; interactive play will only watch")
	}

	checkTrack(&result, path)
	checkSeating(&result, config, path)
	return result
}

// checkTrack looks at the layout the path model was built from
func checkTrack(result *ValidationResult, path *engine.PathModel) {
	shared := path.SharedLength()
	result.pass("Track: %d shared squares, %d home-stretch cells, path length %d",
		shared, path.StretchLength(), path.Length(engine.Yellow))

	for _, c := range engine.AllColors {
		if !path.IsSafeSquare(path.Entry(c)) {
			result.warn("Entry square %d of %s is not safe; pieces entering can be captured at once", path.Entry(c), c)
		}
	}

	entries := make([]int, 0, len(engine.AllColors))
	for _, c := range engine.AllColors {
		entries = append(entries, path.Entry(c))
	}
	sort.Ints(entries)
	gaps := make(map[int]bool)
	for i, e := range entries {
		next := entries[(i+1)%len(entries)]
		gaps[(next-e+shared)%shared] = true
	}
	if len(gaps) > 1 {
		result.warn("Entry squares %v are not evenly spaced", entries)
	} else {
		result.pass("Entries evenly spaced at %v", entries)
	}
}

// checkSeating warns when turn order does not follow the board
func checkSeating(result *ValidationResult, config *engine.GameConfig, path *engine.PathModel) {
	if len(config.Players) < 3 {
		return
	}
	shared := path.SharedLength()
	first, _ := engine.ParseColor(config.Players[0].Color)
	prev := 0
	for _, p := range config.Players[1:] {
		c, _ := engine.ParseColor(p.Color)
		offset := (path.Entry(c) - path.Entry(first) + shared) % shared
		if offset < prev {
			result.warn("Turn order %s does not follow the board direction", seatList(config))
			return
		}
		prev = offset
	}
	result.pass("Turn order follows the board")
}

func seatList(config *engine.GameConfig) []string {
	seats := make([]string, 0, len(config.Players))
	for _, p := range config.Players {
		seats = append(seats, p.Color)
	}
	return seats
}

// ValidateDir validates every configuration file in dir, in name order
func ValidateDir(dir string) ([]ValidationResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read config directory: %w", err)
	}

	var results []ValidationResult
	for _, entry := range entries {
		if entry.IsDir() || !hasConfigExt(entry.Name()) {
			continue
		}
		results = append(results, ValidateFile(filepath.Join(dir, entry.Name())))
	}
	return results, nil
}
