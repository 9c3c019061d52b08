package engine

import (
	"math/rand/v2"
	"sync"
)

// Dice produces roll values in [1, DieFaces]
type Dice interface {
	Roll() int
}

// RandomDice rolls a fair six-sided die
type RandomDice struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomDice returns a die seeded with seed, or an unseeded one when seed is 0.
func NewRandomDice(seed uint64) *RandomDice {
	if seed == 0 {
		return &RandomDice{}
	}
	return &RandomDice{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (d *RandomDice) Roll() int {
	if d.rng == nil {
		return rand.IntN(DieFaces) + 1
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rng.IntN(DieFaces) + 1
}

// ScriptedDice replays a fixed sequence of values, cycling when exhausted.
type ScriptedDice struct {
	mu     sync.Mutex
	values []int
	next   int
}

// NewScriptedDice creates dice that return values in order
func NewScriptedDice(values ...int) *ScriptedDice {
	return &ScriptedDice{values: values}
}

func (d *ScriptedDice) Roll() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.values) == 0 {
		return 1
	}
	v := d.values[d.next%len(d.values)]
	d.next++
	return v
}

// Rolled returns how many values have been handed out.
func (d *ScriptedDice) Rolled() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.next
}
