package main

import (
	"sync"
	"time"

	"github.com/oomph-ac/locomotion/movement"
)

// scriptedInput is an input provider driven by a scenario.
type scriptedInput struct {
	pressed map[movement.Action]bool
}

func newScriptedInput() *scriptedInput {
	return &scriptedInput{pressed: make(map[movement.Action]bool)}
}

// Pressed ...
func (in *scriptedInput) Pressed(a movement.Action) bool {
	return in.pressed[a]
}

// set replaces the held actions with the ones named.
func (in *scriptedInput) set(names []string) {
	clear(in.pressed)
	for _, name := range names {
		if a, ok := actionByName(name); ok {
			in.pressed[a] = true
		}
	}
}

// keyHold is how long a key counts as held after the terminal last reported it. Terminals only
// report key repeats, never releases.
const keyHold = 150 * time.Millisecond

// keyboardInput is an input provider fed by terminal key events.
type keyboardInput struct {
	mu   sync.Mutex
	last map[movement.Action]time.Time
	// toggled holds the modifiers that stay active until pressed again.
	toggled map[movement.Action]bool
}

func newKeyboardInput() *keyboardInput {
	return &keyboardInput{
		last:    make(map[movement.Action]time.Time),
		toggled: make(map[movement.Action]bool),
	}
}

// Pressed ...
func (in *keyboardInput) Pressed(a movement.Action) bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.toggled[a] {
		return true
	}
	t, ok := in.last[a]
	return ok && time.Since(t) < keyHold
}

func (in *keyboardInput) press(a movement.Action) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.last[a] = time.Now()
}

func (in *keyboardInput) toggle(a movement.Action) bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.toggled[a] = !in.toggled[a]
	return in.toggled[a]
}
