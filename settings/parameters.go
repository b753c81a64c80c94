package settings

import (
	"encoding/binary"
	"math"

	"github.com/zeebo/xxh3"
)

// Locomotion holds the optional speed and jump overrides configured for an avatar. A nil field falls
// back to the matching Tuning value.
type Locomotion struct {
	WalkSpeed     *float32 `toml:"walk_speed,omitempty" yaml:"walk_speed,omitempty"`
	JogSpeed      *float32 `toml:"jog_speed,omitempty" yaml:"jog_speed,omitempty"`
	RunSpeed      *float32 `toml:"run_speed,omitempty" yaml:"run_speed,omitempty"`
	JumpHeight    *float32 `toml:"jump_height,omitempty" yaml:"jump_height,omitempty"`
	RunJumpHeight *float32 `toml:"run_jump_height,omitempty" yaml:"run_jump_height,omitempty"`
}

// Modifiers are the input modifier flags that disable parts of the avatar's movement.
type Modifiers struct {
	DisableAll  bool `toml:"disable_all" yaml:"disable_all"`
	DisableWalk bool `toml:"disable_walk" yaml:"disable_walk"`
	DisableJog  bool `toml:"disable_jog" yaml:"disable_jog"`
	DisableRun  bool `toml:"disable_run" yaml:"disable_run"`
	DisableJump bool `toml:"disable_jump" yaml:"disable_jump"`
}

// Parameters are the effective movement parameters after locomotion overrides and modifiers have
// been applied. They are read-only to the motion code.
type Parameters struct {
	WalkSpeed        float32
	JogSpeed         float32
	SprintSpeed      float32
	JumpHeight       float32
	SprintJumpHeight float32
	// DisableOrientation is set when no kind of movement is allowed, in which case the facing is held.
	DisableOrientation bool
}

// Resolve computes the effective Parameters. Either of loco and mods may be nil.
func Resolve(t Tuning, loco *Locomotion, mods *Modifiers) Parameters {
	walk, jog, run := t.WalkSpeed, t.JogSpeed, t.SprintSpeed
	jump, runJump := t.JumpHeight, t.JumpHeightSprint
	if loco != nil {
		walk = valueOr(loco.WalkSpeed, walk)
		jog = valueOr(loco.JogSpeed, jog)
		run = valueOr(loco.RunSpeed, run)
		jump = valueOr(loco.JumpHeight, jump)
		runJump = valueOr(loco.RunJumpHeight, runJump)
	}

	var m Modifiers
	if mods != nil {
		m = *mods
	}
	walkEnabled := !m.DisableWalk && !m.DisableAll
	jogEnabled := !m.DisableJog && !m.DisableAll
	runEnabled := !m.DisableRun && !m.DisableAll
	jumpEnabled := !m.DisableJump && !m.DisableAll

	p := Parameters{DisableOrientation: !walkEnabled && !jogEnabled && !runEnabled}
	switch {
	case jogEnabled:
		p.JogSpeed = jog
	case walkEnabled:
		p.JogSpeed = walk
	case runEnabled:
		p.JogSpeed = run
	}

	p.WalkSpeed = p.JogSpeed
	if walkEnabled {
		p.WalkSpeed = walk
	}
	p.SprintSpeed = p.JogSpeed
	if runEnabled {
		p.SprintSpeed = run
	}
	if jumpEnabled {
		p.JumpHeight, p.SprintJumpHeight = jump, runJump
	}
	return p
}

// Fingerprint hashes the locomotion overrides and modifiers so that a change between ticks can be
// detected without comparing every field.
func Fingerprint(loco *Locomotion, mods *Modifiers) uint64 {
	buf := make([]byte, 0, 32)
	if loco == nil {
		loco = &Locomotion{}
	}
	for _, v := range []*float32{loco.WalkSpeed, loco.JogSpeed, loco.RunSpeed, loco.JumpHeight, loco.RunJumpHeight} {
		if v == nil {
			buf = append(buf, 0)
			continue
		}
		buf = append(buf, 1)
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(*v))
	}

	var flags byte
	if mods != nil {
		for i, set := range []bool{mods.DisableAll, mods.DisableWalk, mods.DisableJog, mods.DisableRun, mods.DisableJump} {
			if set {
				flags |= 1 << i
			}
		}
	}
	return xxh3.Hash(append(buf, flags))
}

func valueOr(v *float32, def float32) float32 {
	if v == nil {
		return def
	}
	return *v
}
