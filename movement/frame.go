package movement

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/locomotion/game"
)

// captureFrame advances the clock, reads the host transform and reconciles the controller's velocity
// with what the host last applied.
func (ctx *tickContext) captureFrame() {
	c := ctx.c
	c.tick++
	c.time += float64(ctx.dt)

	pos, rot := c.host.Transform()
	c.kin.PrevPosition = c.kin.Position
	c.kin.Position = pos.Add(c.adjust)
	c.kin.Rotation = rot

	info, ok := c.host.MovementInfo()
	if !ok {
		c.Dbg.Notify(DebugModeSync, true, "tick %d: host has no movement info", c.tick)
		return
	}
	c.kin.PrevRequested = finiteOrZero(info.RequestedVelocity)
	c.kin.PrevActual = finiteOrZero(info.ActualVelocity)
	c.kin.PrevExternal = finiteOrZero(info.ExternalVelocity)

	// Somebody else asked the host for a different velocity, so continue from what the avatar is
	// really doing.
	if dist := c.kin.Velocity.Sub(c.kin.PrevRequested).Len(); dist > game.ResyncTolerance {
		c.Dbg.Notify(DebugModeSync, true, "tick %d: resync velocity %v -> %v (drift=%.4f)", c.tick, c.kin.Velocity, c.kin.PrevActual, dist)
		c.kin.Velocity = c.kin.PrevActual
	}
}

// emit clamps the final velocity, writes the movement to the host and records the frame.
func (ctx *tickContext) emit() {
	c := ctx.c
	vel := c.kin.Velocity
	if l := vel.Len(); !game.IsFinite(l) || l < game.MinEmitSpeed {
		vel = mgl32.Vec3{}
	}
	c.kin.Velocity = vel
	c.kin.Speed = vel.Len()
	c.kin.VelocityDir = game.SafeNormalize(vel)

	c.host.ApplyMovement(Command{
		Velocity:        vel,
		Orientation:     -c.kin.Orientation,
		GroundDirection: game.Down,
	})
	c.history.Push(Frame{
		Tick:        c.tick,
		Time:        c.time,
		Position:    c.kin.Position,
		Velocity:    vel,
		Grounded:    c.gnd.Grounded,
		Jumping:     c.jump.Jumping(),
		Stepping:    c.step.Stepping,
		Orientation: c.kin.Orientation,
	})
	c.Dbg.Notify(DebugModeSync, true, "tick %d: emit velocity=%v orientation=%.2f", c.tick, vel, c.kin.Orientation)
}

func finiteOrZero(v mgl32.Vec3) mgl32.Vec3 {
	if !game.FiniteVec(v) {
		return mgl32.Vec3{}
	}
	return v
}
