package movement

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/locomotion/game"
	"github.com/oomph-ac/locomotion/probe"
	"github.com/oomph-ac/locomotion/settings"
)

// senseStep reads the step probes for the tick passed into the step state. The Stepping flag is left
// alone.
func senseStep(s *StepState, forward, up, upForward probe.Result, tick uint64, t settings.Tuning) {
	s.ForwardDistance = float32(math32.Inf(1))
	s.ForwardWalkable = true
	s.ForwardNormal = mgl32.Vec3{}

	minY := t.GroundedAngleCos()
	for _, h := range forward.FreshHits(tick) {
		var normal mgl32.Vec3
		if h.Normal != nil {
			normal = *h.Normal
		}
		s.ForwardDistance = math32.Min(s.ForwardDistance, h.Distance)
		s.ForwardWalkable = normal.Y() >= minY
		s.ForwardNormal = normal
	}
	s.UpDistance = up.MinDistance(tick)
	s.UpForwardDistance = upForward.MinDistance(tick)
}

// shouldStep returns true if the avatar is walking into an obstacle it can climb: the surface in
// front is too steep to walk on and blocks the avatar, there is room above it, and the avatar faces
// it.
func shouldStep(s StepState, axis mgl32.Vec3, t settings.Tuning) bool {
	blocked := t.ColliderRadius * game.StepBlockedFraction
	return !s.ForwardWalkable &&
		s.ForwardDistance < blocked &&
		s.UpForwardDistance > blocked &&
		s.ForwardNormal.Dot(axis) < game.StepFacingDot
}

// stepUp runs the step sensor, overriding the vertical velocity while a step-climb is in progress,
// and re-aims the step probes for the next tick.
func (ctx *tickContext) stepUp() {
	c := ctx.c
	t := c.tuning
	senseStep(&c.step, c.forward.Latest(), c.up.Latest(), c.upForward.Latest(), c.tick, t)

	if c.step.Stepping && ctx.axis.Len() == 0 {
		c.step.Stepping = false
		c.kin.Velocity[1] = math32.Min(0, c.kin.Velocity[1])
		c.Dbg.Notify(DebugModeStep, true, "tick %d: step cancelled, no movement input", c.tick)
	}

	if shouldStep(c.step, ctx.axis, t) {
		c.kin.Velocity[1] = t.MaxStepHeight / ctx.dt
		c.step.Stepping = true
		c.Dbg.Notify(DebugModeStep, true, "tick %d: stepping (fwd=%.4f upFwd=%.4f normal=%v)", c.tick, c.step.ForwardDistance, c.step.UpForwardDistance, c.step.ForwardNormal)
	} else if c.step.Stepping {
		c.kin.Velocity[1] = math32.Min(0, c.kin.Velocity[1])
		c.step.Stepping = false
		c.Dbg.Notify(DebugModeStep, true, "tick %d: step finished", c.tick)
	}

	next := c.tick + 1
	// The raised probe starts below any ceiling so that it never starts inside geometry.
	upForwardOffset := mgl32.Vec3{0, math32.Min(t.MaxStepHeight, c.step.UpDistance), 0}
	c.up.SetTick(next)
	if c.step.Stepping {
		c.forward.SetTick(next)
		c.upForward.SetTick(next)
		c.upForward.SetOffset(upForwardOffset)
		return
	}
	c.forward.Aim(next, mgl32.Vec3{}, c.kin.VelocityDir)
	c.upForward.Aim(next, upForwardOffset, c.kin.VelocityDir)
}
