package movement

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/locomotion/game"
	"github.com/oomph-ac/locomotion/settings"
)

// movementAxis returns the normalized horizontal direction of the directional input, relative to
// the camera. It is zero without input or when the input cancels out.
func movementAxis(in InputProvider, camera mgl32.Quat) mgl32.Vec3 {
	var axis mgl32.Vec3
	if in.Pressed(ActionLeft) {
		axis = axis.Add(game.Left)
	}
	if in.Pressed(ActionRight) {
		axis = axis.Add(game.Right)
	}
	if in.Pressed(ActionForward) {
		axis = axis.Add(game.Forward)
	}
	if in.Pressed(ActionBackward) {
		axis = axis.Add(game.Backward)
	}
	if axis.Len() == 0 {
		return mgl32.Vec3{}
	}
	if camera.Len() != 0 {
		axis = camera.Normalize().Rotate(axis)
	}
	return game.SafeNormalize(game.Horizontal(axis))
}

// updateMovementAxis polls the input for the tick.
func (ctx *tickContext) updateMovementAxis() {
	c := ctx.c
	ctx.axis = movementAxis(c.input, c.host.CameraRotation())
	ctx.jumpPressed = c.input.Pressed(ActionJump)
	ctx.sprint = c.input.Pressed(ActionSprint)
	ctx.walk = c.input.Pressed(ActionWalk)
}

// targetSpeed returns the speed the avatar accelerates towards.
func targetSpeed(p settings.Parameters, sprint, walk bool) float32 {
	switch {
	case sprint:
		return p.SprintSpeed
	case walk:
		return p.WalkSpeed
	}
	return p.JogSpeed
}

// accelTime returns the time constant used to blend towards the target velocity.
func accelTime(t settings.Tuning, grounded, decelerating bool) float32 {
	switch {
	case grounded && decelerating:
		return t.DecelTimeGround
	case grounded:
		return t.AccelTimeGround
	case decelerating:
		return t.DecelTimeAir
	}
	return t.AccelTimeAir
}

// blendHorizontal returns the change to apply to the horizontal velocity passed so that it moves
// towards axis*target. The change snaps straight to the target when it can be reached this tick, and
// otherwise never overshoots it.
func blendHorizontal(hz, axis mgl32.Vec3, target, tc, dt float32) mgl32.Vec3 {
	diff := axis.Mul(target).Sub(hz)
	dist := diff.Len()
	if dist == 0 {
		return mgl32.Vec3{}
	}

	rate := target
	if rate == 0 {
		// Movement is disabled, so bleed off the current speed at the same relative rate instead.
		rate = hz.Len()
	}
	if dist*tc < dt*rate {
		return diff
	}
	step := math32.Min(dt*rate/tc, dist)
	return diff.Mul(step / dist)
}

// updateVelocity accelerates the horizontal velocity towards the target speed along the movement
// axis.
func (ctx *tickContext) updateVelocity() {
	c := ctx.c
	hz := game.Horizontal(c.kin.Velocity)
	decelerating := ctx.axis.Len() == 0 || ctx.axis.Dot(hz) <= game.ReverseDotThreshold
	tc := accelTime(c.tuning, c.gnd.Grounded, decelerating)
	target := targetSpeed(c.params, ctx.sprint, ctx.walk)

	delta := blendHorizontal(hz, ctx.axis, target, tc, ctx.dt)
	c.kin.Velocity = c.kin.Velocity.Add(delta)
	c.Dbg.Notify(DebugModeHorizontal, true, "tick %d: axis=%v target=%.2f decel=%t tc=%.3f hz=%v", c.tick, ctx.axis, target, decelerating, tc, game.Horizontal(c.kin.Velocity))
}

// turn returns the orientation after turning from current towards target for dt seconds. The result
// is in [0, 360).
func turn(current, target, dt float32, t settings.Tuning) float32 {
	if math32.Abs(game.WrapYawDelta(target-current)) < game.SnapTurnDegrees {
		return game.RelativeDegrees(180, target)
	}

	current = game.RelativeDegrees(target, current)
	perc := float32(1)
	if t.TurnFullTime > 0 {
		perc = math32.Min(dt/t.TurnFullTime, 1)
	}
	blended := target*perc + current*(1-perc)
	maxTurn := t.TurnMaxDegreesSec * dt
	o := game.ClampFloat(blended, current-maxTurn, current+maxTurn)
	return game.RelativeDegrees(180, o)
}

// updateOrientation turns the avatar towards the movement axis.
func (ctx *tickContext) updateOrientation() {
	c := ctx.c
	if ctx.axis.Len() != 0 {
		c.kin.TargetOrientation = game.YawFromDirection(ctx.axis)
	}
	if c.params.DisableOrientation || c.kin.Orientation == c.kin.TargetOrientation {
		return
	}
	c.kin.Orientation = turn(c.kin.Orientation, c.kin.TargetOrientation, ctx.dt, c.tuning)
	c.Dbg.Notify(DebugModeHorizontal, true, "tick %d: orientation=%.2f target=%.2f", c.tick, c.kin.Orientation, c.kin.TargetOrientation)
}
