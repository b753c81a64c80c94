package movement

import (
	"github.com/chewxy/math32"
	"github.com/oomph-ac/locomotion/game"
)

// applyGravity accelerates the avatar downwards. On the ground, velocity into the ground is removed
// so that gravity does not accumulate while resting. Gravity is suspended while stepping.
func (ctx *tickContext) applyGravity() {
	c := ctx.c
	if c.step.Stepping {
		return
	}
	g := c.tuning.GravityVec()
	c.kin.Velocity = c.kin.Velocity.Add(g.Mul(ctx.dt))
	if c.gnd.Grounded {
		dir := game.SafeNormalize(g)
		into := c.kin.Velocity.Dot(dir)
		c.kin.Velocity = c.kin.Velocity.Add(dir.Mul(math32.Min(0, -into)))
	}
}

// sprintRatio returns how far the horizontal speed passed is between the jog and sprint speeds, from
// 0 to 1.
func sprintRatio(speed, jog, sprint float32) float32 {
	if sprint <= jog {
		return 0
	}
	return game.ClampFloat((speed-jog)/(sprint-jog), 0, 1)
}

// canJump returns true if a jump may start: the avatar is grounded, or left the ground no longer
// than the coyote time ago.
func canJump(grounded bool, lastGroundTime, now float64, coyote float32) bool {
	return grounded || lastGroundTime >= now-float64(coyote)
}

// applyJump runs the jump state machine.
func (ctx *tickContext) applyJump() {
	c := ctx.c
	t := c.tuning
	pressed := ctx.jumpPressed
	height := c.kin.Position.Y()

	ratio := sprintRatio(game.HorizontalSpeed(c.kin.Velocity), c.params.JogSpeed, c.params.SprintSpeed)
	jumpHeight := game.Lerp(c.params.JumpHeight, c.params.SprintJumpHeight, ratio)
	jumpSpeed := game.Lerp(t.JumpSpeed, t.JumpSpeedSprint, ratio)
	decel := t.JumpSpeed / t.JumpDecelTime

	speedCap := c.kin.PrevActual.Y() - t.Gravity*ctx.dt
	if !c.jump.Jumping() && pressed && !c.jump.WasPressed && jumpHeight > 0 &&
		canJump(c.gnd.Grounded, c.gnd.LastGroundTime, c.time, t.JumpCoyoteTime) {
		start := height
		c.jump.StartHeight = &start
		speedCap = jumpSpeed
		c.Dbg.Notify(DebugModeJump, true, "tick %d: jump started at %.4f (grounded=%t ratio=%.2f)", c.tick, start, c.gnd.Grounded, ratio)
	}

	if c.jump.Jumping() {
		target := *c.jump.StartHeight + jumpHeight
		switch {
		case pressed && height+game.JumpHeightEpsilon < target:
			remaining := target - height
			requiredTime := math32.Sqrt(remaining * 2 / decel)
			required := requiredTime * decel * math32.Min(1, requiredTime/ctx.dt)
			c.kin.Velocity[1] = math32.Min(required, speedCap)
			c.Dbg.Notify(DebugModeJump, true, "tick %d: ascending, remaining=%.4f vy=%.4f", c.tick, remaining, c.kin.Velocity[1])
		case c.kin.Velocity[1] > 0:
			c.kin.Velocity[1] -= math32.Min(c.kin.Velocity[1], ctx.dt*jumpSpeed/t.JumpDecelTime)
			c.Dbg.Notify(DebugModeJump, true, "tick %d: slowing ascent, vy=%.4f", c.tick, c.kin.Velocity[1])
		default:
			c.jump.StartHeight = nil
			c.Dbg.Notify(DebugModeJump, true, "tick %d: jump finished", c.tick)
		}
	}
	c.jump.WasPressed = pressed
}

// snapToGround pulls an avatar that was grounded last tick back onto the ground, unless it is
// jumping, stepping or was asked to move up.
func (ctx *tickContext) snapToGround() {
	c := ctx.c
	if c.kin.Velocity[1] <= -c.jump.SnapSpeed {
		c.kin.Velocity[1] += c.jump.SnapSpeed
	}

	dist := c.gnd.Distance
	if !c.jump.Jumping() &&
		!c.step.Stepping &&
		c.kin.PrevRequested.Y() <= 0 &&
		c.gnd.PrevGrounded &&
		dist > game.SnapNoiseFloor && dist < c.tuning.GroundSnapHeight {
		c.jump.SnapSpeed = dist / ctx.dt
		c.kin.Velocity[1] -= c.jump.SnapSpeed
		c.gnd.Grounded = true
		c.Dbg.Notify(DebugModeGround, true, "tick %d: snapped to ground (distance=%.4f speed=%.4f)", c.tick, dist, c.jump.SnapSpeed)
		return
	}
	c.jump.SnapSpeed = 0
}
