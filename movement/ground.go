package movement

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/locomotion/game"
	"github.com/oomph-ac/locomotion/probe"
	"github.com/oomph-ac/locomotion/settings"
)

// senseGround derives the ground state for the tick passed from the latest ground probe result. The
// height is the adjusted height of the avatar above the reference plane and now is the controller
// time. Hits of a result cast for another tick are ignored.
func senseGround(prev GroundState, result probe.Result, tick uint64, height float32, now float64, t settings.Tuning) GroundState {
	g := GroundState{
		PrevGrounded:   prev.Grounded,
		LastGroundTime: prev.LastGroundTime,
		Position:       negInfVec(),
		Distance:       math32.Max(height, 0),
	}

	minY := t.GroundedAngleCos()
	var hit bool
	for _, h := range result.FreshHits(tick) {
		g.Normal = mgl32.Vec3{}
		if h.Normal != nil {
			g.Normal = *h.Normal
		}
		g.Position = negInfVec()
		if h.Position != nil {
			g.Position = *h.Position
		}
		g.Distance = math32.Max(h.Distance-t.ColliderRadius, 0)

		if h.Distance < t.ColliderRadius+t.GroundedHeight && g.Normal.Y() >= minY {
			hit = true
			break
		}
	}

	g.Grounded = hit || height < game.GroundFloorHeight
	if height < game.GroundFloorHeight {
		g.Normal = game.Up
	}
	if g.Grounded {
		g.LastGroundTime = now
	} else {
		g.Normal = mgl32.Vec3{}
	}
	return g
}

// recordGroundState runs the ground sensor and re-aims the ground probe for the next tick.
func (ctx *tickContext) recordGroundState() {
	c := ctx.c
	result := c.ground.Latest()
	c.gnd = senseGround(c.gnd, result, c.tick, c.kin.Position.Y(), c.time, c.tuning)
	c.ground.SetTick(c.tick + 1)

	c.Dbg.Notify(DebugModeGround, result.Tick != c.tick, "tick %d: ground probe result is stale (tick %d)", c.tick, result.Tick)
	c.Dbg.Notify(DebugModeGround, true, "tick %d: grounded=%t prev=%t normal=%v distance=%.4f", c.tick, c.gnd.Grounded, c.gnd.PrevGrounded, c.gnd.Normal, c.gnd.Distance)
}
