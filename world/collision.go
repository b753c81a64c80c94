package world

import (
	"github.com/chewxy/math32"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
)

// clipEpsilon is the penetration tolerated before a box stops clipping movement on an axis.
const clipEpsilon = float32(1e-4)

// clipAxis clips a movement of delta along the axis passed so that the moving box does not enter any
// of the stationary boxes.
func clipAxis(stationary []cube.BBox, moving cube.BBox, axis int, delta float32) float32 {
	if delta == 0 {
		return 0
	}
	for _, bb := range stationary {
		if !overlapsOtherAxes(bb, moving, axis) {
			continue
		}
		if delta > 0 && moving.Max()[axis] <= bb.Min()[axis]+clipEpsilon {
			delta = math32.Min(delta, bb.Min()[axis]-moving.Max()[axis])
		} else if delta < 0 && moving.Min()[axis] >= bb.Max()[axis]-clipEpsilon {
			delta = math32.Max(delta, bb.Max()[axis]-moving.Min()[axis])
		}
	}
	return delta
}

func overlapsOtherAxes(a, b cube.BBox, axis int) bool {
	for i := 0; i < 3; i++ {
		if i == axis {
			continue
		}
		if a.Max()[i] <= b.Min()[i] || a.Min()[i] >= b.Max()[i] {
			return false
		}
	}
	return true
}

// collide moves the box passed by vel, clipping it against the stationary boxes one axis at a time
// in y, x, z order. It returns the movement that was possible.
func collide(stationary []cube.BBox, moving cube.BBox, vel mgl32.Vec3) mgl32.Vec3 {
	dy := clipAxis(stationary, moving, 1, vel.Y())
	moving = moving.Translate(mgl32.Vec3{0, dy, 0})
	dx := clipAxis(stationary, moving, 0, vel.X())
	moving = moving.Translate(mgl32.Vec3{dx, 0, 0})
	dz := clipAxis(stationary, moving, 2, vel.Z())
	return mgl32.Vec3{dx, dy, dz}
}
