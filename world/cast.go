package world

import (
	"github.com/chewxy/math32"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/ethaniccc/float32-cube/cube/trace"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/locomotion/game"
	"github.com/oomph-ac/locomotion/probe"
	"github.com/oomph-ac/locomotion/utils"
)

// castSkin is how far behind its origin a cast starts, so that a footprint resting exactly against
// a face still hits it.
const castSkin = float32(1e-3)

// Cast sweeps a flat square footprint of the half-width passed from origin along direction and
// returns the first face it runs into. Faces the footprint moves away from or along are ignored.
func (w *World) Cast(origin, direction mgl32.Vec3, maxDistance, halfWidth float32) (probe.Hit, bool) {
	dir := game.SafeNormalize(direction)
	if dir.Len() == 0 || !(maxDistance > 0) {
		return probe.Hit{}, false
	}
	start := origin.Sub(dir.Mul(castSkin))
	end := origin.Add(dir.Mul(maxDistance))

	grow := mgl32.Vec3{halfWidth, 0, halfWidth}
	sweep := cube.Box(
		math32.Min(start.X(), end.X()), math32.Min(start.Y(), end.Y()), math32.Min(start.Z(), end.Z()),
		math32.Max(start.X(), end.X()), math32.Max(start.Y(), end.Y()), math32.Max(start.Z(), end.Z()),
	).GrowVec3(grow).Grow(castSkin)

	var (
		hit   probe.Hit
		found bool
		best  = maxDistance + castSkin
	)
	nearby := utils.GetBBoxList()
	defer utils.PutBBoxList(nearby)
	w.appendNearbyBoxes(nearby, sweep)
	for _, box := range *nearby {
		result, ok := trace.BBoxIntercept(box.GrowVec3(grow), start, end)
		if !ok {
			continue
		}
		normal := game.FaceNormal(result.Face())
		if normal.Dot(dir) >= 0 {
			continue
		}
		if dist := result.Position().Sub(start).Len(); dist <= best {
			pos := result.Position()
			best, found = dist, true
			hit = probe.Hit{Distance: math32.Max(dist-castSkin, 0), Position: &pos, Normal: &normal}
		}
	}
	return hit, found
}
