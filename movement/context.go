package movement

import "github.com/go-gl/mathgl/mgl32"

// tickContext holds the values shared between the stages of a single tick.
type tickContext struct {
	c  *Controller
	dt float32

	// axis is the normalized, camera-relative horizontal direction of the directional input.
	axis mgl32.Vec3

	jumpPressed bool
	sprint      bool
	walk        bool
}
