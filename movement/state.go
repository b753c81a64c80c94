package movement

import "github.com/go-gl/mathgl/mgl32"

// KinematicState is the controller's view of the avatar's motion.
type KinematicState struct {
	// Velocity is the velocity being built up this tick. It is always finite once emitted.
	Velocity mgl32.Vec3

	PrevPosition mgl32.Vec3
	Position     mgl32.Vec3
	Rotation     mgl32.Quat

	// Orientation is the current facing in degrees, in [0, 360).
	Orientation       float32
	TargetOrientation float32

	// VelocityDir and Speed describe the last emitted velocity.
	VelocityDir mgl32.Vec3
	Speed       float32

	PrevRequested mgl32.Vec3
	PrevActual    mgl32.Vec3
	PrevExternal  mgl32.Vec3
}

// GroundState describes the ground under the avatar.
type GroundState struct {
	Grounded     bool
	PrevGrounded bool
	// Normal is the unit normal of the ground, or zero when airborne.
	Normal mgl32.Vec3
	// Position is the position of the last examined ground hit, or -Inf when there was none.
	Position mgl32.Vec3
	// Distance is the distance from the bottom of the collider to the ground.
	Distance float32
	// LastGroundTime is the controller time of the last grounded tick, in seconds.
	LastGroundTime float64
}

// StepState describes the step-climb sensor.
type StepState struct {
	// Stepping is true while a step-climb is in progress.
	Stepping bool

	ForwardDistance   float32
	UpDistance        float32
	UpForwardDistance float32

	// ForwardWalkable is true if the surface in front is flat enough to walk on, or if there is
	// none.
	ForwardWalkable bool
	ForwardNormal   mgl32.Vec3
}

// JumpState is the state of the jump state machine.
type JumpState struct {
	// StartHeight is the height the current jump launched from, or nil when not jumping.
	StartHeight *float32
	// WasPressed is the state of the jump button last tick.
	WasPressed bool
	// SnapSpeed is the downward pull applied by the last ground snap.
	SnapSpeed float32
}

// Jumping returns true if a jump is in progress.
func (j JumpState) Jumping() bool {
	return j.StartHeight != nil
}

// Frame is a record of a single emitted tick.
type Frame struct {
	Tick        uint64
	Time        float64
	Position    mgl32.Vec3
	Velocity    mgl32.Vec3
	Grounded    bool
	Jumping     bool
	Stepping    bool
	Orientation float32
}
