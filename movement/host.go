package movement

import "github.com/go-gl/mathgl/mgl32"

// MovementInfo is the host's account of the previous tick's movement.
type MovementInfo struct {
	// RequestedVelocity is the velocity the host was last asked to apply, by this controller or any
	// other system.
	RequestedVelocity mgl32.Vec3
	// ActualVelocity is the velocity the avatar actually moved with after collisions.
	ActualVelocity mgl32.Vec3
	// ExternalVelocity is any velocity the host added on top of the requested one.
	ExternalVelocity mgl32.Vec3
}

// Command is the movement written to the host at the end of a tick.
type Command struct {
	Velocity mgl32.Vec3
	// Orientation is the facing of the avatar in degrees. It is sign-inverted relative to the
	// controller's yaw.
	Orientation float32
	// GroundDirection is the direction the host should consider down.
	GroundDirection mgl32.Vec3
}

// Host is the avatar the controller moves.
type Host interface {
	// Transform returns the world position and rotation of the avatar.
	Transform() (mgl32.Vec3, mgl32.Quat)
	// CameraRotation returns the world rotation of the camera.
	CameraRotation() mgl32.Quat
	// MovementInfo returns the host's view of the previous tick, if it has one.
	MovementInfo() (MovementInfo, bool)
	// ApplyMovement hands the controller's output for the tick to the host.
	ApplyMovement(cmd Command)
}
