package game

import "github.com/go-gl/mathgl/mgl32"

const (
	// MinEmitSpeed is the speed below which an emitted velocity is clamped to exactly zero.
	MinEmitSpeed = float32(0.01)
	// ResyncTolerance is how far the controller's velocity may drift from the host's requested
	// velocity before the controller assumes somebody else moved the avatar.
	ResyncTolerance = float32(0.1)

	// GroundFloorHeight is the absolute height under which the avatar is always grounded.
	GroundFloorHeight = float32(0.01)
	// SnapNoiseFloor is the ground distance under which snapping is not worth applying.
	SnapNoiseFloor = float32(1e-4)

	// StepBlockedFraction is the fraction of the collider radius within which forward travel counts
	// as blocked, and beyond which the raised probe counts as clear.
	StepBlockedFraction = float32(0.25)
	// StepFacingDot is the dot product between the blocking normal and the movement axis under which
	// the avatar is considered to be walking straight into the obstacle.
	StepFacingDot = float32(-0.85)

	// JumpHeightEpsilon is the slack below the target jump height at which the ascent is complete.
	JumpHeightEpsilon = float32(1e-3)
	// ReverseDotThreshold is the dot product between axis and horizontal velocity under which the
	// avatar is reversing.
	ReverseDotThreshold = float32(-1e-4)
	// SnapTurnDegrees is the orientation delta under which the orientation snaps to its target.
	SnapTurnDegrees = float32(1)

	// HistorySize is the amount of emitted frames kept by the controller.
	HistorySize = 64
)

var (
	Up       = mgl32.Vec3{0, 1, 0}
	Down     = mgl32.Vec3{0, -1, 0}
	Forward  = mgl32.Vec3{0, 0, 1}
	Backward = mgl32.Vec3{0, 0, -1}
	Left     = mgl32.Vec3{-1, 0, 0}
	Right    = mgl32.Vec3{1, 0, 0}
)
