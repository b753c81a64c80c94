package settings

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Tuning holds the constants that shape how the controller feels. Times are in seconds, speeds in
// metres per second, heights in metres and angles in degrees.
type Tuning struct {
	// Gravity is the downward acceleration applied every tick.
	Gravity float32 `toml:"gravity" yaml:"gravity"`

	WalkSpeed   float32 `toml:"walk_speed" yaml:"walk_speed"`
	JogSpeed    float32 `toml:"jog_speed" yaml:"jog_speed"`
	SprintSpeed float32 `toml:"sprint_speed" yaml:"sprint_speed"`

	// AccelTimeGround is the time to reach full speed on the ground, DecelTimeGround the time to stop.
	AccelTimeGround float32 `toml:"accel_time_ground" yaml:"accel_time_ground"`
	DecelTimeGround float32 `toml:"decel_time_ground" yaml:"decel_time_ground"`
	AccelTimeAir    float32 `toml:"accel_time_air" yaml:"accel_time_air"`
	DecelTimeAir    float32 `toml:"decel_time_air" yaml:"decel_time_air"`

	JumpSpeed        float32 `toml:"jump_speed" yaml:"jump_speed"`
	JumpHeight       float32 `toml:"jump_height" yaml:"jump_height"`
	JumpSpeedSprint  float32 `toml:"jump_speed_sprint" yaml:"jump_speed_sprint"`
	JumpHeightSprint float32 `toml:"jump_height_sprint" yaml:"jump_height_sprint"`
	// JumpDecelTime is the time to lose all vertical speed after the jump button is released.
	JumpDecelTime float32 `toml:"jump_decel_time" yaml:"jump_decel_time"`
	// JumpCoyoteTime is how long after leaving the ground a jump is still allowed.
	JumpCoyoteTime float32 `toml:"jump_coyote_time" yaml:"jump_coyote_time"`

	// TurnMaxDegreesSec caps the turn rate. Set it to +Inf to let TurnFullTime alone decide.
	TurnMaxDegreesSec float32 `toml:"turn_max_degrees_sec" yaml:"turn_max_degrees_sec"`
	TurnFullTime      float32 `toml:"turn_full_time" yaml:"turn_full_time"`

	// GroundedHeight is the distance from a surface at which the avatar is grounded.
	GroundedHeight float32 `toml:"grounded_height" yaml:"grounded_height"`
	// GroundedAngle is the steepest slope, from flat, that is still ground.
	GroundedAngle float32 `toml:"grounded_angle" yaml:"grounded_angle"`
	// MaxStepHeight is the highest step the avatar walks up.
	MaxStepHeight float32 `toml:"max_step_height" yaml:"max_step_height"`
	// GroundSnapHeight is the height under which a previously grounded avatar is pulled to the ground.
	GroundSnapHeight float32 `toml:"ground_snap_height" yaml:"ground_snap_height"`

	ColliderRadius float32 `toml:"collider_radius" yaml:"collider_radius"`
}

// DefaultTuning returns the stock tuning.
func DefaultTuning() Tuning {
	return Tuning{
		Gravity: 10,

		WalkSpeed:   2.5,
		JogSpeed:    8.18,
		SprintSpeed: 11,

		AccelTimeGround: 0.25,
		DecelTimeGround: 0,
		AccelTimeAir:    0.75,
		DecelTimeAir:    0.25,

		JumpSpeed:        7,
		JumpHeight:       1.9,
		JumpSpeedSprint:  11,
		JumpHeightSprint: 2.95,
		JumpDecelTime:    0.125,
		JumpCoyoteTime:   0.125,

		TurnMaxDegreesSec: 360,
		TurnFullTime:      0.1,

		GroundedHeight:   0.05,
		GroundedAngle:    47.5,
		MaxStepHeight:    0.4,
		GroundSnapHeight: 0.1,

		ColliderRadius: 0.3,
	}
}

// GravityVec returns the gravity acceleration as a vector.
func (t Tuning) GravityVec() mgl32.Vec3 {
	return mgl32.Vec3{0, -t.Gravity, 0}
}

// GroundedAngleCos returns the minimum vertical component of a unit surface normal for the surface
// to count as ground.
func (t Tuning) GroundedAngleCos() float32 {
	return math32.Cos(mgl32.DegToRad(t.GroundedAngle))
}

// GroundProbeLength returns the reach of the downward ground probe.
func (t Tuning) GroundProbeLength() float32 {
	return t.ColliderRadius + math32.Max(t.GroundSnapHeight, t.GroundedHeight)
}
