package game

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// RelativeDegrees returns the angle equivalent to the given angle that lies within 180 degrees of center.
func RelativeDegrees(center, angle float32) float32 {
	return center + math32.Mod(math32.Mod(angle-center+180, 360)+360, 360) - 180
}

// WrapYawDelta wraps a yaw delta into the range [-180, 180).
func WrapYawDelta(delta float32) float32 {
	return RelativeDegrees(0, delta)
}

// YawFromDirection returns the yaw, in degrees, that faces the given direction. A yaw of 0 faces +Z and
// a yaw of 90 faces +X.
func YawFromDirection(dir mgl32.Vec3) float32 {
	return mgl32.RadToDeg(math32.Atan2(dir.X(), dir.Z()))
}

// YawQuat returns a rotation of yaw degrees around the up axis.
func YawQuat(yaw float32) mgl32.Quat {
	return mgl32.QuatRotate(mgl32.DegToRad(yaw), Up)
}

// QuatYaw returns the yaw, in degrees, of the forward direction of a rotation.
func QuatYaw(q mgl32.Quat) float32 {
	if q.Len() == 0 {
		return 0
	}
	return YawFromDirection(q.Normalize().Rotate(Forward))
}

// Horizontal returns the vector with its vertical component removed.
func Horizontal(v mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{v.X(), 0, v.Z()}
}

// HorizontalSpeed returns the length of v on the XZ plane.
func HorizontalSpeed(v mgl32.Vec3) float32 {
	return math32.Hypot(v.X(), v.Z())
}

// SafeNormalize normalizes v, returning the zero vector for zero-length or non-finite input instead
// of propagating NaN.
func SafeNormalize(v mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if l == 0 || !IsFinite(l) {
		return mgl32.Vec3{}
	}
	return v.Mul(1 / l)
}

// IsFinite returns true if f is neither NaN nor infinite.
func IsFinite(f float32) bool {
	return !math32.IsNaN(f) && !math32.IsInf(f, 0)
}

// FiniteVec returns true if every component of v is finite.
func FiniteVec(v mgl32.Vec3) bool {
	return IsFinite(v[0]) && IsFinite(v[1]) && IsFinite(v[2])
}

// ClampFloat clamps the given value to the given range.
func ClampFloat(num, min, max float32) float32 {
	if num < min {
		return min
	}
	return math32.Min(num, max)
}

// Lerp linearly interpolates between a and b by t.
func Lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

// ApproxEq reports whether a and b differ by at most eps. Unlike mgl32's relative comparison it
// treats values near zero the same as any other.
func ApproxEq(a, b, eps float32) bool {
	return math32.Abs(a-b) <= eps
}

// Vec3ApproxEq reports whether every component of a and b differs by at most eps.
func Vec3ApproxEq(a, b mgl32.Vec3, eps float32) bool {
	return ApproxEq(a[0], b[0], eps) && ApproxEq(a[1], b[1], eps) && ApproxEq(a[2], b[2], eps)
}
