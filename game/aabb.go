package game

import (
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
)

// AABBFromDimensions returns a bounding box with its bottom centre on the origin.
func AABBFromDimensions(width, height float32) cube.BBox {
	h := width / 2
	return cube.Box(
		-h, 0, -h,
		h, height, h,
	)
}

// FaceNormal returns the outward unit normal of a box face.
func FaceNormal(f cube.Face) mgl32.Vec3 {
	switch f {
	case cube.FaceDown:
		return Down
	case cube.FaceUp:
		return Up
	case cube.FaceNorth:
		return Backward
	case cube.FaceSouth:
		return Forward
	case cube.FaceWest:
		return Left
	default:
		return Right
	}
}
