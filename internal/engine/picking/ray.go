// Package picking maps screen positions to control points and drags them.
package picking

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/patchlab/pkg/math"
)

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3 // Normalized direction
}

// ScreenToRay converts screen coordinates to a world-space ray running from the
// near plane toward the far plane. invViewProj is the inverse of the
// view-projection matrix.
func ScreenToRay(screen math.Vec2, vp math.Viewport, invViewProj math.Mat4) (Ray, bool) {
	near, ok := math.Unproject(screen, -1, invViewProj, vp)
	if !ok {
		return Ray{}, false
	}
	far, ok := math.Unproject(screen, 1, invViewProj, vp)
	if !ok {
		return Ray{}, false
	}
	dir := far.Sub(near).Normalize()
	if dir == (math.Vec3{}) {
		return Ray{}, false
	}
	return Ray{Origin: near, Direction: dir}, true
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// IntersectPlane intersects the ray with the plane through point with the
// given normal. The intersection may lie behind the origin.
func (r Ray) IntersectPlane(point, normal math.Vec3) (math.Vec3, bool) {
	denom := normal.Dot(r.Direction)
	if math32.Abs(denom) < 1e-6 {
		return math.Vec3{}, false // Ray parallel to plane
	}
	t := normal.Dot(point.Sub(r.Origin)) / denom
	return r.At(t), true
}

// ViewForward returns the world-space viewing direction encoded in a view matrix.
func ViewForward(view math.Mat4) math.Vec3 {
	// The third row of the rotation block is -forward.
	return math.V3(-view[2], -view[6], -view[10]).Normalize()
}
