// Package camera provides the orbit camera used to inspect curves and patches.
package camera

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/patchlab/pkg/math"
)

// OrbitCamera orbits around a center point.
type OrbitCamera struct {
	Center math.Vec3

	// Spherical coordinates
	Distance float32 // Distance from center
	Pitch    float32 // Vertical angle, radians
	Yaw      float32 // Horizontal angle, radians

	// Projection
	FOVY      float32 // Vertical field of view, radians
	NearPlane float32
	FarPlane  float32

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Sensitivity
	DragSensitivity float32 // radians per pixel
	ZoomSensitivity float32 // fraction of distance per wheel step
	PanSensitivity  float32 // fraction of distance per pixel
}

// NewOrbitCamera creates an orbit camera looking at the origin from distance.
func NewOrbitCamera(fovDeg, distance, near, far float32) *OrbitCamera {
	return &OrbitCamera{
		Distance:        distance,
		Pitch:           0.5,
		Yaw:             0.4,
		FOVY:            fovDeg * math32.Pi / 180,
		NearPlane:       near,
		FarPlane:        far,
		MinDistance:     near * 2,
		MaxDistance:     far / 2,
		MinPitch:        -1.5,
		MaxPitch:        1.5,
		DragSensitivity: 0.01,
		ZoomSensitivity: 0.1,
		PanSensitivity:  0.002,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	sp, cp := math32.Sincos(c.Pitch)
	sy, cy := math32.Sincos(c.Yaw)
	offset := math.V3(cp*sy, sp, cp*cy).Scale(c.Distance)
	return c.Center.Add(offset)
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position(), c.Center, math.V3(0, 1, 0))
}

// ProjectionMatrix returns the perspective projection for the given aspect ratio.
func (c *OrbitCamera) ProjectionMatrix(aspect float32) math.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	return math.Perspective(c.FOVY, aspect, c.NearPlane, c.FarPlane)
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.Yaw -= deltaX * c.DragSensitivity
	c.Pitch += deltaY * c.DragSensitivity
	c.Pitch = clamp(c.Pitch, c.MinPitch, c.MaxPitch)
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	c.Distance = clamp(c.Distance, c.MinDistance, c.MaxDistance)
}

// HandlePan moves the center point in the view plane so that the scene
// follows the mouse. Screen y points down.
func (c *OrbitCamera) HandlePan(deltaX, deltaY float32) {
	view := c.ViewMatrix()
	right := math.V3(view[0], view[4], view[8])
	up := math.V3(view[1], view[5], view[9])

	speed := c.Distance * c.PanSensitivity
	c.Center = c.Center.
		Sub(right.Scale(deltaX * speed)).
		Add(up.Scale(deltaY * speed))
}

// FitToBounds centers the camera on the box and backs off until it fits the
// vertical field of view.
func (c *OrbitCamera) FitToBounds(min, max math.Vec3) {
	c.Center = min.Add(max).Scale(0.5)

	radius := max.Sub(min).Length() / 2
	if radius <= 0 {
		return
	}
	c.Distance = clamp(radius/math32.Sin(c.FOVY/2), c.MinDistance, c.MaxDistance)
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
