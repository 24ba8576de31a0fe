package math

// Viewport is the pixel size of the render target.
//
// Screen coordinates used with a Viewport have their origin at the top-left
// corner and y growing downward (SDL mouse convention). NDC y grows upward, so
// the conversion flips y.
type Viewport struct {
	Width, Height float32
}

// ToNDC converts a screen position to normalized device coordinates (-1..1).
func (vp Viewport) ToNDC(screen Vec2) Vec2 {
	return Vec2{
		X: 2*screen.X/vp.Width - 1,
		Y: 1 - 2*screen.Y/vp.Height,
	}
}

// ToScreen converts normalized device coordinates to a screen position.
func (vp Viewport) ToScreen(ndc Vec2) Vec2 {
	return Vec2{
		X: (ndc.X + 1) * 0.5 * vp.Width,
		Y: (1 - ndc.Y) * 0.5 * vp.Height,
	}
}

// Project maps a world point to screen space through viewProj.
// depth is the NDC z of the point. ok is false for points on or behind the
// eye plane (clip w <= 0), which have no meaningful screen position.
func Project(p Vec3, viewProj Mat4, vp Viewport) (screen Vec2, depth float32, ok bool) {
	clip := viewProj.MulVec4(Point(p))
	if clip[3] <= 0 {
		return Vec2{}, 0, false
	}
	ndc, _ := clip.Divide()
	return vp.ToScreen(Vec2{ndc.X, ndc.Y}), ndc.Z, true
}

// Unproject maps a screen position at the given NDC depth back to world space.
// invViewProj is the inverse of the view-projection matrix.
func Unproject(screen Vec2, depth float32, invViewProj Mat4, vp Viewport) (Vec3, bool) {
	ndc := vp.ToNDC(screen)
	return invViewProj.MulVec4(Vec4{ndc.X, ndc.Y, depth, 1}).Divide()
}
