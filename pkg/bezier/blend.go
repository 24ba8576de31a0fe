// Package bezier evaluates cubic Bezier curves and bicubic Bezier patches.
//
// Parameters outside [0,1] are evaluated as ordinary (extrapolated)
// polynomials; callers clamp when they need points on the segment.
package bezier

import (
	"errors"

	"github.com/Faultbox/patchlab/pkg/math"
)

var (
	// ErrInvalidIndex is returned when a control point index is outside [0,3].
	ErrInvalidIndex = errors.New("control point index out of range")
	// ErrInvalidArgument is returned for non-positive resolutions.
	ErrInvalidArgument = errors.New("invalid argument")
)

// Blend returns the four cubic Bernstein weights at t.
func Blend(t float32) [4]float32 {
	t2 := t * t
	t3 := t2 * t
	return [4]float32{
		-t3 + 3*t2 - 3*t + 1,
		3*t3 - 6*t2 + 3*t,
		-3*t3 + 3*t2,
		t3,
	}
}

// BlendDerivative returns the derivatives of the Bernstein weights at t.
func BlendDerivative(t float32) [4]float32 {
	t2 := t * t
	return [4]float32{
		-3*t2 + 6*t - 3,
		9*t2 - 12*t + 3,
		6*t - 9*t2,
		3 * t2,
	}
}

// Point evaluates the cubic Bezier curve with control points p at t.
func Point(t float32, p [4]math.Vec3) math.Vec3 {
	return combine(Blend(t), p)
}

// Tangent returns the (unnormalized) derivative of the curve at t.
func Tangent(t float32, p [4]math.Vec3) math.Vec3 {
	return combine(BlendDerivative(t), p)
}

func combine(w [4]float32, p [4]math.Vec3) math.Vec3 {
	return p[0].Scale(w[0]).
		Add(p[1].Scale(w[1])).
		Add(p[2].Scale(w[2])).
		Add(p[3].Scale(w[3]))
}
