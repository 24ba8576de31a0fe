package bezier

import (
	"fmt"
	"iter"

	"github.com/Faultbox/patchlab/pkg/math"
)

// DefaultCurveResolution is the number of line segments used to draw a curve.
const DefaultCurveResolution = 50

// Curve is a cubic Bezier curve with four control points.
type Curve struct {
	P          [4]math.Vec3
	Resolution int
}

// NewCurve creates a curve with the default display resolution.
func NewCurve(p0, p1, p2, p3 math.Vec3) *Curve {
	return &Curve{
		P:          [4]math.Vec3{p0, p1, p2, p3},
		Resolution: DefaultCurveResolution,
	}
}

// Point returns the point on the curve at t.
func (c *Curve) Point(t float32) math.Vec3 {
	return Point(t, c.P)
}

// Tangent returns the curve derivative at t.
func (c *Curve) Tangent(t float32) math.Vec3 {
	return Tangent(t, c.P)
}

// Sample returns resolution+1 points at t = 0, 1/resolution, ..., 1.
// The sequence is evaluated lazily and may be ranged over any number of times.
func (c *Curve) Sample(resolution int) (iter.Seq[math.Vec3], error) {
	if resolution < 1 {
		return nil, fmt.Errorf("%w: curve resolution %d", ErrInvalidArgument, resolution)
	}
	p := c.P
	return func(yield func(math.Vec3) bool) {
		for i := 0; i <= resolution; i++ {
			// The last sample is pinned to t=1 so the polyline ends on P[3].
			t := float32(1)
			if i < resolution {
				t = float32(i) / float32(resolution)
			}
			if !yield(Point(t, p)) {
				return
			}
		}
	}, nil
}

// Points returns the curve polyline at the curve's own resolution.
func (c *Curve) Points() []math.Vec3 {
	res := c.Resolution
	if res < 1 {
		res = DefaultCurveResolution
	}
	seq, _ := c.Sample(res)
	pts := make([]math.Vec3, 0, res+1)
	for p := range seq {
		pts = append(pts, p)
	}
	return pts
}

// SetResolution changes the display resolution.
func (c *Curve) SetResolution(n int) error {
	if n < 1 {
		return fmt.Errorf("%w: curve resolution %d", ErrInvalidArgument, n)
	}
	c.Resolution = n
	return nil
}

// ControlPoint returns control point i, or the zero vector when i is out of range.
func (c *Curve) ControlPoint(i int) math.Vec3 {
	if i < 0 || i > 3 {
		return math.Vec3{}
	}
	return c.P[i]
}

// SetControlPoint moves control point index to p.
func (c *Curve) SetControlPoint(index int, p math.Vec3) error {
	if index < 0 || index > 3 {
		return fmt.Errorf("%w: curve index %d", ErrInvalidIndex, index)
	}
	c.P[index] = p
	return nil
}

// ControlPolygon returns the three segments joining consecutive control points,
// as pairs of endpoints.
func (c *Curve) ControlPolygon() [][2]math.Vec3 {
	return [][2]math.Vec3{
		{c.P[0], c.P[1]},
		{c.P[1], c.P[2]},
		{c.P[2], c.P[3]},
	}
}

// NumControlPoints implements picking.ControlNet.
func (c *Curve) NumControlPoints() int { return 4 }

// ControlPointAt implements picking.ControlNet.
func (c *Curve) ControlPointAt(k int) math.Vec3 { return c.ControlPoint(k) }

// SetControlPointAt implements picking.ControlNet.
func (c *Curve) SetControlPointAt(k int, p math.Vec3) error { return c.SetControlPoint(k, p) }
