package bezier

import (
	"fmt"

	"github.com/Faultbox/patchlab/pkg/math"
)

// Grid is the 4x4 control grid of a bicubic patch.
//
// Indexing convention: Grid[i][j], where i runs along the s parameter and j
// runs along t. Hence Point(s,t) at the corners is:
//
//	(0,0) -> Grid[0][0]   (1,0) -> Grid[3][0]
//	(0,1) -> Grid[0][3]   (1,1) -> Grid[3][3]
type Grid [4][4]math.Vec3

// Points returns the 16 control points in flat index order k = 4*i + j.
func (g Grid) Points() []math.Vec3 {
	pts := make([]math.Vec3, 0, 16)
	for i := range 4 {
		pts = append(pts, g[i][:]...)
	}
	return pts
}

// Coefficients are the power-basis coefficients of a patch:
// P(s,t) = sum over a,b of S[a] * C[a][b] * T[b], with S = (s³,s²,s,1) and
// T = (t³,t²,t,1).
type Coefficients [4][4]math.Vec3

// basis is the cubic Bezier basis matrix. It is symmetric, so C = Mᵗ·G·M = M·G·M.
var basis = [4][4]float32{
	{-1, 3, -3, 1},
	{3, -6, 3, 0},
	{-3, 3, 0, 0},
	{1, 0, 0, 0},
}

// Patch is a bicubic tensor-product Bezier patch.
// The coefficient cache is dropped on every control point write.
type Patch struct {
	grid        Grid
	coeffs      Coefficients
	coeffsValid bool
}

// NewPatch creates a patch from a control grid.
func NewPatch(g Grid) *Patch {
	return &Patch{grid: g}
}

// FlatPatch returns the unit patch Grid[i][j] = (i/3, j/3, 0), for which
// Point(s,t) == (s, t, 0).
func FlatPatch() *Patch {
	var g Grid
	for i := range 4 {
		for j := range 4 {
			g[i][j] = math.V3(float32(i)/3, float32(j)/3, 0)
		}
	}
	return NewPatch(g)
}

// DefaultPatch returns a grid spanning [-0.75,0.75]² with its boundary ring
// raised to z = 0.5, which gives a shallow bowl.
func DefaultPatch() *Patch {
	vals := [4]float32{-0.75, -0.25, 0.25, 0.75}
	var g Grid
	for i := range 4 {
		for j := range 4 {
			var z float32
			if i%3 == 0 || j%3 == 0 {
				z = 0.5
			}
			g[i][j] = math.V3(vals[i], vals[j], z)
		}
	}
	return NewPatch(g)
}

// Grid returns a copy of the control grid.
func (p *Patch) Grid() Grid {
	return p.grid
}

// ControlPoint returns Grid[i][j], or the zero vector when out of range.
func (p *Patch) ControlPoint(i, j int) math.Vec3 {
	if !inRange(i) || !inRange(j) {
		return math.Vec3{}
	}
	return p.grid[i][j]
}

// SetControlPoint moves Grid[i][j] to pos and invalidates the coefficients.
func (p *Patch) SetControlPoint(i, j int, pos math.Vec3) error {
	if !inRange(i) || !inRange(j) {
		return fmt.Errorf("%w: patch index (%d, %d)", ErrInvalidIndex, i, j)
	}
	p.grid[i][j] = pos
	p.coeffsValid = false
	return nil
}

// SetGrid replaces every control point.
func (p *Patch) SetGrid(g Grid) {
	p.grid = g
	p.coeffsValid = false
}

// Point evaluates the patch at (s,t).
func (p *Patch) Point(s, t float32) math.Vec3 {
	pt, _ := p.Evaluate(s, t)
	return pt
}

// Normal returns the unit surface normal at (s,t), normalize(dP/ds x dP/dt).
// It is the zero vector where the surface is degenerate.
func (p *Patch) Normal(s, t float32) math.Vec3 {
	_, n := p.Evaluate(s, t)
	return n
}

// Evaluate returns the point and unit normal at (s,t) by nested curve
// evaluation: each t-column collapses in s, giving a curve in t that yields
// the point and t tangent; each s-row collapses in t, giving a curve in s that
// yields the s tangent.
func (p *Patch) Evaluate(s, t float32) (point, normal math.Vec3) {
	inS, inT := p.collapse(s, t)
	point = Point(t, inS)
	sTan, tTan := Tangent(s, inT), Tangent(t, inS)
	return point, sTan.Cross(tTan).Normalize()
}

// Tangents returns the unnormalized partial derivatives dP/ds and dP/dt.
func (p *Patch) Tangents(s, t float32) (sTan, tTan math.Vec3) {
	inS, inT := p.collapse(s, t)
	return Tangent(s, inT), Tangent(t, inS)
}

// collapse evaluates the four s-curves Grid[0..3][k] at s and the four
// t-curves Grid[k][0..3] at t.
func (p *Patch) collapse(s, t float32) (inS, inT [4]math.Vec3) {
	for k := range 4 {
		inS[k] = Point(s, [4]math.Vec3{p.grid[0][k], p.grid[1][k], p.grid[2][k], p.grid[3][k]})
		inT[k] = Point(t, p.grid[k])
	}
	return inS, inT
}

// PointDirect evaluates the double sum Σi Σj Bi(s) Bj(t) Grid[i][j].
func (p *Patch) PointDirect(s, t float32) math.Vec3 {
	bs, bt := Blend(s), Blend(t)
	var sum math.Vec3
	for i := range 4 {
		for j := range 4 {
			sum = sum.Add(p.grid[i][j].Scale(bs[i] * bt[j]))
		}
	}
	return sum
}

// ComputeCoefficients derives C = M·G·M for each coordinate channel and caches it.
func (p *Patch) ComputeCoefficients() Coefficients {
	// mg = M·G
	var mg [4][4]math.Vec3
	for a := range 4 {
		for j := range 4 {
			var v math.Vec3
			for i := range 4 {
				v = v.Add(p.grid[i][j].Scale(basis[a][i]))
			}
			mg[a][j] = v
		}
	}
	var c Coefficients
	for a := range 4 {
		for b := range 4 {
			var v math.Vec3
			for j := range 4 {
				v = v.Add(mg[a][j].Scale(basis[j][b]))
			}
			c[a][b] = v
		}
	}
	p.coeffs = c
	p.coeffsValid = true
	return c
}

// Coefficients returns the cached coefficients, recomputing them if stale.
func (p *Patch) Coefficients() Coefficients {
	if !p.coeffsValid {
		return p.ComputeCoefficients()
	}
	return p.coeffs
}

// PointFromCoefficients evaluates the power-basis form at (s,t).
func (p *Patch) PointFromCoefficients(s, t float32) math.Vec3 {
	c := p.Coefficients()
	s2, t2 := s*s, t*t
	sp := [4]float32{s2 * s, s2, s, 1}
	tp := [4]float32{t2 * t, t2, t, 1}
	var sum math.Vec3
	for a := range 4 {
		var row math.Vec3
		for b := range 4 {
			row = row.Add(c[a][b].Scale(tp[b]))
		}
		sum = sum.Add(row.Scale(sp[a]))
	}
	return sum
}

// ControlNetLines returns the 24 segments of the control net.
func (p *Patch) ControlNetLines() [][2]math.Vec3 {
	lines := make([][2]math.Vec3, 0, 24)
	for i := range 4 {
		for j := range 3 {
			lines = append(lines,
				[2]math.Vec3{p.grid[i][j], p.grid[i][j+1]},
				[2]math.Vec3{p.grid[j][i], p.grid[j+1][i]},
			)
		}
	}
	return lines
}

// NumControlPoints implements picking.ControlNet.
func (p *Patch) NumControlPoints() int { return 16 }

// ControlPointAt implements picking.ControlNet with k = 4*i + j.
func (p *Patch) ControlPointAt(k int) math.Vec3 {
	if k < 0 || k > 15 {
		return math.Vec3{}
	}
	return p.grid[k/4][k%4]
}

// SetControlPointAt implements picking.ControlNet with k = 4*i + j.
func (p *Patch) SetControlPointAt(k int, pos math.Vec3) error {
	if k < 0 || k > 15 {
		return fmt.Errorf("%w: patch flat index %d", ErrInvalidIndex, k)
	}
	return p.SetControlPoint(k/4, k%4, pos)
}

func inRange(i int) bool {
	return i >= 0 && i <= 3
}
