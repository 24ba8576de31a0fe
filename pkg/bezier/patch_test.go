package bezier

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/patchlab/pkg/math"
)

func randomPatch(rng *rand.Rand) *Patch {
	var g Grid
	for i := range 4 {
		for j := range 4 {
			g[i][j] = randVec(rng)
		}
	}
	return NewPatch(g)
}

func TestPatchCorners(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	p := randomPatch(rng)
	g := p.Grid()

	corners := []struct {
		s, t float32
		want math.Vec3
	}{
		{0, 0, g[0][0]},
		{1, 0, g[3][0]},
		{0, 1, g[0][3]},
		{1, 1, g[3][3]},
	}
	for _, c := range corners {
		assertVecNear(t, c.want, p.Point(c.s, c.t), eps, "corner (%v, %v)", c.s, c.t)
	}
}

func TestPatchNestedMatchesDirectSum(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for range 10 {
		p := randomPatch(rng)
		for range 20 {
			s, tt := rng.Float32(), rng.Float32()
			assertVecNear(t, p.PointDirect(s, tt), p.Point(s, tt), 1e-5)
		}
	}
}

func TestPatchCoefficientEquivalence(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for range 5 {
		p := randomPatch(rng)
		p.ComputeCoefficients()
		for range 50 {
			s, tt := rng.Float32(), rng.Float32()
			assertVecNear(t, p.Point(s, tt), p.PointFromCoefficients(s, tt), 1e-4, "(s,t)=(%v,%v)", s, tt)
		}
	}
}

func TestPatchCoefficientsInvalidatedOnWrite(t *testing.T) {
	p := FlatPatch()
	p.ComputeCoefficients()
	before := p.PointFromCoefficients(0.5, 0.5)

	require.NoError(t, p.SetControlPoint(1, 2, math.V3(0.3, 0.6, 2)))

	after := p.PointFromCoefficients(0.5, 0.5)
	assert.NotEqual(t, before, after)
	assertVecNear(t, p.Point(0.5, 0.5), after, 1e-5)

	// Writes through the flat index invalidate as well.
	require.NoError(t, p.SetControlPointAt(5, math.V3(0.3, 0.3, -1)))
	assertVecNear(t, p.Point(0.25, 0.75), p.PointFromCoefficients(0.25, 0.75), 1e-5)
}

func TestPatchCoefficientsOfFlatPatch(t *testing.T) {
	c := FlatPatch().ComputeCoefficients()
	// P(s,t) = (s, t, 0): only the linear terms survive.
	assertVecNear(t, math.V3(1, 0, 0), c[2][3], eps)
	assertVecNear(t, math.V3(0, 1, 0), c[3][2], eps)
	assertVecNear(t, math.Vec3{}, c[0][0], eps)
	assertVecNear(t, math.Vec3{}, c[3][3], eps)
}

func TestPatchFlatNormals(t *testing.T) {
	p := FlatPatch()
	for _, st := range [][2]float32{{0, 0}, {0.5, 0.5}, {1, 0}, {0.2, 0.9}, {1, 1}} {
		pt, n := p.Evaluate(st[0], st[1])
		assertVecNear(t, math.V3(st[0], st[1], 0), pt, eps)
		assertVecNear(t, math.V3(0, 0, 1), n, eps)
	}
}

func TestPatchTangents(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	p := randomPatch(rng)
	const h = 1e-2
	s, tt := float32(0.4), float32(0.6)
	sTan, tTan := p.Tangents(s, tt)

	fdS := p.PointDirect(s+h, tt).Sub(p.PointDirect(s-h, tt)).Scale(1 / (2 * h))
	fdT := p.PointDirect(s, tt+h).Sub(p.PointDirect(s, tt-h)).Scale(1 / (2 * h))
	assertVecNear(t, fdS, sTan, 1e-2)
	assertVecNear(t, fdT, tTan, 1e-2)

	n := p.Normal(s, tt)
	assert.InDelta(t, 1, n.Length(), 1e-4)
	assert.InDelta(t, 0, n.Dot(sTan), 1e-3)
	assert.InDelta(t, 0, n.Dot(tTan), 1e-3)
}

func TestPatchDegenerateNormalIsZero(t *testing.T) {
	var g Grid
	for i := range 4 {
		for j := range 4 {
			g[i][j] = math.V3(1, 2, 3)
		}
	}
	assert.Equal(t, math.Vec3{}, NewPatch(g).Normal(0.5, 0.5))
}

func TestPatchSetControlPointInvalidIndex(t *testing.T) {
	p := FlatPatch()
	orig := p.Grid()
	for _, ij := range [][2]int{{4, 0}, {0, 4}, {-1, 2}, {2, -1}} {
		err := p.SetControlPoint(ij[0], ij[1], math.V3(5, 5, 5))
		assert.ErrorIs(t, err, ErrInvalidIndex, "index %v", ij)
	}
	assert.ErrorIs(t, p.SetControlPointAt(16, math.Vec3{}), ErrInvalidIndex)
	assert.ErrorIs(t, p.SetControlPointAt(-1, math.Vec3{}), ErrInvalidIndex)
	assert.Equal(t, orig, p.Grid())
}

func TestPatchFlatIndex(t *testing.T) {
	p := FlatPatch()
	assert.Equal(t, 16, p.NumControlPoints())
	assert.Equal(t, p.ControlPoint(2, 3), p.ControlPointAt(4*2+3))

	require.NoError(t, p.SetControlPointAt(4*1+2, math.V3(7, 8, 9)))
	assert.Equal(t, math.V3(7, 8, 9), p.ControlPoint(1, 2))

	pts := p.Grid().Points()
	require.Len(t, pts, 16)
	for k, pt := range pts {
		assert.Equal(t, p.ControlPointAt(k), pt, "index %d", k)
	}
}

func TestPatchControlNetLines(t *testing.T) {
	p := FlatPatch()
	lines := p.ControlNetLines()
	require.Len(t, lines, 24)
	for _, l := range lines {
		// Every net segment joins grid neighbours one third apart.
		assert.InDelta(t, 1.0/3, l[0].Sub(l[1]).Length(), eps)
	}
}

func TestDefaultPatch(t *testing.T) {
	p := DefaultPatch()
	assert.Equal(t, math.V3(-0.75, -0.75, 0.5), p.ControlPoint(0, 0))
	assert.Equal(t, math.V3(-0.25, 0.25, 0), p.ControlPoint(1, 2))
	assert.Equal(t, math.V3(0.75, 0.25, 0.5), p.ControlPoint(3, 2))
}
