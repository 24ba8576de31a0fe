package tessellate

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/patchlab/pkg/bezier"
	"github.com/Faultbox/patchlab/pkg/math"
)

func TestBuildMeshInvalidResolution(t *testing.T) {
	for _, res := range []int{0, -1} {
		m, err := BuildMesh(bezier.FlatPatch(), res)
		assert.ErrorIs(t, err, bezier.ErrInvalidArgument, "resolution %d", res)
		assert.Nil(t, m)
	}
}

func TestBuildMeshCoverage(t *testing.T) {
	for _, n := range []int{1, 2, 3, 7} {
		m, err := BuildMesh(bezier.DefaultPatch(), n)
		require.NoError(t, err)
		require.Equal(t, n*n, m.QuadCount())

		// Each cell must be the exact expected (s,t) rectangle, so the cells tile
		// [0,1]² with no gaps or overlaps.
		var area float64
		seen := make(map[[2]float32]bool)
		for i := range n {
			for j := range n {
				q := m.Quads[i*n+j]
				s0, s1 := param(i, n), param(i+1, n)
				t0, t1 := param(j, n), param(j+1, n)
				want := [4]math.Vec2{{X: s0, Y: t0}, {X: s1, Y: t0}, {X: s1, Y: t1}, {X: s0, Y: t1}}
				for k := range 4 {
					assert.Equal(t, want[k], q.Corners[k].UV, "res %d cell (%d,%d) corner %d", n, i, j, k)
				}
				key := [2]float32{s0, t0}
				assert.False(t, seen[key], "duplicate cell origin %v", key)
				seen[key] = true
				area += float64(s1-s0) * float64(t1-t0)
			}
		}
		assert.InDelta(t, 1.0, area, 1e-5)
	}
}

func TestBuildMeshSharedEdges(t *testing.T) {
	m, err := BuildMesh(bezier.DefaultPatch(), 4)
	require.NoError(t, err)
	// The (s1,t0)-(s1,t1) edge of cell (i,j) is the (s0,t0)-(s0,t1) edge of cell (i+1,j).
	for i := range 3 {
		for j := range 4 {
			a := m.Quads[i*4+j]
			b := m.Quads[(i+1)*4+j]
			assert.Equal(t, a.Corners[1], b.Corners[0])
			assert.Equal(t, a.Corners[2], b.Corners[3])
		}
	}
}

func TestBuildMeshMatchesPatch(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	var g bezier.Grid
	for i := range 4 {
		for j := range 4 {
			g[i][j] = math.V3(rng.Float32(), rng.Float32(), rng.Float32())
		}
	}
	p := bezier.NewPatch(g)
	m, err := BuildMesh(p, 5)
	require.NoError(t, err)
	for _, q := range m.Quads {
		for _, v := range q.Corners {
			pt, n := p.Evaluate(v.UV.X, v.UV.Y)
			assert.Equal(t, pt, v.Position)
			assert.Equal(t, n, v.Normal)
		}
	}
	// Tessellation does not touch the model.
	assert.Equal(t, g, p.Grid())
}

func TestFlatPatchEndToEnd(t *testing.T) {
	m, err := BuildMesh(bezier.FlatPatch(), 2)
	require.NoError(t, err)
	require.Len(t, m.Quads, 4)

	for idx, q := range m.Quads {
		i, j := idx/2, idx%2
		want := [4]math.Vec3{
			math.V3(float32(i)/2, float32(j)/2, 0),
			math.V3(float32(i+1)/2, float32(j)/2, 0),
			math.V3(float32(i+1)/2, float32(j+1)/2, 0),
			math.V3(float32(i)/2, float32(j+1)/2, 0),
		}
		for k, v := range q.Corners {
			assert.True(t, want[k].ApproxEqual(v.Position, 1e-5), "quad %d corner %d: got %v want %v", idx, k, v.Position, want[k])
			assert.True(t, math.V3(0, 0, 1).ApproxEqual(v.Normal, 1e-5), "quad %d corner %d normal %v", idx, k, v.Normal)
		}
	}

	b := m.Bounds()
	assert.InDelta(t, 0, b.Min[0], 1e-5)
	assert.InDelta(t, 0, b.Min[1], 1e-5)
	assert.InDelta(t, 1, b.Max[0], 1e-5)
	assert.InDelta(t, 1, b.Max[1], 1e-5)
}

func TestInterleaved(t *testing.T) {
	m, err := BuildMesh(bezier.FlatPatch(), 3)
	require.NoError(t, err)
	data := m.Interleaved()
	require.Len(t, data, 9*6*FloatsPerVertex)
	assert.Equal(t, 54, m.VertexCount())

	// Second vertex of the first triangle is corner 1 of quad 0.
	c1 := m.Quads[0].Corners[1]
	v := data[FloatsPerVertex : 2*FloatsPerVertex]
	assert.Equal(t, []float32{
		c1.Position.X, c1.Position.Y, c1.Position.Z,
		c1.Normal.X, c1.Normal.Y, c1.Normal.Z,
		c1.UV.X, c1.UV.Y,
	}, v)

	// Counter-clockwise winding seen from +Z matches the (0,0,1) normals.
	p0 := math.V3(data[0], data[1], data[2])
	p1 := math.V3(data[8], data[9], data[10])
	p2 := math.V3(data[16], data[17], data[18])
	assert.Greater(t, p1.Sub(p0).Cross(p2.Sub(p0)).Z, float32(0))
}
