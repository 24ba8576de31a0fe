// Package tessellate converts Bezier patches into quad meshes for rendering.
package tessellate

import (
	"fmt"

	"github.com/Faultbox/patchlab/pkg/bezier"
	"github.com/Faultbox/patchlab/pkg/math"
)

// MaxResolution is the largest resolution the editor accepts from keys,
// flags or scene files. BuildMesh itself does not enforce it.
const MaxResolution = 100

// FloatsPerVertex is the interleaved vertex layout: position(3) + normal(3) + uv(2).
const FloatsPerVertex = 8

// Vertex is one evaluated surface sample.
type Vertex struct {
	Position math.Vec3
	Normal   math.Vec3
	UV       math.Vec2 // (s, t)
}

// Quad is one grid cell. Corners are ordered (s0,t0), (s1,t0), (s1,t1), (s0,t1).
type Quad struct {
	Corners [4]Vertex
}

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// Mesh is a tessellated patch: Resolution² quads in row-major cell order,
// where cell (i, j) spans s in [i/res, (i+1)/res] and t in [j/res, (j+1)/res]
// and is stored at Quads[i*Resolution+j].
type Mesh struct {
	Resolution int
	Quads      []Quad
}

// BuildMesh evaluates the patch on a (resolution+1)² lattice and emits one quad
// per cell. The patch is only read.
func BuildMesh(patch *bezier.Patch, resolution int) (*Mesh, error) {
	if resolution <= 0 {
		return nil, fmt.Errorf("%w: tessellation resolution %d", bezier.ErrInvalidArgument, resolution)
	}

	n := resolution + 1
	lattice := make([]Vertex, n*n)
	for i := range n {
		s := param(i, resolution)
		for j := range n {
			t := param(j, resolution)
			p, nrm := patch.Evaluate(s, t)
			lattice[i*n+j] = Vertex{Position: p, Normal: nrm, UV: math.Vec2{X: s, Y: t}}
		}
	}

	quads := make([]Quad, 0, resolution*resolution)
	for i := range resolution {
		for j := range resolution {
			quads = append(quads, Quad{Corners: [4]Vertex{
				lattice[i*n+j],
				lattice[(i+1)*n+j],
				lattice[(i+1)*n+j+1],
				lattice[i*n+j+1],
			}})
		}
	}

	return &Mesh{Resolution: resolution, Quads: quads}, nil
}

// param returns k/res, pinned to exactly 1 at the last lattice line so
// adjacent cells share edges bit for bit.
func param(k, res int) float32 {
	if k == res {
		return 1
	}
	return float32(k) / float32(res)
}

// QuadCount returns the number of quads.
func (m *Mesh) QuadCount() int {
	return len(m.Quads)
}

// VertexCount returns the number of triangle vertices Interleaved produces.
func (m *Mesh) VertexCount() int {
	return len(m.Quads) * 6
}

// Interleaved flattens the mesh into a triangle list (two triangles per quad,
// corners 0-1-2 and 0-2-3) with FloatsPerVertex floats per vertex.
func (m *Mesh) Interleaved() []float32 {
	out := make([]float32, 0, m.VertexCount()*FloatsPerVertex)
	for _, q := range m.Quads {
		for _, k := range [6]int{0, 1, 2, 0, 2, 3} {
			v := q.Corners[k]
			out = append(out,
				v.Position.X, v.Position.Y, v.Position.Z,
				v.Normal.X, v.Normal.Y, v.Normal.Z,
				v.UV.X, v.UV.Y,
			)
		}
	}
	return out
}

// Bounds returns the bounding box of all quad corners.
func (m *Mesh) Bounds() Bounds {
	b := Bounds{
		Min: [3]float32{1e10, 1e10, 1e10},
		Max: [3]float32{-1e10, -1e10, -1e10},
	}
	for _, q := range m.Quads {
		for _, v := range q.Corners {
			updateBounds(&b, v.Position.Array())
		}
	}
	return b
}

func updateBounds(b *Bounds, p [3]float32) {
	for i := range 3 {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
}
