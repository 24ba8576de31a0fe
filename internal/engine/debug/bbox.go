package debug

import (
	"github.com/Faultbox/patchlab/pkg/math"
	"github.com/Faultbox/patchlab/pkg/tessellate"
)

// BoundsWireframe returns the 12 edges of b grown by padding on every side.
func BoundsWireframe(b tessellate.Bounds, padding float32) [][2]math.Vec3 {
	lo := math.V3(b.Min[0]-padding, b.Min[1]-padding, b.Min[2]-padding)
	hi := math.V3(b.Max[0]+padding, b.Max[1]+padding, b.Max[2]+padding)

	// corner n has x from bit 0, y from bit 1, z from bit 2
	corner := func(n int) math.Vec3 {
		c := lo
		if n&1 != 0 {
			c.X = hi.X
		}
		if n&2 != 0 {
			c.Y = hi.Y
		}
		if n&4 != 0 {
			c.Z = hi.Z
		}
		return c
	}

	edges := make([][2]math.Vec3, 0, 12)
	for n := range 8 {
		for _, bit := range []int{1, 2, 4} {
			if n&bit == 0 {
				edges = append(edges, [2]math.Vec3{corner(n), corner(n | bit)})
			}
		}
	}
	return edges
}
