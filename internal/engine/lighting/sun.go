package lighting

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/patchlab/pkg/math"
)

// SunDirection converts longitude/latitude angles in degrees to a unit vector.
// Longitude rotates around +Y starting at +Z, latitude is the elevation from
// the XZ plane.
func SunDirection(longitude, latitude float32) math.Vec3 {
	lon := longitude * math32.Pi / 180
	lat := latitude * math32.Pi / 180

	sl, cl := math32.Sincos(lat)
	so, co := math32.Sincos(lon)
	return math.V3(cl*so, sl, cl*co)
}
