// Package lighting provides the editable point light used to shade patches.
package lighting

import (
	"fmt"

	"github.com/Faultbox/patchlab/pkg/bezier"
	"github.com/Faultbox/patchlab/pkg/math"
)

// PointLight is a single light with Phong terms. It exposes its position as a
// one-point control net so the picker can drag it like any control point.
type PointLight struct {
	Position math.Vec3
	Color    [3]float32 // RGB, 0-1

	Ambient   float32
	Diffuse   float32
	Specular  float32
	Shininess float32
}

// NewPointLight creates a white light placed on the sphere of the given radius
// around center, in the direction given by longitude/latitude degrees.
func NewPointLight(center math.Vec3, radius, longitude, latitude float32) *PointLight {
	return &PointLight{
		Position:  center.Add(SunDirection(longitude, latitude).Scale(radius)),
		Color:     [3]float32{1, 1, 1},
		Ambient:   0.15,
		Diffuse:   0.8,
		Specular:  0.5,
		Shininess: 32,
	}
}

// DefaultPointLight returns the light used by a fresh scene.
func DefaultPointLight() *PointLight {
	return NewPointLight(math.V3(0, 0, 0), 1.2, 30, 40)
}

// SetColor sets the light color, clamping each channel to [0, 1].
func (l *PointLight) SetColor(r, g, b float32) {
	l.Color = [3]float32{clamp01(r), clamp01(g), clamp01(b)}
}

// NumControlPoints returns 1.
func (l *PointLight) NumControlPoints() int { return 1 }

// ControlPointAt returns the light position for k == 0.
func (l *PointLight) ControlPointAt(k int) math.Vec3 {
	if k != 0 {
		return math.Vec3{}
	}
	return l.Position
}

// SetControlPointAt moves the light.
func (l *PointLight) SetControlPointAt(k int, p math.Vec3) error {
	if k != 0 {
		return fmt.Errorf("%w: light has a single handle, got %d", bezier.ErrInvalidIndex, k)
	}
	l.Position = p
	return nil
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
