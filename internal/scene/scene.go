// Package scene saves and loads the edited curve, patch and light as YAML.
package scene

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/patchlab/internal/engine/lighting"
	"github.com/Faultbox/patchlab/pkg/bezier"
	"github.com/Faultbox/patchlab/pkg/math"
	"github.com/Faultbox/patchlab/pkg/tessellate"
)

// Scene is everything the editor persists.
type Scene struct {
	Curve *bezier.Curve
	Patch *bezier.Patch
	Light *lighting.PointLight

	// PatchResolution is the tessellation resolution in use when saved.
	PatchResolution int
}

// Default returns the scene the editor starts with.
func Default(patchResolution int) *Scene {
	return &Scene{
		Curve: bezier.NewCurve(
			math.V3(-0.9, -0.5, 0),
			math.V3(-0.3, 0.8, 0),
			math.V3(0.3, -0.8, 0),
			math.V3(0.9, 0.5, 0),
		),
		Patch:           bezier.DefaultPatch(),
		Light:           lighting.DefaultPointLight(),
		PatchResolution: patchResolution,
	}
}

type vec3 [3]float32

type curveFile struct {
	Resolution int     `yaml:"resolution"`
	Points     [4]vec3 `yaml:"points,flow"`
}

type patchFile struct {
	Resolution int        `yaml:"resolution"`
	Grid       [4][4]vec3 `yaml:"grid,flow"`
}

type lightFile struct {
	Position  vec3       `yaml:"position,flow"`
	Color     [3]float32 `yaml:"color,flow"`
	Ambient   float32    `yaml:"ambient"`
	Diffuse   float32    `yaml:"diffuse"`
	Specular  float32    `yaml:"specular"`
	Shininess float32    `yaml:"shininess"`
}

type file struct {
	Version int       `yaml:"version"`
	Curve   curveFile `yaml:"curve"`
	Patch   patchFile `yaml:"patch"`
	Light   lightFile `yaml:"light"`
}

const fileVersion = 1

// ErrVersion is returned for scene files written by a newer format.
var ErrVersion = errors.New("unsupported scene version")

// Marshal encodes the scene as YAML.
func Marshal(s *Scene) ([]byte, error) {
	f := toFile(s)
	f.Version = fileVersion

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&f); err != nil {
		return nil, fmt.Errorf("encoding scene: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding scene: %w", err)
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a scene. Keys missing from data keep the values of Default.
func Unmarshal(data []byte, defaultResolution int) (*Scene, error) {
	def := Default(defaultResolution)
	f := toFile(def)
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decoding scene: %w", err)
	}
	if f.Version > fileVersion {
		return nil, fmt.Errorf("%w: %d", ErrVersion, f.Version)
	}

	s := &Scene{
		Curve:           bezier.NewCurve(toVec(f.Curve.Points[0]), toVec(f.Curve.Points[1]), toVec(f.Curve.Points[2]), toVec(f.Curve.Points[3])),
		Patch:           def.Patch,
		Light:           def.Light,
		PatchResolution: f.Patch.Resolution,
	}
	if err := s.Curve.SetResolution(f.Curve.Resolution); err != nil {
		return nil, fmt.Errorf("curve: %w", err)
	}
	if s.PatchResolution < 1 || s.PatchResolution > tessellate.MaxResolution {
		return nil, fmt.Errorf("patch: %w: resolution %d out of range [1, %d]", bezier.ErrInvalidArgument, s.PatchResolution, tessellate.MaxResolution)
	}

	var g bezier.Grid
	for i := range 4 {
		for j := range 4 {
			g[i][j] = toVec(f.Patch.Grid[i][j])
		}
	}
	s.Patch.SetGrid(g)

	s.Light.Position = toVec(f.Light.Position)
	s.Light.SetColor(f.Light.Color[0], f.Light.Color[1], f.Light.Color[2])
	s.Light.Ambient = f.Light.Ambient
	s.Light.Diffuse = f.Light.Diffuse
	s.Light.Specular = f.Light.Specular
	s.Light.Shininess = f.Light.Shininess

	return s, nil
}

// Save writes the scene to path, creating parent directories.
func Save(path string, s *Scene) error {
	data, err := Marshal(s)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}

// Load reads a scene from path.
func Load(path string, defaultResolution int) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Unmarshal(data, defaultResolution)
	if err != nil {
		return nil, fmt.Errorf("loading scene %s: %w", path, err)
	}
	return s, nil
}

func toFile(s *Scene) file {
	f := file{
		Curve: curveFile{Resolution: s.Curve.Resolution},
		Patch: patchFile{Resolution: s.PatchResolution},
		Light: lightFile{
			Position:  s.Light.Position.Array(),
			Color:     s.Light.Color,
			Ambient:   s.Light.Ambient,
			Diffuse:   s.Light.Diffuse,
			Specular:  s.Light.Specular,
			Shininess: s.Light.Shininess,
		},
	}
	for i, p := range s.Curve.P {
		f.Curve.Points[i] = p.Array()
	}
	g := s.Patch.Grid()
	for i := range 4 {
		for j := range 4 {
			f.Patch.Grid[i][j] = g[i][j].Array()
		}
	}
	return f
}

func toVec(v vec3) math.Vec3 {
	return math.V3(v[0], v[1], v[2])
}
