package scene

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/patchlab/pkg/bezier"
	"github.com/Faultbox/patchlab/pkg/math"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	s := Default(16)
	require.NoError(t, s.Curve.SetControlPoint(2, math.V3(0.25, -0.5, 1.5)))
	require.NoError(t, s.Curve.SetResolution(12))
	require.NoError(t, s.Patch.SetControlPoint(1, 3, math.V3(0.1, 0.9, -0.4)))
	s.Light.Position = math.V3(1, 2, 3)
	s.Light.SetColor(0.5, 0.25, 1)

	path := filepath.Join(t.TempDir(), "scenes", "a.yaml")
	require.NoError(t, Save(path, s))

	got, err := Load(path, 4)
	require.NoError(t, err)
	assert.Equal(t, s.Curve.P, got.Curve.P)
	assert.Equal(t, 12, got.Curve.Resolution)
	assert.Equal(t, s.Patch.Grid(), got.Patch.Grid())
	assert.Equal(t, 16, got.PatchResolution)
	assert.Equal(t, *s.Light, *got.Light)

	// The loaded patch evaluates like the saved one.
	assert.True(t, s.Patch.PointFromCoefficients(0.3, 0.7).ApproxEqual(got.Patch.Point(0.3, 0.7), 1e-4))
}

func TestUnmarshalPartialKeepsDefaults(t *testing.T) {
	data := []byte(`
version: 1
curve:
  points: [[0, 0, 0], [1, 1, 0], [2, 1, 0], [3, 0, 0]]
light:
  position: [0, 5, 0]
`)
	s, err := Unmarshal(data, 8)
	require.NoError(t, err)

	assert.Equal(t, math.V3(2, 1, 0), s.Curve.P[2])
	assert.Equal(t, bezier.DefaultCurveResolution, s.Curve.Resolution)
	assert.Equal(t, bezier.DefaultPatch().Grid(), s.Patch.Grid())
	assert.Equal(t, 8, s.PatchResolution)
	assert.Equal(t, math.V3(0, 5, 0), s.Light.Position)
	assert.Equal(t, [3]float32{1, 1, 1}, s.Light.Color)
}

func TestUnmarshalErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"syntax", "curve: [unclosed"},
		{"short points", "curve:\n  points: [[0, 0, 0]]\n"},
		{"bad curve resolution", "curve:\n  resolution: 0\n"},
		{"bad patch resolution", "patch:\n  resolution: -2\n"},
		{"patch resolution above limit", "patch:\n  resolution: 10000\n"},
		{"future version", "version: 99\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unmarshal([]byte(tt.data), 10)
			assert.Error(t, err)
		})
	}

	_, err := Unmarshal([]byte("version: 2\n"), 10)
	assert.ErrorIs(t, err, ErrVersion)

	_, err = Unmarshal([]byte("patch:\n  resolution: 0\n"), 10)
	assert.ErrorIs(t, err, bezier.ErrInvalidArgument)

	_, err = Unmarshal([]byte("patch:\n  resolution: 101\n"), 10)
	assert.ErrorIs(t, err, bezier.ErrInvalidArgument)
	s, err := Unmarshal([]byte("patch:\n  resolution: 100\n"), 10)
	require.NoError(t, err)
	assert.Equal(t, 100, s.PatchResolution)
}

func TestMarshalIsReadable(t *testing.T) {
	data, err := Marshal(Default(10))
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "version: 1")
	assert.Contains(t, text, "points: [[")
	assert.Contains(t, text, "resolution: 10")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "none.yaml"), 10)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
