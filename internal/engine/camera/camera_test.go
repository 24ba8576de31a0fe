package camera

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"

	"github.com/Faultbox/patchlab/pkg/math"
)

func TestPositionAtDistance(t *testing.T) {
	c := NewOrbitCamera(45, 3, 0.1, 100)
	c.Center = math.V3(1, 2, 3)
	assert.InDelta(t, 3, c.Position().Sub(c.Center).Length(), 1e-5)

	c.Pitch, c.Yaw = 0, 0
	assert.True(t, c.Position().ApproxEqual(math.V3(1, 2, 6), 1e-5))
}

func TestViewMatrixLooksAtCenter(t *testing.T) {
	c := NewOrbitCamera(45, 5, 0.1, 100)
	c.Center = math.V3(0.5, 0.5, 0)

	eye := c.ViewMatrix().TransformPoint(c.Center)
	assert.InDelta(t, 0, eye.X, 1e-5)
	assert.InDelta(t, 0, eye.Y, 1e-5)
	assert.InDelta(t, -5, eye.Z, 1e-5)
}

func TestProjectionMatrix(t *testing.T) {
	c := NewOrbitCamera(90, 5, 0.1, 100)
	p := c.ProjectionMatrix(2)
	// f = 1/tan(45deg) = 1
	assert.InDelta(t, 0.5, p[0], 1e-5)
	assert.InDelta(t, 1, p[5], 1e-5)

	// A degenerate aspect falls back to square.
	assert.InDelta(t, 1, c.ProjectionMatrix(0)[0], 1e-5)
}

func TestHandleDragClampsPitch(t *testing.T) {
	c := NewOrbitCamera(45, 3, 0.1, 100)
	c.HandleDrag(0, 1e6)
	assert.Equal(t, c.MaxPitch, c.Pitch)
	c.HandleDrag(0, -1e6)
	assert.Equal(t, c.MinPitch, c.Pitch)

	yaw := c.Yaw
	c.HandleDrag(10, 0)
	assert.InDelta(t, yaw-10*c.DragSensitivity, c.Yaw, 1e-6)
}

func TestHandleZoom(t *testing.T) {
	c := NewOrbitCamera(45, 4, 0.1, 100)
	c.HandleZoom(1)
	assert.InDelta(t, 4*(1-c.ZoomSensitivity), c.Distance, 1e-5)

	c.HandleZoom(1000)
	assert.Equal(t, c.MinDistance, c.Distance)
	c.HandleZoom(-1e6)
	assert.Equal(t, c.MaxDistance, c.Distance)
}

func TestHandlePanKeepsOrientation(t *testing.T) {
	c := NewOrbitCamera(45, 4, 0.1, 100)
	c.Pitch, c.Yaw = 0, 0
	c.HandlePan(100, 0)

	// Dragging right moves the scene right, so the center moves left.
	assert.Less(t, c.Center.X, float32(0))
	assert.InDelta(t, 0, c.Center.Y, 1e-6)
	assert.InDelta(t, 0, c.Center.Z, 1e-6)

	before := c.Position().Sub(c.Center)
	c.HandlePan(-30, 40)
	assert.True(t, before.ApproxEqual(c.Position().Sub(c.Center), 1e-5))
}

func TestFitToBounds(t *testing.T) {
	c := NewOrbitCamera(60, 10, 0.1, 100)
	c.FitToBounds(math.V3(-1, -1, -1), math.V3(1, 1, 1))
	assert.Equal(t, math.V3(0, 0, 0), c.Center)
	assert.InDelta(t, math32.Sqrt(3)/0.5, c.Distance, 1e-4)
}
