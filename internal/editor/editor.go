// Package editor holds the interactive editing state: the scene, the orbit
// camera, the control point picker and the cached patch mesh. It has no
// window or GL dependencies; the application feeds it mouse and key input.
package editor

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/patchlab/internal/config"
	"github.com/Faultbox/patchlab/internal/engine/camera"
	"github.com/Faultbox/patchlab/internal/engine/picking"
	"github.com/Faultbox/patchlab/internal/logger"
	"github.com/Faultbox/patchlab/internal/scene"
	"github.com/Faultbox/patchlab/pkg/math"
	"github.com/Faultbox/patchlab/pkg/tessellate"
)

// MaxPatchResolution bounds the +/- resolution keys.
const MaxPatchResolution = tessellate.MaxResolution

// Action is an editor command bound to a key.
type Action int

const (
	ActionNone Action = iota
	ActionToggleNet
	ActionReset
	ActionResolutionUp
	ActionResolutionDown
	ActionSave
	ActionLoad
	ActionCycleMode
	ActionToggleBounds
	ActionScreenshot
	ActionQuit
)

// Editor is the editing session.
type Editor struct {
	cfg config.EditorConfig

	Mode       string
	ShowNet    bool
	ShowBounds bool
	Scene      *scene.Scene
	Camera     *camera.OrbitCamera
	Picker     *picking.Picker

	viewport math.Viewport

	mesh      *tessellate.Mesh
	meshDirty bool

	// Mouse state while a button is held.
	pressed bool
	panning bool
	lastX   float32
	lastY   float32

	screenshot bool
	quit       bool
}

// New creates an editor from configuration with the default scene.
func New(cfg *config.Config) *Editor {
	cam := camera.NewOrbitCamera(cfg.Camera.FOVDeg, cfg.Camera.Distance, cfg.Camera.Near, cfg.Camera.Far)
	cam.DragSensitivity = cfg.Camera.DragSensitivity
	cam.ZoomSensitivity = cfg.Camera.ZoomSensitivity

	e := &Editor{
		cfg:      cfg.Editor,
		Mode:     cfg.Editor.Mode,
		ShowNet:  cfg.Editor.ShowControlNet,
		Camera:   cam,
		Picker:   picking.NewPicker(),
		viewport: math.Viewport{Width: float32(cfg.Graphics.Width), Height: float32(cfg.Graphics.Height)},
	}
	e.setScene(scene.Default(cfg.Editor.PatchResolution))
	if err := e.Scene.Curve.SetResolution(cfg.Editor.CurveResolution); err != nil {
		logger.Warn("curve resolution ignored", zap.Error(err))
	}
	return e
}

func (e *Editor) setScene(s *scene.Scene) {
	e.Scene = s
	e.meshDirty = true
	e.Picker.Cancel()
}

// TakeScreenshot reports whether a screenshot was requested since the last
// call, and clears the request.
func (e *Editor) TakeScreenshot() bool {
	req := e.screenshot
	e.screenshot = false
	return req
}

// Quit reports whether the user asked to exit.
func (e *Editor) Quit() bool {
	return e.quit
}

// Resize updates the viewport used for projection and picking.
func (e *Editor) Resize(width, height int) {
	e.viewport = math.Viewport{Width: float32(width), Height: float32(height)}
}

// Viewport returns the current viewport.
func (e *Editor) Viewport() math.Viewport {
	return e.viewport
}

// View returns a snapshot of the current camera.
func (e *Editor) View() picking.View {
	aspect := float32(1)
	if e.viewport.Height > 0 {
		aspect = e.viewport.Width / e.viewport.Height
	}
	return picking.View{
		View:       e.Camera.ViewMatrix(),
		Projection: e.Camera.ProjectionMatrix(aspect),
		Viewport:   e.viewport,
	}
}

// Nets returns the pickable control nets for the current mode. Curve and
// patch points are pickable only while the control net is shown. The light is
// always pickable and comes last so that a control point on top of it wins.
func (e *Editor) Nets() []picking.ControlNet {
	var nets []picking.ControlNet
	if e.ShowNet && e.ShowsCurve() {
		nets = append(nets, e.Scene.Curve)
	}
	if e.ShowNet && e.ShowsPatch() {
		nets = append(nets, e.Scene.Patch)
	}
	nets = append(nets, e.Scene.Light)
	return nets
}

// ShowsCurve reports whether the curve is visible in the current mode.
func (e *Editor) ShowsCurve() bool {
	return e.Mode == config.ModeCurve || e.Mode == config.ModeBoth
}

// ShowsPatch reports whether the patch is visible in the current mode.
func (e *Editor) ShowsPatch() bool {
	return e.Mode == config.ModePatch || e.Mode == config.ModeBoth
}

// MouseDown handles a left button press at (x, y). A press near a control
// point arms the picker; otherwise the following motion moves the camera.
func (e *Editor) MouseDown(x, y float32, shift bool) {
	e.pressed = true
	e.panning = shift
	e.lastX, e.lastY = x, y
	e.Picker.TryPick(x, y, e.View(), e.cfg.PickTolerance, e.Nets()...)
}

// MouseMove handles cursor motion. With the button held it drags the picked
// control point, or orbits (pans with shift) the camera.
func (e *Editor) MouseMove(x, y float32) error {
	if !e.pressed {
		return nil
	}
	dx, dy := x-e.lastX, y-e.lastY
	e.lastX, e.lastY = x, y

	switch e.Picker.State() {
	case picking.Armed:
		e.Picker.BeginDrag()
		fallthrough
	case picking.Dragging:
		if err := e.Picker.Drag(x, y); err != nil {
			return fmt.Errorf("dragging control point: %w", err)
		}
		if h, ok := e.Picker.Picked(); ok && h.Net == picking.ControlNet(e.Scene.Patch) {
			e.meshDirty = true
		}
		return nil
	}

	if e.panning {
		e.Camera.HandlePan(dx, dy)
	} else {
		e.Camera.HandleDrag(dx, dy)
	}
	return nil
}

// MouseUp releases the button.
func (e *Editor) MouseUp() {
	e.pressed = false
	e.panning = false
	e.Picker.EndDrag()
}

// Wheel zooms the camera.
func (e *Editor) Wheel(delta float32) {
	e.Camera.HandleZoom(delta)
}

// FocusLost cancels any drag in progress.
func (e *Editor) FocusLost() {
	e.pressed = false
	e.Picker.Cancel()
}

// Do performs a key action.
func (e *Editor) Do(a Action) error {
	switch a {
	case ActionToggleNet:
		e.ShowNet = !e.ShowNet
		e.Picker.Cancel()
	case ActionReset:
		res := e.Scene.PatchResolution
		light := e.Scene.Light
		e.setScene(scene.Default(res))
		e.Scene.Light = light
		if err := e.Scene.Curve.SetResolution(e.cfg.CurveResolution); err != nil {
			return fmt.Errorf("resetting curve: %w", err)
		}
		e.Frame()
		logger.Info("control points reset")
	case ActionResolutionUp:
		e.setResolution(e.Scene.PatchResolution + 1)
	case ActionResolutionDown:
		e.setResolution(e.Scene.PatchResolution - 1)
	case ActionSave:
		return e.Save()
	case ActionLoad:
		return e.Load()
	case ActionCycleMode:
		switch e.Mode {
		case config.ModeCurve:
			e.Mode = config.ModePatch
		case config.ModePatch:
			e.Mode = config.ModeBoth
		default:
			e.Mode = config.ModeCurve
		}
		e.Picker.Cancel()
		logger.Info("mode changed", zap.String("mode", e.Mode))
	case ActionToggleBounds:
		e.ShowBounds = !e.ShowBounds
	case ActionScreenshot:
		e.screenshot = true
	case ActionQuit:
		e.quit = true
	}
	return nil
}

func (e *Editor) setResolution(n int) {
	n = max(1, min(n, MaxPatchResolution))
	if n == e.Scene.PatchResolution {
		return
	}
	e.Scene.PatchResolution = n
	e.meshDirty = true
	logger.Debug("patch resolution", zap.Int("resolution", n))
}

// Save writes the scene to the configured scene file.
func (e *Editor) Save() error {
	if err := scene.Save(e.cfg.SceneFile, e.Scene); err != nil {
		return fmt.Errorf("saving scene: %w", err)
	}
	logger.Info("scene saved", zap.String("path", e.cfg.SceneFile))
	return nil
}

// Load replaces the scene with the configured scene file. A missing file is
// logged and ignored.
func (e *Editor) Load() error {
	s, err := scene.Load(e.cfg.SceneFile, e.Scene.PatchResolution)
	if errors.Is(err, os.ErrNotExist) {
		logger.Warn("no scene file to load", zap.String("path", e.cfg.SceneFile))
		return nil
	}
	if err != nil {
		return err
	}
	e.setScene(s)
	e.Frame()
	logger.Info("scene loaded", zap.String("path", e.cfg.SceneFile))
	return nil
}

// Frame points the camera at the control points of the nets shown in the
// current mode. The surface and curve lie inside the hull of their control
// points, so the box around them bounds what is drawn.
func (e *Editor) Frame() {
	var pts []math.Vec3
	if e.ShowsCurve() {
		pts = append(pts, e.Scene.Curve.P[:]...)
	}
	if e.ShowsPatch() {
		pts = append(pts, e.Scene.Patch.Grid().Points()...)
	}
	if len(pts) == 0 {
		return
	}
	lo, hi := pts[0], pts[0]
	for _, p := range pts[1:] {
		lo = math.V3(min(lo.X, p.X), min(lo.Y, p.Y), min(lo.Z, p.Z))
		hi = math.V3(max(hi.X, p.X), max(hi.Y, p.Y), max(hi.Z, p.Z))
	}
	e.Camera.FitToBounds(lo, hi)
}

// Mesh returns the tessellated patch, rebuilding it after edits.
func (e *Editor) Mesh() (*tessellate.Mesh, error) {
	if e.mesh != nil && !e.meshDirty {
		return e.mesh, nil
	}
	m, err := tessellate.BuildMesh(e.Scene.Patch, e.Scene.PatchResolution)
	if err != nil {
		return nil, err
	}
	e.mesh = m
	e.meshDirty = false
	return m, nil
}

// MeshDirty reports whether the next Mesh call will rebuild.
func (e *Editor) MeshDirty() bool {
	return e.meshDirty || e.mesh == nil
}
