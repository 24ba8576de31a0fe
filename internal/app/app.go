// Package app runs the editor main loop: window, input, rendering.
package app

import (
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/patchlab/internal/config"
	"github.com/Faultbox/patchlab/internal/editor"
	"github.com/Faultbox/patchlab/internal/engine/debug"
	"github.com/Faultbox/patchlab/internal/engine/input"
	"github.com/Faultbox/patchlab/internal/engine/renderer"
	"github.com/Faultbox/patchlab/internal/engine/texture"
	"github.com/Faultbox/patchlab/internal/engine/window"
	"github.com/Faultbox/patchlab/internal/logger"
	"github.com/Faultbox/patchlab/pkg/math"
)

const pointSize = 9

// keyActions binds scancodes to editor actions.
var keyActions = map[sdl.Scancode]editor.Action{
	sdl.SCANCODE_M:        editor.ActionToggleNet,
	sdl.SCANCODE_R:        editor.ActionReset,
	sdl.SCANCODE_EQUALS:   editor.ActionResolutionUp,
	sdl.SCANCODE_KP_PLUS:  editor.ActionResolutionUp,
	sdl.SCANCODE_MINUS:    editor.ActionResolutionDown,
	sdl.SCANCODE_KP_MINUS: editor.ActionResolutionDown,
	sdl.SCANCODE_S:        editor.ActionSave,
	sdl.SCANCODE_L:        editor.ActionLoad,
	sdl.SCANCODE_TAB:      editor.ActionCycleMode,
	sdl.SCANCODE_B:        editor.ActionToggleBounds,
	sdl.SCANCODE_F12:      editor.ActionScreenshot,
	sdl.SCANCODE_ESCAPE:   editor.ActionQuit,
}

// App is the running editor.
type App struct {
	cfg      *config.Config
	running  bool
	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	editor   *editor.Editor
	shots    *debug.ScreenshotCapture

	// framebuffer pixels per window coordinate
	pixelScale float32
}

// New creates the window, GL state and editor.
func New(cfg *config.Config) (*App, error) {
	logger.Info("initializing editor",
		zap.String("mode", cfg.Editor.Mode),
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
	)

	a := &App{
		cfg:        cfg,
		editor:     editor.New(cfg),
		input:      input.New(),
		shots:      debug.NewScreenshotCapture(cfg.Editor.ScreenshotDir, "patchlab"),
		pixelScale: 1,
	}

	var err error
	a.window, err = window.New(window.Config{
		Title:      "patchlab",
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Renderer needs the GL context created by the window
	dw, dh := a.window.DrawableSize()
	a.renderer, err = renderer.New(renderer.Config{Width: dw, Height: dh})
	if err != nil {
		a.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	a.resize()

	img, err := texture.LoadOrCheckerboard(cfg.Editor.Texture)
	if err != nil {
		logger.Warn("texture not loaded, using checkerboard", zap.String("path", cfg.Editor.Texture), zap.Error(err))
	}
	a.renderer.SetTexture(img)
	logger.Debug("texture set", zap.String("path", cfg.Editor.Texture), zap.Int("width", img.Bounds().Dx()))

	if err := a.editor.Load(); err != nil {
		logger.Warn("scene not loaded", zap.Error(err))
	}

	logger.Info("editor initialized")
	return a, nil
}

// Run starts the main loop.
func (a *App) Run() error {
	a.running = true

	frameCount := 0
	fpsTimer := time.Now()

	logger.Info("starting main loop")

	for a.running {
		if a.input.Update() {
			a.running = false
			break
		}

		for _, event := range a.input.Events() {
			if err := a.handle(event); err != nil {
				// Editor errors are reported, not fatal.
				logger.Error("input handling failed", zap.Error(err))
			}
		}
		if a.editor.Quit() {
			a.running = false
			break
		}

		if err := a.render(); err != nil {
			return fmt.Errorf("render error: %w", err)
		}
		if a.editor.TakeScreenshot() {
			a.screenshot()
		}
		a.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			logger.Debug("fps", zap.Int("count", frameCount))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

// Close cleans up resources.
func (a *App) Close() {
	logger.Info("closing editor")

	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}

func (a *App) resize() {
	w, h := a.window.GetSize()
	dw, dh := a.window.DrawableSize()
	if w > 0 {
		a.pixelScale = float32(dw) / float32(w)
	}
	a.renderer.Resize(dw, dh)
	// Picking works in window coordinates, the space of mouse events.
	a.editor.Resize(w, h)
}

func (a *App) handle(event input.Event) error {
	x, y := float32(event.MouseX), float32(event.MouseY)

	switch event.Type {
	case input.EventWindowResize:
		a.resize()
	case input.EventFocusLost:
		a.editor.FocusLost()
	case input.EventKeyDown:
		if action, ok := keyActions[event.Key]; ok {
			return a.editor.Do(action)
		}
	case input.EventMouseDown:
		if event.Button == sdl.BUTTON_LEFT {
			a.editor.MouseDown(x, y, event.Shift)
		}
	case input.EventMouseMove:
		return a.editor.MouseMove(x, y)
	case input.EventMouseUp:
		if event.Button == sdl.BUTTON_LEFT {
			a.editor.MouseUp()
		}
	case input.EventMouseWheel:
		a.editor.Wheel(event.WheelY)
	}
	return nil
}

func (a *App) render() error {
	e := a.editor
	view := e.View()
	viewProj := view.ViewProjection()
	s := e.Scene

	a.renderer.Begin()
	defer a.renderer.End()

	if e.ShowsPatch() {
		if e.MeshDirty() {
			m, err := e.Mesh()
			if err != nil {
				return err
			}
			a.renderer.UploadMesh(m)
		}
		a.renderer.DrawPatch(viewProj, e.Camera.Position(), s.Light)
		if e.ShowBounds {
			m, err := e.Mesh()
			if err != nil {
				return err
			}
			a.renderer.DrawSegments(viewProj, debug.BoundsWireframe(m.Bounds(), 0.02), renderer.ColorBounds)
		}
		if e.ShowNet {
			a.renderer.DrawSegments(viewProj, s.Patch.ControlNetLines(), renderer.ColorNet)
			a.drawControlPoints(viewProj, s.Patch.Grid().Points())
		}
	}

	if e.ShowsCurve() {
		a.renderer.DrawLineStrip(viewProj, s.Curve.Points(), renderer.ColorCurve)
		if e.ShowNet {
			a.renderer.DrawSegments(viewProj, s.Curve.ControlPolygon(), renderer.ColorNet)
			a.drawControlPoints(viewProj, s.Curve.P[:])
		}
	}

	a.renderer.DrawPoints(viewProj, []math.Vec3{s.Light.Position}, renderer.ColorLight, 12*a.pixelScale)

	if h, ok := e.Picker.Picked(); ok {
		a.renderer.DrawPoints(viewProj, []math.Vec3{h.Position()}, renderer.ColorPicked, (pointSize+3)*a.pixelScale)
	}
	return nil
}

func (a *App) drawControlPoints(viewProj math.Mat4, points []math.Vec3) {
	a.renderer.DrawPoints(viewProj, points, renderer.ColorPoint, pointSize*a.pixelScale)
}

func (a *App) screenshot() {
	pixels, w, h := a.renderer.ReadPixels()
	path, err := a.shots.CaptureFromPixels(pixels, w, h)
	if err != nil {
		logger.Error("screenshot failed", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("path", path))
}
