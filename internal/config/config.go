// Package config handles editor configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"github.com/Faultbox/patchlab/pkg/tessellate"
)

// Editor modes.
const (
	ModeCurve = "curve"
	ModePatch = "patch"
	ModeBoth  = "both"
)

// Config holds all editor settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Editor   EditorConfig   `yaml:"editor"`
	Camera   CameraConfig   `yaml:"camera"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
}

// EditorConfig holds what is edited and how it is displayed.
type EditorConfig struct {
	Mode            string  `yaml:"mode"` // curve, patch or both
	CurveResolution int     `yaml:"curve_resolution"`
	PatchResolution int     `yaml:"patch_resolution"`
	PickTolerance   float32 `yaml:"pick_tolerance"` // pixels
	ShowControlNet  bool    `yaml:"show_control_net"`
	SceneFile       string  `yaml:"scene_file"`
	Texture         string  `yaml:"texture"` // optional image applied to the patch
	ScreenshotDir   string  `yaml:"screenshot_dir"`
}

// CameraConfig holds orbit camera settings.
type CameraConfig struct {
	FOVDeg          float32 `yaml:"fov_deg"`
	Distance        float32 `yaml:"distance"`
	Near            float32 `yaml:"near"`
	Far             float32 `yaml:"far"`
	DragSensitivity float32 `yaml:"drag_sensitivity"`
	ZoomSensitivity float32 `yaml:"zoom_sensitivity"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
		},
		Editor: EditorConfig{
			Mode:            ModePatch,
			CurveResolution: 50,
			PatchResolution: 20,
			PickTolerance:   10,
			ShowControlNet:  true,
			SceneFile:       "scene.yaml",
			ScreenshotDir:   "screenshots",
		},
		Camera: CameraConfig{
			FOVDeg:          45,
			Distance:        3,
			Near:            0.1,
			Far:             100,
			DragSensitivity: 0.01,
			ZoomSensitivity: 0.1,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate reports every setting that cannot be used.
func (c *Config) Validate() error {
	var errs []error

	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		errs = append(errs, fmt.Errorf("graphics: window size %dx%d must be positive", c.Graphics.Width, c.Graphics.Height))
	}

	switch c.Editor.Mode {
	case ModeCurve, ModePatch, ModeBoth:
	default:
		errs = append(errs, fmt.Errorf("editor: unknown mode %q", c.Editor.Mode))
	}
	if c.Editor.CurveResolution < 1 {
		errs = append(errs, fmt.Errorf("editor: curve_resolution %d must be at least 1", c.Editor.CurveResolution))
	}
	if c.Editor.PatchResolution < 1 || c.Editor.PatchResolution > tessellate.MaxResolution {
		errs = append(errs, fmt.Errorf("editor: patch_resolution %d out of range [1, %d]", c.Editor.PatchResolution, tessellate.MaxResolution))
	}
	if c.Editor.PickTolerance <= 0 {
		errs = append(errs, fmt.Errorf("editor: pick_tolerance %g must be positive", c.Editor.PickTolerance))
	}

	if c.Camera.FOVDeg <= 0 || c.Camera.FOVDeg >= 180 {
		errs = append(errs, fmt.Errorf("camera: fov_deg %g out of range (0, 180)", c.Camera.FOVDeg))
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		errs = append(errs, fmt.Errorf("camera: need 0 < near < far, got near=%g far=%g", c.Camera.Near, c.Camera.Far))
	}
	if c.Camera.Distance <= 0 {
		errs = append(errs, fmt.Errorf("camera: distance %g must be positive", c.Camera.Distance))
	}

	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("logging: unknown level %q", c.Logging.Level))
	}

	return errors.Join(errs...)
}
