// Package debug provides screenshot capture and debug overlays.
package debug

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"
)

// ScreenshotCapture writes framebuffer contents to timestamped PNG files.
type ScreenshotCapture struct {
	outputDir string
	prefix    string
	now       func() time.Time
}

// NewScreenshotCapture creates a new screenshot capture handler.
func NewScreenshotCapture(outputDir, prefix string) *ScreenshotCapture {
	return &ScreenshotCapture{
		outputDir: outputDir,
		prefix:    prefix,
		now:       time.Now,
	}
}

// GenerateFilename returns the path the next capture will be written to.
func (sc *ScreenshotCapture) GenerateFilename() string {
	name := fmt.Sprintf("%s_%s.png", sc.prefix, sc.now().Format("2006-01-02_15-04-05.000"))
	return filepath.Join(sc.outputDir, name)
}

// CaptureFromPixels saves RGBA pixels read back from OpenGL (origin at the
// bottom-left) as a top-down PNG and returns its path.
func (sc *ScreenshotCapture) CaptureFromPixels(pixels []byte, width, height int) (string, error) {
	rowSize := width * 4
	if len(pixels) != rowSize*height {
		return "", fmt.Errorf("pixel data size mismatch: expected %d, got %d", rowSize*height, len(pixels))
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := range height {
		src := pixels[(height-1-y)*rowSize:]
		copy(img.Pix[y*img.Stride:y*img.Stride+rowSize], src[:rowSize])
	}
	return sc.CaptureFromImage(img)
}

// CaptureFromImage saves img as a PNG and returns its path.
func (sc *ScreenshotCapture) CaptureFromImage(img image.Image) (string, error) {
	if sc.outputDir != "" {
		if err := os.MkdirAll(sc.outputDir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	filename := sc.GenerateFilename()
	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return "", fmt.Errorf("encoding PNG: %w", err)
	}
	return filename, nil
}
