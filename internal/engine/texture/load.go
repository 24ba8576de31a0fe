package texture

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
)

// Load reads an image file and returns it as tightly packed RGBA, flipped so
// that row 0 is the bottom of the image as OpenGL expects.
func Load(path string) (*image.RGBA, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading texture: %w", err)
	}
	img, err := Decode(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	rgba := ToRGBA(img)
	FlipVertical(rgba)
	return rgba, nil
}

// Decode decodes image data using the format implied by ext (".tga", ".bmp",
// ".png", ".jpg" or ".jpeg", case-insensitive).
func Decode(data []byte, ext string) (image.Image, error) {
	switch strings.ToLower(ext) {
	case ".tga":
		return DecodeTGA(data)
	case ".bmp":
		return bmp.Decode(bytes.NewReader(data))
	case ".png":
		return png.Decode(bytes.NewReader(data))
	case ".jpg", ".jpeg":
		return jpeg.Decode(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("unsupported image format %q", ext)
	}
}

// ToRGBA converts any image to *image.RGBA with its origin at (0, 0).
func ToRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	if rgba, ok := img.(*image.RGBA); ok && b.Min == (image.Point{}) && rgba.Stride == 4*b.Dx() {
		return rgba
	}
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}

// FlipVertical reverses the row order of img in place.
func FlipVertical(img *image.RGBA) {
	h := img.Bounds().Dy()
	row := make([]byte, img.Stride)
	for y := range h / 2 {
		top := img.Pix[y*img.Stride : (y+1)*img.Stride]
		bottom := img.Pix[(h-1-y)*img.Stride : (h-y)*img.Stride]
		copy(row, top)
		copy(top, bottom)
		copy(bottom, row)
	}
}

// Default colors of the fallback checkerboard.
var (
	CheckerLight = [4]uint8{230, 230, 230, 255}
	CheckerDark  = [4]uint8{90, 110, 160, 255}
)

// LoadOrCheckerboard loads path, or returns an 8x8 checkerboard when path is
// empty or cannot be loaded. A failed load is still reported through err.
func LoadOrCheckerboard(path string) (*image.RGBA, error) {
	if path == "" {
		return Checkerboard(8, 32, CheckerLight, CheckerDark), nil
	}
	img, err := Load(path)
	if err != nil {
		return Checkerboard(8, 32, CheckerLight, CheckerDark), err
	}
	return img, nil
}

// Checkerboard generates an n x n board of cells pixels each.
func Checkerboard(n, cells int, a, b [4]uint8) *image.RGBA {
	size := n * cells
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := range size {
		for x := range size {
			c := a
			if (x/cells+y/cells)%2 == 1 {
				c = b
			}
			copy(img.Pix[img.PixOffset(x, y):], c[:])
		}
	}
	return img
}
