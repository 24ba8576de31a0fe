// Package renderer draws tessellated patches, curves and control nets with OpenGL.
package renderer

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/patchlab/internal/engine/lighting"
	"github.com/Faultbox/patchlab/internal/engine/renderer/shaders"
	"github.com/Faultbox/patchlab/internal/engine/shader"
	"github.com/Faultbox/patchlab/internal/logger"
	"github.com/Faultbox/patchlab/pkg/math"
	"github.com/Faultbox/patchlab/pkg/tessellate"
)

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
}

// Colors used for the editor overlays.
var (
	ColorCurve      = [3]float32{0.95, 0.85, 0.2}
	ColorNet        = [3]float32{0.35, 0.6, 0.95}
	ColorPoint      = [3]float32{0.95, 0.95, 0.95}
	ColorPicked     = [3]float32{1, 0.3, 0.3}
	ColorLight      = [3]float32{1, 0.1, 0.1}
	ColorBounds     = [3]float32{0.4, 0.9, 0.4}
	ColorPatchPlain = [3]float32{0.7, 0.7, 0.75}
)

// Renderer handles all OpenGL rendering.
type Renderer struct {
	config Config

	patchProgram *shader.Program
	lineProgram  *shader.Program

	// Patch mesh, rebuilt by UploadMesh
	meshVAO      uint32
	meshVBO      uint32
	meshVertices int32

	// Scratch buffer for lines and points, refilled per draw
	lineVAO uint32
	lineVBO uint32

	texture uint32
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config: cfg,
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	gl.Enable(gl.MULTISAMPLE)
	gl.Enable(gl.PROGRAM_POINT_SIZE)
	gl.ClearColor(0.1, 0.1, 0.15, 1.0)

	var err error
	r.patchProgram, err = shader.NewProgram(shaders.PatchVertexShader, shaders.PatchFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("patch shader: %w", err)
	}
	r.lineProgram, err = shader.NewProgram(shaders.LineVertexShader, shaders.LineFragmentShader)
	if err != nil {
		r.patchProgram.Delete()
		return nil, fmt.Errorf("line shader: %w", err)
	}

	r.createMeshBuffers()
	r.createLineBuffers()
	r.Resize(cfg.Width, cfg.Height)

	return r, nil
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	logger.Info("closing renderer")
	if r.meshVAO != 0 {
		gl.DeleteVertexArrays(1, &r.meshVAO)
	}
	if r.meshVBO != 0 {
		gl.DeleteBuffers(1, &r.meshVBO)
	}
	if r.lineVAO != 0 {
		gl.DeleteVertexArrays(1, &r.lineVAO)
	}
	if r.lineVBO != 0 {
		gl.DeleteBuffers(1, &r.lineVBO)
	}
	if r.texture != 0 {
		gl.DeleteTextures(1, &r.texture)
	}
	if r.patchProgram != nil {
		r.patchProgram.Delete()
	}
	if r.lineProgram != nil {
		r.lineProgram.Delete()
	}
}

// Resize handles framebuffer resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Begin starts a new frame.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// End finishes the current frame.
func (r *Renderer) End() {
	gl.BindVertexArray(0)
	gl.UseProgram(0)
}

func (r *Renderer) createMeshBuffers() {
	gl.GenVertexArrays(1, &r.meshVAO)
	gl.BindVertexArray(r.meshVAO)
	gl.GenBuffers(1, &r.meshVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.meshVBO)

	stride := int32(tessellate.FloatsPerVertex * 4)
	// Position (location = 0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, nil)
	gl.EnableVertexAttribArray(0)
	// Normal (location = 1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, unsafe.Pointer(uintptr(3*4)))
	gl.EnableVertexAttribArray(1)
	// UV (location = 2)
	gl.VertexAttribPointer(2, 2, gl.FLOAT, false, stride, unsafe.Pointer(uintptr(6*4)))
	gl.EnableVertexAttribArray(2)

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
}

func (r *Renderer) createLineBuffers() {
	gl.GenVertexArrays(1, &r.lineVAO)
	gl.BindVertexArray(r.lineVAO)
	gl.GenBuffers(1, &r.lineVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.lineVBO)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 3*4, nil)
	gl.EnableVertexAttribArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
}

// UploadMesh replaces the patch vertex buffer with m.
func (r *Renderer) UploadMesh(m *tessellate.Mesh) {
	data := m.Interleaved()
	r.meshVertices = int32(m.VertexCount())

	gl.BindBuffer(gl.ARRAY_BUFFER, r.meshVBO)
	if len(data) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.DYNAMIC_DRAW)
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	logger.Debug("patch mesh uploaded",
		zap.Int("resolution", m.Resolution),
		zap.Int32("vertices", r.meshVertices),
	)
}

// SetTexture uploads img as the patch texture. Row 0 must be the bottom row.
func (r *Renderer) SetTexture(img *image.RGBA) {
	if r.texture == 0 {
		gl.GenTextures(1, &r.texture)
	}
	gl.BindTexture(gl.TEXTURE_2D, r.texture)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(img.Bounds().Dx()), int32(img.Bounds().Dy()), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&img.Pix[0]))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

// DrawPatch draws the uploaded mesh lit by light.
func (r *Renderer) DrawPatch(viewProj math.Mat4, eye math.Vec3, light *lighting.PointLight) {
	if r.meshVertices == 0 {
		return
	}
	p := r.patchProgram
	p.Use()
	p.SetMat4("uViewProj", &viewProj)
	p.SetVec3("uEye", eye)
	p.SetVec3("uLightPos", light.Position)
	p.SetColor("uLightColor", light.Color)
	p.SetFloat("uAmbient", light.Ambient)
	p.SetFloat("uDiffuse", light.Diffuse)
	p.SetFloat("uSpecular", light.Specular)
	p.SetFloat("uShininess", light.Shininess)
	p.SetColor("uBaseColor", ColorPatchPlain)

	textured := r.texture != 0
	p.SetBool("uTextured", textured)
	if textured {
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, r.texture)
		p.SetInt("uTexture", 0)
	}

	gl.BindVertexArray(r.meshVAO)
	gl.DrawArrays(gl.TRIANGLES, 0, r.meshVertices)
	gl.BindVertexArray(0)
}

// DrawLineStrip draws a connected polyline.
func (r *Renderer) DrawLineStrip(viewProj math.Mat4, points []math.Vec3, color [3]float32) {
	r.drawPrimitive(gl.LINE_STRIP, viewProj, points, color, 1)
}

// DrawSegments draws independent line segments.
func (r *Renderer) DrawSegments(viewProj math.Mat4, segments [][2]math.Vec3, color [3]float32) {
	points := make([]math.Vec3, 0, 2*len(segments))
	for _, s := range segments {
		points = append(points, s[0], s[1])
	}
	r.drawPrimitive(gl.LINES, viewProj, points, color, 1)
}

// DrawPoints draws square markers of size pixels. Markers are drawn on top
// of the surface so that every control point stays grabbable.
func (r *Renderer) DrawPoints(viewProj math.Mat4, points []math.Vec3, color [3]float32, size float32) {
	gl.Disable(gl.DEPTH_TEST)
	r.drawPrimitive(gl.POINTS, viewProj, points, color, size)
	gl.Enable(gl.DEPTH_TEST)
}

func (r *Renderer) drawPrimitive(mode uint32, viewProj math.Mat4, points []math.Vec3, color [3]float32, size float32) {
	if len(points) == 0 {
		return
	}
	data := make([]float32, 0, 3*len(points))
	for _, p := range points {
		data = append(data, p.X, p.Y, p.Z)
	}

	p := r.lineProgram
	p.Use()
	p.SetMat4("uViewProj", &viewProj)
	p.SetColor("uColor", color)
	p.SetFloat("uPointSize", size)

	gl.BindVertexArray(r.lineVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.lineVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STREAM_DRAW)
	gl.DrawArrays(mode, 0, int32(len(points)))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
}

// ReadPixels reads back the current framebuffer as RGBA rows, bottom row first.
func (r *Renderer) ReadPixels() (pixels []byte, width, height int) {
	width, height = r.config.Width, r.config.Height
	pixels = make([]byte, width*height*4)
	if len(pixels) == 0 {
		return pixels, width, height
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, width, height
}
