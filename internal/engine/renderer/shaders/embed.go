// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// PatchVertexShader transforms tessellated patch vertices.
//
//go:embed patch.vert
var PatchVertexShader string

// PatchFragmentShader shades the patch with a point light and optional texture.
//
//go:embed patch.frag
var PatchFragmentShader string

// LineVertexShader is shared by curves, control nets and point markers.
//
//go:embed line.vert
var LineVertexShader string

// LineFragmentShader draws a flat color.
//
//go:embed line.frag
var LineFragmentShader string
