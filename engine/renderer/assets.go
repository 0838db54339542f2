package renderer

import _ "embed"

// StarShaderSource draws the point cloud as pixel-sized, camera-facing sprites.
//
//go:embed assets/star.wgsl
var StarShaderSource string

// SphereShaderSource draws a sphere mesh as a flat fill or a pulsing rim halo.
//
//go:embed assets/sphere.wgsl
var SphereShaderSource string
