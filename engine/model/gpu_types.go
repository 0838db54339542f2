package model

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// GPUVertex is the GPU-aligned representation of a single mesh vertex.
// Size: 24 bytes.
type GPUVertex struct {
	Position [3]float32 // offset  0: vertex position in model space (12 bytes)
	Normal   [3]float32 // offset 12: unit normal (12 bytes)
}

// Size returns the size of the GPUVertex struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUVertex) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUVertex struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 24-byte buffer ready for GPU upload.
func (g *GPUVertex) Marshal() []byte {
	buf := make([]byte, 24)
	putFloats(buf, g.Position[:])
	putFloats(buf[12:], g.Normal[:])
	return buf
}

// GPUVertexSource is the WGSL MeshVertex input struct matching GPUVertex.
//
//go:embed assets/mesh_vertex.wgsl
var GPUVertexSource string

// MeshVertexLayout describes GPUVertex as vertex buffer slot 0.
//
// Returns:
//   - wgpu.VertexBufferLayout: the layout with position at location 0 and normal at location 1
func MeshVertexLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: 24,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
		},
	}
}

// ComputeBoundingRadius calculates the maximum distance from the origin across all vertices.
//
// Parameters:
//   - vertices: the vertex data to compute the bounding radius from
//
// Returns:
//   - float32: the maximum distance from the origin
func ComputeBoundingRadius(vertices []GPUVertex) float32 {
	var maxDistSq float32
	for _, v := range vertices {
		p := v.Position
		distSq := p[0]*p[0] + p[1]*p[1] + p[2]*p[2]
		if distSq > maxDistSq {
			maxDistSq = distSq
		}
	}
	return float32(math.Sqrt(float64(maxDistSq)))
}

// GPUStar is the per-instance attribute record of one star sprite.
// Size: 36 bytes, tightly packed as required for vertex buffers.
type GPUStar struct {
	Position [3]float32 // offset  0: model-space position (12 bytes)
	Size     float32    // offset 12: base sprite size (4 bytes)
	Color    [3]float32 // offset 16: displayed color (12 bytes)
	Opacity  float32    // offset 28: base opacity (4 bytes)
	Glow     float32    // offset 32: glow intensity in [0, 1] (4 bytes)
}

// GPUStarSize is the byte stride of a packed GPUStar.
const GPUStarSize = 36

// ByteSize returns the size of the GPUStar struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUStar) ByteSize() int {
	return int(unsafe.Sizeof(*g))
}

// MarshalInto writes the star into buf, which must hold at least GPUStarSize bytes.
//
// Parameters:
//   - buf: destination buffer
func (g *GPUStar) MarshalInto(buf []byte) {
	putFloats(buf, g.Position[:])
	binary.LittleEndian.PutUint32(buf[12:], math.Float32bits(g.Size))
	putFloats(buf[16:], g.Color[:])
	binary.LittleEndian.PutUint32(buf[28:], math.Float32bits(g.Opacity))
	binary.LittleEndian.PutUint32(buf[32:], math.Float32bits(g.Glow))
}

// Marshal serializes the GPUStar struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 36-byte buffer ready for GPU upload.
func (g *GPUStar) Marshal() []byte {
	buf := make([]byte, GPUStarSize)
	g.MarshalInto(buf)
	return buf
}

// PackStars writes points [start, end) of src into dst as GPUStar records.
// dst is indexed from the start of the whole buffer, so disjoint ranges may be
// packed concurrently.
//
// Parameters:
//   - dst: destination buffer of at least src.Len() * GPUStarSize bytes
//   - src: the point attributes
//   - start, end: the half-open point range to pack
func PackStars(dst []byte, src PointSource, start, end int) {
	positions := src.Positions()
	sizes := src.Sizes()
	opacities := src.Opacities()
	colors := src.Colors()
	glow := src.Glow()
	for i := start; i < end; i++ {
		s := GPUStar{
			Position: positions[i],
			Size:     sizes[i],
			Color:    colors[i].Array(),
			Opacity:  opacities[i],
			Glow:     glow[i],
		}
		s.MarshalInto(dst[i*GPUStarSize:])
	}
}

// GPUStarSource holds the WGSL StarCorner and StarInstance input structs.
// StarInstance matches GPUStar field for field.
//
//go:embed assets/star_vertex.wgsl
var GPUStarSource string

// QuadCorners are the four sprite corners in [-1, 1], drawn with QuadIndices.
var QuadCorners = [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}

// QuadIndices form two counter-clockwise triangles over QuadCorners.
var QuadIndices = [6]uint32{0, 1, 2, 0, 2, 3}

// QuadVertexData returns QuadCorners packed for the sprite corner buffer.
func QuadVertexData() []byte {
	buf := make([]byte, len(QuadCorners)*8)
	for i, c := range QuadCorners {
		putFloats(buf[i*8:], c[:])
	}
	return buf
}

// QuadIndexData returns QuadIndices packed as little-endian uint32.
func QuadIndexData() []byte {
	buf := make([]byte, len(QuadIndices)*4)
	for i, idx := range QuadIndices {
		binary.LittleEndian.PutUint32(buf[i*4:], idx)
	}
	return buf
}

// StarVertexLayouts describes the sprite corner buffer (slot 0, per vertex)
// and the GPUStar instance buffer (slot 1, per instance).
//
// Returns:
//   - []wgpu.VertexBufferLayout: the two buffer layouts
func StarVertexLayouts() []wgpu.VertexBufferLayout {
	return []wgpu.VertexBufferLayout{
		{
			ArrayStride: 8,
			StepMode:    wgpu.VertexStepModeVertex,
			Attributes: []wgpu.VertexAttribute{
				{Format: wgpu.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
			},
		},
		{
			ArrayStride: GPUStarSize,
			StepMode:    wgpu.VertexStepModeInstance,
			Attributes: []wgpu.VertexAttribute{
				{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 1},
				{Format: wgpu.VertexFormatFloat32, Offset: 12, ShaderLocation: 2},
				{Format: wgpu.VertexFormatFloat32x3, Offset: 16, ShaderLocation: 3},
				{Format: wgpu.VertexFormatFloat32, Offset: 28, ShaderLocation: 4},
				{Format: wgpu.VertexFormatFloat32, Offset: 32, ShaderLocation: 5},
			},
		},
	}
}

// GPUObjectUniformSource is the canonical WGSL definition of the ObjectUniform struct.
// Matches GPUObjectUniform layout exactly (224 bytes).
//
//go:embed assets/object_uniform.wgsl
var GPUObjectUniformSource string

// GPUObjectUniform is the per-object uniform block shared by every pipeline.
// Size: 224 bytes (WGSL uniform aligned).
type GPUObjectUniform struct {
	View   [16]float32 // offset   0: view matrix (mat4x4<f32>)
	Proj   [16]float32 // offset  64: projection matrix (mat4x4<f32>)
	Model  [16]float32 // offset 128: model matrix (mat4x4<f32>)
	Color  [4]float32  // offset 192: tint rgb + opacity (vec4<f32>)
	Params [4]float32  // offset 208: viewport w, viewport h, pulse, rim strength (vec4<f32>)
}

// GPUObjectUniformSize is the byte size of GPUObjectUniform.
const GPUObjectUniformSize = 224

// Size returns the size of the GPUObjectUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (224)
func (g *GPUObjectUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUObjectUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUObjectUniform) Marshal() []byte {
	buf := make([]byte, GPUObjectUniformSize)
	putFloats(buf[0:], g.View[:])
	putFloats(buf[64:], g.Proj[:])
	putFloats(buf[128:], g.Model[:])
	putFloats(buf[192:], g.Color[:])
	putFloats(buf[208:], g.Params[:])
	return buf
}

// NewObjectUniform fills a GPUObjectUniform from matrices and per-object parameters.
func NewObjectUniform(view, proj, mdl mgl32.Mat4, color [4]float32, params [4]float32) GPUObjectUniform {
	return GPUObjectUniform{
		View:   view,
		Proj:   proj,
		Model:  mdl,
		Color:  color,
		Params: params,
	}
}

func putFloats(buf []byte, values []float32) {
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
}
