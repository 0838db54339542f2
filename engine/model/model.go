package model

import (
	"github.com/Carmen-Shannon/oxy-starfield/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Kind identifies how a model is drawn.
type Kind int

const (
	// KindMesh is an indexed triangle mesh.
	KindMesh Kind = iota

	// KindPoints is a point cloud drawn as camera-facing sprites.
	KindPoints
)

// String returns the kind name for logging.
func (k Kind) String() string {
	switch k {
	case KindMesh:
		return "mesh"
	case KindPoints:
		return "points"
	default:
		return "unknown"
	}
}

// PointSource supplies the per-point attribute buffers of a point cloud.
// All slices have length Len. Colors and Glow change together and are
// versioned by Revision so sinks can skip unchanged uploads.
type PointSource interface {
	// Len returns the number of points.
	//
	// Returns:
	//   - int: the point count
	Len() int

	// Positions returns the model-space position of each point.
	//
	// Returns:
	//   - []mgl32.Vec3: the positions
	Positions() []mgl32.Vec3

	// Sizes returns the base sprite size of each point.
	//
	// Returns:
	//   - []float32: the sizes
	Sizes() []float32

	// Opacities returns the base opacity of each point.
	//
	// Returns:
	//   - []float32: the opacities
	Opacities() []float32

	// Colors returns the displayed color of each point.
	//
	// Returns:
	//   - []common.Color: the colors
	Colors() []common.Color

	// Glow returns the glow intensity of each point in [0, 1].
	//
	// Returns:
	//   - []float32: the glow intensities
	Glow() []float32

	// Revision returns a counter that increases whenever Colors or Glow are rewritten.
	//
	// Returns:
	//   - uint64: the revision
	Revision() uint64
}

// model is the implementation of the Model interface.
type model struct {
	name           string
	kind           Kind
	vertices       []GPUVertex
	indices        []uint32
	points         PointSource
	boundingRadius float32
}

// Model defines the interface for drawable geometry: either an indexed mesh
// or a point cloud backed by a PointSource.
type Model interface {
	// Name retrieves the model identifier.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// Kind reports whether the model is a mesh or a point cloud.
	//
	// Returns:
	//   - Kind: the model kind
	Kind() Kind

	// Vertices returns the mesh vertices, or nil for point clouds.
	//
	// Returns:
	//   - []GPUVertex: the vertices
	Vertices() []GPUVertex

	// Indices returns the triangle indices, or nil for point clouds.
	//
	// Returns:
	//   - []uint32: the indices
	Indices() []uint32

	// VertexData returns the packed vertex bytes ready for GPU upload.
	//
	// Returns:
	//   - []byte: the vertex data
	VertexData() []byte

	// IndexData returns the packed index bytes ready for GPU upload.
	//
	// Returns:
	//   - []byte: the index data
	IndexData() []byte

	// IndexCount returns the number of indices in the mesh.
	//
	// Returns:
	//   - int: the index count
	IndexCount() int

	// Points returns the point source, or nil for meshes.
	//
	// Returns:
	//   - PointSource: the point attributes
	Points() PointSource

	// BoundingRadius returns the bounding sphere radius around the model origin.
	//
	// Returns:
	//   - float32: the bounding radius
	BoundingRadius() float32
}

var _ Model = &model{}

// NewModel creates a new Model instance with the specified options applied.
// The bounding radius is computed from the geometry unless WithBoundingRadius was given.
//
// Parameters:
//   - options: a variadic list of ModelBuilderOption functions to configure the Model
//
// Returns:
//   - Model: a new instance of Model configured with the provided options
func NewModel(options ...ModelBuilderOption) Model {
	m := &model{}
	for _, opt := range options {
		opt(m)
	}
	if m.boundingRadius == 0 {
		switch m.kind {
		case KindMesh:
			m.boundingRadius = ComputeBoundingRadius(m.vertices)
		case KindPoints:
			if m.points != nil {
				m.boundingRadius = pointsBoundingRadius(m.points.Positions())
			}
		}
	}
	return m
}

func (m *model) Name() string {
	return m.name
}

func (m *model) Kind() Kind {
	return m.kind
}

func (m *model) Vertices() []GPUVertex {
	return m.vertices
}

func (m *model) Indices() []uint32 {
	return m.indices
}

func (m *model) VertexData() []byte {
	return common.SliceToBytes(m.vertices)
}

func (m *model) IndexData() []byte {
	return common.SliceToBytes(m.indices)
}

func (m *model) IndexCount() int {
	return len(m.indices)
}

func (m *model) Points() PointSource {
	return m.points
}

func (m *model) BoundingRadius() float32 {
	return m.boundingRadius
}

func pointsBoundingRadius(positions []mgl32.Vec3) float32 {
	var maxLen float32
	for _, p := range positions {
		if l := p.Len(); l > maxLen {
			maxLen = l
		}
	}
	return maxLen
}
