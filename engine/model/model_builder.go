package model

// ModelBuilderOption is a functional option for configuring a Model via NewModel.
type ModelBuilderOption func(*model)

// WithName is an option builder that sets the name of the Model.
//
// Parameters:
//   - name: the model identifier
//
// Returns:
//   - ModelBuilderOption: a function that applies the name option to a model
func WithName(name string) ModelBuilderOption {
	return func(m *model) {
		m.name = name
	}
}

// WithMesh is an option builder that makes the Model an indexed triangle mesh.
//
// Parameters:
//   - vertices: the mesh vertices
//   - indices: the triangle indices into vertices
//
// Returns:
//   - ModelBuilderOption: a function that applies the mesh option to a model
func WithMesh(vertices []GPUVertex, indices []uint32) ModelBuilderOption {
	return func(m *model) {
		m.kind = KindMesh
		m.vertices = vertices
		m.indices = indices
		m.points = nil
	}
}

// WithPoints is an option builder that makes the Model a point cloud.
//
// Parameters:
//   - src: the point attribute source
//
// Returns:
//   - ModelBuilderOption: a function that applies the points option to a model
func WithPoints(src PointSource) ModelBuilderOption {
	return func(m *model) {
		m.kind = KindPoints
		m.points = src
		m.vertices = nil
		m.indices = nil
	}
}

// WithBoundingRadius is an option builder that manually sets the bounding sphere radius,
// overriding the value computed from the geometry.
//
// Parameters:
//   - radius: the bounding radius to set
//
// Returns:
//   - ModelBuilderOption: a function that applies the bounding radius option to a model
func WithBoundingRadius(radius float32) ModelBuilderOption {
	return func(m *model) {
		m.boundingRadius = radius
	}
}
