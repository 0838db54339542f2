package model

import (
	"math"
)

// UVSphere generates a latitude/longitude sphere centered at the origin.
// Vertex rows run from the north pole (+Y) to the south pole; each row has
// widthSegments+1 vertices so the seam is duplicated. Degenerate pole
// triangles are skipped. Triangles wind counter-clockwise seen from outside.
//
// Parameters:
//   - radius: sphere radius
//   - widthSegments: number of longitudinal segments (minimum 3)
//   - heightSegments: number of latitudinal segments (minimum 2)
//
// Returns:
//   - []GPUVertex: the vertices with outward normals
//   - []uint32: the triangle indices
func UVSphere(radius float32, widthSegments, heightSegments int) ([]GPUVertex, []uint32) {
	widthSegments = max(widthSegments, 3)
	heightSegments = max(heightSegments, 2)

	vertices := make([]GPUVertex, 0, (widthSegments+1)*(heightSegments+1))
	grid := make([][]uint32, heightSegments+1)

	for iy := 0; iy <= heightSegments; iy++ {
		v := float64(iy) / float64(heightSegments)
		theta := v * math.Pi
		row := make([]uint32, widthSegments+1)
		for ix := 0; ix <= widthSegments; ix++ {
			u := float64(ix) / float64(widthSegments)
			phi := u * 2 * math.Pi

			nx := -math.Cos(phi) * math.Sin(theta)
			ny := math.Cos(theta)
			nz := math.Sin(phi) * math.Sin(theta)

			row[ix] = uint32(len(vertices))
			vertices = append(vertices, GPUVertex{
				Position: [3]float32{radius * float32(nx), radius * float32(ny), radius * float32(nz)},
				Normal:   [3]float32{float32(nx), float32(ny), float32(nz)},
			})
		}
		grid[iy] = row
	}

	indices := make([]uint32, 0, widthSegments*heightSegments*6)
	for iy := 0; iy < heightSegments; iy++ {
		for ix := 0; ix < widthSegments; ix++ {
			a := grid[iy][ix+1]
			b := grid[iy][ix]
			c := grid[iy+1][ix]
			d := grid[iy+1][ix+1]
			if iy != 0 {
				indices = append(indices, a, b, d)
			}
			if iy != heightSegments-1 {
				indices = append(indices, b, c, d)
			}
		}
	}
	return vertices, indices
}

// NewSphereModel builds a mesh Model from UVSphere.
//
// Parameters:
//   - name: the model identifier
//   - radius: sphere radius
//   - segments: used for both width and height segments
//
// Returns:
//   - Model: the sphere model
func NewSphereModel(name string, radius float32, segments int) Model {
	vertices, indices := UVSphere(radius, segments, segments)
	return NewModel(
		WithName(name),
		WithMesh(vertices, indices),
		WithBoundingRadius(radius),
	)
}
