package model

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-starfield/common"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePoints struct {
	positions []mgl32.Vec3
	sizes     []float32
	opacities []float32
	colors    []common.Color
	glow      []float32
}

func (f *fakePoints) Len() int                 { return len(f.positions) }
func (f *fakePoints) Positions() []mgl32.Vec3  { return f.positions }
func (f *fakePoints) Sizes() []float32         { return f.sizes }
func (f *fakePoints) Opacities() []float32     { return f.opacities }
func (f *fakePoints) Colors() []common.Color   { return f.colors }
func (f *fakePoints) Glow() []float32          { return f.glow }
func (f *fakePoints) Revision() uint64         { return 1 }

func floatAt(buf []byte, offset int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[offset:]))
}

func TestUVSphere(t *testing.T) {
	vertices, indices := UVSphere(2, 8, 6)

	assert.Len(t, vertices, 9*7)
	// pole rows contribute one triangle per segment, the rest two
	assert.Len(t, indices, (8*6*2-8*2)*3)

	for _, v := range vertices {
		p := mgl32.Vec3(v.Position)
		n := mgl32.Vec3(v.Normal)
		assert.InDelta(t, 2.0, p.Len(), 1e-4)
		assert.InDelta(t, 1.0, n.Len(), 1e-4)
	}
	for _, i := range indices {
		assert.Less(t, int(i), len(vertices))
	}
}

func TestUVSphereClampsSegments(t *testing.T) {
	vertices, indices := UVSphere(1, 0, 0)
	assert.Len(t, vertices, 4*3)
	assert.NotEmpty(t, indices)
}

func TestNewSphereModel(t *testing.T) {
	m := NewSphereModel("sphere", 11.25, 32)

	assert.Equal(t, "sphere", m.Name())
	assert.Equal(t, KindMesh, m.Kind())
	assert.Equal(t, float32(11.25), m.BoundingRadius())
	assert.Equal(t, len(m.Indices()), m.IndexCount())
	assert.Len(t, m.VertexData(), len(m.Vertices())*24)
	assert.Len(t, m.IndexData(), m.IndexCount()*4)
	assert.Nil(t, m.Points())
}

func TestPointModel(t *testing.T) {
	src := &fakePoints{
		positions: []mgl32.Vec3{{3, 4, 0}, {0, 0, 1}},
		sizes:     []float32{0.5, 2},
		opacities: []float32{0.4, 1},
		colors:    []common.Color{{R: 1, G: 0.5, B: 0.25}, {R: 0, G: 0, B: 1}},
		glow:      []float32{0, 0.75},
	}
	m := NewModel(WithName("stars"), WithPoints(src))

	assert.Equal(t, KindPoints, m.Kind())
	assert.Equal(t, float32(5), m.BoundingRadius())
	assert.Zero(t, m.IndexCount())
	assert.Same(t, src, m.Points())

	buf := make([]byte, src.Len()*GPUStarSize)
	PackStars(buf, src, 0, 1)
	PackStars(buf, src, 1, 2)

	assert.Equal(t, float32(3), floatAt(buf, 0))
	assert.Equal(t, float32(0.5), floatAt(buf, 12))
	assert.Equal(t, float32(0.25), floatAt(buf, 24))
	assert.Equal(t, float32(0.4), floatAt(buf, 28))
	assert.Equal(t, float32(2), floatAt(buf, GPUStarSize+12))
	assert.Equal(t, float32(0.75), floatAt(buf, GPUStarSize+32))
}

func TestGPUTypeSizes(t *testing.T) {
	var v GPUVertex
	var s GPUStar
	var u GPUObjectUniform

	assert.Equal(t, 24, v.Size())
	assert.Equal(t, GPUStarSize, s.ByteSize())
	assert.Equal(t, GPUObjectUniformSize, u.Size())

	u = NewObjectUniform(mgl32.Ident4(), mgl32.Ident4(), mgl32.Translate3D(1, 2, 3),
		[4]float32{0.1, 0.2, 0.3, 0.8}, [4]float32{1280, 720, 0.5, 0})
	buf := u.Marshal()
	require.Len(t, buf, GPUObjectUniformSize)
	assert.Equal(t, float32(1), floatAt(buf, 128+12*4))
	assert.Equal(t, float32(0.8), floatAt(buf, 192+12))
	assert.Equal(t, float32(720), floatAt(buf, 208+4))

	layouts := StarVertexLayouts()
	require.Len(t, layouts, 2)
	assert.Equal(t, uint64(GPUStarSize), layouts[1].ArrayStride)
	assert.Equal(t, uint64(24), MeshVertexLayout().ArrayStride)
}
