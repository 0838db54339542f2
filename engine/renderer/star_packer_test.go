package renderer

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"

	"github.com/Carmen-Shannon/oxy-starfield/common"
	"github.com/Carmen-Shannon/oxy-starfield/engine/model"
)

type testPoints struct {
	positions []mgl32.Vec3
	sizes     []float32
	opacities []float32
	colors    []common.Color
	glow      []float32
	revision  uint64
}

func newTestPoints(n int) *testPoints {
	p := &testPoints{
		positions: make([]mgl32.Vec3, n),
		sizes:     make([]float32, n),
		opacities: make([]float32, n),
		colors:    make([]common.Color, n),
		glow:      make([]float32, n),
		revision:  1,
	}
	for i := range n {
		f := float32(i)
		p.positions[i] = mgl32.Vec3{f, -f, f * 0.5}
		p.sizes[i] = 1 + f*0.001
		p.opacities[i] = 0.5
		p.colors[i] = common.Color{R: 1, G: 0.5, B: 0.25}
		if i%10 == 0 {
			p.glow[i] = 1
		}
	}
	return p
}

func (p *testPoints) Len() int                { return len(p.positions) }
func (p *testPoints) Positions() []mgl32.Vec3 { return p.positions }
func (p *testPoints) Sizes() []float32        { return p.sizes }
func (p *testPoints) Opacities() []float32    { return p.opacities }
func (p *testPoints) Colors() []common.Color  { return p.colors }
func (p *testPoints) Glow() []float32         { return p.glow }
func (p *testPoints) Revision() uint64        { return p.revision }

func TestStarPacker_MatchesSequentialPack(t *testing.T) {
	src := newTestPoints(3*minStarsPerTask + 17)

	want := make([]byte, src.Len()*model.GPUStarSize)
	model.PackStars(want, src, 0, src.Len())

	packer := NewStarPacker(4)
	defer packer.Release()
	got := packer.Pack(nil, src)
	assert.Equal(t, want, got)
}

func TestStarPacker_ReusesBuffer(t *testing.T) {
	src := newTestPoints(10)
	packer := NewStarPacker(1)
	defer packer.Release()

	buf := make([]byte, 0, 1024)
	out := packer.Pack(buf, src)
	assert.Len(t, out, 10*model.GPUStarSize)
	assert.Equal(t, 1024, cap(out))
}

func TestStarPacker_Empty(t *testing.T) {
	packer := NewStarPacker(2)
	defer packer.Release()
	assert.Empty(t, packer.Pack(nil, newTestPoints(0)))
}

func TestStarPacker_ReleaseStopsWorkers(t *testing.T) {
	src := newTestPoints(3 * minStarsPerTask)
	want := make([]byte, src.Len()*model.GPUStarSize)
	model.PackStars(want, src, 0, src.Len())

	packer := NewStarPacker(4)
	assert.Equal(t, 4, packer.Workers())

	packer.Release()
	packer.Release()
	assert.Zero(t, packer.Workers())

	// Packing still works inline once the workers are gone.
	assert.Equal(t, want, packer.Pack(nil, src))
}

func TestStarPacker_SingleWorkerPacksInline(t *testing.T) {
	packer := NewStarPacker(1)
	defer packer.Release()
	assert.Zero(t, packer.Workers())
}
