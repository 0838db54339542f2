package renderer

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/Carmen-Shannon/oxy-starfield/common"
	"github.com/Carmen-Shannon/oxy-starfield/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-starfield/engine/renderer/pipeline"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeSurface struct{ w, h int }

func (f fakeSurface) SurfaceDescriptor() *wgpu.SurfaceDescriptor { return nil }
func (f fakeSurface) Width() int                                 { return f.w }
func (f fakeSurface) Height() int                                { return f.h }

// fakeBackend records the calls a renderer forwards.
type fakeBackend struct {
	configured  [][2]int
	presentMode PresentMode
	registered  []string
	writes      int
	draws       []string
	frames      int
	released    bool
	beginErr    error
}

func (f *fakeBackend) ConfigureSurface(width, height int) error {
	f.configured = append(f.configured, [2]int{width, height})
	return nil
}
func (f *fakeBackend) SetPresentMode(mode PresentMode) { f.presentMode = mode }
func (f *fakeBackend) RegisterRenderPipeline(p pipeline.Pipeline) error {
	f.registered = append(f.registered, p.PipelineKey())
	return nil
}
func (f *fakeBackend) InitMeshBuffers(bind_group_provider.BindGroupProvider, []byte, []byte, int) error {
	return nil
}
func (f *fakeBackend) InitInstanceBuffer(bind_group_provider.BindGroupProvider, uint64) error {
	return nil
}
func (f *fakeBackend) InitBindGroup(bind_group_provider.BindGroupProvider, pipeline.Pipeline, int) error {
	return nil
}
func (f *fakeBackend) WriteBuffers(writes []bind_group_provider.BufferWrite) { f.writes += len(writes) }
func (f *fakeBackend) BeginFrame(common.Color) error                         { return f.beginErr }
func (f *fakeBackend) DrawCall(p pipeline.Pipeline, _ bind_group_provider.BindGroupProvider, _ int) {
	f.draws = append(f.draws, p.PipelineKey())
}
func (f *fakeBackend) EndFrame() { f.frames++ }
func (f *fakeBackend) Present()  {}
func (f *fakeBackend) Release()  { f.released = true }

func TestNewRenderer_ConfiguresBackend(t *testing.T) {
	backend := &fakeBackend{}
	r, err := NewRenderer(fakeSurface{w: 800, h: 600},
		WithBackend(backend),
		WithPresentMode(PresentModeUncapped),
	)
	require.NoError(t, err)

	assert.Equal(t, PresentModeUncapped, backend.presentMode)
	assert.Equal(t, [][2]int{{800, 600}}, backend.configured)

	require.NoError(t, r.Resize(1024, 768))
	assert.Equal(t, [2]int{1024, 768}, backend.configured[1])

	r.Release()
	assert.True(t, backend.released)
}

func TestNewRenderer_ForceSoftwareRenderer(t *testing.T) {
	r, err := NewRenderer(fakeSurface{w: 8, h: 8}, WithBackend(&fakeBackend{}), WithForceSoftwareRenderer(true))
	require.NoError(t, err)
	assert.True(t, r.(*renderer).forceFallbackAdapter)
}

func TestRenderer_RegisterPipelinesSkipsDuplicates(t *testing.T) {
	backend := &fakeBackend{}
	r, err := NewRenderer(fakeSurface{w: 1, h: 1}, WithBackend(backend))
	require.NoError(t, err)

	a := pipeline.NewPipeline("a")
	require.NoError(t, r.RegisterPipelines(a, pipeline.NewPipeline("b")))
	require.NoError(t, r.RegisterPipelines(pipeline.NewPipeline("a")))

	assert.Equal(t, []string{"a", "b"}, backend.registered)
	assert.Same(t, a, r.Pipeline("a"))
	assert.Len(t, r.Pipelines(), 2)
	assert.Nil(t, r.Pipeline("missing"))
}

func TestRenderer_UnknownPipelineErrors(t *testing.T) {
	r, err := NewRenderer(fakeSurface{w: 1, h: 1}, WithBackend(&fakeBackend{}))
	require.NoError(t, err)

	p := bind_group_provider.NewBindGroupProvider("p")
	assert.Error(t, r.DrawCall("missing", p, 0))
	assert.Error(t, r.InitBindGroup(p, "missing", 0))
}

func TestParseMSAA(t *testing.T) {
	assert.Equal(t, MSAAOff, ParseMSAA(1))
	assert.Equal(t, MSAA4x, ParseMSAA(4))
	assert.Equal(t, MSAA8x, ParseMSAA(8))
	assert.Equal(t, MSAA16x, ParseMSAA(16))
	assert.Equal(t, MSAA4x, ParseMSAA(3))
	assert.Equal(t, MSAA4x, ParseMSAA(0))
}

func TestMergeBindGroupLayouts_CombinesVisibility(t *testing.T) {
	vertex := map[int]wgpu.BindGroupLayoutDescriptor{
		0: {Entries: []wgpu.BindGroupLayoutEntry{
			{Binding: 0, Visibility: wgpu.ShaderStageVertex},
		}},
	}
	fragment := map[int]wgpu.BindGroupLayoutDescriptor{
		0: {Entries: []wgpu.BindGroupLayoutEntry{
			{Binding: 0, Visibility: wgpu.ShaderStageFragment},
			{Binding: 1, Visibility: wgpu.ShaderStageFragment},
		}},
		1: {Entries: []wgpu.BindGroupLayoutEntry{
			{Binding: 0, Visibility: wgpu.ShaderStageFragment},
		}},
	}

	merged := mergeBindGroupLayouts(vertex, fragment)
	require.Len(t, merged, 2)

	g0 := merged[0].Entries
	require.Len(t, g0, 2)
	assert.Equal(t, uint32(0), g0[0].Binding)
	assert.Equal(t, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment, g0[0].Visibility)
	assert.Equal(t, uint32(1), g0[1].Binding)
	assert.Equal(t, wgpu.ShaderStageFragment, merged[1].Entries[0].Visibility)
}
