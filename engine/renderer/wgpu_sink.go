package renderer

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-starfield/engine/game_object"
	"github.com/Carmen-Shannon/oxy-starfield/engine/model"
	"github.com/Carmen-Shannon/oxy-starfield/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-starfield/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-starfield/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-starfield/engine/scene"
	"github.com/cogentcore/webgpu/wgpu"
	"go.uber.org/zap"
)

// Pipeline keys registered by the WebGPU sink.
const (
	PipelineKeyStars  = "stars"
	PipelineKeySphere = "sphere"
	PipelineKeyGlow   = "glow"
)

// colorWriteMaskRGB leaves destination alpha untouched for additive passes.
const colorWriteMaskRGB = wgpu.ColorWriteMaskRed | wgpu.ColorWriteMaskGreen | wgpu.ColorWriteMaskBlue

// drawable is the GPU state of one scene object.
type drawable struct {
	provider    bind_group_provider.BindGroupProvider
	pipelineKey string
	group       int
	binding     int

	points       model.PointSource
	revision     uint64
	packed       []byte
	instanceSize uint64
}

type wgpuSink struct {
	mu *sync.Mutex

	r      Renderer
	packer *StarPacker
	logger *zap.Logger

	width, height int

	drawables map[uint64]*drawable
	seen      map[uint64]bool
	order     []*drawable
	writes    []bind_group_provider.BufferWrite
}

var _ Sink = &wgpuSink{}

// WGPUSinkBuilderOption configures the WebGPU sink.
type WGPUSinkBuilderOption func(*wgpuSink)

// WithStarPacker sets the packer used to serialize point clouds. The sink
// takes ownership and releases the packer with itself.
//
// Parameters:
//   - packer: the star packer
//
// Returns:
//   - WGPUSinkBuilderOption: option function to apply
func WithStarPacker(packer *StarPacker) WGPUSinkBuilderOption {
	return func(s *wgpuSink) {
		s.packer = packer
	}
}

// WithSinkLogger sets the logger for resource lifecycle messages.
//
// Parameters:
//   - logger: the parent logger
//
// Returns:
//   - WGPUSinkBuilderOption: option function to apply
func WithSinkLogger(logger *zap.Logger) WGPUSinkBuilderOption {
	return func(s *wgpuSink) {
		s.logger = logger.Named("wgpu-sink")
	}
}

// StarfieldPipelines builds the three pipelines the WebGPU sink draws with:
// additive star sprites without depth, an alpha-blended back-culled sphere fill
// and an additive depth-tested sphere halo that does not write depth.
//
// Returns:
//   - []pipeline.Pipeline: the stars, sphere and glow pipelines
//   - error: a shader parse error
func StarfieldPipelines() ([]pipeline.Pipeline, error) {
	starVS, err := shader.NewShader("star_vs", shader.ShaderTypeVertex, StarShaderSource)
	if err != nil {
		return nil, err
	}
	starFS, err := shader.NewShader("star_fs", shader.ShaderTypeFragment, StarShaderSource)
	if err != nil {
		return nil, err
	}
	sphereVS, err := shader.NewShader("sphere_vs", shader.ShaderTypeVertex, SphereShaderSource)
	if err != nil {
		return nil, err
	}
	sphereFS, err := shader.NewShader("sphere_fs", shader.ShaderTypeFragment, SphereShaderSource)
	if err != nil {
		return nil, err
	}

	return []pipeline.Pipeline{
		pipeline.NewPipeline(PipelineKeyStars,
			pipeline.WithVertexShader(starVS),
			pipeline.WithFragmentShader(starFS),
			pipeline.WithTopology(wgpu.PrimitiveTopologyTriangleList),
			pipeline.WithAdditiveBlend(),
			pipeline.WithWriteMask(colorWriteMaskRGB),
			pipeline.WithDepthTestEnabled(false),
			pipeline.WithDepthWriteEnabled(false),
		),
		pipeline.NewPipeline(PipelineKeySphere,
			pipeline.WithVertexShader(sphereVS),
			pipeline.WithFragmentShader(sphereFS),
			pipeline.WithBlendEnabled(true),
			pipeline.WithBlendState(pipeline.AlphaBlend()),
			pipeline.WithFrontFace(wgpu.FrontFaceCCW),
			pipeline.WithCullMode(wgpu.CullModeBack),
		),
		pipeline.NewPipeline(PipelineKeyGlow,
			pipeline.WithVertexShader(sphereVS),
			pipeline.WithFragmentShader(sphereFS),
			pipeline.WithAdditiveBlend(),
			pipeline.WithWriteMask(colorWriteMaskRGB),
			pipeline.WithDepthWriteEnabled(false),
			pipeline.WithFrontFace(wgpu.FrontFaceCCW),
			pipeline.WithCullMode(wgpu.CullModeBack),
		),
	}, nil
}

// NewWGPUSink registers the starfield pipelines on r and returns a sink drawing through it.
//
// Parameters:
//   - r: the renderer to draw with
//   - width, height: the initial framebuffer size in pixels
//   - options: functional options
//
// Returns:
//   - Sink: the WebGPU sink
//   - error: an error if the pipelines cannot be built or registered
func NewWGPUSink(r Renderer, width, height int, options ...WGPUSinkBuilderOption) (Sink, error) {
	s := &wgpuSink{
		mu:        &sync.Mutex{},
		r:         r,
		logger:    zap.NewNop(),
		width:     width,
		height:    height,
		drawables: make(map[uint64]*drawable),
		seen:      make(map[uint64]bool),
	}
	for _, opt := range options {
		opt(s)
	}
	if s.packer == nil {
		s.packer = NewStarPacker(0)
	}

	pipelines, err := StarfieldPipelines()
	if err != nil {
		s.packer.Release()
		return nil, err
	}
	if err := r.RegisterPipelines(pipelines...); err != nil {
		s.packer.Release()
		return nil, err
	}
	return s, nil
}

// pipelineFor picks the pipeline an object is drawn with.
func pipelineFor(obj game_object.GameObject) string {
	switch {
	case obj.Model().Kind() == model.KindPoints:
		return PipelineKeyStars
	case obj.Blend() == game_object.BlendAdditive:
		return PipelineKeyGlow
	default:
		return PipelineKeySphere
	}
}

func (s *wgpuSink) Render(sc scene.Scene) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.width <= 0 || s.height <= 0 {
		return nil
	}

	cam := sc.Camera()
	view := cam.ViewMatrix()
	proj := cam.ProjectionMatrix()
	pulse := sc.Pulse()

	clear(s.seen)
	s.order = s.order[:0]
	s.writes = s.writes[:0]

	for _, obj := range sc.Objects() {
		if obj.Model() == nil {
			continue
		}
		d, err := s.drawableFor(obj)
		if err != nil {
			return err
		}
		s.seen[obj.ID()] = true

		if d.points != nil {
			if err := s.stagePoints(d); err != nil {
				return err
			}
			if d.provider.InstanceCount() == 0 {
				continue
			}
		}

		tint := obj.Tint()
		objPulse := float32(0)
		if obj.PulseOpacity() {
			objPulse = pulse
		}
		u := model.NewObjectUniform(view, proj, obj.ModelMatrix(),
			[4]float32{tint.R, tint.G, tint.B, obj.Opacity()},
			[4]float32{float32(s.width), float32(s.height), objPulse, obj.RimStrength()},
		)
		s.writes = append(s.writes, bind_group_provider.BufferWrite{
			Provider: d.provider,
			Target:   bind_group_provider.TargetBinding,
			Binding:  d.binding,
			Data:     u.Marshal(),
		})
		s.order = append(s.order, d)
	}

	for id, d := range s.drawables {
		if !s.seen[id] {
			d.provider.Release()
			delete(s.drawables, id)
		}
	}

	s.r.WriteBuffers(s.writes)
	if err := s.r.BeginFrame(sc.ClearColor()); err != nil {
		return err
	}
	for _, d := range s.order {
		if err := s.r.DrawCall(d.pipelineKey, d.provider, d.group); err != nil {
			s.r.EndFrame()
			return err
		}
	}
	s.r.EndFrame()
	s.r.Present()
	return nil
}

// drawableFor returns the cached GPU state for obj, creating it on first use.
func (s *wgpuSink) drawableFor(obj game_object.GameObject) (*drawable, error) {
	if d, ok := s.drawables[obj.ID()]; ok {
		return d, nil
	}

	key := pipelineFor(obj)
	p := s.r.Pipeline(key)
	if p == nil {
		return nil, fmt.Errorf("pipeline with key %s not found", key)
	}
	group, binding, ok := p.Shader(shader.ShaderTypeVertex).ObjectUniformBinding()
	if !ok {
		return nil, fmt.Errorf("pipeline %s declares no object uniform", key)
	}

	mdl := obj.Model()
	d := &drawable{
		provider:    bind_group_provider.NewBindGroupProvider(fmt.Sprintf("%s_%d", obj.Name(), obj.ID())),
		pipelineKey: key,
		group:       group,
		binding:     binding,
	}

	var err error
	if mdl.Kind() == model.KindPoints {
		d.points = mdl.Points()
		err = s.r.InitMeshBuffers(d.provider, model.QuadVertexData(), model.QuadIndexData(), len(model.QuadIndices))
	} else {
		err = s.r.InitMeshBuffers(d.provider, mdl.VertexData(), mdl.IndexData(), mdl.IndexCount())
	}
	if err == nil {
		err = s.r.InitBindGroup(d.provider, key, group)
	}
	if err != nil {
		d.provider.Release()
		return nil, fmt.Errorf("failed to create GPU resources for %s: %w", obj.Name(), err)
	}

	s.logger.Debug("created drawable",
		zap.String("object", obj.Name()),
		zap.String("pipeline", key))
	s.drawables[obj.ID()] = d
	return d, nil
}

// stagePoints repacks a point cloud when its revision or size changed and
// queues the instance upload.
func (s *wgpuSink) stagePoints(d *drawable) error {
	n := d.points.Len()
	rev := d.points.Revision()
	if d.packed != nil && rev == d.revision && len(d.packed) == n*model.GPUStarSize {
		return nil
	}
	d.revision = rev
	d.provider.SetInstanceCount(n)
	if n == 0 {
		d.packed = d.packed[:0]
		return nil
	}

	size := uint64(n * model.GPUStarSize)
	if size > d.instanceSize {
		if err := s.r.InitInstanceBuffer(d.provider, size); err != nil {
			return err
		}
		d.instanceSize = size
	}

	d.packed = s.packer.Pack(d.packed, d.points)
	s.writes = append(s.writes, bind_group_provider.BufferWrite{
		Provider: d.provider,
		Target:   bind_group_provider.TargetInstance,
		Data:     d.packed,
	})
	return nil
}

func (s *wgpuSink) Resize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.width, s.height = width, height
	if width <= 0 || height <= 0 {
		return
	}
	if err := s.r.Resize(width, height); err != nil {
		s.logger.Warn("resize failed", zap.Error(err), zap.Int("width", width), zap.Int("height", height))
	}
}

func (s *wgpuSink) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, d := range s.drawables {
		d.provider.Release()
		delete(s.drawables, id)
	}
	s.packer.Release()
	s.r.Release()
}
