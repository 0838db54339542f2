package pipeline

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"

	"github.com/Carmen-Shannon/oxy-starfield/engine/renderer/shader"
)

func TestNewPipelineDefaults(t *testing.T) {
	p := NewPipeline("sphere")

	assert.Equal(t, "sphere", p.PipelineKey())
	assert.True(t, p.DepthTestEnabled())
	assert.True(t, p.DepthWriteEnabled())
	assert.Equal(t, wgpu.CompareFunctionLess, p.DepthCompare())
	assert.False(t, p.BlendEnabled())
	assert.Nil(t, p.BlendState())
	assert.Equal(t, wgpu.CullModeNone, p.CullMode())
	assert.Equal(t, wgpu.PrimitiveTopologyTriangleList, p.Topology())
	assert.Nil(t, p.Pipeline())
	assert.Nil(t, p.Shader(shader.ShaderTypeVertex))
	assert.Nil(t, p.BindGroupLayout(0))
}

func TestStarPipelineOptions(t *testing.T) {
	p := NewPipeline("stars",
		WithAdditiveBlend(),
		WithDepthTestEnabled(false),
		WithDepthWriteEnabled(false),
	)

	assert.Equal(t, wgpu.CompareFunctionAlways, p.DepthCompare())
	assert.False(t, p.DepthWriteEnabled())
	if assert.NotNil(t, p.BlendState()) {
		assert.Equal(t, wgpu.BlendFactorSrcAlpha, p.BlendState().Color.SrcFactor)
		assert.Equal(t, wgpu.BlendFactorOne, p.BlendState().Color.DstFactor)
	}
}

func TestAlphaBlendOption(t *testing.T) {
	p := NewPipeline("sphere", WithBlendEnabled(true), WithCullMode(wgpu.CullModeBack))

	assert.Equal(t, wgpu.CullModeBack, p.CullMode())
	if assert.NotNil(t, p.BlendState()) {
		assert.Equal(t, wgpu.BlendFactorOneMinusSrcAlpha, p.BlendState().Color.DstFactor)
	}
	assert.NotPanics(t, p.Release)
}
