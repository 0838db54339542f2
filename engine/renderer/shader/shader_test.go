package shader

import (
	"os"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-starfield/engine/model"
)

func readAsset(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile("../assets/" + name)
	require.NoError(t, err)
	return string(data)
}

func TestStarShaderLayouts(t *testing.T) {
	src := readAsset(t, "star.wgsl")

	vs, err := NewShader("star", ShaderTypeVertex, src)
	require.NoError(t, err)

	assert.Equal(t, "vs_star", vs.EntryPoint())
	assert.Equal(t, model.StarVertexLayouts(), vs.VertexLayouts())
	assert.NotContains(t, vs.Source(), "@oxy:")

	desc := vs.BindGroupLayoutDescriptor(0)
	require.Len(t, desc.Entries, 1)
	assert.Equal(t, wgpu.BufferBindingTypeUniform, desc.Entries[0].Buffer.Type)
	assert.Equal(t, uint64(model.GPUObjectUniformSize), desc.Entries[0].Buffer.MinBindingSize)
	assert.Equal(t, wgpu.ShaderStageVertex, desc.Entries[0].Visibility)
	assert.Equal(t, "object", vs.BindGroupVarName(0, 0))

	group, binding, ok := vs.ObjectUniformBinding()
	assert.True(t, ok)
	assert.Equal(t, 0, group)
	assert.Equal(t, 0, binding)

	fs, err := NewShader("star", ShaderTypeFragment, src)
	require.NoError(t, err)
	assert.Equal(t, "fs_star", fs.EntryPoint())
	assert.Nil(t, fs.VertexLayouts())
	assert.Equal(t, wgpu.ShaderStageFragment, fs.BindGroupLayoutDescriptor(0).Entries[0].Visibility)
}

func TestSphereShaderLayouts(t *testing.T) {
	vs, err := NewShader("sphere", ShaderTypeVertex, readAsset(t, "sphere.wgsl"))
	require.NoError(t, err)

	assert.Equal(t, "vs_sphere", vs.EntryPoint())
	assert.Equal(t, []wgpu.VertexBufferLayout{model.MeshVertexLayout()}, vs.VertexLayouts())
}

func TestNewShaderErrors(t *testing.T) {
	_, err := NewShader("bad", ShaderTypeVertex, "//@oxy:include light_uniform\n@vertex fn vs() {}")
	assert.ErrorContains(t, err, "unknown struct type")

	_, err = NewShader("bare", ShaderTypeFragment, "@vertex fn vs_only() -> @builtin(position) vec4<f32> { return vec4<f32>(); }")
	assert.ErrorIs(t, err, ErrNoEntryPoint)
}

func TestParseAnnotation(t *testing.T) {
	a, err := parseAnnotation("  //@oxy:group 1 2 storage_read stars star_vertex", 7)
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, AnnotationTypeBindingGroup, a.Type)
	assert.Equal(t, 1, *a.Group)
	assert.Equal(t, 2, *a.Binding)
	assert.Equal(t, AnnotationArg("stars"), a.Args[1])

	a, err = parseAnnotation("let x = 1.0;", 1)
	assert.NoError(t, err)
	assert.Nil(t, a)

	_, err = parseAnnotation("//@oxy:group x 0 storage_uniform o object_uniform", 3)
	assert.ErrorContains(t, err, "line 3")

	_, err = parseAnnotation("//@oxy:group 0 0 private o object_uniform", 4)
	assert.ErrorContains(t, err, "unknown address space")
}

func TestPreProcessorDeclarationsReset(t *testing.T) {
	pp := NewPreProcessor()

	out, err := pp.Process("//@oxy:group 0 0 storage_uniform object object_uniform")
	require.NoError(t, err)
	assert.Equal(t, "@group(0) @binding(0) var<uniform> object: ObjectUniform;", out)
	assert.Len(t, pp.Declarations(), 1)

	_, err = pp.Process("fn noop() {}")
	require.NoError(t, err)
	assert.Empty(t, pp.Declarations())
}

func TestStructLayoutSizes(t *testing.T) {
	sizes := computeStructSizes(parseStructBlocks(stripComments(model.GPUObjectUniformSource + model.GPUStarSource)))

	assert.Equal(t, uint64(224), sizes["ObjectUniform"].size)
	assert.Equal(t, uint64(16), sizes["ObjectUniform"].align)

	layout, ok := resolveTypeLayout("array<vec3<f32>, 4>", sizes)
	assert.True(t, ok)
	assert.Equal(t, uint64(64), layout.size)
}

func TestStripBlockCommentsNested(t *testing.T) {
	assert.Equal(t, "a  b", stripBlockComments("a /* x /* y */ z */ b"))
}

func TestParsedStructVertexInput(t *testing.T) {
	in := parsedStruct{name: "StarInstance", fields: []parsedField{{name: "center", typeName: "vec3<f32>", location: 1}}}
	out := parsedStruct{name: "VertexOut", fields: []parsedField{
		{name: "position", typeName: "vec4<f32>", location: -1, isBuiltin: true},
		{name: "uv", typeName: "vec2<f32>", location: 0},
	}}
	corner := parsedStruct{name: "StarCorner", fields: []parsedField{{name: "corner", typeName: "vec2<f32>", location: 0}}}

	assert.True(t, in.isVertexInput())
	assert.False(t, out.isVertexInput())
	assert.Equal(t, wgpu.VertexStepModeInstance, in.stepMode())
	assert.Equal(t, wgpu.VertexStepModeVertex, corner.stepMode())
}
