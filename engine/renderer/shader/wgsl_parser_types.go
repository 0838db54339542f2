package shader

import (
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// instanceStructSuffix marks vertex input structs whose buffer advances per instance,
// such as StarInstance.
const instanceStructSuffix = "Instance"

type vertexFormatInfo struct {
	format wgpu.VertexFormat
	size   uint64
}

// wgslTypeLayout is the byte size and alignment of a WGSL type, used for MinBindingSize.
type wgslTypeLayout struct {
	size  uint64
	align uint64
}

type parsedField struct {
	name     string
	typeName string
	// location is -1 for fields without @location
	location  int
	isBuiltin bool
}

type parsedStruct struct {
	name   string
	fields []parsedField
}

// isVertexInput reports whether the struct has at least one @location field and
// no @builtin field. Vertex outputs always carry @builtin(position).
func (ps parsedStruct) isVertexInput() bool {
	hasLocation := false
	for _, f := range ps.fields {
		if f.isBuiltin {
			return false
		}
		hasLocation = hasLocation || f.location >= 0
	}
	return hasLocation
}

// stepMode is per instance for structs named *Instance and per vertex otherwise.
func (ps parsedStruct) stepMode() wgpu.VertexStepMode {
	if strings.HasSuffix(ps.name, instanceStructSuffix) {
		return wgpu.VertexStepModeInstance
	}
	return wgpu.VertexStepModeVertex
}
