package bind_group_provider

// BufferTarget selects which of a provider's buffers a BufferWrite lands in.
type BufferTarget int

const (
	// TargetBinding writes to the bind group buffer at BufferWrite.Binding.
	TargetBinding BufferTarget = iota
	// TargetInstance writes to the provider's instance buffer.
	TargetInstance
)

// BufferWrite describes a single GPU buffer write operation targeting a specific binding
// on a BindGroupProvider at a given byte offset.
type BufferWrite struct {
	Provider BindGroupProvider
	Target   BufferTarget
	Binding  int
	Offset   uint64
	Data     []byte
}
