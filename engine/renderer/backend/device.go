package backend

// Device creates GPU resources.
type Device interface {
	Name() string
	CreateBuffer(name string, bufferType BufferType, size uint32, usage BufferUsage) (Buffer, error)
	DestroyBuffer(buffer Buffer)
	// CreateCommandContext returns a context recording commands for one frame.
	CreateCommandContext() DeviceCommandContext
}

// DeviceCommandContext records GPU commands. The backend replays them in
// submission order. A context is borrowed by callers for the duration of a
// single call and must not be retained.
type DeviceCommandContext interface {
	// UploadBufferRegion copies data into buffer starting at dataOffset bytes.
	UploadBufferRegion(buffer Buffer, data []byte, dataOffset uint32)
	SetVertexInputLayout(layout *VertexInputLayout)
	// SetVertexBuffer binds buffer to bindingSlot, offset is in bytes.
	SetVertexBuffer(bindingSlot uint32, buffer Buffer, offset uint32)
	SetIndexBuffer(buffer Buffer)
	// DrawIndexedInRange draws indexCount u16 indices starting at firstIndex.
	// start and end bound the referenced vertex range (inclusive).
	DrawIndexedInRange(firstIndex, indexCount, start, end uint32)
}
