package backend

type BufferType uint8

const (
	/** @brief Buffer is used for vertex data. */
	BufferTypeVertex BufferType = iota
	/** @brief Buffer is used for index data. */
	BufferTypeIndex
)

func (t BufferType) String() string {
	if t == BufferTypeIndex {
		return "index"
	}
	return "vertex"
}

// BufferUsage is a set of flags describing how a buffer is updated.
type BufferUsage uint32

const (
	/** @brief Contents change every frame. */
	BufferUsageDynamic BufferUsage = 1 << iota
	/** @brief Buffer is the destination of upload commands. */
	BufferUsageTransferDst
)

func (u BufferUsage) Has(flag BufferUsage) bool {
	return u&flag == flag
}

// Buffer is a GPU-resident block of memory created by a Device.
type Buffer interface {
	Name() string
	Type() BufferType
	Usage() BufferUsage
	// Size in bytes.
	Size() uint32
}
