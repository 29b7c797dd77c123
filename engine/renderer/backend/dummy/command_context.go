package dummy

import (
	"fmt"

	"github.com/spaghettifunk/modelrenderer/engine/core"
	"github.com/spaghettifunk/modelrenderer/engine/renderer/backend"
)

type CommandKind uint8

const (
	CommandUpload CommandKind = iota
	CommandSetVertexInputLayout
	CommandSetVertexBuffer
	CommandSetIndexBuffer
	CommandDrawIndexed
)

func (k CommandKind) String() string {
	switch k {
	case CommandUpload:
		return "upload"
	case CommandSetVertexInputLayout:
		return "set-vertex-input-layout"
	case CommandSetVertexBuffer:
		return "set-vertex-buffer"
	case CommandSetIndexBuffer:
		return "set-index-buffer"
	case CommandDrawIndexed:
		return "draw-indexed"
	default:
		return fmt.Sprintf("CommandKind(%d)", uint8(k))
	}
}

// Command is one recorded call. Only the fields relevant to Kind are set.
type Command struct {
	Kind   CommandKind
	Buffer backend.Buffer
	Layout *backend.VertexInputLayout
	// Slot is the vertex buffer binding slot.
	Slot uint32
	// Offset is the byte offset of an upload or a vertex buffer binding.
	Offset uint32
	// Size is the number of uploaded bytes.
	Size       uint32
	FirstIndex uint32
	IndexCount uint32
	Start      uint32
	End        uint32
}

// CommandContext records commands in submission order and applies uploads
// to the target buffer immediately.
type CommandContext struct {
	commands []Command
}

var _ backend.DeviceCommandContext = (*CommandContext)(nil)

func NewCommandContext() *CommandContext {
	return &CommandContext{}
}

func (c *CommandContext) UploadBufferRegion(buffer backend.Buffer, data []byte, dataOffset uint32) {
	b, ok := buffer.(*Buffer)
	core.Ensure(ok, "upload to a buffer not created by the dummy device")
	end := dataOffset + uint32(len(data))
	core.Ensure(end <= b.Size(), "upload of %d bytes at %d overflows buffer '%s' (%d bytes)", len(data), dataOffset, b.name, b.Size())
	copy(b.data[dataOffset:end], data)
	c.commands = append(c.commands, Command{
		Kind:   CommandUpload,
		Buffer: buffer,
		Offset: dataOffset,
		Size:   uint32(len(data)),
	})
}

func (c *CommandContext) SetVertexInputLayout(layout *backend.VertexInputLayout) {
	core.Ensure(layout != nil, "nil vertex input layout")
	c.commands = append(c.commands, Command{Kind: CommandSetVertexInputLayout, Layout: layout})
}

func (c *CommandContext) SetVertexBuffer(bindingSlot uint32, buffer backend.Buffer, offset uint32) {
	core.Ensure(buffer.Type() == backend.BufferTypeVertex, "binding a %s buffer to vertex slot %d", buffer.Type(), bindingSlot)
	c.commands = append(c.commands, Command{
		Kind:   CommandSetVertexBuffer,
		Buffer: buffer,
		Slot:   bindingSlot,
		Offset: offset,
	})
}

func (c *CommandContext) SetIndexBuffer(buffer backend.Buffer) {
	core.Ensure(buffer.Type() == backend.BufferTypeIndex, "binding a %s buffer as index buffer", buffer.Type())
	c.commands = append(c.commands, Command{Kind: CommandSetIndexBuffer, Buffer: buffer})
}

func (c *CommandContext) DrawIndexedInRange(firstIndex, indexCount, start, end uint32) {
	c.commands = append(c.commands, Command{
		Kind:       CommandDrawIndexed,
		FirstIndex: firstIndex,
		IndexCount: indexCount,
		Start:      start,
		End:        end,
	})
}

// Commands returns the recorded commands in submission order.
func (c *CommandContext) Commands() []Command {
	out := make([]Command, len(c.commands))
	copy(out, c.commands)
	return out
}

// Count returns how many commands of the given kind were recorded.
func (c *CommandContext) Count(kind CommandKind) int {
	n := 0
	for _, cmd := range c.commands {
		if cmd.Kind == kind {
			n++
		}
	}
	return n
}

// Reset drops the recorded commands, typically at the start of a frame.
func (c *CommandContext) Reset() {
	c.commands = c.commands[:0]
}
