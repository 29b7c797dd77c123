package backend

import (
	"fmt"
	"strings"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/modelrenderer/engine/core"
	"golang.org/x/exp/slices"
)

// VertexAttributeStream identifies the shader input an attribute feeds.
// The value doubles as the shader input location.
type VertexAttributeStream uint32

const (
	VertexAttributeStreamPosition VertexAttributeStream = iota
	VertexAttributeStreamNormal
	VertexAttributeStreamColor
	VertexAttributeStreamUV0
	VertexAttributeStreamUV1
	VertexAttributeStreamUV2
	VertexAttributeStreamUV3
)

var streamNames = [...]string{"POSITION", "NORMAL", "COLOR", "UV0", "UV1", "UV2", "UV3"}

func (s VertexAttributeStream) String() string {
	if int(s) < len(streamNames) {
		return streamNames[s]
	}
	return fmt.Sprintf("Stream(%d)", uint32(s))
}

// UVStream returns the stream for the given UV channel.
func UVStream(channel int) VertexAttributeStream {
	return VertexAttributeStreamUV0 + VertexAttributeStream(channel)
}

type VertexAttributeRate uint8

const (
	VertexAttributeRatePerVertex VertexAttributeRate = iota
	VertexAttributeRatePerInstance
)

func (r VertexAttributeRate) vk() vk.VertexInputRate {
	if r == VertexAttributeRatePerInstance {
		return vk.VertexInputRateInstance
	}
	return vk.VertexInputRateVertex
}

/**
 * @brief Describes where a single shader input attribute lives inside a
 * bound vertex buffer.
 */
type VertexAttributeFormat struct {
	Stream VertexAttributeStream
	Format Format
	/** @brief Offset of the attribute from the start of a vertex, in bytes. */
	Offset uint32
	/** @brief Distance between consecutive vertices in the bound buffer, in bytes. */
	Stride uint32
	Rate   VertexAttributeRate
	/** @brief The vertex buffer binding slot the attribute is read from. */
	BindingSlot uint32
}

// VertexInputLayout describes how bound vertex buffers map to shader inputs.
// Layouts are immutable once created.
type VertexInputLayout struct {
	attributes []VertexAttributeFormat
	key        string
}

func NewVertexInputLayout(attributes []VertexAttributeFormat) *VertexInputLayout {
	attrs := make([]VertexAttributeFormat, len(attributes))
	copy(attrs, attributes)
	return &VertexInputLayout{
		attributes: attrs,
		key:        LayoutKey(attrs),
	}
}

// LayoutKey returns a string uniquely identifying an attribute list.
func LayoutKey(attributes []VertexAttributeFormat) string {
	var sb strings.Builder
	for _, a := range attributes {
		fmt.Fprintf(&sb, "%d:%d:%d:%d:%d:%d;", a.Stream, a.Format, a.Offset, a.Stride, a.Rate, a.BindingSlot)
	}
	return sb.String()
}

func (l *VertexInputLayout) Key() string {
	return l.key
}

// Attributes returns a copy of the attribute list.
func (l *VertexInputLayout) Attributes() []VertexAttributeFormat {
	out := make([]VertexAttributeFormat, len(l.attributes))
	copy(out, l.attributes)
	return out
}

// Attribute returns the attribute bound to stream, if present.
func (l *VertexInputLayout) Attribute(stream VertexAttributeStream) (VertexAttributeFormat, bool) {
	for _, a := range l.attributes {
		if a.Stream == stream {
			return a, true
		}
	}
	return VertexAttributeFormat{}, false
}

// VulkanBindings returns one binding description per binding slot, ordered
// by slot. Every attribute of a slot must share the same stride and rate.
func (l *VertexInputLayout) VulkanBindings() ([]vk.VertexInputBindingDescription, error) {
	bySlot := make(map[uint32]vk.VertexInputBindingDescription)
	for _, a := range l.attributes {
		b, ok := bySlot[a.BindingSlot]
		if !ok {
			bySlot[a.BindingSlot] = vk.VertexInputBindingDescription{
				Binding:   a.BindingSlot,
				Stride:    a.Stride,
				InputRate: a.Rate.vk(),
			}
			continue
		}
		if b.Stride != a.Stride || b.InputRate != a.Rate.vk() {
			return nil, fmt.Errorf("%w: slot %d has stride %d, %s wants %d", core.ErrMixedStride, a.BindingSlot, b.Stride, a.Stream, a.Stride)
		}
	}

	out := make([]vk.VertexInputBindingDescription, 0, len(bySlot))
	for _, b := range bySlot {
		out = append(out, b)
	}
	slices.SortFunc(out, func(a, b vk.VertexInputBindingDescription) int {
		return int(a.Binding) - int(b.Binding)
	})
	return out, nil
}

// VulkanAttributes returns the attribute descriptions, using the stream as
// the shader location.
func (l *VertexInputLayout) VulkanAttributes() []vk.VertexInputAttributeDescription {
	out := make([]vk.VertexInputAttributeDescription, 0, len(l.attributes))
	for _, a := range l.attributes {
		out = append(out, vk.VertexInputAttributeDescription{
			Location: uint32(a.Stream),
			Binding:  a.BindingSlot,
			Format:   a.Format.VkFormat(),
			Offset:   a.Offset,
		})
	}
	return out
}
