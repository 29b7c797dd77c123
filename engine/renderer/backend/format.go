package backend

import (
	"fmt"

	vk "github.com/goki/vulkan"
)

// Format describes the element format of a vertex attribute or an index.
type Format uint8

const (
	FormatUndefined Format = iota
	/** @brief A single 16-bit unsigned integer. Used by index arrays. */
	FormatR16Uint
	/** @brief Two 32-bit floats. Used by texture coordinates. */
	FormatR32G32Sfloat
	/** @brief Three 32-bit floats. */
	FormatR32G32B32Sfloat
	/** @brief Four 32-bit floats. Used by 16-byte aligned positions and normals. */
	FormatR32G32B32A32Sfloat
)

// Size returns the size of a single element in bytes.
func (f Format) Size() uint32 {
	switch f {
	case FormatR16Uint:
		return 2
	case FormatR32G32Sfloat:
		return 8
	case FormatR32G32B32Sfloat:
		return 12
	case FormatR32G32B32A32Sfloat:
		return 16
	default:
		return 0
	}
}

// VkFormat maps the format to its Vulkan equivalent.
func (f Format) VkFormat() vk.Format {
	switch f {
	case FormatR16Uint:
		return vk.FormatR16Uint
	case FormatR32G32Sfloat:
		return vk.FormatR32g32Sfloat
	case FormatR32G32B32Sfloat:
		return vk.FormatR32g32b32Sfloat
	case FormatR32G32B32A32Sfloat:
		return vk.FormatR32g32b32a32Sfloat
	default:
		return vk.FormatUndefined
	}
}

func (f Format) String() string {
	switch f {
	case FormatR16Uint:
		return "R16_UINT"
	case FormatR32G32Sfloat:
		return "R32G32_SFLOAT"
	case FormatR32G32B32Sfloat:
		return "R32G32B32_SFLOAT"
	case FormatR32G32B32A32Sfloat:
		return "R32G32B32A32_SFLOAT"
	case FormatUndefined:
		return "UNDEFINED"
	default:
		return fmt.Sprintf("Format(%d)", uint8(f))
	}
}
