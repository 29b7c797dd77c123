package core

import (
	"errors"
)

var (
	ErrInvariantViolated      = errors.New("invariant violated")
	ErrInvalidModelDefinition = errors.New("invalid model definition")
	ErrIndexOverflow          = errors.New("vertex count does not fit in 16-bit indices")
	ErrMixedStride            = errors.New("binding slot used with different strides")
	ErrBufferTooLarge         = errors.New("requested buffer exceeds maximum size")
	ErrAssetNotFound          = errors.New("asset not found")
	ErrInvalidConfig          = errors.New("invalid configuration")
)
