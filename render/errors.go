package render

import (
	"github.com/pkg/errors"
)

// Sentinel errors for grid access and geometry
var (
	// ErrOutOfBounds reports direct grid access beyond declared dimensions.
	// Never silently clamped; sprite clipping happens above this layer.
	ErrOutOfBounds = errors.New("grid access out of bounds")

	// ErrInvalidDimensions reports a resize to a zero or negative extent.
	// The prior grid is retained.
	ErrInvalidDimensions = errors.New("invalid grid dimensions")
)
