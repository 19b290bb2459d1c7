package interestpoints

import "errors"

var (
	// ErrNilMesh is returned when no mesh is bound to a detection call.
	ErrNilMesh = errors.New("mesh is nil")

	// ErrInvalidRings is returned when the ring count is not greater than one.
	ErrInvalidRings = errors.New("number of rings must be greater than 1")

	// ErrInvalidHarrisK is returned when the Harris constant falls outside (0, 0.4].
	ErrInvalidHarrisK = errors.New("harris k must be in (0, 0.4]")

	// ErrInvalidPercentage is returned when the selection parameter is out of range for its mode.
	ErrInvalidPercentage = errors.New("percentage of points out of range for selection mode")

	// ErrUnknownSelectionMode is returned when a selection mode name is not recognized.
	ErrUnknownSelectionMode = errors.New("unknown selection mode")
)
