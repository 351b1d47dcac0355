package delay

import "errors"

// Errors returned by ProcessBlock. These are sentinels so the block
// processing path never formats strings.
var (
	// ErrNilBlock is returned when ProcessBlock receives a nil block.
	ErrNilBlock = errors.New("delay: block must not be nil")

	// ErrNoChannels is returned when the block has no channels.
	ErrNoChannels = errors.New("delay: block has no channels")

	// ErrTooManyChannels is returned when the block carries more channels
	// than the line is configured for.
	ErrTooManyChannels = errors.New("delay: block has more channels than configured")
)
