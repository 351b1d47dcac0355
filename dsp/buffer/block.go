package buffer

// Block is a rectangular multi-channel sample buffer: the same number of
// frames in every channel, addressed as (channel, frame).
type Block struct {
	channels [][]float64
	frames   int
}

// New returns a zero-filled Block with the given shape.
// Negative arguments are treated as zero.
func New(channels, frames int) *Block {
	if channels < 0 {
		channels = 0
	}
	if frames < 0 {
		frames = 0
	}

	chs := make([][]float64, channels)
	if channels > 0 && frames > 0 {
		// One backing allocation for all channels.
		backing := make([]float64, channels*frames)
		for i := range chs {
			chs[i] = backing[i*frames : (i+1)*frames : (i+1)*frames]
		}
	} else {
		for i := range chs {
			chs[i] = []float64{}
		}
	}

	return &Block{channels: chs, frames: frames}
}

// FromSlices wraps existing per-channel slices without copying.
// All slices must have equal length; mutations through the Block are
// visible in the slices and vice versa.
func FromSlices(channels ...[]float64) *Block {
	frames := 0
	if len(channels) > 0 {
		frames = len(channels[0])
	}

	for _, ch := range channels {
		if len(ch) < frames {
			frames = len(ch)
		}
	}

	chs := make([][]float64, len(channels))
	for i, ch := range channels {
		chs[i] = ch[:frames]
	}

	return &Block{channels: chs, frames: frames}
}

// Channels returns the channel count.
func (b *Block) Channels() int {
	return len(b.channels)
}

// Frames returns the frame count shared by all channels.
func (b *Block) Frames() int {
	return b.frames
}

// Channel returns the sample slice of channel i.
func (b *Block) Channel(i int) []float64 {
	return b.channels[i]
}

// Sample returns the sample at (channel, frame).
func (b *Block) Sample(channel, frame int) float64 {
	return b.channels[channel][frame]
}

// SetSample stores a sample at (channel, frame).
func (b *Block) SetSample(channel, frame int, v float64) {
	b.channels[channel][frame] = v
}

// Zero sets every sample in every channel to 0.
func (b *Block) Zero() {
	for _, ch := range b.channels {
		for i := range ch {
			ch[i] = 0
		}
	}
}

// Resize reshapes the block to the requested shape, reusing per-channel
// capacity when possible. Newly exposed samples are zeroed; surviving
// samples keep their values where (channel, frame) overlaps.
func (b *Block) Resize(channels, frames int) {
	if channels < 0 {
		channels = 0
	}
	if frames < 0 {
		frames = 0
	}

	if channels < len(b.channels) {
		b.channels = b.channels[:channels]
	}

	for channels > len(b.channels) {
		b.channels = append(b.channels, make([]float64, frames))
	}

	for i, ch := range b.channels {
		oldLen := len(ch)
		if frames <= cap(ch) {
			ch = ch[:frames]
		} else {
			grown := make([]float64, frames)
			copy(grown, ch)
			ch = grown
		}
		// Zero stale samples exposed from previous capacity use.
		for j := oldLen; j < frames; j++ {
			ch[j] = 0
		}
		b.channels[i] = ch
	}

	b.frames = frames
}

// Copy returns a deep copy of the block.
func (b *Block) Copy() *Block {
	out := New(len(b.channels), b.frames)
	for i, ch := range b.channels {
		copy(out.channels[i], ch)
	}
	return out
}
