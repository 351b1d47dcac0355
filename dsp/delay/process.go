package delay

import (
	"github.com/JoergBitzer/AAT-Delay/dsp/buffer"
	"github.com/JoergBitzer/AAT-Delay/dsp/core"
	"github.com/JoergBitzer/AAT-Delay/dsp/interp"
)

// ProcessBlock runs the delay over a multi-channel block in place. The
// block may carry fewer channels than the line is configured for (only
// those are processed), never more. For every frame, each processed
// channel writes input plus fed-back output into its ring, resolves the
// output through the active switching algorithm, and stores the output for
// the next frame's feedback; the shared write position advances once per
// frame. Zero-alloc.
func (l *Line) ProcessBlock(block *buffer.Block) error {
	if block == nil {
		return ErrNilBlock
	}

	chans := block.Channels()
	if chans == 0 {
		return ErrNoChannels
	}
	if chans > len(l.channels) {
		return ErrTooManyChannels
	}

	frames := block.Frames()
	for frame := 0; frame < frames; frame++ {
		for ch := 0; ch < chans; ch++ {
			c := &l.channels[ch]
			data := block.Channel(ch)

			fb := c.feedback * c.prevOut
			if c.fbFilter != nil {
				fb = c.fbFilter.ProcessSample(fb)
			}
			c.ring[l.writePos] = data[frame] + fb

			out := core.FlushDenormals(l.resolveOutput(c))
			c.prevOut = out
			data[frame] = out
		}

		l.writePos++
		if l.writePos >= l.maxDelay {
			l.writePos = 0
		}
	}

	return nil
}

// resolveOutput produces one output sample for the channel, advancing its
// transition state. Called once per channel per frame, after the write.
func (l *Line) resolveOutput(c *channel) float64 {
	if c.state == stateNormal {
		return l.readFractional(c, c.active)
	}

	if l.algorithm == Digital || c.duration <= 0 {
		// Instant switch: land on the newest target and read there.
		l.snapTransition(c)
		return l.readFractional(c, c.active)
	}

	if l.algorithm == Fade {
		w := float64(c.counter) * c.fadeInc
		out := (1-w)*l.readFractional(c, c.active) +
			w*l.readFractional(c, float64(c.pending))

		c.counter++
		if c.counter >= c.duration {
			l.completeTransition(c)
		}

		return out
	}

	// Tape: the effective delay itself glides toward the target.
	c.active += c.fadeInc
	c.counter++
	if c.counter >= c.duration {
		c.active = float64(c.pending)
		l.completeTransition(c)
	}

	return l.readFractional(c, c.active)
}

// completeTransition lands the active delay on the pending target and, if
// a different request was queued meanwhile, immediately arms the next
// transition.
func (l *Line) completeTransition(c *channel) {
	c.active = float64(c.pending)

	if c.state == stateFutureValue && c.future != c.pending {
		l.startTransition(c, c.future)
		return
	}

	c.state = stateNormal
	c.counter = 0
	c.duration = 0
	c.fadeInc = 0
}

// readFractional reads the channel's ring at a possibly fractional delay
// behind the shared write position, linearly interpolating between the two
// neighboring samples. The delay is clamped to the ring capacity.
func (l *Line) readFractional(c *channel, delay float64) float64 {
	if delay < 0 {
		delay = 0
	}
	if limit := float64(l.maxDelay - 1); delay > limit {
		delay = limit
	}

	p := int(delay)
	frac := delay - float64(p)

	x0 := l.readAt(c, p)
	if frac == 0 {
		return x0
	}

	return interp.Linear(frac, x0, l.readAt(c, p+1))
}

// readAt reads the channel's ring at an integer delay behind the shared
// write position.
func (l *Line) readAt(c *channel, delay int) float64 {
	if delay >= l.maxDelay {
		delay = l.maxDelay - 1
	}

	idx := l.writePos - delay
	if idx < 0 {
		idx += l.maxDelay
	}

	return c.ring[idx]
}
