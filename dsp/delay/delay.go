package delay

import (
	"fmt"
	"math"

	"github.com/JoergBitzer/AAT-Delay/dsp/core"
	"github.com/JoergBitzer/AAT-Delay/dsp/filter/firstorder"
)

const (
	defaultMaxDelaySamples = 1000
	defaultChannelCount    = 2
	defaultSwitchSamples   = 100
	maxFeedbackGain        = 0.99
)

// Algorithm selects the strategy used to move from the current delay time
// to a newly requested one.
type Algorithm int

// Available switching algorithms.
const (
	// Digital jumps to the new delay at the next sample. Cheapest, but the
	// two taps are generally not phase aligned, so it can click.
	Digital Algorithm = iota

	// Fade crossfades linearly between the old and the new tap over the
	// switch time. Click-free at the cost of a second read per sample and
	// transient comb filtering while both taps are audible.
	Fade

	// Tape glides the effective read delay itself from old to new over the
	// switch time (linear in samples), like changing tape speed. One read
	// per sample, heard as a smooth pitch bend.
	Tape
)

// String returns the algorithm name.
func (a Algorithm) String() string {
	switch a {
	case Digital:
		return "digital"
	case Fade:
		return "fade"
	case Tape:
		return "tape"
	default:
		return "unknown"
	}
}

// switchState tracks where a channel is in its delay-time transition.
type switchState int

const (
	// stateNormal: reading at the active delay, no transition.
	stateNormal switchState = iota

	// stateChangeTime: transitioning from the active delay to pending.
	stateChangeTime

	// stateFutureValue: a transition is in flight and a newer request is
	// queued; it starts once the current transition completes.
	stateFutureValue
)

// channel holds the per-channel ring buffer and transition state. All
// fields resize in lockstep via SetChannels.
type channel struct {
	ring []float64

	active   float64 // effective delay in samples, fractional while gliding
	pending  int     // transition target
	future   int     // queued request, valid in stateFutureValue
	state    switchState
	counter  int     // samples elapsed in the current transition
	duration int     // transition length, latched when the transition starts
	fadeInc  float64 // per-sample crossfade weight step (Fade) or delay step (Tape)

	feedback float64
	prevOut  float64
	fbFilter *firstorder.Filter
}

// Line is a multi-channel delay line with per-channel feedback and
// click-free delay-time switching. See the package documentation for the
// concurrency contract.
type Line struct {
	sampleRate float64
	maxDelay   int
	writePos   int

	algorithm  Algorithm
	switchTime int

	channels []channel
}

// New returns a Line with the default configuration: a capacity of 1000
// samples, two channels, tape switching over 100 samples, no feedback.
func New(sampleRate float64) (*Line, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("delay sample rate must be > 0: %f", sampleRate)
	}

	l := &Line{
		sampleRate: sampleRate,
		maxDelay:   defaultMaxDelaySamples,
		algorithm:  Tape,
		switchTime: defaultSwitchSamples,
		channels:   make([]channel, defaultChannelCount),
	}
	l.reallocateRings()

	return l, nil
}

// SetSampleRate updates the seconds-to-samples conversion factor. It does
// not resize any buffer.
func (l *Line) SetSampleRate(sampleRate float64) error {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("delay sample rate must be > 0: %f", sampleRate)
	}

	l.sampleRate = sampleRate

	return nil
}

// SetMaxDelay resizes every channel's ring buffer to the given capacity in
// samples. Prior history is discarded and the write position resets to 0;
// delay targets beyond the new capacity are clamped to it.
func (l *Line) SetMaxDelay(samples int) error {
	if samples <= 0 {
		return fmt.Errorf("delay capacity must be > 0: %d", samples)
	}

	if samples == l.maxDelay {
		return nil
	}

	l.maxDelay = samples
	l.reallocateRings()

	limit := float64(samples - 1)
	for i := range l.channels {
		c := &l.channels[i]
		if c.active > limit {
			c.active = limit
		}
		if c.pending > samples-1 {
			c.pending = samples - 1
		}
		if c.future > samples-1 {
			c.future = samples - 1
		}
	}

	return nil
}

// SetMaxDelaySeconds resizes the ring buffers to a capacity given in seconds.
func (l *Line) SetMaxDelaySeconds(seconds float64) error {
	if seconds <= 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return fmt.Errorf("delay capacity must be > 0: %f s", seconds)
	}

	return l.SetMaxDelay(int(seconds * l.sampleRate))
}

// SetChannels resizes the per-channel state to n channels. Channels that
// survive the resize keep their delay, feedback, and transition state; new
// channels start at delay 0 with no feedback. Ring history is discarded for
// all channels and the write position resets to 0.
func (l *Line) SetChannels(n int) error {
	if n <= 0 {
		return fmt.Errorf("delay channel count must be > 0: %d", n)
	}

	if n == len(l.channels) {
		return nil
	}

	if n < len(l.channels) {
		l.channels = l.channels[:n]
	} else {
		grown := make([]channel, n)
		copy(grown, l.channels)
		l.channels = grown
	}
	l.reallocateRings()

	return nil
}

// SetDelay requests a new target delay in samples for one channel, driving
// the switching state machine. A request equal to the active delay of an
// idle channel is a no-op; a request during a transition is queued and
// applied once the in-flight transition completes (only the newest queued
// request survives). A request matching the target already in flight or
// already queued is ignored, so repeating a value never arms a second
// identical transition.
func (l *Line) SetDelay(samples, ch int) error {
	if err := l.checkChannel(ch); err != nil {
		return err
	}

	if samples < 0 || samples >= l.maxDelay {
		return fmt.Errorf("delay must be in [0, %d): %d", l.maxDelay, samples)
	}

	c := &l.channels[ch]
	switch c.state {
	case stateNormal:
		if float64(samples) == c.active {
			return nil
		}
		l.startTransition(c, samples)
	case stateChangeTime:
		if samples == c.pending {
			return nil
		}
		c.future = samples
		c.state = stateFutureValue
	case stateFutureValue:
		c.future = samples
	}

	return nil
}

// SetDelaySeconds requests a new target delay given in seconds.
func (l *Line) SetDelaySeconds(seconds float64, ch int) error {
	if seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return fmt.Errorf("delay must be >= 0: %f s", seconds)
	}

	return l.SetDelay(int(seconds*l.sampleRate), ch)
}

// SetSwitchTime sets the duration, in samples, of Fade and Tape
// transitions. A duration of 0 makes every algorithm behave like Digital.
// Transitions already in flight keep the duration they started with, so a
// partially elapsed fade still reaches full weight and a tape glide still
// lands exactly on its target.
func (l *Line) SetSwitchTime(samples int) error {
	if samples < 0 {
		return fmt.Errorf("delay switch time must be >= 0: %d", samples)
	}

	l.switchTime = samples

	return nil
}

// SetSwitchAlgorithm selects the switching strategy. Any transition in
// flight is snapped to its final requested target and the channel returns
// to the idle state, so no partial fade or ramp leaks into the newly
// selected algorithm.
func (l *Line) SetSwitchAlgorithm(algorithm Algorithm) error {
	if algorithm < Digital || algorithm > Tape {
		return fmt.Errorf("delay switch algorithm out of range: %d", algorithm)
	}

	l.algorithm = algorithm
	for i := range l.channels {
		l.snapTransition(&l.channels[i])
	}

	return nil
}

// SetFeedback sets the fraction of a channel's previous output fed back
// into its input, in [0, 0.99].
func (l *Line) SetFeedback(gain float64, ch int) error {
	if err := l.checkChannel(ch); err != nil {
		return err
	}

	if gain < 0 || gain > maxFeedbackGain || math.IsNaN(gain) || math.IsInf(gain, 0) {
		return fmt.Errorf("delay feedback must be in [0, %v]: %f", maxFeedbackGain, gain)
	}

	l.channels[ch].feedback = gain

	return nil
}

// SetFeedbackFilter installs a first-order filter into one channel's
// feedback path (nil removes it). The filter is applied to the fed-back
// sample before it is written into the ring, darkening or brightening
// successive echoes.
func (l *Line) SetFeedbackFilter(f *firstorder.Filter, ch int) error {
	if err := l.checkChannel(ch); err != nil {
		return err
	}

	l.channels[ch].fbFilter = f

	return nil
}

// Reset clears all ring history, previous outputs, and the write position.
// In-flight transitions are snapped to their final target; configuration
// is kept.
func (l *Line) Reset() {
	for i := range l.channels {
		c := &l.channels[i]
		core.Zero(c.ring)
		c.prevOut = 0
		l.snapTransition(c)
		if c.fbFilter != nil {
			c.fbFilter.Reset()
		}
	}
	l.writePos = 0
}

// SampleRate returns the sample rate in Hz.
func (l *Line) SampleRate() float64 { return l.sampleRate }

// MaxDelay returns the ring capacity in samples.
func (l *Line) MaxDelay() int { return l.maxDelay }

// Channels returns the configured channel count.
func (l *Line) Channels() int { return len(l.channels) }

// SwitchAlgorithm returns the active switching algorithm.
func (l *Line) SwitchAlgorithm() Algorithm { return l.algorithm }

// SwitchTime returns the transition duration in samples.
func (l *Line) SwitchTime() int { return l.switchTime }

// Delay returns the channel's current effective delay in samples. The
// value is fractional while a tape glide is in progress.
func (l *Line) Delay(ch int) (float64, error) {
	if err := l.checkChannel(ch); err != nil {
		return 0, err
	}

	return l.channels[ch].active, nil
}

// Feedback returns the channel's feedback gain.
func (l *Line) Feedback(ch int) (float64, error) {
	if err := l.checkChannel(ch); err != nil {
		return 0, err
	}

	return l.channels[ch].feedback, nil
}

// Transitioning reports whether the channel has a delay-time transition in
// flight.
func (l *Line) Transitioning(ch int) (bool, error) {
	if err := l.checkChannel(ch); err != nil {
		return false, err
	}

	return l.channels[ch].state != stateNormal, nil
}

func (l *Line) checkChannel(ch int) error {
	if ch < 0 || ch >= len(l.channels) {
		return fmt.Errorf("delay channel out of range [0, %d): %d", len(l.channels), ch)
	}

	return nil
}

// reallocateRings gives every channel a fresh ring at the current capacity
// and rewinds the shared write cursor.
func (l *Line) reallocateRings() {
	for i := range l.channels {
		l.channels[i].ring = make([]float64, l.maxDelay)
		l.channels[i].prevOut = 0
	}
	l.writePos = 0
}

// startTransition arms a transition from the channel's current active
// delay toward target.
func (l *Line) startTransition(c *channel, target int) {
	c.pending = target
	c.counter = 0
	c.duration = l.switchTime
	c.state = stateChangeTime

	c.fadeInc = 0
	if c.duration > 0 {
		switch l.algorithm {
		case Fade:
			c.fadeInc = 1 / float64(c.duration)
		case Tape:
			c.fadeInc = (float64(target) - c.active) / float64(c.duration)
		case Digital:
		}
	}
}

// snapTransition force-completes any in-flight transition, landing on the
// newest requested target.
func (l *Line) snapTransition(c *channel) {
	switch c.state {
	case stateChangeTime:
		c.active = float64(c.pending)
	case stateFutureValue:
		c.active = float64(c.future)
	case stateNormal:
		return
	}

	c.state = stateNormal
	c.counter = 0
	c.duration = 0
	c.fadeInc = 0
}
