// Package delay implements a multi-channel, time-varying feedback delay
// line. Each channel owns a ring buffer of recent samples; all channels
// share one write cursor. Delay-time changes never jump the read position
// directly: a per-channel state machine transitions from the old delay to
// the new one using one of three switching algorithms (instant, crossfade,
// or a tape-style glide of the read position), queuing at most one further
// request per channel while a transition is in flight.
//
// A Line is not safe for concurrent use. Configuration setters and
// ProcessBlock mutate shared state and must be serialized by the caller;
// the intended pattern is to apply configuration between block calls.
// ProcessBlock itself does not allocate, lock, or log.
package delay
