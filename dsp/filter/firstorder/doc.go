// Package firstorder implements one-pole/one-zero IIR filters with a set of
// classic design routines: bilinear Butterworth low/highpass, the music-dsp
// "smooth" one-pole variants, and RBJ-style low/high shelving.
//
// The filter is a Direct Form II kernel with a single state word. Setters
// recompute coefficients immediately; only a sample-rate change resets the
// state, so cutoff and gain sweeps stay click-free.
package firstorder
