// Package buffer provides a rectangular multi-channel sample block and a
// pool for allocation-friendly block processing. The delay engine mutates
// Blocks in place; Channel exposes raw []float64 slices so DSP helpers that
// accept plain slices can be applied per channel.
package buffer
