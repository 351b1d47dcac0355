// Package response computes single-sided magnitude spectra of rendered
// signals, used to verify frequency-domain behavior such as the comb
// pattern a mixed delay produces or the level of a filtered tone.
package response
