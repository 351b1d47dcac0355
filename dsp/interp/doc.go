// Package interp provides fractional-sample interpolation kernels for
// delay-line reads. Linear interpolation is the default read kernel of the
// delay engine; Hermite4 is available where higher quality matters more
// than the two extra neighbor reads.
package interp
