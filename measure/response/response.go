package response

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/JoergBitzer/AAT-Delay/dsp/core"
)

// Window selects the analysis window applied before the transform.
type Window int

const (
	// Rectangular applies no window. Exact for signals that are fully
	// captured in the analysis span, such as impulse responses.
	Rectangular Window = iota

	// Hann tapers the span to reduce leakage from truncated periodic
	// signals.
	Hann
)

// Config holds spectrum analysis parameters.
type Config struct {
	SampleRate float64
	FFTSize    int
	Window     Window
}

// Result holds a single-sided magnitude spectrum over the bins
// [0, FFTSize/2].
type Result struct {
	Magnitude  []float64
	SampleRate float64
	FFTSize    int
}

// Analyzer computes magnitude spectra with a fixed configuration, reusing
// its scratch buffers across calls. Only the returned Result allocates in
// steady state (besides the FFT plan).
type Analyzer struct {
	cfg Config

	in  []complex128
	out []complex128
	re  []float64
	im  []float64
}

// NewAnalyzer validates the configuration and returns a ready Analyzer.
func NewAnalyzer(cfg Config) (*Analyzer, error) {
	if cfg.FFTSize <= 1 {
		return nil, fmt.Errorf("response FFT size must be > 1: %d", cfg.FFTSize)
	}

	if cfg.SampleRate <= 0 || math.IsNaN(cfg.SampleRate) || math.IsInf(cfg.SampleRate, 0) {
		return nil, fmt.Errorf("response sample rate must be > 0: %f", cfg.SampleRate)
	}

	if cfg.Window != Rectangular && cfg.Window != Hann {
		return nil, fmt.Errorf("response window out of range: %d", cfg.Window)
	}

	return &Analyzer{cfg: cfg}, nil
}

// Analyze transforms a real signal and returns its single-sided magnitude
// spectrum. The signal is truncated or zero-padded to the FFT size.
func (a *Analyzer) Analyze(signal []float64) (*Result, error) {
	if len(signal) == 0 {
		return nil, fmt.Errorf("response signal must not be empty")
	}

	span := len(signal)
	if span > a.cfg.FFTSize {
		span = a.cfg.FFTSize
	}

	if cap(a.in) < a.cfg.FFTSize {
		a.in = make([]complex128, a.cfg.FFTSize)
		a.out = make([]complex128, a.cfg.FFTSize)
	}
	a.in = a.in[:a.cfg.FFTSize]
	a.out = a.out[:a.cfg.FFTSize]
	for i := range a.in {
		a.in[i] = 0
	}

	switch a.cfg.Window {
	case Hann:
		for i := 0; i < span; i++ {
			w := 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(span-1)))
			a.in[i] = complex(signal[i]*w, 0)
		}
	default:
		for i := 0; i < span; i++ {
			a.in[i] = complex(signal[i], 0)
		}
	}

	plan, err := algofft.NewPlan64(a.cfg.FFTSize)
	if err != nil {
		return nil, fmt.Errorf("response FFT plan: %w", err)
	}

	if err := plan.Forward(a.out, a.in); err != nil {
		return nil, fmt.Errorf("response FFT: %w", err)
	}

	bins := a.cfg.FFTSize/2 + 1
	a.re = core.EnsureLen(a.re, bins)
	a.im = core.EnsureLen(a.im, bins)
	for i := 0; i < bins; i++ {
		a.re[i] = real(a.out[i])
		a.im[i] = imag(a.out[i])
	}

	mag := make([]float64, bins)
	vecmath.Magnitude(mag, a.re, a.im)

	return &Result{
		Magnitude:  mag,
		SampleRate: a.cfg.SampleRate,
		FFTSize:    a.cfg.FFTSize,
	}, nil
}

// Analyze is a one-shot spectrum analysis with a throwaway Analyzer.
func Analyze(signal []float64, cfg Config) (*Result, error) {
	a, err := NewAnalyzer(cfg)
	if err != nil {
		return nil, err
	}

	return a.Analyze(signal)
}

// BinWidth returns the frequency spacing between bins in Hz.
func (r *Result) BinWidth() float64 {
	return r.SampleRate / float64(r.FFTSize)
}

// PeakBin returns the index of the largest magnitude bin above DC.
func (r *Result) PeakBin() int {
	best := 1
	for i := 2; i < len(r.Magnitude); i++ {
		if r.Magnitude[i] > r.Magnitude[best] {
			best = i
		}
	}

	return best
}

// PeakFrequency returns the frequency in Hz of the largest magnitude bin
// above DC.
func (r *Result) PeakFrequency() float64 {
	return float64(r.PeakBin()) * r.BinWidth()
}

// MagnitudeDB returns the bin magnitude in dB, with -Inf for silence.
func (r *Result) MagnitudeDB(bin int) float64 {
	return core.LinearToDB(r.Magnitude[bin])
}
