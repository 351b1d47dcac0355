package firstorder

import (
	"fmt"
	"math"
)

// Design selects the coefficient design routine.
type Design int

// Available first-order designs.
const (
	None Design = iota
	LowpassButterworth
	HighpassButterworth
	LowpassSmooth
	HighpassSmooth
	LowShelf
	HighShelf
)

// String returns the design name.
func (d Design) String() string {
	switch d {
	case None:
		return "none"
	case LowpassButterworth:
		return "lowpass-butterworth"
	case HighpassButterworth:
		return "highpass-butterworth"
	case LowpassSmooth:
		return "lowpass-smooth"
	case HighpassSmooth:
		return "highpass-smooth"
	case LowShelf:
		return "low-shelf"
	case HighShelf:
		return "high-shelf"
	default:
		return "unknown"
	}
}

// Coefficients holds the transfer function coefficients of a first-order
// section. a0 is normalized to 1 and not stored:
//
//	H(z) = (B0 + B1*z^-1) / (1 + A1*z^-1)
type Coefficients struct {
	B0, B1 float64 // feedforward (numerator)
	A1     float64 // feedback (denominator)
}

// Filter is a single first-order IIR filter with coefficients and internal
// state. It implements Direct Form II processing.
type Filter struct {
	coeffs Coefficients
	state  float64

	sampleRate float64
	cutoff     float64
	gainDB     float64
	design     Design
}

// New returns a Filter for the given cutoff, sample rate, and design,
// with 0 dB shelving gain.
func New(cutoff, sampleRate float64, design Design) (*Filter, error) {
	return NewWithGain(cutoff, sampleRate, 0, design)
}

// NewWithGain returns a Filter with an explicit shelving gain in dB.
// The gain only affects the LowShelf and HighShelf designs.
func NewWithGain(cutoff, sampleRate, gainDB float64, design Design) (*Filter, error) {
	f := &Filter{
		sampleRate: sampleRate,
		cutoff:     cutoff,
		gainDB:     gainDB,
		design:     design,
	}
	if err := f.validate(); err != nil {
		return nil, err
	}

	f.computeCoeffs()
	f.Reset()

	return f, nil
}

// SetSampleRate updates the sample rate, recomputes coefficients, and
// resets filter state.
func (f *Filter) SetSampleRate(sampleRate float64) error {
	old := f.sampleRate
	f.sampleRate = sampleRate
	if err := f.validate(); err != nil {
		f.sampleRate = old
		return err
	}

	f.computeCoeffs()
	f.Reset()

	return nil
}

// SetCutoff updates the cutoff frequency and recomputes coefficients.
// State is kept so cutoff sweeps do not click.
func (f *Filter) SetCutoff(cutoff float64) error {
	old := f.cutoff
	f.cutoff = cutoff
	if err := f.validate(); err != nil {
		f.cutoff = old
		return err
	}

	f.computeCoeffs()

	return nil
}

// SetDesign switches the design routine and recomputes coefficients.
func (f *Filter) SetDesign(design Design) error {
	if design < None || design > HighShelf {
		return fmt.Errorf("firstorder design out of range: %d", design)
	}

	f.design = design
	f.computeCoeffs()

	return nil
}

// SetGainDB updates the shelving gain in dB and recomputes coefficients.
func (f *Filter) SetGainDB(gainDB float64) error {
	if math.IsNaN(gainDB) || math.IsInf(gainDB, 0) {
		return fmt.Errorf("firstorder gain must be finite: %f", gainDB)
	}

	f.gainDB = gainDB
	f.computeCoeffs()

	return nil
}

// ProcessSample filters one input sample and returns the output.
func (f *Filter) ProcessSample(x float64) float64 {
	instate := x - f.coeffs.A1*f.state
	y := instate*f.coeffs.B0 + f.state*f.coeffs.B1
	f.state = instate

	return y
}

// ProcessInPlace filters buf in place. Zero-alloc.
func (f *Filter) ProcessInPlace(buf []float64) {
	b0, b1, a1 := f.coeffs.B0, f.coeffs.B1, f.coeffs.A1
	state := f.state

	for i, x := range buf {
		instate := x - a1*state
		buf[i] = instate*b0 + state*b1
		state = instate
	}

	f.state = state
}

// Reset clears the filter state to zero.
func (f *Filter) Reset() {
	f.state = 0
}

// Coefficients returns the current transfer function coefficients.
func (f *Filter) Coefficients() Coefficients { return f.coeffs }

// SampleRate returns the sample rate in Hz.
func (f *Filter) SampleRate() float64 { return f.sampleRate }

// Cutoff returns the cutoff frequency in Hz.
func (f *Filter) Cutoff() float64 { return f.cutoff }

// GainDB returns the shelving gain in dB.
func (f *Filter) GainDB() float64 { return f.gainDB }

// Design returns the active design routine.
func (f *Filter) Design() Design { return f.design }

func (f *Filter) validate() error {
	if f.sampleRate <= 0 || math.IsNaN(f.sampleRate) || math.IsInf(f.sampleRate, 0) {
		return fmt.Errorf("firstorder sample rate must be > 0: %f", f.sampleRate)
	}
	if f.cutoff <= 0 || f.cutoff >= f.sampleRate/2 ||
		math.IsNaN(f.cutoff) || math.IsInf(f.cutoff, 0) {
		return fmt.Errorf("firstorder cutoff must be in (0, %f): %f", f.sampleRate/2, f.cutoff)
	}
	if f.design < None || f.design > HighShelf {
		return fmt.Errorf("firstorder design out of range: %d", f.design)
	}
	if math.IsNaN(f.gainDB) || math.IsInf(f.gainDB, 0) {
		return fmt.Errorf("firstorder gain must be finite: %f", f.gainDB)
	}

	return nil
}

// computeCoeffs evaluates the selected design routine.
// Formulas follow the music-dsp archive (smooth one-pole variants) and the
// RBJ cookbook (shelving, A = 10^(gain/40)).
func (f *Filter) computeCoeffs() {
	switch f.design {
	case None:
		f.coeffs = Coefficients{B0: 1}

	case LowpassButterworth:
		fcut := math.Tan(math.Pi*f.cutoff/f.sampleRate) * 2 * f.sampleRate
		w := 2 * f.sampleRate
		norm := 1 / (fcut + w)
		b := fcut * norm
		f.coeffs = Coefficients{
			B0: b,
			B1: b,
			A1: -(w - fcut) * norm,
		}

	case HighpassButterworth:
		fcut := math.Tan(math.Pi*f.cutoff/f.sampleRate) * 2 * f.sampleRate
		w := 2 * f.sampleRate
		norm := 1 / (fcut + w)
		b0 := w * norm
		f.coeffs = Coefficients{
			B0: b0,
			B1: -b0,
			A1: -(w - fcut) * norm,
		}

	case LowpassSmooth:
		om := 2 * math.Pi * f.cutoff / f.sampleRate
		pole := (2 - math.Cos(om)) - math.Sqrt((2-math.Cos(om))*(2-math.Cos(om))-1)
		f.coeffs = Coefficients{
			B0: 1 - pole,
			A1: -pole,
		}

	case HighpassSmooth:
		om := 2 * math.Pi * f.cutoff / f.sampleRate
		pole := (2 + math.Cos(om)) - math.Sqrt((2+math.Cos(om))*(2+math.Cos(om))-1)
		f.coeffs = Coefficients{
			B0: pole - 1,
			A1: pole,
		}

	case LowShelf:
		a := math.Pow(10, f.gainDB/40)
		fcut := math.Tan(math.Pi*f.cutoff/f.sampleRate) * 2 * f.sampleRate
		w := 2 * f.sampleRate
		norm := 1 / (fcut + w*a)
		f.coeffs = Coefficients{
			B0: a * (a*fcut + w) * norm,
			B1: -a * (w - a*fcut) * norm,
			A1: -(a*w - fcut) * norm,
		}

	case HighShelf:
		a := math.Pow(10, f.gainDB/40)
		fcut := math.Tan(math.Pi*f.cutoff/f.sampleRate) * 2 * f.sampleRate
		w := 2 * f.sampleRate
		norm := 1 / (a*fcut + w)
		f.coeffs = Coefficients{
			B0: a * (fcut + a*w) * norm,
			B1: -a * (a*w - fcut) * norm,
			A1: -(w - a*fcut) * norm,
		}
	}
}
