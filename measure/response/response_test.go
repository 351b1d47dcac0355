package response

import (
	"math"
	"testing"

	"github.com/JoergBitzer/AAT-Delay/dsp/buffer"
	"github.com/JoergBitzer/AAT-Delay/dsp/core"
	"github.com/JoergBitzer/AAT-Delay/dsp/delay"
	"github.com/JoergBitzer/AAT-Delay/dsp/signal"
)

func TestAnalyzeValidation(t *testing.T) {
	valid := Config{SampleRate: 48000, FFTSize: 1024}

	if _, err := Analyze(nil, valid); err == nil {
		t.Error("expected error for empty signal")
	}

	if _, err := Analyze([]float64{1}, Config{SampleRate: 48000, FFTSize: 1}); err == nil {
		t.Error("expected error for FFT size 1")
	}

	if _, err := Analyze([]float64{1}, Config{SampleRate: 0, FFTSize: 1024}); err == nil {
		t.Error("expected error for sample rate 0")
	}

	if _, err := Analyze([]float64{1}, Config{SampleRate: 48000, FFTSize: 1024, Window: Window(5)}); err == nil {
		t.Error("expected error for unknown window")
	}
}

func TestSinePeak(t *testing.T) {
	const (
		fftSize = 4096
		fs      = 48000.0
	)

	// Bin 80 exactly: 80 * 48000/4096 = 937.5 Hz.
	gen := signal.NewGenerator(core.WithSampleRate(fs))
	sig, err := gen.Sine(937.5, 1, fftSize)
	if err != nil {
		t.Fatalf("Sine: %v", err)
	}

	for _, win := range []Window{Rectangular, Hann} {
		res, err := Analyze(sig, Config{SampleRate: fs, FFTSize: fftSize, Window: win})
		if err != nil {
			t.Fatalf("Analyze: %v", err)
		}

		if got := res.PeakBin(); got != 80 {
			t.Errorf("window %d: peak bin %d, want 80", win, got)
		}

		if got := res.PeakFrequency(); got != 937.5 {
			t.Errorf("window %d: peak frequency %v, want 937.5", win, got)
		}
	}
}

func TestOffBinPeakWithinOneBin(t *testing.T) {
	const (
		fftSize = 4096
		fs      = 48000.0
		freq    = 1000.0 // between bins 85 and 86
	)

	gen := signal.NewGenerator(core.WithSampleRate(fs))
	sig, err := gen.Sine(freq, 1, fftSize)
	if err != nil {
		t.Fatalf("Sine: %v", err)
	}

	res, err := Analyze(sig, Config{SampleRate: fs, FFTSize: fftSize, Window: Hann})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if diff := math.Abs(res.PeakFrequency() - freq); diff > res.BinWidth() {
		t.Errorf("peak frequency %v not within one bin of %v", res.PeakFrequency(), freq)
	}
}

// TestDelayCombNulls mixes a delay line's output back with its input and
// checks the resulting comb: nulls at odd multiples of fs/(2 D), peaks of
// height 2 in between.
func TestDelayCombNulls(t *testing.T) {
	const (
		d       = 32
		fftSize = 4096
		fs      = 48000.0
	)

	l, err := delay.New(fs)
	if err != nil {
		t.Fatalf("delay.New: %v", err)
	}
	if err := l.SetChannels(1); err != nil {
		t.Fatalf("SetChannels: %v", err)
	}
	if err := l.SetSwitchAlgorithm(delay.Digital); err != nil {
		t.Fatalf("SetSwitchAlgorithm: %v", err)
	}
	if err := l.SetDelay(d, 0); err != nil {
		t.Fatalf("SetDelay: %v", err)
	}

	dry := make([]float64, fftSize)
	dry[0] = 1

	wet := make([]float64, fftSize)
	copy(wet, dry)
	if err := l.ProcessBlock(buffer.FromSlices(wet)); err != nil {
		t.Fatalf("ProcessBlock: %v", err)
	}

	mixed := make([]float64, fftSize)
	for i := range mixed {
		mixed[i] = dry[i] + wet[i]
	}

	res, err := Analyze(mixed, Config{SampleRate: fs, FFTSize: fftSize})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	// |1 + e^{-jwD}| nulls where wD is an odd multiple of pi, which is
	// every (fftSize/d) bins starting at fftSize/(2 d).
	nullStep := fftSize / d
	for bin := nullStep / 2; bin < len(res.Magnitude); bin += nullStep {
		if m := res.Magnitude[bin]; m > 1e-9 {
			t.Errorf("expected null at bin %d, magnitude %v", bin, m)
		}
	}

	for bin := nullStep; bin < len(res.Magnitude); bin += nullStep {
		if m := res.Magnitude[bin]; math.Abs(m-2) > 1e-9 {
			t.Errorf("expected peak of 2 at bin %d, magnitude %v", bin, m)
		}
	}
}

func TestAnalyzerReusesScratch(t *testing.T) {
	const (
		fftSize = 1024
		fs      = 48000.0
	)

	a, err := NewAnalyzer(Config{SampleRate: fs, FFTSize: fftSize})
	if err != nil {
		t.Fatalf("NewAnalyzer: %v", err)
	}

	gen := signal.NewGenerator(core.WithSampleRate(fs))
	sig, err := gen.Sine(937.5, 1, fftSize)
	if err != nil {
		t.Fatalf("Sine: %v", err)
	}

	first, err := a.Analyze(sig)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	scratch := &a.re[0]

	second, err := a.Analyze(sig)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if &a.re[0] != scratch {
		t.Error("scratch buffers reallocated on second analysis")
	}

	if first.PeakBin() != second.PeakBin() {
		t.Errorf("peak bin changed across calls: %d vs %d",
			first.PeakBin(), second.PeakBin())
	}

	for i := range first.Magnitude {
		if first.Magnitude[i] != second.Magnitude[i] {
			t.Fatalf("bin %d differs across calls: %v vs %v",
				i, first.Magnitude[i], second.Magnitude[i])
		}
	}
}

func TestMagnitudeDB(t *testing.T) {
	r := &Result{Magnitude: []float64{0, 1, 2}, SampleRate: 48000, FFTSize: 4}

	if got := r.MagnitudeDB(0); !math.IsInf(got, -1) {
		t.Errorf("silent bin: got %v want -Inf", got)
	}

	if got := r.MagnitudeDB(1); got != 0 {
		t.Errorf("unity bin: got %v want 0", got)
	}

	want := 20 * math.Log10(2)
	if got := r.MagnitudeDB(2); math.Abs(got-want) > 1e-12 {
		t.Errorf("bin of 2: got %v want %v", got, want)
	}
}
