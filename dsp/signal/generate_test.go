package signal

import (
	"math"
	"testing"

	"github.com/JoergBitzer/AAT-Delay/dsp/core"
)

func TestSineFrequency(t *testing.T) {
	g := NewGenerator(core.WithSampleRate(1000))

	out, err := g.Sine(250, 1, 8)
	if err != nil {
		t.Fatalf("Sine: %v", err)
	}

	// 250 Hz at 1 kHz: period of 4 samples -> 0, 1, 0, -1, ...
	want := []float64{0, 1, 0, -1, 0, 1, 0, -1}
	for i := range want {
		if math.Abs(out[i]-want[i]) > 1e-12 {
			t.Fatalf("sample %d: got %v want %v", i, out[i], want[i])
		}
	}
}

func TestSineValidation(t *testing.T) {
	g := NewGenerator()

	if _, err := g.Sine(100, 1, 0); err == nil {
		t.Fatal("expected error for samples=0")
	}
}

func TestImpulse(t *testing.T) {
	g := NewGenerator()

	out, err := g.Impulse(0.5, 3, 8)
	if err != nil {
		t.Fatalf("Impulse: %v", err)
	}

	for i, v := range out {
		want := 0.0
		if i == 3 {
			want = 0.5
		}
		if v != want {
			t.Fatalf("sample %d: got %v want %v", i, v, want)
		}
	}
}

func TestImpulseValidation(t *testing.T) {
	g := NewGenerator()

	if _, err := g.Impulse(1, 8, 8); err == nil {
		t.Fatal("expected error for out-of-range position")
	}

	if _, err := g.Impulse(1, -1, 8); err == nil {
		t.Fatal("expected error for negative position")
	}
}

func TestWhiteNoiseDeterministic(t *testing.T) {
	g1 := NewGeneratorWithOptions(nil, WithSeed(7))
	g2 := NewGeneratorWithOptions(nil, WithSeed(7))

	a, err := g1.WhiteNoise(1, 64)
	if err != nil {
		t.Fatalf("WhiteNoise: %v", err)
	}

	b, err := g2.WhiteNoise(1, 64)
	if err != nil {
		t.Fatalf("WhiteNoise: %v", err)
	}

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("sample %d differs between equal seeds", i)
		}
		if a[i] < -1 || a[i] > 1 {
			t.Fatalf("sample %d out of range: %v", i, a[i])
		}
	}
}

func TestNormalize(t *testing.T) {
	out, err := Normalize([]float64{0.5, -0.25, 0.1}, 1.0)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	if math.Abs(out[0]-1.0) > 1e-12 {
		t.Fatalf("peak: got %v want 1", out[0])
	}

	if _, err := Normalize(nil, 1); err == nil {
		t.Fatal("expected error for empty input")
	}
}
