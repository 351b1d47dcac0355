package core

import (
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name            string
		value, min, max float64
		want            float64
	}{
		{"below", -1, 0, 1, 0},
		{"above", 2, 0, 1, 1},
		{"inside", 0.5, 0, 1, 0.5},
		{"swapped bounds", 0.5, 1, 0, 0.5},
		{"at lower", 0, 0, 1, 0},
	}

	for _, tc := range tests {
		if got := Clamp(tc.value, tc.min, tc.max); got != tc.want {
			t.Errorf("%s: Clamp(%v, %v, %v) = %v, want %v",
				tc.name, tc.value, tc.min, tc.max, got, tc.want)
		}
	}
}

func TestNearlyEqual(t *testing.T) {
	if !NearlyEqual(1.0, 1.0+1e-13, 1e-12) {
		t.Error("values within eps reported unequal")
	}

	if NearlyEqual(1.0, 1.1, 1e-12) {
		t.Error("distant values reported equal")
	}

	if !NearlyEqual(0, 0, 0) {
		t.Error("zero self-comparison failed with default epsilon")
	}
}

func TestFlushDenormals(t *testing.T) {
	if got := FlushDenormals(1e-40); got != 0 {
		t.Errorf("denormal not flushed: %g", got)
	}

	if got := FlushDenormals(0.25); got != 0.25 {
		t.Errorf("normal value altered: %g", got)
	}

	if got := FlushDenormals(-1e-35); got != 0 {
		t.Errorf("negative denormal not flushed: %g", got)
	}
}

func TestDBConversionRoundTrip(t *testing.T) {
	for _, db := range []float64{-60, -6, 0, 6, 20} {
		lin := DBToLinear(db)
		if got := LinearToDB(lin); math.Abs(got-db) > 1e-9 {
			t.Errorf("round trip %v dB: got %v", db, got)
		}
	}

	if !math.IsInf(LinearToDB(0), -1) {
		t.Error("LinearToDB(0) should be -Inf")
	}

	if !math.IsNaN(LinearToDB(-1)) {
		t.Error("LinearToDB(-1) should be NaN")
	}
}

func TestEnsureLen(t *testing.T) {
	buf := make([]float64, 4, 16)

	out := EnsureLen(buf, 8)
	if len(out) != 8 {
		t.Fatalf("len: got %d want 8", len(out))
	}
	if &out[0] != &buf[0] {
		t.Error("capacity not reused")
	}

	out = EnsureLen(buf, 32)
	if len(out) != 32 {
		t.Fatalf("len: got %d want 32", len(out))
	}

	out = EnsureLen(buf, 0)
	if len(out) != 0 {
		t.Fatalf("len: got %d want 0", len(out))
	}
}

func TestZero(t *testing.T) {
	buf := []float64{1, -2, 3}
	Zero(buf)
	for i, v := range buf {
		if v != 0 {
			t.Fatalf("buf[%d] = %v after Zero", i, v)
		}
	}
}

func TestProcessorOptions(t *testing.T) {
	cfg := ApplyProcessorOptions(WithSampleRate(44100), WithBlockSize(256))
	if cfg.SampleRate != 44100 || cfg.BlockSize != 256 {
		t.Fatalf("unexpected config: %+v", cfg)
	}

	// Invalid values keep defaults.
	cfg = ApplyProcessorOptions(WithSampleRate(-1), WithBlockSize(0), nil)
	def := DefaultProcessorConfig()
	if cfg != def {
		t.Fatalf("invalid options should keep defaults: %+v", cfg)
	}
}
