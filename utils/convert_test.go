// SPDX-License-Identifier: EPL-2.0

package utils

import (
	"math"
	"testing"
)

func TestClampInt16(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   float32
		want int16
	}{
		{"zero", 0, 0},
		{"in range", 1234, 1234},
		{"truncates positive", 100.9, 100},
		{"truncates negative", -100.9, -100},
		{"max", 32767, 32767},
		{"min", -32768, -32768},
		{"just over max", 32767.5, 32767},
		{"saturates high", 40000, 32767},
		{"saturates low", -40000, -32768},
		{"+inf", float32(math.Inf(1)), 32767},
		{"-inf", float32(math.Inf(-1)), -32768},
		{"NaN", float32(math.NaN()), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ClampInt16(tt.in); got != tt.want {
				t.Errorf("ClampInt16(%v) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestInt16Float32_RoundTrip(t *testing.T) {
	t.Parallel()

	for v := math.MinInt16; v <= math.MaxInt16; v++ {
		x := Int16ToFloat32(int16(v))
		if x < -1 || x >= 1 {
			t.Fatalf("Int16ToFloat32(%d) = %v, outside [-1, 1)", v, x)
		}
		if got := Float32ToInt16(x); got != int16(v) {
			t.Fatalf("round trip of %d gave %d", v, got)
		}
	}
}

func TestFloat32ToInt16_Saturates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   float32
		want int16
	}{
		{1.0, 32767},
		{1.5, 32767},
		{-1.0, -32768},
		{-2.0, -32768},
		{0.5, 16384},
	}
	for _, tt := range tests {
		if got := Float32ToInt16(tt.in); got != tt.want {
			t.Errorf("Float32ToInt16(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestCubicInterpolate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		y0, y1, y2, y3 float32
		x              float32
		want           float32
		tolerance      float32
	}{
		{"start returns y1", 0, 1, 2, 3, 0, 1, 0},
		{"linear quarter", 1, 2, 3, 4, 0.25, 2.25, 0.001},
		{"linear midpoint", 0, 1, 2, 3, 0.5, 1.5, 0.001},
		{"symmetric step", -1, -0.5, 0.5, 1, 0.5, 0, 0.001},
		{"flat", 0.3, 0.3, 0.3, 0.3, 0.7, 0.3, 0.001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := CubicInterpolate(tt.y0, tt.y1, tt.y2, tt.y3, tt.x)
			if diff := math.Abs(float64(got - tt.want)); diff > float64(tt.tolerance) {
				t.Errorf("CubicInterpolate() = %v, want %v (diff %v)", got, tt.want, diff)
			}
		})
	}
}

func TestConversions_ZeroAllocs(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping allocation test in short mode")
	}

	allocs := testing.AllocsPerRun(1000, func() {
		_ = ClampInt16(40000)
		_ = Float32ToInt16(0.25)
		_ = Int16ToFloat32(-12)
		_ = CubicInterpolate(0.5, 1.0, 0.8, 0.3, 0.5)
	})
	if allocs > 0 {
		t.Errorf("conversions allocated %v times, want 0", allocs)
	}
}

func BenchmarkClampInt16(b *testing.B) {
	frame := make([]float32, 480)
	for i := range frame {
		frame[i] = float32(i*150 - 36000)
	}
	out := make([]int16, len(frame))

	b.ReportAllocs()
	for b.Loop() {
		for i, x := range frame {
			out[i] = ClampInt16(x)
		}
	}
}
