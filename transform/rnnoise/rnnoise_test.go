// SPDX-License-Identifier: EPL-2.0

//go:build rnnoise

package rnnoise

import (
	"testing"

	"github.com/ik5/pcmdenoise/transform"
)

func TestRNNoise_Geometry(t *testing.T) {
	f, err := New()
	if err != nil {
		t.Fatal(err)
	}
	if f.FrameSize() != transform.DefaultFrameSize {
		t.Errorf("FrameSize() = %d, want %d", f.FrameSize(), transform.DefaultFrameSize)
	}
	if f.SampleRate() != transform.DefaultSampleRate {
		t.Errorf("SampleRate() = %d, want %d", f.SampleRate(), transform.DefaultSampleRate)
	}
}

func TestRNNoise_SilenceStaysQuiet(t *testing.T) {
	f, err := New()
	if err != nil {
		t.Fatal(err)
	}
	st, err := f.NewState()
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	in := make([]float32, f.FrameSize())
	out := make([]float32, f.FrameSize())
	for range 50 {
		vad := st.ProcessFrame(out, in)
		if vad < 0 || vad > 1 {
			t.Fatalf("ProcessFrame() = %v, want a probability", vad)
		}
	}
	for i, x := range out {
		if x > 1 || x < -1 {
			t.Fatalf("out[%d] = %v, want near silence", i, x)
		}
	}
}

func TestRNNoise_CloseTwice(t *testing.T) {
	f, _ := New()
	st, err := f.NewState()
	if err != nil {
		t.Fatal(err)
	}
	if err := st.Close(); err != nil {
		t.Fatal(err)
	}
	if err := st.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}
