// SPDX-License-Identifier: EPL-2.0

package pcmdenoise

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/ik5/pcmdenoise/formats/wav"
	"github.com/ik5/pcmdenoise/internal/audiotest"
	"github.com/ik5/pcmdenoise/session"
	"github.com/ik5/pcmdenoise/transform"
	"github.com/ik5/pcmdenoise/transform/transformtest"
)

func TestDenoiseFrames(t *testing.T) {
	t.Parallel()

	f := transformtest.New()
	f.Size = 4
	f.Process = func(x float32) float32 { return -x }

	in := []float32{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	out := make([]float32, len(in))

	vad, err := DenoiseFrames(out, in, 3, f)
	if err != nil {
		t.Fatalf("DenoiseFrames() error = %v", err)
	}
	// The fake reports 1, 2, 3 for three frames on one state.
	if vad != 2 {
		t.Errorf("vad = %v, want 2", vad)
	}
	for i := range in {
		if out[i] != -in[i] {
			t.Fatalf("out[%d] = %v, want %v", i, out[i], -in[i])
		}
	}
	if f.Created() != 1 || f.Live() != 0 {
		t.Errorf("created=%d live=%d, want one state released", f.Created(), f.Live())
	}
}

func TestDenoiseFrames_NoHistoryBetweenCalls(t *testing.T) {
	t.Parallel()

	f := transformtest.New()
	f.Size = 2
	in := []float32{1, 2}
	out := make([]float32, 2)

	for range 3 {
		vad, err := DenoiseFrames(out, in, 1, f)
		if err != nil {
			t.Fatal(err)
		}
		if vad != 1 {
			t.Errorf("vad = %v, want 1 on a fresh state", vad)
		}
	}
	if f.Created() != 3 || f.Destroyed() != 3 {
		t.Errorf("created=%d destroyed=%d, want 3/3", f.Created(), f.Destroyed())
	}
}

func TestDenoiseFrames_Errors(t *testing.T) {
	t.Parallel()

	f := transformtest.New()
	f.Size = 4

	tests := []struct {
		name    string
		out, in []float32
		frames  int
	}{
		{"nil input", make([]float32, 4), nil, 1},
		{"zero frames", make([]float32, 4), make([]float32, 4), 0},
		{"short output", make([]float32, 3), make([]float32, 8), 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := DenoiseFrames(tt.out, tt.in, tt.frames, f)
			if !errors.Is(err, session.ErrInvalidArgument) {
				t.Errorf("error = %v, want ErrInvalidArgument", err)
			}
		})
	}

	if f.Created() != 0 {
		t.Errorf("created %d states for invalid arguments", f.Created())
	}
}

func TestDenoiseFrames_AllocationFailure(t *testing.T) {
	t.Parallel()

	f := transformtest.New()
	f.Size = 1
	f.CreateErr = errors.New("out of memory")

	_, err := DenoiseFrames(make([]float32, 1), make([]float32, 1), 1, f)
	if !errors.Is(err, transform.ErrAllocation) {
		t.Errorf("error = %v, want ErrAllocation", err)
	}
}

func TestDenoiseFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := filepath.Join(dir, "in.wav")
	out := filepath.Join(dir, "out.wav")
	samples := audiotest.Ramp(1000, -500)
	if err := os.WriteFile(in, audiotest.MonoWAV(48000, samples).Bytes(), 0o600); err != nil {
		t.Fatal(err)
	}

	res, err := DenoiseFile(context.Background(), in, out, transformtest.New())
	if err != nil {
		t.Fatalf("DenoiseFile() error = %v", err)
	}
	if res.Frames != 3 || res.Samples != 1000 {
		t.Errorf("frames=%d samples=%d, want 3/1000", res.Frames, res.Samples)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if got := audiotest.Samples(data[wav.HeaderSize:]); !slices.Equal(got, samples) {
		t.Errorf("output samples differ from input")
	}
}
