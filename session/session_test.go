// SPDX-License-Identifier: EPL-2.0

package session

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/ik5/pcmdenoise/transform"
	"github.com/ik5/pcmdenoise/transform/transformtest"
)

func frames(n, size int) (out, in [][]float32) {
	out = make([][]float32, n)
	in = make([][]float32, n)
	for i := range n {
		out[i] = make([]float32, size)
		in[i] = make([]float32, size)
		in[i][0] = float32(i + 1)
	}
	return out, in
}

func TestSession_LazyInit(t *testing.T) {
	t.Parallel()

	f := transformtest.New()
	s := New(f)
	if s.Status() != Uninitialized {
		t.Fatalf("Status() = %v, want uninitialized", s.Status())
	}
	if f.Created() != 0 {
		t.Fatalf("New created %d states, want 0", f.Created())
	}

	out, in := frames(1, f.Size)
	if _, err := s.ProcessOne(out[0], in[0]); err != nil {
		t.Fatalf("ProcessOne() error = %v", err)
	}
	if s.Status() != Ready {
		t.Errorf("Status() = %v, want ready", s.Status())
	}
	if f.Created() != 1 {
		t.Errorf("Created() = %d, want 1", f.Created())
	}
}

func TestSession_ReinitReleasesFirst(t *testing.T) {
	t.Parallel()

	f := transformtest.New()
	s := New(f)
	for range 5 {
		if err := s.Init(); err != nil {
			t.Fatal(err)
		}
	}

	if f.Created() != 5 {
		t.Errorf("Created() = %d, want 5", f.Created())
	}
	if f.Destroyed() != 4 {
		t.Errorf("Destroyed() = %d, want 4", f.Destroyed())
	}
	if f.MaxLive() != 1 {
		t.Errorf("MaxLive() = %d, want 1", f.MaxLive())
	}
}

func TestSession_ReinitResetsHistory(t *testing.T) {
	t.Parallel()

	f := transformtest.New()
	s := New(f)
	out, in := frames(3, f.Size)

	for i := range 3 {
		if _, err := s.ProcessOne(out[i], in[i]); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}
	if r := s.Result(); r.Frames != 0 {
		t.Errorf("Result().Frames after Init = %d, want 0", r.Frames)
	}

	// The counter starts over, so the new state has no history.
	vad, err := s.ProcessOne(out[0], in[0])
	if err != nil {
		t.Fatal(err)
	}
	if vad != 1 {
		t.Errorf("first statistic after Init = %v, want 1", vad)
	}
}

func TestSession_OrderIsPreserved(t *testing.T) {
	t.Parallel()

	f := transformtest.New()
	s := New(f)
	out, in := frames(10, f.Size)

	mean, err := s.ProcessMany(out, in)
	if err != nil {
		t.Fatal(err)
	}
	// One state saw frames 1..10 in order, so the counter mean is 5.5.
	if mean != 5.5 {
		t.Errorf("mean = %v, want 5.5", mean)
	}

	calls := f.Calls()
	if len(calls) != 10 {
		t.Fatalf("got %d calls, want 10", len(calls))
	}
	for i, c := range calls {
		if c.State != 1 {
			t.Errorf("call %d used state %d, want 1", i, c.State)
		}
		if c.First != float32(i+1) {
			t.Errorf("call %d saw frame %v, want %d", i, c.First, i+1)
		}
	}
}

func TestSession_StatePersistsAcrossCalls(t *testing.T) {
	t.Parallel()

	f := transformtest.New()
	s := New(f)
	out, in := frames(2, f.Size)

	first, _ := s.ProcessMany(out[:1], in[:1])
	second, _ := s.ProcessMany(out[1:], in[1:])
	if first != 1 || second != 2 {
		t.Errorf("statistics = %v, %v, want 1, 2", first, second)
	}
	if f.Created() != 1 {
		t.Errorf("Created() = %d, want 1", f.Created())
	}
}

func TestSession_ProcessInterleaved(t *testing.T) {
	t.Parallel()

	f := transformtest.New()
	f.Size = 4
	f.Process = func(x float32) float32 { return -x }
	s := New(f)

	in := []float32{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	out := make([]float32, len(in))
	mean, err := s.ProcessInterleaved(out, in, 3)
	if err != nil {
		t.Fatal(err)
	}
	if mean != 2 {
		t.Errorf("mean = %v, want 2", mean)
	}
	for i, x := range in {
		if out[i] != -x {
			t.Errorf("out[%d] = %v, want %v", i, out[i], -x)
		}
	}
}

func TestSession_InvalidArguments(t *testing.T) {
	t.Parallel()

	size := transform.DefaultFrameSize
	ok := make([]float32, size)

	tests := []struct {
		name string
		call func(*Session) error
	}{
		{"nil in", func(s *Session) error { _, err := s.ProcessOne(ok, nil); return err }},
		{"nil out", func(s *Session) error { _, err := s.ProcessOne(nil, ok); return err }},
		{"short in", func(s *Session) error { _, err := s.ProcessOne(ok, ok[:100]); return err }},
		{"long out", func(s *Session) error { _, err := s.ProcessOne(make([]float32, size+1), ok); return err }},
		{"no frames", func(s *Session) error { _, err := s.ProcessMany(nil, nil); return err }},
		{"count mismatch", func(s *Session) error {
			_, err := s.ProcessMany([][]float32{ok}, [][]float32{ok, ok})
			return err
		}},
		{"bad frame in batch", func(s *Session) error {
			_, err := s.ProcessMany([][]float32{ok, ok}, [][]float32{ok, ok[:1]})
			return err
		}},
		{"zero count", func(s *Session) error { _, err := s.ProcessInterleaved(ok, ok, 0); return err }},
		{"negative count", func(s *Session) error { _, err := s.ProcessInterleaved(ok, ok, -1); return err }},
		{"count too large", func(s *Session) error { _, err := s.ProcessInterleaved(ok, ok, 2); return err }},
		{"count overflows", func(s *Session) error { _, err := s.ProcessInterleaved(ok, ok, math.MaxInt/2+1); return err }},
		{"nil flat buffer", func(s *Session) error { _, err := s.ProcessInterleaved(nil, ok, 1); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := transformtest.New()
			s := New(f)
			if err := tt.call(s); !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("error = %v, want ErrInvalidArgument", err)
			}
			// Nothing is processed when validation fails.
			if n := len(f.Calls()); n != 0 {
				t.Errorf("transform saw %d frames, want 0", n)
			}
		})
	}
}

func TestSession_WrongFrameSizeIsFrameSizeError(t *testing.T) {
	t.Parallel()

	s := New(transformtest.New())
	_, err := s.ProcessOne(make([]float32, 10), make([]float32, 10))
	if !errors.Is(err, transform.ErrFrameSize) {
		t.Errorf("error = %v, want transform.ErrFrameSize", err)
	}
}

func TestSession_Destroy(t *testing.T) {
	t.Parallel()

	f := transformtest.New()
	s := New(f)
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}

	if err := s.Destroy(); err != nil {
		t.Fatalf("Destroy() error = %v", err)
	}
	if s.Status() != Destroyed {
		t.Errorf("Status() = %v, want destroyed", s.Status())
	}
	// Second destroy is a no-op; the fake would report a double close.
	if err := s.Destroy(); err != nil {
		t.Errorf("second Destroy() error = %v", err)
	}
	if f.Destroyed() != 1 {
		t.Errorf("Destroyed() = %d, want 1", f.Destroyed())
	}

	out, in := frames(1, f.Size)
	if _, err := s.ProcessOne(out[0], in[0]); !errors.Is(err, ErrDestroyed) {
		t.Errorf("ProcessOne() after Destroy error = %v, want ErrDestroyed", err)
	}
	if err := s.Init(); !errors.Is(err, ErrDestroyed) {
		t.Errorf("Init() after Destroy error = %v, want ErrDestroyed", err)
	}
	if f.Created() != 1 {
		t.Errorf("Created() = %d, want 1", f.Created())
	}
}

func TestSession_DestroyUninitialized(t *testing.T) {
	t.Parallel()

	f := transformtest.New()
	s := New(f)
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if s.Status() != Uninitialized {
		t.Errorf("Status() = %v, want uninitialized", s.Status())
	}
	if f.Destroyed() != 0 {
		t.Errorf("Destroyed() = %d, want 0", f.Destroyed())
	}
}

func TestSession_AllocationFailure(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
	}{
		{"allocation", transform.ErrAllocation},
		{"other", errors.New("out of handles")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := transformtest.New()
			f.CreateErr = tt.err
			s := New(f)

			if err := s.Init(); !errors.Is(err, transform.ErrAllocation) {
				t.Errorf("Init() error = %v, want ErrAllocation", err)
			}
			if s.Status() != Uninitialized {
				t.Errorf("Status() = %v, want uninitialized", s.Status())
			}

			out, in := frames(1, f.Size)
			if _, err := s.ProcessOne(out[0], in[0]); !errors.Is(err, transform.ErrAllocation) {
				t.Errorf("ProcessOne() error = %v, want ErrAllocation", err)
			}
		})
	}
}

func TestResult_MeanVAD(t *testing.T) {
	t.Parallel()

	var r Result
	if r.MeanVAD() != 0 {
		t.Errorf("empty MeanVAD() = %v, want 0", r.MeanVAD())
	}
	r.Add(0.25, 480)
	r.Add(0.75, 480)
	r.Add(0.5, 200)
	if math.Abs(r.MeanVAD()-0.5) > 1e-9 {
		t.Errorf("MeanVAD() = %v, want 0.5", r.MeanVAD())
	}
	if r.Frames != 3 || r.Samples != 1160 {
		t.Errorf("Result = %+v", r)
	}
}

func TestStatus_String(t *testing.T) {
	t.Parallel()

	for s, want := range map[Status]string{
		Uninitialized: "uninitialized",
		Ready:         "ready",
		Destroyed:     "destroyed",
		Status(9):     "Status(9)",
	} {
		if got := s.String(); got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	}
}

func ExampleSession() {
	f := transformtest.New()
	f.Size = 4

	s := New(f)
	defer s.Close()

	in := []float32{1, 2, 3, 4}
	out := make([]float32, 4)
	for range 3 {
		vad, err := s.ProcessOne(out, in)
		if err != nil {
			fmt.Println(err)
			return
		}
		fmt.Println("frame statistic:", vad)
	}
	fmt.Println("status:", s.Status())
	// Output:
	// frame statistic: 1
	// frame statistic: 2
	// frame statistic: 3
	// status: ready
}

func BenchmarkSession_ProcessOne(b *testing.B) {
	s := New(transformtest.New())
	defer s.Close()
	out := make([]float32, transform.DefaultFrameSize)
	in := make([]float32, transform.DefaultFrameSize)

	b.ReportAllocs()
	for b.Loop() {
		_, _ = s.ProcessOne(out, in)
	}
}
