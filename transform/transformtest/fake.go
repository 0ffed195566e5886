// SPDX-License-Identifier: EPL-2.0

// Package transformtest provides a scriptable transform.Factory that records
// every state it hands out and every frame it sees.
//
// Each State returns a running counter as its statistic: the n-th frame a
// State processes yields n. That makes ordering and state reuse observable
// from the aggregated statistic alone.
package transformtest

import (
	"errors"
	"sync"

	"github.com/ik5/pcmdenoise/transform"
)

var ErrDoubleClose = errors.New("transformtest: state closed twice")

// Call records one ProcessFrame invocation.
type Call struct {
	// State is the 1-based creation index of the State that was used.
	State int
	// First is in[0], enough to tell frames apart in tests.
	First float32
}

type Factory struct {
	Size int
	Rate int

	// CreateErr, if non-nil, is returned by NewState.
	CreateErr error

	// Process, if set, computes each output sample; identity otherwise.
	Process func(x float32) float32

	mu        sync.Mutex
	created   int
	destroyed int
	live      int
	maxLive   int
	calls     []Call
}

// New returns a fake with the default frame geometry.
func New() *Factory {
	return &Factory{Size: transform.DefaultFrameSize, Rate: transform.DefaultSampleRate}
}

func (f *Factory) FrameSize() int  { return f.Size }
func (f *Factory) SampleRate() int { return f.Rate }

func (f *Factory) NewState() (transform.State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.CreateErr != nil {
		return nil, f.CreateErr
	}
	f.created++
	f.live++
	f.maxLive = max(f.maxLive, f.live)
	return &State{f: f, id: f.created}, nil
}

func (f *Factory) Created() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.created
}

func (f *Factory) Destroyed() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.destroyed
}

// Live is the number of states created and not yet closed.
func (f *Factory) Live() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.live
}

// MaxLive is the highest Live value ever observed.
func (f *Factory) MaxLive() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.maxLive
}

func (f *Factory) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

type State struct {
	f      *Factory
	id     int
	frames int
	closed bool
}

func (s *State) ProcessFrame(out, in []float32) float32 {
	if s.closed {
		panic("transformtest: ProcessFrame on closed state")
	}
	for i, x := range in {
		if s.f.Process != nil {
			x = s.f.Process(x)
		}
		out[i] = x
	}
	s.frames++

	s.f.mu.Lock()
	s.f.calls = append(s.f.calls, Call{State: s.id, First: in[0]})
	s.f.mu.Unlock()

	return float32(s.frames)
}

func (s *State) Close() error {
	if s.closed {
		return ErrDoubleClose
	}
	s.closed = true

	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	s.f.destroyed++
	s.f.live--
	return nil
}
