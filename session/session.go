// SPDX-License-Identifier: EPL-2.0

// Package session owns one long-lived transform state across any number of
// frame calls.
//
// A Session moves through three statuses:
//
//	Uninitialized --Init/ProcessOne--> Ready --Destroy--> Destroyed
//
// Init on a Ready session closes the current state before creating the next
// one, so a session never holds two states. Destroyed is terminal.
//
// A Session is not safe for concurrent use: the transform carries history
// from frame to frame, so frame order is part of its contract. Run one
// Session per stream instead.
package session

import (
	"errors"
	"fmt"

	"github.com/ik5/pcmdenoise/transform"
)

var (
	ErrInvalidArgument = errors.New("session: invalid argument")
	ErrDestroyed       = errors.New("session: destroyed")
)

type Status int

const (
	Uninitialized Status = iota
	Ready
	Destroyed
)

func (s Status) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Ready:
		return "ready"
	case Destroyed:
		return "destroyed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

type Session struct {
	factory transform.Factory
	state   transform.State
	status  Status
	result  Result
}

// New returns an Uninitialized session. No transform state is created until
// Init or the first ProcessOne.
func New(f transform.Factory) *Session {
	return &Session{factory: f}
}

func (s *Session) Status() Status { return s.status }
func (s *Session) FrameSize() int { return s.factory.FrameSize() }

// Result returns the statistics gathered since the last Init.
func (s *Session) Result() Result { return s.result }

// Init creates a fresh transform state, closing the current one first. On
// failure the session is left Uninitialized.
func (s *Session) Init() error {
	if s.status == Destroyed {
		return ErrDestroyed
	}
	if s.status == Ready {
		// Release is best-effort; a failing Close must not block getting a
		// working state back.
		_ = s.state.Close()
		s.state = nil
		s.status = Uninitialized
	}

	st, err := s.factory.NewState()
	switch {
	case err != nil && errors.Is(err, transform.ErrAllocation):
		return fmt.Errorf("session: %w", err)
	case err != nil:
		return fmt.Errorf("session: %w: %w", transform.ErrAllocation, err)
	case st == nil:
		return fmt.Errorf("session: %w", transform.ErrAllocation)
	}

	s.state = st
	s.status = Ready
	s.result = Result{}
	return nil
}

// ProcessOne feeds a single frame through the transform, initialising the
// session first if needed, and returns the frame's statistic. Both buffers
// must be exactly FrameSize long.
func (s *Session) ProcessOne(out, in []float32) (float32, error) {
	if s.status == Destroyed {
		return 0, ErrDestroyed
	}
	if err := s.checkFrame(out, in); err != nil {
		return 0, err
	}
	if s.status == Uninitialized {
		if err := s.Init(); err != nil {
			return 0, err
		}
	}

	vad := s.state.ProcessFrame(out, in)
	s.result.Add(vad, len(in))
	return vad, nil
}

// ProcessMany runs the frames in order and returns the mean of their
// statistics. Every frame is validated before the first one is processed.
func (s *Session) ProcessMany(out, in [][]float32) (float32, error) {
	if len(in) == 0 {
		return 0, fmt.Errorf("%w: no frames", ErrInvalidArgument)
	}
	if len(out) != len(in) {
		return 0, fmt.Errorf("%w: %d output frames for %d input frames", ErrInvalidArgument, len(out), len(in))
	}
	for i := range in {
		if err := s.checkFrame(out[i], in[i]); err != nil {
			return 0, fmt.Errorf("frame %d: %w", i, err)
		}
	}

	var sum float64
	for i := range in {
		vad, err := s.ProcessOne(out[i], in[i])
		if err != nil {
			return 0, err
		}
		sum += float64(vad)
	}
	return float32(sum / float64(len(in))), nil
}

// ProcessInterleaved is ProcessMany over flat buffers holding frameCount
// consecutive frames each.
func (s *Session) ProcessInterleaved(out, in []float32, frameCount int) (float32, error) {
	if in == nil || out == nil {
		return 0, fmt.Errorf("%w: nil buffer", ErrInvalidArgument)
	}
	if frameCount <= 0 {
		return 0, fmt.Errorf("%w: frame count %d", ErrInvalidArgument, frameCount)
	}
	size := s.FrameSize()
	// frameCount*size can overflow int.
	if frameCount > len(in)/size || frameCount > len(out)/size {
		return 0, fmt.Errorf("%w: %d frames of %d samples, got in=%d out=%d",
			ErrInvalidArgument, frameCount, size, len(in), len(out))
	}

	ins := make([][]float32, frameCount)
	outs := make([][]float32, frameCount)
	for i := range frameCount {
		ins[i] = in[i*size : (i+1)*size : (i+1)*size]
		outs[i] = out[i*size : (i+1)*size : (i+1)*size]
	}
	return s.ProcessMany(outs, ins)
}

// Destroy releases the transform state of a Ready session and makes the
// session Destroyed. It is a no-op otherwise.
func (s *Session) Destroy() error {
	if s.status != Ready {
		return nil
	}
	err := s.state.Close()
	s.state = nil
	s.status = Destroyed
	if err != nil {
		return fmt.Errorf("session: release state: %w", err)
	}
	return nil
}

// Close is Destroy, for use with defer.
func (s *Session) Close() error {
	return s.Destroy()
}

func (s *Session) checkFrame(out, in []float32) error {
	size := s.FrameSize()
	if in == nil || out == nil {
		return fmt.Errorf("%w: nil frame", ErrInvalidArgument)
	}
	if len(in) != size || len(out) != size {
		return fmt.Errorf("%w: %w: want %d samples, got in=%d out=%d",
			ErrInvalidArgument, transform.ErrFrameSize, size, len(in), len(out))
	}
	return nil
}
