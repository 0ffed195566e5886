// SPDX-License-Identifier: EPL-2.0

// Package transform defines the per-frame audio transform consumed by the
// session and pipeline packages.
//
// A transform is stateful: each State carries history from every frame it
// has seen, so frames must be fed in stream order and a State must never be
// shared between goroutines. Independent streams each get their own State.
package transform

import "errors"

const (
	// DefaultFrameSize is 10ms at DefaultSampleRate.
	DefaultFrameSize  = 480
	DefaultSampleRate = 48000
)

var (
	ErrAllocation = errors.New("transform: state allocation failed")
	ErrFrameSize  = errors.New("transform: frame has the wrong length")
)

// State is one live transform instance.
type State interface {
	// ProcessFrame transforms exactly FrameSize samples from in into out and
	// returns the frame's voice-activity probability. Samples are on the
	// int16 scale, not normalised.
	ProcessFrame(out, in []float32) float32

	// Close releases the instance. The State must not be used afterwards.
	Close() error
}

// Factory creates States and reports the fixed frame geometry they expect.
type Factory interface {
	NewState() (State, error)
	FrameSize() int
	SampleRate() int
}
