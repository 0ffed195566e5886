// SPDX-License-Identifier: EPL-2.0

// Package passthrough is the identity transform. It is what the pipeline
// runs when no denoiser is compiled in, and it reports zero voice activity.
package passthrough

import (
	"fmt"

	"github.com/ik5/pcmdenoise/transform"
)

type Factory struct {
	frameSize  int
	sampleRate int
}

// New returns a factory for the given frame geometry. Zero values select
// transform.DefaultFrameSize and transform.DefaultSampleRate.
func New(frameSize, sampleRate int) (*Factory, error) {
	if frameSize == 0 {
		frameSize = transform.DefaultFrameSize
	}
	if sampleRate == 0 {
		sampleRate = transform.DefaultSampleRate
	}
	if frameSize < 0 || sampleRate < 0 {
		return nil, fmt.Errorf("passthrough: invalid geometry %d samples @ %d Hz", frameSize, sampleRate)
	}
	return &Factory{frameSize: frameSize, sampleRate: sampleRate}, nil
}

func (f *Factory) FrameSize() int  { return f.frameSize }
func (f *Factory) SampleRate() int { return f.sampleRate }

func (f *Factory) NewState() (transform.State, error) {
	return state{}, nil
}

type state struct{}

func (state) ProcessFrame(out, in []float32) float32 {
	copy(out, in)
	return 0
}

func (state) Close() error { return nil }
