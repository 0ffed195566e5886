// SPDX-License-Identifier: EPL-2.0

//go:build !rnnoise

package rnnoise

import (
	"errors"

	"github.com/ik5/pcmdenoise/transform"
)

// Available reports whether the binary was built with RNNoise.
const Available = false

var ErrNotBuilt = errors.New("rnnoise: not compiled in, rebuild with -tags rnnoise")

type Factory struct{}

func New() (*Factory, error) {
	return nil, ErrNotBuilt
}

func (*Factory) FrameSize() int  { return transform.DefaultFrameSize }
func (*Factory) SampleRate() int { return transform.DefaultSampleRate }

func (*Factory) NewState() (transform.State, error) {
	return nil, ErrNotBuilt
}
