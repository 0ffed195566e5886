// SPDX-License-Identifier: EPL-2.0

//go:build rnnoise

package rnnoise

/*
#cgo pkg-config: rnnoise
#include <rnnoise.h>
*/
import "C"

import (
	"unsafe"

	"github.com/ik5/pcmdenoise/transform"
)

// Available reports whether the binary was built with RNNoise.
const Available = true

type Factory struct {
	frameSize int
}

func New() (*Factory, error) {
	return &Factory{frameSize: int(C.rnnoise_get_frame_size())}, nil
}

func (f *Factory) FrameSize() int  { return f.frameSize }
func (f *Factory) SampleRate() int { return transform.DefaultSampleRate }

func (f *Factory) NewState() (transform.State, error) {
	st := C.rnnoise_create(nil)
	if st == nil {
		return nil, transform.ErrAllocation
	}
	return &state{st: st, frameSize: f.frameSize}, nil
}

type state struct {
	st        *C.DenoiseState
	frameSize int
}

// ProcessFrame hands both buffers to C, so anything shorter than a frame
// would be read or written out of bounds.
func (s *state) ProcessFrame(out, in []float32) float32 {
	if len(in) < s.frameSize || len(out) < s.frameSize {
		panic(transform.ErrFrameSize)
	}
	vad := C.rnnoise_process_frame(s.st,
		(*C.float)(unsafe.Pointer(&out[0])),
		(*C.float)(unsafe.Pointer(&in[0])))
	return float32(vad)
}

func (s *state) Close() error {
	if s.st == nil {
		return nil
	}
	C.rnnoise_destroy(s.st)
	s.st = nil
	return nil
}
