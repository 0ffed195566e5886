// SPDX-License-Identifier: EPL-2.0

package raw

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/pcmdenoise/audio"
	"github.com/ik5/pcmdenoise/formats/wav"
)

// ErrSampleRate is returned when a Decoder has no usable sample rate.
var ErrSampleRate = errors.New("raw: sample rate must be positive")

// Decoder implements audio.Decoder for headerless mono 16-bit PCM.
type Decoder struct {
	SampleRate int
}

func (d Decoder) Decode(r io.Reader) (audio.Source, error) {
	if d.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrSampleRate, d.SampleRate)
	}
	// The zero Location is unbounded: the whole stream is payload.
	pcm := wav.NewPCMReader(r, wav.Location{})
	return wav.NewSource(pcm, wav.Mono16(d.SampleRate)), nil
}
