// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ik5/pcmdenoise/audio"
	"github.com/ik5/pcmdenoise/utils"
)

type wavSource struct {
	pcm        audio.PCM16Reader
	sampleRate int
	tmp        []int16
}

// NewSource exposes a PCM reader as a normalised audio.Source.
func NewSource(pcm audio.PCM16Reader, f AudioFormat) audio.Source {
	return &wavSource{
		pcm:        pcm,
		sampleRate: f.SampleRate,
		tmp:        make([]int16, 4096),
	}
}

func (s *wavSource) SampleRate() int { return s.sampleRate }
func (s *wavSource) Channels() int   { return 1 }
func (s *wavSource) BufSize() int    { return cap(s.tmp) }
func (s *wavSource) Close() error    { return nil }

func (s *wavSource) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	if cap(s.tmp) < len(dst) {
		s.tmp = make([]int16, len(dst))
	}
	n, err := s.pcm.ReadPCM16(s.tmp[:len(dst)])
	for i, v := range s.tmp[:n] {
		dst[i] = utils.Int16ToFloat32(v)
	}
	return n, err
}

// Decoder implements audio.Decoder for mono 16-bit PCM WAV.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		// Header parsing seeks over sub-chunks, so buffer plain readers.
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading wav data: %w", err)
		}
		rs = bytes.NewReader(data)
	}

	hdr, err := ReadHeader(rs)
	if err != nil {
		return nil, err
	}
	if _, err := rs.Seek(hdr.Location.Offset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("wav: seek to data: %w", err)
	}

	return NewSource(NewPCMReader(rs, hdr.Location), hdr.Format), nil
}
