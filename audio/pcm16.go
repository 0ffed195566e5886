// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"

	"github.com/ik5/pcmdenoise/utils"
)

// SourceReader adapts a mono Source to PCM16Reader.
type SourceReader struct {
	src Source
	tmp []float32
}

func NewSourceReader(src Source) (*SourceReader, error) {
	if src.Channels() != 1 {
		return nil, fmt.Errorf("%w: got %d channels", ErrNotMono, src.Channels())
	}
	return &SourceReader{src: src}, nil
}

// ReadPCM16 keeps pulling from the source until dst is full or the source is
// exhausted, since sources are free to return fewer samples than asked for.
func (r *SourceReader) ReadPCM16(dst []int16) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	if cap(r.tmp) < len(dst) {
		r.tmp = make([]float32, len(dst))
	}
	tmp := r.tmp[:len(dst)]

	filled := 0
	stalls := 0
	for filled < len(dst) {
		n, err := r.src.ReadSamples(tmp[filled:])
		for i := range n {
			dst[filled+i] = utils.Float32ToInt16(tmp[filled+i])
		}
		filled += n

		switch {
		case err == io.EOF:
			if filled == 0 {
				return 0, io.EOF
			}
			return filled, nil
		case err != nil:
			return filled, fmt.Errorf("audio: read source: %w", err)
		case n == 0:
			stalls++
			if stalls > 100 {
				return filled, io.ErrNoProgress
			}
		default:
			stalls = 0
		}
	}
	return filled, nil
}

func (r *SourceReader) Close() error {
	return r.src.Close()
}
