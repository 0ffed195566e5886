// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
)

// PCMReader reads little-endian 16-bit samples from a data chunk payload.
// The underlying reader must already be positioned at Location.Offset.
type PCMReader struct {
	r   io.Reader
	buf []byte
}

// NewPCMReader bounds reading to the declared data size, so chunks that
// follow the payload never leak into the samples. Files whose data size is
// 0 or UnknownDataSize are read until the end of the stream. A dangling odd
// byte at the end is ignored.
func NewPCMReader(r io.Reader, loc Location) *PCMReader {
	if loc.Bounded() {
		r = io.LimitReader(r, int64(loc.Size))
	}
	return &PCMReader{r: bufio.NewReader(r)}
}

func (p *PCMReader) ReadPCM16(dst []int16) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	need := len(dst) * 2
	if cap(p.buf) < need {
		p.buf = make([]byte, need)
	}
	buf := p.buf[:need]

	n, err := io.ReadFull(p.r, buf)
	samples := n / 2
	for i := range samples {
		dst[i] = int16(binary.LittleEndian.Uint16(buf[2*i:]))
	}

	switch {
	case err == nil:
		return samples, nil
	case isShort(err):
		if samples == 0 {
			return 0, io.EOF
		}
		return samples, nil
	default:
		return samples, fmt.Errorf("wav: read samples: %w", err)
	}
}
