// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"errors"
	"fmt"
)

var (
	ErrNotWavFile          = errors.New("not a WAV file")
	ErrMissingChunk        = errors.New("missing WAV chunk")
	ErrUnsupportedFormat   = errors.New("only PCM WAV is supported")
	ErrUnsupportedChannels = errors.New("only mono WAV is supported")
	ErrUnsupportedBitDepth = errors.New("only 16-bit WAV is supported")
	ErrTruncated           = errors.New("truncated WAV header")
	ErrDataTooLarge        = errors.New("data size does not fit a RIFF header")
)

// MissingChunkError reports the sub-chunk that was not found before the end
// of the stream. It matches ErrMissingChunk with errors.Is.
type MissingChunkError struct {
	ID string
}

func (e *MissingChunkError) Error() string {
	return fmt.Sprintf("%v: %q", ErrMissingChunk, e.ID)
}

func (e *MissingChunkError) Is(target error) bool {
	return target == ErrMissingChunk
}

// SampleRateWarning is the one non-fatal header condition: the file declares
// a sample rate other than the one the transform expects.
type SampleRateWarning struct {
	Got  int
	Want int
}

func (w *SampleRateWarning) Error() string {
	return fmt.Sprintf("sample rate is %d Hz, transform expects %d Hz", w.Got, w.Want)
}
