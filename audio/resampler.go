// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
	"math"

	"github.com/ik5/pcmdenoise/utils"
)

// Resampler streams a mono source at a different sample rate using cubic
// interpolation. When downsampling, incoming samples go through a one-pole
// low-pass filter first.
type Resampler struct {
	src     Source
	dstRate int
	step    float64 // source samples per output sample

	// window of source samples; window[head] is absolute sample first
	window []float32
	head   int
	first  int64
	eof    bool

	produced int64
	readBuf  []float32

	useFilter   bool
	filterAlpha float32
	filterState float32
}

func NewResampler(src Source, dstRate int) (*Resampler, error) {
	if src.Channels() != 1 {
		return nil, fmt.Errorf("%w: got %d channels", ErrNotMono, src.Channels())
	}
	if dstRate <= 0 || src.SampleRate() <= 0 {
		return nil, fmt.Errorf("%w: %d -> %d", ErrInvalidRate, src.SampleRate(), dstRate)
	}

	step := float64(src.SampleRate()) / float64(dstRate)
	r := &Resampler{
		src:     src,
		dstRate: dstRate,
		step:    step,
		readBuf: make([]float32, 4096),
	}
	if step > 1 {
		r.useFilter = true
		r.filterAlpha = 0.5
	}
	return r, nil
}

func (r *Resampler) SampleRate() int { return r.dstRate }
func (r *Resampler) Channels() int   { return 1 }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("audio: resample: %w", err)
	}
	return nil
}

func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	n := 0
	for n < len(dst) {
		// Output k sits at source position k*step; computing it from the
		// counter avoids accumulating rounding error over long streams.
		pos := float64(r.produced) * r.step
		i := int64(math.Floor(pos))

		if err := r.fill(i + 2); err != nil {
			return n, err
		}
		if i > r.last() {
			if n == 0 {
				return 0, io.EOF
			}
			return n, nil
		}

		dst[n] = utils.CubicInterpolate(r.at(i-1), r.at(i), r.at(i+1), r.at(i+2), float32(pos-float64(i)))
		n++
		r.produced++
		r.discardBefore(i - 1)
	}
	return n, nil
}

// last is the absolute index of the newest buffered sample, -1 when none.
func (r *Resampler) last() int64 {
	return r.first + int64(len(r.window)-r.head) - 1
}

// at returns absolute sample k, repeating the edge samples outside the
// buffered range.
func (r *Resampler) at(k int64) float32 {
	k = max(r.first, min(k, r.last()))
	return r.window[r.head+int(k-r.first)]
}

func (r *Resampler) fill(need int64) error {
	stalls := 0
	for !r.eof && r.last() < need {
		n, err := r.src.ReadSamples(r.readBuf)
		if n > 0 {
			stalls = 0
			if r.head > 0 && r.head >= len(r.window)/2 {
				r.window = append(r.window[:0], r.window[r.head:]...)
				r.head = 0
			}
			for _, x := range r.readBuf[:n] {
				if r.useFilter {
					x = r.filterAlpha*x + (1-r.filterAlpha)*r.filterState
					r.filterState = x
				}
				r.window = append(r.window, x)
			}
		}
		switch {
		case err == io.EOF:
			r.eof = true
		case err != nil:
			return fmt.Errorf("audio: resample: %w", err)
		case n == 0:
			stalls++
			if stalls > 100 {
				return io.ErrNoProgress
			}
		}
	}
	return nil
}

func (r *Resampler) discardBefore(k int64) {
	drop := min(k-r.first, int64(len(r.window)-r.head))
	if drop <= 0 {
		return
	}
	r.head += int(drop)
	r.first += drop
}
