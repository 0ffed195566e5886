// SPDX-License-Identifier: EPL-2.0

package session

// Result accumulates per-frame statistics over a stream.
type Result struct {
	Frames  int
	Samples int64
	vadSum  float64
}

// Add records one frame that produced vad and contributed samples samples.
func (r *Result) Add(vad float32, samples int) {
	r.Frames++
	r.Samples += int64(samples)
	r.vadSum += float64(vad)
}

// MeanVAD is the arithmetic mean of the statistics of all added frames, 0
// when there are none.
func (r Result) MeanVAD() float64 {
	if r.Frames == 0 {
		return 0
	}
	return r.vadSum / float64(r.Frames)
}
