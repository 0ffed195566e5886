// SPDX-License-Identifier: EPL-2.0

package audio

import "github.com/ik5/pcmdenoise/utils"

// FrameSize is the canonical frame length: 10ms at 48kHz.
const FrameSize = 480

// DecodeFrame widens up to len(frame) PCM samples into frame and fills the
// rest with silence. It returns how many elements of frame hold real samples;
// only that many should be encoded back.
func DecodeFrame(frame []float32, pcm []int16) int {
	n := min(len(pcm), len(frame))
	for i, s := range pcm[:n] {
		frame[i] = float32(s)
	}
	clear(frame[n:])
	return n
}

// EncodeFrame narrows the first valid elements of frame into dst, saturating
// at the int16 limits, and returns dst resliced to the encoded samples.
// Elements past valid are never read.
func EncodeFrame(dst []int16, frame []float32, valid int) []int16 {
	valid = max(0, min(valid, len(frame), len(dst)))
	for i, x := range frame[:valid] {
		dst[i] = utils.ClampInt16(x)
	}
	return dst[:valid]
}
