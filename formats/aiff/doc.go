// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes mono 16-bit AIFF files into an audio.Source, using
// github.com/go-audio/aiff for the container.
//
//	f, _ := os.Open("speech.aiff")
//	src, err := aiff.Decoder{}.Decode(f)
//	if errors.Is(err, aiff.ErrUnsupportedChannels) {
//	    // stereo input
//	}
//
// Samples come out normalised to [-1, 1). Anything other than one channel of
// 16-bit PCM is rejected.
package aiff
