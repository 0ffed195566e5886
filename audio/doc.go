// SPDX-License-Identifier: EPL-2.0

// Package audio provides the sample-level building blocks of the denoise
// pipeline.
//
// # Sources
//
// A Source yields normalised float32 samples in [-1, 1]. Decoders in the
// formats packages return Sources, and Resampler wraps one to change its
// sample rate:
//
//	rs, err := audio.NewResampler(source, 48000)
//
// Only mono sources are accepted; anything else fails with ErrNotMono.
//
// # PCM and frames
//
// A PCM16Reader yields 16-bit samples and fills every request completely
// until the stream ends. SourceReader turns any mono Source into one.
//
// DecodeFrame widens up to FrameSize samples into a float32 frame on the
// int16 scale and zero-pads the rest; EncodeFrame narrows the valid part back
// with saturation:
//
//	n, _ := pcm.ReadPCM16(in)
//	valid := audio.DecodeFrame(frame, in[:n])
//	// ... transform frame ...
//	out = audio.EncodeFrame(out, frame, valid)
//
// Padding samples are never encoded, so the output has exactly as many
// samples as the input.
//
// # Registry
//
// Registry maps file extensions to decoders:
//
//	registry := audio.NewRegistry()
//	registry.Register("aiff", aiff.Decoder{})
//	decoder, ok := registry.Get("aiff")
package audio
