// SPDX-License-Identifier: EPL-2.0

// Package raw decodes headerless PCM: a bare stream of little-endian,
// mono, 16-bit samples with no container around it.
//
// Nothing in the stream says how fast it plays, so the sample rate is part
// of the Decoder:
//
//	src, err := raw.Decoder{SampleRate: 48000}.Decode(f)
//
// A trailing odd byte is ignored.
package raw
