// SPDX-License-Identifier: EPL-2.0

// Package pcmdenoise runs 16-bit mono PCM audio through a stateful,
// fixed-size frame transform such as a noise suppressor.
//
// # Quick Start
//
// The simplest way to clean a file is DenoiseFile:
//
//	f, _ := rnnoise.New()
//	res, err := pcmdenoise.DenoiseFile(ctx, "in.wav", "out.wav", f)
//
// Frames already held in memory go through DenoiseFrames:
//
//	f, _ := passthrough.New(480, 48000)
//	vad, err := pcmdenoise.DenoiseFrames(out, in, len(in)/480, f)
//
// # Building Blocks
//
// The facade is a thin layer over the subpackages:
//   - formats/wav reads and writes RIFF/WAVE headers and PCM payloads
//   - formats/aiff decodes AIFF input via go-audio
//   - audio converts between int16 PCM and float frames and resamples
//   - transform defines the frame transform; passthrough and rnnoise implement it
//   - session owns one transform state across many frames
//   - pipeline streams whole files through a session
//
// Samples handed to a transform stay on the int16 scale; they are widened to
// float32 without normalisation and saturated on the way back.
package pcmdenoise
