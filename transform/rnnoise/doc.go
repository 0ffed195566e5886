// SPDX-License-Identifier: EPL-2.0

// Package rnnoise binds the RNNoise recurrent denoiser through cgo.
//
// The binding is only compiled with the rnnoise build tag and needs the
// library and its pkg-config file installed:
//
//	go build -tags rnnoise ./cmd/denoise
//
// Without the tag, New returns ErrNotBuilt. RNNoise works on 480-sample
// frames of 48kHz mono audio on the int16 scale and returns a voice-activity
// probability per frame.
package rnnoise
