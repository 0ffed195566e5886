// SPDX-License-Identifier: EPL-2.0

// Package audiotest holds test fixtures shared across packages: generated
// sources, WAV byte builders and an in-memory io.WriteSeeker.
package audiotest

import (
	"io"
	"math"
)

// MockSource generates samples from a waveform. It implements the
// audio.Source interface (without importing it to avoid cycles).
type MockSource struct {
	sampleRate   int
	channels     int
	totalSamples int
	generated    int
	waveform     func(sample int) float32

	// MaxRead caps how many samples one ReadSamples call returns, to
	// exercise callers against short reads. 0 means no cap.
	MaxRead int
	// Closed is set by Close.
	Closed bool
}

// NewMockSource creates a mono source of totalSamples samples.
func NewMockSource(sampleRate, totalSamples int, waveform func(sample int) float32) *MockSource {
	return &MockSource{
		sampleRate:   sampleRate,
		channels:     1,
		totalSamples: totalSamples,
		waveform:     waveform,
	}
}

// NewSilentSource creates a mock source that generates silence.
func NewSilentSource(sampleRate, totalSamples int) *MockSource {
	return NewMockSource(sampleRate, totalSamples, func(int) float32 { return 0 })
}

// NewSineSource creates a mock source that generates a sine wave at half
// scale.
func NewSineSource(sampleRate, totalSamples int, frequency float64) *MockSource {
	return NewMockSource(sampleRate, totalSamples, func(sample int) float32 {
		t := float64(sample) / float64(sampleRate)
		return float32(0.5 * math.Sin(2*math.Pi*frequency*t))
	})
}

// NewConstantSource creates a mock source with constant value.
func NewConstantSource(sampleRate, totalSamples int, value float32) *MockSource {
	return NewMockSource(sampleRate, totalSamples, func(int) float32 { return value })
}

// WithChannels makes the source report a different channel count, for
// testing code that must reject non-mono input. Samples are unchanged.
func (m *MockSource) WithChannels(n int) *MockSource {
	m.channels = n
	return m
}

func (m *MockSource) SampleRate() int { return m.sampleRate }
func (m *MockSource) Channels() int   { return m.channels }
func (m *MockSource) BufSize() int    { return 4096 }

func (m *MockSource) Close() error {
	m.Closed = true
	return nil
}

// Reset rewinds the source to its first sample.
func (m *MockSource) Reset() {
	m.generated = 0
}

func (m *MockSource) ReadSamples(dst []float32) (int, error) {
	if m.generated >= m.totalSamples {
		return 0, io.EOF
	}

	n := min(len(dst), m.totalSamples-m.generated)
	if m.MaxRead > 0 {
		n = min(n, m.MaxRead)
	}
	for i := range n {
		dst[i] = m.waveform(m.generated + i)
	}
	m.generated += n

	if m.generated >= m.totalSamples {
		return n, io.EOF
	}
	return n, nil
}
