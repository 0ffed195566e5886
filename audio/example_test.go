// SPDX-License-Identifier: EPL-2.0

package audio_test

import (
	"fmt"
	"io"

	"github.com/ik5/pcmdenoise/audio"
	"github.com/ik5/pcmdenoise/internal/audiotest"
)

// Example_resampler converts a 44.1kHz source to 16kHz.
func Example_resampler() {
	source := audiotest.NewSineSource(44100, 44100, 440.0) // 1 second, 440Hz tone

	resampler, err := audio.NewResampler(source, 16000)
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Printf("Output sample rate: %d Hz\n", resampler.SampleRate())

	buf := make([]float32, 4096)
	total := 0
	for {
		n, err := resampler.ReadSamples(buf)
		total += n
		if err == io.EOF {
			break
		}
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
	}

	fmt.Printf("Total samples read: %d\n", total)
	// Output:
	// Output sample rate: 16000 Hz
	// Total samples read: 16000
}

// Example_frames cuts a PCM stream into fixed frames; the short last frame is
// padded with silence for processing and trimmed again on output.
func Example_frames() {
	source := audiotest.NewConstantSource(48000, 1000, 0.25)
	pcm, err := audio.NewSourceReader(source)
	if err != nil {
		fmt.Println(err)
		return
	}

	in := make([]int16, audio.FrameSize)
	frame := make([]float32, audio.FrameSize)
	out := make([]int16, audio.FrameSize)
	for {
		n, err := pcm.ReadPCM16(in)
		if err == io.EOF {
			break
		}
		valid := audio.DecodeFrame(frame, in[:n])
		samples := audio.EncodeFrame(out, frame, valid)
		fmt.Printf("frame: %d samples, first %d\n", len(samples), samples[0])
	}
	// Output:
	// frame: 480 samples, first 8192
	// frame: 480 samples, first 8192
	// frame: 40 samples, first 8192
}
