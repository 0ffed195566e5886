// SPDX-License-Identifier: EPL-2.0

// Package wav reads and writes the RIFF/WAVE container for mono 16-bit PCM.
//
// # Reading
//
// ReadHeader walks the sub-chunks of a seekable stream, skipping anything
// that is not "fmt " or "data", and returns the declared AudioFormat plus the
// Location of the sample payload:
//
//	f, _ := os.Open("speech.wav")
//	hdr, err := wav.ReadHeader(f)
//	if err != nil {
//	    // ErrNotWavFile, ErrMissingChunk, ErrUnsupportedFormat, ...
//	}
//	f.Seek(hdr.Location.Offset, io.SeekStart)
//	pcm := wav.NewPCMReader(f, hdr.Location)
//
// The stream position is left where it was before the call. A sample rate
// other than the one a consumer expects is not an error; use
// AudioFormat.CheckRate to get a *SampleRateWarning.
//
// Decoder wraps the same logic behind the audio.Decoder interface and yields
// normalised float32 samples.
//
// # Writing
//
// WriteHeader is designed for two passes over the same file: a placeholder
// header before the samples, and the final header once the size is known.
//
//	out, _ := os.Create("clean.wav")
//	wav.WriteHeader(out, hdr.Format, 0)
//	// ... append samples ...
//	size, _ := wav.DataSize(samplesWritten)
//	wav.WriteHeader(out, hdr.Format, size)
//
// The output always holds exactly RIFF, WAVE, a 16-byte fmt chunk and data;
// sub-chunks found on input are not reproduced.
package wav
