// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	formatPCM      = 1
	fmtPayloadSize = 16

	// UnknownDataSize is written by streaming encoders that never patch the
	// data chunk size.
	UnknownDataSize = 0xFFFFFFFF
)

// AudioFormat describes the sample layout declared by the fmt chunk.
type AudioFormat struct {
	SampleRate    int
	Channels      int
	BitsPerSample int
}

// Mono16 returns the only layout this package reads and writes.
func Mono16(sampleRate int) AudioFormat {
	return AudioFormat{SampleRate: sampleRate, Channels: 1, BitsPerSample: 16}
}

func (f AudioFormat) BlockAlign() int { return f.Channels * f.BitsPerSample / 8 }
func (f AudioFormat) ByteRate() int   { return f.SampleRate * f.BlockAlign() }

// CheckRate returns a *SampleRateWarning when the format's sample rate
// differs from want, and nil otherwise.
func (f AudioFormat) CheckRate(want int) error {
	if f.SampleRate != want {
		return &SampleRateWarning{Got: f.SampleRate, Want: want}
	}
	return nil
}

// Location is where the data chunk payload starts and how many bytes it
// declares.
type Location struct {
	Offset int64
	Size   uint32
}

// Bounded reports whether Size can be trusted as the payload length.
func (l Location) Bounded() bool {
	return l.Size != 0 && l.Size != UnknownDataSize
}

type Header struct {
	Format   AudioFormat
	Location Location
}

// ReadHeader parses the RIFF/WAVE header found at the start of rs.
//
// Sub-chunks other than "fmt " and "data" are skipped using their declared
// size, as are any fmt bytes beyond the canonical 16. Only mono 16-bit PCM
// is accepted. The position of rs is restored before returning, on success
// and on failure, so callers seek to Location.Offset themselves.
func ReadHeader(rs io.ReadSeeker) (hdr Header, err error) {
	start, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return Header{}, fmt.Errorf("wav: %w", err)
	}
	defer func() {
		if _, serr := rs.Seek(start, io.SeekStart); serr != nil && err == nil {
			err = fmt.Errorf("wav: restore position: %w", serr)
		}
	}()

	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return Header{}, fmt.Errorf("wav: %w", err)
	}

	if err := readRIFF(rs); err != nil {
		return Header{}, err
	}

	format, err := readFmt(rs)
	if err != nil {
		return Header{}, err
	}

	size, err := findChunk(rs, "data")
	if err != nil {
		return Header{}, err
	}
	offset, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return Header{}, fmt.Errorf("wav: %w", err)
	}

	return Header{
		Format:   format,
		Location: Location{Offset: offset, Size: size},
	}, nil
}

func readRIFF(r io.Reader) error {
	id, err := readID(r)
	if err != nil {
		return structural("RIFF header", err)
	}
	if _, err := ReadU32LE(r); err != nil {
		return structural("RIFF header", err)
	}
	form, err := readID(r)
	if err != nil {
		return structural("RIFF header", err)
	}
	if id != "RIFF" || form != "WAVE" {
		return ErrNotWavFile
	}
	return nil
}

func readFmt(rs io.ReadSeeker) (AudioFormat, error) {
	size, err := findChunk(rs, "fmt ")
	if err != nil {
		return AudioFormat{}, err
	}
	if size < fmtPayloadSize {
		return AudioFormat{}, fmt.Errorf("%w: fmt chunk is %d bytes", ErrTruncated, size)
	}

	fr := fieldReader{r: rs}
	audioFormat := fr.u16()
	channels := fr.u16()
	sampleRate := fr.u32()
	_ = fr.u32() // byte rate
	_ = fr.u16() // block align
	bits := fr.u16()
	if fr.err != nil {
		return AudioFormat{}, structural("fmt chunk", fr.err)
	}

	if extra := int64(size) - fmtPayloadSize; extra > 0 {
		if _, err := rs.Seek(extra, io.SeekCurrent); err != nil {
			return AudioFormat{}, fmt.Errorf("wav: skip fmt extension: %w", err)
		}
	}

	if audioFormat != formatPCM {
		return AudioFormat{}, fmt.Errorf("%w: format tag %d", ErrUnsupportedFormat, audioFormat)
	}
	if channels != 1 {
		return AudioFormat{}, fmt.Errorf("%w: %d channels", ErrUnsupportedChannels, channels)
	}
	if bits != 16 {
		return AudioFormat{}, fmt.Errorf("%w: %d bits per sample", ErrUnsupportedBitDepth, bits)
	}

	return AudioFormat{
		SampleRate:    int(sampleRate),
		Channels:      int(channels),
		BitsPerSample: int(bits),
	}, nil
}

// findChunk walks sub-chunks from the current position until one with the
// given id is found, leaving rs at the start of its payload. Running out of
// stream while looking is a *MissingChunkError.
func findChunk(rs io.ReadSeeker, id string) (uint32, error) {
	for {
		got, err := readID(rs)
		if err != nil {
			return 0, missing(id, err)
		}
		size, err := ReadU32LE(rs)
		if err != nil {
			return 0, missing(id, err)
		}
		if got == id {
			return size, nil
		}
		if _, err := rs.Seek(int64(size), io.SeekCurrent); err != nil {
			return 0, fmt.Errorf("wav: skip %q chunk: %w", got, err)
		}
	}
}

// fieldReader keeps the first read error so a fixed layout can be decoded
// without checking every field.
type fieldReader struct {
	r   io.Reader
	err error
}

func (f *fieldReader) u16() uint16 {
	if f.err != nil {
		return 0
	}
	var v uint16
	v, f.err = ReadU16LE(f.r)
	return v
}

func (f *fieldReader) u32() uint32 {
	if f.err != nil {
		return 0
	}
	var v uint32
	v, f.err = ReadU32LE(f.r)
	return v
}

func missing(id string, err error) error {
	if isShort(err) {
		return &MissingChunkError{ID: strings.TrimSpace(id)}
	}
	return fmt.Errorf("wav: looking for %q chunk: %w", id, err)
}

func structural(what string, err error) error {
	if isShort(err) {
		return fmt.Errorf("%w: %s", ErrTruncated, what)
	}
	return fmt.Errorf("wav: reading %s: %w", what, err)
}

func isShort(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}
