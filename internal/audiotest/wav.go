// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
)

// Chunk is an arbitrary RIFF sub-chunk.
type Chunk struct {
	ID   string
	Data []byte
}

// WAV describes a RIFF/WAVE file to build byte by byte. Every field is
// written as given, so invalid files are as easy to make as valid ones.
type WAV struct {
	RIFF string
	Form string

	AudioFormat   uint16
	Channels      uint16
	SampleRate    uint32
	BitsPerSample uint16
	// FmtExtra is appended to the canonical 16-byte fmt payload and counted
	// in the fmt chunk size.
	FmtExtra []byte

	Before  []Chunk // before fmt
	Between []Chunk // between fmt and data
	After   []Chunk // after data

	Samples []int16

	// DataSize overrides the declared data size when SetDataSize is true.
	DataSize    uint32
	SetDataSize bool

	OmitFmt  bool
	OmitData bool
}

// MonoWAV returns a canonical mono 16-bit PCM description.
func MonoWAV(sampleRate int, samples []int16) WAV {
	return WAV{
		RIFF:          "RIFF",
		Form:          "WAVE",
		AudioFormat:   1,
		Channels:      1,
		SampleRate:    uint32(sampleRate),
		BitsPerSample: 16,
		Samples:       samples,
	}
}

// DataOffset is where the sample payload starts in Bytes().
func (w WAV) DataOffset() int64 {
	off := int64(12)
	for _, c := range append(append([]Chunk(nil), w.Before...), w.Between...) {
		off += 8 + int64(len(c.Data))
	}
	if !w.OmitFmt {
		off += 8 + 16 + int64(len(w.FmtExtra))
	}
	return off + 8
}

func (w WAV) Bytes() []byte {
	body := new(bytes.Buffer)
	body.WriteString(w.Form)

	writeChunks(body, w.Before)

	if !w.OmitFmt {
		body.WriteString("fmt ")
		binary.Write(body, binary.LittleEndian, uint32(16+len(w.FmtExtra)))
		binary.Write(body, binary.LittleEndian, w.AudioFormat)
		binary.Write(body, binary.LittleEndian, w.Channels)
		binary.Write(body, binary.LittleEndian, w.SampleRate)
		blockAlign := w.Channels * w.BitsPerSample / 8
		binary.Write(body, binary.LittleEndian, w.SampleRate*uint32(blockAlign))
		binary.Write(body, binary.LittleEndian, blockAlign)
		binary.Write(body, binary.LittleEndian, w.BitsPerSample)
		body.Write(w.FmtExtra)
	}

	writeChunks(body, w.Between)

	if !w.OmitData {
		size := uint32(len(w.Samples) * 2)
		if w.SetDataSize {
			size = w.DataSize
		}
		body.WriteString("data")
		binary.Write(body, binary.LittleEndian, size)
		binary.Write(body, binary.LittleEndian, w.Samples)
	}

	writeChunks(body, w.After)

	out := new(bytes.Buffer)
	out.WriteString(w.RIFF)
	binary.Write(out, binary.LittleEndian, uint32(body.Len()))
	out.Write(body.Bytes())
	return out.Bytes()
}

func writeChunks(buf *bytes.Buffer, chunks []Chunk) {
	for _, c := range chunks {
		buf.WriteString(c.ID)
		binary.Write(buf, binary.LittleEndian, uint32(len(c.Data)))
		buf.Write(c.Data)
	}
}

// Samples decodes little-endian int16 PCM.
func Samples(b []byte) []int16 {
	out := make([]int16, len(b)/2)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(b[2*i:]))
	}
	return out
}

// Ramp returns n samples counting up from start, wrapping at the int16
// limits.
func Ramp(n int, start int16) []int16 {
	out := make([]int16, n)
	for i := range out {
		out[i] = start + int16(i)
	}
	return out
}

// Buffer is an in-memory io.ReadWriteSeeker. Writing past the end grows it;
// seeking past the end and writing leaves a zero-filled gap, like a file.
type Buffer struct {
	data []byte
	pos  int64
}

func (b *Buffer) Write(p []byte) (int, error) {
	end := b.pos + int64(len(p))
	if end > int64(len(b.data)) {
		b.data = append(b.data, make([]byte, end-int64(len(b.data)))...)
	}
	copy(b.data[b.pos:], p)
	b.pos = end
	return len(p), nil
}

func (b *Buffer) Read(p []byte) (int, error) {
	if b.pos >= int64(len(b.data)) {
		return 0, io.EOF
	}
	n := copy(p, b.data[b.pos:])
	b.pos += int64(n)
	return n, nil
}

func (b *Buffer) Seek(offset int64, whence int) (int64, error) {
	var next int64
	switch whence {
	case io.SeekStart:
		next = offset
	case io.SeekCurrent:
		next = b.pos + offset
	case io.SeekEnd:
		next = int64(len(b.data)) + offset
	default:
		return 0, errors.New("audiotest: invalid whence")
	}
	if next < 0 {
		return 0, errors.New("audiotest: negative position")
	}
	b.pos = next
	return next, nil
}

func (b *Buffer) Bytes() []byte { return b.data }

// Pos is the current offset, for asserting where a writer left the stream.
func (b *Buffer) Pos() int64 { return b.pos }
