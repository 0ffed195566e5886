// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bufio"
	"fmt"
	"io"
	"math"
)

// HeaderSize is the length of the header WriteHeader emits: RIFF, a 16-byte
// fmt chunk and the data chunk header.
const HeaderSize = 44

// WriteHeader writes a canonical RIFF/WAVE header for f with the given data
// size at offset 0 of ws.
//
// It is meant to be called twice per file: once with dataSize 0 before any
// samples are written, and once more after the last sample with the real
// size. Only the first HeaderSize bytes are ever touched. If ws was positioned
// past the header, that position is restored so appended samples are never
// overwritten.
func WriteHeader(ws io.WriteSeeker, f AudioFormat, dataSize uint32) error {
	pos, err := ws.Seek(0, io.SeekCurrent)
	if err != nil {
		return fmt.Errorf("wav: %w", err)
	}
	if _, err := ws.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("wav: %w", err)
	}

	// Sized to the header so the whole thing goes out in a single Write.
	bw := bufio.NewWriterSize(ws, HeaderSize)
	hw := headerWriter{w: bw}

	hw.id("RIFF")
	hw.u32(dataSize + 36)
	hw.id("WAVE")

	hw.id("fmt ")
	hw.u32(fmtPayloadSize)
	hw.u16(formatPCM)
	hw.u16(uint16(f.Channels))
	hw.u32(uint32(f.SampleRate))
	hw.u32(uint32(f.ByteRate()))
	hw.u16(uint16(f.BlockAlign()))
	hw.u16(uint16(f.BitsPerSample))

	hw.id("data")
	hw.u32(dataSize)

	if hw.err != nil {
		return fmt.Errorf("wav: write header: %w", hw.err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("wav: write header: %w", err)
	}

	if pos > HeaderSize {
		if _, err := ws.Seek(pos, io.SeekStart); err != nil {
			return fmt.Errorf("wav: %w", err)
		}
	}
	return nil
}

// DataSize converts a count of 16-bit mono samples into the byte size stored
// in the header, failing when the RIFF size field would overflow.
func DataSize(samples int64) (uint32, error) {
	size := samples * 2
	if samples < 0 || size > math.MaxUint32-36 {
		return 0, fmt.Errorf("%w: %d samples", ErrDataTooLarge, samples)
	}
	return uint32(size), nil
}

type headerWriter struct {
	w   io.Writer
	err error
}

func (h *headerWriter) id(s string) {
	if h.err == nil {
		_, h.err = io.WriteString(h.w, s)
	}
}

func (h *headerWriter) u16(v uint16) {
	if h.err == nil {
		h.err = WriteU16LE(h.w, v)
	}
}

func (h *headerWriter) u32(v uint32) {
	if h.err == nil {
		h.err = WriteU32LE(h.w, v)
	}
}
