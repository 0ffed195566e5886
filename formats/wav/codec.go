// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"encoding/binary"
	"io"
)

// ReadU32LE reads exactly four bytes from r as a little-endian uint32.
// A short read returns io.EOF or io.ErrUnexpectedEOF, never a zero value
// with a nil error.
func ReadU32LE(r io.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

// ReadU16LE reads exactly two bytes from r as a little-endian uint16.
func ReadU16LE(r io.Reader) (uint16, error) {
	var b [2]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b[:]), nil
}

// WriteU32LE writes v to w as four little-endian bytes.
func WriteU32LE(w io.Writer, v uint32) error {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	_, err := w.Write(b[:])
	return err
}

// WriteU16LE writes v to w as two little-endian bytes.
func WriteU16LE(w io.Writer, v uint16) error {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	_, err := w.Write(b[:])
	return err
}

// readID reads a four character chunk identifier.
func readID(r io.Reader) (string, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return "", err
	}
	return string(b[:]), nil
}
