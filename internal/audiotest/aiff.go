// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"bytes"
	"encoding/binary"
	"math/bits"
)

// AIFF describes a minimal AIFF file: a COMM chunk followed by SSND with
// big-endian samples.
type AIFF struct {
	Channels   uint16
	SampleRate uint32
	Bits       uint16
	Samples    []int16
}

// MonoAIFF returns a mono 16-bit description.
func MonoAIFF(sampleRate int, samples []int16) AIFF {
	return AIFF{Channels: 1, SampleRate: uint32(sampleRate), Bits: 16, Samples: samples}
}

func (a AIFF) Bytes() []byte {
	be := binary.BigEndian

	body := new(bytes.Buffer)
	body.WriteString("AIFF")

	body.WriteString("COMM")
	binary.Write(body, be, uint32(18))
	binary.Write(body, be, a.Channels)
	binary.Write(body, be, uint32(len(a.Samples)/max(1, int(a.Channels))))
	binary.Write(body, be, a.Bits)
	body.Write(extended(a.SampleRate))

	body.WriteString("SSND")
	binary.Write(body, be, uint32(8+2*len(a.Samples)))
	binary.Write(body, be, uint32(0)) // offset
	binary.Write(body, be, uint32(0)) // block size
	binary.Write(body, be, a.Samples)

	out := new(bytes.Buffer)
	out.WriteString("FORM")
	binary.Write(out, be, uint32(body.Len()))
	out.Write(body.Bytes())
	return out.Bytes()
}

// extended encodes an integer rate as an 80-bit IEEE 754 extended float.
func extended(v uint32) []byte {
	b := make([]byte, 10)
	if v == 0 {
		return b
	}
	exp := bits.Len32(v) - 1
	binary.BigEndian.PutUint16(b, uint16(16383+exp))
	binary.BigEndian.PutUint64(b[2:], uint64(v)<<(63-exp))
	return b
}
