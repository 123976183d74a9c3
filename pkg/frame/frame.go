// Package frame maps device operations to the exact byte sequences the
// AT93C86A clocks in, and maps response bytes back to a 16-bit word.
//
// The command layouts are odd-width (13, 16 and 29 significant bits) packed
// MSB-first into byte frames. Encode and DecodeWord are pure total
// functions: addresses are masked rather than rejected and decoding cannot
// fail, so neither returns an error.
package frame

import (
	"encoding/binary"

	"github.com/microwire-protocol/microwire-go/pkg/memory"
)

// Frame lengths in bytes.
const (
	// ShortFrameLen is the command frame length for Read, Erase,
	// WriteEnable and WriteDisable.
	ShortFrameLen = 2

	// WriteFrameLen is the command frame length for Write, which carries
	// opcode, address and data in a single frame.
	WriteFrameLen = 4

	// ResponseLen is the read response frame length. The device emits a
	// logical 17-bit stream (one leading dummy bit plus 16 data bits), so
	// three bytes must be clocked to capture all of it.
	ResponseLen = 3
)

// Bit positions within the command fields.
const (
	// controlShift places the 5-bit WriteEnable/WriteDisable opcode at the
	// top of the 16-bit field; the remaining 11 bits are zero.
	controlShift = 11

	// eraseOpcodeShift and eraseAddrShift place the 3-bit erase opcode in
	// the top 3 bits and the masked address in bits [12:3], leaving 3
	// dummy bits clear.
	eraseOpcodeShift = 13
	eraseAddrShift   = 3

	// readOpcodeShift places the 3-bit read opcode immediately above the
	// 10-bit address.
	readOpcodeShift = 10

	// writeOpcodeShift and writeAddrShift place the 3-bit write opcode in
	// bits [28:26] and the masked address in bits [25:16]; data occupies
	// bits [15:0]. This is the layout that round-trips against read-back.
	// Shifting the assembled field any further corrupts the write.
	writeOpcodeShift = 26
	writeAddrShift   = 16

	// responseShift discards the leading dummy bit and the unclocked
	// trailing bits of the 24-bit receive buffer. The value was validated
	// against hardware; it is revision-sensitive, so the directed test
	// vectors are authoritative, not the arithmetic.
	responseShift = 7
)

// Encode serializes op into its command frame, MSB-first.
func Encode(op Operation) []byte {
	addr := uint16(memory.MaskAddress(op.Addr))

	switch op.Kind {
	case KindWrite:
		cmd := uint32(OpcodeWrite)<<writeOpcodeShift |
			uint32(addr)<<writeAddrShift |
			uint32(op.Data)
		buf := make([]byte, WriteFrameLen)
		binary.BigEndian.PutUint32(buf, cmd)
		return buf

	case KindErase:
		return shortFrame(uint16(OpcodeErase)<<eraseOpcodeShift | addr<<eraseAddrShift)

	case KindRead:
		return shortFrame(uint16(OpcodeRead)<<readOpcodeShift | addr)

	case KindWriteEnable, KindWriteDisable:
		return shortFrame(uint16(op.Kind.Opcode()) << controlShift)

	default:
		return shortFrame(0)
	}
}

func shortFrame(cmd uint16) []byte {
	buf := make([]byte, ShortFrameLen)
	binary.BigEndian.PutUint16(buf, cmd)
	return buf
}

// DecodeWord recovers the 16-bit word from a read response frame. The
// response bytes are assembled MSB-first into a 24-bit buffer, shifted right
// to drop the unclocked trailing bits, and masked to drop the leading dummy
// bit. Short input is treated as zero-padded; extra bytes are ignored.
func DecodeWord(resp []byte) memory.Word {
	var raw uint32
	for i := range ResponseLen {
		raw <<= 8
		if i < len(resp) {
			raw |= uint32(resp[i])
		}
	}
	return memory.Word(raw >> responseShift)
}

// EncodeResponse builds the response frame the device emits for word. It is
// the inverse of DecodeWord and exists for device-side models and directed
// tests.
func EncodeResponse(word memory.Word) []byte {
	raw := uint32(word) << responseShift
	return []byte{byte(raw >> 16), byte(raw >> 8), byte(raw)}
}
