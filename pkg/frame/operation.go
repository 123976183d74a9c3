package frame

import (
	"fmt"

	"github.com/microwire-protocol/microwire-go/pkg/memory"
)

// Opcode is the fixed-width bit pattern identifying a device instruction.
// Read/Write/Erase are 3 bits wide, WriteEnable/WriteDisable are 5 bits wide
// (the 3-bit 0b100 control opcode plus the 2-bit sub-select).
type Opcode uint8

const (
	OpcodeRead         Opcode = 0b110
	OpcodeWrite        Opcode = 0b101
	OpcodeErase        Opcode = 0b111
	OpcodeWriteEnable  Opcode = 0b10011
	OpcodeWriteDisable Opcode = 0b10000
)

// Kind identifies one of the five device operations.
type Kind uint8

const (
	// KindRead reads one word.
	KindRead Kind = iota
	// KindWrite writes one word. Requires a prior KindWriteEnable.
	KindWrite
	// KindErase erases one word to memory.Erased. Requires a prior KindWriteEnable.
	KindErase
	// KindWriteEnable opens the device's write latch.
	KindWriteEnable
	// KindWriteDisable closes the device's write latch.
	KindWriteDisable
)

// String returns the operation name.
func (k Kind) String() string {
	switch k {
	case KindRead:
		return "Read"
	case KindWrite:
		return "Write"
	case KindErase:
		return "Erase"
	case KindWriteEnable:
		return "WriteEnable"
	case KindWriteDisable:
		return "WriteDisable"
	default:
		return "Unknown"
	}
}

// Opcode returns the instruction bit pattern for the kind.
func (k Kind) Opcode() Opcode {
	switch k {
	case KindRead:
		return OpcodeRead
	case KindWrite:
		return OpcodeWrite
	case KindErase:
		return OpcodeErase
	case KindWriteEnable:
		return OpcodeWriteEnable
	case KindWriteDisable:
		return OpcodeWriteDisable
	default:
		return 0
	}
}

// FrameLen returns the command frame length in bytes for the kind.
func (k Kind) FrameLen() int {
	if k == KindWrite {
		return WriteFrameLen
	}
	return ShortFrameLen
}

// HasResponse reports whether the device answers the command with a
// response frame.
func (k Kind) HasResponse() bool {
	return k == KindRead
}

// Operation is one device operation with its payload. Operations are
// constructed per call, framed once and discarded; they carry no identity
// and no execution history.
type Operation struct {
	Kind Kind

	// Addr is the target address for Read, Write and Erase. Masked to 10
	// bits during framing.
	Addr memory.Address

	// Data is the word payload for Write.
	Data memory.Word
}

// ReadWord constructs a read of the word at addr.
func ReadWord(addr memory.Address) Operation {
	return Operation{Kind: KindRead, Addr: addr}
}

// WriteWord constructs a write of data to addr.
func WriteWord(addr memory.Address, data memory.Word) Operation {
	return Operation{Kind: KindWrite, Addr: addr, Data: data}
}

// EraseWord constructs an erase of the word at addr.
func EraseWord(addr memory.Address) Operation {
	return Operation{Kind: KindErase, Addr: addr}
}

// EnableWrites constructs the write-enable operation.
func EnableWrites() Operation {
	return Operation{Kind: KindWriteEnable}
}

// DisableWrites constructs the write-disable operation.
func DisableWrites() Operation {
	return Operation{Kind: KindWriteDisable}
}

// String returns a human-readable description of the operation.
func (op Operation) String() string {
	switch op.Kind {
	case KindRead, KindErase:
		return fmt.Sprintf("%s(%#06x)", op.Kind, uint16(memory.MaskAddress(op.Addr)))
	case KindWrite:
		return fmt.Sprintf("%s(%#06x, %#06x)", op.Kind, uint16(memory.MaskAddress(op.Addr)), uint16(op.Data))
	default:
		return op.Kind.String()
	}
}
