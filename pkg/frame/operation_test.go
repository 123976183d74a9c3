package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindProperties(t *testing.T) {
	tests := []struct {
		kind     Kind
		name     string
		opcode   Opcode
		frameLen int
		response bool
	}{
		{KindRead, "Read", OpcodeRead, ShortFrameLen, true},
		{KindWrite, "Write", OpcodeWrite, WriteFrameLen, false},
		{KindErase, "Erase", OpcodeErase, ShortFrameLen, false},
		{KindWriteEnable, "WriteEnable", OpcodeWriteEnable, ShortFrameLen, false},
		{KindWriteDisable, "WriteDisable", OpcodeWriteDisable, ShortFrameLen, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.kind.String())
			assert.Equal(t, tt.opcode, tt.kind.Opcode())
			assert.Equal(t, tt.frameLen, tt.kind.FrameLen())
			assert.Equal(t, tt.response, tt.kind.HasResponse())
		})
	}
}

func TestOperationString(t *testing.T) {
	tests := []struct {
		op   Operation
		want string
	}{
		{ReadWord(0x10), "Read(0x0010)"},
		{EraseWord(0x3FF), "Erase(0x03ff)"},
		{WriteWord(0x10, 0xDEAD), "Write(0x0010, 0xdead)"},
		{EnableWrites(), "WriteEnable"},
		{DisableWrites(), "WriteDisable"},

		// out-of-range addresses print masked
		{ReadWord(0x410), "Read(0x0010)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.op.String())
		})
	}
}
