// Package simulator provides a behavioural model of an AT93C86A-class
// EEPROM, speaking the bit-level command set from the device side.
//
// The simulator stands in for the hardware the original driver was
// validated against: it decodes every command frame bit-exactly, honors the
// write-enable latch, produces read responses with the leading dummy bit,
// and enforces chip-select discipline (a transfer without the chip selected
// is a bus fault, as is a second command inside one select bracket). Tests
// use it as the reference device for framing, sequencing and bulk-operation
// behavior.
package simulator

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/microwire-protocol/microwire-go/pkg/bus"
	"github.com/microwire-protocol/microwire-go/pkg/frame"
	"github.com/microwire-protocol/microwire-go/pkg/memory"
)

// Simulator implements bus.Bus, bus.Pin and bus.Delayer as one fake
// device, so a single instance records the complete, ordered transcript of
// line transitions, transfers and delays.
//
// Simulator is not safe for concurrent use; neither is the bus it models.
type Simulator struct {
	mem          [memory.Words]memory.Word
	writeEnabled bool

	selected  bool
	commanded bool // a command frame was accepted in the current select bracket
	pending   []byte

	transcript []string
	transfers  int
	failAfter  int // fail transfers numbered >= failAfter (1-based); 0 disables
}

// New creates a simulator in the fully erased state with writes disabled.
func New() *Simulator {
	s := &Simulator{}
	for i := range s.mem {
		s.mem[i] = memory.Erased
	}
	return s
}

// Set implements bus.Pin. Deselecting drops any pending read response:
// the real part aborts its output stream when the chip-select line falls.
func (s *Simulator) Set(active bool) error {
	if active {
		s.selected = true
		s.commanded = false
		s.record("select")
	} else {
		s.selected = false
		s.pending = nil
		s.record("deselect")
	}
	return nil
}

// Delay implements bus.Delayer by recording the requested duration instead
// of sleeping, keeping tests fast while preserving ordering.
func (s *Simulator) Delay(d time.Duration) {
	s.record("delay " + d.String())
}

// Transmit implements bus.Bus, decoding the frame as a device command.
func (s *Simulator) Transmit(p []byte) error {
	if err := s.checkTransfer("transmit"); err != nil {
		return err
	}
	if s.commanded {
		return fmt.Errorf("%w: command without fresh chip select", bus.ErrBusFault)
	}

	s.record(fmt.Sprintf("tx % x", p))

	switch len(p) {
	case frame.ShortFrameLen:
		s.shortCommand(binary.BigEndian.Uint16(p))
	case frame.WriteFrameLen:
		s.writeCommand(binary.BigEndian.Uint32(p))
	default:
		return fmt.Errorf("%w: unexpected frame length %d", bus.ErrBusFault, len(p))
	}

	s.commanded = true
	return nil
}

// Receive implements bus.Bus, clocking out the pending read response.
func (s *Simulator) Receive(n int) ([]byte, error) {
	if err := s.checkTransfer("receive"); err != nil {
		return nil, err
	}
	if s.pending == nil {
		return nil, fmt.Errorf("%w: receive without a read command", bus.ErrBusFault)
	}

	// Clock out the prepared stream; bits past its end read as zero.
	out := make([]byte, n)
	copy(out, s.pending)
	s.pending = s.pending[min(n, len(s.pending)):]

	s.record(fmt.Sprintf("rx % x", out))
	return out, nil
}

func (s *Simulator) checkTransfer(what string) error {
	s.transfers++
	if s.failAfter > 0 && s.transfers >= s.failAfter {
		return fmt.Errorf("%w: injected fault on transfer %d", bus.ErrBusFault, s.transfers)
	}
	if !s.selected {
		return fmt.Errorf("%w: %s while deselected", bus.ErrBusFault, what)
	}
	return nil
}

// shortCommand decodes the 2-byte command frames. Unrecognized bit
// patterns are ignored, as the real part ignores noise.
func (s *Simulator) shortCommand(cmd uint16) {
	switch {
	case cmd>>13 == uint16(frame.OpcodeErase):
		addr := memory.MaskAddress(memory.Address(cmd >> 3))
		if s.writeEnabled {
			s.mem[addr] = memory.Erased
		} else {
			s.record("erase ignored (writes disabled)")
		}

	case cmd>>11 == uint16(frame.OpcodeWriteEnable):
		s.writeEnabled = true

	case cmd>>11 == uint16(frame.OpcodeWriteDisable):
		s.writeEnabled = false

	case cmd>>10 == uint16(frame.OpcodeRead):
		addr := memory.MaskAddress(memory.Address(cmd))
		s.pending = frame.EncodeResponse(s.mem[addr])

	default:
		s.record(fmt.Sprintf("ignored command %#06x", cmd))
	}
}

// writeCommand decodes the 4-byte write frame.
func (s *Simulator) writeCommand(cmd uint32) {
	if cmd>>26 != uint32(frame.OpcodeWrite) {
		s.record(fmt.Sprintf("ignored command %#010x", cmd))
		return
	}
	if !s.writeEnabled {
		s.record("write ignored (writes disabled)")
		return
	}

	addr := memory.MaskAddress(memory.Address(cmd >> 16))
	s.mem[addr] = memory.Word(cmd)
}

func (s *Simulator) record(entry string) {
	s.transcript = append(s.transcript, entry)
}

// Transcript returns the ordered record of line transitions, transfers and
// delays since construction or the last ClearTranscript.
func (s *Simulator) Transcript() []string {
	return s.transcript
}

// ClearTranscript discards the recorded transcript.
func (s *Simulator) ClearTranscript() {
	s.transcript = nil
}

// FailAfter makes every transfer from the n-th onwards (1-based) fail with
// a bus fault. Zero disables fault injection.
func (s *Simulator) FailAfter(n int) {
	s.failAfter = n
	s.transfers = 0
}

// WriteEnabled reports the state of the write latch.
func (s *Simulator) WriteEnabled() bool {
	return s.writeEnabled
}

// Peek returns the word stored at addr without going through the bus.
func (s *Simulator) Peek(addr memory.Address) memory.Word {
	return s.mem[memory.MaskAddress(addr)]
}

// Poke stores a word at addr without going through the bus.
func (s *Simulator) Poke(addr memory.Address, w memory.Word) {
	s.mem[memory.MaskAddress(addr)] = w
}

// LoadImage copies img into the simulated memory.
func (s *Simulator) LoadImage(img *memory.Image) {
	copy(s.mem[:], img[:])
}

// Compile-time interface satisfaction checks.
var (
	_ bus.Bus     = (*Simulator)(nil)
	_ bus.Pin     = (*Simulator)(nil)
	_ bus.Delayer = (*Simulator)(nil)
)
