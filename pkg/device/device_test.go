package device

import (
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/microwire-protocol/microwire-go/internal/simulator"
	"github.com/microwire-protocol/microwire-go/pkg/bus"
	"github.com/microwire-protocol/microwire-go/pkg/frame"
	"github.com/microwire-protocol/microwire-go/pkg/log"
	"github.com/microwire-protocol/microwire-go/pkg/memory"
)

// newTestDevice wires a Device to a fresh simulator, with the simulator
// also standing in as the delayer so settle waits land in the transcript
// instead of sleeping.
func newTestDevice(t *testing.T) (*Device, *simulator.Simulator) {
	t.Helper()
	sim := simulator.New()
	dev := NewWithConfig(sim, sim, Config{Delayer: sim})
	return dev, sim
}

func TestWriteReadRoundTrip(t *testing.T) {
	dev, _ := newTestDevice(t)

	require.NoError(t, dev.EnableWrites())
	require.NoError(t, dev.WriteWord(0x10, 0xBABA))

	word, err := dev.ReadWord(0x10)
	require.NoError(t, err)
	assert.Equal(t, memory.Word(0xBABA), word)
}

func TestFreshDeviceReadsErased(t *testing.T) {
	dev, _ := newTestDevice(t)

	word, err := dev.ReadWord(0x123)
	require.NoError(t, err)
	assert.Equal(t, memory.Erased, word)
}

func TestWriteIgnoredWithoutEnable(t *testing.T) {
	dev, sim := newTestDevice(t)

	// the device silently ignores programming while the latch is closed
	require.NoError(t, dev.WriteWord(0x10, 0xBABA))

	assert.False(t, sim.WriteEnabled())
	word, err := dev.ReadWord(0x10)
	require.NoError(t, err)
	assert.Equal(t, memory.Erased, word)
}

func TestEraseRestoresErased(t *testing.T) {
	dev, _ := newTestDevice(t)

	require.NoError(t, dev.EnableWrites())
	require.NoError(t, dev.WriteWord(0x11, 0xDEAD))
	require.NoError(t, dev.EraseWord(0x11))

	word, err := dev.ReadWord(0x11)
	require.NoError(t, err)
	assert.Equal(t, memory.Erased, word)
}

func TestDisableWritesClosesLatch(t *testing.T) {
	dev, sim := newTestDevice(t)

	require.NoError(t, dev.EnableWrites())
	assert.True(t, sim.WriteEnabled())

	require.NoError(t, dev.DisableWrites())
	assert.False(t, sim.WriteEnabled())

	require.NoError(t, dev.WriteWord(0x20, 0x1234))
	assert.Equal(t, memory.Erased, sim.Peek(0x20))
}

// The write settle delay must elapse inside the chip-select session, before
// the closing deassert, or the device aborts its internal write cycle.
func TestSettleDelayInsideSession(t *testing.T) {
	dev, sim := newTestDevice(t)
	require.NoError(t, dev.EnableWrites())
	sim.ClearTranscript()

	require.NoError(t, dev.WriteWord(0x10, 0xDEAD))

	trace := sim.Transcript()
	settle := slices.Index(trace, "delay 7ms")
	require.GreaterOrEqual(t, settle, 0, "no settle delay in transcript:\n%s", strings.Join(trace, "\n"))

	tx := slices.IndexFunc(trace, func(e string) bool { return strings.HasPrefix(e, "tx ") })
	deselect := slices.Index(trace[tx:], "deselect") + tx
	assert.Greater(t, settle, tx, "settle must follow the transfer")
	assert.Less(t, settle, deselect, "settle must precede the closing deselect")
}

func TestEraseSettleDelay(t *testing.T) {
	dev, sim := newTestDevice(t)
	require.NoError(t, dev.EnableWrites())
	sim.ClearTranscript()

	require.NoError(t, dev.EraseWord(0x10))
	assert.Contains(t, sim.Transcript(), "delay 4ms")
}

// Reads and writes get an extra chip-select pulse after the transaction;
// erase and the latch commands do not.
func TestRepeatabilityPulse(t *testing.T) {
	countSelects := func(trace []string) int {
		n := 0
		for _, e := range trace {
			if e == "select" {
				n++
			}
		}
		return n
	}

	tests := []struct {
		name    string
		run     func(d *Device) error
		selects int
	}{
		{"read", func(d *Device) error { _, err := d.ReadWord(0); return err }, 2},
		{"write", func(d *Device) error { return d.WriteWord(0, 1) }, 2},
		{"erase", func(d *Device) error { return d.EraseWord(0) }, 1},
		{"enable", func(d *Device) error { return d.EnableWrites() }, 1},
		{"disable", func(d *Device) error { return d.DisableWrites() }, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev, sim := newTestDevice(t)
			require.NoError(t, dev.EnableWrites())
			sim.ClearTranscript()

			require.NoError(t, tt.run(dev))
			assert.Equal(t, tt.selects, countSelects(sim.Transcript()))
		})
	}
}

func TestBusFaultPropagates(t *testing.T) {
	dev, sim := newTestDevice(t)
	require.NoError(t, dev.EnableWrites())

	sim.FailAfter(1)

	err := dev.WriteWord(0x10, 0xDEAD)
	assert.ErrorIs(t, err, bus.ErrBusFault)

	_, err = dev.ReadWord(0x10)
	assert.ErrorIs(t, err, bus.ErrBusFault)
}

func TestReadResponseFaultPropagates(t *testing.T) {
	dev, sim := newTestDevice(t)

	// first transfer (the command) succeeds, the response fails
	sim.FailAfter(2)

	_, err := dev.ReadWord(0x10)
	assert.ErrorIs(t, err, bus.ErrBusFault)
	assert.Contains(t, err.Error(), "Read response")
}

// CallerSession leaves the chip-select line alone; the caller brackets the
// transaction.
func TestCallerSessionPolicy(t *testing.T) {
	dev, sim := newTestDevice(t)
	require.NoError(t, dev.EnableWrites())

	require.NoError(t, sim.Set(true))
	sim.ClearTranscript()

	word, ok, err := dev.Execute(frame.ReadWord(0x10), CallerSession)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, memory.Erased, word)

	for _, e := range sim.Transcript() {
		assert.NotContains(t, []string{"select", "deselect"}, e,
			"caller-session transaction touched the chip-select line")
	}
}

func TestExecuteOkOnlyForReads(t *testing.T) {
	dev, _ := newTestDevice(t)
	require.NoError(t, dev.EnableWrites())

	_, ok, err := dev.Execute(frame.ReadWord(0), OwnSession)
	require.NoError(t, err)
	assert.True(t, ok)

	_, ok, err = dev.Execute(frame.WriteWord(0, 1), OwnSession)
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = dev.Execute(frame.EraseWord(0), OwnSession)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSessionID(t *testing.T) {
	dev, _ := newTestDevice(t)
	other, _ := newTestDevice(t)

	assert.NotEmpty(t, dev.SessionID())
	assert.NotEqual(t, dev.SessionID(), other.SessionID())
}

// mockLogger records events for testing
type mockLogger struct {
	events []log.Event
}

func (m *mockLogger) Log(event log.Event) {
	m.events = append(m.events, event)
}

func (m *mockLogger) byCategory(cat log.Category) []log.Event {
	var out []log.Event
	for _, e := range m.events {
		if e.Category == cat {
			out = append(out, e)
		}
	}
	return out
}

func TestDeviceLogsProtocolEvents(t *testing.T) {
	sim := simulator.New()
	logger := &mockLogger{}
	dev := NewWithConfig(sim, sim, Config{Delayer: sim, Logger: logger})

	require.NoError(t, dev.EnableWrites())
	require.NoError(t, dev.WriteWord(0x10, 0xDEAD))
	word, err := dev.ReadWord(0x10)
	require.NoError(t, err)
	require.Equal(t, memory.Word(0xDEAD), word)

	commands := logger.byCategory(log.CategoryCommand)
	require.Len(t, commands, 3)

	write := commands[1].Command
	require.NotNil(t, write)
	assert.Equal(t, "Write", write.Kind)
	require.NotNil(t, write.Addr)
	assert.Equal(t, uint16(0x10), *write.Addr)
	require.NotNil(t, write.Data)
	assert.Equal(t, uint16(0xDEAD), *write.Data)
	require.NotNil(t, write.Settle)

	read := commands[2].Command
	require.NotNil(t, read)
	assert.Equal(t, "Read", read.Kind)
	require.NotNil(t, read.Word)
	assert.Equal(t, uint16(0xDEAD), *read.Word)

	transfers := logger.byCategory(log.CategoryTransfer)
	var inbound int
	for _, e := range transfers {
		assert.Equal(t, dev.SessionID(), e.SessionID)
		require.NotNil(t, e.Transfer)
		if e.Direction == log.DirectionIn {
			inbound++
			assert.Equal(t, frame.ResponseLen, e.Transfer.Size)
		}
	}
	assert.Equal(t, 1, inbound)

	assert.NotEmpty(t, logger.byCategory(log.CategorySelect))
}

func TestDeviceLogsBusFaults(t *testing.T) {
	sim := simulator.New()
	logger := &mockLogger{}
	dev := NewWithConfig(sim, sim, Config{Delayer: sim, Logger: logger})

	sim.FailAfter(1)
	_, err := dev.ReadWord(0)
	require.Error(t, err)

	faults := logger.byCategory(log.CategoryError)
	require.Len(t, faults, 1)
	require.NotNil(t, faults[0].Error)
	assert.Equal(t, "Read", faults[0].Error.Context)
	assert.Contains(t, faults[0].Error.Message, "bus fault")
}
