// Package device implements the five atomic EEPROM transactions and the
// bulk operations built on top of them.
//
// A Device assumes exclusive ownership of its bus and chip-select line.
// Every operation is synchronous and blocking; there is no pipelining, no
// retry and no cancellation - once a write or erase settle delay begins it
// runs to completion, because the device's internal write cycle cannot be
// aborted. A bus fault aborts the current operation and propagates
// unchanged to the caller.
package device

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/microwire-protocol/microwire-go/pkg/bus"
	"github.com/microwire-protocol/microwire-go/pkg/frame"
	"github.com/microwire-protocol/microwire-go/pkg/log"
	"github.com/microwire-protocol/microwire-go/pkg/memory"
	"github.com/microwire-protocol/microwire-go/pkg/profile"
)

// SessionPolicy controls who owns the chip-select session around one
// transaction. It replaces ambient "bulk scan in progress" state with an
// explicit argument.
type SessionPolicy uint8

const (
	// OwnSession gives the transaction its own chip-select bracket, plus
	// the post-transfer repeatability pulse where the operation requires
	// one. This is the correct policy for normal use.
	OwnSession SessionPolicy = iota

	// CallerSession assumes the caller already manages the chip-select
	// line; the transaction performs only the transfer and its settle
	// delay.
	CallerSession
)

// Config holds optional Device settings.
type Config struct {
	// Timing overrides the default AT93C86A timing profile.
	Timing *profile.Timing

	// Delayer overrides the sleeping delayer. Tests substitute a
	// recording fake here.
	Delayer bus.Delayer

	// Logger receives protocol events. Nil disables logging.
	Logger log.Logger
}

// Device drives one AT93C86A-class EEPROM over a bus and chip-select line.
type Device struct {
	bus       bus.Bus
	cs        *bus.Selector
	delay     bus.Delayer
	timing    profile.Timing
	logger    log.Logger
	sessionID string
}

// New creates a Device with default timing and no logging.
func New(b bus.Bus, pin bus.Pin) *Device {
	return NewWithConfig(b, pin, Config{})
}

// NewWithConfig creates a Device with the given settings.
//
// The caller is responsible for peripheral bring-up (bus clock, SPI mode,
// pin direction) and for the power-up delay before the first transaction.
func NewWithConfig(b bus.Bus, pin bus.Pin, cfg Config) *Device {
	timing := profile.Default()
	if cfg.Timing != nil {
		timing = *cfg.Timing
	}

	delay := cfg.Delayer
	if delay == nil {
		delay = bus.SleepDelayer{}
	}

	var logger log.Logger = log.NoopLogger{}
	if cfg.Logger != nil {
		logger = cfg.Logger
	}

	d := &Device{
		bus:       b,
		delay:     delay,
		timing:    timing,
		logger:    logger,
		sessionID: uuid.NewString(),
	}
	d.cs = bus.NewSelector(pin, delay, timing)
	d.cs.SetLogger(cfg.Logger, d.sessionID)
	return d
}

// SessionID returns the UUID identifying this device session in log events.
func (d *Device) SessionID() string {
	return d.sessionID
}

// Timing returns the timing profile in effect.
func (d *Device) Timing() profile.Timing {
	return d.timing
}

// Execute runs one device operation. The returned word is meaningful only
// for read operations, signalled by ok. Execute fails only by propagating a
// bus fault from the transfer collaborators; it never synthesizes errors of
// its own.
func (d *Device) Execute(op frame.Operation, policy SessionPolicy) (word memory.Word, ok bool, err error) {
	if policy == CallerSession {
		return d.transfer(op)
	}

	err = d.cs.Session(func() error {
		var terr error
		word, ok, terr = d.transfer(op)
		return terr
	})
	if err != nil {
		return 0, false, err
	}

	// Reads and writes need an extra chip-select pulse after the closing
	// deassert so the next command starts from a clean line state.
	if op.Kind == frame.KindRead || op.Kind == frame.KindWrite {
		if perr := d.cs.Pulse(); perr != nil {
			return 0, false, perr
		}
	}
	return word, ok, nil
}

// transfer clocks the command frame out and, for reads, the response frame
// in. Write and erase block for their settle delay before returning, so the
// chip-select session stays open while the device commits the cell.
func (d *Device) transfer(op frame.Operation) (memory.Word, bool, error) {
	f := frame.Encode(op)
	if err := d.bus.Transmit(f); err != nil {
		err = fmt.Errorf("%s command: %w", op.Kind, err)
		d.logError(err, op.Kind.String())
		return 0, false, err
	}
	d.logTransfer(log.DirectionOut, f)

	switch op.Kind {
	case frame.KindRead:
		resp, err := d.bus.Receive(frame.ResponseLen)
		if err != nil {
			err = fmt.Errorf("%s response: %w", op.Kind, err)
			d.logError(err, op.Kind.String())
			return 0, false, err
		}
		d.logTransfer(log.DirectionIn, resp)

		word := frame.DecodeWord(resp)
		d.logCommand(op, &word, nil)
		return word, true, nil

	case frame.KindWrite:
		d.delay.Delay(d.timing.WriteSettle)
		d.logCommand(op, nil, &d.timing.WriteSettle)

	case frame.KindErase:
		d.delay.Delay(d.timing.EraseSettle)
		d.logCommand(op, nil, &d.timing.EraseSettle)

	default:
		d.logCommand(op, nil, nil)
	}
	return 0, false, nil
}

// ReadWord reads the word at addr.
func (d *Device) ReadWord(addr memory.Address) (memory.Word, error) {
	word, _, err := d.Execute(frame.ReadWord(addr), OwnSession)
	return word, err
}

// WriteWord writes data to addr. EnableWrites must have been issued first.
func (d *Device) WriteWord(addr memory.Address, data memory.Word) error {
	_, _, err := d.Execute(frame.WriteWord(addr, data), OwnSession)
	return err
}

// EraseWord erases the word at addr to memory.Erased. EnableWrites must
// have been issued first.
func (d *Device) EraseWord(addr memory.Address) error {
	_, _, err := d.Execute(frame.EraseWord(addr), OwnSession)
	return err
}

// EnableWrites opens the device's write latch. The latch is device state,
// not driver state: once enabled, programming stays enabled until
// DisableWrites or power loss. The driver never issues it implicitly.
func (d *Device) EnableWrites() error {
	_, _, err := d.Execute(frame.EnableWrites(), OwnSession)
	return err
}

// DisableWrites closes the device's write latch.
func (d *Device) DisableWrites() error {
	_, _, err := d.Execute(frame.DisableWrites(), OwnSession)
	return err
}

func (d *Device) logTransfer(dir log.Direction, data []byte) {
	d.logger.Log(log.Event{
		Timestamp: time.Now(),
		SessionID: d.sessionID,
		Direction: dir,
		Layer:     log.LayerBus,
		Category:  log.CategoryTransfer,
		Transfer: &log.TransferEvent{
			Size: len(data),
			Data: data,
		},
	})
}

func (d *Device) logCommand(op frame.Operation, word *memory.Word, settle *time.Duration) {
	ev := &log.CommandEvent{
		Kind:   op.Kind.String(),
		Settle: settle,
	}
	switch op.Kind {
	case frame.KindRead, frame.KindWrite, frame.KindErase:
		addr := uint16(memory.MaskAddress(op.Addr))
		ev.Addr = &addr
	}
	if op.Kind == frame.KindWrite {
		data := uint16(op.Data)
		ev.Data = &data
	}
	if word != nil {
		w := uint16(*word)
		ev.Word = &w
	}

	d.logger.Log(log.Event{
		Timestamp: time.Now(),
		SessionID: d.sessionID,
		Direction: log.DirectionOut,
		Layer:     log.LayerCommand,
		Category:  log.CategoryCommand,
		Command:   ev,
	})
}

func (d *Device) logError(err error, context string) {
	d.logger.Log(log.Event{
		Timestamp: time.Now(),
		SessionID: d.sessionID,
		Direction: log.DirectionOut,
		Layer:     log.LayerBus,
		Category:  log.CategoryError,
		Error: &log.ErrorEventData{
			Layer:   log.LayerBus,
			Message: err.Error(),
			Context: context,
		},
	})
}
