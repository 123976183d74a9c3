package bus

import (
	"fmt"
	"time"

	"github.com/microwire-protocol/microwire-go/pkg/log"
	"github.com/microwire-protocol/microwire-go/pkg/profile"
)

// Selector enforces the chip-select lifecycle around device transactions:
// minimum deassert time between transactions, setup time between assert and
// the first clock edge, and guaranteed deassert on every exit path.
//
// The timing minimums come from the device datasheet. Violating them is
// undefined behavior on real hardware.
type Selector struct {
	pin    Pin
	delay  Delayer
	timing profile.Timing

	// Logging support (optional)
	logger    log.Logger
	sessionID string
}

// NewSelector creates a Selector driving pin with the given delayer and
// timing profile.
func NewSelector(pin Pin, delay Delayer, timing profile.Timing) *Selector {
	return &Selector{
		pin:    pin,
		delay:  delay,
		timing: timing,
	}
}

// SetLogger configures protocol logging for chip-select transitions.
// Pass nil to disable logging.
func (s *Selector) SetLogger(logger log.Logger, sessionID string) {
	s.logger = logger
	s.sessionID = sessionID
}

// Session brackets fn in one chip-select session:
//
//	deassert -> hold delay -> assert -> setup delay -> fn -> deassert -> hold delay
//
// The leading deassert guarantees the minimum deselect time even when the
// previous transaction left the line in an unknown state. The closing
// deassert runs on every exit path, including when fn fails; fn's error
// takes precedence over a deassert error.
func (s *Selector) Session(fn func() error) error {
	if err := s.deselect("session"); err != nil {
		return err
	}
	if err := s.selectChip("session"); err != nil {
		return err
	}

	ferr := fn()

	if err := s.deselect("session"); err != nil && ferr == nil {
		return err
	}
	return ferr
}

// Pulse issues one extra assert/deassert cycle on the chip-select line.
// Read and write transactions require it immediately after the closing
// deassert so a prior transaction's trailing state cannot bleed into the
// next command's timing.
func (s *Selector) Pulse() error {
	if err := s.pin.Set(true); err != nil {
		return fmt.Errorf("failed to assert chip select: %w", err)
	}
	s.logSelect(true, "pulse")
	s.delay.Delay(s.timing.PulseWidth)

	return s.deselect("pulse")
}

func (s *Selector) selectChip(reason string) error {
	if err := s.pin.Set(true); err != nil {
		return fmt.Errorf("failed to assert chip select: %w", err)
	}
	s.logSelect(true, reason)
	s.delay.Delay(s.timing.SelectSetup)
	return nil
}

func (s *Selector) deselect(reason string) error {
	if err := s.pin.Set(false); err != nil {
		return fmt.Errorf("failed to deassert chip select: %w", err)
	}
	s.logSelect(false, reason)
	s.delay.Delay(s.timing.DeselectHold)
	return nil
}

func (s *Selector) logSelect(asserted bool, reason string) {
	if s.logger == nil {
		return
	}
	s.logger.Log(log.Event{
		Timestamp: time.Now(),
		SessionID: s.sessionID,
		Direction: log.DirectionOut,
		Layer:     log.LayerDevice,
		Category:  log.CategorySelect,
		Select: &log.SelectEvent{
			Asserted: asserted,
			Reason:   reason,
		},
	})
}
