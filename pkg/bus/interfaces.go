// Package bus defines the boundary to the synchronous serial bus and the
// chip-select line, and implements the select/deselect discipline the device
// requires around every transaction.
//
// The driver core consumes three capabilities from its collaborators:
// transmit and receive on the bus (Bus), digital output control of the
// chip-select line (Pin), and a blocking sleep (Delayer). Peripheral
// bring-up - clock rate, SPI mode, pin muxing - belongs to whoever
// implements these interfaces, not to this package.
package bus

import "time"

// Bus is a raw synchronous serial transfer primitive. Transfers are 8-bit
// aligned and MSB-first; clock polarity and phase are fixed by the
// implementation's configuration (the device supports modes 0 and 3).
// Implemented over real hardware or by the simulator.
type Bus interface {
	// Transmit clocks p out on the bus, blocking until complete.
	Transmit(p []byte) error

	// Receive clocks n bytes in from the bus, blocking until complete.
	Receive(n int) ([]byte, error)
}

// Pin is a digital output line. For this device the chip-select line is
// active high: Set(true) selects the chip.
type Pin interface {
	// Set drives the line to the given level.
	Set(active bool) error
}

// Delayer is a blocking sleep primitive, used both for sub-microsecond
// chip-select timing and multi-millisecond write/erase settle waits.
type Delayer interface {
	// Delay blocks the caller for at least d.
	Delay(d time.Duration)
}

// SleepDelayer implements Delayer with time.Sleep.
type SleepDelayer struct{}

// Delay blocks for at least d.
func (SleepDelayer) Delay(d time.Duration) {
	time.Sleep(d)
}

// Compile-time interface satisfaction check.
var _ Delayer = SleepDelayer{}
