// Package profile holds the datasheet-derived timing constants for the
// device, as a named configuration rather than magic numbers inside the
// framing or sequencing logic. Profiles can be loaded from YAML so a
// different device revision can be tuned without touching code.
package profile

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Profile errors.
var (
	// ErrNegativeDuration indicates a timing value below zero.
	ErrNegativeDuration = errors.New("timing duration must not be negative")
)

// Timing is the set of timing constants one device revision requires.
// Violating the chip-select minimums is undefined behavior on real hardware;
// they are a hard contract, not a tunable to shave.
type Timing struct {
	// SelectSetup is the minimum delay between asserting chip select and
	// the first clock edge (tCSS).
	SelectSetup time.Duration

	// DeselectHold is the minimum time chip select must stay deasserted
	// between transactions (tCSH/tCS).
	DeselectHold time.Duration

	// PulseWidth is the width of the extra chip-select pulse issued after
	// read and write transactions.
	PulseWidth time.Duration

	// WriteSettle is the mandatory wait after a write transfer while the
	// device commits the cell (tWC).
	WriteSettle time.Duration

	// EraseSettle is the mandatory wait after an erase transfer.
	EraseSettle time.Duration

	// PowerUp is the delay required after power-on before the device is
	// ready (tPU).
	PowerUp time.Duration
}

// Default returns the AT93C86A datasheet timings.
func Default() Timing {
	return Timing{
		SelectSetup:  time.Microsecond,
		DeselectHold: time.Microsecond,
		PulseWidth:   time.Microsecond,
		WriteSettle:  7 * time.Millisecond,
		EraseSettle:  4 * time.Millisecond,
		PowerUp:      time.Millisecond,
	}
}

// Validate checks the timing values for consistency.
func (t Timing) Validate() error {
	for _, d := range []time.Duration{
		t.SelectSetup, t.DeselectHold, t.PulseWidth,
		t.WriteSettle, t.EraseSettle, t.PowerUp,
	} {
		if d < 0 {
			return ErrNegativeDuration
		}
	}
	return nil
}

// fileProfile is the YAML form of a timing profile. Durations are written
// in Go syntax ("7ms", "250ns"); empty fields fall back to the default.
type fileProfile struct {
	SelectSetup  string `yaml:"select_setup"`
	DeselectHold string `yaml:"deselect_hold"`
	PulseWidth   string `yaml:"pulse_width"`
	WriteSettle  string `yaml:"write_settle"`
	EraseSettle  string `yaml:"erase_settle"`
	PowerUp      string `yaml:"power_up"`
}

// Load reads a YAML timing profile. Fields left empty keep their default
// value.
func Load(path string) (Timing, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Timing{}, fmt.Errorf("failed to read profile: %w", err)
	}

	var fp fileProfile
	if err := yaml.Unmarshal(data, &fp); err != nil {
		return Timing{}, fmt.Errorf("failed to parse profile: %w", err)
	}

	t := Default()
	for _, f := range []struct {
		raw  string
		dest *time.Duration
	}{
		{fp.SelectSetup, &t.SelectSetup},
		{fp.DeselectHold, &t.DeselectHold},
		{fp.PulseWidth, &t.PulseWidth},
		{fp.WriteSettle, &t.WriteSettle},
		{fp.EraseSettle, &t.EraseSettle},
		{fp.PowerUp, &t.PowerUp},
	} {
		if f.raw == "" {
			continue
		}
		d, err := time.ParseDuration(f.raw)
		if err != nil {
			return Timing{}, fmt.Errorf("invalid duration %q in profile: %w", f.raw, err)
		}
		*f.dest = d
	}

	if err := t.Validate(); err != nil {
		return Timing{}, err
	}
	return t, nil
}
