package log

import (
	"time"
)

// Event represents a driver log event captured at any layer.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID uniquely identifies the device session (UUID).
	SessionID string `cbor:"2,keyasint"`

	// Direction indicates which way the bytes flowed.
	Direction Direction `cbor:"3,keyasint"`

	// Layer where the event was captured.
	Layer Layer `cbor:"4,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"5,keyasint"`

	// Type-specific payload (one of these will be set).
	Transfer *TransferEvent  `cbor:"6,keyasint,omitempty"` // Bus layer (raw bytes)
	Command  *CommandEvent   `cbor:"7,keyasint,omitempty"` // Command layer (decoded)
	Select   *SelectEvent    `cbor:"8,keyasint,omitempty"` // Chip-select transitions
	Error    *ErrorEventData `cbor:"9,keyasint,omitempty"` // Errors at any layer
}

// Direction indicates the direction of byte flow on the bus.
type Direction uint8

const (
	// DirectionIn indicates bytes clocked in from the device.
	DirectionIn Direction = 0
	// DirectionOut indicates bytes clocked out to the device.
	DirectionOut Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Layer indicates which driver layer captured the event.
type Layer uint8

const (
	// LayerBus is the raw transfer layer (frame bytes).
	LayerBus Layer = 0
	// LayerCommand is the operation layer (decoded commands and words).
	LayerCommand Layer = 1
	// LayerDevice is the chip-select and timing layer.
	LayerDevice Layer = 2
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerBus:
		return "BUS"
	case LayerCommand:
		return "COMMAND"
	case LayerDevice:
		return "DEVICE"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryTransfer indicates a raw bus transfer.
	CategoryTransfer Category = 0
	// CategoryCommand indicates a decoded device operation.
	CategoryCommand Category = 1
	// CategorySelect indicates a chip-select transition.
	CategorySelect Category = 2
	// CategoryError indicates an error event.
	CategoryError Category = 3
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryTransfer:
		return "TRANSFER"
	case CategoryCommand:
		return "COMMAND"
	case CategorySelect:
		return "SELECT"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// TransferEvent captures raw frame bytes at the bus layer.
type TransferEvent struct {
	// Size is the transfer size in bytes.
	Size int `cbor:"1,keyasint"`

	// Data is the raw frame bytes.
	Data []byte `cbor:"2,keyasint,omitempty"`
}

// CommandEvent captures a decoded device operation at the command layer.
type CommandEvent struct {
	// Kind names the operation (Read, Write, Erase, WriteEnable,
	// WriteDisable).
	Kind string `cbor:"1,keyasint"`

	// Addr is the masked target address, for operations that carry one.
	Addr *uint16 `cbor:"2,keyasint,omitempty"`

	// Data is the word written, for write operations.
	Data *uint16 `cbor:"3,keyasint,omitempty"`

	// Word is the word read back, for read operations.
	Word *uint16 `cbor:"4,keyasint,omitempty"`

	// Settle is the post-transfer settle delay, for write and erase.
	// Stored as nanoseconds.
	Settle *time.Duration `cbor:"5,keyasint,omitempty"`
}

// SelectEvent captures a chip-select line transition.
type SelectEvent struct {
	// Asserted is the new level of the chip-select line.
	Asserted bool `cbor:"1,keyasint"`

	// Reason describes why the line changed (session, pulse).
	Reason string `cbor:"2,keyasint,omitempty"`
}

// ErrorEventData captures errors at any layer.
type ErrorEventData struct {
	// Layer where the error occurred.
	Layer Layer `cbor:"1,keyasint"`

	// Message is the error message.
	Message string `cbor:"2,keyasint"`

	// Context describes what operation was being performed.
	Context string `cbor:"3,keyasint,omitempty"`
}
