// Package log provides structured protocol logging for the EEPROM driver.
//
// This package defines the Logger interface and Event types for capturing
// driver-level events at multiple layers (bus, command, device). It is
// separate from operational logging (slog) - protocol capture provides a
// complete machine-readable trace of every frame, chip-select transition and
// decoded command for debugging bit-alignment and timing problems.
//
// # Basic Usage
//
// Callers configure logging by providing a Logger implementation:
//
//	// For development: log to console via slog
//	cfg.Logger = log.NewSlogAdapter(slog.Default())
//
//	// For offline analysis: write to binary file
//	cfg.Logger, _ = log.NewFileLogger("session.mwlog")
//
//	// Both: use MultiLogger
//	cfg.Logger = log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// # Event Types
//
// Events are captured at multiple layers:
//   - Bus: raw frame bytes in either direction (TransferEvent)
//   - Command: decoded operations and read results (CommandEvent)
//   - Device: chip-select line transitions (SelectEvent)
//
// Errors at any layer have a dedicated event type.
//
// # File Format
//
// Log files use CBOR encoding with the .mwlog extension. The mw-log CLI tool
// provides viewing and statistics.
package log
