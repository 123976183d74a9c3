// Package commands implements the mw-log CLI commands.
package commands

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/microwire-protocol/microwire-go/pkg/log"
)

// BuildFilter assembles a log.Filter from command-line flag values.
func BuildFilter(session, layer, direction string) (log.Filter, error) {
	filter := log.Filter{SessionID: session}

	if layer != "" {
		l, err := parseLayer(layer)
		if err != nil {
			return log.Filter{}, err
		}
		filter.Layer = &l
	}
	if direction != "" {
		d, err := parseDirection(direction)
		if err != nil {
			return log.Filter{}, err
		}
		filter.Direction = &d
	}
	return filter, nil
}

func parseLayer(s string) (log.Layer, error) {
	switch strings.ToLower(s) {
	case "bus":
		return log.LayerBus, nil
	case "command":
		return log.LayerCommand, nil
	case "device":
		return log.LayerDevice, nil
	default:
		return 0, fmt.Errorf("unknown layer %q (want bus, command or device)", s)
	}
}

func parseDirection(s string) (log.Direction, error) {
	switch strings.ToLower(s) {
	case "in":
		return log.DirectionIn, nil
	case "out":
		return log.DirectionOut, nil
	default:
		return 0, fmt.Errorf("unknown direction %q (want in or out)", s)
	}
}

// View writes every event in the log file matching filter to w in
// human-readable form.
func View(w io.Writer, path string, filter log.Filter) error {
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return err
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		formatEvent(w, event)
	}
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	// Header line: timestamp [session:id] DIRECTION LAYER Type
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	session := shortenSessionID(event.SessionID)
	dir := event.Direction.String()

	var typeLabel string
	switch {
	case event.Transfer != nil:
		typeLabel = "Transfer"
	case event.Command != nil:
		typeLabel = event.Command.Kind
	case event.Select != nil:
		typeLabel = "Select"
	case event.Error != nil:
		typeLabel = "Error"
	default:
		typeLabel = "Unknown"
	}

	fmt.Fprintf(w, "%s [session:%s] %-3s %s %s\n", ts, session, dir, event.Layer, typeLabel)

	switch {
	case event.Transfer != nil:
		formatTransferDetails(w, event.Transfer)
	case event.Command != nil:
		formatCommandDetails(w, event.Command)
	case event.Select != nil:
		formatSelectDetails(w, event.Select)
	case event.Error != nil:
		formatErrorDetails(w, event.Error)
	}

	fmt.Fprintln(w) // Blank line between events
}

// shortenSessionID returns the first 8 characters of the session ID.
func shortenSessionID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

func formatTransferDetails(w io.Writer, transfer *log.TransferEvent) {
	fmt.Fprintf(w, "  Size: %d bytes\n", transfer.Size)
	if len(transfer.Data) > 0 {
		fmt.Fprintf(w, "  Data: %s\n", hex.EncodeToString(transfer.Data))
	}
}

func formatCommandDetails(w io.Writer, cmd *log.CommandEvent) {
	if cmd.Addr != nil {
		fmt.Fprintf(w, "  Addr: %#06x\n", *cmd.Addr)
	}
	if cmd.Data != nil {
		fmt.Fprintf(w, "  Data: %#06x\n", *cmd.Data)
	}
	if cmd.Word != nil {
		fmt.Fprintf(w, "  Word: %#06x\n", *cmd.Word)
	}
	if cmd.Settle != nil {
		fmt.Fprintf(w, "  Settle: %s\n", *cmd.Settle)
	}
}

func formatSelectDetails(w io.Writer, sel *log.SelectEvent) {
	state := "deasserted"
	if sel.Asserted {
		state = "asserted"
	}
	fmt.Fprintf(w, "  State: %s\n", state)
	if sel.Reason != "" {
		fmt.Fprintf(w, "  Reason: %s\n", sel.Reason)
	}
}

func formatErrorDetails(w io.Writer, errData *log.ErrorEventData) {
	fmt.Fprintf(w, "  Layer: %s\n", errData.Layer)
	fmt.Fprintf(w, "  Message: %s\n", errData.Message)
	if errData.Context != "" {
		fmt.Fprintf(w, "  Context: %s\n", errData.Context)
	}
}
