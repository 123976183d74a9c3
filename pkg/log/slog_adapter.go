package log

import (
	"context"
	"encoding/hex"
	"log/slog"
)

// SlogAdapter writes driver events to an slog.Logger.
// Useful for development when you want to see bus traffic in the console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger at Debug level.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("session_id", event.SessionID),
		slog.String("direction", event.Direction.String()),
		slog.String("layer", event.Layer.String()),
		slog.String("category", event.Category.String()),
	}

	// Add type-specific attributes
	switch {
	case event.Transfer != nil:
		attrs = append(attrs,
			slog.Int("size", event.Transfer.Size),
			slog.String("data", hex.EncodeToString(event.Transfer.Data)),
		)
	case event.Command != nil:
		attrs = append(attrs, slog.String("kind", event.Command.Kind))
		if event.Command.Addr != nil {
			attrs = append(attrs, slog.Uint64("addr", uint64(*event.Command.Addr)))
		}
		if event.Command.Data != nil {
			attrs = append(attrs, slog.Uint64("data", uint64(*event.Command.Data)))
		}
		if event.Command.Word != nil {
			attrs = append(attrs, slog.Uint64("word", uint64(*event.Command.Word)))
		}
		if event.Command.Settle != nil {
			attrs = append(attrs, slog.Duration("settle", *event.Command.Settle))
		}
	case event.Select != nil:
		attrs = append(attrs, slog.Bool("asserted", event.Select.Asserted))
		if event.Select.Reason != "" {
			attrs = append(attrs, slog.String("reason", event.Select.Reason))
		}
	case event.Error != nil:
		attrs = append(attrs,
			slog.String("error_layer", event.Error.Layer.String()),
			slog.String("error_msg", event.Error.Message),
			slog.String("error_context", event.Error.Context),
		)
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "microwire", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
