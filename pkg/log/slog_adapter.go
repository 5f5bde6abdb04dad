package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes driver events to an slog.Logger.
// Useful for development when you want to see driver traffic in console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger.
// Failed operations log at Error level, everything else at Debug.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("op", event.Op.String()),
	}

	if event.HandleID != "" {
		attrs = append(attrs, slog.String("handle_id", event.HandleID))
	}
	if event.Device != "" {
		attrs = append(attrs, slog.String("device", event.Device))
	}

	// Add operation-specific attributes
	if event.Offset != nil {
		attrs = append(attrs, slog.Int64("offset", *event.Offset))
	}
	if event.Length != nil {
		attrs = append(attrs, slog.Int("length", *event.Length))
	}
	if event.Address != nil {
		attrs = append(attrs, slog.Uint64("address", uint64(*event.Address)))
	}
	if event.Bit != nil {
		attrs = append(attrs, slog.Uint64("bit", uint64(*event.Bit)))
	}
	if event.Value != nil {
		attrs = append(attrs, slog.Uint64("value", uint64(*event.Value)))
	}
	if event.Name != "" {
		attrs = append(attrs, slog.String("name", event.Name))
	}

	level := slog.LevelDebug
	if event.Error != nil {
		level = slog.LevelError
		attrs = append(attrs, slog.String("error", event.Error.Message))
		if event.Error.Errno != nil {
			attrs = append(attrs, slog.Int("errno", *event.Error.Errno))
		}
	}

	a.logger.LogAttrs(context.Background(), level, "picontrol", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
