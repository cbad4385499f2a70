package logger

import (
	"io"
	"log/slog"
)

// Discard returns a logger that drops every record.
// Components use it as their default so logging stays opt-in.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// OrDiscard returns l, or a discarding logger when l is nil.
func OrDiscard(l *slog.Logger) *slog.Logger {
	if l == nil {
		return Discard()
	}
	return l
}
