package logging

import (
	"context"
	"log/slog"
	"os"

	"github.com/Graylog2/go-gelf/gelf"
)

// syslog severities used by GELF.
const (
	gelfLevelError = 3
	gelfLevelWarn  = 4
	gelfLevelInfo  = 6
	gelfLevelDebug = 7
)

// GelfHandler ships log records to a Graylog server.
type GelfHandler struct {
	writer *gelf.Writer
	host   string
	level  slog.Level
	attrs  []slog.Attr
}

// NewGelfHandler dials the Graylog address and returns a handler, or
// an error when the writer cannot be created.
func NewGelfHandler(address, level string) (*GelfHandler, error) {
	w, err := gelf.NewWriter(address)
	if err != nil {
		return nil, err
	}
	host, err := os.Hostname()
	if err != nil {
		host = "pitchboard"
	}
	return &GelfHandler{
		writer: w,
		host:   host,
		level:  parseLevel(level),
	}, nil
}

// Enabled reports whether the record level passes the threshold.
func (h *GelfHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

// Handle converts the record to a GELF message and writes it.
func (h *GelfHandler) Handle(_ context.Context, r slog.Record) error {
	extra := make(map[string]interface{}, r.NumAttrs()+len(h.attrs))
	for _, a := range h.attrs {
		extra["_"+a.Key] = a.Value.String()
	}
	r.Attrs(func(a slog.Attr) bool {
		extra["_"+a.Key] = a.Value.String()
		return true
	})

	var lvl int32
	switch {
	case r.Level >= slog.LevelError:
		lvl = gelfLevelError
	case r.Level >= slog.LevelWarn:
		lvl = gelfLevelWarn
	case r.Level >= slog.LevelInfo:
		lvl = gelfLevelInfo
	default:
		lvl = gelfLevelDebug
	}

	return h.writer.WriteMessage(&gelf.Message{
		Version:  "1.1",
		Host:     h.host,
		Short:    r.Message,
		TimeUnix: float64(r.Time.UnixNano()) / 1e9,
		Level:    lvl,
		Extra:    extra,
	})
}

// WithAttrs returns a handler carrying the extra attributes.
func (h *GelfHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := *h
	out.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &out
}

// WithGroup is accepted but flattened; GELF extras are a flat map.
func (h *GelfHandler) WithGroup(name string) slog.Handler {
	return h
}
