package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// SlogManager manages slog-based logging for the pitch board: console
// plus optional file and GELF outputs behind one multi-handler.
type SlogManager struct {
	logger *slog.Logger

	// phase provides dynamic context attributes (current half, clock
	// position) injected into every record.
	phase ContextProvider
}

// NewSlogManager creates a new slog-based logging manager.
func NewSlogManager() *SlogManager {
	return &SlogManager{}
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SetPhaseProvider registers the dynamic context provider. Must be
// called before Setup to take effect.
func (m *SlogManager) SetPhaseProvider(p ContextProvider) {
	m.phase = p
}

// Setup initializes the logging system with console output plus any
// extra handlers (file, GELF). Nil extras are filtered out.
func (m *SlogManager) Setup(file io.Writer, level string, extras ...slog.Handler) {
	lvl := parseLevel(level)

	handlerOpts := &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.UTC().Format(time.RFC3339))
				}
			}
			return a
		},
	}

	var handlers []slog.Handler
	handlers = append(handlers, slog.NewTextHandler(os.Stdout, handlerOpts))
	if file != nil {
		handlers = append(handlers, slog.NewTextHandler(file, handlerOpts))
	}
	handlers = append(handlers, extras...)

	var handler slog.Handler = NewMultiHandler(handlers...)
	if m.phase != nil {
		handler = NewContextHandler(handler, m.phase)
	}

	m.logger = slog.New(handler)
	m.logger.Info("Logging initialized", "level", level)
}

// Logger returns the configured slog.Logger.
func (m *SlogManager) Logger() *slog.Logger {
	if m.logger == nil {
		return slog.Default()
	}
	return m.logger
}
