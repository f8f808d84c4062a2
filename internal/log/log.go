// Package log is the debug logger for signup.
//
// Entries are plain lines with a timestamp, level and category followed by
// key=value fields. Logging is off until Init is called, which cmd does only
// under --debug or SIGNUP_DEBUG. The terminal belongs to the TUI, so entries
// go to a file and are also published on a broker for the in-app footer.
package log

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/signup/internal/pubsub"
)

// Level is log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a config string to a Level. Unknown strings are an error.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug", "":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelDebug, fmt.Errorf("unknown log level %q", s)
}

// Category groups related entries.
type Category string

const (
	CatForm   Category = "form"   // field changes and submit gating
	CatHTTP   Category = "http"   // registration requests
	CatConfig Category = "config" // configuration loading
	CatUI     Category = "ui"     // Bubble Tea model events
	CatTrace  Category = "trace"  // tracing provider lifecycle
)

// Logger writes entries to w and publishes them on a broker.
type Logger struct {
	mu       sync.Mutex
	w        io.Writer
	minLevel Level
	broker   *pubsub.Broker[string]
	now      func() time.Time
}

var (
	std   *Logger
	stdMu sync.RWMutex
)

// New returns a logger writing to w. It is not installed globally.
func New(w io.Writer) *Logger {
	return &Logger{
		w:        w,
		minLevel: LevelDebug,
		broker:   pubsub.NewBroker[string](),
		now:      time.Now,
	}
}

// Init opens path for appending and installs the global logger. The returned
// func closes the file and uninstalls the logger.
func Init(path string) (func(), error) {
	if path == "" {
		return nil, errors.New("log path is empty")
	}
	f, err := tea.LogToFile(path, "")
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	l := New(f)
	SetDefault(l)
	return func() {
		SetDefault(nil)
		l.broker.Close()
		_ = f.Close()
	}, nil
}

// SetDefault installs l as the global logger. nil disables logging.
func SetDefault(l *Logger) {
	stdMu.Lock()
	std = l
	stdMu.Unlock()
}

func current() *Logger {
	stdMu.RLock()
	defer stdMu.RUnlock()
	return std
}

// SetMinLevel drops entries below level.
func SetMinLevel(level Level) {
	if l := current(); l != nil {
		l.mu.Lock()
		l.minLevel = level
		l.mu.Unlock()
	}
}

// Debug logs at debug level.
func Debug(cat Category, msg string, fields ...any) { current().log(LevelDebug, cat, msg, fields...) }

// Info logs at info level.
func Info(cat Category, msg string, fields ...any) { current().log(LevelInfo, cat, msg, fields...) }

// Warn logs at warn level.
func Warn(cat Category, msg string, fields ...any) { current().log(LevelWarn, cat, msg, fields...) }

// Error logs at error level.
func Error(cat Category, msg string, fields ...any) { current().log(LevelError, cat, msg, fields...) }

// ErrorErr logs err under the "error" key.
func ErrorErr(cat Category, msg string, err error, fields ...any) {
	errText := "<nil>"
	if err != nil {
		errText = err.Error()
	}
	current().log(LevelError, cat, msg, append(fields, "error", errText)...)
}

// Format: 2026-01-02T15:04:05 [WARN] [http] message key=value key2=value2
func (l *Logger) log(level Level, cat Category, msg string, fields ...any) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if level < l.minLevel {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s] [%s] %s", l.now().Format("2006-01-02T15:04:05"), level, cat, msg)
	for i := 0; i+1 < len(fields); i += 2 {
		fmt.Fprintf(&b, " %v=%v", fields[i], fields[i+1])
	}
	if len(fields)%2 != 0 {
		fmt.Fprintf(&b, " %v=<missing>", fields[len(fields)-1])
	}
	line := b.String()

	if l.w != nil {
		_, _ = io.WriteString(l.w, line+"\n")
	}
	l.broker.Publish(pubsub.Logged, line)
}

// Listener receives published log lines.
type Listener = pubsub.Listener[string]

// NewListener subscribes to the global logger. It returns nil when logging
// has not been initialised.
func NewListener(ctx context.Context) *Listener {
	l := current()
	if l == nil {
		return nil
	}
	return pubsub.NewListener(ctx, l.broker)
}
