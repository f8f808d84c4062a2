package log

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/signup/internal/pubsub"
)

func fixedClock() time.Time {
	return time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
}

func install(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	l := New(&buf)
	l.now = fixedClock
	SetDefault(l)
	t.Cleanup(func() { SetDefault(nil) })
	return &buf
}

func TestLog_Format(t *testing.T) {
	buf := install(t)

	Info(CatHTTP, "registration sent", "status", 201, "request_id", "abc")

	require.Equal(t, "2026-03-04T05:06:07 [INFO] [http] registration sent status=201 request_id=abc\n", buf.String())
}

func TestLog_OddFields(t *testing.T) {
	buf := install(t)

	Warn(CatForm, "odd", "field")

	require.Contains(t, buf.String(), "field=<missing>")
}

func TestLog_ErrorErr(t *testing.T) {
	buf := install(t)

	ErrorErr(CatHTTP, "post failed", errors.New("connection refused"), "attempt", 1)
	ErrorErr(CatHTTP, "nil error", nil)

	require.Contains(t, buf.String(), "[ERROR] [http] post failed attempt=1 error=connection refused")
	require.Contains(t, buf.String(), "error=<nil>")
}

func TestLog_MinLevel(t *testing.T) {
	buf := install(t)

	SetMinLevel(LevelWarn)
	Debug(CatUI, "hidden")
	Info(CatUI, "hidden")
	Error(CatUI, "shown")
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "shown")
}

func TestLog_NoLoggerIsSafe(t *testing.T) {
	SetDefault(nil)
	require.NotPanics(t, func() {
		Debug(CatForm, "nothing")
		SetMinLevel(LevelError)
	})
	require.Nil(t, NewListener(context.Background()))
}

func TestLog_PublishesToListener(t *testing.T) {
	install(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	l := NewListener(ctx)
	require.NotNil(t, l)

	Info(CatForm, "changed", "field", "username")

	msg := l.Listen()()
	ev, ok := msg.(pubsub.Event[string])
	require.True(t, ok, "got %T", msg)
	require.Equal(t, pubsub.Logged, ev.Type)
	require.Contains(t, ev.Payload, "[INFO] [form] changed field=username")
}

func TestInit_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")

	cleanup, err := Init(path)
	require.NoError(t, err)
	Info(CatConfig, "loaded")
	cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "[INFO] [config] loaded")

	Info(CatConfig, "after cleanup")
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(data), "after cleanup")
}

func TestInit_EmptyPath(t *testing.T) {
	_, err := Init("")
	require.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{"": LevelDebug, "debug": LevelDebug, "INFO": LevelInfo, "warning": LevelWarn, " error ": LevelError}
	for in, want := range tests {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}
	_, err := ParseLevel("loud")
	require.Error(t, err)
	require.Equal(t, "UNKNOWN", Level(42).String())
}
