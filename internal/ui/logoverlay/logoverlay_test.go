package logoverlay

import (
	"fmt"
	"os"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/signup/internal/log"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func sample() Model {
	m := New(0).SetSize(100, 30)
	for _, line := range []string{
		"2026-01-02T15:04:05 [DEBUG] [form] Field changed field=username",
		"2026-01-02T15:04:05 [INFO] [http] posting registration request_id=1",
		"2026-01-02T15:04:06 [WARN] [http] registration rejected status=409",
		"2026-01-02T15:04:06 [ERROR] [http] registration request failed",
	} {
		m = m.Append(line)
	}
	return m
}

func TestNew_Hidden(t *testing.T) {
	m := New(0)
	require.False(t, m.Visible())
	require.Empty(t, m.View())
	require.Equal(t, log.LevelDebug, m.MinLevel())
	require.Equal(t, "bg", m.Overlay("bg"))
}

func TestAppend_DropsOldest(t *testing.T) {
	m := New(3)
	for i := range 5 {
		m = m.Append(fmt.Sprintf("line %d\n", i))
	}
	require.Equal(t, []string{"line 2", "line 3", "line 4"}, m.Entries())
}

func TestToggle_ShowsEntries(t *testing.T) {
	m := sample().Toggle()
	require.True(t, m.Visible())

	view := ansi.Strip(m.View())
	require.Contains(t, view, "Debug log")
	require.Contains(t, view, "Field changed")
	require.Contains(t, view, "registration request failed")
}

func TestFilterLevels(t *testing.T) {
	tests := []struct {
		key     string
		level   log.Level
		shown   []string
		dropped []string
	}{
		{"d", log.LevelDebug, []string{"Field changed", "request failed"}, nil},
		{"i", log.LevelInfo, []string{"posting registration"}, []string{"Field changed"}},
		{"w", log.LevelWarn, []string{"registration rejected"}, []string{"posting registration"}},
		{"e", log.LevelError, []string{"request failed"}, []string{"registration rejected"}},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			m, _ := sample().Toggle().Update(keyRunes(tt.key))
			require.Equal(t, tt.level, m.MinLevel())
			view := ansi.Strip(m.View())
			for _, s := range tt.shown {
				require.Contains(t, view, s)
			}
			for _, s := range tt.dropped {
				require.NotContains(t, view, s)
			}
		})
	}
}

func TestClear(t *testing.T) {
	m, _ := sample().Toggle().Update(keyRunes("c"))
	require.Empty(t, m.Entries())
	require.Contains(t, ansi.Strip(m.View()), "No logs to display")
}

func TestClose(t *testing.T) {
	for _, k := range []tea.KeyMsg{{Type: tea.KeyEsc}, {Type: tea.KeyCtrlX}} {
		m, cmd := sample().Toggle().Update(k)
		require.False(t, m.Visible())
		require.NotNil(t, cmd)
		require.IsType(t, CloseMsg{}, cmd())
	}
}

func TestQuit(t *testing.T) {
	_, cmd := sample().Toggle().Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	require.IsType(t, tea.QuitMsg{}, cmd())
}

func TestHiddenIgnoresKeys(t *testing.T) {
	m, cmd := sample().Update(keyRunes("e"))
	require.Nil(t, cmd)
	require.Equal(t, log.LevelDebug, m.MinLevel())
}

func TestLongLinesTruncated(t *testing.T) {
	m := New(0).SetSize(60, 20).Append("[INFO] " + strings.Repeat("x", 300)).Toggle()
	for _, line := range strings.Split(m.View(), "\n") {
		require.LessOrEqual(t, ansi.StringWidth(line), m.boxWidth()+2)
	}
}

func TestOverlay_Centered(t *testing.T) {
	m := sample().Toggle()
	bg := strings.Repeat(strings.Repeat(".", 100)+"\n", 29) + strings.Repeat(".", 100)
	out := ansi.Strip(m.Overlay(bg))
	require.Contains(t, out, "Debug log")
	require.True(t, strings.HasPrefix(out, strings.Repeat(".", 100)), "first row untouched")
}
