package markdown

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"
)

func TestRender_Plain(t *testing.T) {
	r, err := New(30, StylePlain)
	require.NoError(t, err)
	require.Equal(t, 30, r.Width())

	out, err := r.Render("# Terms\n\nYou agree to be **nice** to everyone you meet on the internet.")
	require.NoError(t, err)

	plain := ansi.Strip(out)
	require.Contains(t, plain, "Terms")
	require.Contains(t, plain, "nice")
	require.False(t, strings.HasSuffix(out, "\n"))
	for _, line := range strings.Split(out, "\n") {
		require.LessOrEqual(t, lipgloss.Width(line), 30, "line %q", line)
	}
}

func TestNew_UnknownStyle(t *testing.T) {
	_, err := New(30, "sepia")
	require.ErrorContains(t, err, "unknown markdown style")
}

func TestNew_AutoStyle(t *testing.T) {
	r, err := New(40, "")
	require.NoError(t, err)
	_, err = r.Render("text")
	require.NoError(t, err)
}
