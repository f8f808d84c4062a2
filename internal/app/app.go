// Package app contains the root application model.
package app

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/signup/internal/keys"
	"github.com/zjrosen/signup/internal/log"
	"github.com/zjrosen/signup/internal/pubsub"
	"github.com/zjrosen/signup/internal/ui/form"
	"github.com/zjrosen/signup/internal/ui/logoverlay"
	"github.com/zjrosen/signup/internal/ui/overlay"
	"github.com/zjrosen/signup/internal/ui/styles"
)

// Config configures the root model.
type Config struct {
	Form form.Config
	// ShowFooter shows key help and, when logging is on, the latest log line.
	ShowFooter bool
	// MarkdownStyle is passed to the terms renderer; empty means auto.
	MarkdownStyle string
	// Context bounds the log subscription. It defaults to Background.
	Context context.Context
}

// Model is the root application state.
type Model struct {
	form form.Model
	keys keys.KeyMap
	help help.Model

	width     int
	height    int
	formWidth int

	showFooter    bool
	showTerms     bool
	termsView     string
	markdownStyle string

	logs    *log.Listener
	lastLog string
	logView logoverlay.Model
}

// New creates the root model.
func New(cfg Config) Model {
	ctx := cfg.Context
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.Form.Context == nil {
		cfg.Form.Context = ctx
	}
	km := keys.DefaultKeyMap()
	if cfg.Form.KeyMap != nil {
		km = *cfg.Form.KeyMap
	}

	f := form.New(cfg.Form)
	h := help.New()
	h.Styles.ShortKey = styles.FooterStyle
	h.Styles.ShortDesc = styles.FooterStyle
	h.Styles.FullKey = styles.FooterStyle
	h.Styles.FullDesc = styles.FooterStyle

	return Model{
		form:          f,
		keys:          km,
		help:          h,
		formWidth:     f.Width(),
		showFooter:    cfg.ShowFooter,
		markdownStyle: cfg.MarkdownStyle,
		logs:          log.NewListener(ctx),
		logView:       logoverlay.New(logoverlay.DefaultCapacity),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.form.Init(), m.logs.Listen())
}

// Form returns the form component.
func (m Model) Form() form.Model { return m.form }

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.form = m.form.SetWidth(min(m.formWidth, msg.Width))
		m.help.Width = msg.Width
		m.logView = m.logView.SetSize(msg.Width, msg.Height)
		if m.showTerms {
			m.termsView = renderTerms(m.form.Width(), m.markdownStyle)
		}
		return m, nil

	case pubsub.Event[string]:
		m.lastLog = msg.Payload
		m.logView = m.logView.Append(msg.Payload)
		return m, m.logs.Listen()

	case logoverlay.CloseMsg:
		return m, nil

	case form.ResolvedMsg:
		log.Debug(log.CatUI, "Outcome shown", "outcome", msg.Outcome.Kind())
		return m, nil

	case tea.KeyMsg:
		if m.logView.Visible() {
			var cmd tea.Cmd
			m.logView, cmd = m.logView.Update(msg)
			return m, cmd
		}
		if m.showTerms {
			return m.handleTermsKey(msg)
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			log.Info(log.CatUI, "Quit requested")
			return m, tea.Quit
		case key.Matches(msg, m.keys.Terms):
			m.showTerms = true
			m.termsView = renderTerms(m.form.Width(), m.markdownStyle)
			return m, nil
		case key.Matches(msg, m.keys.Logs) && m.logs != nil:
			m.logView = m.logView.Toggle()
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}

	case tea.MouseMsg:
		if m.showTerms || m.logView.Visible() {
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	return m, cmd
}

// handleTermsKey lets the overlay swallow everything but close and quit.
func (m Model) handleTermsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit
	case key.Matches(msg, m.keys.Quit), key.Matches(msg, m.keys.Terms), key.Matches(msg, m.keys.Enter):
		m.showTerms = false
		m.termsView = ""
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	view := m.form.View()
	if m.showFooter {
		view += "\n" + m.footer()
	}

	if m.showTerms {
		lines := strings.Count(view, "\n") + 1
		view = overlay.Place(overlay.Config{
			Width:    m.form.Width(),
			Height:   max(m.height, lines),
			Position: overlay.Top,
			PadY:     2,
		}, m.termsView, view)
	}

	view = m.logView.Overlay(view)

	return zone.Scan(view)
}

func (m Model) footer() string {
	width := m.form.Width()
	out := " " + m.help.View(m.keys)
	if m.lastLog != "" {
		out += "\n " + styles.FooterStyle.Render(ansi.Truncate(m.lastLog, max(width-1, 1), "…"))
	}
	return out
}
