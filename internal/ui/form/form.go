// Package form is the Bubble Tea component for the registration form.
//
// The component owns a registration.Form and translates key presses and mouse
// clicks into Change calls on it. Submitting starts one Register call as a
// tea.Cmd; its ResultMsg is fed back through Update, which records the outcome
// and emits a ResolvedMsg for the parent.
//
// Keyboard:
//
//	Tab / Shift+Tab   - Next / previous field
//	Space, Enter      - Select the option under the cursor, toggle the checkbox
//	←/→, ↑/↓          - Move within the language and food choices
//	Enter on Submit   - Submit
//	Ctrl+S            - Submit from any field
//
// While a submit is in flight all key and mouse input is ignored.
package form

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rivo/uniseg"

	"github.com/zjrosen/signup/internal/api"
	"github.com/zjrosen/signup/internal/keys"
	"github.com/zjrosen/signup/internal/log"
	"github.com/zjrosen/signup/internal/registration"
	"github.com/zjrosen/signup/internal/ui/styles"
)

// DefaultWidth is used when Config.Width is zero.
const DefaultWidth = 60

// usernameCharLimit bounds what the text input accepts; the schema's maximum
// is lower so the too-long message can still be shown.
const usernameCharLimit = 64

var errNoRegistrar = errors.New("no registration endpoint configured")

// Config configures a new form.
type Config struct {
	Registrar api.Registrar
	// Schema defaults to registration.DefaultSchema().
	Schema *registration.Schema
	Width  int
	// Context is passed to every Register call. It defaults to Background.
	Context context.Context
	KeyMap  *keys.KeyMap
}

// ResultMsg carries the result of one Register call back into Update.
type ResultMsg struct {
	Message string
	Err     error
}

// ResolvedMsg is emitted once a ResultMsg has been recorded.
type ResolvedMsg struct {
	Outcome registration.Outcome
}

// Model is the form component state.
type Model struct {
	state     registration.Form
	registrar api.Registrar
	ctx       context.Context
	keys      keys.KeyMap

	username   textinput.Model
	langCursor int
	focus      focusTarget
	spinner    spinner.Model
	width      int
}

// New creates a form focused on the username field.
func New(cfg Config) Model {
	km := keys.DefaultKeyMap()
	if cfg.KeyMap != nil {
		km = *cfg.KeyMap
	}
	ctx := cfg.Context
	if ctx == nil {
		ctx = context.Background()
	}
	width := cfg.Width
	if width <= 0 {
		width = DefaultWidth
	}

	ti := textinput.New()
	ti.Placeholder = usernamePlaceholder
	ti.Prompt = " "
	ti.CharLimit = usernameCharLimit
	ti.PlaceholderStyle = lipgloss.NewStyle().Foreground(styles.TextPlaceholderColor)
	ti.Focus()

	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(styles.SpinnerColor)),
	)

	m := Model{
		state:     registration.NewForm(cfg.Schema),
		registrar: cfg.Registrar,
		ctx:       ctx,
		keys:      km,
		username:  ti,
		spinner:   sp,
		focus:     focusUsername,
	}
	return m.SetWidth(width)
}

// Init starts the cursor blinking in the username field.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// State returns the underlying form state.
func (m Model) State() registration.Form { return m.state }

// Width returns the rendered width.
func (m Model) Width() int { return m.width }

// SetWidth sets the rendered width.
func (m Model) SetWidth(w int) Model {
	m.width = w
	// section border (2) + prompt (1) + cursor (1)
	m.username.Width = max(w-4, 1)
	return m
}

// Update handles messages for the form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ResultMsg:
		return m.resolve(msg)

	case spinner.TickMsg:
		if !m.state.InFlight() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.state.InFlight() {
		switch msg.(type) {
		case tea.KeyMsg, tea.MouseMsg:
			return m, nil
		}
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.MouseMsg:
		if msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionRelease {
			return m.handleClick(msg)
		}
		return m, nil
	}

	// Cursor blink and other textinput housekeeping
	if m.focus == focusUsername {
		var cmd tea.Cmd
		m.username, cmd = m.username.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.submit()
	case key.Matches(msg, m.keys.Next):
		return m.focusOn((m.focus + 1) % focusCount)
	case key.Matches(msg, m.keys.Prev):
		return m.focusOn((m.focus + focusCount - 1) % focusCount)
	}

	switch m.focus {
	case focusUsername:
		return m.handleUsernameKey(msg)
	case focusLanguage:
		return m.handleLanguageKey(msg), nil
	case focusFood:
		return m.handleFoodKey(msg), nil
	case focusAgreement:
		if key.Matches(msg, m.keys.Toggle, m.keys.Enter) {
			return m.change(registration.FieldAgreement, registration.CheckboxInput(!m.state.Values().Agreement)), nil
		}
		return m.moveFocusByArrow(msg)
	case focusSubmit:
		if key.Matches(msg, m.keys.Toggle, m.keys.Enter) {
			return m.submit()
		}
		return m.moveFocusByArrow(msg)
	}
	return m, nil
}

func (m Model) handleUsernameKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Enter), key.Matches(msg, m.keys.Down):
		return m.focusOn(focusLanguage)
	case key.Matches(msg, m.keys.Up):
		return m.focusOn(focusSubmit)
	}

	before := m.username.Value()
	var cmd tea.Cmd
	m.username, cmd = m.username.Update(msg)
	if after := m.username.Value(); after != before {
		m = m.change(registration.FieldUsername, registration.TextInput(after))
	}
	return m, cmd
}

func (m Model) handleLanguageKey(msg tea.KeyMsg) Model {
	switch {
	case key.Matches(msg, m.keys.Left, m.keys.Up):
		m.langCursor = max(m.langCursor-1, 0)
	case key.Matches(msg, m.keys.Right, m.keys.Down):
		m.langCursor = min(m.langCursor+1, len(languageOptions)-1)
	case key.Matches(msg, m.keys.Toggle, m.keys.Enter):
		return m.change(registration.FieldFavLanguage, registration.RadioInput(languageOptions[m.langCursor].Value))
	}
	return m
}

// handleFoodKey steps through the real options. The placeholder is only ever
// shown before the first pick.
func (m Model) handleFoodKey(msg tea.KeyMsg) Model {
	current := indexOf(foodOptions, m.state.Values().FavFood)
	next := current
	switch {
	case key.Matches(msg, m.keys.Left, m.keys.Up):
		next = max(current-1, 0)
	case key.Matches(msg, m.keys.Right, m.keys.Down):
		next = min(current+1, len(foodOptions)-1)
	case key.Matches(msg, m.keys.Toggle, m.keys.Enter):
		next = (current + 1) % len(foodOptions)
	default:
		return m
	}
	if next == current {
		return m
	}
	return m.change(registration.FieldFavFood, registration.SelectInput(foodOptions[next].Value))
}

func (m Model) moveFocusByArrow(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Down):
		return m.focusOn((m.focus + 1) % focusCount)
	case key.Matches(msg, m.keys.Up):
		return m.focusOn((m.focus + focusCount - 1) % focusCount)
	}
	return m, nil
}

// focusOn moves focus and keeps the text input's focus state in step.
func (m Model) focusOn(target focusTarget) (Model, tea.Cmd) {
	m.focus = target
	if target == focusUsername {
		return m, m.username.Focus()
	}
	m.username.Blur()
	return m, nil
}

// change applies one input through the form's change handler.
func (m Model) change(field registration.Field, in registration.Input) Model {
	if err := m.state.Change(field, in); err != nil {
		log.Warn(log.CatForm, "Change rejected", "field", field, "error", err)
		return m
	}
	log.Debug(log.CatForm, "Field changed",
		"field", field,
		"error", m.state.Error(field),
		"submit_enabled", m.state.SubmitEnabled())
	return m
}

// submit starts a Register call if the form allows it.
func (m Model) submit() (Model, tea.Cmd) {
	values, err := m.state.BeginSubmit()
	if err != nil {
		log.Debug(log.CatForm, "Submit refused", "error", err)
		return m, nil
	}
	log.Info(log.CatForm, "Submitting registration",
		"username_length", uniseg.GraphemeClusterCount(values.Username),
		"favLanguage", values.FavLanguage,
		"favFood", values.FavFood)

	return m, tea.Batch(m.spinner.Tick, register(m.ctx, m.registrar, values))
}

func register(ctx context.Context, r api.Registrar, values registration.Values) tea.Cmd {
	return func() tea.Msg {
		if r == nil {
			return ResultMsg{Err: errNoRegistrar}
		}
		message, err := r.Register(ctx, values)
		return ResultMsg{Message: message, Err: err}
	}
}

// resolve records a finished submit.
func (m Model) resolve(msg ResultMsg) (Model, tea.Cmd) {
	if msg.Err != nil {
		text := api.FailureMessage(msg.Err)
		if err := m.state.Fail(text); err != nil {
			log.Warn(log.CatForm, "Stray submit result", "error", err)
			return m, nil
		}
		log.Warn(log.CatForm, "Registration failed", "message", text)
	} else {
		if err := m.state.Succeed(msg.Message); err != nil {
			log.Warn(log.CatForm, "Stray submit result", "error", err)
			return m, nil
		}
		m.username.SetValue("")
		m.langCursor = 0
		log.Info(log.CatForm, "Registration succeeded")
	}

	outcome := m.state.Outcome()
	return m, func() tea.Msg { return ResolvedMsg{Outcome: outcome} }
}
