package form

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/zjrosen/signup/internal/api"
	"github.com/zjrosen/signup/internal/api/mock"
	"github.com/zjrosen/signup/internal/log"
	"github.com/zjrosen/signup/internal/registration"
)

func TestMain(m *testing.M) {
	zone.NewGlobal()
	os.Exit(m.Run())
}

var (
	keyTab      = tea.KeyMsg{Type: tea.KeyTab}
	keyShiftTab = tea.KeyMsg{Type: tea.KeyShiftTab}
	keySpace    = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	keyEnter    = tea.KeyMsg{Type: tea.KeyEnter}
	keyRight    = tea.KeyMsg{Type: tea.KeyRight}
	keyLeft     = tea.KeyMsg{Type: tea.KeyLeft}
	keyCtrlS    = tea.KeyMsg{Type: tea.KeyCtrlS}
)

func typeText(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		m, _ = m.Update(msg)
	}
	return m
}

// filled returns a form with alice / JavaScript / Pizza / agreed.
func filled(t *testing.T, reg api.Registrar) Model {
	t.Helper()
	m := New(Config{Registrar: reg})
	m = press(m,
		typeText("alice"), keyTab,
		keySpace, keyTab,
		keyRight, keyTab,
		keySpace,
	)
	require.True(t, m.State().SubmitEnabled(), "form should be valid: %s", m.State())
	return m
}

// runCmd executes cmd and any batched children, returning every message.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmd(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func findResult(t *testing.T, msgs []tea.Msg) ResultMsg {
	t.Helper()
	for _, msg := range msgs {
		if r, ok := msg.(ResultMsg); ok {
			return r
		}
	}
	require.FailNow(t, "no ResultMsg produced")
	return ResultMsg{}
}

func TestNew_InitialState(t *testing.T) {
	m := New(Config{})

	require.Equal(t, focusUsername, m.focus)
	require.True(t, m.username.Focused())
	require.Equal(t, DefaultWidth, m.Width())
	require.Equal(t, registration.InitialValues(), m.State().Values())
	require.False(t, m.State().SubmitEnabled())
	require.NotNil(t, m.Init())
}

func TestFocusCycling(t *testing.T) {
	m := New(Config{})

	for _, want := range []focusTarget{focusLanguage, focusFood, focusAgreement, focusSubmit, focusUsername} {
		m = press(m, keyTab)
		require.Equal(t, want, m.focus)
		require.Equal(t, want == focusUsername, m.username.Focused())
	}

	m = press(m, keyShiftTab)
	require.Equal(t, focusSubmit, m.focus)
}

func TestUsername_ValidatesOnChange(t *testing.T) {
	m := New(Config{})

	m = press(m, typeText("ab"))
	require.Equal(t, "ab", m.State().Values().Username)
	require.Equal(t, registration.MsgUsernameMin, m.State().Error(registration.FieldUsername))
	require.Empty(t, m.State().Error(registration.FieldFavFood), "untouched fields stay quiet")

	m = press(m, typeText("c"))
	require.Empty(t, m.State().Error(registration.FieldUsername))
	require.False(t, m.State().SubmitEnabled(), "other fields are still empty")

	m = press(m, tea.KeyMsg{Type: tea.KeyBackspace}, tea.KeyMsg{Type: tea.KeyBackspace}, tea.KeyMsg{Type: tea.KeyBackspace})
	require.Equal(t, registration.MsgUsernameRequired, m.State().Error(registration.FieldUsername))
}

func TestUsername_SpaceIsTyped(t *testing.T) {
	m := New(Config{})
	m = press(m, typeText("a"), keySpace, typeText("b"))
	require.Equal(t, "a b", m.State().Values().Username)
}

func TestLanguage_CursorAndSelect(t *testing.T) {
	m := press(New(Config{}), keyTab)

	m = press(m, keyRight)
	require.Equal(t, 1, m.langCursor)
	require.Empty(t, m.State().Values().FavLanguage, "moving the cursor does not select")

	m = press(m, keyRight)
	require.Equal(t, 1, m.langCursor, "cursor stops at the last option")

	m = press(m, keyEnter)
	require.Equal(t, "rust", m.State().Values().FavLanguage)

	m = press(m, keyLeft, keySpace)
	require.Equal(t, "javascript", m.State().Values().FavLanguage)
}

func TestFood_PlaceholderNeverSelectable(t *testing.T) {
	m := press(New(Config{}), keyTab, keyTab)

	m = press(m, keyLeft)
	require.Equal(t, "pizza", m.State().Values().FavFood)

	m = press(m, keyRight, keyRight)
	require.Equal(t, "broccoli", m.State().Values().FavFood)

	m = press(m, keyRight)
	require.Equal(t, "broccoli", m.State().Values().FavFood, "stops at the last option")

	m = press(m, keySpace)
	require.Equal(t, "pizza", m.State().Values().FavFood, "space cycles back to the first real option")

	for range 10 {
		m = press(m, keyLeft)
		require.NotEmpty(t, m.State().Values().FavFood)
	}
}

func TestAgreement_Toggle(t *testing.T) {
	m := press(New(Config{}), keyTab, keyTab, keyTab)

	m = press(m, keySpace)
	require.True(t, m.State().Values().Agreement)
	require.Empty(t, m.State().Error(registration.FieldAgreement))

	m = press(m, keyEnter)
	require.False(t, m.State().Values().Agreement)
	require.Equal(t, registration.MsgAgreementOptions, m.State().Error(registration.FieldAgreement))
}

func TestSubmit_DisabledSendsNothing(t *testing.T) {
	reg := mock.NewRegistrar()
	m := New(Config{Registrar: reg})

	m, cmd := m.Update(keyCtrlS)
	require.Nil(t, cmd)
	require.False(t, m.State().InFlight())
	require.Zero(t, reg.CallCount())
}

func TestSubmit_Success(t *testing.T) {
	reg := mock.NewRegistrar()
	reg.RegisterFunc = func(_ context.Context, v registration.Values) (string, error) {
		return "Welcome, " + v.Username + "!", nil
	}
	m := filled(t, reg)

	m, cmd := m.Update(keyCtrlS)
	require.NotNil(t, cmd)
	require.True(t, m.State().InFlight())
	require.False(t, m.State().CanSubmit())

	result := findResult(t, runCmd(cmd))
	require.Equal(t, 1, reg.CallCount())
	require.Equal(t, "alice", reg.Calls()[0].Username)

	m, cmd = m.Update(result)
	require.False(t, m.State().InFlight())
	require.Equal(t, registration.InitialValues(), m.State().Values())
	require.Empty(t, m.username.Value())
	got, ok := m.State().Outcome().SuccessMessage()
	require.True(t, ok)
	require.Equal(t, "Welcome, alice!", got)

	resolved, ok := cmd().(ResolvedMsg)
	require.True(t, ok)
	require.Equal(t, registration.OutcomeSuccess, resolved.Outcome.Kind())
}

func TestSubmit_SuccessWithoutMessage(t *testing.T) {
	reg := mock.NewRegistrar()
	reg.RegisterFunc = func(context.Context, registration.Values) (string, error) { return "", nil }
	m := filled(t, reg)

	m, cmd := m.Update(keyCtrlS)
	m, _ = m.Update(findResult(t, runCmd(cmd)))

	require.Equal(t, registration.OutcomeSuccess, m.State().Outcome().Kind())
	require.Equal(t, registration.InitialValues(), m.State().Values())
	require.Empty(t, m.renderOutcome(m.Width()))
}

func TestSubmit_LogsUsernameLengthInCharacters(t *testing.T) {
	var buf bytes.Buffer
	log.SetDefault(log.New(&buf))
	t.Cleanup(func() { log.SetDefault(nil) })

	m := New(Config{Registrar: mock.NewRegistrar()})
	m = press(m,
		typeText("zoë"), keyTab,
		keySpace, keyTab,
		keyRight, keyTab,
		keySpace,
	)
	require.True(t, m.State().SubmitEnabled())

	_, cmd := m.Update(keyCtrlS)
	require.NotNil(t, cmd)
	require.Contains(t, buf.String(), "username_length=3")
	require.NotContains(t, buf.String(), "zoë")
}

func TestSubmit_Failure(t *testing.T) {
	reg := mock.NewRegistrar()
	reg.RegisterFunc = func(context.Context, registration.Values) (string, error) {
		return "", &api.ServerError{StatusCode: 409, Message: "username already taken"}
	}
	m := filled(t, reg)
	before := m.State().Values()

	m, cmd := m.Update(keyCtrlS)
	m, _ = m.Update(findResult(t, runCmd(cmd)))

	require.Equal(t, before, m.State().Values())
	require.Equal(t, "alice", m.username.Value())
	got, ok := m.State().Outcome().FailureMessage()
	require.True(t, ok)
	require.Equal(t, "username already taken", got)
	require.True(t, m.State().CanSubmit(), "user can retry")
}

func TestSubmit_EnterOnButton(t *testing.T) {
	m := filled(t, mock.NewRegistrar())
	m = press(m, keyTab)
	require.Equal(t, focusSubmit, m.focus)

	m, cmd := m.Update(keyEnter)
	require.NotNil(t, cmd)
	require.True(t, m.State().InFlight())
}

func TestSubmit_InputIgnoredWhileInFlight(t *testing.T) {
	reg := mock.NewRegistrar()
	m := filled(t, reg)
	m, _ = m.Update(keyCtrlS)
	require.True(t, m.State().InFlight())

	before := m.State().Values()
	m = press(m, keySpace, keyShiftTab, typeText("zzz"))
	require.Equal(t, before, m.State().Values())
	require.Equal(t, focusAgreement, m.focus)

	m, cmd := m.Update(keyCtrlS)
	require.Nil(t, cmd, "no second request while one is in flight")
	require.Zero(t, reg.CallCount(), "command not yet executed")
}

func TestSubmit_NoRegistrar(t *testing.T) {
	m := filled(t, nil)
	m, cmd := m.Update(keyCtrlS)
	m, _ = m.Update(findResult(t, runCmd(cmd)))

	got, ok := m.State().Outcome().FailureMessage()
	require.True(t, ok)
	require.Equal(t, "registration failed: "+errNoRegistrar.Error(), got)
}

func TestResolve_StrayResultIgnored(t *testing.T) {
	m := New(Config{})
	m, cmd := m.Update(ResultMsg{Message: "late"})
	require.Nil(t, cmd)
	require.Equal(t, registration.OutcomeIdle, m.State().Outcome().Kind())
}

func TestRegister_PassesContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reg := mock.NewRegistrar()
	reg.Block()
	defer reg.Release()

	msg := register(ctx, reg, registration.Values{})()
	result, ok := msg.(ResultMsg)
	require.True(t, ok)
	require.ErrorIs(t, result.Err, context.Canceled)
}

func TestSpinner_StopsAfterResolve(t *testing.T) {
	m := filled(t, mock.NewRegistrar())
	tick := m.spinner.Tick()

	_, cmd := m.Update(tick)
	require.Nil(t, cmd, "idle form drops spinner ticks")

	m, _ = m.Update(keyCtrlS)
	_, cmd = m.Update(tick)
	require.NotNil(t, cmd, "in-flight form keeps the spinner running")
}

func TestView_Content(t *testing.T) {
	m := New(Config{Width: 50})
	view := ansi.Strip(zone.Scan(m.View()))

	for _, want := range []string{
		"Create an Account",
		"Username:",
		"Type Username",
		"Favorite Language:",
		"( ) JavaScript",
		"( ) Rust",
		"Favorite Food:",
		"-- Select Favorite Food --",
		"[ ] Agree to our terms",
		"Submit",
	} {
		require.Contains(t, view, want)
	}
	require.NotContains(t, view, "is required", "no errors before any input")
}

func TestView_ErrorsAndOutcome(t *testing.T) {
	m := New(Config{Width: 50})
	m = press(m, typeText("ab"))
	view := ansi.Strip(zone.Scan(m.View()))
	require.Contains(t, view, registration.MsgUsernameMin)

	m = filled(t, mock.NewRegistrar()).SetWidth(50)
	m, _ = m.Update(keyCtrlS)
	view = ansi.Strip(zone.Scan(m.View()))
	require.Contains(t, view, "Submitting")

	long := strings.Repeat("taken ", 20)
	m, _ = m.Update(ResultMsg{Err: &api.ServerError{StatusCode: 409, Message: long}})
	view = ansi.Strip(zone.Scan(m.View()))
	require.Contains(t, view, "taken taken")
	for _, line := range strings.Split(view, "\n") {
		require.LessOrEqual(t, ansi.StringWidth(line), 50, "line %q", line)
	}
	require.Contains(t, view, "[x] Agree to our terms")
	require.Contains(t, view, "(●) JavaScript")
	require.Contains(t, view, "Pizza")
}

func TestMouse_ClickOptionAndSubmit(t *testing.T) {
	reg := mock.NewRegistrar()
	m := New(Config{Registrar: reg})
	m = press(m, typeText("alice"))

	click := func(m Model, id string) Model {
		t.Helper()
		zone.Clear(id)
		_ = zone.Scan(m.View())
		var z *zone.ZoneInfo
		require.Eventually(t, func() bool {
			z = zone.Get(id)
			return z != nil && !z.IsZero()
		}, time.Second, 5*time.Millisecond)
		m, _ = m.Update(tea.MouseMsg{
			X: z.StartX, Y: z.StartY,
			Button: tea.MouseButtonLeft, Action: tea.MouseActionRelease,
		})
		return m
	}

	m = click(m, zoneLanguage(1))
	require.Equal(t, "rust", m.State().Values().FavLanguage)
	require.Equal(t, focusLanguage, m.focus)

	m = click(m, zoneFoodNext)
	require.Equal(t, "pizza", m.State().Values().FavFood)

	m = click(m, zoneAgreement)
	require.True(t, m.State().Values().Agreement)
	require.True(t, m.State().SubmitEnabled())

	m = click(m, zoneSubmit)
	require.True(t, m.State().InFlight())
	require.Equal(t, focusSubmit, m.focus)
}

// Any sequence of input keeps the displayed errors and the submit flag in
// step with the schema.
func TestProperty_KeySequencesKeepStateConsistent(t *testing.T) {
	schema := registration.DefaultSchema()
	msgs := []tea.Msg{
		keyTab, keyShiftTab, keySpace, keyEnter, keyRight, keyLeft,
		tea.KeyMsg{Type: tea.KeyUp}, tea.KeyMsg{Type: tea.KeyDown},
		tea.KeyMsg{Type: tea.KeyBackspace},
		typeText("a"), typeText("xyz"), typeText(" "),
	}

	rapid.Check(t, func(rt *rapid.T) {
		m := New(Config{})
		steps := rapid.SliceOfN(rapid.SampledFrom(msgs), 0, 60).Draw(rt, "keys")
		for _, msg := range steps {
			m, _ = m.Update(msg)

			state := m.State()
			if state.SubmitEnabled() != schema.IsValid(state.Values()) {
				rt.Fatalf("submit flag %t disagrees with schema for %+v", state.SubmitEnabled(), state.Values())
			}
			if m.username.Value() != state.Values().Username {
				rt.Fatalf("input %q out of sync with state %q", m.username.Value(), state.Values().Username)
			}
			for _, f := range registration.Fields() {
				msg := state.Error(f)
				if msg == "" {
					continue
				}
				want, err := schema.ValidateField(f, state.Values().Get(f))
				if err != nil || want != msg {
					rt.Fatalf("field %s shows %q, schema says %q", f, msg, want)
				}
			}
		}
	})
}

func TestFailureMessageForPlainError(t *testing.T) {
	m := filled(t, nil)
	m, _ = m.Update(keyCtrlS)
	m, _ = m.Update(ResultMsg{Err: errors.New("dial tcp: connection refused")})
	got, _ := m.State().Outcome().FailureMessage()
	require.Equal(t, "registration failed: dial tcp: connection refused", got)
}
