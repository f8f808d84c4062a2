package form

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/reflow/wordwrap"

	"github.com/zjrosen/signup/internal/registration"
	"github.com/zjrosen/signup/internal/ui/styles"
)

// View renders the form. Zone markers are left in; the root model scans them.
func (m Model) View() string {
	width := m.width
	values := m.state.Values()

	var b strings.Builder
	b.WriteString(" " + styles.TitleStyle.Render(titleText) + "\n")
	b.WriteString(lipgloss.NewStyle().Foreground(styles.BorderDefaultColor).Render(strings.Repeat("─", width)))
	b.WriteString("\n\n")

	sections := []struct {
		target focusTarget
		label  string
		row    string
	}{
		{focusUsername, labelUsername, zone.Mark(zoneUsername, m.username.View())},
		{focusLanguage, labelLanguage, m.renderLanguage()},
		{focusFood, labelFood, m.renderFood(values.FavFood)},
		{focusAgreement, "", m.renderAgreement(values.Agreement)},
	}
	for _, s := range sections {
		focused := m.focus == s.target
		b.WriteString(styles.RenderFormSection([]string{s.row}, s.label, "", width, focused, styles.BorderHighlightFocusColor))
		b.WriteString("\n")
		if field, ok := s.target.field(); ok {
			if msg := m.state.Error(field); msg != "" {
				b.WriteString("  " + styles.FieldErrorStyle.Render(msg) + "\n")
			}
		}
	}

	b.WriteString("\n " + m.renderSubmit() + "\n")

	if out := m.renderOutcome(width); out != "" {
		b.WriteString("\n" + out + "\n")
	}
	return b.String()
}

func (m Model) renderLanguage() string {
	selected := m.state.Values().FavLanguage
	focused := m.focus == focusLanguage

	parts := make([]string, 0, len(languageOptions))
	for i, opt := range languageOptions {
		prefix := " "
		if focused && i == m.langCursor {
			prefix = styles.SelectionIndicatorStyle.Render(">")
		}
		radio := "( )"
		if opt.Value == selected {
			radio = "(●)"
		}
		parts = append(parts, prefix+zone.Mark(zoneLanguage(i), radio+" "+opt.Label))
	}
	return strings.Join(parts, "   ")
}

func (m Model) renderFood(value string) string {
	label := styles.HintStyle.Render(foodPlaceholder.Label)
	if i := indexOf(foodOptions, value); i >= 0 {
		label = styles.LabelStyle.Render(foodOptions[i].Label)
	}
	return " " + zone.Mark(zoneFoodPrev, "‹") + " " + label + " " + zone.Mark(zoneFoodNext, "›")
}

func (m Model) renderAgreement(checked bool) string {
	box := "[ ]"
	if checked {
		box = "[x]"
	}
	hint := styles.HintStyle.Render("(" + m.keys.Terms.Help().Key + " to read)")
	return " " + zone.Mark(zoneAgreement, box+" "+labelAgreement) + " " + hint
}

func (m Model) renderSubmit() string {
	if m.state.InFlight() {
		return m.spinner.View() + " " + styles.HintStyle.Render(submittingLabel+"…")
	}
	style := styles.ButtonStyle(m.state.SubmitEnabled(), m.focus == focusSubmit)
	return zone.Mark(zoneSubmit, style.Render(submitLabel))
}

func (m Model) renderOutcome(width int) string {
	outcome := m.state.Outcome()
	var style lipgloss.Style
	switch outcome.Kind() {
	case registration.OutcomeSuccess:
		style = styles.SuccessMessageStyle
	case registration.OutcomeFailure:
		style = styles.FailureMessageStyle
	default:
		return ""
	}
	if outcome.Message() == "" {
		return ""
	}

	lines := strings.Split(wordwrap.String(outcome.Message(), max(width-2, 1)), "\n")
	for i, l := range lines {
		lines[i] = " " + style.Render(l)
	}
	return strings.Join(lines, "\n")
}
