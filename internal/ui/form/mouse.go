package form

import (
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/signup/internal/registration"
)

func inZone(id string, msg tea.MouseMsg) bool {
	z := zone.Get(id)
	return z != nil && z.InBounds(msg)
}

// handleClick focuses the clicked field and applies the click as if the
// matching key had been pressed on it.
func (m Model) handleClick(msg tea.MouseMsg) (Model, tea.Cmd) {
	if inZone(zoneSubmit, msg) {
		m, _ = m.focusOn(focusSubmit)
		return m.submit()
	}

	if inZone(zoneUsername, msg) {
		return m.focusOn(focusUsername)
	}

	for i, opt := range languageOptions {
		if inZone(zoneLanguage(i), msg) {
			m, _ = m.focusOn(focusLanguage)
			m.langCursor = i
			return m.change(registration.FieldFavLanguage, registration.RadioInput(opt.Value)), nil
		}
	}

	if inZone(zoneFoodPrev, msg) || inZone(zoneFoodNext, msg) {
		m, _ = m.focusOn(focusFood)
		current := indexOf(foodOptions, m.state.Values().FavFood)
		next := min(current+1, len(foodOptions)-1)
		if inZone(zoneFoodPrev, msg) {
			next = max(current-1, 0)
		}
		if next != current {
			m = m.change(registration.FieldFavFood, registration.SelectInput(foodOptions[next].Value))
		}
		return m, nil
	}

	if inZone(zoneAgreement, msg) {
		m, _ = m.focusOn(focusAgreement)
		return m.change(registration.FieldAgreement, registration.CheckboxInput(!m.state.Values().Agreement)), nil
	}

	return m, nil
}
