// Package styles contains Lip Gloss style definitions.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Text hierarchy
	TextPrimaryColor     = lipgloss.AdaptiveColor{Light: "#1F1F1F", Dark: "#CCCCCC"}
	TextMutedColor       = lipgloss.AdaptiveColor{Light: "#8C8C8C", Dark: "#696969"} // Hints, help text, footers
	TextPlaceholderColor = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#777777"}

	BorderDefaultColor        = lipgloss.AdaptiveColor{Light: "#B0B0B0", Dark: "#696969"}
	BorderHighlightFocusColor = lipgloss.AdaptiveColor{Light: "#54A0FF", Dark: "#54A0FF"}

	StatusSuccessColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	StatusErrorColor   = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"}
	StatusWarningColor = lipgloss.AdaptiveColor{Light: "#FFA94D", Dark: "#FFA94D"}
	StatusInfoColor    = lipgloss.AdaptiveColor{Light: "#54A0FF", Dark: "#54A0FF"}

	SelectionIndicatorColor = lipgloss.AdaptiveColor{Light: "#1F1F1F", Dark: "#FFFFFF"}
	SpinnerColor            = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#FFF"}

	// Button colors
	ButtonTextColor           = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#FFFFFF"}
	ButtonPrimaryBgColor      = lipgloss.AdaptiveColor{Light: "#1A5276", Dark: "#1A5276"}
	ButtonPrimaryFocusBgColor = lipgloss.AdaptiveColor{Light: "#3498DB", Dark: "#3498DB"}
	ButtonDisabledTextColor   = lipgloss.AdaptiveColor{Light: "#9A9A9A", Dark: "#6E6E6E"}
	ButtonDisabledBgColor     = lipgloss.AdaptiveColor{Light: "#DADADA", Dark: "#2D2D2D"}

	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(TextPrimaryColor)
	LabelStyle = lipgloss.NewStyle().Foreground(TextPrimaryColor)
	HintStyle  = lipgloss.NewStyle().Foreground(TextMutedColor)

	SelectionIndicatorStyle = lipgloss.NewStyle().Bold(true).Foreground(SelectionIndicatorColor)

	// FieldErrorStyle renders the message under an invalid field.
	FieldErrorStyle = lipgloss.NewStyle().Foreground(StatusErrorColor)

	SuccessMessageStyle = lipgloss.NewStyle().Foreground(StatusSuccessColor).Bold(true)
	FailureMessageStyle = lipgloss.NewStyle().Foreground(StatusErrorColor).Bold(true)

	baseButtonStyle = lipgloss.NewStyle().Padding(0, 2).Bold(true)

	PrimaryButtonStyle = baseButtonStyle.
				Foreground(ButtonTextColor).
				Background(ButtonPrimaryBgColor)

	PrimaryButtonFocusedStyle = baseButtonStyle.
					Foreground(ButtonTextColor).
					Background(ButtonPrimaryFocusBgColor).
					Underline(true).
					UnderlineSpaces(true)

	// DisabledButtonStyle is used whether or not the button has focus.
	DisabledButtonStyle = baseButtonStyle.
				Bold(false).
				Foreground(ButtonDisabledTextColor).
				Background(ButtonDisabledBgColor)

	FooterStyle = lipgloss.NewStyle().Foreground(TextMutedColor)
)

// ButtonStyle picks the submit button style for its state.
func ButtonStyle(enabled, focused bool) lipgloss.Style {
	switch {
	case !enabled:
		return DisabledButtonStyle
	case focused:
		return PrimaryButtonFocusedStyle
	default:
		return PrimaryButtonStyle
	}
}
