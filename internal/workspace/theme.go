package workspace

import "github.com/charmbracelet/lipgloss"

// Theme holds the styles used for layout chrome. Styles must not add padding
// or borders; every element is sized by the layout.
type Theme struct {
	Header        lipgloss.Style
	ActiveTab     lipgloss.Style
	FocusedTab    lipgloss.Style
	InactiveTab   lipgloss.Style
	Close         lipgloss.Style
	Toggle        lipgloss.Style
	Strip         lipgloss.Style
	Divider       lipgloss.Style
	DividerActive lipgloss.Style
	Placeholder   lipgloss.Style
}

var (
	colorText     lipgloss.Color = "#cdd6f4"
	colorMuted    lipgloss.Color = "#a6adc8"
	colorBorder   lipgloss.Color = "#585b70"
	colorAccent   lipgloss.Color = "#89b4fa"
	colorSuccess  lipgloss.Color = "#a6e3a1"
	colorError    lipgloss.Color = "#f38ba8"
	colorTabOff   lipgloss.Color = "#7f849c"
	colorMantle   lipgloss.Color = "#181825"
	colorSurface0 lipgloss.Color = "#313244"
)

func MochaTheme() Theme {
	return Theme{
		Header:        lipgloss.NewStyle().Background(colorMantle).Foreground(colorText),
		ActiveTab:     lipgloss.NewStyle().Background(colorSurface0).Foreground(colorAccent).Bold(true),
		FocusedTab:    lipgloss.NewStyle().Background(colorSurface0).Foreground(colorSuccess).Bold(true),
		InactiveTab:   lipgloss.NewStyle().Background(colorMantle).Foreground(colorTabOff),
		Close:         lipgloss.NewStyle().Background(colorMantle).Foreground(colorError),
		Toggle:        lipgloss.NewStyle().Background(colorMantle).Foreground(colorMuted),
		Strip:         lipgloss.NewStyle().Background(colorMantle).Foreground(colorMuted),
		Divider:       lipgloss.NewStyle().Foreground(colorBorder),
		DividerActive: lipgloss.NewStyle().Foreground(colorAccent),
		Placeholder:   lipgloss.NewStyle().Foreground(colorMuted).Italic(true),
	}
}

// PlainTheme only marks the active tab.
func PlainTheme() Theme {
	plain := lipgloss.NewStyle()
	return Theme{
		Header:        plain,
		ActiveTab:     plain.Bold(true),
		FocusedTab:    plain.Bold(true).Underline(true),
		InactiveTab:   plain,
		Close:         plain,
		Toggle:        plain,
		Strip:         plain,
		Divider:       plain,
		DividerActive: plain.Bold(true),
		Placeholder:   plain,
	}
}

// ThemeByName resolves the names accepted by the ui.theme setting.
func ThemeByName(name string) (Theme, bool) {
	switch name {
	case "", "mocha":
		return MochaTheme(), true
	case "plain":
		return PlainTheme(), true
	}
	return Theme{}, false
}
