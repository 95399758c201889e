package ui

import "github.com/charmbracelet/lipgloss"

type Theme struct {
	Header   lipgloss.Style
	Prompt   lipgloss.Style
	Category lipgloss.Style
	Choice   lipgloss.Style
	Accent   lipgloss.Style
	Pass     lipgloss.Style
	Fail     lipgloss.Style
	Muted    lipgloss.Style
	Panel    lipgloss.Style
}

func DefaultTheme() Theme {
	mint := lipgloss.Color("#67F0A8")
	brick := lipgloss.Color("#FF6F91")
	blue := lipgloss.Color("#5EEBFF")
	powder := lipgloss.Color("#EAF2FF")
	ink := lipgloss.Color("#0E1420")
	border := lipgloss.Color("#4B5F8A")
	dim := lipgloss.Color("#8291B0")

	return Theme{
		Header: lipgloss.NewStyle().
			Background(ink).
			Foreground(powder).
			Padding(0, 1),
		Prompt: lipgloss.NewStyle().
			Foreground(powder).
			Bold(true),
		Category: lipgloss.NewStyle().
			Foreground(dim).
			Italic(true),
		Choice: lipgloss.NewStyle().
			Foreground(powder),
		Accent: lipgloss.NewStyle().
			Foreground(blue).
			Bold(true),
		Pass: lipgloss.NewStyle().
			Foreground(mint).
			Bold(true),
		Fail: lipgloss.NewStyle().
			Foreground(brick).
			Bold(true),
		Muted: lipgloss.NewStyle().
			Foreground(dim),
		Panel: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(1, 2),
	}
}
