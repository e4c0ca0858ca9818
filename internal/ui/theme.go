package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/shaladdle/rcopy/internal/config"
)

// Catppuccin Mocha palette; config can override any color.
var (
	ColorGreen  = lipgloss.Color("#a6e3a1")
	ColorBlue   = lipgloss.Color("#89b4fa")
	ColorYellow = lipgloss.Color("#f9e2af")
	ColorRed    = lipgloss.Color("#f38ba8")
	ColorMuted  = lipgloss.Color("#5a6278")
	ColorBright = lipgloss.Color("#cdd6f4")
)

// Styles rebuilt by rebuildStyles after color changes.
var (
	styleIconDone    lipgloss.Style
	styleIconFailed  lipgloss.Style
	styleIconSkipped lipgloss.Style
	styleIconRetry   lipgloss.Style
	styleFilePath    lipgloss.Style
	styleFileSize    lipgloss.Style
	styleFileSpeed   lipgloss.Style
	stylePercent     lipgloss.Style
	styleError       lipgloss.Style
)

func init() {
	rebuildStyles()
}

func rebuildStyles() {
	styleIconDone = lipgloss.NewStyle().Foreground(ColorGreen)
	styleIconFailed = lipgloss.NewStyle().Foreground(ColorRed)
	styleIconSkipped = lipgloss.NewStyle().Foreground(ColorMuted)
	styleIconRetry = lipgloss.NewStyle().Foreground(ColorYellow)
	styleFilePath = lipgloss.NewStyle().Foreground(ColorBright)
	styleFileSize = lipgloss.NewStyle().Foreground(ColorMuted)
	styleFileSpeed = lipgloss.NewStyle().Foreground(ColorBlue)
	stylePercent = lipgloss.NewStyle().Bold(true).Foreground(ColorGreen)
	styleError = lipgloss.NewStyle().Foreground(ColorRed)
}

// ApplyTheme overrides colors from the config file and rebuilds all styles.
func ApplyTheme(tc config.ThemeConfig) {
	set := func(dst *lipgloss.Color, v *string) {
		if v != nil {
			*dst = lipgloss.Color(*v)
		}
	}
	set(&ColorGreen, tc.Green)
	set(&ColorBlue, tc.Blue)
	set(&ColorYellow, tc.Yellow)
	set(&ColorRed, tc.Red)
	set(&ColorMuted, tc.Muted)
	set(&ColorBright, tc.Bright)
	rebuildStyles()
}
