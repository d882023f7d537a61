// Package ui provides the terminal user interface for System Settings.
// This file contains the lipgloss styles shared by the shell. The
// palette follows the desktop accent colors so the panel blends in
// with the rest of the system.
package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/yllada/system-settings/common"
)

var (
	// Sidebar.
	sidebarStyle = lipgloss.NewStyle().
			Width(common.SidebarWidth).
			Padding(1, 2).
			Border(lipgloss.NormalBorder(), false, true, false, false).
			BorderForeground(lipgloss.Color("238"))

	sidebarTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color(common.ColorBlue)).
				MarginBottom(1)

	sidebarItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("250"))

	sidebarActiveStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color(common.ColorBlue))

	// Page body.
	contentStyle = lipgloss.NewStyle().
			Padding(1, 2)

	// Footer.
	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			Padding(0, 2)

	elevatedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(common.ColorYellow))
)

// chrome is the theme-dependent neutral palette. Accent colors stay
// fixed across themes.
type chrome struct {
	border lipgloss.TerminalColor
	item   lipgloss.TerminalColor
	muted  lipgloss.TerminalColor
}

func themeChrome(theme string) chrome {
	switch theme {
	case common.ThemeLight:
		return chrome{
			border: lipgloss.Color("250"),
			item:   lipgloss.Color("238"),
			muted:  lipgloss.Color("245"),
		}
	case common.ThemeDark:
		return chrome{
			border: lipgloss.Color("238"),
			item:   lipgloss.Color("250"),
			muted:  lipgloss.Color("243"),
		}
	default:
		// Auto: let the terminal background pick the variant.
		return chrome{
			border: lipgloss.AdaptiveColor{Light: "250", Dark: "238"},
			item:   lipgloss.AdaptiveColor{Light: "238", Dark: "250"},
			muted:  lipgloss.AdaptiveColor{Light: "245", Dark: "243"},
		}
	}
}

// applyTheme rebuilds the chrome styles for the configured theme.
func applyTheme(theme string) {
	c := themeChrome(theme)
	sidebarStyle = sidebarStyle.BorderForeground(c.border)
	sidebarItemStyle = sidebarItemStyle.Foreground(c.item)
	footerStyle = footerStyle.Foreground(c.muted)
}
