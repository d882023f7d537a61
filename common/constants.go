// Package common provides shared constants, types, and utilities
// used across the System Settings application.
package common

import "time"

// Application metadata.
const (
	// AppID is the unique identifier for the application.
	AppID = "com.yllada.SystemSettings"
	// AppName is the display name of the application.
	AppName = "System Settings"
	// ConfigDirName is the name of the configuration directory.
	ConfigDirName = "system-settings"
)

// File names used by the application.
const (
	ConfigFileName = "config.yaml"
	LogFileName    = "system-settings.log"
)

// Default timeouts for adapter commands.
const (
	// CommandTimeout bounds every exec-based adapter call.
	CommandTimeout = 10 * time.Second
	// ElevatedTimeout bounds pkexec-elevated commands; it is longer
	// because the polkit agent may be waiting on the user.
	ElevatedTimeout = 2 * time.Minute
	// BusTimeout bounds D-Bus method calls.
	BusTimeout = 5 * time.Second
)

// UI constants.
const (
	// SidebarWidth is the width of the page selector column.
	SidebarWidth = 22
	// MinContentWidth is the smallest usable page body width.
	MinContentWidth = 40
	// VolumeStep is the slider increment for volume adjustments.
	VolumeStep = 5
)

// Theme values.
const (
	ThemeAuto  = "auto"
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Accent palette (GNOME defaults).
const (
	ColorGreen  = "#2ec27e"
	ColorRed    = "#e01b24"
	ColorBlue   = "#3584e4"
	ColorYellow = "#e5a50a"
)
