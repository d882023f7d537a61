// Package pages contains the settings page state machines. Each page
// is a self-contained unit: a state record, a closed message family,
// an update transition and a view projection. Pages never block inside
// update or view; mutating adapter calls are returned as commands and
// their results come back as completion messages.
package pages

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/yllada/system-settings/common"
)

// Page identifiers, used for routing completion messages and for the
// sidebar order.
const (
	PageUsers      = "users"
	PageNetwork    = "network"
	PageBluetooth  = "bluetooth"
	PageSound      = "sound"
	PageDateTime   = "datetime"
	PageLanguage   = "language"
	PageAppearance = "appearance"
)

// Page is the contract every settings page satisfies. Update is the
// only place page state changes; a message the page does not
// understand is a no-op. View is a pure projection of the state.
type Page interface {
	// ID returns the stable page identifier.
	ID() string
	// Title returns the sidebar label.
	Title() string
	// Init returns the command loading the page's first snapshot.
	Init() tea.Cmd
	// Update applies one message and returns the successor state with
	// an optional effect command.
	Update(msg tea.Msg) (Page, tea.Cmd)
	// View renders the page into the given content width.
	View(width int) string
}

// Routed is implemented by completion messages so the shell can
// deliver them to their owning page even when another page is
// current.
type Routed interface {
	// Route returns the identifier of the owning page.
	Route() string
}

// newToken mints a commit token. A page records the token of its
// in-flight command and drops completions carrying any other token,
// so starting a new edit silently overrides a stale commit.
func newToken() string {
	return uuid.NewString()
}

// describeError renders an adapter failure for the page banner.
func describeError(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, common.ErrPermissionDenied):
		return "Authorization required — retry to prompt again"
	case errors.Is(err, common.ErrConflict):
		return "Changed outside this window — list refreshed, edits kept"
	case errors.Is(err, common.ErrNotFound):
		return "No longer exists — list refreshed"
	case errors.Is(err, common.ErrInvalidInput):
		return err.Error()
	default:
		return err.Error()
	}
}

// checkbox renders a toggle marker.
func checkbox(on bool) string {
	if on {
		return "[x]"
	}
	return "[ ]"
}

// Shared page styles. The palette mirrors the desktop accent colors.
var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(common.ColorBlue))
	headerStyle = lipgloss.NewStyle().Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	cursorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(common.ColorBlue))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(common.ColorGreen))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(common.ColorYellow))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(common.ColorRed))
	tabStyle    = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("243"))
	tabActive   = lipgloss.NewStyle().Padding(0, 1).Bold(true).
			Foreground(lipgloss.Color(common.ColorBlue)).Underline(true)
)

// banner renders the error/notice line or nothing.
func banner(errText, notice string) string {
	switch {
	case errText != "":
		return errStyle.Render("✗ " + errText)
	case notice != "":
		return okStyle.Render("✓ " + notice)
	}
	return ""
}
