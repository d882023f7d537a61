// Package ui provides the terminal user interface for System Settings.
// This file contains the root model: the page registry, the sidebar
// selector and the dispatch loop.
package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yllada/system-settings/common"
	"github.com/yllada/system-settings/config"
	"github.com/yllada/system-settings/pages"
)

// Services bundles the domain adapters the pages run against.
type Services struct {
	Accounts   common.AccountService
	Sound      common.SoundService
	Locale     common.LocaleService
	Network    common.NetworkService
	Bluetooth  common.BluetoothService
	Appearance common.AppearanceService
}

// App is the shell: it owns every page state and the current
// selector. Switching pages never resets the outgoing page; a page's
// snapshot is loaded the first time its tab is shown.
type App struct {
	pages       []pages.Page
	index       map[string]int
	initialized []bool
	current     int

	width  int
	height int

	// elevated reports whether a pkexec-elevated command has
	// succeeded this session; nil when unknown.
	elevated func() bool

	log      common.Logger
	quitting bool
}

// NewApp assembles the shell. currentUID and admin describe the
// logged-in user for the accounts page.
func NewApp(cfg *config.Config, svcs Services, elevated func() bool, currentUID uint32, admin bool) *App {
	applyTheme(cfg.Theme)

	pageList := []pages.Page{
		pages.NewUsersPage(svcs.Accounts, currentUID, admin, cfg.ShowSystemAccounts, cfg.ConfirmDestructive),
		pages.NewNetworkPage(svcs.Network),
		pages.NewBluetoothPage(svcs.Bluetooth),
		pages.NewSoundPage(svcs.Sound),
		pages.NewDateTimePage(svcs.Locale),
		pages.NewLanguagePage(svcs.Locale),
		pages.NewAppearancePage(svcs.Appearance),
	}

	index := make(map[string]int, len(pageList))
	for i, p := range pageList {
		index[p.ID()] = i
	}

	app := &App{
		pages:       pageList,
		index:       index,
		initialized: make([]bool, len(pageList)),
		elevated:    elevated,
		log:         common.GetLogger(),
	}
	if i, ok := index[cfg.DefaultPage]; ok {
		app.current = i
	}
	return app
}

func (a *App) Init() tea.Cmd {
	a.initialized[a.current] = true
	return a.pages[a.current].Init()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "ctrl+q":
			a.quitting = true
			return a, tea.Quit
		case "ctrl+n":
			return a, a.selectPage((a.current + 1) % len(a.pages))
		case "ctrl+p":
			return a, a.selectPage((a.current + len(a.pages) - 1) % len(a.pages))
		}
		// Keyboard input belongs to the current page only.
		return a.dispatch(a.current, msg)

	case pages.Routed:
		// Completions land on their owning page, current or not.
		if i, ok := a.index[msg.Route()]; ok {
			return a.dispatch(i, msg)
		}
		return a, nil
	}

	// Remaining host messages (blink ticks and the like) go to the
	// current page.
	return a.dispatch(a.current, msg)
}

// selectPage moves the selector. The outgoing page keeps its state;
// the incoming page loads its snapshot on first show.
func (a *App) selectPage(i int) tea.Cmd {
	if i == a.current {
		return nil
	}
	a.current = i
	if !a.initialized[i] {
		a.initialized[i] = true
		return a.pages[i].Init()
	}
	return nil
}

// dispatch hands one message to one page and stores the successor.
func (a *App) dispatch(i int, msg tea.Msg) (tea.Model, tea.Cmd) {
	page, cmd := a.pages[i].Update(msg)
	a.pages[i] = page
	return a, cmd
}

func (a *App) View() string {
	if a.quitting {
		return ""
	}

	sidebar := a.viewSidebar()

	contentWidth := a.width - common.SidebarWidth - 4
	if contentWidth < common.MinContentWidth {
		contentWidth = common.MinContentWidth
	}
	content := contentStyle.Render(a.pages[a.current].View(contentWidth))

	body := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, content)
	return body + "\n" + a.viewFooter()
}

func (a *App) viewSidebar() string {
	var b strings.Builder
	b.WriteString(sidebarTitleStyle.Render(common.AppName))
	b.WriteString("\n")
	for i, p := range a.pages {
		if i == a.current {
			b.WriteString(sidebarActiveStyle.Render("› " + p.Title()))
		} else {
			b.WriteString(sidebarItemStyle.Render("  " + p.Title()))
		}
		b.WriteString("\n")
	}
	return sidebarStyle.Render(b.String())
}

func (a *App) viewFooter() string {
	hint := "ctrl+n/ctrl+p switch page · ctrl+c quit"
	if a.elevated != nil && a.elevated() {
		hint += "  " + elevatedStyle.Render("● elevated")
	}
	return footerStyle.Render(hint)
}
