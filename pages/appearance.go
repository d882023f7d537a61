package pages

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/yllada/system-settings/common"
)

type appearanceLoadedMsg struct {
	token   string
	themes  []common.IconTheme
	current string
	err     error
}

func (appearanceLoadedMsg) Route() string { return PageAppearance }

type appearanceCommittedMsg struct {
	token string
	name  string
	err   error
}

func (appearanceCommittedMsg) Route() string { return PageAppearance }

// AppearancePage lists the installed icon themes and activates the
// selected one.
type AppearancePage struct {
	svc common.AppearanceService
	log common.Logger

	themes  []common.IconTheme
	current string

	cursor  int
	loaded  bool
	pending string
	errText string
	notice  string
}

func NewAppearancePage(svc common.AppearanceService) *AppearancePage {
	return &AppearancePage{svc: svc, log: common.GetLogger()}
}

func (p *AppearancePage) ID() string    { return PageAppearance }
func (p *AppearancePage) Title() string { return "Appearance" }

func (p *AppearancePage) Init() tea.Cmd {
	return p.loadCmd()
}

func (p *AppearancePage) loadCmd() tea.Cmd {
	token := newToken()
	p.pending = token
	svc := p.svc
	return func() tea.Msg {
		themes, err := svc.ListIconThemes()
		if err != nil {
			return appearanceLoadedMsg{token: token, err: err}
		}
		current, err := svc.CurrentIconTheme()
		return appearanceLoadedMsg{token: token, themes: themes, current: current, err: err}
	}
}

func (p *AppearancePage) Update(msg tea.Msg) (Page, tea.Cmd) {
	switch msg := msg.(type) {
	case appearanceLoadedMsg:
		if msg.token != p.pending {
			return p, nil
		}
		p.pending = ""
		if msg.err != nil {
			p.errText = describeError(msg.err)
			return p, nil
		}
		p.themes = msg.themes
		p.current = msg.current
		p.loaded = true
		p.errText = ""
		if p.cursor >= len(p.themes) {
			p.cursor = 0
		}
		return p, nil

	case appearanceCommittedMsg:
		if msg.token != p.pending {
			return p, nil
		}
		p.pending = ""
		if msg.err != nil {
			p.errText = describeError(msg.err)
			return p, p.loadCmd()
		}
		p.current = msg.name
		p.errText = ""
		p.notice = "icon theme applied"
		return p, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if p.cursor > 0 {
				p.cursor--
			}
		case "down", "j":
			if p.cursor < len(p.themes)-1 {
				p.cursor++
			}
		case "enter":
			if p.cursor < 0 || p.cursor >= len(p.themes) {
				return p, nil
			}
			name := p.themes[p.cursor].Name
			if name == p.current {
				return p, nil
			}
			token := newToken()
			p.pending = token
			svc := p.svc
			return p, func() tea.Msg {
				return appearanceCommittedMsg{token: token, name: name, err: svc.SetIconTheme(name)}
			}
		case "r":
			return p, p.loadCmd()
		}
	}
	return p, nil
}

func (p *AppearancePage) View(width int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(p.Title()))
	b.WriteString("\n\n")

	if !p.loaded {
		b.WriteString(dimStyle.Render("loading…") + "\n")
		return b.String()
	}

	b.WriteString(headerStyle.Render("Icon theme") + "\n")
	for i, theme := range p.themes {
		marker := "  "
		if theme.Name == p.current {
			marker = okStyle.Render("● ")
		}
		line := marker + theme.Name
		if i == p.cursor {
			line = cursorStyle.Render("> ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}
	if len(p.themes) == 0 {
		b.WriteString(dimStyle.Render("no icon themes found") + "\n")
	}

	b.WriteString("\n" + dimStyle.Render("enter apply · r reload") + "\n")
	if line := banner(p.errText, p.notice); line != "" {
		b.WriteString(line + "\n")
	}
	return b.String()
}
